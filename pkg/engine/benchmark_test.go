package engine_test

import (
	"context"
	"strings"
	"testing"

	"github.com/yaklabco/gomddeep/pkg/engine"
	"github.com/yaklabco/gomddeep/pkg/markdown"
)

const benchDocument = `# Title

Some *emphasis*, **strong** text and a [link](http://example.com "Example").

> A quote with ` + "`code`" + `.

* one
* two
    * nested

1. first
2. second

` + "```go\nfunc main() {}\n```" + `

| a | b |
|---|---|
| 1 | 2 |
`

func benchmarkEngine(b *testing.B, name, flavor string) {
	b.Helper()

	conv, err := engine.New(name, engine.Options{Markdown: markdown.DefaultOptions(), Flavor: flavor})
	if err != nil {
		b.Fatal(err)
	}

	src := []byte(strings.Repeat(benchDocument, 20))
	ctx := context.Background()

	b.SetBytes(int64(len(src)))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := conv.Convert(ctx, src); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDeep(b *testing.B) {
	benchmarkEngine(b, engine.NameDeep, "")
}

func BenchmarkGoldmarkCommonMark(b *testing.B) {
	benchmarkEngine(b, engine.NameGoldmark, "commonmark")
}

func BenchmarkGoldmarkGFM(b *testing.B) {
	benchmarkEngine(b, engine.NameGoldmark, "gfm")
}
