package engine_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomddeep/pkg/engine"
	"github.com/yaklabco/gomddeep/pkg/markdown"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		engine   string
		wantName string
		wantErr  bool
	}{
		{name: "default", engine: "", wantName: engine.NameDeep},
		{name: "deep", engine: engine.NameDeep, wantName: engine.NameDeep},
		{name: "goldmark", engine: engine.NameGoldmark, wantName: engine.NameGoldmark},
		{name: "unknown", engine: "pandoc", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			eng, err := engine.New(testCase.engine, engine.Options{Markdown: markdown.DefaultOptions()})
			if testCase.wantErr {
				require.ErrorIs(t, err, engine.ErrUnknownEngine)
				assert.Nil(t, eng)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.wantName, eng.Name())
		})
	}
}

func TestNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"deep", "goldmark"}, engine.Names())
}

func TestConvert(t *testing.T) {
	t.Parallel()

	src := []byte("# Title\n\nHello *world*\n")

	for _, name := range engine.Names() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			eng, err := engine.New(name, engine.Options{Markdown: markdown.DefaultOptions()})
			require.NoError(t, err)

			out, err := eng.Convert(context.Background(), src)
			require.NoError(t, err)
			assert.Contains(t, string(out), "<h1")
			assert.Contains(t, string(out), "<em>world</em>")
		})
	}
}

func TestConvert_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, name := range engine.Names() {
		eng, err := engine.New(name, engine.Options{})
		require.NoError(t, err)

		_, err = eng.Convert(ctx, []byte("text"))
		require.ErrorIs(t, err, context.Canceled, name)
	}
}

func TestDeep_Document(t *testing.T) {
	t.Parallel()

	deep := engine.NewDeep(markdown.DefaultOptions())
	doc, out, err := deep.Document(context.Background(), []byte("[x]: http://x.com\n\nSee [x].\n"))
	require.NoError(t, err)

	assert.Len(t, doc.LinkDefinitions(), 1)
	assert.Equal(t, "<p>See <a href=\"http://x.com\">x</a>.</p>\n", string(out))
}

func TestGoldmark_Flavor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		flavor string
		want   string
	}{
		{flavor: engine.FlavorGFM, want: engine.FlavorGFM},
		{flavor: engine.FlavorCommonMark, want: engine.FlavorCommonMark},
		{flavor: "bogus", want: engine.FlavorCommonMark},
	}

	for _, testCase := range tests {
		assert.Equal(t, testCase.want, engine.NewGoldmark(testCase.flavor, markdown.Options{}).Flavor())
	}
}

func TestGoldmark_SafeMode(t *testing.T) {
	t.Parallel()

	src := []byte("<script>alert(1)</script>\n\ntext\n")

	unsafe, err := engine.NewGoldmark(engine.FlavorCommonMark, markdown.Options{}).Convert(context.Background(), src)
	require.NoError(t, err)
	assert.Contains(t, string(unsafe), "<script>")

	safe, err := engine.NewGoldmark(engine.FlavorCommonMark, markdown.Options{SafeMode: true}).Convert(context.Background(), src)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(safe), "<script>"))
}
