package configloader

import (
	"testing"

	"github.com/yaklabco/gomddeep/pkg/config"
)

func TestMergeAll(t *testing.T) {
	t.Parallel()

	if MergeAll() != nil {
		t.Error("MergeAll() with no configs should be nil")
	}

	base := config.NewConfig()
	base.Ignore = []string{"vendor/**"}
	base.Markdown.SafeMode = config.Bool(true)
	base.Markdown.SectionHeader = "<section>"

	middle := &config.Config{
		Engine:   config.EngineGoldmark,
		Markdown: config.MarkdownConfig{MaxNesting: 4},
	}
	top := &config.Config{
		Ignore:   []string{},
		Markdown: config.MarkdownConfig{SafeMode: config.Bool(false)},
	}

	got := MergeAll(base, middle, top)

	if got.Engine != config.EngineGoldmark {
		t.Errorf("expected engine from middle layer, got %q", got.Engine)
	}
	if got.Flavor != config.FlavorCommonMark {
		t.Errorf("expected unset flavor to keep base, got %q", got.Flavor)
	}
	if got.Ignore == nil || len(got.Ignore) != 0 {
		t.Errorf("expected non-nil empty slice to replace base, got %v", got.Ignore)
	}
	if got.Markdown.SafeMode == nil || *got.Markdown.SafeMode {
		t.Error("expected explicit false to override true")
	}
	if got.Markdown.MaxNesting != 4 {
		t.Errorf("expected max_nesting 4, got %d", got.Markdown.MaxNesting)
	}
	if got.Markdown.SectionHeader != "<section>" {
		t.Errorf("expected section header from base, got %q", got.Markdown.SectionHeader)
	}
	if base.Engine != config.EngineDeep {
		t.Error("merge must not modify its inputs")
	}
}
