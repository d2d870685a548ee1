package engine

import (
	"context"

	"github.com/yaklabco/gomddeep/pkg/markdown"
)

// Deep renders with the MarkdownDeep transformer. Each Convert call uses a
// fresh markdown.Document, so one Deep may serve many goroutines.
type Deep struct {
	opts markdown.Options
}

// NewDeep returns a MarkdownDeep engine for opts.
func NewDeep(opts markdown.Options) *Deep {
	return &Deep{opts: opts}
}

// Name implements Engine.
func (d *Deep) Name() string { return NameDeep }

// Convert implements Engine.
func (d *Deep) Convert(ctx context.Context, src []byte) ([]byte, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	return []byte(markdown.New(d.opts).Transform(string(src))), nil
}

// Document converts src and returns the document alongside the HTML, for
// callers that need its link definitions or head content.
func (d *Deep) Document(ctx context.Context, src []byte) (*markdown.Document, []byte, error) {
	if err := checkContext(ctx); err != nil {
		return nil, nil, err
	}
	doc := markdown.New(d.opts)
	out := doc.Transform(string(src))
	return doc, []byte(out), nil
}
