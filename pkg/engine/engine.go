// Package engine converts markdown documents to HTML behind a common
// interface, so callers can switch between the MarkdownDeep renderer and
// the goldmark reference renderer by name.
package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/yaklabco/gomddeep/pkg/markdown"
)

// Engine names accepted by New.
const (
	NameDeep     = "deep"
	NameGoldmark = "goldmark"
)

// ErrUnknownEngine is returned by New for an unregistered engine name.
var ErrUnknownEngine = errors.New("unknown engine")

// Engine converts one markdown document to HTML.
type Engine interface {
	// Name returns the registered engine name.
	Name() string

	// Convert renders src. Implementations must be safe for concurrent use.
	Convert(ctx context.Context, src []byte) ([]byte, error)
}

// Options configures an engine. Markdown drives the MarkdownDeep engine and
// the subset of it the goldmark engine understands; Flavor selects the
// goldmark dialect.
type Options struct {
	Markdown markdown.Options
	Flavor   string
}

// Names returns the registered engine names in sorted order.
func Names() []string {
	names := []string{NameDeep, NameGoldmark}
	slices.Sort(names)
	return names
}

// New returns the engine registered under name. An empty name selects
// the MarkdownDeep engine.
//
//nolint:ireturn // callers select the implementation by name
func New(name string, opts Options) (Engine, error) {
	switch name {
	case "", NameDeep:
		return NewDeep(opts.Markdown), nil
	case NameGoldmark:
		return NewGoldmark(opts.Flavor, opts.Markdown), nil
	default:
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownEngine, name, Names())
	}
}

func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("convert cancelled: %w", err)
	}
	return nil
}
