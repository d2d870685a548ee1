package engine

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/yaklabco/gomddeep/pkg/markdown"
)

// Goldmark flavors.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Goldmark renders with goldmark. It is the reference engine used to
// compare output against a CommonMark implementation.
type Goldmark struct {
	flavor string
	md     goldmark.Markdown
}

// NewGoldmark returns a goldmark engine for flavor. Unknown flavors fall
// back to CommonMark. Of opts, SafeMode, ExtraMode and AutoHeadingIDs are
// honored.
func NewGoldmark(flavor string, opts markdown.Options) *Goldmark {
	f := flavorOrDefault(flavor)
	return &Goldmark{
		flavor: f,
		md:     newGoldmarkInstance(f, opts),
	}
}

// Name implements Engine.
func (g *Goldmark) Name() string { return NameGoldmark }

// Flavor returns the configured flavor.
func (g *Goldmark) Flavor() string { return g.flavor }

// Convert implements Engine.
func (g *Goldmark) Convert(ctx context.Context, src []byte) ([]byte, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := g.md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("goldmark convert: %w", err)
	}
	return buf.Bytes(), nil
}

func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorCommonMark
	}
}

//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string, opts markdown.Options) goldmark.Markdown {
	var extensions []goldmark.Extender
	switch flavor {
	case FlavorGFM:
		extensions = append(extensions, extension.GFM)
	case FlavorCommonMark:
		if opts.ExtraMode {
			extensions = append(extensions, extension.Table)
		}
	}
	if opts.ExtraMode {
		extensions = append(extensions, extension.Footnote, extension.DefinitionList)
	}

	var parserOpts []parser.Option
	if opts.AutoHeadingIDs {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}
	if opts.ExtraMode && !opts.SafeMode {
		parserOpts = append(parserOpts, parser.WithAttribute())
	}

	rendererOpts := []renderer.Option{html.WithXHTML()}
	if !opts.SafeMode {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}

	return goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(parserOpts...),
		goldmark.WithRendererOptions(rendererOpts...),
	)
}
