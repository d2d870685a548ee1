// Package reporter prints conversion results and link reference tables.
package reporter

import (
	"bufio"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/gomddeep/internal/ui/pretty"
	"github.com/yaklabco/gomddeep/pkg/runner"
)

// Format names a report layout.
type Format string

const (
	FormatText    Format = "text"
	FormatTable   Format = "table"
	FormatSummary Format = "summary"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
)

var formatAliases = map[string]Format{"": FormatText, "yml": FormatYAML}

// ParseFormat resolves a --format value.
func ParseFormat(name string) (Format, error) {
	if format, ok := formatAliases[name]; ok {
		return format, nil
	}
	if format := Format(name); format.IsValid() {
		return format, nil
	}
	return "", fmt.Errorf("unknown format %q; valid formats: %s", name, strings.Join(formatNames(), ", "))
}

func (f Format) String() string { return string(f) }

// IsValid reports whether f is a known format.
func (f Format) IsValid() bool {
	_, ok := renderers[f]
	return ok
}

func formatNames() []string {
	names := make([]string, 0, len(renderers))
	for format := range renderers {
		names = append(names, string(format))
	}
	slices.Sort(names)
	return names
}

// Reporter writes a conversion result.
type Reporter interface {
	// Report writes result and returns the number of failed files.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// bufWriterSize is the output buffer of a single report.
const bufWriterSize = 64 * 1024

// output is what a render function writes with.
type output struct {
	w      *bufio.Writer
	opts   Options
	styles *pretty.Styles
	color  bool
}

type renderFunc func(out *output, result *runner.Result) (int, error)

var renderers = map[Format]renderFunc{
	FormatText:    renderText,
	FormatTable:   renderTable,
	FormatSummary: renderSummary,
	FormatJSON:    renderJSON,
	FormatYAML:    renderYAML,
}

type formatReporter struct {
	opts   Options
	render renderFunc
}

// New returns the Reporter for opts.Format; an empty format means text.
func New(opts Options) (Reporter, error) {
	opts = opts.withDefaults()
	render, ok := renderers[opts.Format]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}
	return &formatReporter{opts: opts, render: render}, nil
}

func (r *formatReporter) Report(_ context.Context, result *runner.Result) (failed int, err error) {
	err = withOutput(r.opts, func(out *output) error {
		var renderErr error
		failed, renderErr = r.render(out, result)
		return renderErr
	})
	return failed, err
}

// withOutput runs fn against a buffered writer for opts and flushes it.
func withOutput(opts Options, fn func(out *output) error) error {
	color := pretty.IsColorEnabled(opts.Color, opts.Writer)
	out := &output{
		w:      bufio.NewWriterSize(opts.Writer, bufWriterSize),
		opts:   opts,
		styles: pretty.NewStyles(color),
		color:  color,
	}
	err := fn(out)
	if flushErr := out.w.Flush(); err == nil {
		err = flushErr
	}
	return err
}
