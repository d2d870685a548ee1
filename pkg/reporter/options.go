package reporter

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Options configures a report.
type Options struct {
	// Writer defaults to os.Stdout.
	Writer io.Writer

	Format Format

	// Color is "auto", "always" or "never".
	Color string

	// ShowSummary appends aggregate statistics.
	ShowSummary bool

	// Verbose lists every file, not only the ones that were written or failed.
	Verbose bool

	// Compact writes single-line JSON.
	Compact bool

	// WorkingDir, when set, turns paths below it into relative paths.
	WorkingDir string
}

// DefaultOptions returns text output to stdout with a summary.
func DefaultOptions() Options {
	return Options{Writer: os.Stdout, Format: FormatText, Color: "auto", ShowSummary: true}
}

func (o Options) withDefaults() Options {
	if o.Writer == nil {
		o.Writer = os.Stdout
	}
	if o.Format == "" {
		o.Format = FormatText
	}
	return o
}

// displayPath makes path relative to WorkingDir when it lies below it.
func (o Options) displayPath(path string) string {
	if o.WorkingDir == "" || path == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(o.WorkingDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}
