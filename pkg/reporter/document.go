package reporter

import (
	"github.com/samber/lo"

	"github.com/yaklabco/gomddeep/internal/ui/pretty"
	"github.com/yaklabco/gomddeep/pkg/runner"
)

// documentVersion is bumped when the structured output changes shape.
const documentVersion = "1.0.0"

// Document is the structured form of a result shared by JSON and YAML.
type Document struct {
	Version string       `json:"version" yaml:"version"`
	Files   []FileReport `json:"files" yaml:"files"`
	Summary Summary      `json:"summary" yaml:"summary"`
}

// FileReport is a single file's outcome.
type FileReport struct {
	Path       string  `json:"path" yaml:"path"`
	Output     string  `json:"output,omitempty" yaml:"output,omitempty"`
	Status     string  `json:"status" yaml:"status"`
	InputBytes int     `json:"inputBytes" yaml:"input_bytes"`
	HTMLBytes  int     `json:"htmlBytes" yaml:"html_bytes"`
	Millis     float64 `json:"durationMs" yaml:"duration_ms"`
	Error      string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// Summary contains aggregate statistics.
type Summary struct {
	FilesFound     int   `json:"filesFound" yaml:"files_found"`
	FilesConverted int   `json:"filesConverted" yaml:"files_converted"`
	FilesWritten   int   `json:"filesWritten" yaml:"files_written"`
	FilesUnchanged int   `json:"filesUnchanged" yaml:"files_unchanged"`
	FilesCached    int   `json:"filesCached" yaml:"files_cached"`
	FilesSkipped   int   `json:"filesSkipped" yaml:"files_skipped"`
	FilesFailed    int   `json:"filesFailed" yaml:"files_failed"`
	BytesIn        int64 `json:"bytesIn" yaml:"bytes_in"`
	BytesOut       int64 `json:"bytesOut" yaml:"bytes_out"`
}

// BuildDocument converts a result to its structured form.
func BuildDocument(result *runner.Result, opts Options) *Document {
	doc := &Document{Version: documentVersion, Files: []FileReport{}}
	if result == nil {
		return doc
	}

	doc.Files = lo.Map(result.Files, func(outcome runner.FileOutcome, _ int) FileReport {
		report := FileReport{
			Path:       opts.displayPath(outcome.Path),
			Output:     opts.displayPath(outcome.OutputPath),
			Status:     pretty.OutcomeStatus(outcome),
			InputBytes: outcome.InputBytes,
			HTMLBytes:  outcome.OutputBytes,
			Millis:     float64(outcome.Duration.Microseconds()) / 1000,
		}
		if outcome.Error != nil {
			report.Error = outcome.Error.Error()
		}
		return report
	})

	stats := result.Stats
	doc.Summary = Summary{
		FilesFound:     stats.FilesDiscovered,
		FilesConverted: stats.FilesConverted,
		FilesWritten:   stats.FilesWritten,
		FilesUnchanged: stats.FilesUnchanged,
		FilesCached:    stats.FilesCached,
		FilesSkipped:   stats.FilesSkipped,
		FilesFailed:    stats.FilesFailed,
		BytesIn:        stats.BytesIn,
		BytesOut:       stats.BytesOut,
	}

	return doc
}
