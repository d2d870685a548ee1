package pretty

import (
	"fmt"
	"strings"
	"time"

	"github.com/yaklabco/gomddeep/pkg/runner"
)

// Outcome status words.
const (
	StatusFailed    = "failed"
	StatusCached    = "cached"
	StatusSkipped   = "skipped"
	StatusWritten   = "written"
	StatusUnchanged = "unchanged"
	StatusConverted = "converted"
)

// OutcomeStatus returns the status word for a file outcome.
func OutcomeStatus(outcome runner.FileOutcome) string {
	switch {
	case outcome.Error != nil:
		return StatusFailed
	case outcome.Cached:
		return StatusCached
	case outcome.Skipped:
		return StatusSkipped
	case outcome.Written:
		return StatusWritten
	case outcome.Unchanged:
		return StatusUnchanged
	default:
		return StatusConverted
	}
}

// FormatStatus returns a styled status word.
func (s *Styles) FormatStatus(status string) string {
	switch status {
	case StatusFailed:
		return s.Error.Render(status)
	case StatusSkipped:
		return s.Warning.Render(status)
	case StatusWritten, StatusConverted:
		return s.Written.Render(status)
	case StatusCached:
		return s.Cached.Render(status)
	default:
		return s.Unchanged.Render(status)
	}
}

// FormatOutcome formats a single file outcome as one line.
// display maps absolute paths to the form shown to the user; nil keeps them.
func (s *Styles) FormatOutcome(outcome runner.FileOutcome, display func(string) string) string {
	if display == nil {
		display = func(p string) string { return p }
	}

	var builder strings.Builder
	builder.WriteString("  ")
	builder.WriteString(s.FilePath.Render(display(outcome.Path)))

	if outcome.OutputPath != "" && outcome.Error == nil {
		builder.WriteString(s.Arrow.Render(" -> "))
		builder.WriteString(display(outcome.OutputPath))
	}

	status := OutcomeStatus(outcome)
	builder.WriteString("  ")
	builder.WriteString(s.FormatStatus(status))

	switch status {
	case StatusFailed:
		builder.WriteString(": ")
		builder.WriteString(s.Error.Render(outcome.Error.Error()))
	case StatusWritten, StatusUnchanged, StatusConverted:
		builder.WriteString(s.Detail.Render(fmt.Sprintf(" (%s in %s)",
			FormatBytes(int64(outcome.OutputBytes)), FormatDuration(outcome.Duration))))
	}

	builder.WriteString("\n")
	return builder.String()
}

// FormatBytes renders a byte count with a binary unit.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// FormatDuration rounds d for display.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.Round(time.Microsecond).String()
	case d < time.Second:
		return d.Round(100 * time.Microsecond).String()
	default:
		return d.Round(10 * time.Millisecond).String()
	}
}
