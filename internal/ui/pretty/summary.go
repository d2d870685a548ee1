package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gomddeep/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func pluralFiles(n int) string {
	if n == 1 {
		return wordFile
	}
	return wordFiles
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "Converted 12 files (3 written, 9 unchanged), 1 failed in 40ms".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FilesDiscovered == 0 {
		return s.Dim.Render("No markdown files found") + "\n"
	}

	var parts []string

	head := fmt.Sprintf("Converted %d %s", stats.FilesConverted, pluralFiles(stats.FilesConverted))
	if stats.FilesFailed > 0 {
		head = s.Failure.Render(head)
	} else {
		head = s.Success.Render(head)
	}

	var details []string
	if stats.FilesWritten > 0 {
		details = append(details, s.Written.Render(fmt.Sprintf("%d written", stats.FilesWritten)))
	}
	if stats.FilesUnchanged > 0 {
		details = append(details, s.Unchanged.Render(fmt.Sprintf("%d unchanged", stats.FilesUnchanged)))
	}
	if len(details) > 0 {
		head += " (" + strings.Join(details, ", ") + ")"
	}
	parts = append(parts, head)

	if stats.FilesCached > 0 {
		parts = append(parts, s.Cached.Render(fmt.Sprintf("%d cached", stats.FilesCached)))
	}
	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}
	if stats.FilesFailed > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d failed", stats.FilesFailed)))
	}

	line := strings.Join(parts, ", ")
	if stats.Duration > 0 {
		line += s.Dim.Render(" in " + FormatDuration(stats.Duration))
	}
	return line + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files found:       " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)) + "\n")
	builder.WriteString("  Files converted:   " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesConverted)) + "\n")

	if stats.FilesWritten > 0 {
		builder.WriteString("    Written:         " +
			s.Written.Render(strconv.Itoa(stats.FilesWritten)) + "\n")
	}
	if stats.FilesUnchanged > 0 {
		builder.WriteString("    Unchanged:       " +
			s.Unchanged.Render(strconv.Itoa(stats.FilesUnchanged)) + "\n")
	}
	if stats.FilesCached > 0 {
		builder.WriteString("  Files cached:      " +
			s.Cached.Render(strconv.Itoa(stats.FilesCached)) + "\n")
	}
	if stats.FilesSkipped > 0 {
		builder.WriteString("  Files skipped:     " +
			s.Warning.Render(strconv.Itoa(stats.FilesSkipped)) + "\n")
	}
	if stats.FilesFailed > 0 {
		builder.WriteString("  Files failed:      " +
			s.Failure.Render(strconv.Itoa(stats.FilesFailed)) + "\n")
	}

	builder.WriteString("\n")
	builder.WriteString("  Markdown read:     " + s.SummaryValue.Render(FormatBytes(stats.BytesIn)) + "\n")
	builder.WriteString("  HTML produced:     " + s.SummaryValue.Render(FormatBytes(stats.BytesOut)) + "\n")
	if stats.Duration > 0 {
		builder.WriteString("  Time:              " + s.SummaryValue.Render(FormatDuration(stats.Duration)) + "\n")
	}

	builder.WriteString("\n")

	switch {
	case stats.FilesFailed > 0:
		builder.WriteString(s.Failure.Render("Conversion failed for some files"))
	case stats.FilesSkipped > 0:
		builder.WriteString(s.Warning.Render("Conversion completed with skipped files"))
	default:
		builder.WriteString(s.Success.Render("Conversion complete"))
	}
	builder.WriteString("\n")

	return builder.String()
}
