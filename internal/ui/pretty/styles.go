// Package pretty renders conversion outcomes, summaries and tables for the
// terminal with lipgloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ANSI palette indexes.
const (
	colorRed    = "9"
	colorGreen  = "10"
	colorYellow = "11"
	colorBlue   = "12"
	colorGrey   = "8"
	colorLight  = "7"
)

// Styles is the set of renderers used by the pretty printers.
type Styles struct {
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Written   lipgloss.Style
	Unchanged lipgloss.Style
	Cached    lipgloss.Style

	FilePath lipgloss.Style
	Arrow    lipgloss.Style
	Detail   lipgloss.Style

	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	TableHeader    lipgloss.Style
	TableErrorRow  lipgloss.Style
	TableLegend    lipgloss.Style
	TableSeparator lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles returns the styles for output with or without color. Without
// color every style renders its input unchanged.
func NewStyles(colorEnabled bool) *Styles {
	base := lipgloss.NewStyle()
	fg := func(color string) lipgloss.Style {
		if !colorEnabled {
			return base
		}
		return base.Foreground(lipgloss.Color(color))
	}
	bold := func(style lipgloss.Style) lipgloss.Style {
		if !colorEnabled {
			return style
		}
		return style.Bold(true)
	}

	return &Styles{
		Error:     bold(fg(colorRed)),
		Warning:   bold(fg(colorYellow)),
		Written:   fg(colorGreen),
		Unchanged: fg(colorGrey),
		Cached:    fg(colorBlue),

		FilePath: bold(base),
		Arrow:    fg(colorGrey),
		Detail:   fg(colorGrey),

		SummaryTitle: bold(base),
		SummaryValue: base,
		Success:      bold(fg(colorGreen)),
		Failure:      bold(fg(colorRed)),

		TableHeader:    bold(fg(colorLight)),
		TableErrorRow:  fg(colorRed),
		TableLegend:    italic(fg(colorGrey), colorEnabled),
		TableSeparator: fg(colorGrey),

		Dim:  fg(colorGrey),
		Bold: bold(base),
	}
}

func italic(style lipgloss.Style, enabled bool) lipgloss.Style {
	if !enabled {
		return style
	}
	return style.Italic(true)
}

// IsColorEnabled resolves a --color mode for writer. "always" and "never"
// are absolute; anything else means auto, which requires a terminal and an
// unset NO_COLOR (https://no-color.org/).
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
