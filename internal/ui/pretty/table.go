package pretty

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/gomddeep/pkg/runner"
)

// Table formatting constants.
const (
	tablePadding     = 2
	ellipsis         = "..."
	heavySeparator   = "="
	defaultTermWidth = 100
)

// Column describes one table column.
type Column struct {
	Title string

	// MinWidth is the narrowest the column shrinks to on small terminals.
	MinWidth int

	// Flexible columns give up width first when the table is too wide.
	Flexible bool

	// Path columns are truncated from the left so the file name survives.
	Path bool

	// Right aligns the cells.
	Right bool
}

// TableRow is one row of cells. Failed rows are highlighted.
type TableRow struct {
	Cells  []string
	Failed bool
}

// TableFormatter formats rows as a styled, terminal-width aware table.
type TableFormatter struct {
	styles       *Styles
	colorEnabled bool
	termWidth    int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, colorEnabled bool, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:       styles,
		colorEnabled: colorEnabled,
		termWidth:    termWidth,
	}
}

// Format renders columns and rows between heavy separators.
func (t *TableFormatter) Format(columns []Column, rows []TableRow) string {
	if len(columns) == 0 {
		return ""
	}

	widths := t.columnWidths(columns, rows)

	var builder strings.Builder

	titles := make([]string, len(columns))
	for i, col := range columns {
		titles[i] = col.Title
	}
	builder.WriteString(t.styles.TableHeader.Render(t.line(columns, widths, titles)))
	builder.WriteString("\n")
	builder.WriteString(t.separator(widths, heavySeparator))
	builder.WriteString("\n")

	for _, row := range rows {
		content := t.line(columns, widths, row.Cells)
		if row.Failed {
			content = t.styles.TableErrorRow.Render(content)
		}
		builder.WriteString(content)
		builder.WriteString("\n")
	}

	builder.WriteString(t.separator(widths, heavySeparator))
	builder.WriteString("\n")

	return builder.String()
}

// FormatResultTable renders one row per converted file.
func (t *TableFormatter) FormatResultTable(result *runner.Result, display func(string) string) string {
	if result == nil || len(result.Files) == 0 {
		return ""
	}

	columns := []Column{
		{Title: "FILE", MinWidth: 20, Path: true},
		{Title: "OUTPUT", MinWidth: 20, Path: true, Flexible: true},
		{Title: "STATUS", MinWidth: 9},
		{Title: "SIZE", MinWidth: 8, Right: true},
		{Title: "TIME", MinWidth: 8, Right: true},
	}

	rows := make([]TableRow, 0, len(result.Files))
	for _, outcome := range result.Files {
		rows = append(rows, OutcomeRow(outcome, display))
	}

	return t.Format(columns, rows)
}

// OutcomeRow converts a file outcome to a result table row. Failed rows
// carry the error in the OUTPUT column.
func OutcomeRow(outcome runner.FileOutcome, display func(string) string) TableRow {
	if display == nil {
		display = func(p string) string { return p }
	}

	status := OutcomeStatus(outcome)
	row := TableRow{Cells: []string{display(outcome.Path), "", status, "", ""}}

	switch status {
	case StatusFailed:
		row.Cells[1] = outcome.Error.Error()
		row.Failed = true
	case StatusCached, StatusSkipped:
		row.Cells[1] = display(outcome.OutputPath)
	default:
		row.Cells[1] = display(outcome.OutputPath)
		row.Cells[3] = FormatBytes(int64(outcome.OutputBytes))
		row.Cells[4] = FormatDuration(outcome.Duration)
	}
	return row
}

// FormatTableSummary formats a summary line for table output.
func (t *TableFormatter) FormatTableSummary(stats runner.Stats) string {
	parts := []string{fmt.Sprintf("%d %s converted", stats.FilesConverted, pluralFiles(stats.FilesConverted))}

	if stats.FilesWritten > 0 {
		parts = append(parts, t.styles.Written.Render(fmt.Sprintf("%d written", stats.FilesWritten)))
	}
	if stats.FilesCached > 0 {
		parts = append(parts, t.styles.Cached.Render(fmt.Sprintf("%d cached", stats.FilesCached)))
	}
	if stats.FilesSkipped > 0 {
		parts = append(parts, t.styles.Warning.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}
	if stats.FilesFailed > 0 {
		parts = append(parts, t.styles.Error.Render(fmt.Sprintf("%d failed", stats.FilesFailed)))
	}
	if stats.Duration > 0 {
		parts = append(parts, t.styles.Dim.Render(FormatDuration(stats.Duration)))
	}

	return " " + strings.Join(parts, " | ")
}

// FormatLegend explains row highlighting.
func (t *TableFormatter) FormatLegend() string {
	if !t.colorEnabled {
		return t.styles.TableLegend.Render(" Legend: failed rows show the error in OUTPUT")
	}
	return t.styles.TableLegend.Render(" Legend: ") + t.styles.TableErrorRow.Render(" failed ") +
		t.styles.TableLegend.Render(" rows show the error in OUTPUT")
}

// columnWidths sizes columns to their content, then shrinks flexible and
// path columns until the table fits the terminal.
func (t *TableFormatter) columnWidths(columns []Column, rows []TableRow) []int {
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = max(col.MinWidth, runewidth.StringWidth(col.Title))
	}
	for _, row := range rows {
		for i := range columns {
			if i < len(row.Cells) {
				widths[i] = max(widths[i], runewidth.StringWidth(row.Cells[i]))
			}
		}
	}

	shrink := func(pick func(Column) bool) {
		for i, col := range columns {
			excess := totalWidth(widths) - t.termWidth
			if excess <= 0 {
				return
			}
			if pick(col) {
				widths[i] = max(col.MinWidth, widths[i]-excess)
			}
		}
	}
	shrink(func(c Column) bool { return c.Flexible })
	shrink(func(c Column) bool { return c.Path })

	return widths
}

func totalWidth(widths []int) int {
	total := 1
	for _, w := range widths {
		total += w + tablePadding
	}
	return total
}

func (t *TableFormatter) line(columns []Column, widths []int, cells []string) string {
	var builder strings.Builder
	builder.WriteString(" ")

	for i, col := range columns {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}

		if col.Path {
			cell = truncateFilePath(cell, widths[i])
		} else {
			cell = truncateString(cell, widths[i])
		}

		// Padding is applied before styling so escape codes never count.
		if col.Right {
			cell = runewidth.FillLeft(cell, widths[i])
		} else if i < len(columns)-1 {
			cell = runewidth.FillRight(cell, widths[i])
		}

		builder.WriteString(cell)
		if i < len(columns)-1 {
			builder.WriteString(strings.Repeat(" ", tablePadding))
		}
	}

	return strings.TrimRight(builder.String(), " ")
}

func (t *TableFormatter) separator(widths []int, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, totalWidth(widths)))
}

// truncateString truncates a string to maxLen cells, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if runewidth.StringWidth(str) <= maxLen {
		return str
	}
	if maxLen <= len(ellipsis) {
		return runewidth.Truncate(str, maxLen, "")
	}
	return runewidth.Truncate(str, maxLen, ellipsis)
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	if runewidth.StringWidth(path) <= maxLen {
		return path
	}

	budget := maxLen - len(ellipsis)
	prefix := ellipsis
	if budget <= 0 {
		budget, prefix = maxLen, ""
	}

	runes := []rune(path)
	width, start := 0, len(runes)
	for start > 0 {
		w := runewidth.RuneWidth(runes[start-1])
		if width+w > budget {
			break
		}
		width += w
		start--
	}
	return prefix + string(runes[start:])
}
