package reporter

import (
	"fmt"
	"io"

	"golang.org/x/term"

	"github.com/yaklabco/gomddeep/internal/ui/pretty"
	"github.com/yaklabco/gomddeep/pkg/runner"
)

// fallbackWidth is the table width when the writer is not a terminal.
const fallbackWidth = 100

func renderTable(out *output, result *runner.Result) (int, error) {
	if result == nil || len(result.Files) == 0 {
		if out.opts.ShowSummary {
			fmt.Fprintln(out.w, out.styles.Dim.Render(noFilesMessage))
		}
		return 0, nil
	}

	table := out.table()
	fmt.Fprint(out.w, table.FormatResultTable(result, out.opts.displayPath))
	if out.opts.ShowSummary {
		fmt.Fprintln(out.w, table.FormatTableSummary(result.Stats))
		if result.HasFailures() {
			fmt.Fprintln(out.w, table.FormatLegend())
		}
	}

	return result.Stats.FilesFailed, nil
}

func (out *output) table() *pretty.TableFormatter {
	return pretty.NewTableFormatter(out.styles, out.color, terminalWidth(out.opts.Writer))
}

func terminalWidth(w io.Writer) int {
	fd, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return fallbackWidth
	}
	if width, _, err := term.GetSize(int(fd.Fd())); err == nil && width > 0 {
		return width
	}
	return fallbackWidth
}
