package reporter

import (
	"fmt"

	"github.com/yaklabco/gomddeep/pkg/runner"
)

const noFilesMessage = "No markdown files found."

// renderText prints a line per written, skipped or failed file (every file
// when verbose), then run errors and a one-line summary.
func renderText(out *output, result *runner.Result) (int, error) {
	if result == nil || len(result.Files) == 0 {
		if out.opts.ShowSummary {
			fmt.Fprintln(out.w, out.styles.Dim.Render(noFilesMessage))
		}
		return 0, nil
	}

	for _, outcome := range result.Files {
		if out.opts.Verbose || worthListing(outcome) {
			fmt.Fprint(out.w, out.styles.FormatOutcome(outcome, out.opts.displayPath))
		}
	}
	for _, err := range result.Errors {
		fmt.Fprintln(out.w, out.styles.Error.Render("error: "+err.Error()))
	}
	if out.opts.ShowSummary {
		fmt.Fprint(out.w, out.styles.FormatSummaryOneLine(result.Stats))
	}

	return result.Stats.FilesFailed, nil
}

// renderSummary prints failures followed by the statistics block.
func renderSummary(out *output, result *runner.Result) (int, error) {
	if result == nil {
		result = &runner.Result{}
	}
	for _, outcome := range result.Failed() {
		fmt.Fprint(out.w, out.styles.FormatOutcome(outcome, out.opts.displayPath))
	}
	fmt.Fprint(out.w, out.styles.FormatSummary(result.Stats))
	return result.Stats.FilesFailed, nil
}

func worthListing(outcome runner.FileOutcome) bool {
	return outcome.Error != nil || outcome.Written || outcome.Skipped
}
