package reporter

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"

	"github.com/yaklabco/gomddeep/internal/ui/pretty"
	"github.com/yaklabco/gomddeep/pkg/markdown"
)

// LinkReport holds the link definitions found in one file.
type LinkReport struct {
	Path  string
	Links []markdown.LinkDefinition
}

// LinkDocument is the structured form of link reports.
type LinkDocument struct {
	Version string     `json:"version" yaml:"version"`
	Files   []LinkFile `json:"files" yaml:"files"`
	Total   int        `json:"total" yaml:"total"`
}

// LinkFile is one file's entry in a LinkDocument.
type LinkFile struct {
	Path  string      `json:"path" yaml:"path"`
	Links []LinkEntry `json:"links" yaml:"links"`
}

// LinkEntry is a single link definition.
type LinkEntry struct {
	ID    string `json:"id" yaml:"id"`
	URL   string `json:"url" yaml:"url"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// BuildLinkDocument converts link reports to their structured form.
func BuildLinkDocument(reports []LinkReport, opts Options) *LinkDocument {
	doc := &LinkDocument{Version: documentVersion, Files: []LinkFile{}}

	for _, report := range reports {
		doc.Files = append(doc.Files, LinkFile{
			Path: opts.displayPath(report.Path),
			Links: lo.Map(report.Links, func(def markdown.LinkDefinition, _ int) LinkEntry {
				return LinkEntry{ID: def.ID, URL: def.URL, Title: def.Title}
			}),
		})
		doc.Total += len(report.Links)
	}

	return doc
}

// ReportLinks writes link reports in opts.Format. Every format but json
// and yaml ends with a count line when ShowSummary is set; summary prints
// only that line.
func ReportLinks(reports []LinkReport, opts Options) error {
	opts = opts.withDefaults()
	if !opts.Format.IsValid() {
		return fmt.Errorf("unsupported format: %s", opts.Format)
	}

	return withOutput(opts, func(out *output) error {
		switch opts.Format {
		case FormatJSON:
			return encodeJSON(out.w, BuildLinkDocument(reports, opts), opts.Compact)
		case FormatYAML:
			return encodeYAML(out.w, BuildLinkDocument(reports, opts))
		case FormatTable:
			fmt.Fprint(out.w, out.table().Format(linkColumns(), linkRows(reports, opts)))
		case FormatText:
			writeLinksText(out, reports)
		case FormatSummary:
		}

		if opts.ShowSummary || opts.Format == FormatSummary {
			total := lo.SumBy(reports, func(r LinkReport) int { return len(r.Links) })
			fmt.Fprintln(out.w, out.styles.Dim.Render(fmt.Sprintf("%d link definitions in %d files", total, len(reports))))
		}
		return nil
	})
}

func writeLinksText(out *output, reports []LinkReport) {
	for _, report := range reports {
		if len(report.Links) == 0 {
			continue
		}

		fmt.Fprintln(out.w, out.styles.FilePath.Render(out.opts.displayPath(report.Path))+
			out.styles.Dim.Render(" ("+strconv.Itoa(len(report.Links))+")"))

		for _, def := range report.Links {
			line := "  [" + def.ID + "]: " + def.URL
			if def.Title != "" {
				line += " " + strconv.Quote(def.Title)
			}
			fmt.Fprintln(out.w, line)
		}
	}
}

func linkColumns() []pretty.Column {
	return []pretty.Column{
		{Title: "FILE", MinWidth: 16, Path: true},
		{Title: "ID", MinWidth: 6},
		{Title: "URL", MinWidth: 20, Flexible: true},
		{Title: "TITLE", MinWidth: 10},
	}
}

func linkRows(reports []LinkReport, opts Options) []pretty.TableRow {
	var rows []pretty.TableRow
	for _, report := range reports {
		path := opts.displayPath(report.Path)
		for _, def := range report.Links {
			rows = append(rows, pretty.TableRow{Cells: []string{path, def.ID, def.URL, def.Title}})
		}
	}
	return rows
}
