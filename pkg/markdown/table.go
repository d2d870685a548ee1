package markdown

import (
	"strings"

	"github.com/yaklabco/gomddeep/pkg/scan"
)

type alignment int

const (
	alignNA alignment = iota
	alignLeft
	alignRight
	alignCenter
)

const emptyCell = "&nbsp;"

// tableSpec is a table's column layout plus its collected rows.
type tableSpec struct {
	leadingBar  bool
	trailingBar bool
	columns     []alignment
	headers     []string
	rows        [][]string
}

// parseTableSpec parses a separator line such as "|:--|--:|".
func parseTableSpec(c *scan.Cursor) *tableSpec {
	c.SkipLineSpace()

	if ch := c.Current(); ch != '|' && ch != ':' && ch != '-' {
		return nil
	}

	var spec *tableSpec
	if c.SkipChar('|') {
		spec = &tableSpec{leadingBar: true}
	}

	for {
		c.SkipLineSpace()
		if c.Current() == '|' {
			return nil
		}

		left := c.SkipChar(':')
		for c.Current() == '-' {
			c.Advance(1)
		}
		right := c.SkipChar(':')
		c.SkipLineSpace()

		col := alignNA
		switch {
		case left && right:
			col = alignCenter
		case left:
			col = alignLeft
		case right:
			col = alignRight
		}

		if c.EOL() {
			if spec == nil {
				return nil
			}
			spec.columns = append(spec.columns, col)
			return spec
		}

		if !c.SkipChar('|') {
			return nil
		}
		if spec == nil {
			spec = &tableSpec{}
		}
		spec.columns = append(spec.columns, col)

		c.SkipLineSpace()
		if c.EOL() {
			spec.trailingBar = true
			return spec
		}
	}
}

// parseRow reads one table row, padding it to the column count. A blank
// line or a line without any bar ends the table.
func (t *tableSpec) parseRow(c *scan.Cursor) []string {
	c.SkipLineSpace()
	if c.EOL() {
		return nil
	}

	anyBars := t.leadingBar
	if t.leadingBar && !c.SkipChar('|') {
		return nil
	}

	var row []string
	for !c.EOL() {
		c.Mark()
		for !c.EOL() && c.Current() != '|' {
			c.SkipEscapableChar(true)
		}
		row = append(row, strings.TrimSpace(c.Extract()))

		if c.SkipChar('|') {
			anyBars = true
		}
	}

	if !anyBars {
		return nil
	}

	for len(row) < len(t.columns) {
		row = append(row, emptyCell)
	}

	c.SkipEOL()
	return row
}

func (t *tableSpec) render(d *Document, b *strings.Builder) {
	b.WriteString("<table>\n")
	if t.headers != nil {
		b.WriteString("<thead>\n<tr>\n")
		t.renderRow(d, b, t.headers, "th")
		b.WriteString("</tr>\n</thead>\n")
	}

	b.WriteString("<tbody>\n")
	for _, row := range t.rows {
		b.WriteString("<tr>\n")
		t.renderRow(d, b, row, "td")
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n")
	b.WriteString("</table>\n")
}

func (t *tableSpec) renderRow(d *Document, b *strings.Builder, row []string, cell string) {
	for i, text := range row {
		b.WriteString("\t<")
		b.WriteString(cell)
		if i < len(t.columns) {
			switch t.columns[i] {
			case alignLeft:
				b.WriteString(` align="left"`)
			case alignRight:
				b.WriteString(` align="right"`)
			case alignCenter:
				b.WriteString(` align="center"`)
			case alignNA:
			}
		}
		b.WriteByte('>')
		d.formatSpan(b, text)
		b.WriteString("</")
		b.WriteString(cell)
		b.WriteString(">\n")
	}
}
