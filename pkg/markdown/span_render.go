package markdown

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark/util"
	"golang.org/x/text/unicode/norm"
)

// formatSpan renders src as inline markdown.
func (d *Document) formatSpan(b *strings.Builder, src string) {
	d.formatSpanRange(b, src, 0, len(src))
}

func (d *Document) formatSpanRange(b *strings.Builder, src string, start, length int) {
	f := d.newSpanFormatter()
	f.tokenize(src, start, length)
	f.render(b)
}

func (d *Document) formatPlain(b *strings.Builder, src string, start, length int) {
	f := d.newSpanFormatter()
	f.tokenize(src, start, length)
	f.renderPlain(b)
}

// formatParagraph renders a paragraph. A paragraph holding a single image
// becomes a captioned div when HTMLClassTitledImages is set.
func (d *Document) formatParagraph(b *strings.Builder, src string, start, length int) {
	f := d.newSpanFormatter()
	f.tokenize(src, start, length)

	if len(f.tokens) == 1 && d.opts.HTMLClassTitledImages != "" && f.tokens[0].kind == tokImage {
		title := f.tokens[0].link.def.Title

		b.WriteString(`<div class="`)
		b.WriteString(d.opts.HTMLClassTitledImages)
		b.WriteString("\">\n")

		d.renderingTitledImage = true
		f.render(b)
		d.renderingTitledImage = false
		b.WriteByte('\n')

		if title != "" {
			b.WriteString("<p>")
			smartEncodeAmpsAndAngles(b, title)
			b.WriteString("</p>\n")
		}
		b.WriteString("</div>\n")
		return
	}

	b.WriteString("<p>")
	f.render(b)
	b.WriteString("</p>\n")
}

func (f *spanFormatter) render(b *strings.Builder) {
	src := f.c.Source()

	for _, tok := range f.tokens {
		switch tok.kind {
		case tokText:
			htmlEncode(b, src[tok.start:tok.start+tok.length])

		case tokHTMLTag:
			smartEncodeAmps(b, src[tok.start:tok.start+tok.length])

		case tokHTML, tokOpeningMark, tokClosingMark, tokInternalMark:
			b.WriteString(src[tok.start : tok.start+tok.length])

		case tokBreak:
			b.WriteString("<br />\n")

		case tokOpenEm:
			b.WriteString("<em>")
		case tokCloseEm:
			b.WriteString("</em>")
		case tokOpenStrong:
			b.WriteString("<strong>")
		case tokCloseStrong:
			b.WriteString("</strong>")

		case tokCodeSpan:
			b.WriteString("<code>")
			htmlEncode(b, src[tok.start:tok.start+tok.length])
			b.WriteString("</code>")

		case tokLink:
			inner := &spanFormatter{doc: f.doc, disableLinks: true}
			var text strings.Builder
			inner.tokenize(tok.link.text, 0, len(tok.link.text))
			inner.render(&text)
			f.doc.renderLink(b, tok.link.def, text.String())

		case tokImage:
			f.doc.renderImg(b, tok.link.def, tok.link.text)

		case tokFootnote:
			b.WriteString(`<sup id="fnref:`)
			b.WriteString(tok.footnote.id)
			b.WriteString(`"><a href="#fn:`)
			b.WriteString(tok.footnote.id)
			b.WriteString(`" rel="footnote">`)
			b.WriteString(strconv.Itoa(tok.footnote.index + 1))
			b.WriteString("</a></sup>")

		case tokAbbreviation:
			b.WriteString("<abbr")
			if tok.abbr.title != "" {
				b.WriteString(` title="`)
				htmlEncode(b, tok.abbr.title)
				b.WriteByte('"')
			}
			b.WriteByte('>')
			htmlEncode(b, tok.abbr.abbr)
			b.WriteString("</abbr>")
		}
	}
}

// renderPlain keeps only the readable text: plain runs, code spans, decoded
// entities and the text of links and images.
func (f *spanFormatter) renderPlain(b *strings.Builder) {
	src := f.c.Source()

	for _, tok := range f.tokens {
		switch tok.kind {
		case tokText, tokCodeSpan:
			b.WriteString(src[tok.start : tok.start+tok.length])
		case tokHTML:
			if text := src[tok.start : tok.start+tok.length]; text[0] == '&' {
				b.Write(util.ResolveEntityNames(util.ResolveNumericReferences([]byte(text))))
			}
		case tokLink, tokImage:
			b.WriteString(tok.link.text)
		default:
		}
	}
}

// makeID derives a heading id the way pandoc does: drop everything before
// the first letter, keep letters, digits and "_-.", lowercase, and turn
// spaces and line breaks into hyphens.
func (d *Document) makeID(src string, start, length int) string {
	f := d.newSpanFormatter()
	f.tokenize(src, start, length)

	var raw strings.Builder
	for _, tok := range f.tokens {
		switch tok.kind {
		case tokText:
			raw.WriteString(src[tok.start : tok.start+tok.length])
		case tokLink:
			raw.WriteString(tok.link.text)
		default:
		}
	}

	text := norm.NFC.String(raw.String())
	first := strings.IndexFunc(text, unicode.IsLetter)
	if first < 0 {
		return ""
	}
	text = text[first:]

	var id strings.Builder
	for i := 0; i < len(text); {
		if ch := text[i]; ch == '\r' || ch == '\n' {
			id.WriteByte('-')
			i++
			if ch == '\r' && i < len(text) && text[i] == '\n' {
				i++
			}
			continue
		}

		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.':
			id.WriteRune(unicode.ToLower(r))
		case r == ' ':
			id.WriteByte('-')
		}
		i += size
	}
	return id.String()
}
