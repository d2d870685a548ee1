package markdown

import (
	"strings"

	"github.com/yaklabco/gomddeep/pkg/langdetect"
)

func (d *Document) renderBlocks(b *strings.Builder, blocks []*block) {
	for _, blk := range blocks {
		d.renderBlock(b, blk)
	}
}

//nolint:gocyclo,cyclop,funlen // one case per block kind
func (d *Document) renderBlock(b *strings.Builder, blk *block) {
	switch blk.kind {
	case kindBlank, kindUserBreak:

	case kindP:
		d.formatParagraph(b, blk.buf, blk.contentStart, blk.contentLen)

	case kindSpan:
		d.formatSpanRange(b, blk.buf, blk.contentStart, blk.contentLen)
		b.WriteByte('\n')

	case kindH1, kindH2, kindH3, kindH4, kindH5, kindH6:
		name := blk.kind.String()
		b.WriteByte('<')
		b.WriteString(name)
		if d.opts.ExtraMode && !d.opts.SafeMode {
			if id := d.resolveHeaderID(blk); id != "" {
				b.WriteString(` id="`)
				b.WriteString(id)
				b.WriteByte('"')
			}
		}
		b.WriteByte('>')
		d.formatSpanRange(b, blk.buf, blk.contentStart, blk.contentLen)
		b.WriteString("</")
		b.WriteString(name)
		b.WriteString(">\n")

	case kindHr:
		b.WriteString("<hr />\n")

	case kindOlLi, kindUlLi:
		b.WriteString("<li>")
		d.formatSpanRange(b, blk.buf, blk.contentStart, blk.contentLen)
		b.WriteString("</li>\n")

	case kindDd:
		b.WriteString("<dd>")
		if blk.children != nil {
			b.WriteByte('\n')
			d.renderBlocks(b, blk.children)
		} else {
			d.formatSpanRange(b, blk.buf, blk.contentStart, blk.contentLen)
		}
		b.WriteString("</dd>\n")

	case kindDt:
		if blk.children != nil {
			b.WriteString("<dt>\n")
			d.renderBlocks(b, blk.children)
			b.WriteString("</dt>\n")
			break
		}
		for _, line := range strings.Split(blk.content(), "\n") {
			b.WriteString("<dt>")
			d.formatSpan(b, strings.TrimSpace(line))
			b.WriteString("</dt>\n")
		}

	case kindDl:
		b.WriteString("<dl>\n")
		d.renderBlocks(b, blk.children)
		b.WriteString("</dl>\n")

	case kindHTML:
		b.WriteString(blk.content())

	case kindUnsafeHTML:
		htmlEncode(b, blk.content())

	case kindCodeBlock:
		d.renderCodeBlock(b, blk)

	case kindQuote:
		b.WriteString("<blockquote>\n")
		d.renderBlocks(b, blk.children)
		b.WriteString("</blockquote>\n")

	case kindLi:
		b.WriteString("<li>\n")
		d.renderBlocks(b, blk.children)
		b.WriteString("</li>\n")

	case kindOl:
		b.WriteString("<ol>\n")
		d.renderBlocks(b, blk.children)
		b.WriteString("</ol>\n")

	case kindUl:
		b.WriteString("<ul>\n")
		d.renderBlocks(b, blk.children)
		b.WriteString("</ul>\n")

	case kindHTMLTag:
		switch strings.ToLower(blk.tag.Name) {
		case "a":
			d.prepareLink(blk.tag)
		case "img":
			d.prepareImage(blk.tag, d.renderingTitledImage)
		}
		blk.tag.RenderOpening(b)
		b.WriteByte('\n')
		d.renderBlocks(b, blk.children)
		blk.tag.RenderClosing(b)
		b.WriteByte('\n')

	case kindComposite, kindFootnote:
		d.renderBlocks(b, blk.children)

	case kindTableSpec:
		blk.table.render(d, b)

	case kindPFootnote:
		b.WriteString("<p>")
		if blk.contentLen > 0 {
			d.formatSpanRange(b, blk.buf, blk.contentStart, blk.contentLen)
			b.WriteString("&nbsp;")
		}
		b.WriteString(blk.returnLink)
		b.WriteString("</p>\n")

	default:
		name := blk.kind.String()
		b.WriteString("<" + name + ">")
		d.formatSpanRange(b, blk.buf, blk.contentStart, blk.contentLen)
		b.WriteString("</" + name + ">\n")
	}
}

func (d *Document) renderCodeBlock(b *strings.Builder, blk *block) {
	lang := blk.lang
	if lang == "" && d.opts.DetectCodeLanguage && len(blk.children) > 0 {
		lang = langdetect.Guess(blk.content())
	}

	b.WriteString("<pre><code")
	b.WriteString(d.codeBlockAttributes(lang))
	b.WriteByte('>')

	if format := d.opts.Hooks.FormatCodeBlock; format != nil {
		b.WriteString(format(blk.content(), lang))
	} else {
		for _, line := range blk.children {
			htmlEncodeTabs(b, line.content())
			b.WriteByte('\n')
		}
	}

	b.WriteString("</code></pre>\n\n")
}

func (d *Document) codeBlockAttributes(lang string) string {
	if attrs := d.opts.Hooks.CodeBlockAttributes; attrs != nil {
		return attrs(lang)
	}
	if lang == "" {
		return ""
	}
	return ` class="language-` + HTMLEncode(lang) + `"`
}

//nolint:cyclop // one case per block kind
func (d *Document) renderPlain(b *strings.Builder, blk *block) {
	switch blk.kind {
	case kindP, kindSpan:
		d.formatPlain(b, blk.buf, blk.contentStart, blk.contentLen)
		b.WriteByte(' ')

	case kindH1, kindH2, kindH3, kindH4, kindH5, kindH6:
		d.formatPlain(b, blk.buf, blk.contentStart, blk.contentLen)
		b.WriteString(" - ")

	case kindOlLi, kindUlLi:
		b.WriteString("* ")
		d.formatPlain(b, blk.buf, blk.contentStart, blk.contentLen)
		b.WriteByte(' ')

	case kindDd:
		if blk.children != nil {
			b.WriteByte('\n')
			d.renderChildrenPlain(b, blk)
		} else {
			d.formatPlain(b, blk.buf, blk.contentStart, blk.contentLen)
		}

	case kindDt:
		if blk.children != nil {
			d.renderChildrenPlain(b, blk)
			break
		}
		for _, line := range strings.Split(blk.content(), "\n") {
			line = strings.TrimSpace(line)
			d.formatPlain(b, line, 0, len(line))
		}

	case kindCodeBlock:
		for _, line := range blk.children {
			b.WriteString(line.content())
			b.WriteByte(' ')
		}

	case kindDl, kindQuote, kindLi, kindOl, kindUl, kindHTMLTag:
		d.renderChildrenPlain(b, blk)

	default:
	}
}

func (d *Document) renderChildrenPlain(b *strings.Builder, blk *block) {
	for _, child := range blk.children {
		d.renderPlain(b, child)
	}
}
