package markdown

import (
	"strings"

	"github.com/yaklabco/gomddeep/pkg/htmltag"
)

type blockKind int

const (
	kindBlank blockKind = iota
	kindH1
	kindH2
	kindH3
	kindH4
	kindH5
	kindH6
	kindPostH1 // setext underline, parse only
	kindPostH2
	kindQuote
	kindOlLi
	kindUlLi
	kindP
	kindIndent // parse only
	kindHr
	kindUserBreak
	kindHTML
	kindUnsafeHTML
	kindSpan
	kindCodeBlock
	kindLi
	kindOl
	kindUl
	kindHTMLTag
	kindComposite
	kindTableSpec
	kindDd
	kindDt
	kindDl
	kindFootnote
	kindPFootnote
)

//nolint:gochecknoglobals // lookup table
var kindNames = [...]string{
	kindBlank:      "blank",
	kindH1:         "h1",
	kindH2:         "h2",
	kindH3:         "h3",
	kindH4:         "h4",
	kindH5:         "h5",
	kindH6:         "h6",
	kindPostH1:     "post_h1",
	kindPostH2:     "post_h2",
	kindQuote:      "quote",
	kindOlLi:       "ol_li",
	kindUlLi:       "ul_li",
	kindP:          "p",
	kindIndent:     "indent",
	kindHr:         "hr",
	kindUserBreak:  "user_break",
	kindHTML:       "html",
	kindUnsafeHTML: "unsafe_html",
	kindSpan:       "span",
	kindCodeBlock:  "codeblock",
	kindLi:         "li",
	kindOl:         "ol",
	kindUl:         "ul",
	kindHTMLTag:    "html_tag",
	kindComposite:  "composite",
	kindTableSpec:  "table_spec",
	kindDd:         "dd",
	kindDt:         "dt",
	kindDl:         "dl",
	kindFootnote:   "footnote",
	kindPFootnote:  "p_footnote",
}

func (k blockKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

func (k blockKind) isHeading() bool { return k >= kindH1 && k <= kindH6 }

func (k blockKind) isListItem() bool { return k == kindOlLi || k == kindUlLi }

// block is one structural unit. Content is the range
// buf[contentStart:contentStart+contentLen]; blocks with children render
// from their children instead.
type block struct {
	kind         blockKind
	buf          string
	contentStart int
	contentLen   int
	lineStart    int
	lineLen      int
	children     []*block

	headerID         string
	headerIDResolved bool
	table            *tableSpec
	tag              *htmltag.Tag
	footnoteID       string
	returnLink       string
	precededByBlank  bool
	lang             string
}

func (b *block) contentEnd() int { return b.contentStart + b.contentLen }

func (b *block) setContentEnd(end int) { b.contentLen = end - b.contentStart }

func (b *block) content() string {
	if b.kind == kindCodeBlock {
		var sb strings.Builder
		for _, line := range b.children {
			sb.WriteString(line.content())
			sb.WriteByte('\n')
		}
		return sb.String()
	}
	if b.contentLen <= 0 {
		return ""
	}
	return b.buf[b.contentStart:b.contentEnd()]
}

// revertToPlain turns the block back into a paragraph line spanning the
// whole raw line.
func (b *block) revertToPlain() {
	b.kind = kindP
	b.contentStart = b.lineStart
	b.contentLen = b.lineLen
}

func (b *block) leadingSpaces() int {
	count := 0
	for i := b.lineStart; i < b.lineStart+b.lineLen; i++ {
		if b.buf[i] != ' ' {
			break
		}
		count++
	}
	return count
}

func (b *block) copyLine() *block {
	return &block{
		kind:         b.kind,
		buf:          b.buf,
		contentStart: b.contentStart,
		contentLen:   b.contentLen,
		lineStart:    b.lineStart,
		lineLen:      b.lineLen,
	}
}

func lastBlock(blocks []*block) *block {
	if len(blocks) == 0 {
		return nil
	}
	return blocks[len(blocks)-1]
}
