package markdown

import (
	"strings"

	"github.com/yaklabco/gomddeep/pkg/htmltag"
)

type markdownMode int

const (
	modeNA    markdownMode = iota // no markdown attribute
	modeBlock                     // markdown="1" on a block tag, or "block"
	modeSpan                      // markdown="1" on a content-as-span tag, or "span"
	modeDeep                      // markdown="deep"
	modeOff                       // any other value
)

func (s *blockScanner) markdownMode(tag *htmltag.Tag) markdownMode {
	value, ok := tag.Get("markdown")
	if !s.doc.opts.ExtraMode || !ok {
		if s.markdownInHTML {
			return modeDeep
		}
		return modeNA
	}

	tag.Remove("markdown")

	switch value {
	case "1":
		if tag.Flags().Has(htmltag.ContentAsSpan) {
			return modeSpan
		}
		return modeBlock
	case "block":
		return modeBlock
	case "deep":
		return modeDeep
	case "span":
		return modeSpan
	default:
		return modeOff
	}
}

// processMarkdownEnabledHTML scans from just after openingTag to its
// matching closing tag and builds b from the interior according to mode.
func (s *blockScanner) processMarkdownEnabledHTML(b *block, openingTag *htmltag.Tag, mode markdownMode) bool {
	c := &s.c
	src := c.Source()
	safeMode := s.doc.opts.SafeMode

	innerPos := c.Pos()
	depth := 1
	unsafeContent := false

	for !c.EOF() {
		if !c.Find('<') {
			break
		}

		tagPos := c.Pos()
		tag, ok := htmltag.Parse(c)
		if !ok {
			c.Advance(1)
			continue
		}

		if safeMode && mode == modeOff && !unsafeContent && !tag.IsSafe() {
			unsafeContent = true
		}

		if tag.Closed || !strings.EqualFold(tag.Name, openingTag.Name) {
			continue
		}

		if !tag.Closing {
			depth++
			continue
		}

		depth--
		if depth > 0 {
			continue
		}

		c.SkipLineSpace()
		c.SkipEOL()

		b.kind = kindHTMLTag
		b.tag = openingTag
		b.setContentEnd(c.Pos())

		switch mode {
		case modeSpan:
			b.children = []*block{{
				kind:         kindSpan,
				buf:          src,
				contentStart: innerPos,
				contentLen:   tagPos - innerPos,
			}}

		case modeBlock, modeDeep:
			b.children = s.nested(kindBlank, mode == modeDeep).scanLines(src, innerPos, tagPos-innerPos)

		case modeOff, modeNA:
			if unsafeContent {
				b.kind = kindUnsafeHTML
				b.tag = nil
			} else {
				b.children = []*block{{
					kind:         kindHTML,
					buf:          src,
					contentStart: innerPos,
					contentLen:   tagPos - innerPos,
				}}
			}
		}
		return true
	}

	return false
}

// scanHTML captures a block-level HTML element through its matching closing
// tag. Markdown-enabled descendants are split out as separate children.
//
//nolint:gocognit,cyclop,funlen // mirrors the nesting of the element being scanned
func (s *blockScanner) scanHTML(b *block) bool {
	c := &s.c
	src := c.Source()
	opts := &s.doc.opts

	pieceStart := c.Pos()

	openingTag, ok := htmltag.Parse(c)
	if !ok || openingTag.Closing {
		return false
	}

	unsafeContent := opts.SafeMode && !openingTag.IsSafe()
	flags := openingTag.Flags()

	if !flags.Has(htmltag.Block) {
		return false
	}

	if flags.Has(htmltag.NoClosing) || openingTag.Closed {
		c.SkipLineSpace()
		c.SkipEOL()
		b.setContentEnd(c.Pos())
		if unsafeContent {
			b.kind = kindUnsafeHTML
		} else {
			b.kind = kindHTML
		}
		return true
	}

	if flags.Has(htmltag.Inline) {
		c.SkipLineSpace()
		if !c.EOL() {
			return false
		}
	}

	headBlock := opts.ExtractHeadBlocks && strings.EqualFold(openingTag.Name, "head")
	headStart := c.Pos()

	if !headBlock && opts.ExtraMode {
		if mode := s.markdownMode(openingTag); mode != modeNA {
			return s.processMarkdownEnabledHTML(b, openingTag, mode)
		}
	}

	var children []*block
	depth := 1

	for !c.EOF() {
		if !c.Find('<') {
			break
		}

		tagPos := c.Pos()
		tag, ok := htmltag.Parse(c)
		if !ok {
			c.Advance(1)
			continue
		}

		if opts.SafeMode && !tag.IsSafe() {
			unsafeContent = true
		}

		if tag.Closed {
			continue
		}

		if !headBlock && !tag.Closing && opts.ExtraMode && !unsafeContent {
			if mode := s.markdownMode(tag); mode != modeNA {
				child := &block{buf: src, contentStart: c.Pos(), lineStart: tagPos}
				if s.processMarkdownEnabledHTML(child, tag, mode) {
					if tagPos > pieceStart {
						children = append(children, &block{
							kind:         kindHTML,
							buf:          src,
							contentStart: pieceStart,
							contentLen:   tagPos - pieceStart,
						})
					}
					children = append(children, child)
					pieceStart = c.Pos()
					continue
				}
			}
		}

		if !strings.EqualFold(tag.Name, openingTag.Name) {
			continue
		}

		if !tag.Closing {
			depth++
			continue
		}

		depth--
		if depth > 0 {
			continue
		}

		c.SkipLineSpace()
		c.SkipEOL()

		switch {
		case unsafeContent:
			b.kind = kindUnsafeHTML
			b.setContentEnd(c.Pos())

		case children != nil:
			if c.Pos() > pieceStart {
				children = append(children, &block{
					kind:         kindHTML,
					buf:          src,
					contentStart: pieceStart,
					contentLen:   c.Pos() - pieceStart,
				})
			}
			b.kind = kindComposite
			b.setContentEnd(c.Pos())
			b.children = children

		case headBlock:
			s.doc.headBlock.WriteString(strings.TrimSpace(src[headStart:tagPos]))
			s.doc.headBlock.WriteByte('\n')
			b.kind = kindHTML
			b.contentStart = c.Pos()
			b.contentLen = 0

		default:
			b.kind = kindHTML
			b.setContentEnd(c.Pos())
		}
		return true
	}

	return false
}
