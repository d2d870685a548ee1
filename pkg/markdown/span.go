package markdown

import (
	"slices"
	"strings"

	"github.com/yaklabco/gomddeep/pkg/htmltag"
	"github.com/yaklabco/gomddeep/pkg/scan"
)

// spanFormatter tokenizes and renders the inline content of one block.
// A formatter is cheap and used for a single call.
type spanFormatter struct {
	doc          *Document
	c            scan.Cursor
	tokens       []*token
	disableLinks bool
}

func (d *Document) newSpanFormatter() *spanFormatter {
	return &spanFormatter{doc: d}
}

func (f *spanFormatter) tokenize(src string, start, length int) {
	c := &f.c
	c.Reset(src, start, length)
	f.tokens = f.tokens[:0]

	var marks []*token
	abbrs := f.doc.abbrs
	extraMode := f.doc.opts.ExtraMode
	textStart := c.Pos()

	for !c.EOF() {
		textEnd := c.Pos()
		var tok *token

		switch c.Current() {
		case '*', '_':
			tok = f.createEmphasisMark()
			if tok != nil && tok.kind >= tokOpeningMark {
				marks = append(marks, tok)
			}

		case '`':
			tok = f.processCodeSpan()

		case '[', '!':
			save := c.Pos()
			tok = f.processLinkOrImageOrFootnote()
			if tok == nil {
				c.SetPos(save)
			}

		case '<':
			save := c.Pos()
			if tag, ok := htmltag.Parse(c); ok {
				if !f.doc.opts.SafeMode || tag.IsSafe() {
					tok = &token{kind: tokHTMLTag, start: save, length: c.Pos() - save}
				} else {
					c.SetPos(save)
				}
			} else {
				tok = f.processAutoLink()
				if tok == nil {
					c.SetPos(save)
				}
			}

		case '&':
			save := c.Pos()
			if _, ok := c.SkipHTMLEntity(); ok {
				tok = &token{kind: tokHTML, start: save, length: c.Pos() - save}
			}

		case ' ':
			if c.At(1) == ' ' && scan.IsLineEnd(c.At(2)) {
				c.Advance(2)
				if c.EOF() {
					// Trailing double space at the end of the block: drop it.
					if textEnd > textStart {
						f.tokens = append(f.tokens, &token{kind: tokText, start: textStart, length: textEnd - textStart})
					}
					textStart = c.Pos()
					continue
				}
				c.SkipEOL()
				tok = &token{kind: tokBreak, start: textEnd}
			}

		case '\\':
			if scan.IsEscapable(c.At(1), extraMode) {
				tok = &token{kind: tokText, start: c.Pos() + 1, length: 1}
				c.Advance(2)
			}
		}

		if tok == nil && len(abbrs) > 0 && !scan.IsAlnum(c.At(-1)) {
			save := c.Pos()
			for _, abbr := range abbrs {
				if c.SkipString(abbr.abbr) && !scan.IsAlnum(c.Current()) {
					tok = &token{kind: tokAbbreviation, abbr: abbr}
					break
				}
				c.SetPos(save)
			}
		}

		if tok == nil {
			c.Advance(1)
			continue
		}

		if textEnd > textStart {
			f.tokens = append(f.tokens, &token{kind: tokText, start: textStart, length: textEnd - textStart})
		}
		f.tokens = append(f.tokens, tok)
		textStart = c.Pos()
	}

	if c.Pos() > textStart {
		f.tokens = append(f.tokens, &token{kind: tokText, start: textStart, length: c.Pos() - textStart})
	}

	if len(marks) > 0 {
		f.resolveEmphasisMarks(marks)
	}
}

func isEmphasisChar(ch byte) bool { return ch == '*' || ch == '_' }

// createEmphasisMark classifies a run of '*' or '_' as an opening, closing
// or internal mark. A run surrounded by whitespace is literal text.
func (f *spanFormatter) createEmphasisMark() *token {
	c := &f.c
	ch := c.Current()
	save := c.Pos()

	if c.BOF() || scan.IsWhitespace(c.At(-1)) {
		for isEmphasisChar(c.Current()) {
			c.Advance(1)
		}
		if c.EOF() || scan.IsWhitespace(c.Current()) {
			return &token{kind: tokHTML, start: save, length: c.Pos() - save}
		}
		c.SetPos(save)
	}

	for isEmphasisChar(c.At(-1)) {
		c.Advance(-1)
	}
	spaceBefore := c.BOF() || scan.IsWhitespace(c.At(-1))
	c.SetPos(save)

	for c.Current() == ch {
		c.Advance(1)
	}
	count := c.Pos() - save

	for isEmphasisChar(c.At(1)) {
		c.Advance(1)
	}
	spaceAfter := c.EOF() || scan.IsWhitespace(c.Current())
	c.SetPos(save + count)

	switch {
	case spaceBefore:
		return &token{kind: tokOpeningMark, start: save, length: count}
	case spaceAfter:
		return &token{kind: tokClosingMark, start: save, length: count}
	case f.doc.opts.ExtraMode && ch == '_' && scan.IsAlnum(c.Current()):
		return nil
	default:
		return &token{kind: tokInternalMark, start: save, length: count}
	}
}

// resolveEmphasisMarks pairs opening and closing marks of the same character
// into em and strong tokens. Runs longer than the pair are split and the
// leftover stays in play. Unpaired marks render literally.
func (f *spanFormatter) resolveEmphasisMarks(marks []*token) {
	src := f.c.Source()

	for changed := true; changed; {
		changed = false

		for i := 0; i < len(marks); i++ {
			opening := marks[i]
			if opening.kind != tokOpeningMark && opening.kind != tokInternalMark {
				continue
			}

			for j := i + 1; j < len(marks); j++ {
				closing := marks[j]
				if closing.kind != tokClosingMark && closing.kind != tokInternalMark {
					break
				}
				if src[opening.start] != src[closing.start] {
					continue
				}

				style := min(opening.length, closing.length)
				if style >= 3 {
					if style%2 == 1 {
						style = 1
					} else {
						style = 2
					}
				}

				if opening.length > style {
					opening = f.splitMark(&marks, opening, opening.length-style)
					i--
				}
				if closing.length > style {
					f.splitMark(&marks, closing, style)
				}

				if style == 1 {
					opening.kind, closing.kind = tokOpenEm, tokCloseEm
				} else {
					opening.kind, closing.kind = tokOpenStrong, tokCloseStrong
				}

				marks = removeToken(marks, opening)
				marks = removeToken(marks, closing)
				changed = true
				break
			}
		}
	}
}

// splitMark cuts tok at pos and inserts the right-hand piece after it in
// both the mark list and the token stream.
func (f *spanFormatter) splitMark(marks *[]*token, tok *token, pos int) *token {
	rhs := &token{kind: tok.kind, start: tok.start + pos, length: tok.length - pos}
	tok.length = pos
	*marks = insertAfter(*marks, tok, rhs)
	f.tokens = insertAfter(f.tokens, tok, rhs)
	return rhs
}

func insertAfter(list []*token, after, tok *token) []*token {
	return slices.Insert(list, slices.Index(list, after)+1, tok)
}

func removeToken(list []*token, tok *token) []*token {
	if idx := slices.Index(list, tok); idx >= 0 {
		return slices.Delete(list, idx, idx+1)
	}
	return list
}

// processCodeSpan matches a backtick run with the next run of exactly the
// same length. One space after the opener and before the closer is trimmed.
func (f *spanFormatter) processCodeSpan() *token {
	c := &f.c
	start := c.Pos()
	for c.SkipChar('`') {
	}
	ticks := c.Pos() - start
	afterTicks := c.Pos()

	c.SkipChar(' ')
	contentStart := c.Pos()

	for !c.EOF() {
		if c.Current() != '`' {
			c.Advance(1)
			continue
		}

		runStart := c.Pos()
		for c.SkipChar('`') {
		}
		if c.Pos()-runStart != ticks {
			continue
		}

		end := runStart
		if end > contentStart && c.Source()[end-1] == ' ' {
			end--
		}
		return &token{kind: tokCodeSpan, start: contentStart, length: end - contentStart}
	}

	c.SetPos(afterTicks)
	return &token{kind: tokText, start: start, length: ticks}
}

func (f *spanFormatter) processAutoLink() *token {
	if f.disableLinks {
		return nil
	}

	c := &f.c
	extraMode := f.doc.opts.ExtraMode
	c.Advance(1)
	c.Mark()

	for !c.EOF() {
		ch := c.Current()
		if scan.IsWhitespace(ch) {
			break
		}
		if ch != '>' {
			c.SkipEscapableChar(extraMode)
			continue
		}

		url := scan.Unescape(c.Extract(), extraMode)
		var info *linkInfo
		switch {
		case isEmailAddress(url):
			text := url
			if strings.HasPrefix(url, "mailto:") {
				text = url[len("mailto:"):]
			} else {
				url = "mailto:" + url
			}
			info = &linkInfo{def: &LinkDefinition{ID: "auto", URL: url}, text: text}
		case isWebAddress(url):
			info = &linkInfo{def: &LinkDefinition{ID: "auto", URL: url}, text: url}
		default:
			return nil
		}

		c.Advance(1)
		return &token{kind: tokLink, link: info}
	}

	return nil
}

func (f *spanFormatter) processLinkOrImageOrFootnote() *token {
	c := &f.c
	extraMode := f.doc.opts.ExtraMode

	kind := tokLink
	if c.SkipChar('!') {
		kind = tokImage
	}
	if !c.SkipChar('[') {
		return nil
	}

	save := c.Pos()
	if extraMode && kind == tokLink && c.SkipChar('^') {
		c.SkipLineSpace()
		if id, ok := c.SkipFootnoteID(); ok && c.SkipChar(']') {
			if idx := f.doc.claimFootnote(id); idx >= 0 {
				return &token{kind: tokFootnote, footnote: footnoteRef{index: idx, id: id}}
			}
		}
		c.SetPos(save)
	}

	if f.disableLinks && kind == tokLink {
		return nil
	}

	c.Mark()
	depth := 1
	for !c.EOF() {
		ch := c.Current()
		if ch == '[' {
			depth++
		} else if ch == ']' {
			depth--
			if depth == 0 {
				break
			}
		}
		c.SkipEscapableChar(extraMode)
	}
	if c.EOF() {
		return nil
	}

	linkText := scan.Unescape(c.Extract(), extraMode)
	c.Advance(1)
	save = c.Pos()

	if c.SkipChar('(') {
		def := parseLinkTarget(c, "", true, extraMode)
		if def == nil {
			return nil
		}
		c.SkipWhitespace()
		if !c.SkipChar(')') {
			return nil
		}
		return &token{kind: kind, link: &linkInfo{def: def, text: linkText}}
	}

	if !c.SkipChar(' ') {
		c.SkipChar('\t')
	}
	if c.EOL() {
		c.SkipEOL()
		c.SkipLineSpace()
	}

	linkID := ""
	if c.Current() == '[' {
		c.Advance(1)
		c.Mark()
		if !c.Find(']') {
			return nil
		}
		linkID = c.Extract()
		c.Advance(1)
	} else {
		c.SetPos(save)
	}

	if linkID == "" {
		linkID = implicitLinkID(linkText)
	}

	def := f.doc.lookupLink(linkID)
	if def == nil {
		return nil
	}
	return &token{kind: kind, link: &linkInfo{def: def, text: linkText}}
}

// implicitLinkID folds a multi-line link text onto one line.
func implicitLinkID(text string) string {
	if !strings.ContainsAny(text, "\r\n") {
		return text
	}
	id := scan.NormalizeLineEnds(text)
	for strings.Contains(id, " \n") {
		id = strings.ReplaceAll(id, " \n", "\n")
	}
	return strings.ReplaceAll(id, "\n", " ")
}
