package markdown

import (
	"strings"

	"github.com/yaklabco/gomddeep/pkg/scan"
)

// blockScanner classifies lines and assembles them into blocks. Nested
// content (quotes, list items, definitions, markdown-enabled HTML) is
// scanned by a fresh scanner one level deeper.
type blockScanner struct {
	doc            *Document
	c              scan.Cursor
	markdownInHTML bool
	parent         blockKind
	depth          int

	blocks []*block
	lines  []*block
}

func (s *blockScanner) nested(parent blockKind, markdownInHTML bool) *blockScanner {
	return &blockScanner{
		doc:            s.doc,
		markdownInHTML: markdownInHTML,
		parent:         parent,
		depth:          s.depth + 1,
	}
}

func (s *blockScanner) process(src string) []*block {
	return s.scanLines(src, 0, len(src))
}

func (s *blockScanner) scanLines(src string, start, length int) []*block {
	if s.depth > s.doc.opts.MaxNesting {
		return plainFallback(src, start, length)
	}

	c := &s.c
	c.Reset(src, start, length)
	s.blocks = nil
	s.lines = nil

	prevBlank := false
	for !c.EOF() {
		b := s.evaluateLine()
		if b.kind == kindDd {
			b.precededByBlank = prevBlank
		}
		prevBlank = b.kind == kindBlank

		if b.kind == kindPostH1 || b.kind == kindPostH2 {
			s.applySetext(b)
			continue
		}

		current := kindBlank
		if len(s.lines) > 0 {
			current = s.lines[0].kind
		}

		if b.kind == kindTableSpec {
			save := c.Pos()
			if s.startTable(b) {
				s.blocks = append(s.blocks, b)
				continue
			}
			c.SetPos(save)
			b.revertToPlain()
		}

		s.addLine(b, current)
	}

	s.collapseLines()

	if s.doc.opts.ExtraMode {
		s.blocks = buildDefinitionLists(s.blocks)
	}
	return s.blocks
}

// plainFallback renders over-nested content as a single paragraph.
func plainFallback(src string, start, length int) []*block {
	text := src[start : start+length]
	trimmed := strings.TrimRight(text, " \t\r\n")
	if strings.TrimSpace(trimmed) == "" {
		return nil
	}
	return []*block{{
		kind:         kindP,
		buf:          src,
		contentStart: start,
		contentLen:   len(trimmed),
		lineStart:    start,
		lineLen:      len(trimmed),
	}}
}

// applySetext turns the previous pending line into a heading, or demotes the
// marker when there is nothing to underline.
func (s *blockScanner) applySetext(b *block) {
	if len(s.lines) > 0 {
		prev := s.lines[len(s.lines)-1]
		s.lines = s.lines[:len(s.lines)-1]
		s.collapseLines()

		if prev.kind != kindBlank {
			prev.revertToPlain()
			if b.kind == kindPostH1 {
				prev.kind = kindH1
			} else {
				prev.kind = kindH2
			}
			s.blocks = append(s.blocks, prev)
			return
		}
	}

	if b.kind == kindPostH2 && b.contentLen >= 3 {
		b.kind = kindHr
		if s.doc.opts.UserBreaks {
			b.kind = kindUserBreak
		}
		s.blocks = append(s.blocks, b)
		return
	}

	b.revertToPlain()
	s.lines = append(s.lines, b)
}

// startTable consumes at most one pending line as the header row and then
// every following row that parses.
func (s *blockScanner) startTable(b *block) bool {
	c := &s.c
	spec := b.table

	if len(s.lines) > 1 {
		return false
	}

	if len(s.lines) == 1 {
		save := c.Pos()
		c.SetPos(s.lines[0].lineStart)
		spec.headers = spec.parseRow(c)
		if spec.headers == nil {
			return false
		}
		c.SetPos(save)
		b.lineStart = s.lines[0].lineStart
		s.lines = nil
	}

	for {
		save := c.Pos()
		row := spec.parseRow(c)
		if row == nil {
			c.SetPos(save)
			return true
		}
		spec.rows = append(spec.rows, row)
	}
}

func (s *blockScanner) isListParent() bool {
	return s.parent == kindOlLi || s.parent == kindUlLi || s.parent == kindDd
}

func (s *blockScanner) pushLine(b *block) { s.lines = append(s.lines, b) }

func (s *blockScanner) flushAndPush(b *block) {
	s.collapseLines()
	s.lines = append(s.lines, b)
}

// addLine feeds one classified line through the accumulation rules, keyed
// on the kind of the line and the kind of the pending run.
func (s *blockScanner) addLine(b *block, current blockKind) {
	prev := lastBlock(s.lines)
	prevIsBlank := prev != nil && prev.kind == kindBlank

	switch b.kind {
	case kindBlank:
		switch current {
		case kindBlank:
		case kindP:
			s.collapseLines()
		default:
			s.pushLine(b)
		}

	case kindP:
		switch current {
		case kindBlank, kindP:
			s.pushLine(b)
		case kindIndent:
			s.flushAndPush(b)
		default:
			if prevIsBlank {
				s.flushAndPush(b)
			} else {
				s.pushLine(b)
			}
		}

	case kindIndent:
		switch current {
		case kindBlank:
			s.pushLine(b)
		case kindP, kindQuote:
			if prevIsBlank {
				s.flushAndPush(b)
			} else {
				b.revertToPlain()
				s.pushLine(b)
			}
		default:
			s.pushLine(b)
		}

	case kindQuote:
		if current != kindQuote {
			s.collapseLines()
		}
		s.pushLine(b)

	case kindOlLi, kindUlLi:
		switch current {
		case kindBlank:
			s.pushLine(b)
		case kindP, kindQuote:
			if prevIsBlank || s.isListParent() {
				s.flushAndPush(b)
			} else {
				b.revertToPlain()
				s.pushLine(b)
			}
		case kindOlLi, kindUlLi:
			if b.kind != current && b.leadingSpaces() <= s.lines[0].leadingSpaces() {
				s.collapseLines()
			}
			s.pushLine(b)
		default:
			s.flushAndPush(b)
		}

	case kindDd, kindFootnote:
		switch current {
		case kindBlank, kindP, kindDd, kindFootnote:
			s.flushAndPush(b)
		default:
			b.revertToPlain()
			s.pushLine(b)
		}

	default:
		s.collapseLines()
		s.blocks = append(s.blocks, b)
	}
}

func renderLines(lines []*block) string {
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line.content())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// collapseLines turns the pending run into a finished block.
func (s *blockScanner) collapseLines() {
	for len(s.lines) > 0 && s.lines[len(s.lines)-1].kind == kindBlank {
		s.lines = s.lines[:len(s.lines)-1]
	}
	if len(s.lines) == 0 {
		return
	}

	lines := s.lines
	s.lines = nil
	first := lines[0]

	switch first.kind {
	case kindP:
		s.blocks = append(s.blocks, &block{
			kind:         kindP,
			buf:          first.buf,
			contentStart: first.contentStart,
			contentLen:   lines[len(lines)-1].contentEnd() - first.contentStart,
			lineStart:    first.lineStart,
		})

	case kindQuote:
		s.blocks = append(s.blocks, &block{
			kind:      kindQuote,
			buf:       first.buf,
			lineStart: first.lineStart,
			children:  s.nested(kindQuote, s.markdownInHTML).process(renderLines(lines)),
		})

	case kindOlLi, kindUlLi:
		s.blocks = append(s.blocks, s.buildList(lines))

	case kindDd:
		if n := len(s.blocks); n > 0 {
			last := s.blocks[n-1]
			switch last.kind {
			case kindP:
				last.kind = kindDt
			case kindDd:
			default:
				s.blocks[n-1] = &block{
					kind:      kindDt,
					buf:       last.buf,
					lineStart: last.lineStart,
					children:  []*block{last},
				}
			}
		}
		s.blocks = append(s.blocks, s.buildDefinition(lines))

	case kindFootnote:
		s.doc.addFootnote(s.buildFootnote(lines))

	case kindIndent:
		code := &block{
			kind:      kindCodeBlock,
			buf:       first.buf,
			lineStart: first.lineStart,
		}
		if text := first.content(); strings.HasPrefix(text, "{{") && strings.HasSuffix(text, "}}") && len(text) >= 4 {
			code.lang = text[2 : len(text)-2]
			lines = lines[1:]
		}
		code.children = lines
		s.blocks = append(s.blocks, code)

	default:
		s.blocks = append(s.blocks, lines...)
	}
}

func (s *blockScanner) evaluateLine() *block {
	c := &s.c
	b := &block{
		buf:          c.Source(),
		lineStart:    c.Pos(),
		contentStart: c.Pos(),
		contentLen:   -1,
	}

	b.kind = s.classify(b)

	if b.contentLen < 0 {
		c.SkipToEOL()
		b.contentLen = c.Pos() - b.contentStart
	}
	b.lineLen = c.Pos() - b.lineStart
	c.SkipEOL()
	return b
}

//nolint:gocognit,gocyclo,cyclop,funlen // one rule per line kind, tried in order
func (s *blockScanner) classify(b *block) blockKind {
	c := &s.c
	opts := &s.doc.opts

	if c.EOL() {
		return kindBlank
	}

	lineStart := c.Pos()
	ch := c.Current()

	if ch == '#' {
		return s.classifyHeading(b)
	}

	if ch == '-' || ch == '=' {
		count := 0
		for c.Current() == ch {
			c.Advance(1)
			count++
		}
		c.SkipLineSpace()
		if c.EOL() {
			switch {
			case ch == '=' && opts.UserBreaks && count >= 3:
				return kindUserBreak
			case ch == '=':
				return kindPostH1
			default:
				return kindPostH2
			}
		}
		c.SetPos(lineStart)
	}

	if opts.ExtraMode {
		if spec := parseTableSpec(c); spec != nil {
			b.table = spec
			return kindTableSpec
		}
		c.SetPos(lineStart)
	}

	if opts.ExtraMode && (ch == '~' || ch == '`') {
		if s.processFencedCodeBlock(b) {
			return b.kind
		}
		c.SetPos(lineStart)
	}

	tabPos := -1
	leadingSpaces := 0
leading:
	for !c.EOL() {
		switch c.Current() {
		case ' ':
			if tabPos < 0 {
				leadingSpaces++
			}
		case '\t':
			if tabPos < 0 {
				tabPos = c.Pos()
			}
		default:
			break leading
		}
		c.Advance(1)
	}

	if c.EOL() {
		b.setContentEnd(b.contentStart)
		return kindBlank
	}
	if leadingSpaces >= 4 {
		b.contentStart = lineStart + 4
		return kindIndent
	}
	if tabPos >= 0 && tabPos-lineStart < 4 {
		b.contentStart = tabPos + 1
		return kindIndent
	}

	b.contentStart = c.Pos()
	ch = c.Current()

	if ch == '<' {
		if s.scanHTML(b) {
			return b.kind
		}
		c.SetPos(b.contentStart)
	}

	if ch == '>' {
		if scan.IsLineSpace(c.At(1)) {
			c.Advance(2)
		} else {
			c.Advance(1)
		}
		b.contentStart = c.Pos()
		return kindQuote
	}

	if ch == '-' || ch == '_' || ch == '*' {
		count := 0
		for !c.EOL() {
			if c.Current() == ch {
				count++
			} else if !scan.IsLineSpace(c.Current()) {
				break
			}
			c.Advance(1)
		}
		if c.EOL() && count >= 3 {
			if opts.UserBreaks {
				return kindUserBreak
			}
			return kindHr
		}
		c.SetPos(b.contentStart)
	}

	if opts.ExtraMode && ch == '*' && c.At(1) == '[' {
		if s.parseAbbreviation() {
			return kindBlank
		}
		c.SetPos(b.contentStart)
	}

	if (ch == '*' || ch == '+' || ch == '-') && scan.IsLineSpace(c.At(1)) {
		c.Advance(1)
		c.SkipLineSpace()
		b.contentStart = c.Pos()
		return kindUlLi
	}

	if ch == ':' && opts.ExtraMode && scan.IsLineSpace(c.At(1)) {
		c.Advance(1)
		c.SkipLineSpace()
		b.contentStart = c.Pos()
		return kindDd
	}

	if scan.IsDigit(ch) {
		for scan.IsDigit(c.Current()) {
			c.Advance(1)
		}
		if c.SkipChar('.') && c.SkipLineSpace() {
			b.contentStart = c.Pos()
			return kindOlLi
		}
		c.SetPos(b.contentStart)
	}

	if ch != '[' {
		return kindP
	}

	if opts.ExtraMode && c.At(1) == '^' {
		save := c.Pos()
		c.Advance(2)
		if id, ok := c.SkipFootnoteID(); ok && c.SkipChar(']') && c.SkipChar(':') {
			c.SkipLineSpace()
			b.contentStart = c.Pos()
			b.footnoteID = id
			return kindFootnote
		}
		c.SetPos(save)
	}

	def := parseLinkDefinition(c, opts.ExtraMode)
	if def == nil {
		return kindP
	}
	s.doc.addLinkDefinition(def)
	return kindBlank
}

func (s *blockScanner) classifyHeading(b *block) blockKind {
	c := &s.c

	level := 0
	for c.Current() == '#' {
		level++
		c.Advance(1)
	}
	level = min(level, 6)

	c.SkipLineSpace()
	b.contentStart = c.Pos()
	c.SkipToEOL()

	if s.doc.opts.ExtraMode && !s.doc.opts.SafeMode {
		if id, end, ok := stripHTMLID(c.Source(), b.contentStart, c.Pos()); ok {
			b.headerID = id
			c.SetPos(end)
		}
	}

	for c.Pos() > b.contentStart && c.At(-1) == '#' {
		c.Advance(-1)
	}
	for c.Pos() > b.contentStart && scan.IsWhitespace(c.At(-1)) {
		c.Advance(-1)
	}

	b.setContentEnd(c.Pos())
	c.SkipToEOL()
	return kindH1 + blockKind(level-1)
}

// parseAbbreviation reads "*[abbr]: title" and registers it.
func (s *blockScanner) parseAbbreviation() bool {
	c := &s.c
	c.Advance(2)
	c.SkipLineSpace()

	c.Mark()
	for !c.EOL() && c.Current() != ']' {
		c.Advance(1)
	}
	abbr := strings.TrimSpace(c.Extract())
	if c.Current() != ']' || c.At(1) != ':' || abbr == "" {
		return false
	}

	c.Advance(2)
	c.SkipLineSpace()
	c.Mark()
	c.SkipToEOL()
	s.doc.addAbbreviation(abbr, c.Extract())
	return true
}

// processFencedCodeBlock reads a ``` or ~~~ block with an optional language
// word after the opening fence. The closing fence must have the same length
// and sit alone on its line.
func (s *blockScanner) processFencedCodeBlock(b *block) bool {
	c := &s.c
	src := c.Source()
	delim := c.Current()

	c.Mark()
	for c.Current() == delim {
		c.Advance(1)
	}
	fence := c.Extract()
	if len(fence) < 3 {
		return false
	}

	c.SkipLineSpace()
	c.Mark()
	for !c.EOF() && !scan.IsWhitespace(c.Current()) {
		c.Advance(1)
	}
	lang := c.Extract()

	c.SkipLineSpace()
	if !c.EOL() {
		return false
	}
	c.SkipEOL()
	codeStart := c.Pos()

	codeEnd := -1
	for codeEnd < 0 {
		if !c.FindString(fence) {
			return false
		}
		fenceStart := c.Pos()
		if scan.IsLineEnd(c.At(-1)) {
			c.Advance(len(fence))
			if c.Current() != delim {
				c.SkipLineSpace()
				if c.EOL() {
					codeEnd = fenceStart
					continue
				}
			}
		}
		c.SetPos(fenceStart + 1)
	}

	if codeEnd > codeStart {
		tail := src[codeStart:codeEnd]
		switch {
		case strings.HasSuffix(tail, "\r\n"), strings.HasSuffix(tail, "\n\r"):
			codeEnd -= 2
		default:
			codeEnd--
		}
	}

	b.kind = kindCodeBlock
	b.lang = lang
	if codeEnd > codeStart {
		b.children = []*block{{
			kind:         kindIndent,
			buf:          src,
			contentStart: codeStart,
			contentLen:   codeEnd - codeStart,
			lineStart:    codeStart,
		}}
	}
	return true
}
