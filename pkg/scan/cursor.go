// Package scan provides a bounded, backtracking cursor over a string.
//
// Every parser in gomddeep works the same way: save the position, attempt a
// match, and rewind on failure. Cursor keeps that idiom cheap and explicit.
package scan

import "strings"

// Cursor is a position-bounded view over a source string.
//
// The invariant start <= pos <= end <= len(src) holds for every operation
// except Advance, which callers use only after a successful lookahead.
// A Cursor borrows its source; it never copies it.
type Cursor struct {
	src   string
	start int
	end   int
	pos   int
	mark  int
}

// New returns a cursor over the whole of src.
func New(src string) *Cursor {
	c := &Cursor{}
	c.Reset(src, 0, len(src))
	return c
}

// NewRange returns a cursor over src[start:start+length].
func NewRange(src string, start, length int) *Cursor {
	c := &Cursor{}
	c.Reset(src, start, length)
	return c
}

// Reset points the cursor at a new window, clamping it to the source bounds.
func (c *Cursor) Reset(src string, start, length int) {
	if length < 0 {
		length = 0
	}
	if start < 0 {
		start = 0
	}
	if start > len(src) {
		start = len(src)
	}

	c.src = src
	c.start = start
	c.pos = start
	c.mark = start
	c.end = start + length
	if c.end > len(src) {
		c.end = len(src)
	}
}

// Source returns the full underlying string.
func (c *Cursor) Source() string { return c.src }

// Start returns the first offset of the window.
func (c *Cursor) Start() int { return c.start }

// End returns the offset one past the window.
func (c *Cursor) End() int { return c.end }

// Pos returns the current absolute offset.
func (c *Cursor) Pos() int { return c.pos }

// SetPos moves the cursor to an absolute offset.
func (c *Cursor) SetPos(pos int) { c.pos = pos }

// Current returns the byte at the cursor, or 0 outside the window.
func (c *Cursor) Current() byte {
	if c.pos < c.start || c.pos >= c.end {
		return 0
	}
	return c.src[c.pos]
}

// At returns the byte at pos+offset, or 0 outside the window.
func (c *Cursor) At(offset int) byte {
	idx := c.pos + offset
	if idx < c.start || idx >= c.end {
		return 0
	}
	return c.src[idx]
}

// Advance moves the cursor forward by n bytes.
func (c *Cursor) Advance(n int) { c.pos += n }

// EOF reports whether the cursor is at or past the window end.
func (c *Cursor) EOF() bool { return c.pos >= c.end }

// EOL reports whether the cursor is at a line terminator or at EOF.
func (c *Cursor) EOL() bool { return IsLineEnd(c.Current()) }

// BOF reports whether the cursor is at the window start.
func (c *Cursor) BOF() bool { return c.pos == c.start }

// SkipToEOF moves the cursor to the window end.
func (c *Cursor) SkipToEOF() { c.pos = c.end }

// SkipToEOL moves the cursor to the next line terminator or the window end.
func (c *Cursor) SkipToEOL() {
	for c.pos < c.end {
		ch := c.src[c.pos]
		if ch == '\r' || ch == '\n' {
			break
		}
		c.pos++
	}
}

// SkipEOL consumes one line terminator (\n, \r, \r\n or \n\r).
func (c *Cursor) SkipEOL() bool {
	if c.pos >= c.end {
		return false
	}

	switch c.src[c.pos] {
	case '\r':
		c.pos++
		if c.pos < c.end && c.src[c.pos] == '\n' {
			c.pos++
		}
		return true
	case '\n':
		c.pos++
		if c.pos < c.end && c.src[c.pos] == '\r' {
			c.pos++
		}
		return true
	default:
		return false
	}
}

// SkipToNextLine moves past the end of the current line.
func (c *Cursor) SkipToNextLine() {
	c.SkipToEOL()
	c.SkipEOL()
}

// SkipChar consumes ch if it is the current byte.
func (c *Cursor) SkipChar(ch byte) bool {
	if c.Current() != ch {
		return false
	}
	c.pos++
	return true
}

// Matches reports whether s appears at the cursor.
func (c *Cursor) Matches(s string) bool {
	for i := range len(s) {
		if c.At(i) != s[i] {
			return false
		}
	}
	return true
}

// SkipString consumes s if it appears at the cursor.
func (c *Cursor) SkipString(s string) bool {
	if !c.Matches(s) {
		return false
	}
	c.pos += len(s)
	return true
}

// SkipLineSpace consumes spaces and tabs, reporting whether any were found.
func (c *Cursor) SkipLineSpace() bool {
	if !IsLineSpace(c.Current()) {
		return false
	}
	for IsLineSpace(c.Current()) {
		c.pos++
	}
	return true
}

// SkipWhitespace consumes any whitespace including line terminators.
func (c *Cursor) SkipWhitespace() bool {
	if !IsWhitespace(c.Current()) {
		return false
	}
	for IsWhitespace(c.Current()) {
		c.pos++
	}
	return true
}

// Find moves to the next occurrence of ch inside the window.
// On failure the cursor is left at the window end.
func (c *Cursor) Find(ch byte) bool {
	if c.pos >= c.end {
		c.pos = c.end
		return false
	}
	idx := strings.IndexByte(c.src[c.pos:c.end], ch)
	if idx < 0 {
		c.pos = c.end
		return false
	}
	c.pos += idx
	return true
}

// FindString moves to the next occurrence of s inside the window.
// On failure the cursor is left at the window end.
func (c *Cursor) FindString(s string) bool {
	if c.pos >= c.end {
		c.pos = c.end
		return false
	}
	idx := strings.Index(c.src[c.pos:c.end], s)
	if idx < 0 {
		c.pos = c.end
		return false
	}
	c.pos += idx
	return true
}

// Mark records the current position for a later Extract.
func (c *Cursor) Mark() { c.mark = c.pos }

// MarkPos returns the recorded mark.
func (c *Cursor) MarkPos() int { return c.mark }

// Extract returns the text between the mark and the cursor.
func (c *Cursor) Extract() string {
	if c.mark >= c.pos {
		return ""
	}
	return c.src[c.mark:c.pos]
}

// Substring returns src[start:start+length], clipped to the window end.
func (c *Cursor) Substring(start, length int) string {
	if start+length > c.end {
		length = c.end - start
	}
	if length <= 0 {
		return ""
	}
	return c.src[start : start+length]
}

// Remainder returns the text from the cursor to the window end.
func (c *Cursor) Remainder() string {
	if c.pos >= c.end {
		return ""
	}
	return c.src[c.pos:c.end]
}

// Try runs fn and rewinds the cursor if fn reports failure.
func (c *Cursor) Try(fn func() bool) bool {
	save := c.pos
	if fn() {
		return true
	}
	c.pos = save
	return false
}

// SkipIdentifier consumes a C-style identifier and returns it.
// An identifier that runs to the window end is rejected.
func (c *Cursor) SkipIdentifier() (string, bool) {
	save := c.pos
	ch := c.Current()
	if !IsLetter(ch) && ch != '_' {
		return "", false
	}
	c.pos++
	for c.pos < c.end && (IsAlnum(c.src[c.pos]) || c.src[c.pos] == '_') {
		c.pos++
	}
	if c.pos >= c.end {
		c.pos = save
		return "", false
	}
	return c.src[save:c.pos], true
}

// SkipFootnoteID consumes a footnote identifier made of letters, digits,
// and any of "-_:. ". Surrounding line space is consumed and trimmed.
func (c *Cursor) SkipFootnoteID() (string, bool) {
	save := c.pos
	c.SkipLineSpace()
	c.Mark()
	for {
		ch := c.Current()
		if IsAlnum(ch) || ch == '-' || ch == '_' || ch == ':' || ch == '.' || ch == ' ' {
			c.pos++
			continue
		}
		break
	}

	if c.pos > c.mark {
		id := strings.TrimSpace(c.Extract())
		if id != "" {
			c.SkipLineSpace()
			return id, true
		}
	}

	c.pos = save
	return "", false
}

// SkipHTMLEntity consumes a well-formed entity (&name;, &#nnn; or &#xhh;).
func (c *Cursor) SkipHTMLEntity() (string, bool) {
	if c.Current() != '&' {
		return "", false
	}
	n := EntityLength(c.src[c.pos:c.end])
	if n == 0 {
		return "", false
	}
	entity := c.src[c.pos : c.pos+n]
	c.pos += n
	return entity, true
}

// SkipEscapableChar consumes a backslash escape as one unit when the escaped
// byte is escapable, otherwise a single byte.
func (c *Cursor) SkipEscapableChar(extraMode bool) {
	if c.Current() == '\\' && IsEscapable(c.At(1), extraMode) {
		c.pos += 2
		return
	}
	c.pos++
}
