package scan

import "strings"

// IsLineSpace reports whether ch is a space or tab.
func IsLineSpace(ch byte) bool {
	return ch == ' ' || ch == '\t'
}

// IsLineEnd reports whether ch terminates a line. The zero byte counts so
// that the window end reads as a line end.
func IsLineEnd(ch byte) bool {
	return ch == '\r' || ch == '\n' || ch == 0
}

// IsWhitespace reports whether ch is ASCII whitespace.
func IsWhitespace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// IsDigit reports whether ch is an ASCII digit.
func IsDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// IsLetter reports whether ch is an ASCII letter or a byte of a multi-byte
// UTF-8 sequence. Non-ASCII text is treated as word characters.
func IsLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch >= 0x80
}

// IsAlnum reports whether ch is a letter or digit.
func IsAlnum(ch byte) bool {
	return IsLetter(ch) || IsDigit(ch)
}

func isHexDigit(ch byte) bool {
	return IsDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// IsEscapable reports whether ch may follow a backslash escape. Extra mode
// adds ':', '|', '=' and '<'.
func IsEscapable(ch byte, extraMode bool) bool {
	switch ch {
	case '\\', '`', '*', '_', '{', '}', '[', ']', '(', ')', '>', '#', '+', '-', '.', '!':
		return true
	case ':', '|', '=', '<':
		return extraMode
	}
	return false
}

// EntityLength returns the length of the entity at the start of s, or 0 if
// s does not start with a well-formed entity.
func EntityLength(s string) int {
	if len(s) == 0 || s[0] != '&' {
		return 0
	}

	i := 1
	number, hex := false, false
	if i < len(s) && s[i] == '#' {
		number = true
		i++
		if i < len(s) && (s[i] == 'x' || s[i] == 'X') {
			hex = true
			i++
		}
	}

	contentStart := i
digits:
	for i < len(s) {
		ch := s[i]
		switch {
		case hex:
			if !isHexDigit(ch) {
				break digits
			}
		case number:
			if !IsDigit(ch) {
				break digits
			}
		default:
			if !IsAlnum(ch) {
				break digits
			}
		}
		i++
	}

	if i == len(s) || i == contentStart || s[i] != ';' {
		return 0
	}
	return i + 1
}

// Unescape replaces each backslash escape of an escapable byte with the
// byte itself.
func Unescape(s string, extraMode bool) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && IsEscapable(s[i+1], extraMode) {
			b.WriteByte(s[i+1])
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// NormalizeLineEnds converts every line terminator to a single \n.
func NormalizeLineEnds(s string) string {
	if strings.IndexAny(s, "\r\n") < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	c := New(s)
	for !c.EOF() {
		if ch := c.Current(); ch == '\r' || ch == '\n' {
			b.WriteByte('\n')
			c.SkipEOL()
			continue
		}
		b.WriteByte(c.Current())
		c.Advance(1)
	}
	return b.String()
}
