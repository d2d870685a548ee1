package scan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomddeep/pkg/scan"
)

func TestCursor_WindowBounds(t *testing.T) {
	t.Parallel()

	c := scan.NewRange("abcdef", 2, 2)

	assert.True(t, c.BOF())
	assert.Equal(t, byte('c'), c.Current())
	assert.Equal(t, byte(0), c.At(-1), "before window")
	assert.Equal(t, byte('d'), c.At(1))
	assert.Equal(t, byte(0), c.At(2), "past window")

	c.Advance(2)
	assert.True(t, c.EOF())
	assert.True(t, c.EOL(), "EOF reads as end of line")
	assert.Equal(t, byte(0), c.Current())
}

func TestCursor_ResetClamps(t *testing.T) {
	t.Parallel()

	c := scan.NewRange("abc", -4, 100)
	assert.Equal(t, 0, c.Start())
	assert.Equal(t, 3, c.End())

	c.Reset("abc", 10, -1)
	assert.Equal(t, 3, c.Start())
	assert.True(t, c.EOF())
}

func TestCursor_SkipEOL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected int
		skipped  bool
	}{
		{name: "lf", input: "\nx", expected: 1, skipped: true},
		{name: "crlf", input: "\r\nx", expected: 2, skipped: true},
		{name: "cr", input: "\rx", expected: 1, skipped: true},
		{name: "lfcr", input: "\n\rx", expected: 2, skipped: true},
		{name: "not a line end", input: "x", expected: 0, skipped: false},
		{name: "empty", input: "", expected: 0, skipped: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			c := scan.New(testCase.input)
			assert.Equal(t, testCase.skipped, c.SkipEOL())
			assert.Equal(t, testCase.expected, c.Pos())
		})
	}
}

func TestCursor_SkipToNextLine(t *testing.T) {
	t.Parallel()

	c := scan.New("first line\r\nsecond")
	c.SkipToNextLine()
	assert.Equal(t, "second", c.Remainder())

	c.SkipToNextLine()
	assert.True(t, c.EOF())
}

func TestCursor_FindFailureMovesToEnd(t *testing.T) {
	t.Parallel()

	c := scan.NewRange("a]b]c", 0, 3)
	require.True(t, c.Find(']'))
	assert.Equal(t, 1, c.Pos())

	c.Advance(1)
	assert.False(t, c.Find(']'), "second bracket lies outside the window")
	assert.Equal(t, 3, c.Pos())

	c.SetPos(0)
	assert.False(t, c.FindString("c"))
	assert.Equal(t, 3, c.Pos())

	c.SetPos(0)
	assert.True(t, c.FindString("]b"))
	assert.Equal(t, 1, c.Pos())
}

func TestCursor_MarkExtract(t *testing.T) {
	t.Parallel()

	c := scan.New("hello world")
	c.Advance(6)
	c.Mark()
	c.SkipToEOL()

	assert.Equal(t, "world", c.Extract())
	assert.Equal(t, 6, c.MarkPos())

	c.SetPos(2)
	assert.Empty(t, c.Extract(), "mark after position yields nothing")
}

func TestCursor_SkipHelpers(t *testing.T) {
	t.Parallel()

	c := scan.New(" \t x\n\n  y")
	assert.True(t, c.SkipLineSpace())
	assert.False(t, c.SkipLineSpace())
	assert.True(t, c.SkipChar('x'))
	assert.True(t, c.SkipWhitespace())
	assert.Equal(t, byte('y'), c.Current())

	c = scan.New("**bold")
	assert.True(t, c.Matches("**"))
	assert.False(t, c.SkipString("***"))
	assert.True(t, c.SkipString("**"))
	assert.Equal(t, "bold", c.Remainder())
}

func TestCursor_Try(t *testing.T) {
	t.Parallel()

	c := scan.New("abc")
	ok := c.Try(func() bool {
		c.Advance(2)
		return false
	})
	assert.False(t, ok)
	assert.Equal(t, 0, c.Pos())

	ok = c.Try(func() bool {
		return c.SkipChar('a')
	})
	assert.True(t, ok)
	assert.Equal(t, 1, c.Pos())
}

func TestCursor_SkipIdentifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{name: "simple", input: "div class", expected: "div", ok: true},
		{name: "underscore and digits", input: "_h1>", expected: "_h1", ok: true},
		{name: "leading digit", input: "1abc ", ok: false},
		{name: "runs to end", input: "abc", ok: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			c := scan.New(testCase.input)
			id, ok := c.SkipIdentifier()
			assert.Equal(t, testCase.ok, ok)
			assert.Equal(t, testCase.expected, id)
			if !ok {
				assert.Equal(t, 0, c.Pos())
			}
		})
	}
}

func TestCursor_SkipFootnoteID(t *testing.T) {
	t.Parallel()

	c := scan.New(" note-1 ]")
	id, ok := c.SkipFootnoteID()
	require.True(t, ok)
	assert.Equal(t, "note-1", id)
	assert.Equal(t, byte(']'), c.Current())

	c = scan.New("  ]")
	_, ok = c.SkipFootnoteID()
	assert.False(t, ok)
	assert.Equal(t, 0, c.Pos())
}

func TestCursor_SkipHTMLEntity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "named", input: "&amp; rest", expected: "&amp;"},
		{name: "decimal", input: "&#65;", expected: "&#65;"},
		{name: "hex", input: "&#x41;", expected: "&#x41;"},
		{name: "upper hex marker", input: "&#XfF;", expected: "&#XfF;"},
		{name: "unterminated", input: "&amp", expected: ""},
		{name: "empty name", input: "&;", expected: ""},
		{name: "bad decimal", input: "&#4a;", expected: ""},
		{name: "bare ampersand", input: "& b", expected: ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			c := scan.New(testCase.input)
			entity, ok := c.SkipHTMLEntity()
			assert.Equal(t, testCase.expected != "", ok)
			assert.Equal(t, testCase.expected, entity)
			assert.Equal(t, len(testCase.expected), c.Pos())
		})
	}
}

func TestCursor_SkipEscapableChar(t *testing.T) {
	t.Parallel()

	c := scan.New(`\*x`)
	c.SkipEscapableChar(false)
	assert.Equal(t, 2, c.Pos())

	c = scan.New(`\|x`)
	c.SkipEscapableChar(false)
	assert.Equal(t, 1, c.Pos(), "pipe escapes only in extra mode")

	c = scan.New(`\|x`)
	c.SkipEscapableChar(true)
	assert.Equal(t, 2, c.Pos())
}
