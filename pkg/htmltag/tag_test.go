package htmltag_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomddeep/pkg/htmltag"
	"github.com/yaklabco/gomddeep/pkg/scan"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		tag     string
		attrs   []htmltag.Attr
		closed  bool
		closing bool
		rest    string
	}{
		{
			name:  "simple opening",
			input: "<div>rest",
			tag:   "div",
			rest:  "rest",
		},
		{
			name:    "closing",
			input:   "</div>rest",
			tag:     "div",
			closing: true,
			rest:    "rest",
		},
		{
			name:   "self closed",
			input:  "<br/>x",
			tag:    "br",
			closed: true,
			rest:   "x",
		},
		{
			name:  "quoted and bare attributes",
			input: `<img src="a.png" width=20 alt>!`,
			tag:   "img",
			attrs: []htmltag.Attr{
				{Name: "src", Value: "a.png"},
				{Name: "width", Value: "20"},
				{Name: "alt", Value: ""},
			},
			rest: "!",
		},
		{
			name:   "comment",
			input:  "<!-- note -->after",
			tag:    "!",
			attrs:  []htmltag.Attr{{Name: "content", Value: " note "}},
			closed: true,
			rest:   "after",
		},
		{
			name:  "duplicate attribute keeps last",
			input: `<a title="one" title="two">`,
			tag:   "a",
			attrs: []htmltag.Attr{{Name: "title", Value: "two"}},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			c := scan.New(testCase.input)
			tag, ok := htmltag.Parse(c)
			require.True(t, ok)

			assert.Equal(t, testCase.tag, tag.Name)
			assert.Equal(t, testCase.attrs, tag.Attrs)
			assert.Equal(t, testCase.closed, tag.Closed)
			assert.Equal(t, testCase.closing, tag.Closing)
			assert.Equal(t, testCase.rest, c.Remainder())
		})
	}
}

func TestParse_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "not a tag", input: "div>"},
		{name: "space after bracket", input: "< div>"},
		{name: "closing with attributes", input: "</div class=x>"},
		{name: "unterminated quote", input: `<a href="x>text`},
		{name: "unterminated tag", input: "<div class=x"},
		{name: "unterminated comment", input: "<!-- never closed"},
		{name: "less than comparison", input: "<3 hearts>"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			c := scan.New(testCase.input)
			_, ok := htmltag.Parse(c)
			assert.False(t, ok)
			assert.Equal(t, 0, c.Pos(), "cursor must rewind")
		})
	}
}

func TestParseString(t *testing.T) {
	t.Parallel()

	tag, next, ok := htmltag.ParseString("ab<em>c", 2)
	require.True(t, ok)
	assert.Equal(t, "em", tag.Name)
	assert.Equal(t, 6, next)

	_, next, ok = htmltag.ParseString("ab<", 2)
	assert.False(t, ok)
	assert.Equal(t, 2, next)
}

func TestTag_Flags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		flags    htmltag.Flags
		expected bool
	}{
		{name: "div", flags: htmltag.Block, expected: true},
		{name: "DIV", flags: htmltag.Block, expected: true},
		{name: "p", flags: htmltag.Block | htmltag.ContentAsSpan, expected: true},
		{name: "script", flags: htmltag.Block | htmltag.Inline, expected: true},
		{name: "hr", flags: htmltag.NoClosing, expected: true},
		{name: "span", flags: htmltag.Inline, expected: true},
		{name: "span", flags: htmltag.Block, expected: false},
		{name: "td", flags: htmltag.ContentAsSpan, expected: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			tag := htmltag.New(testCase.name)
			assert.Equal(t, testCase.expected, tag.Flags().Has(testCase.flags))
		})
	}
}

func TestTag_IsSafe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "plain em", input: "<em>", expected: true},
		{name: "closing strong", input: "</strong>", expected: true},
		{name: "script", input: "<script>", expected: false},
		{name: "em with attribute", input: `<em class="x">`, expected: false},
		{name: "http link", input: `<a href="http://example.com" title="t">`, expected: true},
		{name: "javascript link", input: `<a href="javascript:x">`, expected: false},
		{name: "onclick link", input: `<a href="http://x.org" onclick="y">`, expected: false},
		{name: "https image", input: `<img src="https://x.org/a.png" alt="a" />`, expected: true},
		{name: "data image", input: `<img src="data:image/png;base64,AAAA" />`, expected: false},
		{name: "relative link", input: `<a href="/local">`, expected: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			tag, ok := htmltag.Parse(scan.New(testCase.input + " "))
			require.True(t, ok)
			assert.Equal(t, testCase.expected, tag.IsSafe())
		})
	}
}

func TestTag_Render(t *testing.T) {
	t.Parallel()

	tag := htmltag.New("a")
	tag.Set("href", "http://x.org")
	tag.Set("title", "t")
	tag.Set("HREF", "http://y.org")
	tag.Set("rel", "nofollow")
	tag.Remove("title")

	var b strings.Builder
	tag.RenderOpening(&b)
	b.WriteString("text")
	tag.RenderClosing(&b)
	assert.Equal(t, `<a href="http://y.org" rel="nofollow">text</a>`, b.String())

	img := htmltag.New("img")
	img.Set("src", "a.png")
	img.Closed = true

	b.Reset()
	img.RenderOpening(&b)
	assert.Equal(t, `<img src="a.png" />`, b.String())

	value, ok := img.Get("SRC")
	assert.True(t, ok)
	assert.Equal(t, "a.png", value)
}
