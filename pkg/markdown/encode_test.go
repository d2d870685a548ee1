package markdown_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gomddeep/pkg/markdown"
)

func TestHTMLEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "hello", want: "hello"},
		{name: "specials", input: `<a href="x">&</a>`, want: "&lt;a href=&quot;x&quot;&gt;&amp;&lt;/a&gt;"},
		{name: "entity is re-encoded", input: "&amp;", want: "&amp;amp;"},
		{name: "empty", input: "", want: ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := markdown.HTMLEncode(testCase.input)
			assert.Equal(t, testCase.want, got)
			assert.NotContains(t, got, "<")
			assert.NotContains(t, got, ">")
		})
	}
}

func TestSmartEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		wantAmps   string
		wantAngles string
	}{
		{
			name:       "bare ampersand",
			input:      "a & b",
			wantAmps:   "a &amp; b",
			wantAngles: "a &amp; b",
		},
		{
			name:       "entities survive",
			input:      "&copy; &#169; &#xA9;",
			wantAmps:   "&copy; &#169; &#xA9;",
			wantAngles: "&copy; &#169; &#xA9;",
		},
		{
			name:       "angles",
			input:      "<b>",
			wantAmps:   "<b>",
			wantAngles: "&lt;b&gt;",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.wantAmps, markdown.SmartEncodeAmps(testCase.input))
			assert.Equal(t, testCase.wantAngles, markdown.SmartEncodeAmpsAndAngles(testCase.input))
		})
	}
}

func TestSmartEncodeAmps_Idempotent(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"a & b", "&amp;&", "R&D &copy;", "&#;"} {
		once := markdown.SmartEncodeAmps(input)
		assert.Equal(t, once, markdown.SmartEncodeAmps(once), input)
		assert.NotContains(t, strings.ReplaceAll(once, "&amp;", ""), "& ", input)
	}
}
