package scan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gomddeep/pkg/scan"
)

func TestUnescape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		extraMode bool
		expected  string
	}{
		{name: "no escapes", input: "plain", expected: "plain"},
		{name: "star", input: `\*not em\*`, expected: "*not em*"},
		{name: "unknown escape kept", input: `\q`, expected: `\q`},
		{name: "pipe without extra", input: `a\|b`, expected: `a\|b`},
		{name: "pipe with extra", input: `a\|b`, extraMode: true, expected: "a|b"},
		{name: "trailing backslash", input: `end\`, expected: `end\`},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expected, scan.Unescape(testCase.input, testCase.extraMode))
		})
	}
}

func TestNormalizeLineEnds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a\nb\nc\nd", scan.NormalizeLineEnds("a\r\nb\rc\nd"))
	assert.Equal(t, "same", scan.NormalizeLineEnds("same"))
}

func TestEntityLength(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5, scan.EntityLength("&amp;x"))
	assert.Equal(t, 0, scan.EntityLength("&amp"))
	assert.Equal(t, 0, scan.EntityLength("amp;"))
}

func TestIsEscapable(t *testing.T) {
	t.Parallel()

	for _, ch := range []byte("\\`*_{}[]()>#+-.!") {
		assert.True(t, scan.IsEscapable(ch, false), "%q", ch)
	}
	for _, ch := range []byte(":|=<") {
		assert.False(t, scan.IsEscapable(ch, false), "%q", ch)
		assert.True(t, scan.IsEscapable(ch, true), "%q", ch)
	}
	assert.False(t, scan.IsEscapable('a', true))
}
