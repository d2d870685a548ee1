package fsutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomddeep/pkg/fsutil"
)

func TestMatcher(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		{name: "base name", pattern: "*.draft.md", path: "docs/intro.draft.md", want: true},
		{name: "star stays in segment", pattern: "docs/*.md", path: "docs/api/ref.md", want: false},
		{name: "star in segment", pattern: "docs/*.md", path: "docs/ref.md", want: true},
		{name: "double star suffix", pattern: "vendor/**", path: "vendor/pkg/README.md", want: true},
		{name: "double star prefix", pattern: "**/drafts/**", path: "site/drafts/a.md", want: true},
		{name: "double star prefix at root", pattern: "**/drafts/**", path: "drafts/a.md", want: true},
		{name: "no match", pattern: "vendor/**", path: "docs/vendor.md", want: false},
		{name: "character class", pattern: "ch[0-9].md", path: "book/ch3.md", want: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			matcher, err := fsutil.NewMatcher([]string{testCase.pattern})
			require.NoError(t, err)
			assert.Equal(t, testCase.want, matcher.Match(testCase.path))
		})
	}
}

func TestMatcher_MatchDir(t *testing.T) {
	t.Parallel()

	matcher, err := fsutil.NewMatcher([]string{"vendor/**", "node_modules"})
	require.NoError(t, err)

	assert.True(t, matcher.MatchDir("vendor"))
	assert.True(t, matcher.MatchDir("web/node_modules"))
	assert.False(t, matcher.MatchDir("docs"))
	assert.Equal(t, []string{"vendor/**", "node_modules"}, matcher.Patterns())
}

func TestMatcher_Invalid(t *testing.T) {
	t.Parallel()

	_, err := fsutil.NewMatcher([]string{"docs/[a-"})
	require.Error(t, err)

	var nilMatcher *fsutil.Matcher
	assert.False(t, nilMatcher.Match("a.md"))
}
