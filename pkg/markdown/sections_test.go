package markdown_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gomddeep/pkg/markdown"
)

func TestSplitSections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "preamble and headings",
			input: "Intro\n\n# One\n\nText\n\n## Two\n\nMore\n",
			want:  []string{"Intro\n\n", "# One\n\nText\n\n", "## Two\n\nMore\n"},
		},
		{
			name:  "starts with heading",
			input: "# One\nText\n",
			want:  []string{"", "# One\nText\n"},
		},
		{
			name:  "setext heading",
			input: "Intro\n\nOne\n===\n\nText\n",
			want:  []string{"Intro\n\n", "One\n===\n\nText\n"},
		},
		{
			name:  "h4 does not split",
			input: "#### Deep\n\nText\n",
			want:  []string{"#### Deep\n\nText\n"},
		},
		{
			name:  "heading inside code is ignored",
			input: "Intro\n\n```\n# not a heading\n```\n",
			want:  []string{"Intro\n\n```\n# not a heading\n```\n"},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := markdown.SplitSections(testCase.input)
			if diff := cmp.Diff(testCase.want, got); diff != "" {
				t.Errorf("SplitSections() mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, testCase.input, markdown.JoinSections(got))
		})
	}
}

func TestJoinSections_AddsMissingLineBreaks(t *testing.T) {
	t.Parallel()

	got := markdown.JoinSections([]string{"Intro", "", "# One\n", "Text"})
	assert.Equal(t, "Intro\n# One\nText", got)
}

func TestSplitUserSections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "equals break",
			input: "First\n\n===\n\nSecond\n",
			want:  []string{"First", "Second"},
		},
		{
			name:  "rule break",
			input: "First\n\n* * *\n\nSecond\n",
			want:  []string{"First", "Second"},
		},
		{
			name:  "link definition after break stays in the next section",
			input: "First\n\n===\n[a]: http://a.com\nSecond [a]\n",
			want:  []string{"First", "[a]: http://a.com\nSecond [a]"},
		},
		{
			name:  "no breaks",
			input: "Only\n",
			want:  []string{"Only"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := markdown.SplitUserSections(testCase.input)
			if diff := cmp.Diff(testCase.want, got); diff != "" {
				t.Errorf("SplitUserSections() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUserSections_RoundTrip(t *testing.T) {
	t.Parallel()

	sections := []string{"# Part one\n\nText", "Part *two*", "- a\n- b"}

	joined := markdown.JoinUserSections(sections)
	assert.Equal(t, "# Part one\n\nText\n\n===\n\nPart *two*\n\n===\n\n- a\n- b", joined)

	if diff := cmp.Diff(sections, markdown.SplitUserSections(joined)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTransform_UserBreaksRenderNothing(t *testing.T) {
	t.Parallel()

	opts := markdown.DefaultOptions()
	opts.UserBreaks = true

	assert.Equal(t, "<p>a</p>\n<p>b</p>\n", markdown.Transform("a\n\n===\n\nb\n", opts))
}
