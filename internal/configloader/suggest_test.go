package configloader

import "testing"

func TestSuggest(t *testing.T) {
	t.Parallel()

	engines := []string{"deep", "goldmark"}

	tests := []struct {
		name       string
		input      string
		candidates []string
		want       string
	}{
		{name: "prefix", input: "gold", candidates: engines, want: "goldmark"},
		{name: "typo", input: "deap", candidates: engines, want: "deep"},
		{name: "case", input: "DEEP", candidates: engines, want: "deep"},
		{name: "nothing close", input: "xyz", candidates: engines, want: ""},
		{name: "empty", input: "", candidates: engines, want: ""},
		{name: "option abbreviation", input: "safe", candidates: optionKeys(), want: "safe_mode"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			if got := Suggest(testCase.input, testCase.candidates); got != testCase.want {
				t.Errorf("Suggest(%q) = %q, want %q", testCase.input, got, testCase.want)
			}
		})
	}
}

func TestDidYouMean(t *testing.T) {
	t.Parallel()

	if got := didYouMean("gold", []string{"goldmark"}); got != " (did you mean goldmark?)" {
		t.Errorf("didYouMean() = %q", got)
	}
	if got := didYouMean("zzz", []string{"goldmark"}); got != "" {
		t.Errorf("didYouMean() = %q, want empty", got)
	}
}
