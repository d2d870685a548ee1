package configloader

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxTypoDistance bounds the edit distance of a typo suggestion.
const maxTypoDistance = 2

// Suggest returns the candidate input most plausibly meant, or "" when
// nothing is close. Abbreviations ("autoid" for "auto_heading_ids") are
// found by subsequence match; typos by edit distance.
func Suggest(input string, candidates []string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return ""
	}

	ranks := fuzzy.RankFindNormalizedFold(input, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDistance := "", maxTypoDistance+1
	for _, candidate := range candidates {
		distance := fuzzy.LevenshteinDistance(input, strings.ToLower(candidate))
		if distance < bestDistance {
			best, bestDistance = candidate, distance
		}
	}
	return best
}

// didYouMean formats a suggestion suffix for error and warning messages.
func didYouMean(input string, candidates []string) string {
	if suggestion := Suggest(input, candidates); suggestion != "" {
		return " (did you mean " + suggestion + "?)"
	}
	return ""
}

// optionKeys returns the canonical markdown option keys in sorted order.
func optionKeys() []string {
	keys := make([]string, 0, len(canonicalOptionKeys))
	for key := range canonicalOptionKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
