package errors

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxSuggestions caps how many "did you mean" candidates are attached to an
// unresolved-name error, so a typo against a huge section/variable set
// doesn't produce an unreadable wall of suggestions.
const maxSuggestions = 3

// Suggest returns up to maxSuggestions entries from candidates that are
// fuzzy-close to want, ranked by edit distance (best first). A candidate is
// close when want's characters appear in it in order (case-insensitively),
// or when it is within len(want)/2 edits of want, which also catches swapped
// letters such as "glod" for "gold". It returns nil if nothing is close
// enough to be worth suggesting.
func Suggest(want string, candidates []string) []string {
	ranks := fuzzy.RankFindNormalizedFold(want, candidates)
	matched := make(map[string]bool, len(ranks))
	for _, r := range ranks {
		matched[r.Target] = true
	}
	for _, c := range candidates {
		if matched[c] {
			continue
		}
		if d := fuzzy.LevenshteinDistance(strings.ToLower(want), strings.ToLower(c)); d <= len(want)/2 {
			ranks = append(ranks, fuzzy.Rank{Source: want, Target: c, Distance: d})
		}
	}
	if len(ranks) == 0 {
		return nil
	}
	ranks.Sort()
	n := len(ranks)
	if n > maxSuggestions {
		n = maxSuggestions
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = ranks[i].Target
	}
	return out
}
