package match

import (
	"cmp"
	"slices"
)

// MinSimilarity is the score a candidate needs to be suggested.
const MinSimilarity = 0.5

type scored struct {
	name  string
	score float64
}

// Suggest returns up to limit candidates similar to name, best first. Ties
// keep the candidate order.
func Suggest(name string, candidates []string, limit int) []string {
	var ranked []scored

	for _, c := range candidates {
		if s := Similarity(name, c); s >= MinSimilarity {
			ranked = append(ranked, scored{name: c, score: s})
		}
	}

	slices.SortStableFunc(ranked, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.name
	}

	return out
}

// DidYouMean renders the best suggestion as " (did you mean X?)", or ""
// when nothing is close enough.
func DidYouMean(name string, candidates []string) string {
	best := Suggest(name, candidates, 1)
	if len(best) == 0 {
		return ""
	}

	return " (did you mean " + best[0] + "?)"
}
