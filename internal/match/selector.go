package match

import (
	"sort"

	"reelmap/internal/domain"
)

// Rank scores every record that has a display name against name and
// returns them best first. Equal scores keep provider order.
func Rank(name string, recs []domain.RawPlaceRecord) []domain.ScoredCandidate {
	out := make([]domain.ScoredCandidate, 0, len(recs))
	for _, r := range recs {
		display := r.Name()
		if display == "" {
			continue
		}
		out = append(out, domain.ScoredCandidate{Record: r, Score: Similarity(name, display)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Best returns the top entry; ok is false (and the score 0) when scored is empty.
func Best(scored []domain.ScoredCandidate) (domain.ScoredCandidate, bool) {
	if len(scored) == 0 {
		return domain.ScoredCandidate{}, false
	}
	return scored[0], true
}
