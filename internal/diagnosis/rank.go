package diagnosis

import (
	"cmp"
	"slices"

	"github.com/abhisek/sovbot/internal/session"
)

// TopK returns the k highest scores as candidates, ordered by descending
// score with ties kept in topic order. k is clamped to [0, len(scores)].
func TopK(scores []int, k int) []session.Candidate {
	all := make([]session.Candidate, len(scores))
	for id, s := range scores {
		all[id] = session.Candidate{TopicID: id, Score: s}
	}
	slices.SortStableFunc(all, func(a, b session.Candidate) int {
		return cmp.Compare(b.Score, a.Score)
	})
	k = min(max(k, 0), len(all))
	return all[:k:k]
}
