package search

import (
	"sort"

	"github.com/hyperjump/juris/internal/models"
)

// scoredResult carries the tie-break keys alongside a result.
type scoredResult struct {
	result    models.AggregatedResult
	priority  int
	admission int
	rank      int
}

// mergeResults flattens per-court buffers, sorts by descending score and keeps
// the first limit entries. Equal scores are ordered by category priority, then
// admission order, then the court's own rank, so output does not depend on
// completion order.
func mergeResults(buffers [][]scoredResult, limit int) []models.AggregatedResult {
	var all []scoredResult
	for _, buf := range buffers {
		all = append(all, buf...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.result.RelevanceScore != b.result.RelevanceScore {
			return a.result.RelevanceScore > b.result.RelevanceScore
		}
		if a.priority != b.priority {
			return a.priority < b.priority
		}
		if a.admission != b.admission {
			return a.admission < b.admission
		}
		return a.rank < b.rank
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	out := make([]models.AggregatedResult, len(all))
	for i, s := range all {
		out[i] = s.result
	}
	return out
}
