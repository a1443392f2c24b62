package ranking

import "github.com/hyperjump/juris/internal/models"

// ThemeBonus is added to every score when the query cites a theme number.
const ThemeBonus = 0.2

// Score computes the relevance of an item ranked rank (1-based) by a court of
// category c for query. It is a pure function of its arguments.
func Score(c models.Category, rank int, query string) float64 {
	return NewScorer(query).Score(c, rank)
}

// QueryBonus returns the additive bonus the query earns regardless of court or rank.
func QueryBonus(query string) float64 {
	if MatchesTheme(query) {
		return ThemeBonus
	}
	return 0
}

// Scorer scores items for a fixed query. The query bonus is computed once.
type Scorer struct {
	bonus float64
}

// NewScorer creates a scorer for query.
func NewScorer(query string) Scorer {
	return Scorer{bonus: QueryBonus(query)}
}

// Score returns (1/rank) * boost(c) + query bonus. Ranks below 1 count as 1.
func (s Scorer) Score(c models.Category, rank int) float64 {
	if rank < 1 {
		rank = 1
	}
	return (1/float64(rank))*c.Boost() + s.bonus
}
