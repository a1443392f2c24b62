package search

import (
	"errors"
	"sort"

	"github.com/hyperjump/juris/internal/models"
)

// ErrNoSources is returned when no court is left after category filtering.
var ErrNoSources = errors.New("no sources selected")

// EffectiveCategories returns requested, or defaults when requested is empty.
func EffectiveCategories(requested, defaults []models.Category) []models.Category {
	if len(requested) > 0 {
		return requested
	}
	return defaults
}

// Candidates keeps the catalog sources whose category is in categories and
// orders them by category priority. Catalog order is kept within a category.
func Candidates(catalog []models.Source, categories []models.Category) []models.Source {
	allowed := make(map[models.Category]bool, len(categories))
	for _, c := range categories {
		allowed[c] = true
	}
	out := make([]models.Source, 0, len(catalog))
	for _, src := range catalog {
		if allowed[src.Category] {
			out = append(out, src)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Category.Priority() < out[j].Category.Priority()
	})
	return out
}

// Prioritize moves pinned sources to the front. It is a stable partition:
// relative order inside the pinned and unpinned groups is unchanged.
func Prioritize(candidates []models.Source, pinned map[string]bool) []models.Source {
	if len(pinned) == 0 {
		return candidates
	}
	front := make([]models.Source, 0, len(pinned))
	rest := make([]models.Source, 0, len(candidates))
	for _, src := range candidates {
		if pinned[src.ID] {
			front = append(front, src)
		} else {
			rest = append(rest, src)
		}
	}
	return append(front, rest...)
}

// SelectSources filters the catalog by the effective categories, orders the
// candidates and applies pinning. It returns ErrNoSources when nothing remains.
func SelectSources(catalog []models.Source, requested, defaults []models.Category, pinned map[string]bool) ([]models.Source, error) {
	candidates := Candidates(catalog, EffectiveCategories(requested, defaults))
	if len(candidates) == 0 {
		return nil, ErrNoSources
	}
	return Prioritize(candidates, pinned), nil
}
