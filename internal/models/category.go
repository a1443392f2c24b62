// Package models defines core data structures for courts, queries, and aggregated results.
package models

import "strings"

// Category classifies a court. The set is closed; see Categories.
type Category string

const (
	// CategorySuperior covers the superior courts (STF, STJ, TST, ...).
	CategorySuperior Category = "superior"
	// CategoryFederal covers the regional federal courts (TRFs).
	CategoryFederal Category = "federal"
	// CategoryTrabalho covers the regional labour courts (TRTs).
	CategoryTrabalho Category = "trabalho"
	// CategoryEstadual covers the state courts (TJs).
	CategoryEstadual Category = "estadual"
)

// CategoryInfo holds the fixed ranking attributes of a category.
type CategoryInfo struct {
	Category Category `json:"id" yaml:"id"`
	Label    string   `json:"label" yaml:"label"`
	// Priority orders candidates before fan-out; lower runs first.
	Priority int `json:"priority" yaml:"priority"`
	// Boost multiplies the rank score of every result from the category.
	Boost float64 `json:"boost" yaml:"boost"`
}

var categoryTable = []CategoryInfo{
	{Category: CategorySuperior, Label: "Cortes Superiores", Priority: 1, Boost: 1.4},
	{Category: CategoryFederal, Label: "Tribunais Regionais Federais", Priority: 2, Boost: 1.2},
	{Category: CategoryTrabalho, Label: "Tribunais Regionais do Trabalho", Priority: 3, Boost: 1.1},
	{Category: CategoryEstadual, Label: "Tribunais de Justiça", Priority: 4, Boost: 1.0},
}

// DefaultCategories is used when a request names no category.
var DefaultCategories = []Category{CategorySuperior, CategoryFederal}

// Categories returns the category table in priority order.
func Categories() []CategoryInfo {
	return append([]CategoryInfo(nil), categoryTable...)
}

// Info returns the table entry for c and whether c is a known category.
func (c Category) Info() (CategoryInfo, bool) {
	for _, info := range categoryTable {
		if info.Category == c {
			return info, true
		}
	}
	return CategoryInfo{}, false
}

// Valid reports whether c belongs to the closed category set.
func (c Category) Valid() bool {
	_, ok := c.Info()
	return ok
}

// Priority returns the category's priority rank; unknown categories sort last.
func (c Category) Priority() int {
	if info, ok := c.Info(); ok {
		return info.Priority
	}
	return len(categoryTable) + 1
}

// Boost returns the category's score multiplier; unknown categories get 1.
func (c Category) Boost() float64 {
	if info, ok := c.Info(); ok {
		return info.Boost
	}
	return 1.0
}

// Label returns the human-readable name of the category.
func (c Category) Label() string {
	if info, ok := c.Info(); ok {
		return info.Label
	}
	return string(c)
}

// ParseCategory normalizes s and reports whether it names a known category.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

// ParseCategories keeps the known categories from raw, in order and without
// duplicates. Unknown values are dropped.
func ParseCategories(raw []string) []Category {
	out := make([]Category, 0, len(raw))
	seen := make(map[Category]bool, len(raw))
	for _, s := range raw {
		c, ok := ParseCategory(s)
		if !ok || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
