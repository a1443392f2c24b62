package search

import (
	"context"
	"fmt"

	"github.com/hyperjump/juris/internal/models"
)

func source(id string, c models.Category) models.Source {
	return models.Source{ID: id, Name: "Tribunal " + id, Category: c}
}

func sourcesN(n int, c models.Category) []models.Source {
	out := make([]models.Source, n)
	for i := range out {
		out[i] = source(fmt.Sprintf("s%d", i+1), c)
	}
	return out
}

func items(src models.Source, n int) []models.ResultItem {
	out := make([]models.ResultItem, n)
	for i := range out {
		out[i] = models.ResultItem{
			URL:     fmt.Sprintf("https://%s.jus.br/doc/%d", src.ID, i+1),
			Title:   fmt.Sprintf("%s acórdão %d", src.ID, i+1),
			Snippet: "ementa",
			Rank:    i + 1,
		}
	}
	return out
}

// fixedSearcher returns n items for every court, failing the ids in fail.
func fixedSearcher(n int, fail map[string]error) SearcherFunc {
	return func(_ context.Context, src models.Source, _ string, _ SearchOptions) (*models.SourceOutcome, error) {
		if err := fail[src.ID]; err != nil {
			return nil, err
		}
		return &models.SourceOutcome{Items: items(src, n)}, nil
	}
}

type staticCatalog []models.Source

func (c staticCatalog) Sources() []models.Source { return c }

func (c staticCatalog) Get(id string) (models.Source, bool) {
	for _, src := range c {
		if src.ID == id {
			return src, true
		}
	}
	return models.Source{}, false
}
