package search

import (
	"testing"

	"github.com/hyperjump/juris/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(sources []models.Source) []string {
	out := make([]string, len(sources))
	for i, s := range sources {
		out[i] = s.ID
	}
	return out
}

func TestSelectSources_PinnedMovesToFront(t *testing.T) {
	catalog := []models.Source{
		source("b1", models.CategoryFederal),
		source("a1", models.CategorySuperior),
		source("a2", models.CategorySuperior),
	}
	requested := []models.Category{models.CategorySuperior, models.CategoryFederal}

	got, err := SelectSources(catalog, requested, models.DefaultCategories, map[string]bool{"b1": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"b1", "a1", "a2"}, ids(got))
}

func TestCandidates_SortsByPriorityStable(t *testing.T) {
	catalog := []models.Source{
		source("tjsp", models.CategoryEstadual),
		source("trf1", models.CategoryFederal),
		source("trt2", models.CategoryTrabalho),
		source("stj", models.CategorySuperior),
		source("trf4", models.CategoryFederal),
		source("stf", models.CategorySuperior),
		source("tjrj", models.CategoryEstadual),
	}
	all := []models.Category{models.CategoryEstadual, models.CategoryTrabalho, models.CategoryFederal, models.CategorySuperior}
	got := Candidates(catalog, all)
	assert.Equal(t, []string{"stj", "stf", "trf1", "trf4", "trt2", "tjsp", "tjrj"}, ids(got))
}

func TestCandidates_FiltersByCategory(t *testing.T) {
	catalog := []models.Source{
		source("tjsp", models.CategoryEstadual),
		source("trf1", models.CategoryFederal),
		source("stj", models.CategorySuperior),
	}
	got := Candidates(catalog, []models.Category{models.CategoryEstadual})
	assert.Equal(t, []string{"tjsp"}, ids(got))
}

func TestEffectiveCategories(t *testing.T) {
	defaults := []models.Category{models.CategorySuperior, models.CategoryFederal}
	assert.Equal(t, defaults, EffectiveCategories(nil, defaults))
	assert.Equal(t, []models.Category{models.CategoryTrabalho},
		EffectiveCategories([]models.Category{models.CategoryTrabalho}, defaults))
}

func TestSelectSources_DefaultsWhenNoneRequested(t *testing.T) {
	catalog := []models.Source{
		source("tjsp", models.CategoryEstadual),
		source("trf1", models.CategoryFederal),
		source("stj", models.CategorySuperior),
	}
	got, err := SelectSources(catalog, nil, models.DefaultCategories, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"stj", "trf1"}, ids(got))
}

func TestSelectSources_NoCandidates(t *testing.T) {
	catalog := []models.Source{source("stj", models.CategorySuperior)}
	got, err := SelectSources(catalog, []models.Category{models.CategoryEstadual}, models.DefaultCategories, nil)
	assert.ErrorIs(t, err, ErrNoSources)
	assert.Empty(t, got)
}

func TestPrioritize_StablePartition(t *testing.T) {
	in := []models.Source{
		source("a", models.CategorySuperior),
		source("b", models.CategorySuperior),
		source("c", models.CategoryFederal),
		source("d", models.CategoryFederal),
		source("e", models.CategoryEstadual),
	}
	got := Prioritize(in, map[string]bool{"e": true, "b": true, "zz": true})
	assert.Equal(t, []string{"b", "e", "a", "c", "d"}, ids(got))
}

func TestPrioritize_NoPins(t *testing.T) {
	in := sourcesN(3, models.CategoryFederal)
	assert.Equal(t, ids(in), ids(Prioritize(in, nil)))
}
