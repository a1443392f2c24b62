package ranking

import (
	"testing"

	"github.com/hyperjump/juris/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		category models.Category
		rank     int
		query    string
		want     float64
	}{
		{"superior rank 1", models.CategorySuperior, 1, "empregado", 1.4},
		{"superior rank 2", models.CategorySuperior, 2, "empregado", 0.7},
		{"federal rank 1", models.CategoryFederal, 1, "empregado", 1.2},
		{"estadual rank 4", models.CategoryEstadual, 4, "empregado", 0.25},
		{"theme bonus", models.CategoryEstadual, 1, "Tema 123", 1.2},
		{"theme bonus lowercase no space", models.CategoryTrabalho, 1, "tema45", 1.3},
		{"theme bonus no-break space", models.CategoryFederal, 1, "Tema\u00a0123", 1.4},
		{"theme bonus narrow no-break space", models.CategoryFederal, 2, "TEMA\u202f7", 0.8},
		{"rank zero clamps to one", models.CategoryEstadual, 0, "x", 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(tt.category, tt.rank, tt.query), 1e-9)
		})
	}
}

func TestScore_Pure(t *testing.T) {
	for _, c := range models.Categories() {
		for rank := 1; rank <= 5; rank++ {
			a := Score(c.Category, rank, "Tema 999 dano")
			b := Score(c.Category, rank, "Tema 999 dano")
			assert.Equal(t, a, b)
		}
	}
}

func TestScore_ThemeBonusIsAdditive(t *testing.T) {
	for _, c := range models.Categories() {
		with := Score(c.Category, 3, "Tema 123")
		without := Score(c.Category, 3, "empregado")
		assert.InDelta(t, ThemeBonus, with-without, 1e-9, "category %s", c.Category)
	}
}

func TestScore_DecreasesWithRank(t *testing.T) {
	s := NewScorer("consulta")
	prev := s.Score(models.CategoryFederal, 1)
	for rank := 2; rank <= 10; rank++ {
		cur := s.Score(models.CategoryFederal, rank)
		assert.Less(t, cur, prev)
		prev = cur
	}
}
