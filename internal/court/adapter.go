// Package court implements the per-court search adapters and the registry
// that dispatches a court to the adapter its catalog entry names.
package court

import (
	"context"

	"github.com/hyperjump/juris/internal/models"
)

// Adapter searches one kind of court endpoint. Items are returned in the
// court's own order; the registry assigns ranks and applies the cap.
type Adapter interface {
	Search(ctx context.Context, src models.Source, query string, max int) ([]models.ResultItem, error)
}

// AdapterFunc adapts a function to the Adapter interface.
type AdapterFunc func(ctx context.Context, src models.Source, query string, max int) ([]models.ResultItem, error)

// Search calls f.
func (f AdapterFunc) Search(ctx context.Context, src models.Source, query string, max int) ([]models.ResultItem, error) {
	return f(ctx, src, query, max)
}
