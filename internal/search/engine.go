package search

import (
	"context"

	"github.com/google/uuid"
	"github.com/hyperjump/juris/internal/config"
	"github.com/hyperjump/juris/internal/models"
	"go.uber.org/zap"
)

// Catalog supplies the courts known to the engine.
type Catalog interface {
	Sources() []models.Source
	Get(id string) (models.Source, bool)
}

// Engine validates search requests, selects courts and runs the aggregation.
type Engine struct {
	catalog    Catalog
	aggregator *Aggregator
	config     *config.SearchConfig
	defaults   []models.Category
	logger     *zap.Logger
}

// NewEngine creates a search engine with the given dependencies.
func NewEngine(catalog Catalog, searcher Searcher, cfg *config.SearchConfig, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := models.ParseCategories(cfg.DefaultBranches)
	if len(defaults) == 0 {
		defaults = models.DefaultCategories
	}
	return &Engine{
		catalog:    catalog,
		aggregator: NewAggregator(searcher, WithLogger(logger)),
		config:     cfg,
		defaults:   defaults,
		logger:     logger,
	}
}

// DefaultCategories returns the categories searched when a request names none.
func (e *Engine) DefaultCategories() []models.Category {
	return append([]models.Category(nil), e.defaults...)
}

// Courts returns the catalog sources of the given categories, in priority
// order. With no categories every court is returned.
func (e *Engine) Courts(categories []models.Category) []models.Source {
	if len(categories) == 0 {
		for _, info := range models.Categories() {
			categories = append(categories, info.Category)
		}
	}
	return Candidates(e.catalog.Sources(), categories)
}

// Court returns the catalog entry with the given id.
func (e *Engine) Court(id string) (models.Source, bool) {
	return e.catalog.Get(id)
}

// Search runs a jurisprudence search. It returns models.ErrEmptyQuery or
// ErrNoSources before contacting any court; once courts are queried it always
// returns a response, possibly empty and carrying warnings.
func (e *Engine) Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	sources, err := SelectSources(e.catalog.Sources(), req.Categories(), e.defaults, req.PinnedSet())
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	ctx = WithRunID(ctx, runID)
	e.logger.Debug("search started",
		zap.String("run_id", runID),
		zap.String("query", req.Query),
		zap.Int("courts", len(sources)),
	)

	res := e.aggregator.Aggregate(ctx, sources, req.Query, e.options())
	results := res.Results
	if results == nil {
		results = []models.AggregatedResult{}
	}
	return &models.SearchResponse{
		Results: results,
		Diagnostics: models.RunDiagnostics{
			ElapsedMs:       res.ElapsedMs(),
			CourtsConsulted: res.Consulted,
			Query:           req.Query,
			RunID:           runID,
		},
		Warnings: res.Warnings,
	}, nil
}

func (e *Engine) options() Options {
	return Options{
		ConcurrencyLimit: e.config.ConcurrencyLimit,
		PerSourceLimit:   e.config.PerSourceLimit,
		TotalLimit:       e.config.TotalLimit,
		SourceTimeout:    e.config.SourceTimeout,
	}
}
