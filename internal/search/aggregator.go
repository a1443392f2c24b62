// Package search runs a jurisprudence query across many courts with bounded
// concurrency and merges the results into a single ranked list.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hyperjump/juris/internal/models"
	"github.com/hyperjump/juris/internal/ranking"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Defaults for Options fields left at zero.
const (
	DefaultConcurrencyLimit = 6
	DefaultPerSourceLimit   = 4
	DefaultTotalLimit       = 60
)

const (
	unexpectedFailure = "falha inesperada."
	timeoutFailure    = "tempo limite excedido."
	emptyOutcome      = "resposta vazia."
)

// SearchOptions is passed to a Searcher for one court.
type SearchOptions struct {
	MaxResults int
}

// Searcher searches a single court. A returned error and a non-empty
// SourceOutcome.Error are both treated as a failure of that court only.
type Searcher interface {
	Search(ctx context.Context, src models.Source, query string, opts SearchOptions) (*models.SourceOutcome, error)
}

// SearcherFunc adapts a function to the Searcher interface.
type SearcherFunc func(ctx context.Context, src models.Source, query string, opts SearchOptions) (*models.SourceOutcome, error)

// Search calls f.
func (f SearcherFunc) Search(ctx context.Context, src models.Source, query string, opts SearchOptions) (*models.SourceOutcome, error) {
	return f(ctx, src, query, opts)
}

// Options are the aggregation tunables.
type Options struct {
	ConcurrencyLimit int
	PerSourceLimit   int
	TotalLimit       int
	// SourceTimeout bounds each court search; zero or negative means no limit.
	SourceTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.ConcurrencyLimit <= 0 {
		o.ConcurrencyLimit = DefaultConcurrencyLimit
	}
	if o.PerSourceLimit <= 0 {
		o.PerSourceLimit = DefaultPerSourceLimit
	}
	if o.TotalLimit <= 0 {
		o.TotalLimit = DefaultTotalLimit
	}
	return o
}

// Result is the outcome of one aggregation run.
type Result struct {
	Results  []models.AggregatedResult
	Warnings []string
	// Consulted lists court names in admission order.
	Consulted []string
	Elapsed   time.Duration
}

// ElapsedMs returns Elapsed rounded to whole milliseconds.
func (r *Result) ElapsedMs() int64 {
	return r.Elapsed.Round(time.Millisecond).Milliseconds()
}

// Aggregator fans a query out to courts through a fixed-size worker pool.
type Aggregator struct {
	searcher Searcher
	logger   *zap.Logger
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithLogger sets the logger used for per-court diagnostics.
func WithLogger(l *zap.Logger) AggregatorOption {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAggregator creates an aggregator that queries courts through searcher.
func NewAggregator(searcher Searcher, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{searcher: searcher, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type job struct {
	index  int
	source models.Source
}

// sourceResult is owned by exactly one worker until the pool is joined.
type sourceResult struct {
	items   []scoredResult
	warning string
}

// Aggregate queries sources in order with at most opts.ConcurrencyLimit
// searches in flight. A court is admitted as soon as a worker frees up. Every
// admitted court runs to completion; failures become warnings and never abort
// the run. When ctx is cancelled no further courts are admitted.
func (a *Aggregator) Aggregate(ctx context.Context, sources []models.Source, query string, opts Options) *Result {
	start := time.Now()
	opts = opts.withDefaults()
	logger := a.logger.With(zap.String("run_id", RunIDFromContext(ctx)))
	scorer := ranking.NewScorer(query)

	buffers := make([]sourceResult, len(sources))
	jobs := make(chan job)

	workers := opts.ConcurrencyLimit
	if workers > len(sources) {
		workers = len(sources)
	}
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for j := range jobs {
				buffers[j.index] = a.searchOne(ctx, logger, j, query, scorer, opts)
			}
			return nil
		})
	}

	consulted := make([]string, 0, len(sources))
	for i, src := range sources {
		if ctx.Err() != nil {
			break
		}
		select {
		case jobs <- job{index: i, source: src}:
			consulted = append(consulted, src.Name)
		case <-ctx.Done():
		}
	}
	close(jobs)
	_ = g.Wait()

	if skipped := len(sources) - len(consulted); skipped > 0 {
		logger.Warn("aggregation cancelled before all courts were admitted",
			zap.Int("skipped", skipped), zap.Error(ctx.Err()))
	}

	var warnings []string
	scored := make([][]scoredResult, 0, len(consulted))
	for _, buf := range buffers[:len(consulted)] {
		if buf.warning != "" {
			warnings = append(warnings, buf.warning)
			continue
		}
		scored = append(scored, buf.items)
	}

	res := &Result{
		Results:   mergeResults(scored, opts.TotalLimit),
		Warnings:  warnings,
		Consulted: consulted,
		Elapsed:   time.Since(start),
	}
	logger.Info("aggregation finished",
		zap.Int("courts", len(consulted)),
		zap.Int("results", len(res.Results)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res
}

// searchOne runs one court search and converts every failure mode, panics
// included, into a warning.
func (a *Aggregator) searchOne(ctx context.Context, logger *zap.Logger, j job, query string, scorer ranking.Scorer, opts Options) (res sourceResult) {
	src := j.source
	began := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("court search panicked",
				zap.String("court", src.ID),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			res = sourceResult{warning: warningFor(src, unexpectedFailure)}
		}
	}()

	// Admitted searches finish even if the caller goes away.
	sctx := context.WithoutCancel(ctx)
	if opts.SourceTimeout > 0 {
		var cancel context.CancelFunc
		sctx, cancel = context.WithTimeout(sctx, opts.SourceTimeout)
		defer cancel()
	}

	outcome, err := a.searcher.Search(sctx, src, query, SearchOptions{MaxResults: opts.PerSourceLimit})
	elapsed := time.Since(began)
	switch {
	case err != nil:
		reason := err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			reason = timeoutFailure
		}
		logger.Warn("court search failed", zap.String("court", src.ID), zap.Duration("elapsed", elapsed), zap.Error(err))
		return sourceResult{warning: warningFor(src, reason)}
	case outcome == nil:
		logger.Warn("court search returned no outcome", zap.String("court", src.ID))
		return sourceResult{warning: warningFor(src, emptyOutcome)}
	case outcome.Error != "":
		logger.Warn("court reported an error", zap.String("court", src.ID), zap.String("error", outcome.Error))
		return sourceResult{warning: warningFor(src, outcome.Error)}
	}

	items := outcome.Items
	if len(items) > opts.PerSourceLimit {
		items = items[:opts.PerSourceLimit]
	}
	out := make([]scoredResult, 0, len(items))
	for pos, item := range items {
		rank := item.Rank
		if rank < 1 {
			rank = pos + 1
		}
		out = append(out, scoredResult{
			result: models.AggregatedResult{
				CourtID:        src.ID,
				CourtName:      src.Name,
				URL:            item.URL,
				Title:          item.Title,
				Snippet:        item.Snippet,
				PublishedAt:    item.PublishedAt,
				RelevanceScore: scorer.Score(src.Category, rank),
			},
			priority:  src.Category.Priority(),
			admission: j.index,
			rank:      rank,
		})
	}
	logger.Debug("court search finished",
		zap.String("court", src.ID),
		zap.Int("items", len(out)),
		zap.Duration("elapsed", elapsed),
	)
	return sourceResult{items: out}
}

func warningFor(src models.Source, reason string) string {
	return fmt.Sprintf("%s: %s", src.Name, reason)
}
