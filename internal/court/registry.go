package court

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hyperjump/juris/internal/config"
	"github.com/hyperjump/juris/internal/models"
	"github.com/hyperjump/juris/internal/ranking"
	"github.com/hyperjump/juris/internal/search"
	"go.uber.org/zap"
)

// Registry is the search.Searcher used in production. It picks the adapter
// named by the court's catalog entry.
type Registry struct {
	adapters map[models.AdapterKind]Adapter
	client   *http.Client
	limiter  *HostLimiter
	logger   *zap.Logger
}

var _ search.Searcher = (*Registry)(nil)

// Option configures a Registry.
type Option func(*Registry)

// WithHTTPClient replaces the HTTP client used by the built-in adapters.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Registry) { r.client = c }
}

// WithHostLimiter replaces the per-host limiter.
func WithHostLimiter(l *HostLimiter) Option {
	return func(r *Registry) { r.limiter = l }
}

// WithAdapter registers or overrides the adapter for kind.
func WithAdapter(kind models.AdapterKind, a Adapter) Option {
	return func(r *Registry) { r.adapters[kind] = a }
}

// WithLogger sets the registry logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry creates a registry with the json, rss and html adapters
// configured from cfg.
func NewRegistry(cfg config.HTTPConfig, opts ...Option) *Registry {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	r := &Registry{
		adapters: make(map[models.AdapterKind]Adapter),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.client == nil {
		r.client = NewHTTPClient(timeout)
	}
	if r.limiter == nil {
		r.limiter = NewHostLimiter(cfg.HostRPS, cfg.HostBurst)
	}
	f := &fetcher{client: r.client, userAgent: cfg.UserAgent, limiter: r.limiter}
	builtin := map[models.AdapterKind]Adapter{
		models.AdapterJSON: &jsonAdapter{fetcher: f},
		models.AdapterRSS:  &rssAdapter{fetcher: f, analyzer: ranking.NewQueryAnalyzer()},
		models.AdapterHTML: &htmlAdapter{fetcher: f},
	}
	for kind, a := range builtin {
		if _, ok := r.adapters[kind]; !ok {
			r.adapters[kind] = a
		}
	}
	return r
}

// Start runs background maintenance until ctx is done.
func (r *Registry) Start(ctx context.Context) {
	r.limiter.StartJanitor(ctx)
}

// Kinds returns the adapter kinds the registry can serve.
func (r *Registry) Kinds() []models.AdapterKind {
	out := make([]models.AdapterKind, 0, len(r.adapters))
	for k := range r.adapters {
		out = append(out, k)
	}
	return out
}

// Search queries one court and ranks its items in the court's order.
func (r *Registry) Search(ctx context.Context, src models.Source, query string, opts search.SearchOptions) (*models.SourceOutcome, error) {
	a, ok := r.adapters[src.Adapter.Kind]
	if !ok {
		return nil, newError(src.ID, "UNKNOWN_ADAPTER",
			fmt.Sprintf("integração %q não suportada", src.Adapter.Kind), ErrUnknownAdapter)
	}
	start := time.Now()
	items, err := a.Search(ctx, src, query, opts.MaxResults)
	if err != nil {
		fields := []zap.Field{
			zap.String("court", src.ID),
			zap.String("kind", string(src.Adapter.Kind)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		}
		var cerr *Error
		if errors.As(err, &cerr) {
			fields = append(fields, cerr.Fields()...)
		}
		r.logger.Debug("court adapter failed", fields...)
		return nil, err
	}
	if opts.MaxResults > 0 && len(items) > opts.MaxResults {
		items = items[:opts.MaxResults]
	}
	for i := range items {
		items[i].Rank = i + 1
	}
	if items == nil {
		items = []models.ResultItem{}
	}
	r.logger.Debug("court adapter finished",
		zap.String("court", src.ID),
		zap.Int("items", len(items)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &models.SourceOutcome{Items: items}, nil
}
