// Package catalog loads the list of searchable courts from YAML and keeps it
// current when the file changes.
package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/hyperjump/juris/internal/models"
	"github.com/hyperjump/juris/internal/watcher"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed courts.yaml
var builtin []byte

var (
	// ErrInvalidCourt is wrapped by every validation failure.
	ErrInvalidCourt = errors.New("invalid court")
	// ErrDuplicateID is returned when two courts share an id.
	ErrDuplicateID = errors.New("duplicate court id")
	// ErrEmpty is returned for a catalog without courts.
	ErrEmpty = errors.New("catalog has no courts")
)

type file struct {
	Courts []models.Source `yaml:"courts"`
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) ([]models.Source, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	for i := range f.Courts {
		normalize(&f.Courts[i])
	}
	if err := Validate(f.Courts); err != nil {
		return nil, err
	}
	return f.Courts, nil
}

// LoadFile reads and parses the catalog at path.
func LoadFile(path string) ([]models.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Builtin returns the catalog compiled into the binary.
func Builtin() []models.Source {
	sources, err := Parse(builtin)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return sources
}

func normalize(src *models.Source) {
	src.ID = strings.ToLower(strings.TrimSpace(src.ID))
	src.Name = strings.TrimSpace(src.Name)
	src.Category, _ = models.ParseCategory(string(src.Category))
	src.Adapter.Kind = models.AdapterKind(strings.ToLower(strings.TrimSpace(string(src.Adapter.Kind))))
	src.Adapter.Method = strings.ToUpper(strings.TrimSpace(src.Adapter.Method))
}

// Validate checks every court and the uniqueness of ids.
func Validate(sources []models.Source) error {
	if len(sources) == 0 {
		return ErrEmpty
	}
	seen := make(map[string]bool, len(sources))
	for i, src := range sources {
		if err := validateSource(src); err != nil {
			return fmt.Errorf("court %d (%q): %w", i, src.ID, err)
		}
		if seen[src.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateID, src.ID)
		}
		seen[src.ID] = true
	}
	return nil
}

func validateSource(src models.Source) error {
	switch {
	case src.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidCourt)
	case src.Name == "":
		return fmt.Errorf("%w: missing name", ErrInvalidCourt)
	case !src.Category.Valid():
		return fmt.Errorf("%w: unknown branch %q", ErrInvalidCourt, src.Category)
	case src.Adapter.URL == "":
		return fmt.Errorf("%w: missing adapter url", ErrInvalidCourt)
	}
	switch src.Adapter.Method {
	case "", "GET", "POST":
	default:
		return fmt.Errorf("%w: unsupported method %q", ErrInvalidCourt, src.Adapter.Method)
	}
	switch src.Adapter.Kind {
	case models.AdapterJSON:
		if src.Adapter.ItemsPath == "" || src.Adapter.URLPath == "" {
			return fmt.Errorf("%w: json adapter needs items_path and url_path", ErrInvalidCourt)
		}
	case models.AdapterHTML:
		if src.Adapter.ItemSelector == "" {
			return fmt.Errorf("%w: html adapter needs item_selector", ErrInvalidCourt)
		}
	case models.AdapterRSS:
	default:
		return fmt.Errorf("%w: unknown adapter kind %q", ErrInvalidCourt, src.Adapter.Kind)
	}
	return nil
}

// Catalog holds the current court list. It is safe for concurrent use.
type Catalog struct {
	path    string
	mu      sync.RWMutex
	sources []models.Source
	watcher *watcher.Watcher
	logger  *zap.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the catalog logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.logger = l
		}
	}
}

// New loads the catalog at path, or the built-in catalog when path is empty.
func New(path string, opts ...Option) (*Catalog, error) {
	c := &Catalog{path: path, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	if path == "" {
		c.sources = Builtin()
		return c, nil
	}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// FromSources creates a catalog with a fixed court list.
func FromSources(sources []models.Source) (*Catalog, error) {
	if err := Validate(sources); err != nil {
		return nil, err
	}
	return &Catalog{sources: append([]models.Source(nil), sources...), logger: zap.NewNop()}, nil
}

// Path returns the catalog file, or "" for the built-in catalog.
func (c *Catalog) Path() string {
	return c.path
}

// Sources returns a snapshot of the courts in catalog order.
func (c *Catalog) Sources() []models.Source {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Source(nil), c.sources...)
}

// Get returns the court with the given id.
func (c *Catalog) Get(id string) (models.Source, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, src := range c.sources {
		if src.ID == id {
			return src, true
		}
	}
	return models.Source{}, false
}

// Reload re-reads the catalog file. On error the current courts are kept.
func (c *Catalog) Reload() error {
	if c.path == "" {
		return nil
	}
	sources, err := LoadFile(c.path)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.sources = sources
	c.mu.Unlock()
	c.logger.Info("catalog loaded", zap.String("path", c.path), zap.Int("courts", len(sources)))
	return nil
}

// Watch reloads the catalog whenever its file changes, until ctx is done.
// It is a no-op for the built-in catalog.
func (c *Catalog) Watch(ctx context.Context) error {
	if c.path == "" {
		return nil
	}
	w := watcher.NewWatcher([]string{c.path}, c.onChange, c.onRemove, watcher.WithLogger(c.logger))
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("failed to watch catalog: %w", err)
	}
	c.mu.Lock()
	c.watcher = w
	c.mu.Unlock()
	return nil
}

func (c *Catalog) onChange(path string) {
	if err := c.Reload(); err != nil {
		c.logger.Warn("catalog reload failed, keeping previous courts", zap.String("path", path), zap.Error(err))
	}
}

func (c *Catalog) onRemove(path string) {
	c.logger.Warn("catalog file removed, keeping previous courts", zap.String("path", path))
}

// Close stops watching the catalog file.
func (c *Catalog) Close() {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()
	if w != nil {
		w.Stop()
	}
}
