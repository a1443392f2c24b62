// Package main is the juris CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/juris/internal/catalog"
	"github.com/hyperjump/juris/internal/cli"
	"github.com/hyperjump/juris/internal/config"
	"github.com/hyperjump/juris/internal/court"
	"github.com/hyperjump/juris/internal/models"
	"github.com/hyperjump/juris/internal/search"
	"github.com/hyperjump/juris/internal/server"
	"github.com/hyperjump/juris/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/juris/config.yaml"
	defaultServerURL  = "http://localhost:8080"
)

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used.
// When the default path does not exist either, built-in defaults are returned with
// an empty resolved path.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func newLogger(cfg *config.Config, debug bool) (*zap.Logger, error) {
	return utils.NewLoggerWithFile(debug, utils.FileOptions{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "courts":
		runCourts()
	case "categories":
		runCategories()
	case "init-config":
		runInitConfig()
	case "version", "--version", "-v":
		fmt.Printf("juris version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (per-court timings, catalog reloads, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := newLogger(cfg, debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	components, err := initializeComponents(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	if cfg.Catalog.Watch {
		if err := components.Catalog.Watch(ctx); err != nil {
			logger.Fatal("Failed to watch catalog", zap.Error(err))
		}
	}

	srv := server.NewServer(components.Engine, &cfg.Server, logger)
	go func() {
		if err := srv.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
}

// stringList is a repeatable flag that also accepts comma-separated values.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*s = append(*s, part)
		}
	}
	return nil
}

// printSearchUsage prints search subcommand usage.
func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: juris search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. Multi-word queries work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Courts of the selected branches are searched in priority order (superior,
federal, trabalho, estadual). Pinned courts (--court) are searched first.
Without --branch the configured default branches are used.

Examples:
  juris search dano moral
  juris search "Tema 1046"                          # theme citations rank higher
  juris search --branch trabalho,estadual horas extras
  juris search --court trf4 --court stj icms base de cálculo
  juris search --server "" --output json aposentadoria especial
`)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct mode)")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = query the courts directly)")
	outputFormat := fs.String("output", "text", "output format: text (human-readable), compact (one result per line), or json (parseable)")
	timeout := fs.Duration("timeout", 2*time.Minute, "overall timeout")
	var branches, courts stringList
	fs.Var(&branches, "branch", "branch to search: superior, federal, trabalho, estadual (repeatable or comma-separated)")
	fs.Var(&courts, "court", "court id to search first (repeatable or comma-separated)")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgsReorder(os.Args[2:]))

	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	req := &models.SearchRequest{Query: queryStr, Branches: branches, Courts: courts}
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var response *models.SearchResponse
	if *serverURL != "" {
		response, err = cli.NewClient(*serverURL, *timeout).Search(ctx, req)
	} else {
		response, err = searchDirect(ctx, *configPath, req)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// searchDirect runs the aggregation in-process, without a server.
func searchDirect(ctx context.Context, configPath string, req *models.SearchRequest) (*models.SearchResponse, error) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := newLogger(cfg, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	components, err := initializeComponents(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer components.Close()

	response, err := components.Engine.Search(ctx, req)
	switch {
	case errors.Is(err, models.ErrEmptyQuery):
		return nil, errors.New("informe um termo ou tema de pesquisa")
	case errors.Is(err, search.ErrNoSources):
		return nil, errors.New("nenhum tribunal selecionado para pesquisa")
	}
	return response, err
}

func runCourts() {
	fs := flag.NewFlagSet("courts", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct mode)")
	serverURL := fs.String("server", "", "server URL (empty = read the local catalog)")
	var branches stringList
	fs.Var(&branches, "branch", "only list courts of this branch (repeatable or comma-separated)")
	_ = fs.Parse(os.Args[2:])

	var courts []models.CourtInfo
	if *serverURL != "" {
		var err error
		courts, err = cli.NewClient(*serverURL, 30*time.Second).Courts(context.Background(), branches)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Listing courts failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		cat, err := catalog.New(cfg.Catalog.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load catalog: %v\n", err)
			os.Exit(1)
		}
		categories := models.ParseCategories(branches)
		if len(categories) == 0 {
			for _, info := range models.Categories() {
				categories = append(categories, info.Category)
			}
		}
		for _, src := range search.Candidates(cat.Sources(), categories) {
			courts = append(courts, src.Info())
		}
	}
	if err := cli.WriteCourts(os.Stdout, courts); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runCategories() {
	fs := flag.NewFlagSet("categories", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	defaults := models.ParseCategories(cfg.Search.DefaultBranches)
	if len(defaults) == 0 {
		defaults = models.DefaultCategories
	}
	if err := cli.WriteCategories(os.Stdout, models.Categories(), defaults); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runInitConfig() {
	fs := flag.NewFlagSet("init-config", flag.ExitOnError)
	force := fs.Bool("force", false, "overwrite an existing file")
	_ = fs.Parse(os.Args[2:])

	path := "config.yaml"
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	if err := writeDefaultConfig(path, *force); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Config written: %s\n", path)
}

// writeDefaultConfig saves the built-in defaults to path.
func writeDefaultConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}
	return config.Save(path, config.Default())
}

// Components holds initialized services.
type Components struct {
	Catalog  *catalog.Catalog
	Registry *court.Registry
	Engine   *search.Engine
}

// Close stops background work owned by the components.
func (c *Components) Close() {
	if c.Catalog != nil {
		c.Catalog.Close()
	}
}

func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	cat, err := catalog.New(cfg.Catalog.Path, catalog.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	registry := court.NewRegistry(cfg.HTTP, court.WithLogger(logger))
	registry.Start(ctx)

	logger.Info("catalog ready",
		zap.String("path", cat.Path()),
		zap.Int("courts", len(cat.Sources())),
	)
	for _, id := range unsupportedCourts(cat.Sources(), registry.Kinds()) {
		logger.Warn("court uses an adapter the registry does not provide", zap.String("court", id))
	}
	return &Components{
		Catalog:  cat,
		Registry: registry,
		Engine:   search.NewEngine(cat, registry, &cfg.Search, logger),
	}, nil
}

// unsupportedCourts returns the ids of courts whose adapter kind is not in kinds.
func unsupportedCourts(sources []models.Source, kinds []models.AdapterKind) []string {
	known := make(map[models.AdapterKind]bool, len(kinds))
	for _, k := range kinds {
		known[k] = true
	}
	var out []string
	for _, src := range sources {
		if !known[src.Adapter.Kind] {
			out = append(out, src.ID)
		}
	}
	return out
}

func printUsage() {
	fmt.Println(`juris - Brazilian jurisprudence search across many courts

Usage:
  juris server [flags]             Start the HTTP server
  juris search [flags] <query>     Search the selected courts
  juris courts [flags]             List the court catalog
  juris categories [flags]         List branches, priorities and weights
  juris init-config [path]         Write a config file with the defaults
  juris version                    Show version
  juris help                       Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/juris/config.yaml)
  --debug            Enable debug logging

Search Flags:
  --config string    Config file path (for direct mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") to query courts directly.
  --branch value     Branch to search (repeatable or comma-separated)
  --court value      Court id to search first (repeatable or comma-separated)
  --output string    Output format: text, compact, or json (default: text)
  --timeout duration Overall timeout (default: 2m)

Courts Flags:
  --server string    Server URL (empty = local catalog)
  --branch value     Only list courts of this branch

Examples:
  juris server
  juris search "Tema 1046"
  juris search --branch trabalho horas extras
  juris search --output json --court stf "repercussão geral"
  juris courts --branch federal
  juris init-config ./config.yaml`)
}
