// Package main is the bunmyaku CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/bunmyaku/internal/agent"
	"github.com/hyperjump/bunmyaku/internal/cli"
	"github.com/hyperjump/bunmyaku/internal/config"
	"github.com/hyperjump/bunmyaku/internal/embedding"
	"github.com/hyperjump/bunmyaku/internal/engine"
	"github.com/hyperjump/bunmyaku/internal/extract"
	"github.com/hyperjump/bunmyaku/internal/history"
	"github.com/hyperjump/bunmyaku/internal/ingest"
	"github.com/hyperjump/bunmyaku/internal/models"
	"github.com/hyperjump/bunmyaku/internal/search"
	"github.com/hyperjump/bunmyaku/internal/storage"
	"github.com/hyperjump/bunmyaku/internal/vector"
	"github.com/hyperjump/bunmyaku/internal/watcher"
	"github.com/hyperjump/bunmyaku/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/bunmyaku/config.yaml"

// loadConfig loads config from path. When path is the default, a config.yaml in
// the current directory takes precedence (for development). Returns the config
// and the path actually loaded.
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
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "run":
		runQuery()
	case "search":
		runSearch()
	case "ingest":
		runIngest()
	case "delete":
		runDelete()
	case "history":
		runHistory()
	case "compare":
		runCompare()
	case "watch":
		runWatch()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("bunmyaku version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// buildQuery joins positional args with spaces so multi-word queries work the
// same with or without shell quoting.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves flags that appear after positional args to the front so
// flag.Parse sees them; the flag package stops at the first non-flag argument.
func argsReorder(args []string) []string {
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

// contextConfigFromFlags builds the per-request configuration: preset as the
// base, JSON overrides merged on top, then the technique toggle flags.
func contextConfigFromFlags(preset, configJSON string, enable, disable string) (*config.ContextConfig, error) {
	base, err := config.Preset(preset)
	if err != nil {
		return nil, err
	}
	if configJSON != "" {
		merged, err := config.ParseContextConfig([]byte(configJSON))
		if err != nil {
			return nil, err
		}
		base = merged
	}
	if err := applyToggles(base, enable, true); err != nil {
		return nil, err
	}
	if err := applyToggles(base, disable, false); err != nil {
		return nil, err
	}
	return base, nil
}

func applyToggles(cfg *config.ContextConfig, list string, value bool) error {
	if list == "" {
		return nil
	}
	for _, name := range strings.Split(list, ",") {
		switch strings.TrimSpace(name) {
		case "memory":
			cfg.Memory.Enabled = value
		case "caching":
			cfg.Caching.Enabled = value
		case "naive_rag":
			cfg.NaiveRAG.Enabled = value
		case "rag_tool":
			cfg.RAGTool.Enabled = value
		case "hybrid_search":
			cfg.HybridSearch.Enabled = value
		case "reranking":
			cfg.Reranking.Enabled = value
		case "compression":
			cfg.Compression.Enabled = value
		case "":
		default:
			return fmt.Errorf("unknown technique: %s", name)
		}
	}
	return nil
}

func runQuery() {
	args := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	preset := fs.String("preset", config.PresetBaseline, "technique preset: "+strings.Join(config.PresetNames(), ", "))
	configJSON := fs.String("context-config", "", "context configuration as JSON (overrides preset)")
	enable := fs.String("enable", "", "comma-separated techniques to enable")
	disable := fs.String("disable", "", "comma-separated techniques to disable")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Println("Usage: bunmyaku run [flags] <query>")
		os.Exit(1)
	}
	query := buildQuery(fs.Args())

	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ctxConfig, err := contextConfigFromFlags(*preset, *configJSON, *enable, *disable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	components, logger := mustInitialize(*configPath)
	defer components.Close()
	defer logger.Sync()

	run, err := components.Engine.Run(context.Background(), query, ctxConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Run failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteRun(os.Stdout, run, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runSearch() {
	args := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	topK := fs.Int("top-k", 5, "number of results")
	threshold := fs.Float64("threshold", 0.2, "minimum cosine similarity")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Println("Usage: bunmyaku search [flags] <query>")
		os.Exit(1)
	}
	query := buildQuery(fs.Args())

	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	components, logger := mustInitialize(*configPath)
	defer components.Close()
	defer logger.Sync()

	results, err := components.Searcher.Search(context.Background(), query, *topK, *threshold)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteRetrievedDocuments(os.Stdout, results, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	chunkSize := fs.Int("chunk-size", 512, "chunk size in characters")
	chunkOverlap := fs.Int("chunk-overlap", 50, "chunk overlap in characters")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: bunmyaku ingest [flags] <file-or-directory>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	if err := ingest.ValidateChunking(*chunkSize, *chunkOverlap); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	components, logger := mustInitializeWithConfig(cfg, ingest.WithChunking(*chunkSize, *chunkOverlap))
	defer components.Close()
	defer logger.Sync()

	ctx := context.Background()
	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to stat path: %v\n", err)
		os.Exit(1)
	}
	if info.IsDir() {
		n, err := components.Ingestor.IngestDirectory(ctx, path, cfg.Watch.Extensions)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ingesting directory failed: %v\n", err)
			os.Exit(1)
		}
		components.SaveIndex(logger)
		fmt.Printf("Ingested %d file(s) from %s\n", n, path)
		return
	}
	res, err := components.Ingestor.IngestFile(ctx, path, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ingesting failed: %v\n", err)
		os.Exit(1)
	}
	components.SaveIndex(logger)
	fmt.Printf("Document ingested: %s (%d chunks)\n", res.DocumentID, res.ChunksCreated)
}

func runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	byFile := fs.Bool("file", false, "treat the argument as a file path instead of a document ID")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: bunmyaku delete [flags] <document-id | -file path>")
		os.Exit(1)
	}
	arg := fs.Arg(0)

	components, logger := mustInitialize(*configPath)
	defer components.Close()
	defer logger.Sync()

	ctx := context.Background()
	var err error
	if *byFile {
		err = components.Ingestor.DeleteByFilename(ctx, arg)
	} else {
		err = components.Ingestor.DeleteDocument(ctx, arg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Deletion failed: %v\n", err)
		os.Exit(1)
	}
	components.SaveIndex(logger)
	fmt.Printf("Document deleted: %s\n", arg)
}

// parseTimeFlag parses a --from/--to value as RFC 3339 or as a bare date. An
// empty value yields the zero time, which run filters treat as unset.
func parseTimeFlag(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("expected RFC 3339 or YYYY-MM-DD, got %q", value)
}

func runHistory() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: bunmyaku history <list|show|clear|export|import> [args]")
		os.Exit(1)
	}
	sub := os.Args[2]
	args := argsReorder(os.Args[3:])
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	contains := fs.String("contains", "", "filter: query or response contains text")
	technique := fs.String("technique", "", "filter: technique was enabled")
	model := fs.String("model", "", "filter: model name")
	fromFlag := fs.String("from", "", "filter: runs at or after this time (RFC 3339 or YYYY-MM-DD)")
	toFlag := fs.String("to", "", "filter: runs at or before this time (RFC 3339 or YYYY-MM-DD)")
	_ = fs.Parse(args)

	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	from, err := parseTimeFlag(*fromFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid --from: %v\n", err)
		os.Exit(1)
	}
	to, err := parseTimeFlag(*toFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid --to: %v\n", err)
		os.Exit(1)
	}

	components, logger := mustInitialize(*configPath)
	defer components.Close()
	defer logger.Sync()

	switch sub {
	case "list":
		filter := &models.RunFilter{TextContains: *contains, Technique: *technique, Model: *model, From: from, To: to}
		if err := cli.WriteRunList(os.Stdout, components.History.List(filter), format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "show":
		if fs.NArg() < 1 {
			fmt.Println("Usage: bunmyaku history show <run-id>")
			os.Exit(1)
		}
		run := components.History.Get(fs.Arg(0))
		if run == nil {
			fmt.Fprintf(os.Stderr, "Run not found: %s\n", fs.Arg(0))
			os.Exit(1)
		}
		if err := cli.WriteRun(os.Stdout, run, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "clear":
		if err := components.History.Clear(); err != nil {
			fmt.Fprintf(os.Stderr, "Clear failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("History cleared.")
	case "export":
		data, err := components.History.ExportAll()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(data)
		fmt.Println()
	case "import":
		if fs.NArg() < 1 {
			fmt.Println("Usage: bunmyaku history import <file>")
			os.Exit(1)
		}
		data, err := os.ReadFile(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Read failed: %v\n", err)
			os.Exit(1)
		}
		if err := components.History.ImportAll(data); err != nil {
			fmt.Fprintf(os.Stderr, "Import failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Imported %d run(s).\n", components.History.Len())
	default:
		fmt.Printf("Unknown history subcommand: %s\n", sub)
		os.Exit(1)
	}
}

func runCompare() {
	args := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Println("Usage: bunmyaku compare [flags] <run-id> <run-id> [run-id...]")
		os.Exit(1)
	}
	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	components, logger := mustInitialize(*configPath)
	defer components.Close()
	defer logger.Sync()

	cmp, err := components.History.Compare(fs.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compare failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteComparison(os.Stdout, cmp, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// watchSink adapts the ingestor to the watcher; the watcher filters extensions,
// so IngestFile runs unfiltered here.
type watchSink struct {
	ingestor *ingest.Ingestor
}

func (s *watchSink) IngestFile(ctx context.Context, path string) error {
	_, err := s.ingestor.IngestFile(ctx, path, nil)
	return err
}

func (s *watchSink) DeleteByFilename(ctx context.Context, filename string) error {
	return s.ingestor.DeleteByFilename(ctx, filename)
}

func runWatch() {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.Debug = cfg.Debug || *debug
	dirs := cfg.Watch.Directories
	if fs.NArg() > 0 {
		dirs = fs.Args()
	}
	if len(dirs) == 0 {
		fmt.Println("No directories to watch; pass paths or set watch.directories in config.")
		os.Exit(1)
	}
	for i, d := range dirs {
		if abs, absErr := filepath.Abs(d); absErr == nil {
			dirs[i] = abs
		}
	}

	components, logger := mustInitializeWithConfig(cfg)
	defer components.Close()
	defer logger.Sync()

	logger.Info("Config loaded", zap.String("config_path", resolvedPath), zap.Strings("directories", dirs))

	var watchOpts []watcher.Option
	if cfg.Debug {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	w := watcher.New(dirs, cfg.Watch.Extensions, cfg.Watch.RecursiveOrDefault(),
		&watchSink{ingestor: components.Ingestor}, watchOpts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	w.SyncExisting(ctx)
	logger.Info("Watching for changes", zap.Strings("directories", w.Directories()))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	w.Stop()
	components.SaveIndex(logger)
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	components, logger := mustInitializeWithConfig(cfg)
	defer components.Close()
	defer logger.Sync()

	ctx := context.Background()
	docCount, err := components.Storage.CountDocuments(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Count documents failed: %v\n", err)
		os.Exit(1)
	}
	chunkCount, err := components.Storage.CountChunks(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Count chunks failed: %v\n", err)
		os.Exit(1)
	}

	status := map[string]interface{}{
		"documents":          docCount,
		"chunks":             chunkCount,
		"vector_index_size":  components.Index.Size(),
		"embedding_provider": cfg.Embedding.Provider,
		"embedding_dims":     cfg.Embedding.Dimensions,
		"runs_recorded":      components.History.Len(),
		"database_path":      cfg.Storage.DatabasePath,
		"vector_index_path":  cfg.Storage.VectorIndexPath,
		"history_path":       cfg.History.Path,
	}
	if diskBytes, diskErr := storage.DiskUsageBytes(cfg.Storage.DatabasePath, cfg.Storage.VectorIndexPath, cfg.History.Path); diskErr == nil {
		status["disk_usage_bytes"] = diskBytes
	}

	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if format == cli.OutputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("documents:          %d\n", docCount)
	fmt.Printf("chunks:             %d\n", chunkCount)
	fmt.Printf("vector_index_size:  %d\n", components.Index.Size())
	fmt.Printf("runs_recorded:      %d\n", components.History.Len())
	fmt.Printf("embedding_provider: %s\n", cfg.Embedding.Provider)
	fmt.Printf("embedding_dims:     %d\n", cfg.Embedding.Dimensions)
	if v, ok := status["disk_usage_bytes"]; ok {
		fmt.Printf("disk_usage_bytes:   %d\n", v)
	}
	fmt.Printf("database_path:      %s\n", cfg.Storage.DatabasePath)
	fmt.Printf("vector_index_path:  %s\n", cfg.Storage.VectorIndexPath)
	fmt.Printf("history_path:       %s\n", cfg.History.Path)
}

// Components holds the initialized services.
type Components struct {
	Storage  storage.Store
	Embedder embedding.Embedder
	Index    vector.Index
	Searcher *search.Searcher
	Ingestor *ingest.Ingestor
	History  *history.Store
	Engine   *engine.Engine

	vectorIndexPath string
}

// Close releases held resources.
func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.Index != nil {
		_ = c.Index.Close()
	}
}

// SaveIndex persists the vector index to its configured path.
func (c *Components) SaveIndex(logger *zap.Logger) {
	if c.vectorIndexPath == "" {
		return
	}
	if err := c.Index.Save(c.vectorIndexPath); err != nil {
		logger.Warn("Vector index save failed", zap.String("path", c.vectorIndexPath), zap.Error(err))
	}
}

func mustInitialize(configPath string, ingestOpts ...ingest.Option) (*Components, *zap.Logger) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return mustInitializeWithConfig(cfg, ingestOpts...)
}

func mustInitializeWithConfig(cfg *config.Config, ingestOpts ...ingest.Option) (*Components, *zap.Logger) {
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	if len(ingestOpts) > 0 {
		components.Ingestor = ingest.NewIngestor(
			components.Storage, components.Embedder, components.Index,
			extract.NewExtractor(), append(ingestOpts, ingestorLogOpts(cfg, logger)...)...)
	}
	return components, logger
}

func ingestorLogOpts(cfg *config.Config, logger *zap.Logger) []ingest.Option {
	if cfg.Debug {
		return []ingest.Option{ingest.WithLogger(logger)}
	}
	return nil
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	embedder, err := embedding.NewEmbedder(cfg.Embedding)
	if err != nil {
		// Fall back to the deterministic provider so the CLI still works
		// without a model on disk.
		logger.Warn("Embedding provider unavailable, falling back to hash",
			zap.String("provider", cfg.Embedding.Provider),
			zap.Error(err))
		embedder = embedding.NewHashEmbedder(cfg.Embedding.Dimensions)
	}

	index, err := vector.NewMemoryIndex(cfg.Embedding.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vector index: %w", err)
	}
	if cfg.Storage.VectorIndexPath != "" {
		if loadErr := index.Load(cfg.Storage.VectorIndexPath); loadErr != nil {
			logger.Warn("Vector index load skipped",
				zap.String("path", cfg.Storage.VectorIndexPath),
				zap.Error(loadErr))
		}
	}

	hist, err := history.NewStore(cfg.History.Path,
		history.WithRetention(cfg.History.Retention),
		history.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize run history: %w", err)
	}

	var searchOpts []search.Option
	var ingOpts []ingest.Option
	if cfg.Debug {
		searchOpts = append(searchOpts, search.WithLogger(logger))
		ingOpts = append(ingOpts, ingest.WithLogger(logger))
	}
	searcher := search.NewSearcher(store, embedder, index, searchOpts...)
	ingestor := ingest.NewIngestor(store, embedder, index, extract.NewExtractor(), ingOpts...)

	eng := engine.New(searcher, &agent.StaticRuntime{},
		engine.WithHistory(hist),
		engine.WithLogger(logger))

	return &Components{
		Storage:         store,
		Embedder:        embedder,
		Index:           index,
		Searcher:        searcher,
		Ingestor:        ingestor,
		History:         hist,
		Engine:          eng,
		vectorIndexPath: cfg.Storage.VectorIndexPath,
	}, nil
}

func printUsage() {
	fmt.Println(`bunmyaku - context engineering pipeline for local knowledge bases

Usage:
  bunmyaku run [flags] <query>      Run a query through the context pipeline
  bunmyaku search [flags] <query>   Similarity search over ingested documents
  bunmyaku ingest [flags] <path>    Ingest a file or directory
  bunmyaku delete [flags] <id>      Delete a document
  bunmyaku history <subcommand>     Inspect recorded runs (list, show, clear, export, import)
  bunmyaku compare <id> <id> ...    Compare metrics across recorded runs
  bunmyaku watch [flags] [dirs]     Watch directories and keep the index in sync
  bunmyaku status [flags]           Show storage and index status
  bunmyaku version                  Show version
  bunmyaku help                     Show this help

Run Flags:
  --config string          Config file path (default: /usr/local/etc/bunmyaku/config.yaml)
  --preset string          Technique preset: baseline, basic_rag, advanced_rag, full_stack
  --context-config string  Context configuration as JSON (merged onto defaults)
  --enable string          Comma-separated techniques to enable
  --disable string         Comma-separated techniques to disable
  --output string          Output format: text or json

Search Flags:
  --top-k int          Number of results (default: 5)
  --threshold float    Minimum cosine similarity (default: 0.2)
  --output string      Output format: text or json

Ingest Flags:
  --chunk-size int     Chunk size in characters (default: 512)
  --chunk-overlap int  Chunk overlap in characters (default: 50)

History Flags:
  --contains string    Filter runs whose query or response contains text
  --technique string   Filter runs where a technique was enabled
  --model string       Filter runs by model name
  --from string        Filter runs at or after this time (RFC 3339 or YYYY-MM-DD)
  --to string          Filter runs at or before this time (RFC 3339 or YYYY-MM-DD)
  --output string      Output format: text or json

Examples:
  bunmyaku ingest ./docs
  bunmyaku run --preset basic_rag "Who is Riri?"
  bunmyaku run --enable rag_tool "Summarize the budget report"
  bunmyaku run --context-config '{"naive_rag":{"enabled":true,"top_k":10}}' "query"
  bunmyaku history list --technique naive_rag
  bunmyaku compare 3f2a91c0 8b1d44e7
  bunmyaku watch ./docs`)
}
