// Package main is the VIVOHOME assistant CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vivohome/assistant/internal/catalog"
	"github.com/vivohome/assistant/internal/cli"
	"github.com/vivohome/assistant/internal/config"
	"github.com/vivohome/assistant/internal/embedding"
	"github.com/vivohome/assistant/internal/models"
	"github.com/vivohome/assistant/internal/rag"
	"github.com/vivohome/assistant/internal/server"
	"github.com/vivohome/assistant/internal/vector"
	"github.com/vivohome/assistant/internal/watcher"
	"github.com/vivohome/assistant/internal/websearch"
	"github.com/vivohome/assistant/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/vivohome/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
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
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ask":
		runAsk()
	case "ingest":
		runIngest()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("vivohome version %s\n", version)
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
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	ctx := context.Background()
	if cfg.Storage.CatalogPath != "" {
		if err := components.IngestCatalog(ctx, cfg.Storage.CatalogPath); err != nil {
			logger.Warn("catalog ingest failed, serving existing data",
				zap.String("path", cfg.Storage.CatalogPath), zap.Error(err))
		}
	}
	if err := components.RebuildIndex(ctx); err != nil {
		logger.Warn("vector index rebuild failed, semantic search degraded", zap.Error(err))
	}

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	var watchSvc *watcher.Watcher
	if cfg.Storage.CatalogPath != "" && cfg.Watch.EnabledOrDefault() {
		watchOpts := []watcher.Option{
			watcher.WithDebounce(time.Duration(cfg.Watch.DebounceSeconds) * time.Second),
		}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		watchSvc = watcher.NewWatcher(cfg.Storage.CatalogPath, func(path string) {
			reloadCtx := context.Background()
			if err := components.IngestCatalog(reloadCtx, path); err != nil {
				logger.Warn("catalog reload failed", zap.String("path", path), zap.Error(err))
				return
			}
			if err := components.RebuildIndex(reloadCtx); err != nil {
				logger.Warn("vector index rebuild failed", zap.Error(err))
			}
		}, watchOpts...)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
	}

	srv := server.NewServer(
		components.Engine,
		components.Store,
		components.Index,
		&cfg.Server,
		logger,
		cfg,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if watchSvc != nil {
		watchSvc.Stop()
	}
	watchCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(shutdownCtx)
}

// buildQuery joins all positional args with spaces so multi-word questions
// work the same with or without shell quoting.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = answer locally without a running server)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: vivohome ask [flags] <question>")
		os.Exit(1)
	}
	query := buildQuery(fs.Args())
	if query == "" {
		fmt.Println("Usage: vivohome ask [flags] <question>")
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *serverURL != "" {
		resp, err := askViaHTTP(*serverURL, query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteChatResponse(os.Stdout, resp, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	ctx := context.Background()
	if err := components.RebuildIndex(ctx); err != nil {
		logger.Warn("vector index rebuild failed, semantic search degraded", zap.Error(err))
	}
	start := time.Now()
	reply, result := components.Engine.Process(ctx, query)
	resp := &models.ChatResponse{
		Reply:       reply,
		Found:       result.Found,
		Intent:      string(result.Intent.Intent),
		Category:    result.Intent.Category,
		Sources:     result.Sources,
		QueryTimeMs: time.Since(start).Milliseconds(),
	}
	if err := cli.WriteChatResponse(os.Stdout, resp, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func askViaHTTP(serverURL, query string) (*models.ChatResponse, error) {
	body, err := json.Marshal(models.ChatRequest{Query: query})
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	path := cfg.Storage.CatalogPath
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	if path == "" {
		fmt.Println("Usage: vivohome ingest [flags] <catalog.xlsx|catalog.csv>")
		os.Exit(1)
	}

	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	ctx := context.Background()
	if err := components.IngestCatalog(ctx, path); err != nil {
		fmt.Printf("Ingest failed: %v\n", err)
		os.Exit(1)
	}
	count, err := components.Store.Count(ctx)
	if err != nil {
		fmt.Printf("Count failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Ingested %d product(s) from %s\n", count, path)
}

// statusResponse is the shape of GET /api/v1/status response.
type statusResponse struct {
	Products        int64                  `json:"products"`
	VectorIndexSize int                    `json:"vector_index_size"`
	Config          map[string]interface{} `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = read local storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		components, err := initializeComponents(cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}
		defer components.Close()
		count, err := components.Store.Count(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count failed: %v\n", err)
			os.Exit(1)
		}
		status = statusResponse{
			Products:        count,
			VectorIndexSize: components.Index.Size(),
			Config: map[string]interface{}{
				"database_path":        cfg.Storage.DatabasePath,
				"catalog_path":         cfg.Storage.CatalogPath,
				"embedding_dimensions": cfg.Embedding.Dimensions,
				"similarity_threshold": cfg.Search.SimilarityThreshold,
			},
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("products:           %d   # rows in the catalog database\n", status.Products)
		fmt.Printf("vector_index_size:  %d   # embedded products in the semantic index\n", status.VectorIndexSize)
		if status.Config != nil {
			fmt.Println()
			fmt.Println("# configuration")
			for _, key := range []string{"database_path", "catalog_path", "embedding_dimensions", "similarity_threshold", "web_fallback", "watch_enabled"} {
				if v, ok := status.Config[key]; ok {
					fmt.Printf("%-20s %v\n", key+":", v)
				}
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

// Components holds initialized services.
type Components struct {
	Store    *catalog.Store
	Embedder embedding.Embedder
	Index    *vector.Index
	Engine   *rag.Engine
	logger   *zap.Logger
}

func (c *Components) Close() {
	if c.Store != nil {
		_ = c.Store.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
}

// IngestCatalog loads the catalog file and replaces the product table.
func (c *Components) IngestCatalog(ctx context.Context, path string) error {
	products, err := catalog.LoadFile(path)
	if err != nil {
		return err
	}
	if err := c.Store.ReplaceAll(ctx, products); err != nil {
		return err
	}
	c.logger.Info("catalog ingested", zap.String("path", path), zap.Int("products", len(products)))
	return nil
}

// RebuildIndex re-embeds every stored product into the semantic index.
func (c *Components) RebuildIndex(ctx context.Context) error {
	products, err := c.Store.All(ctx)
	if err != nil {
		return err
	}
	if err := c.Index.Rebuild(ctx, products); err != nil {
		return err
	}
	c.logger.Info("vector index rebuilt", zap.Int("products", len(products)))
	return nil
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := catalog.NewStore(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize catalog store: %w", err)
	}

	var embedder embedding.Embedder
	if cfg.Embedding.Endpoint != "" {
		embedder = embedding.NewHTTPEmbedder(
			cfg.Embedding.Endpoint,
			cfg.Embedding.Model,
			cfg.Embedding.Dimensions,
			cfg.Embedding.CacheSize,
			time.Duration(cfg.Embedding.TimeoutSeconds)*time.Second,
		)
	} else {
		logger.Warn("no embedding endpoint configured, using deterministic mock embedder")
		embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	}

	index := vector.NewIndex(embedder)

	var web rag.Web
	if cfg.Web.APIKey != "" {
		web = websearch.NewClient(
			cfg.Web.Endpoint,
			cfg.Web.APIKey,
			time.Duration(cfg.Web.TimeoutSeconds)*time.Second,
		)
	} else {
		logger.Info("no web search API key configured, web fallback disabled")
	}

	engine := rag.NewEngine(store, index, web, rag.Options{
		Limit:               cfg.Search.DefaultLimit,
		SimilarityThreshold: cfg.Search.SimilarityThreshold,
		WebResults:          cfg.Web.MaxResults,
	}, logger)

	return &Components{
		Store:    store,
		Embedder: embedder,
		Index:    index,
		Engine:   engine,
		logger:   logger,
	}, nil
}

func printUsage() {
	fmt.Println(`vivohome - Bilingual retail assistant for the VIVOHOME catalog

Usage:
  vivohome server [flags]           Start the HTTP server
  vivohome ask [flags] <question>   Ask the assistant a question
  vivohome ingest [flags] [file]    Load a catalog spreadsheet into the database
  vivohome status [flags]           Show catalog/index status
  vivohome version                  Show version
  vivohome help                     Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/vivohome/config.yaml)
  --debug            Enable debug logging

Ask Flags:
  --config string    Config file path (for local mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") to answer locally.
  --output string    Output format: text or json (default: text)

Ingest Flags:
  --config string    Config file path. The file argument defaults to storage.catalog_path.

Status Flags:
  --config string    Config file path (for local mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for local storage.
  --output string    Output format: text or json (default: text)

Examples:
  vivohome server
  vivohome ask "TV giá cao nhất"
  vivohome ask So sánh TV Samsung và LG
  vivohome ingest data/catalog.xlsx
  vivohome status --output json`)
}
