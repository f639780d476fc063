// Package rag orchestrates the retrieval pipeline: intent parsing, catalog
// search, semantic search, and the web fallback, plus response formatting.
package rag

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vivohome/assistant/internal/intent"
	"github.com/vivohome/assistant/internal/models"
)

// Catalog is the relational side of retrieval.
type Catalog interface {
	SearchWithIntent(ctx context.Context, parsed models.ParsedIntent, limit int) ([]models.Candidate, error)
	FindByKeywords(ctx context.Context, query string, limit int) ([]models.Candidate, error)
}

// Semantic ranks products by embedding similarity.
type Semantic interface {
	Search(ctx context.Context, query string, limit int) ([]models.Candidate, error)
}

// Web is the last-resort external search.
type Web interface {
	Search(ctx context.Context, query string, limit int) ([]models.WebResult, error)
}

// Options tune the pipeline. Zero values fall back to defaults.
type Options struct {
	// Limit caps the number of products in a result.
	Limit int
	// SimilarityThreshold discards semantic candidates scoring below it.
	SimilarityThreshold float64
	// WebResults caps the number of web fallback entries.
	WebResults int
	// DisableWeb turns off the web fallback entirely.
	DisableWeb bool
}

const (
	defaultLimit      = 5
	defaultThreshold  = 0.5
	defaultWebResults = 3
)

// Engine runs queries through the layered retrieval pipeline. Failures in the
// semantic index or the web client are soft: they are logged and treated as an
// empty result from that source, and the pipeline moves on to the next stage.
// Nothing in Search or Process returns an error to the caller.
type Engine struct {
	catalog  Catalog
	semantic Semantic
	web      Web
	logger   *zap.Logger

	limit      int
	threshold  float64
	webResults int
	useWeb     bool
}

// NewEngine wires the retrieval ports together. semantic and web may be nil,
// which disables those stages.
func NewEngine(catalog Catalog, semantic Semantic, web Web, opts Options, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}
	if opts.SimilarityThreshold <= 0 {
		opts.SimilarityThreshold = defaultThreshold
	}
	if opts.WebResults <= 0 {
		opts.WebResults = defaultWebResults
	}
	return &Engine{
		catalog:    catalog,
		semantic:   semantic,
		web:        web,
		logger:     logger,
		limit:      opts.Limit,
		threshold:  opts.SimilarityThreshold,
		webResults: opts.WebResults,
		useWeb:     !opts.DisableWeb && web != nil,
	}
}

// Search runs the full pipeline for one query.
//
// Structured queries (an explicit price intent, a detected category, or
// detected brands) trust deterministic catalog filtering first and use the
// semantic index only as a fallback. Generic free-text queries go the other
// way, but only after a cheap keyword probe confirms the catalog plausibly
// covers the topic; a probe miss skips straight to the web, saving an
// embedding call on clearly out-of-catalog queries.
func (e *Engine) Search(ctx context.Context, query string) models.SearchResult {
	return e.SearchWithLimit(ctx, query, 0)
}

// SearchWithLimit is Search with a per-query product cap. limit <= 0 falls
// back to the engine default.
func (e *Engine) SearchWithLimit(ctx context.Context, query string, limit int) models.SearchResult {
	if limit <= 0 {
		limit = e.limit
	}
	start := time.Now()
	parsed := intent.Parse(query)
	e.logger.Info("rag search",
		zap.String("query", query),
		zap.String("intent", string(parsed.Intent)),
		zap.String("category", parsed.Category),
		zap.Strings("brands", parsed.Brands))

	var products []models.Candidate
	var sources []string

	if parsed.Structural() {
		products = e.catalogSearch(ctx, parsed, limit)
		if len(products) > 0 {
			sources = append(sources, models.SourceDatabase)
		} else {
			products = e.semanticSearch(ctx, query, limit)
			if len(products) > 0 {
				sources = append(sources, models.SourceVectorDB)
			}
		}
	} else {
		probe, err := e.catalog.FindByKeywords(ctx, query, 1)
		if err != nil {
			e.logger.Warn("keyword probe failed", zap.Error(err))
		}
		if len(probe) > 0 {
			products = e.semanticSearch(ctx, query, limit)
			if len(products) > 0 {
				sources = append(sources, models.SourceVectorDB)
			} else {
				products = e.catalogSearch(ctx, parsed, limit)
				if len(products) > 0 {
					sources = append(sources, models.SourceDatabase)
				}
			}
		}
	}

	var webResults []models.WebResult
	if len(products) == 0 && e.useWeb {
		e.logger.Info("no local results, trying web fallback")
		results, err := e.web.Search(ctx, query, e.webResults)
		if err != nil {
			e.logger.Warn("web search failed", zap.Error(err))
		} else if len(results) > 0 {
			webResults = results
			sources = append(sources, models.SourceWeb)
		}
	}

	if len(products) > limit {
		products = products[:limit]
	}

	result := models.SearchResult{
		Found:      len(products) > 0 || webResults != nil,
		Intent:     parsed,
		Products:   products,
		WebResults: webResults,
		Sources:    sources,
	}
	e.logger.Info("rag search done",
		zap.Bool("found", result.Found),
		zap.Int("products", len(products)),
		zap.Int("web_results", len(webResults)),
		zap.Strings("sources", sources),
		zap.Duration("elapsed", time.Since(start)))
	return result
}

func (e *Engine) catalogSearch(ctx context.Context, parsed models.ParsedIntent, limit int) []models.Candidate {
	candidates, err := e.catalog.SearchWithIntent(ctx, parsed, limit)
	if err != nil {
		e.logger.Warn("catalog search failed", zap.Error(err))
		return nil
	}
	return candidates
}

// semanticSearch queries the vector index and applies the similarity
// threshold. All candidates below threshold counts as no semantic results.
func (e *Engine) semanticSearch(ctx context.Context, query string, limit int) []models.Candidate {
	if e.semantic == nil {
		return nil
	}
	candidates, err := e.semantic.Search(ctx, query, limit)
	if err != nil {
		e.logger.Warn("semantic search failed", zap.Error(err))
		return nil
	}
	var kept []models.Candidate
	for _, c := range candidates {
		if c.Similarity >= e.threshold {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 && len(candidates) > 0 {
		e.logger.Debug("semantic results all below threshold",
			zap.Int("raw", len(candidates)), zap.Float64("threshold", e.threshold))
	}
	return kept
}

// Process runs Search and renders the result as a Vietnamese reply.
func (e *Engine) Process(ctx context.Context, query string) (string, models.SearchResult) {
	return e.ProcessWithLimit(ctx, query, 0)
}

// ProcessWithLimit is Process with a per-query product cap.
func (e *Engine) ProcessWithLimit(ctx context.Context, query string, limit int) (string, models.SearchResult) {
	result := e.SearchWithLimit(ctx, query, limit)
	return FormatResponse(result), result
}
