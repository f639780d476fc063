// Package vector provides an in-memory semantic index over catalog products.
package vector

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vivohome/assistant/internal/embedding"
	"github.com/vivohome/assistant/internal/models"
	"github.com/vivohome/assistant/pkg/utils"
)

// entry pairs a product with its normalized embedding.
type entry struct {
	product models.Product
	vec     []float32
}

// Index holds one embedding per product and answers similarity queries with a
// brute-force cosine scan. The catalog is at most a few thousand rows, so a
// scan is faster than maintaining an ANN structure. Rebuild swaps the whole
// entry set atomically: concurrent searches see the old catalog or the new
// one, never a mix.
type Index struct {
	embedder embedding.Embedder

	mu      sync.RWMutex
	entries []entry
}

// NewIndex creates an empty index backed by the given embedder.
func NewIndex(embedder embedding.Embedder) *Index {
	return &Index{embedder: embedder}
}

// Rebuild embeds every product document and replaces the index contents in
// one swap.
func (idx *Index) Rebuild(ctx context.Context, products []models.Product) error {
	texts := make([]string, len(products))
	for i := range products {
		texts[i] = products[i].Document()
	}

	vectors, err := idx.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed catalog: %w", err)
	}
	if len(vectors) != len(products) {
		return fmt.Errorf("embedder returned %d vectors for %d products", len(vectors), len(products))
	}

	entries := make([]entry, len(products))
	for i := range products {
		vec := make([]float32, len(vectors[i]))
		copy(vec, vectors[i])
		utils.NormalizeL2(vec)
		entries[i] = entry{product: products[i], vec: vec}
	}

	idx.mu.Lock()
	idx.entries = entries
	idx.mu.Unlock()
	return nil
}

// Search embeds the query and returns the top-limit products by cosine
// similarity, tagged source=vector_db. Similarity is clamped to [0,1].
func (idx *Index) Search(ctx context.Context, query string, limit int) ([]models.Candidate, error) {
	if limit <= 0 {
		return nil, nil
	}
	queryVec, err := idx.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	utils.NormalizeL2(queryVec)

	idx.mu.RLock()
	entries := idx.entries
	idx.mu.RUnlock()
	if len(entries) == 0 {
		return nil, nil
	}

	type scored struct {
		product models.Product
		score   float64
	}
	scores := make([]scored, 0, len(entries))
	for _, e := range entries {
		if len(e.vec) != len(queryVec) {
			continue
		}
		var dot float64
		for j := range queryVec {
			dot += float64(queryVec[j] * e.vec[j])
		}
		if dot < 0 {
			dot = 0
		} else if dot > 1 {
			dot = 1
		}
		scores = append(scores, scored{product: e.product, score: dot})
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	if limit > len(scores) {
		limit = len(scores)
	}
	candidates := make([]models.Candidate, 0, limit)
	for _, s := range scores[:limit] {
		model := s.product.ModelCode
		if model == "" {
			model = "N/A"
		}
		spec := s.product.Specs
		if spec == "" {
			spec = "N/A"
		}
		candidates = append(candidates, models.Candidate{
			Name:       s.product.Name,
			ModelCode:  model,
			Price:      s.product.Price,
			Spec:       spec,
			Similarity: s.score,
			Source:     models.SourceVectorDB,
		})
	}
	return candidates, nil
}

// Size returns the number of indexed products.
func (idx *Index) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}
