package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/vivohome/assistant/internal/models"
)

// Keyword scoring weights. A token found in the name outweighs one found in
// the model code, which outweighs one found in the spec blob.
const (
	nameWeight  = 3
	modelWeight = 2
	specWeight  = 1
)

// databaseSimilarity is the fixed confidence attached to catalog-sourced
// candidates; the store does not compute a real similarity.
const databaseSimilarity = 0.8

// tvSynonyms is the widened match set for the TV category. TV listings in the
// catalog are often named by brand alone ("Samsung 55 Crystal UHD"), so the
// filter accepts brand names in addition to the TV spellings. Other
// categories use a plain substring match; do not generalize this list.
var tvSynonyms = []string{"tv", "tivi", "ti vi", "tele", "sam sung", "samsung", "lg"}

func toCandidate(p models.Product, similarity float64, source string) models.Candidate {
	model := p.ModelCode
	if model == "" {
		model = "N/A"
	}
	spec := p.Specs
	if spec == "" {
		spec = "N/A"
	}
	return models.Candidate{
		Name:       p.Name,
		ModelCode:  model,
		Price:      p.Price,
		Spec:       spec,
		Similarity: similarity,
		Source:     source,
	}
}

type scored struct {
	product models.Product
	score   int
}

// FindByKeywords tokenizes the query on whitespace and scores every product
// by weighted token containment. Only products with score > 0 survive; ties
// keep catalog order. A blank query returns no results without scanning.
func (s *Store) FindByKeywords(ctx context.Context, query string, limit int) ([]models.Candidate, error) {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return nil, nil
	}

	products, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	var hits []scored
	for _, p := range products {
		name := strings.ToLower(p.Name)
		model := strings.ToLower(p.ModelCode)
		specs := strings.ToLower(p.Specs)

		score := 0
		for _, tok := range tokens {
			if strings.Contains(name, tok) {
				score += nameWeight
			}
			if strings.Contains(model, tok) {
				score += modelWeight
			}
			if strings.Contains(specs, tok) {
				score += specWeight
			}
		}
		if score > 0 {
			hits = append(hits, scored{product: p, score: score})
		}
	}

	// Stable: equal scores preserve catalog order.
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	candidates := make([]models.Candidate, 0, len(hits))
	for _, h := range hits {
		candidates = append(candidates, toCandidate(h.product, databaseSimilarity, models.SourceKeyword))
	}
	return candidates, nil
}

// SearchWithIntent runs the compound intent-driven policy: category filter,
// brand filter or compare grouping, model dedup, intent-specific reduction,
// then truncation. Candidates are tagged source=database. An empty surviving
// set is a normal not-found, returned as a nil slice.
func (s *Store) SearchWithIntent(ctx context.Context, parsed models.ParsedIntent, limit int) ([]models.Candidate, error) {
	products, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	if parsed.Category != "" {
		products = filterCategory(products, parsed.Category)
	}

	if len(parsed.Brands) > 0 {
		if parsed.Intent == models.IntentCompare {
			products = groupByBrand(products, parsed.Brands)
		} else {
			products = filterBrands(products, parsed.Brands)
		}
	}

	products = dedupByModel(products)

	switch parsed.Intent {
	case models.IntentHighestPrice:
		if len(products) > 0 {
			sortByPrice(products, true)
			products = products[:1]
		}
	case models.IntentLowestPrice:
		if len(products) > 0 {
			sortByPrice(products, false)
			products = products[:1]
		}
	case models.IntentCompare:
		if len(products) > 0 {
			sortByPrice(products, true)
			// Comparison answers show a fixed window regardless of the
			// caller's limit: up to 6 rows, fewer when fewer survive.
			limit = 6
			if len(products) < limit {
				limit = len(products)
			}
		}
	}

	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}
	if len(products) == 0 {
		return nil, nil
	}
	candidates := make([]models.Candidate, 0, len(products))
	for _, p := range products {
		candidates = append(candidates, toCandidate(p, databaseSimilarity, models.SourceDatabase))
	}
	return candidates, nil
}

// filterCategory keeps products whose name matches the category. TV gets the
// widened synonym set; every other category is a plain substring match.
func filterCategory(products []models.Product, category string) []models.Product {
	catLower := strings.ToLower(category)
	var kept []models.Product
	for _, p := range products {
		name := strings.ToLower(p.Name)
		if catLower == "tv" {
			for _, syn := range tvSynonyms {
				if strings.Contains(name, syn) {
					kept = append(kept, p)
					break
				}
			}
		} else if strings.Contains(name, catLower) {
			kept = append(kept, p)
		}
	}
	return kept
}

func matchesBrand(p models.Product, brandLower string) bool {
	return strings.Contains(strings.ToLower(p.Name), brandLower) ||
		strings.Contains(strings.ToLower(p.ModelCode), brandLower) ||
		strings.Contains(strings.ToLower(p.Specs), brandLower)
}

// filterBrands keeps products matching any brand (union, no per-brand cap).
func filterBrands(products []models.Product, brands []string) []models.Product {
	var kept []models.Product
	for _, p := range products {
		for _, brand := range brands {
			if matchesBrand(p, strings.ToLower(brand)) {
				kept = append(kept, p)
				break
			}
		}
	}
	return kept
}

// groupByBrand builds the comparison set: for each brand in list order, its
// matches are sorted by price descending and the top 2 appended, skipping any
// model code already taken by an earlier brand. The result interleaves the
// best of each brand rather than flat-filtering.
func groupByBrand(products []models.Product, brands []string) []models.Product {
	var result []models.Product
	seen := make(map[string]bool)
	for _, brand := range brands {
		brandLower := strings.ToLower(brand)
		var matches []models.Product
		for _, p := range products {
			if matchesBrand(p, brandLower) {
				matches = append(matches, p)
			}
		}
		sortByPrice(matches, true)
		if len(matches) > 2 {
			matches = matches[:2]
		}
		for _, p := range matches {
			if p.ModelCode != "" && seen[p.ModelCode] {
				continue
			}
			result = append(result, p)
			if p.ModelCode != "" {
				seen[p.ModelCode] = true
			}
		}
	}
	return result
}

// dedupByModel keeps the first occurrence per non-empty model code. Products
// without a model code are all kept; they never dedup against each other.
func dedupByModel(products []models.Product) []models.Product {
	seen := make(map[string]bool)
	var unique []models.Product
	for _, p := range products {
		if p.ModelCode == "" {
			unique = append(unique, p)
			continue
		}
		if seen[p.ModelCode] {
			continue
		}
		seen[p.ModelCode] = true
		unique = append(unique, p)
	}
	return unique
}

func sortByPrice(products []models.Product, descending bool) {
	sort.SliceStable(products, func(i, j int) bool {
		if descending {
			return products[i].Price > products[j].Price
		}
		return products[i].Price < products[j].Price
	})
}
