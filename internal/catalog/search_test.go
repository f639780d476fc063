package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/vivohome/assistant/internal/models"
)

func TestSearchWithIntent_highestPrice(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, fixtureProducts())

	parsed := models.ParsedIntent{Intent: models.IntentHighestPrice, Category: "TV"}
	hits, err := store.SearchWithIntent(ctx, parsed, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want exactly 1", len(hits))
	}
	if hits[0].Price != 19500000 {
		t.Errorf("price = %d, want the most expensive TV (19500000)", hits[0].Price)
	}
	if hits[0].Source != models.SourceDatabase {
		t.Errorf("Source = %q, want %q", hits[0].Source, models.SourceDatabase)
	}
	if hits[0].Similarity != 0.8 {
		t.Errorf("Similarity = %v, want the fixed database default 0.8", hits[0].Similarity)
	}
}

func TestSearchWithIntent_lowestPrice(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, fixtureProducts())

	parsed := models.ParsedIntent{Intent: models.IntentLowestPrice, Category: "Tủ lạnh"}
	hits, err := store.SearchWithIntent(ctx, parsed, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want exactly 1", len(hits))
	}
	if hits[0].Price != 5400000 {
		t.Errorf("price = %d, want the cheapest fridge (5400000)", hits[0].Price)
	}
}

func TestSearchWithIntent_compare(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, fixtureProducts())

	parsed := models.ParsedIntent{
		Intent:   models.IntentCompare,
		Category: "TV",
		Brands:   []string{"Samsung", "LG"},
	}
	hits, err := store.SearchWithIntent(ctx, parsed, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 4 {
		t.Fatalf("got %d hits, want 2 Samsung + 2 LG", len(hits))
	}
	if len(hits) > 6 {
		t.Errorf("compare must cap at 6, got %d", len(hits))
	}

	perBrand := map[string]int{}
	seen := map[string]bool{}
	for _, h := range hits {
		if seen[h.ModelCode] {
			t.Errorf("duplicate model %q in compare result", h.ModelCode)
		}
		seen[h.ModelCode] = true
		switch {
		case strings.Contains(h.Name, "Samsung"):
			perBrand["Samsung"]++
		case strings.Contains(h.Name, "LG"):
			perBrand["LG"]++
		}
	}
	for brand, n := range perBrand {
		if n > 2 {
			t.Errorf("brand %s has %d products, want at most 2", brand, n)
		}
	}

	// Compare results come back sorted by price descending.
	for i := 1; i < len(hits); i++ {
		if hits[i].Price > hits[i-1].Price {
			t.Errorf("compare result not price-descending at index %d", i)
		}
	}
}

func TestSearchWithIntent_compareCapsAtSix(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, []models.Product{
		{Name: "Bếp từ Sunhouse đôi", ModelCode: "SH-1", Price: 3200000},
		{Name: "Bếp từ Sunhouse đơn", ModelCode: "SH-2", Price: 1500000},
		{Name: "Bếp từ Kangaroo đôi", ModelCode: "KG-1", Price: 3500000},
		{Name: "Bếp từ Kangaroo đơn", ModelCode: "KG-2", Price: 1700000},
		{Name: "Bếp từ Elmich đôi", ModelCode: "EL-1", Price: 4100000},
		{Name: "Bếp từ Elmich đơn", ModelCode: "EL-2", Price: 1900000},
		{Name: "Bếp từ Goldsun đôi", ModelCode: "GS-1", Price: 2800000},
		{Name: "Bếp từ Goldsun đơn", ModelCode: "GS-2", Price: 1300000},
	})

	// Four brands at two rows each survive the grouping; the compare window
	// still caps at 6 even when the caller asks for more.
	parsed := models.ParsedIntent{
		Intent: models.IntentCompare,
		Brands: []string{"Sunhouse", "Kangaroo", "Elmich", "Goldsun"},
	}
	hits, err := store.SearchWithIntent(ctx, parsed, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 6 {
		t.Errorf("got %d hits, want the compare cap of 6", len(hits))
	}
}

func TestSearchWithIntent_brandUnionFilter(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, fixtureProducts())

	// Non-compare brand filter is a union with no per-brand cap.
	parsed := models.ParsedIntent{Intent: models.IntentSearch, Brands: []string{"Samsung"}}
	hits, err := store.SearchWithIntent(ctx, parsed, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 4 {
		t.Errorf("got %d Samsung products, want 4 (2 TVs, fridge, washer)", len(hits))
	}
}

func TestSearchWithIntent_tvSynonyms(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, []models.Product{
		{Name: "Samsung 50 Crystal UHD", ModelCode: "UA50", Price: 9000000},
		{Name: "Tủ lạnh Toshiba 180L", ModelCode: "GR-B31", Price: 4000000},
	})

	// Brand-only TV listings still pass the TV category filter.
	parsed := models.ParsedIntent{Intent: models.IntentSearch, Category: "TV"}
	hits, err := store.SearchWithIntent(ctx, parsed, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].ModelCode != "UA50" {
		t.Errorf("got %+v, want only the Samsung set", hits)
	}
}

func TestSearchWithIntent_dedup(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, []models.Product{
		{Name: "Nồi chiên A", ModelCode: "NC-1", Price: 100},
		{Name: "Nồi chiên A bản 2024", ModelCode: "NC-1", Price: 120},
		{Name: "Nồi đất thủ công", ModelCode: "", Price: 50},
		{Name: "Nồi gang đúc", ModelCode: "", Price: 80},
	})

	parsed := models.ParsedIntent{Intent: models.IntentSearch, Category: "Nồi"}
	hits, err := store.SearchWithIntent(ctx, parsed, 10)
	if err != nil {
		t.Fatal(err)
	}
	// One of the NC-1 duplicates is dropped; both model-less rows survive.
	if len(hits) != 3 {
		t.Fatalf("got %d hits, want 3", len(hits))
	}
	if hits[0].Name != "Nồi chiên A" {
		t.Errorf("dedup should keep the first occurrence, got %q", hits[0].Name)
	}
}

func TestSearchWithIntent_emptyIsNotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, fixtureProducts())

	parsed := models.ParsedIntent{Intent: models.IntentHighestPrice, Category: "Bếp"}
	hits, err := store.SearchWithIntent(ctx, parsed, 3)
	if err != nil {
		t.Fatal(err)
	}
	if hits != nil {
		t.Errorf("got %+v, want nil for an empty surviving set", hits)
	}
}
