package e2e

import (
	"path/filepath"
	"testing"

	"github.com/vivohome/assistant/internal/catalog"
)

func TestFixtures_CSVRoundTrip(t *testing.T) {
	corpus := BuildCorpus()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	if err := WriteCatalogCSV(path, corpus.Products); err != nil {
		t.Fatal(err)
	}

	loaded, err := catalog.LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != len(corpus.Products) {
		t.Fatalf("loaded %d products, want %d", len(loaded), len(corpus.Products))
	}
	for i, p := range loaded {
		want := corpus.Products[i]
		if p.Name != want.Name || p.ModelCode != want.ModelCode || p.Price != want.Price {
			t.Errorf("row %d = %+v, want %+v", i, p, want)
		}
	}
}

func TestFixtures_XLSXRoundTrip(t *testing.T) {
	corpus := BuildCorpus()
	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	if err := WriteCatalogXLSX(path, corpus.Products); err != nil {
		t.Fatal(err)
	}

	loaded, err := catalog.LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != len(corpus.Products) {
		t.Fatalf("loaded %d products, want %d", len(loaded), len(corpus.Products))
	}
	if loaded[0].Price != corpus.Products[0].Price {
		t.Errorf("price = %d, want %d", loaded[0].Price, corpus.Products[0].Price)
	}
}
