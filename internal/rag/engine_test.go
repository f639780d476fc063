package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/vivohome/assistant/internal/models"
)

type stubCatalog struct {
	intentResults  []models.Candidate
	intentErr      error
	keywordResults []models.Candidate
	keywordErr     error

	intentCalls  int
	keywordCalls int
	lastParsed   models.ParsedIntent
}

func (s *stubCatalog) SearchWithIntent(_ context.Context, parsed models.ParsedIntent, _ int) ([]models.Candidate, error) {
	s.intentCalls++
	s.lastParsed = parsed
	return s.intentResults, s.intentErr
}

func (s *stubCatalog) FindByKeywords(_ context.Context, _ string, _ int) ([]models.Candidate, error) {
	s.keywordCalls++
	return s.keywordResults, s.keywordErr
}

type stubSemantic struct {
	results []models.Candidate
	err     error
	calls   int
}

func (s *stubSemantic) Search(_ context.Context, _ string, _ int) ([]models.Candidate, error) {
	s.calls++
	return s.results, s.err
}

type stubWeb struct {
	results []models.WebResult
	err     error
	calls   int
}

func (s *stubWeb) Search(_ context.Context, _ string, _ int) ([]models.WebResult, error) {
	s.calls++
	return s.results, s.err
}

func dbCandidate(name, model string, price int64) models.Candidate {
	return models.Candidate{Name: name, ModelCode: model, Price: price, Spec: "N/A", Similarity: 0.8, Source: models.SourceDatabase}
}

func TestEngine_StructuralQueryUsesCatalogFirst(t *testing.T) {
	catalog := &stubCatalog{intentResults: []models.Candidate{
		dbCandidate("TIVI SAMSUNG 75 inch", "UA75AU7002", 19500000),
	}}
	semantic := &stubSemantic{}
	web := &stubWeb{}
	e := NewEngine(catalog, semantic, web, Options{}, nil)

	result := e.Search(context.Background(), "TV giá cao nhất")

	if !result.Found {
		t.Fatal("expected a result")
	}
	if result.Intent.Intent != models.IntentHighestPrice || result.Intent.Category != "TV" {
		t.Errorf("parsed intent = %+v", result.Intent)
	}
	if len(result.Products) != 1 || result.Products[0].ModelCode != "UA75AU7002" {
		t.Errorf("products = %+v", result.Products)
	}
	if semantic.calls != 0 {
		t.Error("semantic index consulted despite catalog hit")
	}
	if web.calls != 0 {
		t.Error("web fallback fired despite catalog hit")
	}
	if len(result.Sources) != 1 || result.Sources[0] != models.SourceDatabase {
		t.Errorf("sources = %v", result.Sources)
	}
}

func TestEngine_CompareQuery(t *testing.T) {
	catalog := &stubCatalog{intentResults: []models.Candidate{
		dbCandidate("TIVI SAMSUNG 75 inch", "UA75AU7002", 19500000),
		dbCandidate("TIVI SAMSUNG 55 inch", "UA55AU7002", 12500000),
		dbCandidate("TIVI LG 65 inch", "65UQ8050", 15000000),
		dbCandidate("TIVI LG 43 inch", "43LM5750", 7900000),
	}}
	e := NewEngine(catalog, &stubSemantic{}, &stubWeb{}, Options{}, nil)

	result := e.Search(context.Background(), "So sánh TV Samsung và LG")

	if result.Intent.Intent != models.IntentCompare {
		t.Errorf("intent = %q", result.Intent.Intent)
	}
	if len(catalog.lastParsed.Brands) != 2 {
		t.Errorf("brands passed to catalog = %v", catalog.lastParsed.Brands)
	}
	if len(result.Products) != 4 {
		t.Errorf("got %d products, want 4", len(result.Products))
	}
}

func TestEngine_GenericProbeMissGoesStraightToWeb(t *testing.T) {
	catalog := &stubCatalog{}
	semantic := &stubSemantic{results: []models.Candidate{
		{Name: "should not be consulted", Similarity: 0.9},
	}}
	web := &stubWeb{results: []models.WebResult{
		{Type: models.WebTypeAnswer, Content: "iPhone 15 Pro Max giá khoảng 29 triệu."},
	}}
	e := NewEngine(catalog, semantic, web, Options{}, nil)

	result := e.Search(context.Background(), "iPhone 15 Pro Max")

	if semantic.calls != 0 {
		t.Error("semantic index consulted after a probe miss")
	}
	if web.calls != 1 {
		t.Errorf("web called %d times, want 1", web.calls)
	}
	if !result.Found || len(result.Products) != 0 || len(result.WebResults) != 1 {
		t.Errorf("result = %+v", result)
	}
	if len(result.Sources) != 1 || result.Sources[0] != models.SourceWeb {
		t.Errorf("sources = %v", result.Sources)
	}
}

func TestEngine_GenericProbeHitPrefersSemantic(t *testing.T) {
	catalog := &stubCatalog{keywordResults: []models.Candidate{
		dbCandidate("Quạt điều hòa", "QDH-1", 1200000),
	}}
	semantic := &stubSemantic{results: []models.Candidate{
		{Name: "Quạt điều hòa không khí", ModelCode: "QDH-1", Price: 1200000, Similarity: 0.82, Source: models.SourceVectorDB},
	}}
	e := NewEngine(catalog, semantic, &stubWeb{}, Options{}, nil)

	result := e.Search(context.Background(), "quạt điều hòa không khí")

	if result.Intent.Structural() {
		t.Fatalf("query unexpectedly structural: %+v", result.Intent)
	}
	if catalog.keywordCalls != 1 {
		t.Errorf("keyword probe called %d times, want 1", catalog.keywordCalls)
	}
	if semantic.calls != 1 {
		t.Errorf("semantic called %d times, want 1", semantic.calls)
	}
	if catalog.intentCalls != 0 {
		t.Error("intent search called despite semantic hit")
	}
	if len(result.Products) != 1 || result.Sources[0] != models.SourceVectorDB {
		t.Errorf("result = %+v", result)
	}
}

func TestEngine_SemanticThresholdFiltering(t *testing.T) {
	catalog := &stubCatalog{keywordResults: []models.Candidate{
		dbCandidate("probe hit", "X", 1),
	}}
	semantic := &stubSemantic{results: []models.Candidate{
		{Name: "Quạt điện ABC", Similarity: 0.82, Source: models.SourceVectorDB},
		{Name: "Đèn bàn XYZ", Similarity: 0.44, Source: models.SourceVectorDB},
		{Name: "Ổ cắm", Similarity: 0.12, Source: models.SourceVectorDB},
	}}
	e := NewEngine(catalog, semantic, &stubWeb{}, Options{}, nil)

	result := e.Search(context.Background(), "thiết bị làm mát phòng khách")

	if len(result.Products) != 1 || result.Products[0].Name != "Quạt điện ABC" {
		t.Errorf("products = %+v, want only the above-threshold hit", result.Products)
	}
	if len(result.Sources) != 1 || result.Sources[0] != models.SourceVectorDB {
		t.Errorf("sources = %v", result.Sources)
	}
}

func TestEngine_AllBelowThresholdFallsBack(t *testing.T) {
	// Every semantic hit is below threshold, so the generic path falls back
	// to the intent search, then to the web.
	catalog := &stubCatalog{keywordResults: []models.Candidate{dbCandidate("probe hit", "X", 1)}}
	semantic := &stubSemantic{results: []models.Candidate{
		{Name: "weak", Similarity: 0.2},
	}}
	web := &stubWeb{results: []models.WebResult{{Type: models.WebTypeResult, Title: "t", Content: "c"}}}
	e := NewEngine(catalog, semantic, web, Options{}, nil)

	result := e.Search(context.Background(), "đồ gia dụng thông minh giúp nấu ăn nhanh")

	if len(result.Products) != 0 {
		t.Errorf("products = %+v, want none", result.Products)
	}
	if catalog.intentCalls != 1 {
		t.Errorf("intent search called %d times, want 1 fallback call", catalog.intentCalls)
	}
	if web.calls != 1 {
		t.Error("web fallback not reached")
	}
}

func TestEngine_StructuralCatalogMissFallsBackToSemantic(t *testing.T) {
	catalog := &stubCatalog{}
	semantic := &stubSemantic{results: []models.Candidate{
		{Name: "TIVI LG 43 inch", ModelCode: "43LM5750", Price: 7900000, Similarity: 0.71, Source: models.SourceVectorDB},
	}}
	e := NewEngine(catalog, semantic, &stubWeb{}, Options{}, nil)

	result := e.Search(context.Background(), "tivi cho phòng ngủ")

	if catalog.intentCalls != 1 {
		t.Errorf("intent search called %d times", catalog.intentCalls)
	}
	if len(result.Products) != 1 || result.Sources[0] != models.SourceVectorDB {
		t.Errorf("result = %+v", result)
	}
}

func TestEngine_SoftFailures(t *testing.T) {
	catalog := &stubCatalog{intentErr: errors.New("db locked")}
	semantic := &stubSemantic{err: errors.New("embedder down")}
	web := &stubWeb{err: errors.New("network unreachable")}
	e := NewEngine(catalog, semantic, web, Options{}, nil)

	result := e.Search(context.Background(), "TV giá cao nhất")

	if result.Found {
		t.Error("found despite every source failing")
	}
	if len(result.Products) != 0 || result.WebResults != nil {
		t.Errorf("result = %+v", result)
	}
	if len(result.Sources) != 0 {
		t.Errorf("sources = %v, want none", result.Sources)
	}
}

func TestEngine_LimitTruncation(t *testing.T) {
	var many []models.Candidate
	for i := 0; i < 8; i++ {
		many = append(many, dbCandidate("P", "M", int64(i)))
	}
	catalog := &stubCatalog{intentResults: many}
	e := NewEngine(catalog, &stubSemantic{}, &stubWeb{}, Options{Limit: 3}, nil)

	result := e.Search(context.Background(), "bếp từ Sunhouse")
	if len(result.Products) != 3 {
		t.Errorf("got %d products, want 3", len(result.Products))
	}
}

func TestEngine_PerQueryLimit(t *testing.T) {
	var many []models.Candidate
	for i := 0; i < 8; i++ {
		many = append(many, dbCandidate("P", "M", int64(i)))
	}
	catalog := &stubCatalog{intentResults: many}
	e := NewEngine(catalog, &stubSemantic{}, &stubWeb{}, Options{Limit: 5}, nil)

	result := e.SearchWithLimit(context.Background(), "bếp từ Sunhouse", 2)
	if len(result.Products) != 2 {
		t.Errorf("got %d products, want the per-query cap of 2", len(result.Products))
	}

	// Zero falls back to the engine default.
	result = e.SearchWithLimit(context.Background(), "bếp từ Sunhouse", 0)
	if len(result.Products) != 5 {
		t.Errorf("got %d products, want the default limit of 5", len(result.Products))
	}
}

func TestEngine_Process(t *testing.T) {
	catalog := &stubCatalog{intentResults: []models.Candidate{
		dbCandidate("TIVI SAMSUNG 75 inch", "UA75AU7002", 19500000),
	}}
	e := NewEngine(catalog, &stubSemantic{}, &stubWeb{}, Options{}, nil)

	reply, result := e.Process(context.Background(), "TV giá cao nhất")
	if !result.Found {
		t.Fatal("expected a result")
	}
	if reply == "" || reply == notFoundMessage {
		t.Errorf("reply = %q", reply)
	}
}
