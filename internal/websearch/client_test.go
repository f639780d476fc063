package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/vivohome/assistant/internal/models"
)

func TestClient_Search(t *testing.T) {
	var gotReq searchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"answer": "iPhone 15 Pro Max giá khoảng 29 triệu đồng.",
			"results": []map[string]string{
				{"title": "iPhone 15 Pro Max chính hãng", "content": strings.Repeat("a", 400), "url": "https://shop.example/iphone"},
				{"title": "So sánh giá iPhone 15", "content": "Giá từ 28.5 triệu.", "url": "https://news.example/iphone"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", 5*time.Second)
	results, err := c.Search(context.Background(), "iPhone 15 Pro Max", 3)
	if err != nil {
		t.Fatal(err)
	}

	if gotReq.Query != "iPhone 15 Pro Max giá" {
		t.Errorf("query sent = %q, want price suffix appended", gotReq.Query)
	}
	if gotReq.APIKey != "test-key" || !gotReq.IncludeAnswer || gotReq.SearchDepth != "basic" {
		t.Errorf("request fields = %+v", gotReq)
	}

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Type != models.WebTypeAnswer {
		t.Errorf("first result type = %q, want answer first", results[0].Type)
	}
	if results[1].Type != models.WebTypeResult || results[1].URL != "https://shop.example/iphone" {
		t.Errorf("second result = %+v", results[1])
	}
	if len(results[1].Content) != 300 {
		t.Errorf("snippet length = %d, want truncated to 300", len(results[1].Content))
	}
}

func TestClient_SearchNoAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]string{
				{"title": "Kết quả", "content": "nội dung", "url": "https://example.com"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", time.Second)
	results, err := c.Search(context.Background(), "máy lọc nước", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Type != models.WebTypeResult {
		t.Errorf("got %+v, want a single web_result", results)
	}
}

func TestClient_SearchMultibyteSnippet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]string{
				{"title": "Giá bếp từ", "content": strings.Repeat("giá rẻ nhất ", 50), "url": "https://example.com"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", time.Second)
	results, err := c.Search(context.Background(), "bếp từ", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	content := results[0].Content
	if !utf8.ValidString(content) {
		t.Errorf("snippet is not valid UTF-8: %q", content)
	}
	if utf8.RuneCountInString(content) != 300 {
		t.Errorf("snippet = %d runes, want truncated to 300", utf8.RuneCountInString(content))
	}
}

func TestClient_SearchLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		items := make([]map[string]string, 5)
		for i := range items {
			items[i] = map[string]string{"title": "t", "content": "c", "url": "u"}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"results": items})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", time.Second)
	results, err := c.Search(context.Background(), "bếp từ", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}

func TestClient_SearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad", time.Second)
	if _, err := c.Search(context.Background(), "tv", 3); err == nil {
		t.Fatal("expected error from failing server")
	}
}
