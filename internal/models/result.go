package models

// Candidate source tags.
const (
	SourceDatabase = "database"
	SourceVectorDB = "vector_db"
	SourceKeyword  = "keyword"
	SourceWeb      = "web"
)

// Candidate is one normalized search hit from any product source.
type Candidate struct {
	Name      string `json:"name"`
	ModelCode string `json:"model"`
	Price     int64  `json:"price"`
	Spec      string `json:"spec,omitempty"`

	// Similarity is a 0.0-1.0 confidence. Sources that do not compute one
	// attach their fixed default.
	Similarity float64 `json:"similarity"`
	Source     string  `json:"source"`
}

// Web result entry types.
const (
	WebTypeAnswer = "answer"
	WebTypeResult = "web_result"
)

// WebResult is one hit from the web fallback. Web results are structurally
// different from product candidates and are never merged into the product list.
type WebResult struct {
	Type    string `json:"type"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
	URL     string `json:"url,omitempty"`
}

// SearchResult is the outcome of one pass through the retrieval pipeline.
type SearchResult struct {
	Found    bool         `json:"found"`
	Intent   ParsedIntent `json:"intent"`
	Products []Candidate  `json:"products"`
	// WebResults is nil unless the web fallback ran.
	WebResults []WebResult `json:"web_results,omitempty"`
	// Sources lists the source tags actually consulted, in order of use.
	Sources []string `json:"sources"`
}

// ChatRequest is the body of POST /api/v1/chat and /api/v1/search.
type ChatRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// ChatResponse is the reply for POST /api/v1/chat.
type ChatResponse struct {
	RequestID   string   `json:"request_id"`
	Reply       string   `json:"reply"`
	Found       bool     `json:"found"`
	Intent      string   `json:"intent"`
	Category    string   `json:"category,omitempty"`
	Sources     []string `json:"sources"`
	QueryTimeMs int64    `json:"query_time_ms"`
}
