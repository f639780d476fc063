package models

// Intent classifies the purpose of a query.
type Intent string

// Known intents. IntentSearch is the default when no pattern matches.
const (
	IntentSearch       Intent = "search"
	IntentHighestPrice Intent = "highest_price"
	IntentLowestPrice  Intent = "lowest_price"
	IntentCompare      Intent = "compare"
)

// ParsedIntent is the classification of one query. It is ephemeral: derived
// per request and discarded after the response is formatted.
type ParsedIntent struct {
	Intent   Intent `json:"intent"`
	Category string `json:"category,omitempty"`
	// Brands holds detected brand labels in vocabulary order (not query
	// order), or nil when no brand matched. Callers must check for nil
	// before iterating.
	Brands        []string `json:"brands,omitempty"`
	OriginalQuery string   `json:"original_query"`
}

// Structural reports whether the query carries structural signal: an explicit
// price superlative or comparison, a detected category, or detected brands.
// Structural queries are precise enough that deterministic catalog filtering
// is trusted before embedding similarity.
func (p ParsedIntent) Structural() bool {
	return p.Intent != IntentSearch || p.Category != "" || len(p.Brands) > 0
}
