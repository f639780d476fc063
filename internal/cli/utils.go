// Package cli provides output helpers for the vivohome command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vivohome/assistant/internal/models"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat maps a flag value to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch s {
	case "", "text":
		return OutputText, nil
	case "json":
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

// WriteChatResponse writes an assistant reply to w in the given format.
// Text mode prints the rendered reply plus a short provenance footer; JSON
// mode emits the full response object.
func WriteChatResponse(w io.Writer, resp *models.ChatResponse, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	fmt.Fprintln(w, resp.Reply)
	if resp.Found {
		fmt.Fprintf(w, "\n(intent: %s", resp.Intent)
		if resp.Category != "" {
			fmt.Fprintf(w, ", category: %s", resp.Category)
		}
		fmt.Fprintf(w, ", %dms)\n", resp.QueryTimeMs)
	}
	return nil
}
