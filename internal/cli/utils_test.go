package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/vivohome/assistant/internal/models"
)

func TestParseOutputFormat(t *testing.T) {
	if f, err := ParseOutputFormat("json"); err != nil || f != OutputJSON {
		t.Errorf("json: got %v, %v", f, err)
	}
	if f, err := ParseOutputFormat(""); err != nil || f != OutputText {
		t.Errorf("empty: got %v, %v", f, err)
	}
	if _, err := ParseOutputFormat("yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWriteChatResponse_Text(t *testing.T) {
	resp := &models.ChatResponse{
		RequestID:   "r1",
		Reply:       "💎 **Sản phẩm TV giá cao nhất:**",
		Found:       true,
		Intent:      "highest_price",
		Category:    "TV",
		Sources:     []string{"database"},
		QueryTimeMs: 12,
	}
	var buf bytes.Buffer
	if err := WriteChatResponse(&buf, resp, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, resp.Reply) {
		t.Errorf("output missing reply: %q", out)
	}
	if !strings.Contains(out, "intent: highest_price") || !strings.Contains(out, "category: TV") {
		t.Errorf("output missing provenance footer: %q", out)
	}
}

func TestWriteChatResponse_TextNotFound(t *testing.T) {
	resp := &models.ChatResponse{Reply: "❌ **Không tìm thấy sản phẩm**", Intent: "search"}
	var buf bytes.Buffer
	if err := WriteChatResponse(&buf, resp, OutputText); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "intent:") {
		t.Error("not-found output should omit the provenance footer")
	}
}

func TestWriteChatResponse_JSON(t *testing.T) {
	resp := &models.ChatResponse{RequestID: "r1", Reply: "ok", Found: true, Intent: "search"}
	var buf bytes.Buffer
	if err := WriteChatResponse(&buf, resp, OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded models.ChatResponse
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.RequestID != "r1" || decoded.Reply != "ok" {
		t.Errorf("decoded = %+v", decoded)
	}
}
