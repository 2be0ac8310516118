package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/divarsearch/internal/pipeline"
)

func testReport() Report {
	state := pipeline.State{
		RunID:          "run-1",
		City:           "تهران",
		CitySlug:       "tehran",
		Query:          "apartment for rent",
		OptimizedQuery: "آپارتمان اجاره\n",
		RelevantAds:    "- **A** <1,000>\n- **B**\n",
		Messages: pipeline.NewTranscript(
			pipeline.UserTurn("I'm looking for apartment for rent in تهران"),
			pipeline.SystemTurn("Optimized search query: آپارتمان اجاره"),
			pipeline.SystemTurn("- **A** <1,000>\n- **B**"),
		),
	}
	return NewReport(state, Metadata{Provider: "ollama", Model: "qwen2.5:latest"}, 1500*time.Millisecond)
}

// --- NewWriter Factory Tests ---

func TestNewWriter(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatText, "*output.TextWriter"},
		{"", "*output.TextWriter"},
		{FormatJSON, "*output.JSONWriter"},
		{FormatJSONL, "*output.JSONWriter"},
		{FormatYAML, "*output.YAMLWriter"},
	}

	for _, tt := range tests {
		w, err := NewWriter(&bytes.Buffer{}, tt.format)
		if err != nil {
			t.Fatalf("NewWriter(%q) error = %v", tt.format, err)
		}
		if got := fmt.Sprintf("%T", w); got != tt.want {
			t.Errorf("NewWriter(%q) = %s, want %s", tt.format, got, tt.want)
		}
	}
}

func TestNewWriter_UnsupportedFormat(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, Format("unsupported"))
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}

	if !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected error containing 'unsupported', got %v", err)
	}
}

// --- Report Tests ---

func TestNewReport(t *testing.T) {
	r := testReport()

	if r.RunID != "run-1" || r.CitySlug != "tehran" {
		t.Errorf("unexpected identity fields: %+v", r)
	}
	if len(r.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(r.Messages))
	}
	if r.Messages[0].Origin != pipeline.OriginUser {
		t.Errorf("first message origin = %s", r.Messages[0].Origin)
	}
	if r.Metadata.DurationMs != 1500 {
		t.Errorf("DurationMs = %d, want 1500", r.Metadata.DurationMs)
	}
	if _, err := time.Parse(time.RFC3339, r.Metadata.CompletedAt); err != nil {
		t.Errorf("CompletedAt not RFC3339: %v", err)
	}
}

// --- JSONWriter Tests ---

func TestJSONWriter_Write(t *testing.T) {
	buf := &bytes.Buffer{}
	w, _ := NewWriter(buf, FormatJSON)

	if err := w.Write(testReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}
	if result["city_slug"] != "tehran" {
		t.Errorf("city_slug = %v", result["city_slug"])
	}
	if _, ok := result["_metadata"]; !ok {
		t.Error("expected _metadata key")
	}

	// Pretty print should contain indentation
	if !strings.Contains(buf.String(), "\n  \"") {
		t.Error("expected indentation in pretty output")
	}
	// HTML characters stay readable
	if !strings.Contains(buf.String(), "<1,000>") {
		t.Error("expected unescaped angle brackets")
	}
}

func TestJSONLWriter_OneLinePerReport(t *testing.T) {
	buf := &bytes.Buffer{}
	w, _ := NewWriter(buf, FormatJSONL)

	for i := 0; i < 2; i++ {
		if err := w.Write(testReport()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for i, line := range lines {
		var r Report
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			t.Errorf("line %d: failed to unmarshal: %v", i, err)
		}
	}
}

// --- YAMLWriter Tests ---

func TestYAMLWriter_Write(t *testing.T) {
	buf := &bytes.Buffer{}
	w, _ := NewWriter(buf, FormatYAML)

	if err := w.Write(testReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var result map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}
	if result["optimized_query"] != "آپارتمان اجاره\n" {
		t.Errorf("optimized_query = %q", result["optimized_query"])
	}
	msgs, ok := result["messages"].([]any)
	if !ok || len(msgs) != 3 {
		t.Errorf("expected 3 messages, got %v", result["messages"])
	}
}

// --- TextWriter Tests ---

func TestTextWriter_Write(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := NewTextWriter(buf, false).Write(testReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"City:            تهران (tehran)",
		"Optimized query: آپارتمان اجاره\n",
		"- **A** <1,000>\n- **B**\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Conversation:") {
		t.Error("transcript printed without being requested")
	}
	if strings.Contains(out, "Warning:") {
		t.Error("unexpected scrape warning")
	}
}

func TestTextWriter_TranscriptAndWarning(t *testing.T) {
	r := testReport()
	r.ScrapeFailed = true

	buf := &bytes.Buffer{}
	w, _ := NewWriter(buf, FormatText, WithTranscript(true))
	if err := w.Write(r); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Warning:") {
		t.Error("expected scrape warning")
	}
	if !strings.Contains(out, "  1. [user] I'm looking for apartment for rent in تهران") {
		t.Errorf("expected numbered user turn:\n%s", out)
	}
	if !strings.Contains(out, "  3. [system] - **A** <1,000>\n     - **B**") {
		t.Errorf("expected indented multi-line system turn:\n%s", out)
	}
}
