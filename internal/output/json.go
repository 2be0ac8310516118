package output

import (
	"encoding/json"
	"io"
)

// JSONWriter writes one JSON document per report. With an empty indent each
// report is a single line, which makes the stream JSONL.
type JSONWriter struct {
	enc *json.Encoder
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, indent string) *JSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return &JSONWriter{enc: enc}
}

// Write encodes r followed by a newline.
func (w *JSONWriter) Write(r Report) error {
	return w.enc.Encode(r)
}
