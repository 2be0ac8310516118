package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TextWriter prints a report for a terminal: a short header followed by the
// summarized ads as returned by the model.
type TextWriter struct {
	w          io.Writer
	transcript bool
}

// NewTextWriter creates a text writer.
func NewTextWriter(w io.Writer, transcript bool) *TextWriter {
	return &TextWriter{w: w, transcript: transcript}
}

// Write renders r.
func (w *TextWriter) Write(r Report) error {
	bw := bufio.NewWriter(w.w)

	fmt.Fprintf(bw, "City:            %s (%s)\n", r.City, r.CitySlug)
	fmt.Fprintf(bw, "Query:           %s\n", r.Query)
	fmt.Fprintf(bw, "Optimized query: %s\n", strings.TrimSpace(r.OptimizedQuery))
	if r.ScrapeFailed {
		fmt.Fprintln(bw, "Warning:         scraping failed, the summary below describes the error")
	}
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, strings.TrimRight(r.RelevantAds, "\n"))

	if w.transcript {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "Conversation:")
		for i, t := range r.Messages {
			fmt.Fprintf(bw, "  %d. [%s] %s\n", i+1, t.Origin, indentContinuation(t.Content, "     "))
		}
	}

	return bw.Flush()
}

func indentContinuation(s, prefix string) string {
	return strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", "\n"+prefix)
}
