package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/challenges/internal/model"
)

// SimpleWriter outputs a plain text leaderboard for terminals.
type SimpleWriter struct {
	baseWriter

	// limit caps the number of rows; zero shows everyone.
	limit int
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithLimit shows only the first n places.
func WithLimit(n int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		if n > 0 {
			w.limit = n
		}
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the leaderboard in human-readable format.
func (w *SimpleWriter) Write(lb *model.Leaderboard) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, lb)
	w.writeStats(&sb, lb.Stats)
	w.writeCompletions(&sb, lb)
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, lb *model.Leaderboard) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      LOST PASSWORD LEADERBOARD\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")
	fmt.Fprintf(sb, "Generated: %s\n\n", lb.GeneratedAt.Format(timeLayout))
}

func (w *SimpleWriter) writeStats(sb *strings.Builder, stats model.Stats) {
	fmt.Fprintf(sb, "  Players:    %d\n", stats.Users)
	fmt.Fprintf(sb, "  Solved:     %d\n", stats.Solved)
	fmt.Fprintf(sb, "  Searching:  %d\n", stats.Unsolved())
	fmt.Fprintf(sb, "  Checks:     %d\n", stats.TotalHits)
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeCompletions(sb *strings.Builder, lb *model.Leaderboard) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")

	if lb.IsEmpty() {
		sb.WriteString("  Nobody has found their password yet.\n")
		return
	}

	fmt.Fprintf(sb, "  %-6s %-24s %10s %14s\n", "PLACE", "PLAYER", "ATTEMPTS", "TIME")
	for i, c := range lb.Completions {
		if w.limit > 0 && i >= w.limit {
			fmt.Fprintf(sb, "  ... and %d more\n", len(lb.Completions)-w.limit)
			break
		}
		fmt.Fprintf(sb, "  %-6d %-24s %10d %14s\n", c.Place, truncateString(c.Username, 24), c.Attempts, formatDuration(c.TimeToSolve))
	}
}

// truncateString shortens s to maxLen runes, marking the cut with "...".
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
