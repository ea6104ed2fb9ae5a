package report

import (
	"io"
	"time"

	"github.com/nao1215/challenges/internal/model"
)

// Writer outputs a leaderboard in one format.
type Writer interface {
	// Write outputs the leaderboard and returns the number of bytes written.
	Write(lb *model.Leaderboard) (int, error)
}

// Format selects a Writer implementation.
type Format int

const (
	// FormatSimple is plain text for terminals.
	FormatSimple Format = iota
	// FormatMarkdown is GitHub flavored Markdown.
	FormatMarkdown
	// FormatJSON is indented JSON.
	FormatJSON
)

// NewWriter returns the Writer for format.
func NewWriter(format Format, output io.Writer) Writer {
	switch format {
	case FormatMarkdown:
		return NewMarkdownWriter(output)
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint())
	default:
		return NewSimpleWriter(output)
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// timeLayout is used for every timestamp in text and Markdown output.
const timeLayout = "2006-01-02 15:04:05 MST"

// formatDuration rounds to seconds so "3m7.2041s" reads as "3m7s".
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}
