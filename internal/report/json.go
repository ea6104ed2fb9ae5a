package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/challenges/internal/model"
)

// JSONWriter outputs the leaderboard as JSON.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the leaderboard in JSON format followed by a newline.
func (w *JSONWriter) Write(lb *model.Leaderboard) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(lb, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(lb)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
