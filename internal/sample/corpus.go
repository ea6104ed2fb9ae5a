package sample

import (
	"bufio"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// maxLineSize bounds a single source line.
const maxLineSize = 1024 * 1024

var (
	// ErrEmptyCorpus is returned when the source has no lines.
	ErrEmptyCorpus = errors.New("corpus is empty")

	// ErrNoSourceFiles is returned when a source pattern matches nothing.
	ErrNoSourceFiles = errors.New("no source files match")
)

// Corpus is the ordered list of base64-encoded source lines.
type Corpus []string

// LoadCorpus encodes every line of r with standard base64. The line
// terminator ("\n" or "\r\n") is not part of the encoded payload, and
// empty lines are kept.
func LoadCorpus(r io.Reader) (Corpus, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var corpus Corpus
	for scanner.Scan() {
		corpus = append(corpus, base64.StdEncoding.EncodeToString(scanner.Bytes()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	return corpus, nil
}

// LoadCorpusFiles loads every file matching pattern, in lexical order, into
// one corpus. pattern is a doublestar glob such as "books/**/*.txt"; a plain
// path matches itself.
func LoadCorpusFiles(pattern string) (Corpus, error) {
	paths, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid source pattern %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSourceFiles, pattern)
	}
	sort.Strings(paths)

	var corpus Corpus
	for _, path := range paths {
		part, err := loadCorpusFile(path)
		if err != nil {
			return nil, err
		}
		corpus = append(corpus, part...)
	}
	return corpus, nil
}

func loadCorpusFile(path string) (Corpus, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided source path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	defer f.Close()

	corpus, err := LoadCorpus(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return corpus, nil
}
