package guess

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineSize bounds a single candidate line.
const maxLineSize = 1024 * 1024

// Candidates is the ordered list of passwords to try.
type Candidates []string

// LoadCandidates reads one candidate per line. Surrounding whitespace,
// including a trailing "\r", is trimmed and blank lines are skipped.
func LoadCandidates(r io.Reader) (Candidates, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var candidates Candidates
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		candidates = append(candidates, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}
	return candidates, nil
}

// LoadCandidatesFile reads candidates from path. "-" reads stdin.
func LoadCandidatesFile(path string) (Candidates, error) {
	if path == "-" {
		return LoadCandidates(os.Stdin)
	}

	f, err := os.Open(path) //nolint:gosec // User-provided list path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open password list: %w", err)
	}
	defer f.Close()

	return LoadCandidates(f)
}
