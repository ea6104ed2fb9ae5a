package sample

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pierrec/lz4/v4"
	"golang.org/x/sync/errgroup"
)

// Default generator settings.
const (
	DefaultCount        = 10000
	DefaultLinesPerFile = 10
	DefaultPrefix       = "sample"
	DefaultOutDir       = "."

	// CompressedSuffix is appended to file names when compression is on.
	CompressedSuffix = ".lz4"
)

var (
	// ErrSampleTooLarge is returned when a file needs more lines than the corpus has.
	ErrSampleTooLarge = errors.New("lines per file exceeds corpus size")

	// ErrInvalidCount is returned when the file count or sample size is not positive.
	ErrInvalidCount = errors.New("count and lines per file must be positive")
)

// Result describes a finished run.
type Result struct {
	// Files are the written paths in index order.
	Files []string

	// Seed reproduces this run when passed to WithSeed.
	Seed uint64
}

// Generator writes sample files from a corpus.
type Generator struct {
	corpus       Corpus
	count        int
	linesPerFile int
	prefix       string
	outDir       string
	seed         uint64
	compress     bool
	force        bool
	workers      int
	logger       *slog.Logger
	progress     func(done int)
}

// Option configures a Generator.
type Option func(*Generator)

// WithCount sets the number of files.
func WithCount(n int) Option {
	return func(g *Generator) { g.count = n }
}

// WithLinesPerFile sets the number of lines drawn into each file.
func WithLinesPerFile(k int) Option {
	return func(g *Generator) { g.linesPerFile = k }
}

// WithPrefix sets the file name prefix.
func WithPrefix(prefix string) Option {
	return func(g *Generator) {
		if prefix != "" {
			g.prefix = prefix
		}
	}
}

// WithOutDir sets the output directory. It is created if missing.
func WithOutDir(dir string) Option {
	return func(g *Generator) {
		if dir != "" {
			g.outDir = dir
		}
	}
}

// WithSeed fixes the random seed. Zero picks a time-based seed.
func WithSeed(seed uint64) Option {
	return func(g *Generator) { g.seed = seed }
}

// WithCompression writes each file as an lz4 frame with a ".lz4" suffix.
func WithCompression(enabled bool) Option {
	return func(g *Generator) { g.compress = enabled }
}

// WithForce removes existing "{prefix}_*" files in the output directory first.
func WithForce(enabled bool) Option {
	return func(g *Generator) { g.force = enabled }
}

// WithWorkers sets how many files are written at once.
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.workers = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// WithProgress registers a callback run after each file is drawn.
func WithProgress(fn func(done int)) Option {
	return func(g *Generator) { g.progress = fn }
}

// New creates a Generator over corpus.
func New(corpus Corpus, opts ...Option) *Generator {
	g := &Generator{
		corpus:       corpus,
		count:        DefaultCount,
		linesPerFile: DefaultLinesPerFile,
		prefix:       DefaultPrefix,
		outDir:       DefaultOutDir,
		workers:      runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.logger == nil {
		g.logger = slog.Default()
	}

	return g
}

// FileName returns the name of the file with the given index.
func (g *Generator) FileName(index int) string {
	name := fmt.Sprintf("%s_%05d", g.prefix, index)
	if g.compress {
		name += CompressedSuffix
	}
	return name
}

// Run writes every file. Samples are drawn in index order from one seeded
// source, so a fixed seed always produces the same files.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	if len(g.corpus) == 0 {
		return nil, ErrEmptyCorpus
	}
	if g.count <= 0 || g.linesPerFile <= 0 {
		return nil, ErrInvalidCount
	}
	if g.linesPerFile > len(g.corpus) {
		return nil, fmt.Errorf("%w: %d > %d", ErrSampleTooLarge, g.linesPerFile, len(g.corpus))
	}

	if err := os.MkdirAll(g.outDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if g.force {
		if err := g.removePrevious(); err != nil {
			return nil, err
		}
	}

	seed := g.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano()) //nolint:gosec // Sign does not matter for a seed
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d)) //nolint:gosec // Puzzle data, not secrets

	g.logger.Info("generating samples",
		"corpus_lines", len(g.corpus),
		"files", g.count,
		"lines_per_file", g.linesPerFile,
		"out_dir", g.outDir,
	)

	result := &Result{Files: make([]string, g.count), Seed: seed}
	perm := identity(len(g.corpus))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)

	for i := range g.count {
		if egCtx.Err() != nil {
			break
		}

		lines := g.draw(rng, perm)
		path := filepath.Join(g.outDir, g.FileName(i))
		result.Files[i] = path

		eg.Go(func() error {
			return g.writeFile(path, lines)
		})

		if g.progress != nil {
			g.progress(i + 1)
		}
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.logger.Info("samples written", "files", g.count, "seed", seed)
	return result, nil
}

// draw picks linesPerFile distinct corpus lines with a partial Fisher-Yates
// shuffle. perm stays a permutation between calls, so it need not be reset.
func (g *Generator) draw(rng *rand.Rand, perm []int) []string {
	n := len(perm)
	lines := make([]string, g.linesPerFile)
	for i := range lines {
		j := i + rng.IntN(n-i)
		perm[i], perm[j] = perm[j], perm[i]
		lines[i] = g.corpus[perm[i]]
	}
	return lines
}

func (g *Generator) writeFile(path string, lines []string) (err error) {
	f, err := os.Create(path) //nolint:gosec // Path is built from the configured output directory
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	var w io.Writer = f
	var zw *lz4.Writer
	if g.compress {
		zw = lz4.NewWriter(f)
		w = zw
	}

	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return fmt.Errorf("failed to finish lz4 frame for %s: %w", path, err)
		}
	}
	return nil
}

// isGenerated reports whether name has the shape FileName produces for this
// prefix: "{prefix}_" and five or more digits, optionally with CompressedSuffix.
func (g *Generator) isGenerated(name string) bool {
	rest, ok := strings.CutPrefix(name, g.prefix+"_")
	if !ok {
		return false
	}
	rest = strings.TrimSuffix(rest, CompressedSuffix)
	if len(rest) < 5 {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// removePrevious deletes regular files from an earlier run with the same prefix.
func (g *Generator) removePrevious() error {
	entries, err := os.ReadDir(g.outDir)
	if err != nil {
		return fmt.Errorf("failed to read output directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !g.isGenerated(entry.Name()) {
			continue
		}
		path := filepath.Join(g.outDir, entry.Name())
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
		removed++
	}
	if removed > 0 {
		g.logger.Debug("removed previous samples", "count", removed)
	}
	return nil
}

func identity(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	return perm
}
