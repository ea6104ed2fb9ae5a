package guess

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultSentinel is the first line of a successful check response.
	DefaultSentinel = "True"

	// DefaultMaxBodySize limits how much of each response is read.
	DefaultMaxBodySize = 1024 * 1024

	userAgent = "challenges-guess/1.0"
)

// Match is the candidate that produced the sentinel.
type Match struct {
	// Candidate is the accepted password.
	Candidate string

	// Body is the full response body.
	Body string

	// Index is the candidate's position in the list.
	Index int

	// Attempts is the number of requests completed when the match was found.
	Attempts int
}

// Guesser tries candidates against a URL template.
type Guesser struct {
	template    *Template
	username    string
	client      *http.Client
	sentinel    string
	concurrency int
	delay       time.Duration
	maxBodySize int64
	logger      *slog.Logger
	progress    func(attempts int)
}

// Option configures a Guesser.
type Option func(*Guesser)

// WithUsername fills the {username} placeholder.
func WithUsername(username string) Option {
	return func(g *Guesser) {
		g.username = username
	}
}

// WithHTTPClient sets the client used for check requests.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Guesser) {
		if client != nil {
			g.client = client
		}
	}
}

// WithSentinel sets the first response line that marks a hit.
func WithSentinel(sentinel string) Option {
	return func(g *Guesser) {
		if sentinel != "" {
			g.sentinel = sentinel
		}
	}
}

// WithConcurrency sets the number of in-flight requests. With more than one,
// the returned match is whichever hit arrived first, not necessarily the
// earliest in the list.
func WithConcurrency(n int) Option {
	return func(g *Guesser) {
		if n > 0 {
			g.concurrency = n
		}
	}
}

// WithDelay waits d before every request after a worker's first.
func WithDelay(d time.Duration) Option {
	return func(g *Guesser) {
		if d > 0 {
			g.delay = d
		}
	}
}

// WithMaxBodySize limits how many bytes of each response are read.
func WithMaxBodySize(n int64) Option {
	return func(g *Guesser) {
		if n > 0 {
			g.maxBodySize = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Guesser) {
		g.logger = logger
	}
}

// WithProgress registers a callback invoked after every completed request
// with the running attempt count. It may be called from several goroutines.
func WithProgress(fn func(attempts int)) Option {
	return func(g *Guesser) {
		g.progress = fn
	}
}

// New creates a Guesser for tmpl.
func New(tmpl *Template, opts ...Option) *Guesser {
	g := &Guesser{
		template:    tmpl,
		client:      &http.Client{Timeout: 30 * time.Second},
		sentinel:    DefaultSentinel,
		concurrency: 1,
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.logger == nil {
		g.logger = slog.Default()
	}

	return g
}

// Run tries candidates until one matches. It returns ErrNotFound when the
// list is exhausted, or the first request error.
func (g *Guesser) Run(ctx context.Context, candidates Candidates) (*Match, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	if g.template.HasUsername() && g.username == "" {
		return nil, ErrMissingUsername
	}

	g.logger.Info("starting guess",
		"candidates", len(candidates),
		"concurrency", g.concurrency,
		"username", g.username,
	)

	if g.concurrency <= 1 {
		return g.runSequential(ctx, candidates)
	}
	return g.runConcurrent(ctx, candidates)
}

func (g *Guesser) runSequential(ctx context.Context, candidates Candidates) (*Match, error) {
	for i, candidate := range candidates {
		if i > 0 {
			if err := sleep(ctx, g.delay); err != nil {
				return nil, err
			}
		}

		body, ok, err := g.check(ctx, candidate)
		g.reportProgress(i + 1)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i+1, err)
		}
		if ok {
			g.logger.Info("match found", "attempts", i+1)
			return &Match{Candidate: candidate, Body: body, Index: i, Attempts: i + 1}, nil
		}
	}
	return nil, ErrNotFound
}

// errMatched cancels the remaining workers once a match is found.
var errMatched = errors.New("match found")

func (g *Guesser) runConcurrent(ctx context.Context, candidates Candidates) (*Match, error) {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)

	var (
		attempts atomic.Int64
		once     sync.Once
		match    *Match
	)

	// Each worker slot waits delay before reuse; the first wave starts at once.
	var started atomic.Int64

	for i, candidate := range candidates {
		if egCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if started.Add(1) > int64(g.concurrency) {
				if err := sleep(egCtx, g.delay); err != nil {
					return err
				}
			}

			body, ok, err := g.check(egCtx, candidate)
			n := int(attempts.Add(1))
			g.reportProgress(n)
			if err != nil {
				return fmt.Errorf("candidate %d: %w", i+1, err)
			}
			if ok {
				once.Do(func() {
					match = &Match{Candidate: candidate, Body: body, Index: i, Attempts: n}
				})
				return errMatched
			}
			return nil
		})
	}

	err := eg.Wait()
	if match != nil {
		g.logger.Info("match found", "attempts", match.Attempts)
		return match, nil
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, ErrNotFound
}

// check requests one candidate and reports whether the sentinel came back.
func (g *Guesser) check(ctx context.Context, candidate string) (string, bool, error) {
	target := g.template.Expand(g.username, candidate)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", false, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, g.maxBodySize))
	if err != nil {
		return "", false, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", false, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	body := string(data)
	g.logger.Debug("checked", "candidate", candidate, "status", resp.StatusCode)
	return body, FirstLine(body) == g.sentinel, nil
}

func (g *Guesser) reportProgress(attempts int) {
	if g.progress != nil {
		g.progress(attempts)
	}
}

// FirstLine returns the text before the first newline, without a trailing "\r".
func FirstLine(body string) string {
	line, _, _ := strings.Cut(body, "\n")
	return strings.TrimSuffix(line, "\r")
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
