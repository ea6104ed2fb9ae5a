package server

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/nao1215/challenges/internal/challenge"
	"github.com/nao1215/challenges/internal/database"
	"github.com/nao1215/challenges/internal/model"
)

// DefaultShutdownTimeout bounds graceful shutdown.
const DefaultShutdownTimeout = 10 * time.Second

//go:embed static/README.html
var readmeHTML []byte

// Store is the persistence the server needs. *database.UserDB implements it.
type Store interface {
	CreateUser(ctx context.Context, user *challenge.User) error
	GetUser(ctx context.Context, username string) (*challenge.User, error)
	DeleteUser(ctx context.Context, username string) error
	RecordCheck(ctx context.Context, username, password string, now time.Time) (*database.CheckResult, error)
	Leaderboard(ctx context.Context) (*model.Leaderboard, error)
}

// Server serves the challenge over HTTP.
type Server struct {
	app             *fiber.App
	store           Store
	logger          *slog.Logger
	adminTokenHash  []byte
	shutdownTimeout time.Duration
	now             func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithAdminTokenHash guards DELETE /u/:user with a bcrypt-hashed bearer token.
// An empty hash leaves deletion open.
func WithAdminTokenHash(hash string) Option {
	return func(s *Server) {
		if hash != "" {
			s.adminTokenHash = []byte(hash)
		}
	}
}

// WithShutdownTimeout bounds graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Server backed by store and registers every route.
func New(store Store, opts ...Option) *Server {
	s := &Server{
		store:           store,
		shutdownTimeout: DefaultShutdownTimeout,
		now:             time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "challenges",
		DisableStartupMessage: true,
		// Route params are kept after the handler returns (usernames end
		// up in logs and errors), so they must not alias fasthttp buffers.
		Immutable:    true,
		UnescapePath: true,
		ErrorHandler: s.handleError,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})
	s.routes()

	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) routes() {
	s.app.Use(recover.New())
	s.app.Use(requestid.New())
	s.app.Use(requestLogger(s.logger))

	s.app.Get("/", s.handleReadme)
	s.app.Get("/healthz", s.handleHealthz)
	s.app.Get("/status", s.handleStatus)

	s.app.Post("/u/:user", s.handleCreateUser)
	s.app.Delete("/u/:user", adminOnly(s.adminTokenHash, s.logger), s.handleDeleteUser)
	s.app.Get("/u/:user/passwords.txt", compressPasswords(), s.handlePasswords)
	s.app.Get("/u/:user/check/:password", s.handleCheck)
}

// Run listens on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within the shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("server listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listener(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	if err := s.app.ShutdownWithTimeout(s.shutdownTimeout); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}
