package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/nao1215/challenges/internal/challenge"
	"github.com/nao1215/challenges/internal/model"
)

// FileName is the name of the SQLite file inside the database directory.
const FileName = "challenges.db"

var (
	// ErrUserExists is returned when creating a user whose name is taken.
	ErrUserExists = errors.New("user already exists")

	// ErrUserNotFound is returned when no user has the requested name.
	ErrUserNotFound = errors.New("user not found")
)

// UserDB stores challenge users in SQLite.
type UserDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures UserDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL turns on Write-Ahead Logging so readers don't block the writer.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the user database in dbDir and applies migrations.
func Open(dbDir string, opts Options) (*UserDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	mode := "rw"
	if opts.CreateIfNotExists {
		mode = "rwc"
	}
	// Another process (the leaderboard command) may hold the lock briefly.
	dsn := dbPath + "?mode=" + mode + "&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite has a single writer; one connection also keeps
	// check-and-update transactions strictly serialized.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &UserDB{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (udb *UserDB) Close() error {
	return udb.db.Close()
}

// Path returns the location of the database file.
func (udb *UserDB) Path() string {
	return udb.dbPath
}

// CreateUser inserts a new user. It returns ErrUserExists if the name is taken.
func (udb *UserDB) CreateUser(ctx context.Context, user *challenge.User) error {
	query := `
	INSERT INTO users (username, created_at, solved, solved_at, hits_before_solved, total_hits, seed, secret)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := udb.db.ExecContext(ctx, query,
		user.Username,
		formatTimestamp(user.CreatedAt),
		user.Solved,
		nullTimestamp(user.SolvedAt),
		user.HitsBeforeSolved,
		user.TotalHits,
		user.Seed,
		user.Secret,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrUserExists, user.Username)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUser returns the user with the given name or ErrUserNotFound.
func (udb *UserDB) GetUser(ctx context.Context, username string) (*challenge.User, error) {
	return getUser(ctx, udb.db, username)
}

// DeleteUser removes a user. It returns ErrUserNotFound if nothing was deleted.
func (udb *UserDB) DeleteUser(ctx context.Context, username string) error {
	result, err := udb.db.ExecContext(ctx, "DELETE FROM users WHERE username = ?", username)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count deleted users: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	return nil
}

// CheckResult is the outcome of RecordCheck.
type CheckResult struct {
	// User is the state after the check was recorded.
	User *challenge.User

	// Outcome tells whether the password was the secret.
	Outcome challenge.Outcome

	// Place is the solve order; only set when Outcome is FirstSolve.
	Place int
}

// RecordCheck checks password against the user's secret and persists the
// updated counters in a single transaction.
func (udb *UserDB) RecordCheck(ctx context.Context, username, password string, now time.Time) (*CheckResult, error) {
	tx, err := udb.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	user, err := getUser(ctx, tx, username)
	if err != nil {
		return nil, err
	}

	outcome := user.Check(password, now)

	update := `
	UPDATE users SET
		solved = ?,
		solved_at = ?,
		hits_before_solved = ?,
		total_hits = ?
	WHERE username = ?
	`
	if _, err := tx.ExecContext(ctx, update,
		user.Solved,
		nullTimestamp(user.SolvedAt),
		user.HitsBeforeSolved,
		user.TotalHits,
		user.Username,
	); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	result := &CheckResult{User: user, Outcome: outcome}
	if outcome == challenge.FirstSolve {
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE solved = 1").Scan(&result.Place); err != nil {
			return nil, fmt.Errorf("failed to count solved users: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit check: %w", err)
	}
	return result, nil
}

// Stats returns aggregate counters across all users.
func (udb *UserDB) Stats(ctx context.Context) (model.Stats, error) {
	query := `
	SELECT COUNT(*), COALESCE(SUM(solved), 0), COALESCE(SUM(total_hits), 0)
	FROM users
	`

	var stats model.Stats
	if err := udb.db.QueryRowContext(ctx, query).Scan(&stats.Users, &stats.Solved, &stats.TotalHits); err != nil {
		return model.Stats{}, fmt.Errorf("failed to query stats: %w", err)
	}
	return stats, nil
}

// Leaderboard returns the stats and every solved user in solve order.
func (udb *UserDB) Leaderboard(ctx context.Context) (*model.Leaderboard, error) {
	stats, err := udb.Stats(ctx)
	if err != nil {
		return nil, err
	}

	query := `
	SELECT username, created_at, solved_at, hits_before_solved
	FROM users
	WHERE solved = 1
	ORDER BY solved_at ASC, id ASC
	`

	rows, err := udb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	lb := model.NewLeaderboard()
	lb.Stats = stats
	for rows.Next() {
		var username, createdAt string
		var solvedAt sql.NullString
		var attempts int64

		if err := rows.Scan(&username, &createdAt, &solvedAt, &attempts); err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}

		created := parseTimestamp(createdAt)
		solved := parseTimestamp(solvedAt.String)
		lb.Add(model.Completion{
			Username:    username,
			Attempts:    attempts,
			TimeToSolve: solved.Sub(created),
			SolvedAt:    solved,
		})
	}

	return lb, rows.Err()
}

// rowQuerier is satisfied by both *sql.DB and *sql.Tx.
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getUser(ctx context.Context, q rowQuerier, username string) (*challenge.User, error) {
	query := `
	SELECT username, created_at, solved, solved_at, hits_before_solved, total_hits, seed, secret
	FROM users
	WHERE username = ?
	`

	var user challenge.User
	var createdAt string
	var solvedAt sql.NullString

	err := q.QueryRowContext(ctx, query, username).Scan(
		&user.Username,
		&createdAt,
		&user.Solved,
		&solvedAt,
		&user.HitsBeforeSolved,
		&user.TotalHits,
		&user.Seed,
		&user.Secret,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.CreatedAt = parseTimestamp(createdAt)
	if solvedAt.Valid && solvedAt.String != "" {
		t := parseTimestamp(solvedAt.String)
		user.SolvedAt = &t
	}
	return &user, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

// timestampLayout is fixed width so stored values sort chronologically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func nullTimestamp(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTimestamp(*t), Valid: true}
}

// timestampFormats contains the timestamp formats that SQLite may return.
var timestampFormats = []string{
	timestampLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp tries each known format and returns the zero time if none match.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
