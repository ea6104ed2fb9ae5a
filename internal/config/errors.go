package config

import "errors"

// Configuration validation errors, checked with errors.Is.
var (
	// ErrNoPasswordList is returned when the guesser has no candidate file.
	ErrNoPasswordList = errors.New("no password list specified: use --list")

	// ErrNoURLTemplate is returned when the guesser has no URL template.
	ErrNoURLTemplate = errors.New("no URL template specified: use --url")

	// ErrNoUsername is returned when the template uses {username} but none was given.
	ErrNoUsername = errors.New("URL template contains {username}: use --user")

	// ErrEmptySentinel is returned when the success line is empty.
	ErrEmptySentinel = errors.New("sentinel must not be empty")

	// ErrInvalidConcurrency is returned when concurrency is out of range.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be between 1 and 256")

	// ErrInvalidTimeout is returned when a timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidDelay is returned when the request delay is negative.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrNoSource is returned when the generator has no corpus.
	ErrNoSource = errors.New("no source specified: use --source")

	// ErrInvalidSampleCount is returned when the number of files is not positive.
	ErrInvalidSampleCount = errors.New("invalid count: must be positive")

	// ErrInvalidLinesPerFile is returned when the sample size is not positive.
	ErrInvalidLinesPerFile = errors.New("invalid lines per file: must be positive")

	// ErrInvalidPrefix is returned when the prefix is empty or contains path
	// separators or glob metacharacters.
	ErrInvalidPrefix = errors.New("invalid prefix: must be a plain file name")

	// ErrNoOutDir is returned when the output directory is empty.
	ErrNoOutDir = errors.New("no output directory specified: use --out")

	// ErrInvalidPort is returned when the port is outside 0-65535.
	ErrInvalidPort = errors.New("invalid port: must be between 0 and 65535")

	// ErrNoDBDir is returned when no database directory is configured.
	ErrNoDBDir = errors.New("no database directory specified: use --db-dir")

	// ErrInvalidAdminTokenHash is returned when the admin hash is not bcrypt.
	ErrInvalidAdminTokenHash = errors.New("invalid admin token hash: must be a bcrypt hash")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
