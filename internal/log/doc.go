// Package log builds slog loggers that never write challenge secrets.
//
// SecureHandler wraps any slog.Handler and masks:
//   - attributes named like password, candidate, secret, seed or token
//   - values that look like challenge passwords, bearer tokens, bcrypt hashes
//     or redeem codes
//   - the password segment of "/check/{password}" URLs in messages and values
//
// Masking applies in verbose mode too, so logs can be shared safely.
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("checking", "candidate", pw) // candidate=***REDACTED***
package log
