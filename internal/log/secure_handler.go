package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// sensitiveKeys contains attribute keys whose values are always masked.
var sensitiveKeys = map[string]bool{
	// HTTP headers
	"authorization":       true,
	"cookie":              true,
	"set-cookie":          true,
	"proxy-authorization": true,

	// Challenge material
	"password":    true,
	"candidate":   true,
	"secret":      true,
	"seed":        true,
	"redeem_code": true,
	"code":        true,

	// Server administration
	"token":            true,
	"admin_token":      true,
	"admin_token_hash": true,
	"credential":       true,
	"credentials":      true,
	"auth":             true,
}

// sensitiveKeywords mark a key as sensitive when they appear anywhere in it.
// A bare "key" is left out because it matches too much (primary_key, monkey).
var sensitiveKeywords = []string{
	"password", "passwd", "secret", "token", "auth",
	"credential", "candidate", "seed", "redeem",
}

// sensitivePatterns mask a whole string value regardless of its key.
var sensitivePatterns = []*regexp.Regexp{
	// Bearer tokens
	regexp.MustCompile(`(?i)^bearer\s+.+`),

	// Basic auth
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),

	// Challenge passwords and other long alphanumeric secrets
	regexp.MustCompile(`^[a-zA-Z0-9]{32,}$`),

	// bcrypt hashes
	regexp.MustCompile(`^\$2[aby]?\$\d{2}\$[./A-Za-z0-9]{53}$`),

	// SHA-224 redeem codes
	regexp.MustCompile(`^[0-9a-f]{56}$`),
}

// checkPathPattern finds the password segment of a check URL or path.
var checkPathPattern = regexp.MustCompile(`(/check/)[^/?#\s]+`)

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// SecureHandler wraps an slog.Handler and masks challenge secrets before
// records reach the underlying handler.
type SecureHandler struct {
	handler slog.Handler
}

// NewSecureHandler creates a new SecureHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle sanitizes the record's message and attributes and passes it on.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, redactCheckPath(r.Message), r.PC)

	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitizeAttr(a))
		return true
	})

	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a new handler with the given attributes sanitized and added.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitizedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitizedAttrs[i] = h.sanitizeAttr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(sanitizedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name)}
}

// sanitizeAttr sanitizes a single attribute, recursively handling groups.
func (h *SecureHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		sanitizedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			sanitizedAttrs[i] = h.sanitizeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitizedAttrs...)}
	}

	keyLower := strings.ToLower(a.Key)
	if sensitiveKeys[keyLower] || containsSensitiveKeyword(keyLower) {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()
		if isSensitiveValue(strVal) {
			return slog.String(a.Key, MaskValue)
		}
		if redacted := redactCheckPath(strVal); redacted != strVal {
			return slog.String(a.Key, redacted)
		}
	}

	return a
}

// containsSensitiveKeyword checks if the key contains a sensitive keyword.
func containsSensitiveKeyword(key string) bool {
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

// isSensitiveValue checks if a value matches sensitive patterns.
func isSensitiveValue(value string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// redactCheckPath masks the password in "/check/{password}" segments,
// leaving the rest of a URL or path readable.
func redactCheckPath(s string) string {
	if !strings.Contains(s, "/check/") {
		return s
	}
	return checkPathPattern.ReplaceAllString(s, "${1}"+MaskValue)
}

// NewSecureLogger creates a text slog.Logger that sanitizes its output.
// verbose selects Debug, otherwise Warn.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewSecureLoggerAt creates a sanitizing logger with an explicit level.
// The server logs requests at Info, below the CLI default of Warn.
func NewSecureLoggerAt(w io.Writer, level slog.Leveler, jsonLines bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if jsonLines {
		return slog.New(NewSecureHandler(slog.NewJSONHandler(w, opts)))
	}
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, opts)))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
