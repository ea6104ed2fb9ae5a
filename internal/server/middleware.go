package server

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"golang.org/x/crypto/bcrypt"
)

// requestLogger logs one line per request. The matched route pattern is
// logged rather than the raw path so candidate passwords stay out of logs.
func requestLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()
		if err != nil {
			// Run the error handler now so the logged status is the real one.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		level := slog.LevelInfo
		if status >= fiber.StatusInternalServerError {
			level = slog.LevelError
		}

		logger.Log(c.UserContext(), level, "request",
			"method", c.Method(),
			"route", c.Route().Path,
			"status", status,
			"duration", time.Since(start),
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
			"ip", c.IP(),
		)
		return nil
	}
}

// adminOnly requires "Authorization: Bearer <token>" whose bcrypt hash is
// hash. A nil hash disables the check.
func adminOnly(hash []byte, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if len(hash) == 0 {
			return c.Next()
		}

		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok || bcrypt.CompareHashAndPassword(hash, []byte(token)) != nil {
			logger.Warn("rejected admin request", "route", c.Route().Path, "ip", c.IP())
			c.Set(fiber.HeaderWWWAuthenticate, `Bearer realm="challenges"`)
			return fiber.NewError(fiber.StatusUnauthorized, "admin token required")
		}
		return c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// compressPasswords compresses the 1.6 MB password list when the client
// accepts gzip, deflate or brotli. Random alphanumerics only shrink at the
// best level; faster levels fall back to stored blocks and grow the body.
func compressPasswords() fiber.Handler {
	return compress.New(compress.Config{Level: compress.LevelBestCompression})
}
