package auth

import (
	"github.com/gofiber/fiber/v2"
)

// HeaderName is the header the sending instance puts the shared secret in.
const HeaderName = "X-Sync-Key"

// QueryName is the query/body parameter fallback for the shared secret.
const QueryName = "sync_key"

// Config holds the middleware configuration.
type Config struct {
	// SyncKey is the configured shared secret. An empty value rejects
	// every request: a target without a key cannot receive data.
	SyncKey string
}

// KeyFromRequest extracts the caller-supplied secret from the request.
// The header takes precedence over the query parameter.
func KeyFromRequest(c *fiber.Ctx) string {
	if key := c.Get(HeaderName); key != "" {
		return key
	}
	return c.Query(QueryName)
}

// Valid reports whether the caller-supplied secret matches the configured one.
func Valid(c *fiber.Ctx, cfg Config) bool {
	if cfg.SyncKey == "" {
		return false
	}
	return KeyFromRequest(c) == cfg.SyncKey
}

// New creates a middleware that rejects requests without a valid shared
// secret. The rejection body is generic; no detail about the configured
// key is leaked.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !Valid(c, cfg) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
			})
		}
		return c.Next()
	}
}
