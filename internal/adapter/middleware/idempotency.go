package middleware

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// ResponseCache stores responses keyed by Idempotency-Key so a retried
// mutation replays the original result instead of settling twice.
type ResponseCache interface {
	GetCachedResponse(ctx context.Context, key string) (status int, body []byte, ok bool, err error)
	SaveResponse(ctx context.Context, key string, status int, body []byte) error
}

// Idempotency replays cached responses for repeated Idempotency-Key
// headers. Requests without the header pass straight through.
func Idempotency(cache ResponseCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Header memory is reused between requests; the cache keeps the
		// key, so copy it.
		key := utils.CopyString(c.Get("Idempotency-Key"))
		if key == "" {
			return c.Next()
		}

		status, body, ok, err := cache.GetCachedResponse(c.Context(), key)
		if err != nil {
			slog.Error("idempotency lookup failed", "error", err, "key", key)
		}
		if ok {
			slog.Info("idempotency hit, returning cached response", "key", key)
			c.Set("X-Idempotency-Hit", "true")
			c.Set("Content-Type", "application/json")
			return c.Status(status).Send(body)
		}

		if err := c.Next(); err != nil {
			return err
		}

		resStatus := c.Response().StatusCode()
		if resStatus < 200 || resStatus >= 300 {
			// Failures stay retryable under the same key.
			return nil
		}
		resBody := append([]byte(nil), c.Response().Body()...)

		if err := cache.SaveResponse(c.Context(), key, resStatus, resBody); err != nil {
			slog.Error("failed to save idempotency key", "error", err, "key", key)
		}
		return nil
	}
}
