package serverutils

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

const InternalTokenHeader = "X-API-KEY"

// InternalTokenMiddleware requires the shared X-API-KEY when a token is configured.
// Without one, requests go through fallback instead, normally the CSRF check.
func InternalTokenMiddleware(token string, fallback fiber.Handler) fiber.Handler {
	if token == "" {
		return fallback
	}
	return func(ctx *fiber.Ctx) error {
		if subtle.ConstantTimeCompare([]byte(ctx.Get(InternalTokenHeader)), []byte(token)) != 1 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Unauthorized"))
		}
		return ctx.Next()
	}
}
