package serverutils

import (
	"crypto/subtle"
	"time"

	"github.com/iZhuoxx/AI-web/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// IssueCsrfToken returns a signed, time-limited random token.
func IssueCsrfToken(cfg config.AuthConfig, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(cfg.CsrfTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.CsrfSecret))
}

func validCsrfToken(cfg config.AuthConfig, token string) bool {
	_, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.CsrfSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	return err == nil
}

// SetCsrfCookie is readable by scripts so the client can echo it in the header.
func SetCsrfCookie(ctx *fiber.Ctx, cfg config.AuthConfig, token string) {
	ctx.Cookie(&fiber.Cookie{
		Name:     cfg.CsrfCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.CsrfTTL.Seconds()),
		HTTPOnly: false,
		Secure:   cfg.CookieSecure,
		SameSite: cfg.CookieSameSite,
	})
}

func isSafeMethod(method string) bool {
	switch method {
	case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions, fiber.MethodTrace:
		return true
	}
	return false
}

// CsrfMiddleware enforces the double-submit check on unsafe methods.
func CsrfMiddleware(cfg config.AuthConfig) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if isSafeMethod(ctx.Method()) {
			return ctx.Next()
		}
		cookie := ctx.Cookies(cfg.CsrfCookieName)
		header := ctx.Get(cfg.CsrfHeaderName)
		if cookie == "" || header == "" ||
			subtle.ConstantTimeCompare([]byte(cookie), []byte(header)) != 1 ||
			!validCsrfToken(cfg, header) {
			return ctx.Status(fiber.StatusForbidden).JSON(ErrorResponse(fiber.StatusForbidden, "CSRF token missing or invalid"))
		}
		return ctx.Next()
	}
}
