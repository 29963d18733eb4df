package serverutils

import (
	"context"
	"strings"
	"time"

	"github.com/iZhuoxx/AI-web/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const UserIDKey = "user_id"

type sessionClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// IssueSessionToken signs a session token for the user.
func IssueSessionToken(cfg config.AuthConfig, userID uuid.UUID, now time.Time) (string, error) {
	claims := sessionClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.SessionTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JwtSecret))
}

func parseSessionToken(cfg config.AuthConfig, tokenStr string) (uuid.UUID, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(claims.UserID)
}

// ActiveUsers reports whether the user behind a valid token may still act.
type ActiveUsers interface {
	IsActiveUser(ctx context.Context, userID uuid.UUID) (bool, error)
}

type ActiveUsersFunc func(ctx context.Context, userID uuid.UUID) (bool, error)

func (f ActiveUsersFunc) IsActiveUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	return f(ctx, userID)
}

// SessionMiddleware reads the session cookie, or a bearer token, and stores the user id in Locals.
// Tokens of deleted or deactivated users are rejected.
func SessionMiddleware(cfg config.AuthConfig, users ActiveUsers) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := ctx.Cookies(cfg.SessionCookieName)
		if tokenStr == "" {
			authHeader := ctx.Get(fiber.HeaderAuthorization)
			if strings.HasPrefix(authHeader, "Bearer ") {
				tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}
		if tokenStr == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Not authenticated"))
		}

		userID, err := parseSessionToken(cfg, tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid session"))
		}
		active, err := users.IsActiveUser(ctx.UserContext(), userID)
		if err != nil {
			return err
		}
		if !active {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid session"))
		}

		ctx.Locals(UserIDKey, userID.String())
		return ctx.Next()
	}
}

// CurrentUserID returns the id stored by SessionMiddleware.
func CurrentUserID(ctx *fiber.Ctx) uuid.UUID {
	userIdStr, _ := ctx.Locals(UserIDKey).(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}

func SetSessionCookie(ctx *fiber.Ctx, cfg config.AuthConfig, token string) {
	ctx.Cookie(&fiber.Cookie{
		Name:     cfg.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL.Seconds()),
		HTTPOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: cfg.CookieSameSite,
	})
}

func ClearSessionCookie(ctx *fiber.Ctx, cfg config.AuthConfig) {
	ctx.Cookie(&fiber.Cookie{
		Name:     cfg.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: cfg.CookieSameSite,
	})
}
