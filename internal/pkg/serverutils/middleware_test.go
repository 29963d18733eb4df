package serverutils

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iZhuoxx/AI-web/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JwtSecret:         "session-secret",
		CsrfSecret:        "csrf-secret",
		SessionCookieName: "session",
		CsrfCookieName:    "csrf_token",
		CsrfHeaderName:    "X-CSRF-Token",
		SessionTTL:        time.Hour,
		CsrfTTL:           time.Hour,
		CookieSameSite:    "Lax",
	}
}

// anyUser accepts every well-signed session.
var anyUser = ActiveUsersFunc(func(ctx context.Context, userID uuid.UUID) (bool, error) { return true, nil })

func newProtectedApp(cfg config.AuthConfig) *fiber.App {
	return newProtectedAppWith(cfg, anyUser)
}

func newProtectedAppWith(cfg config.AuthConfig, users ActiveUsers) *fiber.App {
	app := fiber.New()
	app.Use(SessionMiddleware(cfg, users), CsrfMiddleware(cfg))
	handler := func(ctx *fiber.Ctx) error {
		return ctx.JSON(SuccessResponse("ok", CurrentUserID(ctx).String()))
	}
	app.Get("/whoami", handler)
	app.Post("/whoami", handler)
	return app
}

func TestSessionMiddlewareRejectsMissingCookie(t *testing.T) {
	app := newProtectedApp(testAuthConfig())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSessionMiddlewareAcceptsCookie(t *testing.T) {
	cfg := testAuthConfig()
	app := newProtectedApp(cfg)
	userID := uuid.New()
	token, err := IssueSessionToken(cfg, userID, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSessionMiddlewareRejectsExpiredToken(t *testing.T) {
	cfg := testAuthConfig()
	app := newProtectedApp(cfg)
	token, err := IssueSessionToken(cfg, uuid.New(), time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSessionMiddlewareRejectsInactiveUsers(t *testing.T) {
	cfg := testAuthConfig()
	active, disabled, unknown := uuid.New(), uuid.New(), uuid.New()
	states := map[uuid.UUID]bool{active: true, disabled: false}
	app := newProtectedAppWith(cfg, ActiveUsersFunc(func(ctx context.Context, userID uuid.UUID) (bool, error) {
		return states[userID], nil
	}))

	cases := []struct {
		name   string
		user   uuid.UUID
		status int
	}{
		{"active", active, fiber.StatusOK},
		{"deactivated", disabled, fiber.StatusUnauthorized},
		{"never registered", unknown, fiber.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token, err := IssueSessionToken(cfg, tc.user, time.Now())
			require.NoError(t, err)
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			req.AddCookie(&http.Cookie{Name: "session", Value: token})
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestSessionMiddlewareLookupFailure(t *testing.T) {
	cfg := testAuthConfig()
	app := newProtectedAppWith(cfg, ActiveUsersFunc(func(ctx context.Context, userID uuid.UUID) (bool, error) {
		return false, errors.New("db down")
	}))
	token, err := IssueSessionToken(cfg, uuid.New(), time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestCsrfDoubleSubmit(t *testing.T) {
	cfg := testAuthConfig()
	app := newProtectedApp(cfg)
	session, err := IssueSessionToken(cfg, uuid.New(), time.Now())
	require.NoError(t, err)
	csrf, err := IssueCsrfToken(cfg, time.Now())
	require.NoError(t, err)
	other, err := IssueCsrfToken(cfg, time.Now())
	require.NoError(t, err)

	cases := []struct {
		name   string
		cookie string
		header string
		status int
	}{
		{"missing header", csrf, "", fiber.StatusForbidden},
		{"mismatch", csrf, other, fiber.StatusForbidden},
		{"forged", "not-a-token", "not-a-token", fiber.StatusForbidden},
		{"valid", csrf, csrf, fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/whoami", nil)
			req.AddCookie(&http.Cookie{Name: "session", Value: session})
			req.AddCookie(&http.Cookie{Name: "csrf_token", Value: tc.cookie})
			if tc.header != "" {
				req.Header.Set("X-CSRF-Token", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
