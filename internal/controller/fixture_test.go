package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iZhuoxx/AI-web/internal/config"
	"github.com/iZhuoxx/AI-web/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JwtSecret:          "session-secret",
		CsrfSecret:         "csrf-secret",
		SessionCookieName:  "session",
		CsrfCookieName:     "csrf_token",
		CsrfHeaderName:     "X-CSRF-Token",
		SessionTTL:         time.Hour,
		CsrfTTL:            time.Hour,
		CookieSameSite:     "Lax",
		InternalAudioToken: "internal",
	}
}

// harness mounts routes the way the server does and signs requests as one user.
type harness struct {
	t       *testing.T
	app     *fiber.App
	cfg     config.AuthConfig
	userID  uuid.UUID
	session string
	csrf    string
}

type mountFunc func(api fiber.Router, session, csrf fiber.Handler)

// newHarness signs requests as a fresh user that the session check treats as the only active one.
func newHarness(t *testing.T, mount mountFunc) *harness {
	userID := uuid.New()
	only := serverutils.ActiveUsersFunc(func(ctx context.Context, id uuid.UUID) (bool, error) {
		return id == userID, nil
	})
	return newHarnessFor(t, userID, only, mount)
}

func newHarnessFor(t *testing.T, userID uuid.UUID, users serverutils.ActiveUsers, mount mountFunc) *harness {
	t.Helper()
	cfg := testAuthConfig()
	app := fiber.New(fiber.Config{ErrorHandler: serverutils.FiberErrorHandler(nil)})
	app.Use(serverutils.ErrorHandlerMiddleware(nil))
	mount(app.Group("/api"), serverutils.SessionMiddleware(cfg, users), serverutils.CsrfMiddleware(cfg))

	session, err := serverutils.IssueSessionToken(cfg, userID, time.Now())
	require.NoError(t, err)
	csrf, err := serverutils.IssueCsrfToken(cfg, time.Now())
	require.NoError(t, err)

	return &harness{t: t, app: app, cfg: cfg, userID: userID, session: session, csrf: csrf}
}

func (h *harness) request(method, path string, body interface{}) *http.Request {
	h.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return req
}

func (h *harness) authed(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: h.cfg.SessionCookieName, Value: h.session})
	req.AddCookie(&http.Cookie{Name: h.cfg.CsrfCookieName, Value: h.csrf})
	req.Header.Set(h.cfg.CsrfHeaderName, h.csrf)
	return req
}

func (h *harness) send(req *http.Request) (*http.Response, serverutils.Response[json.RawMessage]) {
	h.t.Helper()
	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)

	var out serverutils.Response[json.RawMessage]
	raw, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	if len(raw) > 0 {
		require.NoError(h.t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

// do sends an authenticated request.
func (h *harness) do(method, path string, body interface{}) (*http.Response, serverutils.Response[json.RawMessage]) {
	h.t.Helper()
	return h.send(h.authed(h.request(method, path, body)))
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}
