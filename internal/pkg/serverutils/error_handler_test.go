package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iZhuoxx/AI-web/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name string `json:"name" validate:"required"`
}

func doErr(t *testing.T, err error) (int, Response[any]) {
	t.Helper()
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(nil))
	app.Get("/", func(ctx *fiber.Ctx) error { return err })

	resp, testErr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, testErr)
	body, _ := io.ReadAll(resp.Body)
	var out Response[any]
	require.NoError(t, json.Unmarshal(body, &out))
	return resp.StatusCode, out
}

func TestErrorHandlerMapsAppErrors(t *testing.T) {
	id := uuid.New()

	status, body := doErr(t, apperror.ValidationIds("Folders not found", []uuid.UUID{id}))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.False(t, body.Success)
	assert.Equal(t, []string{id.String()}, body.Ids)

	status, body = doErr(t, apperror.NotFound("Notebook not found"))
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Notebook not found", body.Message)

	status, _ = doErr(t, apperror.Upstream("Title generation failed", errors.New("timeout")))
	assert.Equal(t, fiber.StatusBadGateway, status)

	status, body = doErr(t, apperror.Constraint(errors.New("duplicate key")))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", body.Message)
}

func TestErrorHandlerValidation(t *testing.T) {
	status, body := doErr(t, ValidateRequest(sampleRequest{}))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body.Message, "Name is required")
}

func TestErrorHandlerUnknownError(t *testing.T) {
	status, body := doErr(t, errors.New("db gone"))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", body.Message)
}
