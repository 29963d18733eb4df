package serverutils

import (
	"github.com/iZhuoxx/AI-web/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ParamUUID parses a path parameter. A malformed id cannot match any row.
func ParamUUID(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, apperror.NotFound("Resource not found")
	}
	return id, nil
}

// QueryUUID returns nil when the query parameter is absent.
func QueryUUID(ctx *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.Validation(name + " must be a valid id")
	}
	return &id, nil
}

// ParseBody decodes and validates a JSON body.
func ParseBody(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return apperror.Validation("Invalid request body")
	}
	return ValidateRequest(req)
}
