package serverutils

import (
	"errors"

	"github.com/iZhuoxx/AI-web/internal/pkg/apperror"
	"github.com/iZhuoxx/AI-web/internal/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into the JSON envelope.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return WriteError(ctx, log, err)
	}
}

// FiberErrorHandler is installed as fiber.Config.ErrorHandler for errors raised outside the chain.
func FiberErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		return WriteError(ctx, log, err)
	}
}

func WriteError(ctx *fiber.Ctx, log logger.ILogger, err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		status := appErr.Status()
		if status >= fiber.StatusInternalServerError && log != nil {
			log.Error("HTTP", appErr.Error(), map[string]interface{}{
				"path":   ctx.Path(),
				"method": ctx.Method(),
				"kind":   string(appErr.Kind),
			})
		}
		res := ErrorResponse(status, appErr.Message)
		res.Ids = appErr.Ids
		if appErr.Kind == apperror.KindConstraint {
			res.Message = "Internal server error"
		}
		return ctx.Status(status).JSON(res)
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(fiber.StatusBadRequest, formatValidationErrors(validationErrs)))
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
	}

	if log != nil {
		log.Error("HTTP", "Unhandled error", map[string]interface{}{
			"path":   ctx.Path(),
			"method": ctx.Method(),
			"error":  err.Error(),
		})
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
}
