package serverutils

import (
	"errors"

	"github.com/CodeTanzania/emis-feature/internal/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware translates the error taxonomy to HTTP statuses:
// validation 400, not found 404, authorization 401, everything else 500.
// Controllers just return errors; no status mapping lives in them.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorBody{Message: fiberErr.Message})
		}

		var missing *apperror.MissingRequiredFieldError
		if errors.As(err, &missing) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorBody{
				Message: missing.Error(),
				Field:   missing.Field,
			})
		}

		var invalid *apperror.InvalidEnumValueError
		if errors.As(err, &invalid) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorBody{
				Message: invalid.Error(),
				Field:   invalid.Field,
				Value:   invalid.Value,
			})
		}

		switch {
		case errors.Is(err, apperror.ErrValidation):
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorBody{Message: err.Error()})
		case errors.Is(err, apperror.ErrNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorBody{Message: err.Error()})
		case errors.Is(err, apperror.ErrAuthorization):
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorBody{Message: err.Error()})
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorBody{Message: "Internal server error"})
		}
	}
}
