package serverutils

import (
	"errors"

	"hdt-be/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}

	switch apperr.KindOf(err) {
	case apperr.ErrValidation:
		return fiber.StatusBadRequest
	case apperr.ErrSessionNotFound, apperr.ErrProfileNotFound, apperr.ErrTaskNotFound:
		return fiber.StatusNotFound
	case apperr.ErrSessionNotConfigured, apperr.ErrIllegalTransition:
		return fiber.StatusConflict
	case apperr.ErrBackendUnavailable:
		return fiber.StatusServiceUnavailable
	case apperr.ErrModelCallFailed:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandlerMiddleware renders errors returned by later handlers as
// ErrorResponse bodies. Internal errors are not echoed to the client.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := StatusFor(err)
		message := apperr.Message(err)
		if code == fiber.StatusInternalServerError {
			message = "Internal server error"
		}
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
