package serverutils

import (
	"errors"

	"github.com/RakhimovY/AIChat/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns service errors escaping a handler into JSON
// responses with the right status. Handlers that already wrote a response
// are untouched.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			message = fiberErr.Message
		case errors.Is(err, service.ErrUserNotFound),
			errors.Is(err, service.ErrChatNotFound),
			errors.Is(err, service.ErrDocumentNotFound):
			code = fiber.StatusNotFound
			message = err.Error()
		case errors.Is(err, service.ErrEmailTaken):
			code = fiber.StatusConflict
			message = err.Error()
		case errors.Is(err, service.ErrInvalidCredentials),
			errors.Is(err, service.ErrInvalidToken):
			code = fiber.StatusUnauthorized
			message = err.Error()
		case errors.Is(err, service.ErrForbidden):
			code = fiber.StatusForbidden
			message = err.Error()
		}

		return ctx.Status(code).JSON(fiber.Map{
			"success": false,
			"code":    code,
			"message": message,
		})
	}
}
