package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"insurance-assistant-be/pkg/generation"
	"insurance-assistant-be/pkg/retrieval"
)

// ErrorHandlerMiddleware maps errors escaping the handlers to
// role-tagged JSON responses. Pipeline failures get stable status codes
// so the rendering surface can show a short error message in place of
// an assistant answer.
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
		case errors.Is(err, retrieval.ErrRetrievalFailed):
			code = fiber.StatusBadGateway
			message = "Document search is unavailable"
		case errors.Is(err, generation.ErrGenerationFailed):
			code = fiber.StatusBadGateway
			message = "Answer generation failed"
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
