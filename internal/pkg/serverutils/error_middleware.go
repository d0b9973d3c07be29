package serverutils

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"urbanmind-be/internal/entity"
	"urbanmind-be/internal/repository/memory"
	"urbanmind-be/pkg/conversation"
	"urbanmind-be/pkg/eventloop"
)

// ErrorHandlerMiddleware turns errors returned by handlers into the JSON
// envelope with a matching status code.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code, message := StatusFor(err)
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}

// StatusFor maps an error to an HTTP status and a client-facing message.
func StatusFor(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case errors.Is(err, conversation.ErrEmptyInput),
		errors.Is(err, entity.ErrUnknownReasoningMethod):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, conversation.ErrAnalysisInProgress):
		return fiber.StatusConflict, err.Error()
	case errors.Is(err, memory.ErrSessionNotFound),
		errors.Is(err, eventloop.ErrClosed):
		return fiber.StatusNotFound, memory.ErrSessionNotFound.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout, err.Error()
	default:
		return fiber.StatusInternalServerError, err.Error()
	}
}
