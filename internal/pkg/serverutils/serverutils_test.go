package serverutils

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"urbanmind-be/internal/entity"
	"urbanmind-be/internal/repository/memory"
	"urbanmind-be/pkg/conversation"
	"urbanmind-be/pkg/eventloop"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"fiber error", fiber.NewError(fiber.StatusUnprocessableEntity, "bad"), fiber.StatusUnprocessableEntity},
		{"empty input", conversation.ErrEmptyInput, fiber.StatusBadRequest},
		{"unknown method wrapped", fmt.Errorf("%w: %q", entity.ErrUnknownReasoningMethod, "x"), fiber.StatusBadRequest},
		{"in progress", conversation.ErrAnalysisInProgress, fiber.StatusConflict},
		{"missing session", fmt.Errorf("lookup: %w", memory.ErrSessionNotFound), fiber.StatusNotFound},
		{"closed session", eventloop.ErrClosed, fiber.StatusNotFound},
		{"timeout", context.DeadlineExceeded, fiber.StatusGatewayTimeout},
		{"other", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := StatusFor(tt.err)
			assert.Equal(t, tt.want, code)
			assert.NotEmpty(t, msg)
		})
	}
}

type sampleRequest struct {
	Text  string   `validate:"required"`
	Names []string `validate:"min=1"`
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(sampleRequest{Text: "hi", Names: []string{"a"}}))

	err := ValidateRequest(sampleRequest{})
	var fe *fiber.Error
	if assert.ErrorAs(t, err, &fe) {
		assert.Equal(t, fiber.StatusBadRequest, fe.Code)
		assert.Contains(t, fe.Message, "text is required")
		assert.Contains(t, fe.Message, "names must have at least 1 item(s)")
	}
}

func TestResponses(t *testing.T) {
	ok := SuccessResponse("done", 42)
	assert.True(t, ok.Success)
	assert.Equal(t, 200, ok.Code)
	assert.Equal(t, 42, ok.Data)

	bad := ErrorResponse(409, "busy")
	assert.False(t, bad.Success)
	assert.Equal(t, 409, bad.Code)
	assert.Nil(t, bad.Data)
}
