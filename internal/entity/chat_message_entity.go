package entity

import (
	"time"

	"github.com/google/uuid"
)

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// Message is one transcript entry. It is never mutated after creation.
type Message struct {
	Id        uuid.UUID   `json:"id"`
	Role      MessageRole `json:"role"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"created_at"`
}

// UploadedDocumentRef records the name of a file picked by the user.
// The file itself is never opened.
type UploadedDocumentRef struct {
	Name string `json:"name"`
}
