package dto

import (
	"time"

	"github.com/google/uuid"
)

type ReasoningMethodResponse struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

type MessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type LocationCandidateResponse struct {
	Id               string  `json:"id"`
	Address          string  `json:"address"`
	AreaAcres        float64 `json:"area_acres"`
	SuitabilityScore int     `json:"suitability_score"`
	Rationale        string  `json:"rationale"`
}

type AnalysisResponse struct {
	Running    bool                        `json:"running"`
	Narrative  *string                     `json:"narrative"`
	Candidates []LocationCandidateResponse `json:"candidates"`
	Error      string                      `json:"error,omitempty"`
}

// SessionResponse is the full observable state of one conversation.
type SessionResponse struct {
	Id                uuid.UUID               `json:"id"`
	Version           uint64                  `json:"version"`
	ReasoningMethod   ReasoningMethodResponse `json:"reasoning_method"`
	Messages          []MessageResponse       `json:"messages"`
	UploadedDocuments []string                `json:"uploaded_documents"`
	Analysis          AnalysisResponse        `json:"analysis"`
}

type SendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

type SendMessageResponse struct {
	SessionId uuid.UUID       `json:"session_id"`
	Message   MessageResponse `json:"message"`
}

type SetReasoningMethodRequest struct {
	Method string `json:"method" validate:"required"`
}

type RecordDocumentsRequest struct {
	Names []string `json:"names" validate:"required,min=1"`
}

// SessionEventMessage is pushed to websocket watchers after every change.
type SessionEventMessage struct {
	Type string          `json:"type"`
	Kind string          `json:"kind,omitempty"`
	Data SessionResponse `json:"data"`
}
