package conversation

import (
	"github.com/google/uuid"

	"urbanmind-be/internal/entity"
)

type ChangeKind string

const (
	ChangeMessageSubmitted       ChangeKind = "message_submitted"
	ChangeAnalysisCompleted      ChangeKind = "analysis_completed"
	ChangeAnalysisFailed         ChangeKind = "analysis_failed"
	ChangeReasoningMethodChanged ChangeKind = "reasoning_method_changed"
	ChangeDocumentsRecorded      ChangeKind = "documents_recorded"
)

// Snapshot is a read-only copy of a controller's observable state.
// Version increases by one with every change.
type Snapshot struct {
	SessionId         uuid.UUID                    `json:"session_id"`
	Version           uint64                       `json:"version"`
	Transcript        []entity.Message             `json:"transcript"`
	ReasoningMethod   entity.ReasoningMethod       `json:"reasoning_method"`
	UploadedDocuments []entity.UploadedDocumentRef `json:"uploaded_documents"`
	Analysis          entity.AnalysisState         `json:"analysis"`
}

// LastMessage returns the newest transcript entry.
func (s Snapshot) LastMessage() (entity.Message, bool) {
	if len(s.Transcript) == 0 {
		return entity.Message{}, false
	}
	return s.Transcript[len(s.Transcript)-1], true
}

type Change struct {
	Kind     ChangeKind `json:"kind"`
	Snapshot Snapshot   `json:"snapshot"`
}

// Notifier receives every change. Notify runs on the controller's loop,
// so it must return quickly and must not call back into the controller.
type Notifier interface {
	Notify(change Change)
}

type NotifierFunc func(change Change)

func (f NotifierFunc) Notify(change Change) {
	f(change)
}

type nopNotifier struct{}

func (nopNotifier) Notify(Change) {}
