package mapper

import (
	"urbanmind-be/internal/dto"
	"urbanmind-be/internal/entity"
	"urbanmind-be/pkg/conversation"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

func (m *ConversationMapper) SnapshotToResponse(s conversation.Snapshot) *dto.SessionResponse {
	messages := make([]dto.MessageResponse, 0, len(s.Transcript))
	for _, msg := range s.Transcript {
		messages = append(messages, m.MessageToResponse(msg))
	}

	docs := make([]string, 0, len(s.UploadedDocuments))
	for _, d := range s.UploadedDocuments {
		docs = append(docs, d.Name)
	}

	candidates := make([]dto.LocationCandidateResponse, 0, len(s.Analysis.LastCandidates))
	for _, c := range s.Analysis.LastCandidates {
		candidates = append(candidates, dto.LocationCandidateResponse{
			Id:               c.Id,
			Address:          c.Address,
			AreaAcres:        c.AreaAcres,
			SuitabilityScore: c.SuitabilityScore,
			Rationale:        c.Rationale,
		})
	}

	return &dto.SessionResponse{
		Id:                s.SessionId,
		Version:           s.Version,
		ReasoningMethod:   m.ReasoningMethodToResponse(s.ReasoningMethod),
		Messages:          messages,
		UploadedDocuments: docs,
		Analysis: dto.AnalysisResponse{
			Running:    s.Analysis.Running,
			Narrative:  s.Analysis.LastNarrative,
			Candidates: candidates,
			Error:      s.Analysis.LastError,
		},
	}
}

func (m *ConversationMapper) MessageToResponse(msg entity.Message) dto.MessageResponse {
	return dto.MessageResponse{
		Id:        msg.Id,
		Role:      string(msg.Role),
		Text:      msg.Text,
		CreatedAt: msg.CreatedAt,
	}
}

func (m *ConversationMapper) ReasoningMethodToResponse(method entity.ReasoningMethod) dto.ReasoningMethodResponse {
	info, ok := method.Info()
	if !ok {
		return dto.ReasoningMethodResponse{Value: string(method), Label: method.Label()}
	}
	return dto.ReasoningMethodResponse{
		Value:       string(info.Method),
		Label:       info.Label,
		Description: info.Description,
	}
}

func (m *ConversationMapper) ReasoningMethodsToResponse(infos []entity.ReasoningMethodInfo) []dto.ReasoningMethodResponse {
	out := make([]dto.ReasoningMethodResponse, 0, len(infos))
	for _, info := range infos {
		out = append(out, m.ReasoningMethodToResponse(info.Method))
	}
	return out
}

func (m *ConversationMapper) ChangeToEventMessage(change conversation.Change) dto.SessionEventMessage {
	return dto.SessionEventMessage{
		Type: "snapshot",
		Kind: string(change.Kind),
		Data: *m.SnapshotToResponse(change.Snapshot),
	}
}
