package service

import (
	"context"
	"time"

	"urbanmind-be/internal/constant"
	"urbanmind-be/internal/dto"
	"urbanmind-be/internal/entity"
	"urbanmind-be/internal/mapper"
	"urbanmind-be/internal/pkg/logger"
	"urbanmind-be/internal/repository/memory"
	"urbanmind-be/pkg/analysis"
	"urbanmind-be/pkg/conversation"
	"urbanmind-be/pkg/events"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var ErrSessionNotFound = memory.ErrSessionNotFound

const (
	EventSessionCreated = "session.created"
	EventSessionClosed  = "session.closed"
)

var tracer = otel.Tracer("urbanmind/service/conversation")

type IConversationService interface {
	CreateSession(ctx context.Context) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, sessionId uuid.UUID) (*dto.SessionResponse, error)
	DeleteSession(ctx context.Context, sessionId uuid.UUID) error
	SendMessage(ctx context.Context, sessionId uuid.UUID, request *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	SetReasoningMethod(ctx context.Context, sessionId uuid.UUID, request *dto.SetReasoningMethodRequest) (*dto.SessionResponse, error)
	RecordDocuments(ctx context.Context, sessionId uuid.UUID, names []string) (*dto.SessionResponse, error)
	GetReasoningMethods(ctx context.Context) []dto.ReasoningMethodResponse
	GetRegionProfile(ctx context.Context) entity.RegionProfile
	Shutdown()
}

type conversationService struct {
	sessionRepo *memory.SessionRepository
	analyzer    analysis.Analyzer
	notifier    conversation.Notifier
	eventPub    events.Publisher
	mapper      *mapper.ConversationMapper
	logger      logger.ILogger
}

func NewConversationService(
	sessionRepo *memory.SessionRepository,
	analyzer analysis.Analyzer,
	notifier conversation.Notifier,
	eventPub events.Publisher,
	log logger.ILogger,
) IConversationService {
	if eventPub == nil {
		eventPub = events.NopPublisher{}
	}
	return &conversationService{
		sessionRepo: sessionRepo,
		analyzer:    analyzer,
		notifier:    notifier,
		eventPub:    eventPub,
		mapper:      mapper.NewConversationMapper(),
		logger:      log,
	}
}

func (s *conversationService) CreateSession(ctx context.Context) (*dto.SessionResponse, error) {
	ctrl := conversation.NewController(
		conversation.WithAnalyzer(s.analyzer),
		conversation.WithNotifier(s.notifier),
		conversation.WithLogger(s.logger),
	)
	s.sessionRepo.Save(ctrl)

	snap, err := ctrl.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Conversation", "Session created", map[string]interface{}{"session_id": ctrl.ID().String()})
	s.publishSessionEvent(ctx, EventSessionCreated, ctrl.ID())

	return s.mapper.SnapshotToResponse(snap), nil
}

func (s *conversationService) GetSession(ctx context.Context, sessionId uuid.UUID) (*dto.SessionResponse, error) {
	ctrl, err := s.sessionRepo.Get(sessionId)
	if err != nil {
		return nil, err
	}

	snap, err := ctrl.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.mapper.SnapshotToResponse(snap), nil
}

func (s *conversationService) DeleteSession(ctx context.Context, sessionId uuid.UUID) error {
	if err := s.sessionRepo.Delete(sessionId); err != nil {
		return err
	}

	s.logger.Info("Conversation", "Session closed", map[string]interface{}{"session_id": sessionId.String()})
	s.publishSessionEvent(ctx, EventSessionClosed, sessionId)
	return nil
}

func (s *conversationService) SendMessage(ctx context.Context, sessionId uuid.UUID, request *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	ctx, span := tracer.Start(ctx, "ConversationService.SendMessage", trace.WithAttributes(
		attribute.String("session.id", sessionId.String()),
		attribute.Int("message.length", len(request.Text)),
	))
	defer span.End()

	ctrl, err := s.sessionRepo.Get(sessionId)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	msg, err := ctrl.SubmitMessage(ctx, request.Text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Debug("Conversation", "Message rejected", map[string]interface{}{
			"session_id": sessionId.String(),
			"error":      err.Error(),
		})
		return nil, err
	}

	return &dto.SendMessageResponse{
		SessionId: sessionId,
		Message:   s.mapper.MessageToResponse(msg),
	}, nil
}

func (s *conversationService) SetReasoningMethod(ctx context.Context, sessionId uuid.UUID, request *dto.SetReasoningMethodRequest) (*dto.SessionResponse, error) {
	method, err := entity.ParseReasoningMethod(request.Method)
	if err != nil {
		return nil, err
	}

	ctrl, err := s.sessionRepo.Get(sessionId)
	if err != nil {
		return nil, err
	}
	if err := ctrl.SetReasoningMethod(ctx, method); err != nil {
		return nil, err
	}

	return s.snapshot(ctx, ctrl)
}

func (s *conversationService) RecordDocuments(ctx context.Context, sessionId uuid.UUID, names []string) (*dto.SessionResponse, error) {
	ctrl, err := s.sessionRepo.Get(sessionId)
	if err != nil {
		return nil, err
	}
	if err := ctrl.RecordUploadedDocuments(ctx, names); err != nil {
		return nil, err
	}

	s.logger.Info("Conversation", "Documents recorded", map[string]interface{}{
		"session_id": sessionId.String(),
		"count":      len(names),
	})
	return s.snapshot(ctx, ctrl)
}

func (s *conversationService) GetReasoningMethods(ctx context.Context) []dto.ReasoningMethodResponse {
	return s.mapper.ReasoningMethodsToResponse(entity.ReasoningMethods())
}

func (s *conversationService) GetRegionProfile(ctx context.Context) entity.RegionProfile {
	return constant.WaterlooRegionProfile()
}

// Shutdown closes every live session.
func (s *conversationService) Shutdown() {
	s.sessionRepo.Flush()
}

func (s *conversationService) snapshot(ctx context.Context, ctrl *conversation.Controller) (*dto.SessionResponse, error) {
	snap, err := ctrl.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.mapper.SnapshotToResponse(snap), nil
}

func (s *conversationService) publishSessionEvent(ctx context.Context, eventType string, sessionId uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	err := s.eventPub.Publish(ctx, events.BaseEvent{
		Type:       eventType,
		Data:       map[string]interface{}{"session_id": sessionId.String()},
		OccurredAt: time.Now(),
	})
	if err != nil {
		s.logger.Warn("Conversation", "Failed to publish session event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}
