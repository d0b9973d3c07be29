package service

import (
	"context"

	"urbanmind-be/internal/pkg/logger"
	"urbanmind-be/pkg/events"
	pktNats "urbanmind-be/pkg/nats"
)

const AuditDurableName = "urbanmind-audit"

// EventSubscriber is satisfied by the NATS subscriber.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error
}

type IAuditService interface {
	Start(ctx context.Context) error
}

// auditService writes every domain event on the bus to the structured log.
type auditService struct {
	subscriber EventSubscriber
	logger     logger.ILogger
}

func NewAuditService(subscriber EventSubscriber, log logger.ILogger) IAuditService {
	return &auditService{subscriber: subscriber, logger: log}
}

func (s *auditService) Start(ctx context.Context) error {
	return s.subscriber.Subscribe(ctx, pktNats.SubjectPrefix+".>", AuditDurableName, s.handle)
}

func (s *auditService) handle(_ context.Context, event events.Event) error {
	details := make(map[string]interface{}, len(event.Payload())+2)
	for k, v := range event.Payload() {
		details[k] = v
	}
	details["event_type"] = event.EventType()
	details["occurred_at"] = event.Timestamp()

	s.logger.Info("Audit", "Domain event", details)
	return nil
}
