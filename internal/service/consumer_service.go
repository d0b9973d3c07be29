package service

import (
	"context"
	"encoding/json"
	"time"

	"urbanmind-be/internal/mapper"
	"urbanmind-be/internal/pkg/logger"
	"urbanmind-be/pkg/conversation"
	"urbanmind-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionBroadcaster pushes a serialized message to everyone watching a session.
type SessionBroadcaster interface {
	Publish(ctx context.Context, sessionID uuid.UUID, data []byte)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService relays controller changes from the in-process bus to
// websocket watchers and to the domain event bus.
type consumerService struct {
	subscriber  message.Subscriber
	topicName   string
	broadcaster SessionBroadcaster
	eventPub    events.Publisher
	mapper      *mapper.ConversationMapper
	logger      logger.ILogger

	// last version pushed per session; the in-process bus does not keep order
	versions *cache.Cache
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	broadcaster SessionBroadcaster,
	eventPub events.Publisher,
	log logger.ILogger,
) IConsumerService {
	if eventPub == nil {
		eventPub = events.NopPublisher{}
	}
	return &consumerService{
		subscriber:  subscriber,
		topicName:   topicName,
		broadcaster: broadcaster,
		eventPub:    eventPub,
		mapper:      mapper.NewConversationMapper(),
		logger:      log,
		versions:    cache.New(2*time.Hour, 10*time.Minute),
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var change conversation.Change
	if err := json.Unmarshal(msg.Payload, &change); err != nil {
		cs.logger.Error("Relay", "Failed to unmarshal change", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}
	msg.Ack()

	sessionID := change.Snapshot.SessionId
	if cs.isStale(sessionID, change.Snapshot.Version) {
		cs.logger.Debug("Relay", "Skipping stale snapshot for watchers", map[string]interface{}{
			"session_id": sessionID.String(),
			"version":    change.Snapshot.Version,
		})
	} else {
		data, err := json.Marshal(cs.mapper.ChangeToEventMessage(change))
		if err == nil {
			cs.broadcaster.Publish(ctx, sessionID, data)
		}
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := cs.eventPub.Publish(pubCtx, ChangeEvent(change)); err != nil {
		cs.logger.Warn("Relay", "Failed to publish domain event", map[string]interface{}{
			"session_id": sessionID.String(),
			"kind":       string(change.Kind),
			"error":      err.Error(),
		})
	}
}

// isStale reports whether a newer snapshot of the session was already
// pushed, and records version otherwise.
func (cs *consumerService) isStale(sessionID uuid.UUID, version uint64) bool {
	key := sessionID.String()
	if last, ok := cs.versions.Get(key); ok && last.(uint64) >= version {
		return true
	}
	cs.versions.SetDefault(key, version)
	return false
}

// ChangeEvent converts a controller change to a domain event of type
// "conversation.<kind>".
func ChangeEvent(change conversation.Change) events.Event {
	snap := change.Snapshot
	data := map[string]interface{}{
		"session_id":       snap.SessionId.String(),
		"version":          snap.Version,
		"reasoning_method": string(snap.ReasoningMethod),
		"running":          snap.Analysis.Running,
		"messages":         len(snap.Transcript),
		"documents":        len(snap.UploadedDocuments),
		"candidates":       len(snap.Analysis.LastCandidates),
	}
	if snap.Analysis.LastError != "" {
		data["error"] = snap.Analysis.LastError
	}
	if last, ok := snap.LastMessage(); ok {
		data["last_message_id"] = last.Id.String()
		data["last_message_role"] = string(last.Role)
	}

	return events.BaseEvent{
		Type:       "conversation." + string(change.Kind),
		Data:       data,
		OccurredAt: time.Now(),
	}
}
