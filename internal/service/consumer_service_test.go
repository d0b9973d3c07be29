package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"urbanmind-be/internal/dto"
	"urbanmind-be/internal/pkg/logger"
	"urbanmind-be/pkg/conversation"
	"urbanmind-be/pkg/events"
	pktNats "urbanmind-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBroadcaster struct {
	mu       sync.Mutex
	messages []dto.SessionEventMessage
}

func (b *recordingBroadcaster) Publish(_ context.Context, _ uuid.UUID, data []byte) {
	var msg dto.SessionEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, msg)
}

func (b *recordingBroadcaster) last() (dto.SessionEventMessage, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.messages) == 0 {
		return dto.SessionEventMessage{}, 0
	}
	return b.messages[len(b.messages)-1], len(b.messages)
}

func TestRelayPushesChangesToWatchersAndBus(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, watermill.NopLogger{})
	defer pubSub.Close()

	broadcaster := &recordingBroadcaster{}
	bus := &recordingPublisher{}
	consumer := NewConsumerService(pubSub, ConversationChangedTopic, broadcaster, bus, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	feed := NewChangeFeed(pubSub, ConversationChangedTopic, logger.NewNopLogger())
	svc := newTestService(t, feed, nil)

	created, err := svc.CreateSession(ctx)
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, created.Id, &dto.SendMessageRequest{Text: "Find a site"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		last, _ := broadcaster.last()
		return last.Data.Version == 2
	}, 2*time.Second, 5*time.Millisecond)

	last, _ := broadcaster.last()
	assert.Equal(t, "snapshot", last.Type)
	assert.Equal(t, string(conversation.ChangeAnalysisCompleted), last.Kind)
	assert.Equal(t, created.Id, last.Data.Id)
	assert.Len(t, last.Data.Analysis.Candidates, 3)

	require.Eventually(t, func() bool { return len(bus.types()) == 2 }, 2*time.Second, 5*time.Millisecond)
	assert.ElementsMatch(t, []string{"conversation.message_submitted", "conversation.analysis_completed"}, bus.types())
}

func TestRelayDropsStaleSnapshots(t *testing.T) {
	cs := NewConsumerService(nil, ConversationChangedTopic, &recordingBroadcaster{}, nil, logger.NewNopLogger()).(*consumerService)
	sid := uuid.New()

	assert.False(t, cs.isStale(sid, 2))
	assert.True(t, cs.isStale(sid, 1))
	assert.True(t, cs.isStale(sid, 2))
	assert.False(t, cs.isStale(sid, 3))
	assert.False(t, cs.isStale(uuid.New(), 1))
}

func TestChangeEvent(t *testing.T) {
	sid := uuid.New()
	ev := ChangeEvent(conversation.Change{
		Kind: conversation.ChangeAnalysisFailed,
		Snapshot: conversation.Snapshot{
			SessionId:       sid,
			Version:         7,
			ReasoningMethod: "tree-of-thought",
		},
	})

	assert.Equal(t, "conversation.analysis_failed", ev.EventType())
	assert.Equal(t, sid.String(), ev.Payload()["session_id"])
	assert.Equal(t, uint64(7), ev.Payload()["version"])
	assert.NotContains(t, ev.Payload(), "last_message_id")
	assert.Equal(t, "urbanmind.conversation.analysis_failed", pktNats.Subject(ev.EventType()))
}

type fakeSubscriber struct {
	subject string
	durable string
	handler pktNats.EventHandler
}

func (f *fakeSubscriber) Subscribe(_ context.Context, subject, durableName string, handler pktNats.EventHandler) error {
	f.subject, f.durable, f.handler = subject, durableName, handler
	return nil
}

func TestAuditServiceSubscribesToEverything(t *testing.T) {
	sub := &fakeSubscriber{}
	svc := NewAuditService(sub, logger.NewNopLogger())

	require.NoError(t, svc.Start(context.Background()))
	assert.Equal(t, "urbanmind.>", sub.subject)
	assert.Equal(t, AuditDurableName, sub.durable)

	require.NotNil(t, sub.handler)
	assert.NoError(t, sub.handler(context.Background(), events.BaseEvent{
		Type:       EventSessionCreated,
		Data:       map[string]interface{}{"session_id": "abc"},
		OccurredAt: time.Now(),
	}))
}
