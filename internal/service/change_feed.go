package service

import (
	"encoding/json"
	"strconv"

	"urbanmind-be/internal/pkg/logger"
	"urbanmind-be/pkg/conversation"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// ConversationChangedTopic carries every controller change inside the process.
const ConversationChangedTopic = "conversation.changed"

// changeFeed is the Notifier every controller reports to. It only hands the
// change to the in-process bus; fan-out happens in the relay consumer.
type changeFeed struct {
	publisher message.Publisher
	topic     string
	logger    logger.ILogger
}

func NewChangeFeed(publisher message.Publisher, topic string, log logger.ILogger) conversation.Notifier {
	return &changeFeed{publisher: publisher, topic: topic, logger: log}
}

func (f *changeFeed) Notify(change conversation.Change) {
	payload, err := json.Marshal(change)
	if err != nil {
		f.logger.Error("ChangeFeed", "Failed to marshal change", map[string]interface{}{"error": err.Error()})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("session_id", change.Snapshot.SessionId.String())
	msg.Metadata.Set("kind", string(change.Kind))
	msg.Metadata.Set("version", strconv.FormatUint(change.Snapshot.Version, 10))

	if err := f.publisher.Publish(f.topic, msg); err != nil {
		f.logger.Error("ChangeFeed", "Failed to publish change", map[string]interface{}{
			"session_id": change.Snapshot.SessionId.String(),
			"error":      err.Error(),
		})
	}
}
