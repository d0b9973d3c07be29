package nats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "urbanmind.conversation.analysis_completed", Subject("conversation.analysis_completed"))
	assert.Equal(t, "urbanmind.session.closed", Subject("session.closed"))
}
