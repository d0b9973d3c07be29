package main

import (
	"testing"

	"urbanmind-be/pkg/conversation"

	"github.com/stretchr/testify/assert"
)

func TestForwardKeepsEveryChange(t *testing.T) {
	changes := make(chan conversation.Change, 1)
	notifier := forward(changes)

	kinds := []conversation.ChangeKind{
		conversation.ChangeMessageSubmitted,
		conversation.ChangeDocumentsRecorded,
		conversation.ChangeAnalysisCompleted,
	}
	go func() {
		for i, kind := range kinds {
			notifier.Notify(conversation.Change{Kind: kind, Snapshot: conversation.Snapshot{Version: uint64(i + 1)}})
		}
	}()

	var got []conversation.ChangeKind
	for range kinds {
		got = append(got, (<-changes).Kind)
	}
	assert.Equal(t, kinds, got)
}
