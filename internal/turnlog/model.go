// Package turnlog persists turn-completed events published by the chat
// handler, giving operators a per-subject history of tone, mode and latency
// without storing any message text.
package turnlog

import (
	"time"

	"github.com/google/uuid"

	inats "github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/nats"
)

// Entry matches the chat_turn_events table.
type Entry struct {
	EventID        uuid.UUID
	RequestID      string
	UserID         string
	SubjectID      string
	ToneID         string
	Mode           string
	Condition      string
	ContinuityUsed bool
	MemoryCount    int
	LatencyMS      int64
	OccurredAt     time.Time
}

func entryFromEvent(e inats.TurnCompleted) Entry {
	occurred := e.Timestamp
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}
	id := e.EventID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return Entry{
		EventID:        id,
		RequestID:      e.RequestID,
		UserID:         e.UserID,
		SubjectID:      e.SubjectID,
		ToneID:         e.ToneID,
		Mode:           e.Mode,
		Condition:      e.Condition,
		ContinuityUsed: e.ContinuityUsed,
		MemoryCount:    e.MemoryCount,
		LatencyMS:      e.LatencyMS,
		OccurredAt:     occurred,
	}
}
