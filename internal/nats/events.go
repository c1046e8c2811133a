package nats

import (
	"time"

	"github.com/google/uuid"
)

// FetchTimeout is the default timeout for batch fetching messages from consumers.
const FetchTimeout = 2 * time.Second

// Stream names.
const (
	StreamTasks  = "SAFESPACE_TASKS"
	StreamEvents = "SAFESPACE_EVENTS"
)

// Subject constants.
const (
	SubjectContinuityTask = "safespace.tasks.continuity"
	SubjectTurnCompleted  = "safespace.events.turn_completed"
)

// ContinuityTask asks a consumer to re-derive continuity for one finished turn.
type ContinuityTask struct {
	RequestID   string    `json:"request_id"`
	UserID      string    `json:"user_id"`
	SubjectID   string    `json:"subject_id"`
	RecentTurns string    `json:"recent_turns"`
	Reply       string    `json:"reply"`
	EnqueuedAt  time.Time `json:"enqueued_at"`
}

// TurnCompleted is published after a successful chat reply. It carries ids
// and prompt metadata only, never message text.
type TurnCompleted struct {
	EventID        uuid.UUID `json:"event_id"`
	RequestID      string    `json:"request_id"`
	UserID         string    `json:"user_id"`
	SubjectID      string    `json:"subject_id"`
	ToneID         string    `json:"tone_id"`
	Mode           string    `json:"mode"`
	Condition      string    `json:"condition,omitempty"`
	ContinuityUsed bool      `json:"continuity_used"`
	MemoryCount    int       `json:"memory_count"`
	LatencyMS      int64     `json:"latency_ms"`
	Timestamp      time.Time `json:"timestamp"`
}
