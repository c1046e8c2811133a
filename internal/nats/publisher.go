package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
)

// Publisher provides typed methods for publishing to NATS JetStream.
type Publisher struct {
	js jetstream.JetStream
}

// NewPublisher creates a new Publisher.
func NewPublisher(js jetstream.JetStream) *Publisher {
	return &Publisher{js: js}
}

// PublishContinuityTask queues a background continuity extraction.
func (p *Publisher) PublishContinuityTask(ctx context.Context, task ContinuityTask) error {
	return p.publish(ctx, SubjectContinuityTask, task)
}

// PublishTurnCompleted publishes a turn analytics event.
func (p *Publisher) PublishTurnCompleted(ctx context.Context, event TurnCompleted) error {
	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	return p.publish(ctx, SubjectTurnCompleted, event)
}

func (p *Publisher) publish(ctx context.Context, subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling event for %s: %w", subject, err)
	}
	_, err = p.js.Publish(ctx, subject, payload)
	if err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}
	return nil
}
