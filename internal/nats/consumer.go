package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// DefaultAckWait is how long the server waits for an ack before redelivering.
const DefaultAckWait = 30 * time.Second

// ConsumerSpec describes one durable pull consumer of this service.
type ConsumerSpec struct {
	Stream  string
	Name    string
	Subject string
	// MaxDeliver bounds deliveries of Nak'd or unacked messages; zero means
	// the server default (unlimited).
	MaxDeliver int
	// AckWait must outlast the handler's own work; zero uses DefaultAckWait.
	AckWait     time.Duration
	Description string
}

func (s ConsumerSpec) config() jetstream.ConsumerConfig {
	ackWait := s.AckWait
	if ackWait <= 0 {
		ackWait = DefaultAckWait
	}
	return jetstream.ConsumerConfig{
		Durable:       s.Name,
		Description:   s.Description,
		FilterSubject: s.Subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       ackWait,
		MaxDeliver:    s.MaxDeliver,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	}
}

// ConsumerManager creates the durable consumers the background workers read from.
type ConsumerManager struct {
	js jetstream.JetStream
}

func NewConsumerManager(js jetstream.JetStream) *ConsumerManager {
	return &ConsumerManager{js: js}
}

// EnsureConsumer creates spec's consumer, or updates it in place if the
// config changed since the last deploy.
func (cm *ConsumerManager) EnsureConsumer(ctx context.Context, spec ConsumerSpec) (jetstream.Consumer, error) {
	if spec.Stream == "" || spec.Name == "" {
		return nil, fmt.Errorf("consumer spec needs a stream and a name, got %q/%q", spec.Stream, spec.Name)
	}
	consumer, err := cm.js.CreateOrUpdateConsumer(ctx, spec.Stream, spec.config())
	if err != nil {
		return nil, fmt.Errorf("ensuring consumer %s on %s (%s): %w", spec.Name, spec.Stream, spec.Subject, err)
	}
	return consumer, nil
}
