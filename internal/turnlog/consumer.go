package turnlog

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"

	inats "github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/nats"
)

const consumerName = "turn-persister"

var consumerSpec = inats.ConsumerSpec{
	Stream:      inats.StreamEvents,
	Name:        consumerName,
	Subject:     inats.SubjectTurnCompleted,
	MaxDeliver:  5,
	Description: "stores turn-completed events in chat_turn_events",
}

// Consumer listens on the turn-completed subject and persists entries.
type Consumer struct {
	repo        Inserter
	consumerMgr *inats.ConsumerManager
}

func NewConsumer(repo Inserter, consumerMgr *inats.ConsumerManager) *Consumer {
	return &Consumer{repo: repo, consumerMgr: consumerMgr}
}

// Start begins the consume loop. Blocks until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	consumer, err := c.consumerMgr.EnsureConsumer(ctx, consumerSpec)
	if err != nil {
		return err
	}

	slog.Info("turn log consumer started", "consumer", consumerName)

	for {
		msgs, err := consumer.Fetch(10, jetstream.FetchMaxWait(inats.FetchTimeout))
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Debug("turn log consumer: fetching events", "error", err)
			continue
		}

		for msg := range msgs.Messages() {
			c.handleEvent(ctx, msg)
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

// ackable is the part of jetstream.Msg handleEvent uses.
type ackable interface {
	Data() []byte
	Ack() error
	Nak() error
	Term() error
}

func (c *Consumer) handleEvent(ctx context.Context, msg ackable) {
	var event inats.TurnCompleted
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		slog.Error("turn log consumer: unmarshaling event", "error", err)
		_ = msg.Term()
		return
	}

	if err := c.repo.Insert(ctx, entryFromEvent(event)); err != nil {
		slog.Error("turn log consumer: persisting event", "error", err, "request_id", event.RequestID)
		_ = msg.Nak()
		return
	}

	_ = msg.Ack()
	slog.Debug("turn log consumer: persisted event", "request_id", event.RequestID, "mode", event.Mode)
}
