package continuity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/metrics"
	inats "github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/nats"
)

const consumerName = "continuity-extractor"

// consumerSpec gives each task three attempts; AckWait covers a full
// extraction call.
var consumerSpec = inats.ConsumerSpec{
	Stream:      inats.StreamTasks,
	Name:        consumerName,
	Subject:     inats.SubjectContinuityTask,
	MaxDeliver:  3,
	AckWait:     inats.DefaultAckWait,
	Description: "re-derives conversation continuity after each reply",
}

// TaskPublisher is the slice of inats.Publisher the submitter needs.
type TaskPublisher interface {
	PublishContinuityTask(ctx context.Context, task inats.ContinuityTask) error
}

// QueueSubmitter hands jobs to JetStream instead of running them in-process.
type QueueSubmitter struct {
	pub     TaskPublisher
	timeout time.Duration
}

// NewQueueSubmitter creates a QueueSubmitter. timeout bounds each publish.
func NewQueueSubmitter(pub TaskPublisher, timeout time.Duration) *QueueSubmitter {
	return &QueueSubmitter{pub: pub, timeout: timeout}
}

// Submit publishes job on a detached context. A failed publish drops the job.
func (q *QueueSubmitter) Submit(job Job) bool {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	err := q.pub.PublishContinuityTask(ctx, inats.ContinuityTask{
		RequestID:   job.RequestID,
		UserID:      job.UserID,
		SubjectID:   job.SubjectID,
		RecentTurns: job.RecentTurns,
		Reply:       job.Reply,
		EnqueuedAt:  time.Now().UTC(),
	})
	if err != nil {
		slog.Warn("continuity: publishing task failed, dropping", "error", err, "request_id", job.RequestID)
		metrics.ExtractionsTotal.WithLabelValues(OutcomeDropped).Inc()
		return false
	}
	return true
}

// Runner executes one job; *Extractor satisfies it.
type Runner interface {
	Run(ctx context.Context, job Job)
}

// QueueConsumer runs queued extraction tasks from a durable JetStream consumer.
type QueueConsumer struct {
	runner      Runner
	consumerMgr *inats.ConsumerManager
}

// NewQueueConsumer creates a QueueConsumer.
func NewQueueConsumer(runner Runner, consumerMgr *inats.ConsumerManager) *QueueConsumer {
	return &QueueConsumer{runner: runner, consumerMgr: consumerMgr}
}

// Start begins the consume loop. Blocks until ctx is cancelled.
func (c *QueueConsumer) Start(ctx context.Context) error {
	consumer, err := c.consumerMgr.EnsureConsumer(ctx, consumerSpec)
	if err != nil {
		return err
	}

	slog.Info("continuity consumer started", "consumer", consumerName)

	for {
		msgs, err := consumer.Fetch(10, jetstream.FetchMaxWait(inats.FetchTimeout))
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Debug("continuity consumer: fetching tasks", "error", err)
			continue
		}

		for msg := range msgs.Messages() {
			c.handleMessage(ctx, msg)
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

func (c *QueueConsumer) handleMessage(ctx context.Context, msg jetstream.Msg) {
	job, err := decodeTask(msg.Data())
	if err != nil {
		slog.Error("continuity consumer: malformed task", "error", err)
		_ = msg.Term()
		return
	}

	c.runner.Run(ctx, job)
	_ = msg.Ack()
}

// decodeTask turns a queued payload back into a Job. Tasks without ids are
// rejected: there is nothing to write them to.
func decodeTask(data []byte) (Job, error) {
	var task inats.ContinuityTask
	if err := json.Unmarshal(data, &task); err != nil {
		return Job{}, fmt.Errorf("unmarshaling continuity task: %w", err)
	}
	if task.UserID == "" || task.SubjectID == "" {
		return Job{}, fmt.Errorf("continuity task missing user or subject id")
	}
	return Job{
		RequestID:   task.RequestID,
		UserID:      task.UserID,
		SubjectID:   task.SubjectID,
		RecentTurns: task.RecentTurns,
		Reply:       task.Reply,
	}, nil
}
