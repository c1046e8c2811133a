package turnlog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Inserter is the write side the consumer needs.
type Inserter interface {
	Insert(ctx context.Context, e Entry) error
}

// Repository handles chat_turn_events PostgreSQL operations.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert stores e. A redelivered event (same event_id) is ignored.
func (r *Repository) Insert(ctx context.Context, e Entry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO chat_turn_events
		   (event_id, request_id, user_id, subject_id, tone_id, mode, condition, continuity_used, memory_count, latency_ms, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (event_id) DO NOTHING`,
		e.EventID, e.RequestID, e.UserID, e.SubjectID, e.ToneID, e.Mode, e.Condition,
		e.ContinuityUsed, e.MemoryCount, e.LatencyMS, e.OccurredAt)
	if err != nil {
		return fmt.Errorf("inserting turn event: %w", err)
	}
	return nil
}

// CountBySubject returns how many turns were logged for the pair.
func (r *Repository) CountBySubject(ctx context.Context, userID, subjectID string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM chat_turn_events WHERE user_id = $1 AND subject_id = $2`,
		userID, subjectID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting turn events: %w", err)
	}
	return n, nil
}
