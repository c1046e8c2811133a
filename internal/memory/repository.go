package memory

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines memory fact reads.
type Repository interface {
	ListRanked(ctx context.Context, userID, subjectID string, limit int) ([]Fact, error)
}

// PostgresRepository implements Repository on the memory_facts table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new memory repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) ListRanked(ctx context.Context, userID, subjectID string, limit int) ([]Fact, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, subject_id, key, value, importance, last_mentioned_at, updated_at
		 FROM memory_facts
		 WHERE user_id = $1 AND subject_id = $2
		 ORDER BY importance DESC, last_mentioned_at DESC NULLS LAST, updated_at DESC
		 LIMIT $3`,
		userID, subjectID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing memory facts: %w", err)
	}
	defer rows.Close()

	var facts []Fact
	for rows.Next() {
		var f Fact
		if err := rows.Scan(&f.UserID, &f.SubjectID, &f.Key, &f.Value, &f.Importance, &f.LastMentionedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning memory fact: %w", err)
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}
