package continuity

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines continuity persistence operations.
type Repository interface {
	// Get returns nil, nil when no row exists.
	Get(ctx context.Context, userID, subjectID string) (*Record, error)
	Upsert(ctx context.Context, userID, subjectID string, p Patch) error
}

// PostgresRepository implements Repository on the conversation_continuity table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new continuity repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get reads the text columns as raw jsonb so legacy arrays and objects can be
// normalized instead of failing the scan.
func (r *PostgresRepository) Get(ctx context.Context, userID, subjectID string) (*Record, error) {
	var (
		rec                                        Record
		summary, loops, goal, advice, nextQuestion []byte
	)
	err := r.pool.QueryRow(ctx,
		`SELECT continuity_enabled, summary, open_loops, current_goal, last_advice, next_question, updated_at
		 FROM conversation_continuity
		 WHERE user_id = $1 AND subject_id = $2`,
		userID, subjectID,
	).Scan(&rec.ContinuityEnabled, &summary, &loops, &goal, &advice, &nextQuestion, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting continuity: %w", err)
	}

	rec.UserID = userID
	rec.SubjectID = subjectID
	rec.Summary = CleanRaw(summary)
	rec.OpenLoops = CleanRaw(loops)
	rec.CurrentGoal = CleanRaw(goal)
	rec.LastAdvice = CleanRaw(advice)
	rec.NextQuestion = CleanRaw(nextQuestion)
	return &rec, nil
}

// Upsert replaces every text field for the pair. continuity_enabled takes its
// column default on insert and is never touched on update.
func (r *PostgresRepository) Upsert(ctx context.Context, userID, subjectID string, p Patch) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO conversation_continuity
		   (user_id, subject_id, summary, open_loops, current_goal, last_advice, next_question, updated_at)
		 VALUES ($1, $2, to_jsonb($3::text), to_jsonb($4::text), to_jsonb($5::text), to_jsonb($6::text), to_jsonb($7::text), NOW())
		 ON CONFLICT (user_id, subject_id) DO UPDATE SET
		   summary = EXCLUDED.summary,
		   open_loops = EXCLUDED.open_loops,
		   current_goal = EXCLUDED.current_goal,
		   last_advice = EXCLUDED.last_advice,
		   next_question = EXCLUDED.next_question,
		   updated_at = EXCLUDED.updated_at`,
		userID, subjectID, p.Summary, p.OpenLoops, p.CurrentGoal, p.LastAdvice, p.NextQuestion,
	)
	if err != nil {
		return fmt.Errorf("upserting continuity: %w", err)
	}
	return nil
}
