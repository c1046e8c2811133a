//go:build integration

package continuity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/database/dbtest"
)

func TestPostgresRepository(t *testing.T) {
	pool := dbtest.NewPool(t)
	repo := NewPostgresRepository(pool)
	store := NewStore(repo)
	ctx := context.Background()

	t.Run("missing row yields default", func(t *testing.T) {
		rec, err := repo.Get(ctx, "nobody", "p1")
		require.NoError(t, err)
		assert.Nil(t, rec)

		got := store.Get(ctx, "nobody", "p1")
		assert.True(t, got.ContinuityEnabled)
		assert.False(t, got.HasContent())
	})

	t.Run("upsert is full replace and idempotent", func(t *testing.T) {
		p := Patch{CurrentGoal: "sleep better", OpenLoops: "- the move", NextQuestion: "How did you sleep?"}
		require.True(t, store.Upsert(ctx, "u1", "p1", p))
		require.True(t, store.Upsert(ctx, "u1", "p1", p))

		first := store.Get(ctx, "u1", "p1")
		assert.Equal(t, "sleep better", first.CurrentGoal)
		assert.Equal(t, "- the move", first.OpenLoops)
		assert.Equal(t, "How did you sleep?", first.NextQuestion)
		assert.True(t, first.ContinuityEnabled)

		require.True(t, store.Upsert(ctx, "u1", "p1", Patch{Summary: "needed rest"}))
		second := store.Get(ctx, "u1", "p1")
		assert.Equal(t, "needed rest", second.Summary)
		assert.Empty(t, second.CurrentGoal, "fields not in the patch are cleared")
	})

	t.Run("upsert keeps disabled flag", func(t *testing.T) {
		_, err := pool.Exec(ctx,
			`INSERT INTO conversation_continuity (user_id, subject_id, continuity_enabled) VALUES ('u2', 'p2', FALSE)`)
		require.NoError(t, err)

		require.True(t, store.Upsert(ctx, "u2", "p2", Patch{CurrentGoal: "x"}))
		assert.False(t, store.Get(ctx, "u2", "p2").ContinuityEnabled)
	})

	t.Run("legacy json shapes are cleaned", func(t *testing.T) {
		_, err := pool.Exec(ctx,
			`INSERT INTO conversation_continuity (user_id, subject_id, open_loops, current_goal, summary, next_question)
			 VALUES ('u3', 'p3', '["call mom", "", "book trip"]', '{"goal": "rest"}', '42', 'null')`)
		require.NoError(t, err)

		rec := store.Get(ctx, "u3", "p3")
		assert.Equal(t, "- call mom\n- book trip", rec.OpenLoops)
		assert.Equal(t, `{"goal":"rest"}`, rec.CurrentGoal)
		assert.Equal(t, "42", rec.Summary)
		assert.Equal(t, "", rec.NextQuestion)
	})
}
