package continuity

import (
	"context"
	"log/slog"
)

// Store is the fault-tolerant adapter the prompt assembler and extractor use.
// Neither method returns an error: continuity is advisory.
type Store struct {
	repo Repository
}

// NewStore creates a Store. A nil repo yields defaults on read and drops writes.
func NewStore(repo Repository) *Store {
	return &Store{repo: repo}
}

// Get returns the normalized record, or the default (enabled, empty) record
// when the row is missing or the read fails.
func (s *Store) Get(ctx context.Context, userID, subjectID string) Record {
	if s.repo == nil {
		return DefaultRecord(userID, subjectID)
	}
	rec, err := s.repo.Get(ctx, userID, subjectID)
	if err != nil {
		slog.Warn("continuity: read failed, using defaults", "error", err, "user_id", userID, "subject_id", subjectID)
		return DefaultRecord(userID, subjectID)
	}
	if rec == nil {
		return DefaultRecord(userID, subjectID)
	}
	return *rec
}

// Upsert writes p best-effort and reports whether the write landed.
func (s *Store) Upsert(ctx context.Context, userID, subjectID string, p Patch) bool {
	if s.repo == nil {
		return false
	}
	if err := s.repo.Upsert(ctx, userID, subjectID, p); err != nil {
		slog.Warn("continuity: write failed", "error", err, "user_id", userID, "subject_id", subjectID)
		return false
	}
	return true
}
