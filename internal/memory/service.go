package memory

import (
	"context"
	"log/slog"
	"sort"
)

// Service is the fault-tolerant fact reader used by the prompt assembler.
type Service struct {
	repo  Repository
	cache *Cache
	limit int
}

// NewService creates a memory service. cache may be nil; limit <= 0 uses DefaultLimit.
func NewService(repo Repository, cache *Cache, limit int) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Service{repo: repo, cache: cache, limit: limit}
}

// Get returns up to limit facts in ranking order. It never fails: any read
// error yields an empty list.
func (s *Service) Get(ctx context.Context, userID, subjectID string) []Fact {
	if s.repo == nil {
		return nil
	}

	if s.cache != nil {
		facts, ok, err := s.cache.Get(ctx, userID, subjectID, s.limit)
		if err != nil {
			slog.Warn("memory: cache read failed", "error", err, "user_id", userID)
		} else if ok {
			return Rank(facts, s.limit)
		}
	}

	facts, err := s.repo.ListRanked(ctx, userID, subjectID, s.limit)
	if err != nil {
		slog.Warn("memory: failed to load facts", "error", err, "user_id", userID, "subject_id", subjectID)
		return nil
	}
	facts = Rank(facts, s.limit)

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, subjectID, s.limit, facts); err != nil {
			slog.Warn("memory: cache write failed", "error", err, "user_id", userID)
		}
	}
	return facts
}

// Rank sorts facts by importance desc, last mentioned desc (never-mentioned
// last), updated desc, and keeps the first limit. The input is not modified.
func Rank(facts []Fact, limit int) []Fact {
	out := make([]Fact, len(facts))
	copy(out, facts)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Importance != b.Importance {
			return a.Importance > b.Importance
		}
		switch {
		case a.LastMentionedAt != nil && b.LastMentionedAt == nil:
			return true
		case a.LastMentionedAt == nil && b.LastMentionedAt != nil:
			return false
		case a.LastMentionedAt != nil && b.LastMentionedAt != nil && !a.LastMentionedAt.Equal(*b.LastMentionedAt):
			return a.LastMentionedAt.After(*b.LastMentionedAt)
		}
		return a.UpdatedAt.After(b.UpdatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
