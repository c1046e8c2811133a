// Package memory reads ranked long-lived facts about a conversation subject.
// Facts are written elsewhere; this package only reads them.
package memory

import (
	"strings"
	"time"
)

// DefaultLimit is how many facts reach the prompt.
const DefaultLimit = 15

// DeceasedKey marks a subject who has died. With value "true" it gates the
// grief-aware prompt addendum.
const DeceasedKey = "is_deceased"

// Fact is a row of memory_facts.
type Fact struct {
	UserID          string     `json:"user_id"`
	SubjectID       string     `json:"subject_id"`
	Key             string     `json:"key"`
	Value           string     `json:"value"`
	Importance      int        `json:"importance"`
	LastMentionedAt *time.Time `json:"last_mentioned_at,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// HasDeceasedMarker reports whether facts contain is_deceased=true.
func HasDeceasedMarker(facts []Fact) bool {
	for _, f := range facts {
		if strings.EqualFold(strings.TrimSpace(f.Key), DeceasedKey) &&
			strings.EqualFold(strings.TrimSpace(f.Value), "true") {
			return true
		}
	}
	return false
}
