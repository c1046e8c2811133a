// Package continuity keeps the short carry-over state (goal, open loops,
// next question, summary) for a (user, subject) pair and re-derives it in
// the background after each reply.
package continuity

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// FieldLimit is the per-field character budget for extracted values.
const FieldLimit = 250

// Record is the normalized continuity row. All text fields are plain strings
// regardless of what shape the store holds.
type Record struct {
	UserID            string
	SubjectID         string
	ContinuityEnabled bool
	Summary           string
	OpenLoops         string
	CurrentGoal       string
	LastAdvice        string
	NextQuestion      string
	UpdatedAt         time.Time
}

// DefaultRecord is what callers see for a missing or unreadable row.
func DefaultRecord(userID, subjectID string) Record {
	return Record{UserID: userID, SubjectID: subjectID, ContinuityEnabled: true}
}

// HasContent reports whether any field the prompt renders is non-blank.
func (r Record) HasContent() bool {
	for _, v := range []string{r.CurrentGoal, r.OpenLoops, r.NextQuestion, r.Summary} {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// Patch is a full replacement of the text fields. ContinuityEnabled is
// deliberately absent: extraction never toggles the user's setting.
type Patch struct {
	Summary      string `json:"summary"`
	OpenLoops    string `json:"open_loops"`
	CurrentGoal  string `json:"current_goal"`
	LastAdvice   string `json:"last_advice"`
	NextQuestion string `json:"next_question"`
}

// Empty reports whether every field is blank.
func (p Patch) Empty() bool {
	return strings.TrimSpace(p.Summary+p.OpenLoops+p.CurrentGoal+p.LastAdvice+p.NextQuestion) == ""
}

// Clean coerces a decoded JSON value into text: nil becomes "", arrays become
// "- item" lines, objects become compact JSON, scalars their string form.
func Clean(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case []string:
		items := make([]any, len(t))
		for i, s := range t {
			items[i] = s
		}
		return bullets(items)
	case []any:
		return bullets(t)
	case map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return strings.Trim(string(b), `"`)
	}
}

func bullets(items []any) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		s := strings.TrimSpace(Clean(item))
		if s == "" {
			continue
		}
		if !strings.HasPrefix(s, "- ") {
			s = "- " + s
		}
		lines = append(lines, s)
	}
	return strings.Join(lines, "\n")
}

// CleanRaw decodes raw JSON (as stored in a jsonb column) and cleans it.
// Bytes that are not valid JSON are treated as plain text.
func CleanRaw(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return string(raw)
	}
	return Clean(v)
}

// Truncate cuts s to at most n runes after trimming surrounding space.
func Truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}
