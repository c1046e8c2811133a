package continuity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/completion"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/metrics"
)

// RecentTurnLimit is how many trailing turns feed the extraction prompt.
const RecentTurnLimit = 6

// Extraction outcomes, also used as metric labels.
const (
	OutcomeUpdated = "updated"
	OutcomeEmpty   = "empty"
	OutcomeFailed  = "failed"
	OutcomeDropped = "dropped"
	OutcomeSkipped = "skipped"
)

const extractionSystemPrompt = `You update conversation continuity notes for a supportive companion app.
Read the recent conversation and the assistant's latest reply, then return ONLY a JSON object, no other text, with exactly these string fields:

{
  "current_goal": "what the user is working toward right now",
  "open_loops": "threads that were raised but not resolved",
  "last_user_need": "what the user needed in this exchange",
  "last_action_plan": "the concrete step or suggestion that was offered, if any",
  "next_best_question": "one gentle question to continue with next time"
}

Rules:
- Use only what was actually said. If a field is unknown, use an empty string "". Never invent details.
- Keep every field under %d characters.
- Plain text values only: no arrays, no nested objects, no markdown.`

// Job is one background extraction request.
type Job struct {
	RequestID   string
	UserID      string
	SubjectID   string
	RecentTurns string
	Reply       string
}

// ExtractorConfig tunes the extraction completion call.
type ExtractorConfig struct {
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
}

// Extractor re-derives continuity fields with a second, JSON-only completion.
type Extractor struct {
	completer completion.Completer
	store     *Store
	cfg       ExtractorConfig
}

// NewExtractor creates an Extractor writing through store.
func NewExtractor(c completion.Completer, store *Store, cfg ExtractorConfig) *Extractor {
	return &Extractor{completer: c, store: store, cfg: cfg}
}

// Extract asks the model for continuity fields. It returns nil when the call
// fails or the output holds no parseable JSON object.
func (e *Extractor) Extract(ctx context.Context, recentTurns, latestReply string) *Patch {
	user := fmt.Sprintf("RECENT CONVERSATION:\n%s\n\nASSISTANT'S LATEST REPLY:\n%s", recentTurns, latestReply)
	raw, err := e.completer.Complete(ctx,
		fmt.Sprintf(extractionSystemPrompt, FieldLimit),
		[]completion.Turn{{Role: completion.RoleUser, Content: user}},
		completion.Options{
			Temperature: e.cfg.Temperature,
			MaxTokens:   e.cfg.MaxTokens,
			Timeout:     e.cfg.Timeout,
			Purpose:     "extraction",
		},
	)
	if err != nil {
		slog.Warn("continuity: extraction call failed", "error", err)
		return nil
	}
	return ParsePatch(raw)
}

// Run extracts and upserts for one job. It never returns an error; the
// outcome is logged and counted.
func (e *Extractor) Run(ctx context.Context, job Job) {
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	outcome := e.run(ctx, job)
	metrics.ExtractionsTotal.WithLabelValues(outcome).Inc()
	slog.Debug("continuity: extraction finished",
		"outcome", outcome,
		"request_id", job.RequestID,
		"user_id", job.UserID,
		"subject_id", job.SubjectID,
	)
}

func (e *Extractor) run(ctx context.Context, job Job) string {
	patch := e.Extract(ctx, job.RecentTurns, job.Reply)
	if patch == nil {
		return OutcomeFailed
	}
	if patch.Empty() {
		return OutcomeEmpty
	}
	if !e.store.Upsert(ctx, job.UserID, job.SubjectID, *patch) {
		return OutcomeFailed
	}
	return OutcomeUpdated
}

// ParsePatch locates the JSON object in raw model output and maps it onto
// record fields. The span from the first '{' to the last '}' is tried first;
// if trailing prose holds stray braces, the first complete object is used.
// Every value is cleaned and cut to FieldLimit.
func ParsePatch(raw string) *Patch {
	fields, ok := findObject(raw)
	if !ok {
		return nil
	}

	field := func(key string) string {
		return Truncate(Clean(fields[key]), FieldLimit)
	}
	return &Patch{
		CurrentGoal:  field("current_goal"),
		OpenLoops:    field("open_loops"),
		Summary:      field("last_user_need"),
		LastAdvice:   field("last_action_plan"),
		NextQuestion: field("next_best_question"),
	}
}

func findObject(raw string) (map[string]any, bool) {
	start := strings.Index(raw, "{")
	if start < 0 {
		return nil, false
	}

	var fields map[string]any
	if end := strings.LastIndex(raw, "}"); end > start {
		if err := json.Unmarshal([]byte(raw[start:end+1]), &fields); err == nil {
			return fields, true
		}
	}

	fields = nil
	if err := json.NewDecoder(strings.NewReader(raw[start:])).Decode(&fields); err != nil {
		return nil, false
	}
	return fields, true
}

// RecentTurnsText renders the last RecentTurnLimit turns as "User: …" /
// "Assistant: …" lines.
func RecentTurnsText(turns []completion.Turn) string {
	if len(turns) > RecentTurnLimit {
		turns = turns[len(turns)-RecentTurnLimit:]
	}
	lines := lo.Map(turns, func(t completion.Turn, _ int) string {
		speaker := "User"
		if t.Role == completion.RoleAssistant {
			speaker = "Assistant"
		}
		return speaker + ": " + strings.TrimSpace(t.Content)
	})
	return strings.Join(lines, "\n")
}
