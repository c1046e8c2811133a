// Package prompt assembles the system prompt for one chat turn from the
// voice table, intent detection, continuity notes and memory facts.
package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/continuity"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/intent"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/memory"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/voice"
)

const defaultSubjectName = "this person"

// Mode is the conditional addendum chosen for a turn.
type Mode string

const (
	ModeAdvice      Mode = "advice"
	ModeCondition   Mode = "condition"
	ModeLearning    Mode = "learning"
	ModeSpontaneous Mode = "spontaneous"
)

// Section names recorded in Trace.Sections.
const (
	SectionIdentity   = "identity"
	SectionVoice      = "voice"
	SectionScience    = "science"
	SectionSubject    = "subject"
	SectionContinuity = "continuity"
	SectionTopic      = "topic"
	SectionMemory     = "memory"
	SectionGrief      = "grief"
	SectionCoreRules  = "core_rules"
	SectionMode       = "mode"
	SectionGuardrails = "guardrails"
)

// ContinuityReader is satisfied by *continuity.Store.
type ContinuityReader interface {
	Get(ctx context.Context, userID, subjectID string) continuity.Record
}

// MemoryReader is satisfied by *memory.Service.
type MemoryReader interface {
	Get(ctx context.Context, userID, subjectID string) []memory.Fact
}

// Context is everything one turn contributes to the prompt.
type Context struct {
	UserID          string
	SubjectID       string
	LastUserMessage string
	SubjectName     string
	Relationship    string
	CurrentTopic    string
	ToneID          string
	ScienceMode     bool
	// ContinuityRequested is the caller's flag; the stored flag must agree.
	ContinuityRequested bool
}

// Trace records what Build decided, for logging, events and tests.
type Trace struct {
	ToneID              string
	Sections            []string
	Mode                Mode
	Condition           intent.ConditionID
	ContinuityEffective bool
	ContinuityUsed      bool
	MemoryCount         int
	Grief               bool
}

// Has reports whether section was emitted.
func (t Trace) Has(section string) bool {
	return lo.Contains(t.Sections, section)
}

// Assembler is built once at startup and shared by all requests.
type Assembler struct {
	voices     *voice.Table
	detector   *intent.Detector
	continuity ContinuityReader
	memories   MemoryReader
}

// NewAssembler creates an Assembler.
func NewAssembler(voices *voice.Table, detector *intent.Detector, cr ContinuityReader, mr MemoryReader) *Assembler {
	return &Assembler{voices: voices, detector: detector, continuity: cr, memories: mr}
}

// Build assembles the system prompt. It cannot fail: store reads degrade to
// empty values.
func (a *Assembler) Build(ctx context.Context, pc Context) (string, Trace) {
	var (
		parts []string
		trace Trace
	)
	add := func(name, text string) {
		parts = append(parts, text)
		trace.Sections = append(trace.Sections, name)
	}

	name := strings.TrimSpace(pc.SubjectName)
	if name == "" {
		name = defaultSubjectName
	}

	add(SectionIdentity, identityPreamble)

	tone := a.voices.Resolve(pc.ToneID)
	trace.ToneID = tone.ID
	add(SectionVoice, a.voices.Build(tone.ID))

	if pc.ScienceMode {
		add(SectionScience, scienceModeBlock)
	}

	add(SectionSubject, subjectFraming(name, pc.Relationship))

	rec := a.continuity.Get(ctx, pc.UserID, pc.SubjectID)
	trace.ContinuityEffective = pc.ContinuityRequested && rec.ContinuityEnabled
	if trace.ContinuityEffective && rec.HasContent() {
		add(SectionContinuity, continuityBlock(rec))
		trace.ContinuityUsed = true
	}

	if topic := strings.TrimSpace(pc.CurrentTopic); !isDefaultTopic(topic) {
		add(SectionTopic, fmt.Sprintf("CURRENT TOPIC: The user chose to focus on %q right now. Keep your reply centered on it.", topic))
	}

	facts := memory.Rank(a.memories.Get(ctx, pc.UserID, pc.SubjectID), 0)
	trace.MemoryCount = len(facts)
	if len(facts) > 0 {
		add(SectionMemory, memoryBlock(name, facts))
		if memory.HasDeceasedMarker(facts) {
			add(SectionGrief, fmt.Sprintf(griefBlock, name, name))
			trace.Grief = true
		}
	}

	add(SectionCoreRules, coreRules)

	mode, cond := a.selectMode(pc.LastUserMessage)
	trace.Mode = mode
	trace.Condition = cond.ID
	add(SectionMode, modeBlock(mode, cond))

	add(SectionGuardrails, fmt.Sprintf(guardrails, name))

	return strings.Join(parts, "\n\n"), trace
}

// selectMode applies the fixed precedence advice > condition > learning >
// spontaneous.
func (a *Assembler) selectMode(msg string) (Mode, intent.Condition) {
	if a.detector.IsAskingForAdvice(msg) {
		return ModeAdvice, intent.Condition{}
	}
	if cond, ok := a.detector.DetectCondition(msg); ok {
		return ModeCondition, cond
	}
	if a.detector.WantsToLearn(msg) {
		return ModeLearning, intent.Condition{}
	}
	return ModeSpontaneous, intent.Condition{}
}

func modeBlock(mode Mode, cond intent.Condition) string {
	switch mode {
	case ModeAdvice:
		return adviceModeBlock
	case ModeCondition:
		return fmt.Sprintf(conditionBlock, cond.Name, cond.Summary, cond.RelationshipImpact, cond.Resource.Title, cond.Resource.Author)
	case ModeLearning:
		return learningModeBlock
	default:
		return spontaneousBlock
	}
}

func subjectFraming(name, relationship string) string {
	relationship = strings.TrimSpace(relationship)
	if relationship == "" {
		return fmt.Sprintf("You're talking about %s.", name)
	}
	return fmt.Sprintf("You're talking about %s (%s).", name, relationship)
}

func continuityBlock(rec continuity.Record) string {
	var b strings.Builder
	b.WriteString("CONVERSATION CONTINUITY (notes from earlier turns):\n")
	line := func(label, v string) {
		if v = strings.TrimSpace(v); v != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, v)
		}
	}
	line("Current goal", rec.CurrentGoal)
	line("Open loops", rec.OpenLoops)
	line("Suggested next question", rec.NextQuestion)
	line("Summary", rec.Summary)
	b.WriteString(continuityInstruction)
	return b.String()
}

func memoryBlock(name string, facts []memory.Fact) string {
	var b strings.Builder
	fmt.Fprintf(&b, "WHAT YOU REMEMBER ABOUT %s:", strings.ToUpper(name))
	for _, f := range facts {
		fmt.Fprintf(&b, "\n- %s: %s", f.Key, f.Value)
	}
	return b.String()
}

func isDefaultTopic(topic string) bool {
	switch strings.ToLower(topic) {
	case "", "general", "general chat":
		return true
	}
	return false
}
