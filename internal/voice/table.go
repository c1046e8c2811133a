// Package voice turns a tone preference into the behavioral contract block
// placed near the top of the system prompt.
package voice

import (
	"fmt"
	"strings"
)

// Table is an immutable tone lookup built once at startup.
type Table struct {
	tones map[string]Tone
	order []string
}

// NewTable returns the built-in tone table.
func NewTable() *Table {
	return newTable(defaultTones)
}

func newTable(tones []Tone) *Table {
	t := &Table{tones: make(map[string]Tone, len(tones))}
	for _, tone := range tones {
		t.tones[tone.ID] = tone
		t.order = append(t.order, tone.ID)
	}
	return t
}

// Normalize maps free-form tone input ("Very-Warm ", "very warm") to a table key.
func Normalize(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	return strings.NewReplacer("-", "_", " ", "_").Replace(id)
}

// Has reports whether id (after normalization) is a known tone.
func (t *Table) Has(id string) bool {
	_, ok := t.tones[Normalize(id)]
	return ok
}

// IDs returns the known tone ids in table order.
func (t *Table) IDs() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Resolve returns the tone for id, falling back to the default tone.
func (t *Table) Resolve(id string) Tone {
	if tone, ok := t.tones[Normalize(id)]; ok {
		return tone
	}
	return t.tones[DefaultToneID]
}

// Build renders the voice contract for id. Unknown or empty ids get the
// balanced contract, never an empty block.
func (t *Table) Build(id string) string {
	tone := t.Resolve(id)

	var b strings.Builder
	fmt.Fprintf(&b, "=== VOICE CONTRACT: %s ===\n", strings.ToUpper(tone.Label))
	fmt.Fprintf(&b, "Pacing: %s\n", tone.Pacing)
	fmt.Fprintf(&b, "Directness: %s\n", tone.Directness)
	fmt.Fprintf(&b, "Structure: %s\n", tone.Structure)
	fmt.Fprintf(&b, "Questions: %s\n", tone.Questions)
	b.WriteString("You MUST follow this voice contract in every reply. It overrides any general style guidance below.\n")
	b.WriteString("=== END VOICE CONTRACT ===")
	return b.String()
}
