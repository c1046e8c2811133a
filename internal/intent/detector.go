// Package intent classifies a user message with case-insensitive keyword
// matching: is the user asking for advice, wanting to learn, or naming a
// known condition.
package intent

import "strings"

var adviceKeywords = []string{
	"what should i do",
	"what do i do",
	"what can i do",
	"should i",
	"any advice",
	"give me advice",
	"need advice",
	"any tips",
	"how do i",
	"how can i",
	"how should i",
	"what would you do",
	"help me figure out",
	"how to handle",
	"how to deal with",
}

var learnKeywords = []string{
	"did you know",
	"tell me about",
	"tell me more",
	"what is",
	"what's the",
	"what are",
	"explain",
	"teach me",
	"i want to learn",
	"i want to understand",
	"how does",
	"why do people",
	"is it normal",
	"fun fact",
	"learn more",
}

// Detector holds the keyword tables. It is immutable after construction and
// safe for concurrent use.
type Detector struct {
	advice     []string
	learn      []string
	conditions []Condition
}

// NewDetector returns a Detector over the built-in keyword tables.
func NewDetector() *Detector {
	return &Detector{
		advice:     adviceKeywords,
		learn:      learnKeywords,
		conditions: defaultConditions,
	}
}

// IsAskingForAdvice reports whether text contains an advice-seeking phrase.
func (d *Detector) IsAskingForAdvice(text string) bool {
	return containsAny(normalize(text), d.advice)
}

// WantsToLearn reports whether text contains a learning-seeking phrase.
func (d *Detector) WantsToLearn(text string) bool {
	return containsAny(normalize(text), d.learn)
}

// DetectCondition returns the first condition, in table order, whose keywords
// appear in text.
func (d *Detector) DetectCondition(text string) (Condition, bool) {
	t := normalize(text)
	if t == "" {
		return Condition{}, false
	}
	for _, c := range d.conditions {
		if containsAny(t, c.Keywords) {
			return c, true
		}
	}
	return Condition{}, false
}

// Conditions returns the condition table in match order.
func (d *Detector) Conditions() []Condition {
	out := make([]Condition, len(d.conditions))
	copy(out, d.conditions)
	return out
}

// normalize lowercases text and folds typographic apostrophes so "I’m" and
// "I'm" match the same keywords.
func normalize(text string) string {
	t := strings.ToLower(text)
	return strings.ReplaceAll(t, "’", "'")
}

func containsAny(text string, keywords []string) bool {
	if text == "" {
		return false
	}
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
