package chat

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/samber/lo"

	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/completion"
)

// Request is the inbound chat body. Optional fields decode leniently: a value
// of the wrong type falls back to its default instead of failing the request.
type Request struct {
	Messages          json.RawMessage `json:"messages" validate:"required"`
	UserID            flexString      `json:"userId" validate:"required"`
	PersonID          flexString      `json:"personId" validate:"required"`
	PersonName        flexString      `json:"personName"`
	Relationship      flexString      `json:"personRelationshipType"`
	CurrentSubject    flexString      `json:"currentSubject"`
	ToneID            flexString      `json:"aiToneId"`
	ScienceMode       flexBool        `json:"aiScienceMode"`
	ContinuityEnabled flexBool        `json:"continuity_enabled"`
}

// ContinuityRequested defaults to true when the flag is absent or unusable.
func (r *Request) ContinuityRequested() bool {
	if !r.ContinuityEnabled.Set {
		return true
	}
	return r.ContinuityEnabled.Value
}

// flexString accepts a JSON string and ignores anything else.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		*s = ""
		return nil
	}
	*s = flexString(strings.TrimSpace(v))
	return nil
}

func (s flexString) String() string { return string(s) }

// flexBool accepts true/false or the strings "true"/"false". Set is false
// when the value was missing or not recognised.
type flexBool struct {
	Value bool
	Set   bool
}

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch strings.ToLower(strings.Trim(string(bytes.TrimSpace(data)), `"`)) {
	case "true":
		*b = flexBool{Value: true, Set: true}
	case "false":
		*b = flexBool{Value: false, Set: true}
	default:
		*b = flexBool{}
	}
	return nil
}

type rawTurn struct {
	Role    any `json:"role"`
	Content any `json:"content"`
}

// parseTurns decodes the messages array. ok is false when messages is not a
// JSON array. Turns with an unknown role or empty content are dropped.
func parseTurns(raw json.RawMessage) (turns []completion.Turn, ok bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, false
	}

	turns = lo.FilterMap(items, func(item json.RawMessage, _ int) (completion.Turn, bool) {
		var rt rawTurn
		if err := json.Unmarshal(item, &rt); err != nil {
			return completion.Turn{}, false
		}
		role, _ := rt.Role.(string)
		content, _ := rt.Content.(string)
		role = strings.ToLower(strings.TrimSpace(role))
		if role != completion.RoleUser && role != completion.RoleAssistant {
			return completion.Turn{}, false
		}
		if strings.TrimSpace(content) == "" {
			return completion.Turn{}, false
		}
		return completion.Turn{Role: role, Content: content}, true
	})
	return turns, true
}

// lastUserMessage returns the content of the last user turn, or "".
func lastUserMessage(turns []completion.Turn) string {
	t, _, ok := lo.FindLastIndexOf(turns, func(t completion.Turn) bool {
		return t.Role == completion.RoleUser
	})
	if !ok {
		return ""
	}
	return t.Content
}
