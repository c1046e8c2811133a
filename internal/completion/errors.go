package completion

import (
	"fmt"
	"time"
)

// Kind classifies a failed completion call.
type Kind string

const (
	KindNetwork Kind = "network"
	KindAPI     Kind = "api"
	KindParse   Kind = "parse"
	KindTimeout Kind = "timeout"
)

const maxPreview = 500

// Error is returned for every failed call. Status and BodyPreview are set for
// KindAPI, Timeout for KindTimeout.
type Error struct {
	Kind        Kind
	Status      int
	BodyPreview string
	Timeout     time.Duration
	Err         error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindAPI:
		return fmt.Sprintf("completion api error: status %d", e.Status)
	case KindTimeout:
		return fmt.Sprintf("completion timed out after %s", e.Timeout)
	default:
		if e.Err != nil {
			return fmt.Sprintf("completion %s error: %v", e.Kind, e.Err)
		}
		return fmt.Sprintf("completion %s error", e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func preview(body string) string {
	r := []rune(body)
	if len(r) <= maxPreview {
		return body
	}
	return string(r[:maxPreview])
}
