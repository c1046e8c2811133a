package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// Envelope is the single response shape of the chat endpoint. It is always
// written with 200 OK; success or failure lives in the body.
type Envelope struct {
	Success   bool    `json:"success"`
	Reply     *string `json:"reply"`
	Error     *Error  `json:"error"`
	RequestID string  `json:"requestId,omitempty"`
	Timestamp int64   `json:"timestamp"`
}

// Success builds a successful envelope.
func Success(requestID, reply string) Envelope {
	return Envelope{
		Success:   true,
		Reply:     &reply,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Failure builds a failed envelope.
func Failure(requestID string, err *Error) Envelope {
	if err == nil {
		err = ErrUnexpected
	}
	return Envelope{
		Success:   false,
		Error:     err,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
	}
}

// WriteEnvelope writes env as JSON with status 200. The body is sized up
// front so clients see the end of the response as soon as it is flushed.
func WriteEnvelope(w http.ResponseWriter, env Envelope) {
	body, err := json.Marshal(env)
	if err != nil {
		slog.Error("encoding envelope", "error", err, "request_id", env.RequestID)
		body, _ = json.Marshal(Failure(env.RequestID, ErrUnexpected))
	}
	body = append(body, '\n')

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		slog.Warn("writing envelope", "error", err, "request_id", env.RequestID)
	}
}

// WriteError is shorthand for WriteEnvelope(w, Failure(requestID, err)).
func WriteError(w http.ResponseWriter, requestID string, err *Error) {
	WriteEnvelope(w, Failure(requestID, err))
}

// JSON writes data with the given status. Used by operator endpoints
// (health), never by the chat endpoint.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
