// Package chat implements the companion chat endpoint. Every request is
// answered with HTTP 200 and a JSON envelope; success or failure lives in
// the body.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/api"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/completion"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/continuity"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/metrics"
	mw "github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/middleware"
	inats "github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/nats"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/prompt"
)

// FallbackReply is sent when the model returns an empty completion.
const FallbackReply = "I'm here with you. Could you tell me a little more about what's on your mind?"

const (
	maxBodyBytes   = 1 << 20
	publishTimeout = 2 * time.Second
)

// PromptBuilder is satisfied by *prompt.Assembler.
type PromptBuilder interface {
	Build(ctx context.Context, pc prompt.Context) (string, prompt.Trace)
}

// Submitter hands a finished turn to the background extractor. It must not
// block.
type Submitter interface {
	Submit(job continuity.Job) bool
}

// RateLimiter is satisfied by *middleware.RateLimiter.
type RateLimiter interface {
	Allow(r *http.Request) (bool, time.Duration)
}

// TokenVerifier is satisfied by *auth.Verifier.
type TokenVerifier interface {
	VerifyRequest(r *http.Request, userID string) error
}

// EventPublisher is satisfied by *nats.Publisher.
type EventPublisher interface {
	PublishTurnCompleted(ctx context.Context, event inats.TurnCompleted) error
}

// Config carries the handler's settings.
type Config struct {
	APIKeyConfigured  bool
	StoreConfigured   bool
	RequestTimeout    time.Duration
	CompletionTimeout time.Duration
	ReplyTemperature  float64
	ReplyMaxTokens    int
	Production        bool
}

// Deps are the handler's collaborators. Submitter, Events, Limiter and
// Verifier may be nil.
type Deps struct {
	Prompts   PromptBuilder
	Completer completion.Completer
	Submitter Submitter
	Events    EventPublisher
	Limiter   RateLimiter
	Verifier  TokenVerifier
}

type Handler struct {
	cfg      Config
	deps     Deps
	validate *validator.Validate
	bg       sync.WaitGroup
}

func NewHandler(cfg Config, deps Deps) *Handler {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{cfg: cfg, deps: deps, validate: v}
}

// turnResult is what serve hands back: the envelope plus, on success, the
// work to do once it has been written.
type turnResult struct {
	env   api.Envelope
	job   *continuity.Job
	event *inats.TurnCompleted
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	start := time.Now()
	requestID := mw.GetRequestID(r.Context())
	if requestID == "" {
		requestID = uuid.NewString()
	}

	res := h.serveSafely(w, r, requestID)

	code := "ok"
	if res.env.Error != nil {
		code = res.env.Error.Code
		slog.Warn("chat request failed",
			"request_id", requestID,
			"code", code,
			"message", res.env.Error.Message,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	metrics.ChatResponsesTotal.WithLabelValues(code).Inc()

	api.WriteEnvelope(w, res.env)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	if res.job != nil && h.deps.Submitter != nil {
		job := *res.job
		h.background(func() { h.deps.Submitter.Submit(job) })
	}
	if res.event != nil && h.deps.Events != nil {
		res.event.LatencyMS = time.Since(start).Milliseconds()
		event := *res.event
		h.background(func() { h.publishTurn(event) })
	}
}

// background runs fn after the response is out; Drain waits for it.
func (h *Handler) background(fn func()) {
	h.bg.Add(1)
	go func() {
		defer h.bg.Done()
		fn()
	}()
}

// Drain blocks until post-response work (job submission, turn events) has
// finished or ctx is done.
func (h *Handler) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.bg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// serveSafely converts a panic anywhere below into UNEXPECTED_ERROR.
func (h *Handler) serveSafely(w http.ResponseWriter, r *http.Request, requestID string) (res turnResult) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("chat handler panic", "request_id", requestID, "panic", rec)
			res = turnResult{env: api.Failure(requestID, h.unexpected(rec))}
		}
	}()
	return h.serve(w, r, requestID)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, requestID string) turnResult {
	fail := func(err *api.Error) turnResult {
		return turnResult{env: api.Failure(requestID, err)}
	}

	if r.Method != http.MethodPost {
		return fail(api.NewMethodNotAllowedError(r.Method))
	}
	if !h.cfg.APIKeyConfigured {
		return fail(api.ErrMissingAPIKey)
	}
	if !h.cfg.StoreConfigured {
		return fail(api.ErrMissingStoreConfig)
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fail(api.ErrInvalidJSON)
	}
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return fail(api.ErrInvalidJSON)
	}

	turns, badReq := h.validateRequest(&req)
	if badReq != nil {
		return fail(badReq)
	}

	if h.deps.Limiter != nil {
		if ok, retryAfter := h.deps.Limiter.Allow(r); !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			return fail(api.ErrRateLimited.WithDetail("retry_after_seconds", int(retryAfter.Seconds())))
		}
	}

	userID, subjectID := req.UserID.String(), req.PersonID.String()
	if h.deps.Verifier != nil {
		if err := h.deps.Verifier.VerifyRequest(r, userID); err != nil {
			slog.Debug("chat: token rejected", "request_id", requestID, "error", err)
			return fail(api.ErrUnauthorized)
		}
	}

	ctx := r.Context()
	if h.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.RequestTimeout)
		defer cancel()
	}

	system, trace := h.deps.Prompts.Build(ctx, prompt.Context{
		UserID:              userID,
		SubjectID:           subjectID,
		LastUserMessage:     lastUserMessage(turns),
		SubjectName:         req.PersonName.String(),
		Relationship:        req.Relationship.String(),
		CurrentTopic:        req.CurrentSubject.String(),
		ToneID:              req.ToneID.String(),
		ScienceMode:         req.ScienceMode.Value,
		ContinuityRequested: req.ContinuityRequested(),
	})

	reply, err := h.deps.Completer.Complete(ctx, system, turns, completion.Options{
		Temperature: h.cfg.ReplyTemperature,
		MaxTokens:   h.cfg.ReplyMaxTokens,
		Timeout:     h.cfg.CompletionTimeout,
		Purpose:     "reply",
	})
	if err != nil {
		slog.Error("chat: completion failed", "request_id", requestID, "error", err)
		return fail(completionFailure(err))
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		slog.Warn("chat: empty completion, using fallback", "request_id", requestID)
		reply = FallbackReply
	}

	slog.Info("chat turn completed",
		"request_id", requestID,
		"tone", trace.ToneID,
		"mode", trace.Mode,
		"condition", trace.Condition,
		"continuity_used", trace.ContinuityUsed,
		"memory_count", trace.MemoryCount,
	)

	res := turnResult{
		env: api.Success(requestID, reply),
		event: &inats.TurnCompleted{
			RequestID:      requestID,
			UserID:         userID,
			SubjectID:      subjectID,
			ToneID:         trace.ToneID,
			Mode:           string(trace.Mode),
			Condition:      string(trace.Condition),
			ContinuityUsed: trace.ContinuityUsed,
			MemoryCount:    trace.MemoryCount,
			Timestamp:      time.Now().UTC(),
		},
	}
	if trace.ContinuityEffective {
		res.job = &continuity.Job{
			RequestID:   requestID,
			UserID:      userID,
			SubjectID:   subjectID,
			RecentTurns: continuity.RecentTurnsText(turns),
			Reply:       reply,
		}
	}
	return res
}

// validateRequest checks required fields and decodes the turns.
func (h *Handler) validateRequest(req *Request) ([]completion.Turn, *api.Error) {
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, api.NewBadRequestError(fmt.Sprintf("%s is required", verrs[0].Field()))
		}
		return nil, api.NewBadRequestError(err.Error())
	}

	turns, ok := parseTurns(req.Messages)
	if !ok {
		return nil, api.NewBadRequestError("messages must be an array")
	}
	return turns, nil
}

func (h *Handler) publishTurn(event inats.TurnCompleted) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := h.deps.Events.PublishTurnCompleted(ctx, event); err != nil {
		slog.Warn("chat: publishing turn event", "error", err, "request_id", event.RequestID)
	}
}

func (h *Handler) unexpected(rec any) *api.Error {
	if h.cfg.Production {
		return api.ErrUnexpected
	}
	return api.ErrUnexpected.
		WithDetail("error", fmt.Sprint(rec)).
		WithDetail("stack", string(debug.Stack()))
}

// completionFailure maps a completion error to its envelope code.
func completionFailure(err error) *api.Error {
	var cerr *completion.Error
	if !errors.As(err, &cerr) {
		return api.NewError(api.CodeNetworkError, "could not reach the AI service")
	}

	switch cerr.Kind {
	case completion.KindTimeout:
		return api.NewError(api.CodeTimeout, "the AI took too long to respond").
			WithDetail("timeout_ms", cerr.Timeout.Milliseconds())
	case completion.KindAPI:
		return api.NewError(api.CodeAPIError, "the AI service returned an error").
			WithDetail("status", cerr.Status).
			WithDetail("body_preview", cerr.BodyPreview)
	case completion.KindParse:
		return api.NewError(api.CodeParseError, "could not read the AI service response")
	default:
		return api.NewError(api.CodeNetworkError, "could not reach the AI service")
	}
}
