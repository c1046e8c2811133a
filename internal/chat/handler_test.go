package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/api"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/completion"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/config"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/continuity"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/intent"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/memory"
	mw "github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/middleware"
	inats "github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/nats"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/prompt"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/voice"
)

const validBody = `{
  "messages": [{"role": "user", "content": "I'm so anxious about my mom"}],
  "userId": "u1",
  "personId": "p1",
  "personName": "Mom",
  "personRelationshipType": "mother"
}`

// --- fakes ---

type fakePrompts struct {
	trace prompt.Trace
	got   prompt.Context
	panic bool
}

func (f *fakePrompts) Build(_ context.Context, pc prompt.Context) (string, prompt.Trace) {
	if f.panic {
		panic("assembler exploded")
	}
	f.got = pc
	return "SYSTEM", f.trace
}

type fakeCompleter struct {
	mu      sync.Mutex
	replies map[string]string // by purpose
	err     error
	turns   []completion.Turn
	opts    completion.Options
	calls   int
}

func (f *fakeCompleter) Complete(_ context.Context, _ string, turns []completion.Turn, opts completion.Options) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if opts.Purpose == "reply" {
		f.turns, f.opts = turns, opts
	}
	if f.err != nil {
		return "", f.err
	}
	return f.replies[opts.Purpose], nil
}

type fakeSubmitter struct {
	jobs []continuity.Job
}

func (f *fakeSubmitter) Submit(job continuity.Job) bool {
	f.jobs = append(f.jobs, job)
	return true
}

// runSubmitter runs jobs inline so tests can observe their effect.
type runSubmitter struct {
	runner continuity.Runner
}

func (s runSubmitter) Submit(job continuity.Job) bool {
	s.runner.Run(context.Background(), job)
	return true
}

// blockingSubmitter holds every Submit until release is closed.
type blockingSubmitter struct {
	release chan struct{}
	got     chan continuity.Job
}

func (b blockingSubmitter) Submit(job continuity.Job) bool {
	<-b.release
	b.got <- job
	return true
}

type fakeLimiter struct{ allow bool }

func (f fakeLimiter) Allow(*http.Request) (bool, time.Duration) { return f.allow, 30 * time.Second }

type fakeVerifier struct{ err error }

func (f fakeVerifier) VerifyRequest(*http.Request, string) error { return f.err }

type fakeEvents struct{ ch chan inats.TurnCompleted }

func (f fakeEvents) PublishTurnCompleted(_ context.Context, e inats.TurnCompleted) error {
	f.ch <- e
	return nil
}

type countingRepo struct {
	mu      sync.Mutex
	rec     *continuity.Record
	upserts int
}

func (r *countingRepo) Get(context.Context, string, string) (*continuity.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rec, nil
}

func (r *countingRepo) Upsert(_ context.Context, userID, subjectID string, p continuity.Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	r.rec = &continuity.Record{
		UserID: userID, SubjectID: subjectID, ContinuityEnabled: true,
		Summary: p.Summary, OpenLoops: p.OpenLoops, CurrentGoal: p.CurrentGoal,
		LastAdvice: p.LastAdvice, NextQuestion: p.NextQuestion,
	}
	return nil
}

// --- helpers ---

func testConfig() Config {
	return Config{
		APIKeyConfigured:  true,
		StoreConfigured:   true,
		RequestTimeout:    2 * time.Second,
		CompletionTimeout: time.Second,
		ReplyTemperature:  0.7,
		ReplyMaxTokens:    350,
	}
}

func newFakeHandler(cfg Config) (*Handler, *fakePrompts, *fakeCompleter, *fakeSubmitter) {
	p := &fakePrompts{trace: prompt.Trace{ToneID: "balanced", Mode: prompt.ModeSpontaneous, ContinuityEffective: true}}
	c := &fakeCompleter{replies: map[string]string{"reply": "That sounds really heavy."}}
	s := &fakeSubmitter{}
	return NewHandler(cfg, Deps{Prompts: p, Completer: c, Submitter: s}), p, c, s
}

func do(t *testing.T, h http.Handler, method, body string) (*httptest.ResponseRecorder, api.Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, "/chat", strings.NewReader(body))
	req = req.WithContext(mw.WithRequestID(req.Context(), "req-1"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if ch, ok := h.(*Handler); ok {
		require.NoError(t, ch.Drain(context.Background()))
	}

	var env api.Envelope
	if method != http.MethodOptions {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func requireCode(t *testing.T, rec *httptest.ResponseRecorder, env api.Envelope, code string) {
	t.Helper()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, env.Success)
	assert.Nil(t, env.Reply)
	require.NotNil(t, env.Error)
	assert.Equal(t, code, env.Error.Code)
}

// --- scenarios ---

func TestScenarioA_Success(t *testing.T) {
	h, p, c, s := newFakeHandler(testConfig())

	rec, env := do(t, h, http.MethodPost, validBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	require.NotNil(t, env.Reply)
	assert.Equal(t, "That sounds really heavy.", *env.Reply)
	assert.Nil(t, env.Error)
	assert.Equal(t, "req-1", env.RequestID)
	assert.NotZero(t, env.Timestamp)

	assert.Equal(t, "I'm so anxious about my mom", p.got.LastUserMessage)
	assert.Equal(t, "Mom", p.got.SubjectName)
	assert.Equal(t, "mother", p.got.Relationship)
	assert.True(t, p.got.ContinuityRequested)

	assert.Equal(t, 0.7, c.opts.Temperature)
	assert.Equal(t, 350, c.opts.MaxTokens)
	assert.Equal(t, time.Second, c.opts.Timeout)

	require.Len(t, s.jobs, 1)
	assert.Equal(t, "u1", s.jobs[0].UserID)
	assert.Equal(t, "p1", s.jobs[0].SubjectID)
	assert.Equal(t, "User: I'm so anxious about my mom", s.jobs[0].RecentTurns)
	assert.Equal(t, "That sounds really heavy.", s.jobs[0].Reply)
}

func TestScenarioA_EndToEnd(t *testing.T) {
	var system string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		if len(body.Messages) > 0 {
			system = body.Messages[0].Content
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"c1","object":"chat.completion","created":1,"model":"m",
			"choices":[{"index":0,"message":{"role":"assistant","content":"I hear you."},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	client := completion.NewClient(config.OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1/", Model: "gpt-4o-mini"})
	assembler := prompt.NewAssembler(voice.NewTable(), intent.NewDetector(), continuity.NewStore(nil), memory.NewService(nil, nil, 0))
	h := NewHandler(testConfig(), Deps{Prompts: assembler, Completer: client})

	rec, env := do(t, h, http.MethodPost, validBody)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	require.NotNil(t, env.Reply)
	assert.Equal(t, "I hear you.", *env.Reply)

	assert.Contains(t, system, "You are Safe Space")
	assert.Contains(t, system, "=== VOICE CONTRACT")
	assert.Contains(t, system, "You're talking about Mom (mother).")
}

func TestScenarioB_MissingUserID(t *testing.T) {
	h, _, c, _ := newFakeHandler(testConfig())

	rec, env := do(t, h, http.MethodPost, `{"messages":[{"role":"user","content":"hi"}],"personId":"p1"}`)
	requireCode(t, rec, env, api.CodeBadRequest)
	assert.Contains(t, env.Error.Message, "userId")
	assert.Zero(t, c.calls)
}

func TestScenarioC_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.CompletionTimeout = 50 * time.Millisecond
	client := completion.NewClient(config.OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1/", Model: "gpt-4o-mini"})
	h := NewHandler(cfg, Deps{Prompts: &fakePrompts{}, Completer: client})

	start := time.Now()
	rec, env := do(t, h, http.MethodPost, validBody)

	requireCode(t, rec, env, api.CodeTimeout)
	assert.Less(t, time.Since(start), cfg.RequestTimeout)
	assert.EqualValues(t, 50, env.Error.Details["timeout_ms"])
}

func TestScenarioD_UnparsableExtraction(t *testing.T) {
	repo := &countingRepo{}
	c := &fakeCompleter{replies: map[string]string{
		"reply":      "Let's take it one step at a time.",
		"extraction": "Sorry, nothing to extract here.",
	}}
	extractor := continuity.NewExtractor(c, continuity.NewStore(repo), continuity.ExtractorConfig{Timeout: time.Second})
	assembler := prompt.NewAssembler(voice.NewTable(), intent.NewDetector(), continuity.NewStore(repo), memory.NewService(nil, nil, 0))

	h := NewHandler(testConfig(), Deps{Prompts: assembler, Completer: c, Submitter: runSubmitter{runner: extractor}})

	rec, env := do(t, h, http.MethodPost, validBody)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	require.NotNil(t, env.Reply)
	assert.Equal(t, "Let's take it one step at a time.", *env.Reply)
	assert.Equal(t, 2, c.calls, "reply and extraction")
	assert.Zero(t, repo.upserts)
}

func TestExtractionWritesBack(t *testing.T) {
	repo := &countingRepo{}
	c := &fakeCompleter{replies: map[string]string{
		"reply":      "Have you told her how you feel?",
		"extraction": `{"current_goal":"talk to mom","next_best_question":"Did you talk to her?"}`,
	}}
	extractor := continuity.NewExtractor(c, continuity.NewStore(repo), continuity.ExtractorConfig{Timeout: time.Second})
	assembler := prompt.NewAssembler(voice.NewTable(), intent.NewDetector(), continuity.NewStore(repo), memory.NewService(nil, nil, 0))
	h := NewHandler(testConfig(), Deps{Prompts: assembler, Completer: c, Submitter: runSubmitter{runner: extractor}})

	_, env := do(t, h, http.MethodPost, validBody)
	require.True(t, env.Success)
	require.Equal(t, 1, repo.upserts)
	assert.Equal(t, "talk to mom", repo.rec.CurrentGoal)

	// The next turn sees the stored notes.
	var system string
	c2 := &captureCompleter{reply: "ok", system: &system}
	h2 := NewHandler(testConfig(), Deps{Prompts: assembler, Completer: c2})
	_, env = do(t, h2, http.MethodPost, validBody)
	require.True(t, env.Success)
	assert.Contains(t, system, "Suggested next question: Did you talk to her?")
}

type captureCompleter struct {
	reply  string
	system *string
}

func (c *captureCompleter) Complete(_ context.Context, system string, _ []completion.Turn, _ completion.Options) (string, error) {
	*c.system = system
	return c.reply, nil
}

func TestSlowSubmitDoesNotDelayResponse(t *testing.T) {
	sub := blockingSubmitter{release: make(chan struct{}), got: make(chan continuity.Job, 1)}
	h := NewHandler(testConfig(), Deps{
		Prompts:   &fakePrompts{trace: prompt.Trace{ContinuityEffective: true}},
		Completer: &fakeCompleter{replies: map[string]string{"reply": "hi"}},
		Submitter: sub,
	})
	srv := httptest.NewServer(h)
	defer srv.Close()

	start := time.Now()
	resp, err := http.Post(srv.URL, "application/json", strings.NewReader(validBody))
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	elapsed := time.Since(start)

	var env api.Envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.True(t, env.Success)
	assert.Less(t, elapsed, 500*time.Millisecond, "response waited for the submitter")

	select {
	case <-sub.got:
		t.Fatal("job submitted before release")
	default:
	}

	close(sub.release)
	require.NoError(t, h.Drain(context.Background()))
	job := <-sub.got
	assert.Equal(t, "u1", job.UserID)
}

func TestDrainHonorsContext(t *testing.T) {
	sub := blockingSubmitter{release: make(chan struct{}), got: make(chan continuity.Job, 1)}
	h := NewHandler(testConfig(), Deps{
		Prompts:   &fakePrompts{trace: prompt.Trace{ContinuityEffective: true}},
		Completer: &fakeCompleter{replies: map[string]string{"reply": "hi"}},
		Submitter: sub,
	})
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(validBody))
	h.ServeHTTP(httptest.NewRecorder(), req)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, h.Drain(ctx), context.DeadlineExceeded)

	close(sub.release)
	require.NoError(t, h.Drain(context.Background()))
}

func TestContinuityDisabledSkipsExtraction(t *testing.T) {
	h, p, _, s := newFakeHandler(testConfig())
	p.trace.ContinuityEffective = false

	_, env := do(t, h, http.MethodPost, `{"messages":[{"role":"user","content":"hi"}],"userId":"u1","personId":"p1","continuity_enabled":"false"}`)
	require.True(t, env.Success)
	assert.False(t, p.got.ContinuityRequested)
	assert.Empty(t, s.jobs)
}

// --- validation order and codes ---

func TestOptionsPreflight(t *testing.T) {
	h, _, _, _ := newFakeHandler(testConfig())
	rec, _ := do(t, h, http.MethodOptions, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestValidationCodes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   string
		mutate func(*Config, *Deps)
		code   string
	}{
		{"wrong method", http.MethodGet, "", nil, api.CodeMethodNotAllowed},
		{"missing api key", http.MethodPost, validBody, func(c *Config, _ *Deps) { c.APIKeyConfigured = false }, api.CodeMissingAPIKey},
		{"missing store", http.MethodPost, validBody, func(c *Config, _ *Deps) { c.StoreConfigured = false }, api.CodeMissingStoreConfig},
		{"invalid json", http.MethodPost, `{"messages": [`, nil, api.CodeInvalidJSON},
		{"json array body", http.MethodPost, `[]`, nil, api.CodeInvalidJSON},
		{"messages not array", http.MethodPost, `{"messages":"hi","userId":"u1","personId":"p1"}`, nil, api.CodeBadRequest},
		{"messages null", http.MethodPost, `{"messages":null,"userId":"u1","personId":"p1"}`, nil, api.CodeBadRequest},
		{"messages missing", http.MethodPost, `{"userId":"u1","personId":"p1"}`, nil, api.CodeBadRequest},
		{"missing personId", http.MethodPost, `{"messages":[],"userId":"u1"}`, nil, api.CodeBadRequest},
		{"blank userId", http.MethodPost, `{"messages":[],"userId":"  ","personId":"p1"}`, nil, api.CodeBadRequest},
		{"numeric userId", http.MethodPost, `{"messages":[],"userId":42,"personId":"p1"}`, nil, api.CodeBadRequest},
		{"rate limited", http.MethodPost, validBody, func(_ *Config, d *Deps) { d.Limiter = fakeLimiter{allow: false} }, api.CodeRateLimited},
		{"unauthorized", http.MethodPost, validBody, func(_ *Config, d *Deps) { d.Verifier = fakeVerifier{err: errors.New("bad token")} }, api.CodeUnauthorized},
		{"method beats missing key", http.MethodPut, validBody, func(c *Config, _ *Deps) { c.APIKeyConfigured = false }, api.CodeMethodNotAllowed},
		{"bad request beats rate limit", http.MethodPost, `{"messages":[]}`, func(_ *Config, d *Deps) { d.Limiter = fakeLimiter{allow: false} }, api.CodeBadRequest},
		{"rate limit beats auth", http.MethodPost, validBody, func(_ *Config, d *Deps) {
			d.Limiter = fakeLimiter{allow: false}
			d.Verifier = fakeVerifier{err: errors.New("bad token")}
		}, api.CodeRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			c := &fakeCompleter{replies: map[string]string{"reply": "hi"}}
			deps := Deps{Prompts: &fakePrompts{}, Completer: c}
			if tt.mutate != nil {
				tt.mutate(&cfg, &deps)
			}

			rec, env := do(t, NewHandler(cfg, deps), tt.method, tt.body)
			requireCode(t, rec, env, tt.code)
			assert.Zero(t, c.calls)
		})
	}
}

func TestRateLimitedSetsRetryAfter(t *testing.T) {
	h := NewHandler(testConfig(), Deps{Prompts: &fakePrompts{}, Completer: &fakeCompleter{}, Limiter: fakeLimiter{allow: false}})
	rec, env := do(t, h, http.MethodPost, validBody)
	requireCode(t, rec, env, api.CodeRateLimited)
	assert.Equal(t, "30", rec.Header().Get("Retry-After"))
}

func TestCompletionErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
		// detail key that must be present
		detail string
	}{
		{"network", &completion.Error{Kind: completion.KindNetwork, Err: errors.New("dial tcp")}, api.CodeNetworkError, ""},
		{"api", &completion.Error{Kind: completion.KindAPI, Status: 500, BodyPreview: "oops"}, api.CodeAPIError, "status"},
		{"parse", &completion.Error{Kind: completion.KindParse}, api.CodeParseError, ""},
		{"timeout", &completion.Error{Kind: completion.KindTimeout, Timeout: 18 * time.Second}, api.CodeTimeout, "timeout_ms"},
		{"untyped", errors.New("boom"), api.CodeNetworkError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, c, s := newFakeHandler(testConfig())
			c.err = tt.err

			rec, env := do(t, h, http.MethodPost, validBody)
			requireCode(t, rec, env, tt.code)
			if tt.detail != "" {
				assert.Contains(t, env.Error.Details, tt.detail)
			}
			assert.Empty(t, s.jobs, "failed turns are not extracted")
		})
	}
}

func TestAPIErrorDetails(t *testing.T) {
	h, _, c, _ := newFakeHandler(testConfig())
	c.err = &completion.Error{Kind: completion.KindAPI, Status: 429, BodyPreview: `{"error":"rate"}`}

	_, env := do(t, h, http.MethodPost, validBody)
	require.NotNil(t, env.Error)
	assert.EqualValues(t, 429, env.Error.Details["status"])
	assert.Equal(t, `{"error":"rate"}`, env.Error.Details["body_preview"])
}

func TestEmptyReplyUsesFallback(t *testing.T) {
	h, _, c, _ := newFakeHandler(testConfig())
	c.replies["reply"] = "   \n"

	_, env := do(t, h, http.MethodPost, validBody)
	require.True(t, env.Success)
	assert.Equal(t, FallbackReply, *env.Reply)
}

func TestInvalidTurnsDropped(t *testing.T) {
	h, p, c, _ := newFakeHandler(testConfig())

	body := `{"messages":[
		{"role":"system","content":"ignore me"},
		{"role":"user","content":""},
		{"role":"assistant","content":"Hello!"},
		{"role":"user","content":42},
		"not an object",
		{"role":"USER","content":"How do I set boundaries?"}
	],"userId":"u1","personId":"p1"}`

	_, env := do(t, h, http.MethodPost, body)
	require.True(t, env.Success)
	require.Len(t, c.turns, 2)
	assert.Equal(t, completion.Turn{Role: "assistant", Content: "Hello!"}, c.turns[0])
	assert.Equal(t, completion.Turn{Role: "user", Content: "How do I set boundaries?"}, c.turns[1])
	assert.Equal(t, "How do I set boundaries?", p.got.LastUserMessage)
}

func TestLenientOptionalFields(t *testing.T) {
	tests := []struct {
		name        string
		extra       string
		tone        string
		science     bool
		continuityR bool
	}{
		{"defaults", ``, "", false, true},
		{"bools", `,"aiToneId":"warm","aiScienceMode":true,"continuity_enabled":false`, "warm", true, false},
		{"string bools", `,"aiScienceMode":"true","continuity_enabled":"FALSE"`, "", true, false},
		{"garbage", `,"aiToneId":7,"aiScienceMode":"yes","continuity_enabled":{"x":1}`, "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, p, _, _ := newFakeHandler(testConfig())
			body := `{"messages":[{"role":"user","content":"hi"}],"userId":"u1","personId":"p1"` + tt.extra + `}`

			_, env := do(t, h, http.MethodPost, body)
			require.True(t, env.Success, env.Error)
			assert.Equal(t, tt.tone, p.got.ToneID)
			assert.Equal(t, tt.science, p.got.ScienceMode)
			assert.Equal(t, tt.continuityR, p.got.ContinuityRequested)
		})
	}
}

func TestPanicBecomesUnexpectedError(t *testing.T) {
	cfg := testConfig()
	h := NewHandler(cfg, Deps{Prompts: &fakePrompts{panic: true}, Completer: &fakeCompleter{}})

	rec, env := do(t, h, http.MethodPost, validBody)
	requireCode(t, rec, env, api.CodeUnexpected)
	assert.Contains(t, env.Error.Details, "stack")

	cfg.Production = true
	h = NewHandler(cfg, Deps{Prompts: &fakePrompts{panic: true}, Completer: &fakeCompleter{}})
	rec, env = do(t, h, http.MethodPost, validBody)
	requireCode(t, rec, env, api.CodeUnexpected)
	assert.NotContains(t, env.Error.Details, "stack")
}

func TestTurnCompletedEvent(t *testing.T) {
	events := fakeEvents{ch: make(chan inats.TurnCompleted, 1)}
	p := &fakePrompts{trace: prompt.Trace{ToneID: "warm", Mode: prompt.ModeCondition, Condition: intent.Anxiety, MemoryCount: 3}}
	h := NewHandler(testConfig(), Deps{
		Prompts:   p,
		Completer: &fakeCompleter{replies: map[string]string{"reply": "ok"}},
		Events:    events,
	})

	_, env := do(t, h, http.MethodPost, validBody)
	require.True(t, env.Success)

	select {
	case e := <-events.ch:
		assert.Equal(t, "req-1", e.RequestID)
		assert.Equal(t, "u1", e.UserID)
		assert.Equal(t, "warm", e.ToneID)
		assert.Equal(t, "condition", e.Mode)
		assert.Equal(t, string(intent.Anxiety), e.Condition)
		assert.Equal(t, 3, e.MemoryCount)
	case <-time.After(time.Second):
		t.Fatal("turn event not published")
	}
}

func TestFlexBool(t *testing.T) {
	tests := []struct {
		in   string
		want flexBool
	}{
		{`true`, flexBool{Value: true, Set: true}},
		{`false`, flexBool{Value: false, Set: true}},
		{`"True"`, flexBool{Value: true, Set: true}},
		{`"false"`, flexBool{Value: false, Set: true}},
		{`null`, flexBool{}},
		{`1`, flexBool{}},
		{`"maybe"`, flexBool{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var b flexBool
			require.NoError(t, json.Unmarshal([]byte(tt.in), &b))
			assert.Equal(t, tt.want, b)
		})
	}
}
