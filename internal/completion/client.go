// Package completion wraps the OpenAI-compatible chat completions API with a
// hard per-call timeout and a typed error taxonomy.
package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/samber/lo"

	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/config"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/metrics"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one chat message, oldest first.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options tune a single completion call.
type Options struct {
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	// Purpose labels the latency metric ("reply", "extraction").
	Purpose string
}

// Completer is the narrow interface callers depend on.
type Completer interface {
	Complete(ctx context.Context, systemPrompt string, turns []Turn, opts Options) (string, error)
}

// Client calls the chat completions endpoint through openai-go.
type Client struct {
	api   openai.Client
	model string
}

// NewClient builds a Client from config. SDK retries are disabled: the
// caller's timeout budget is the only retry policy.
func NewClient(cfg config.OpenAIConfig, opts ...option.RequestOption) *Client {
	base := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		base = append(base, option.WithBaseURL(cfg.BaseURL))
	}
	return &Client{
		api:   openai.NewClient(append(base, opts...)...),
		model: cfg.Model,
	}
}

// Complete sends [system, ...turns] and returns the first choice's text.
// Every failure is an *Error.
func (c *Client) Complete(ctx context.Context, systemPrompt string, turns []Turn, opts Options) (string, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    buildMessages(systemPrompt, turns),
		Temperature: openai.Float(opts.Temperature),
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(opts.MaxTokens))
	}

	start := time.Now()
	resp, err := c.api.Chat.Completions.New(ctx, params)
	metrics.CompletionDuration.WithLabelValues(purposeLabel(opts.Purpose)).Observe(time.Since(start).Seconds())
	if err != nil {
		cerr := classify(ctx, err, opts.Timeout)
		slog.Debug("completion failed", "kind", cerr.Kind, "status", cerr.Status, "purpose", opts.Purpose)
		return "", cerr
	}

	if len(resp.Choices) == 0 {
		return "", &Error{Kind: KindParse, Err: errors.New("response contained no choices")}
	}
	return resp.Choices[0].Message.Content, nil
}

func buildMessages(systemPrompt string, turns []Turn) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns)+1)
	msgs = append(msgs, openai.SystemMessage(systemPrompt))
	return append(msgs, lo.FilterMap(turns, func(t Turn, _ int) (openai.ChatCompletionMessageParamUnion, bool) {
		switch t.Role {
		case RoleUser:
			return openai.UserMessage(t.Content), true
		case RoleAssistant:
			return openai.AssistantMessage(t.Content), true
		default:
			return openai.ChatCompletionMessageParamUnion{}, false
		}
	})...)
}

// classify maps an SDK error to the envelope taxonomy. Deadline checks come
// first: a cancelled transport surfaces as a *url.Error too.
func classify(ctx context.Context, err error, timeout time.Duration) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Timeout: timeout, Err: err}
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &Error{
			Kind:        KindAPI,
			Status:      apiErr.StatusCode,
			BodyPreview: preview(lo.CoalesceOrEmpty(apiErr.RawJSON(), apiErr.Message)),
			Err:         err,
		}
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return &Error{Kind: KindNetwork, Err: err}
	}

	return &Error{Kind: KindParse, Err: fmt.Errorf("decoding completion response: %w", err)}
}

func purposeLabel(p string) string {
	if p == "" {
		return "reply"
	}
	return p
}
