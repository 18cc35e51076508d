package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/triadrun/agentcore/internal/backoff"
	"github.com/triadrun/agentcore/internal/events"
	"github.com/triadrun/agentcore/internal/retry"
	"github.com/triadrun/agentcore/pkg/coretypes"
)

// Config configures the Client's chosen backend and retry/timeout policy.
type Config struct {
	// Provider selects which backend to construct: "openai", "azure", or
	// "anthropic". Left to the caller (internal/config) to derive from
	// which env vars are populated.
	Provider string

	APIKey     string
	Endpoint   string
	Model      string
	APIVersion string

	// Timeout bounds a single attempt (spec §4.1 default: 120s).
	Timeout time.Duration
	// MaxRetries bounds total attempts per Chat call (spec default: 3).
	MaxRetries int
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = 120 * time.Second
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	return c
}

// Client is the single thread-safe conduit to the external chat-completion
// endpoint described in spec §4.1. It is safe for concurrent use: each Chat
// call is independent request-scoped state, there is no shared mutable
// field beyond the immutable backend handle.
type Client struct {
	backend backend
	cfg     Config
	bus     events.Bus
}

// New constructs a Client from cfg, picking the backend per cfg.Provider.
func New(cfg Config, bus events.Bus) (*Client, error) {
	cfg = cfg.withDefaults()
	if bus == nil {
		bus = events.NopBus{}
	}

	var be backend
	switch strings.ToLower(cfg.Provider) {
	case "anthropic":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("llm: anthropic provider requires an API key")
		}
		model := cfg.Model
		if model == "" {
			model = "claude-sonnet-4-20250514"
		}
		be = newAnthropicBackend(cfg.APIKey, cfg.Endpoint, model)
	case "azure":
		if cfg.APIKey == "" || cfg.Endpoint == "" {
			return nil, fmt.Errorf("llm: azure provider requires an API key and endpoint")
		}
		model := cfg.Model
		if model == "" {
			model = "gpt-4o"
		}
		be = newAzureOpenAIBackend(AzureConfig{APIKey: cfg.APIKey, Endpoint: cfg.Endpoint, APIVersion: cfg.APIVersion}, model)
	default:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("llm: openai provider requires an API key")
		}
		model := cfg.Model
		if model == "" {
			model = "gpt-4o"
		}
		be = newOpenAIBackend(cfg.APIKey, cfg.Endpoint, model)
	}

	return &Client{backend: be, cfg: cfg, bus: bus}, nil
}

// Chat sends messages to the configured backend and returns the raw
// response text. tools is currently advisory only: the core's Planner
// always uses the textual-embed path (tool descriptions folded into the
// prompt text) rather than native function-calling, per spec §4.1/§4.3.
func (c *Client) Chat(ctx context.Context, messages []Message, tools []coretypes.ToolSchema, forceJSON bool, maxTokens int) (string, error) {
	_ = tools // advisory; textual-embed path does not need native tool schemas

	system, convo := splitSystem(messages)
	req := completionRequest{
		System:    system,
		Messages:  convo,
		ForceJSON: forceJSON,
		MaxTokens: maxTokens,
	}

	var result string
	var usage coretypes.TokenUsage

	retryCfg := retry.Config{
		MaxAttempts: c.cfg.MaxRetries,
		Policy:      backoff.ChatCompletionPolicy(),
		IsPermanent: func(err error) bool { return !Classify(err).IsRetryable() },
		OnRetry: func(attempt, maxAttempts int, err error) {
			c.bus.Publish(ctx, events.Event{
				Kind:    events.KindRetry,
				Message: err.Error(),
				Retry:   &events.RetryInfo{Attempt: attempt, MaxAttempts: maxAttempts},
			})
		},
	}

	res := retry.Do(ctx, retryCfg, func(attemptCtx context.Context) error {
		callCtx, cancel := context.WithTimeout(attemptCtx, c.cfg.Timeout)
		defer cancel()

		text, u, err := c.backend.complete(callCtx, req)
		if err != nil {
			if callCtx.Err() == context.DeadlineExceeded {
				c.bus.Publish(ctx, events.Event{Kind: events.KindTimeout, Message: "chat completion timed out"})
				return fmt.Errorf("llm: %s: timeout after %s: %w", c.backend.name(), c.cfg.Timeout, err)
			}
			return err
		}
		result = text
		usage = u
		return nil
	})

	if res.Err != nil {
		c.bus.Publish(ctx, events.Event{
			Kind:    events.KindError,
			Message: res.Err.Error(),
			Final:   true,
			Err:     res.Err,
		})
		return "", fmt.Errorf("llm: chat failed after %d attempt(s): %w", res.Attempts, res.Err)
	}

	c.bus.Publish(ctx, events.Event{Kind: events.KindTokenUsage, Tokens: &usage})

	if forceJSON {
		return stripJSONFraming(result), nil
	}
	return result, nil
}

// splitSystem pulls the first system message out of the slice (the
// backends take system as a dedicated field) and returns the rest
// untouched and in order; messages is never mutated.
func splitSystem(messages []Message) (string, []Message) {
	var system string
	rest := make([]Message, 0, len(messages))
	seenSystem := false
	for _, m := range messages {
		if m.Role == RoleSystem && !seenSystem {
			system = m.Content
			seenSystem = true
			continue
		}
		rest = append(rest, m)
	}
	return system, rest
}

// stripJSONFraming removes markdown code fences and leading/trailing
// whitespace around a JSON payload. It never attempts to repair invalid
// JSON beyond this cosmetic stripping; structural validity is the
// caller's responsibility per spec §4.1.
func stripJSONFraming(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```JSON")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}
