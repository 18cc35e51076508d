package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/triadrun/agentcore/internal/events"
	"github.com/triadrun/agentcore/pkg/coretypes"
)

type fakeBackend struct {
	calls     int
	responses []fakeResponse
}

type fakeResponse struct {
	text  string
	usage coretypes.TokenUsage
	err   error
}

func (f *fakeBackend) name() string { return "fake" }

func (f *fakeBackend) complete(ctx context.Context, req completionRequest) (string, coretypes.TokenUsage, error) {
	i := f.calls
	f.calls++
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	r := f.responses[i]
	return r.text, r.usage, r.err
}

func TestStripJSONFraming(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced-no-lang", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"whitespace", "  \n{\"a\":1}\n  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripJSONFraming(tt.in); got != tt.want {
				t.Errorf("stripJSONFraming(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClient_Chat_RetriesTransientThenSucceeds(t *testing.T) {
	fb := &fakeBackend{responses: []fakeResponse{
		{err: errors.New("503 service unavailable")},
		{err: errors.New("503 service unavailable")},
		{text: `{"type":"conversation","response":"ok"}`, usage: coretypes.TokenUsage{Total: 10}},
	}}
	c := &Client{backend: fb, cfg: Config{MaxRetries: 3, Timeout: time.Second}, bus: events.NopBus{}}

	out, err := c.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, nil, true, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"type":"conversation","response":"ok"}` {
		t.Errorf("unexpected output: %q", out)
	}
	if fb.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", fb.calls)
	}
}

func TestClient_Chat_PermanentErrorDoesNotRetry(t *testing.T) {
	fb := &fakeBackend{responses: []fakeResponse{
		{err: errors.New("400 invalid request")},
	}}
	c := &Client{backend: fb, cfg: Config{MaxRetries: 3, Timeout: time.Second}, bus: events.NopBus{}}

	_, err := c.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, nil, true, 100)
	if err == nil {
		t.Fatalf("expected error")
	}
	if fb.calls != 1 {
		t.Errorf("expected exactly 1 attempt for a permanent error, got %d", fb.calls)
	}
}

func TestClient_Chat_ExhaustsRetriesAndFails(t *testing.T) {
	fb := &fakeBackend{responses: []fakeResponse{
		{err: errors.New("429 too many requests")},
		{err: errors.New("429 too many requests")},
		{err: errors.New("429 too many requests")},
	}}
	c := &Client{backend: fb, cfg: Config{MaxRetries: 3, Timeout: time.Second}, bus: events.NopBus{}}

	_, err := c.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, nil, false, 100)
	if err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if fb.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", fb.calls)
	}
}
