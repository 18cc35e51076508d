package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/triadrun/agentcore/pkg/coretypes"
)

// anthropicBackend talks to the Anthropic Messages API directly, used when
// Config.Provider is "anthropic"; every other provider value selects the
// OpenAI-compatible backend. It never uses streaming: the Planner's JSON-mode
// call wants one complete string, not incremental chunks.
type anthropicBackend struct {
	client       anthropic.Client
	defaultModel string
}

func newAnthropicBackend(apiKey, baseURL, defaultModel string) *anthropicBackend {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &anthropicBackend{
		client:       anthropic.NewClient(opts...),
		defaultModel: defaultModel,
	}
}

func (b *anthropicBackend) name() string { return "anthropic" }

func (b *anthropicBackend) complete(ctx context.Context, req completionRequest) (string, coretypes.TokenUsage, error) {
	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		block := anthropic.NewTextBlock(m.Content)
		switch m.Role {
		case RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(block))
		default:
			messages = append(messages, anthropic.NewUserMessage(block))
		}
	}

	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(b.defaultModel),
		MaxTokens: maxTokens,
		Messages:  messages,
	}
	if req.System != "" {
		system := req.System
		if req.ForceJSON {
			system += "\n\nRespond with raw JSON only, no prose, no markdown code fences."
		}
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	message, err := b.client.Messages.New(ctx, params)
	if err != nil {
		return "", coretypes.TokenUsage{}, err
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", coretypes.TokenUsage{}, fmt.Errorf("llm: anthropic response had no text content")
	}

	usage := coretypes.TokenUsage{
		Input:  int(message.Usage.InputTokens),
		Output: int(message.Usage.OutputTokens),
		Total:  int(message.Usage.InputTokens + message.Usage.OutputTokens),
	}
	return text.String(), usage, nil
}
