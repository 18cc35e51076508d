package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/triadrun/agentcore/pkg/coretypes"
)

// openAIBackend talks to either the public OpenAI API or an Azure OpenAI
// deployment, selected at construction time by which config fields the
// caller populated. This mirrors the CLI's env contract in spec §6:
// API_KEY/ENDPOINT for vanilla OpenAI-compatible hosts, AZURE_API_KEY/
// AZURE_ENDPOINT_URL/API_VERSION for Azure.
type openAIBackend struct {
	client       *openai.Client
	defaultModel string
}

// AzureConfig selects the Azure OpenAI wire path.
type AzureConfig struct {
	APIKey     string
	Endpoint   string
	APIVersion string
}

func newOpenAIBackend(apiKey, baseURL, defaultModel string) *openAIBackend {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &openAIBackend{client: openai.NewClientWithConfig(cfg), defaultModel: defaultModel}
}

func newAzureOpenAIBackend(az AzureConfig, defaultModel string) *openAIBackend {
	cfg := openai.DefaultAzureConfig(az.APIKey, az.Endpoint)
	if az.APIVersion != "" {
		cfg.APIVersion = az.APIVersion
	}
	return &openAIBackend{client: openai.NewClientWithConfig(cfg), defaultModel: defaultModel}
}

func (b *openAIBackend) name() string { return "openai" }

func (b *openAIBackend) complete(ctx context.Context, req completionRequest) (string, coretypes.TokenUsage, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
			Name:    m.Name,
		})
	}

	ccr := openai.ChatCompletionRequest{
		Model:     b.defaultModel,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
	}
	if req.ForceJSON {
		ccr.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := b.client.CreateChatCompletion(ctx, ccr)
	if err != nil {
		return "", coretypes.TokenUsage{}, err
	}
	if len(resp.Choices) == 0 {
		return "", coretypes.TokenUsage{}, fmt.Errorf("llm: openai response had no choices")
	}

	usage := coretypes.TokenUsage{
		Input:  resp.Usage.PromptTokens,
		Output: resp.Usage.CompletionTokens,
		Total:  resp.Usage.TotalTokens,
	}
	return resp.Choices[0].Message.Content, usage, nil
}
