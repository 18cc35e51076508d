package llm

import (
	"context"

	"github.com/triadrun/agentcore/pkg/coretypes"
)

// completionRequest is the backend-agnostic shape a concrete backend turns
// into a vendor-specific API call.
type completionRequest struct {
	System    string
	Messages  []Message
	ForceJSON bool
	MaxTokens int
}

// backend is one vendor transport (OpenAI/Azure OpenAI, Anthropic). Client
// wraps whichever backend is configured with the shared retry/timeout
// policy; backends themselves stay dumb request/response converters.
type backend interface {
	name() string
	complete(ctx context.Context, req completionRequest) (text string, usage coretypes.TokenUsage, err error)
}
