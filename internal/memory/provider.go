// Package memory specifies the MemoryProvider boundary. The persistent
// memory/embedding store and vector retrieval live outside this repo's
// scope (spec §1); this package only names the black-box contract the
// Planner and Orchestrator consume, plus a NopProvider for runs where no
// store is attached.
package memory

import "context"

// PromptComponents is what a MemoryProvider contributes to a Planner call:
// ephemeral conversational context plus retrieved knowledge segments, kept
// separate so the Planner can decide how to fold them into its prompt
// rather than receiving a single opaque blob.
type PromptComponents struct {
	Ephemeral []string
	Knowledge []string
}

// Provider is the external collaborator described in spec §6: the core
// treats it as a black box. Retrieval failures must never abort a run —
// callers log and proceed with the raw prompt (spec §4.3 step 1).
type Provider interface {
	// BuildPrompt returns ephemeral + knowledge segments relevant to
	// prompt, to be prepended ahead of the user's text.
	BuildPrompt(ctx context.Context, prompt string) (PromptComponents, error)

	// StoreKnowledge persists a single fact under key/category. Used for
	// the Orchestrator's post-execution write-back (spec §4.5 step 7).
	StoreKnowledge(ctx context.Context, key, value, category string) error

	// StoreChunk persists a semantic chunk suitable for later retrieval,
	// tagged by a source path, a kind (e.g. "plan-summary", "file"), and
	// free-form metadata.
	StoreChunk(ctx context.Context, path, content, kind string, metadata map[string]string) error

	// AddAssistantResponse records the final synthesized response text as
	// part of the ephemeral conversation history.
	AddAssistantResponse(ctx context.Context, text string) error

	// TrackAPITokens accumulates LLM token spend against whatever budget
	// the provider's own store tracks.
	TrackAPITokens(ctx context.Context, n int) error

	// SetMode configures retrieval depth/behavior for the run's detected
	// mode (spec §4.5 step 2: direct/concise/deep).
	SetMode(mode string)
}

// NopProvider discards everything and never fails. Used when no
// MemoryProvider is attached; every method is a harmless no-op so the
// Planner/Orchestrator code paths that call it need no nil checks.
type NopProvider struct{}

func (NopProvider) BuildPrompt(ctx context.Context, prompt string) (PromptComponents, error) {
	return PromptComponents{}, nil
}

func (NopProvider) StoreKnowledge(ctx context.Context, key, value, category string) error {
	return nil
}

func (NopProvider) StoreChunk(ctx context.Context, path, content, kind string, metadata map[string]string) error {
	return nil
}

func (NopProvider) AddAssistantResponse(ctx context.Context, text string) error { return nil }

func (NopProvider) TrackAPITokens(ctx context.Context, n int) error { return nil }

func (NopProvider) SetMode(mode string) {}
