// Package planner implements the Planner role described in spec §4.3: it
// turns a Prompt into either a Conversation reply or a validated TaskPlan,
// never both, never partial.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/triadrun/agentcore/internal/events"
	"github.com/triadrun/agentcore/internal/llm"
	"github.com/triadrun/agentcore/internal/memory"
	"github.com/triadrun/agentcore/internal/tools"
	"github.com/triadrun/agentcore/pkg/coretypes"
)

// chatClient is the narrow slice of *llm.Client the Planner depends on,
// broken out as an interface so tests can substitute a fake without
// reaching into llm's unexported backend machinery.
type chatClient interface {
	Chat(ctx context.Context, messages []llm.Message, tools []coretypes.ToolSchema, forceJSON bool, maxTokens int) (string, error)
}

// Planner is the sole producer of TaskPlans. It holds no per-run mutable
// state: each CreatePlan call is independent.
type Planner struct {
	client   chatClient
	registry *tools.Registry
	memory   memory.Provider
	bus      events.Bus

	// maxTokens bounds the plan-generation call's output (distinct from
	// the Executor's content-generation cap).
	maxTokens int

	// nowUnixNano supplies the run timestamp used in generated task ids.
	// Overridable in tests; defaults to a monotonic counter seeded at
	// construction so ids stay deterministic without wall-clock access.
	nowUnixNano func() int64
}

// New constructs a Planner. bus and mem may be nil (defaulted to a no-op
// bus and provider respectively).
func New(client *llm.Client, registry *tools.Registry, mem memory.Provider, bus events.Bus, maxTokens int) *Planner {
	if bus == nil {
		bus = events.NopBus{}
	}
	if mem == nil {
		mem = memory.NopProvider{}
	}
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	var counter int64
	return &Planner{
		client:    client,
		registry:  registry,
		memory:    mem,
		bus:       bus,
		maxTokens: maxTokens,
		nowUnixNano: func() int64 {
			counter++
			return counter
		},
	}
}

// CreatePlan is the Planner's public contract. infoQuery biases the
// prompt toward the conversation shape per spec §4.5 step 3; the
// Orchestrator decides that flag, not the Planner.
func (p *Planner) CreatePlan(ctx context.Context, prompt coretypes.Prompt, infoQuery bool) (*coretypes.TaskPlan, error) {
	p.bus.Publish(ctx, events.Event{Kind: events.KindPlanningStart, Message: prompt.Text})

	var memoryContext []string
	if comps, err := p.memory.BuildPrompt(ctx, prompt.Text); err != nil {
		p.bus.Publish(ctx, events.Event{Kind: events.KindStatus, Message: "memory retrieval failed, continuing without context: " + err.Error()})
	} else {
		memoryContext = append(append([]string{}, comps.Ephemeral...), comps.Knowledge...)
	}

	toolSchemas := p.registry.GetTools()

	plan, err := p.attempt(ctx, prompt.Text, toolSchemas, memoryContext, infoQuery, false)
	if err != nil {
		p.bus.Publish(ctx, events.Event{Kind: events.KindStatus, Message: "plan parse failed, retrying with simplified prompt"})
		plan, err = p.attempt(ctx, prompt.Text, toolSchemas, memoryContext, infoQuery, true)
		if err != nil {
			p.bus.Publish(ctx, events.Event{Kind: events.KindPlanError, Message: err.Error(), Err: err, Final: true})
			return nil, ErrInvalidPlanJSON
		}
	}

	p.bus.Publish(ctx, events.Event{Kind: events.KindPlanningComplete, Message: "plan created"})
	return plan, nil
}

func (p *Planner) attempt(ctx context.Context, promptText string, toolSchemas []coretypes.ToolSchema, memoryContext []string, infoQuery, simplifiedRetry bool) (*coretypes.TaskPlan, error) {
	messages := buildMessages(promptText, toolSchemas, memoryContext, infoQuery, simplifiedRetry)

	raw, err := p.client.Chat(ctx, messages, toolSchemas, true, p.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("planner: chat: %w", err)
	}

	var parsed rawPlanResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("planner: %w: %v", ErrInvalidPlanJSON, err)
	}

	if parsed.Type == "conversation" {
		plan := &coretypes.TaskPlan{
			ID:                   p.newRunID(),
			OriginalPrompt:       promptText,
			Complexity:           coretypes.ComplexitySimple,
			IsConversation:       true,
			ConversationResponse: parsed.Response,
		}
		if err := plan.Validate(); err != nil {
			return nil, fmt.Errorf("planner: %w: %v", ErrInvalidPlanJSON, err)
		}
		return plan, nil
	}

	entries := parsed.entries()
	if len(entries) == 0 {
		return nil, fmt.Errorf("planner: %w: no tasks or conversation response present", ErrInvalidPlanJSON)
	}

	runTS := p.newRunID()
	tasks, err := normalizeTasks(entries, runTS)
	if err != nil {
		return nil, fmt.Errorf("planner: normalizing tasks: %w", err)
	}

	plan := &coretypes.TaskPlan{
		ID:             runTS,
		OriginalPrompt: promptText,
		Tasks:          tasks,
		Complexity:     classifyComplexity(promptText, tasks),
		Parallelizable: deriveParallelizable(tasks),
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("planner: %w: %v", ErrInvalidPlanJSON, err)
	}
	return plan, nil
}

func (p *Planner) newRunID() string {
	return "run_" + strconv.FormatInt(p.nowUnixNano(), 10)
}

// Synthesize makes the second Planner call described in spec §4.5 step 8:
// framed as "SIMPLE QUESTION" over already-retrieved tool outputs. It must
// return a conversation response; if the LLM instead returns a task plan,
// that is a hard synthesis failure and the caller must not fall back to a
// generic paraphrase.
func (p *Planner) Synthesize(ctx context.Context, originalPrompt string, retrievedOutputs []string) (string, error) {
	messages := synthesisMessages(originalPrompt, retrievedOutputs)
	raw, err := p.client.Chat(ctx, messages, nil, true, p.maxTokens)
	if err != nil {
		return "", fmt.Errorf("planner: synthesis chat: %w", err)
	}

	var parsed rawPlanResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return "", fmt.Errorf("planner: synthesis-failed: invalid JSON: %w", err)
	}
	if parsed.Type != "conversation" || parsed.Response == "" {
		return "", fmt.Errorf("planner: synthesis-failed: expected a conversation response, got type=%q", parsed.Type)
	}
	return parsed.Response, nil
}
