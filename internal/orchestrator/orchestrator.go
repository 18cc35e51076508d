// Package orchestrator implements the Orchestrator role of spec §4.5: the
// single top-level entry point that dispatches slash commands, detects
// mode, drives Planner then Executor, reconciles context, writes back to
// memory, and synthesizes the final user-visible response.
package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/triadrun/agentcore/internal/events"
	"github.com/triadrun/agentcore/internal/executor"
	"github.com/triadrun/agentcore/internal/memory"
	"github.com/triadrun/agentcore/internal/tools"
	"github.com/triadrun/agentcore/pkg/coretypes"
)

// planService is the narrow slice of *planner.Planner the Orchestrator
// depends on, broken out so tests can fake it.
type planService interface {
	CreatePlan(ctx context.Context, prompt coretypes.Prompt, infoQuery bool) (*coretypes.TaskPlan, error)
	Synthesize(ctx context.Context, originalPrompt string, retrievedOutputs []string) (string, error)
}

// execService is the narrow slice of *executor.Executor the Orchestrator
// depends on.
type execService interface {
	ExecutePlan(ctx context.Context, plan *coretypes.TaskPlan, ec *executor.ExecutionContext) []coretypes.ExecutionResult
}

// Result is the single entry point's return shape from spec §4.5:
// execute(prompt) → {success, response?, toolsUsed?, error?}.
type Result struct {
	Success   bool
	Response  string
	ToolsUsed []string
	Error     string
}

// synthesisTools is the set from spec §4.5 step 8: if at least one of
// these ran during a successful information-query plan, synthesize a
// conversational answer from their outputs instead of a bare op summary.
var synthesisTools = map[string]bool{
	"memory_retrieval": true,
	"git":              true,
	"read_file":        true,
	"rg":               true,
	"grep":             true,
}

// Orchestrator is the top-level conductor. One Orchestrator drives one
// plan at a time (spec §5: "cooperative single-owner per run").
type Orchestrator struct {
	registry *tools.Registry
	planner  planService
	exec     execService
	memory   memory.Provider
	bus      events.Bus

	approvalMode coretypes.ApprovalMode
}

// New constructs an Orchestrator. mem and bus may be nil.
func New(registry *tools.Registry, planner planService, exec execService, mem memory.Provider, bus events.Bus, approvalMode coretypes.ApprovalMode) *Orchestrator {
	if mem == nil {
		mem = memory.NopProvider{}
	}
	if bus == nil {
		bus = events.NopBus{}
	}
	return &Orchestrator{
		registry:     registry,
		planner:      planner,
		exec:         exec,
		memory:       mem,
		bus:          bus,
		approvalMode: approvalMode,
	}
}

// Execute is the Orchestrator's single entry point (spec §4.5).
func (o *Orchestrator) Execute(ctx context.Context, promptText string) Result {
	trimmed := strings.TrimSpace(promptText)
	if trimmed == "" {
		return Result{Success: false, Error: ErrInvalidInput.Error()}
	}

	o.bus.Publish(ctx, events.Event{Kind: events.KindOrchestrationStart, Message: trimmed})

	// Step 1: slash-command short path.
	if strings.HasPrefix(trimmed, "/") {
		r := o.handleSlashCommand(trimmed)
		o.bus.Publish(ctx, events.Event{Kind: events.KindOrchestrationComplete, Message: r.Response})
		return r
	}

	// Step 2: mode detection.
	mode := detectMode(trimmed)
	o.memory.SetMode(string(mode))

	// Step 3: information-query detection.
	infoQuery := isInformationQuery(trimmed)
	prompt := coretypes.Prompt{Text: trimmed, Mode: mode}

	result := o.runPlanAndExecute(ctx, prompt, infoQuery)

	o.bus.Publish(ctx, events.Event{Kind: events.KindOrchestrationComplete, Message: result.Response})
	return result
}

// runPlanAndExecute covers spec §4.5 steps 4-9, including the top-level
// simplified-meta-prompt retry when the Planner call itself fails.
func (o *Orchestrator) runPlanAndExecute(ctx context.Context, prompt coretypes.Prompt, infoQuery bool) Result {
	plan, err := o.planner.CreatePlan(ctx, prompt, infoQuery)
	if err != nil {
		o.bus.Publish(ctx, events.Event{Kind: events.KindStatus, Message: "planning failed, retrying with a simplified prompt: " + err.Error()})
		simplified := coretypes.Prompt{
			Text: "Split this request into a few small steps and reply with JSON only.\n\n" + prompt.Text,
			Mode: prompt.Mode,
		}
		plan, err = o.planner.CreatePlan(ctx, simplified, infoQuery)
	}
	if err != nil {
		o.bus.Publish(ctx, events.Event{Kind: events.KindOrchestrationError, Message: err.Error()})
		return Result{Success: false, Error: err.Error()}
	}

	if plan.IsConversation {
		if err := o.writeBack(ctx, prompt.Text, plan, nil); err != nil {
			o.bus.Publish(ctx, events.Event{Kind: events.KindStatus, Message: "memory write-back failed: " + err.Error()})
		}
		return Result{Success: true, Response: plan.ConversationResponse}
	}

	o.bus.Publish(ctx, events.Event{Kind: events.KindTrioMessage, Message: "execute this plan", Trio: &coretypes.TrioMessage{
		From: coretypes.RoleOrchestrator, To: coretypes.RoleExecutor, Type: coretypes.TrioStatus, Content: "execute this plan",
	}})

	ec := executor.NewExecutionContext(o.approvalMode)
	results := o.exec.ExecutePlan(ctx, plan, ec)

	if err := o.writeBack(ctx, prompt.Text, plan, results); err != nil {
		o.bus.Publish(ctx, events.Event{Kind: events.KindStatus, Message: "memory write-back failed: " + err.Error()})
	}

	return o.synthesize(ctx, prompt.Text, plan, results, infoQuery)
}

// synthesize implements spec §4.5 step 8's strict three-way branch.
func (o *Orchestrator) synthesize(ctx context.Context, originalPrompt string, plan *coretypes.TaskPlan, results []coretypes.ExecutionResult, infoQuery bool) Result {
	allSucceeded := true
	var failures []string
	var toolsUsed []string
	var outputs []string
	ranSynthesisTool := false

	for i, r := range results {
		toolsUsed = append(toolsUsed, r.ToolsUsed...)
		if !r.Success {
			allSucceeded = false
			desc := r.TaskID
			if i < len(plan.Tasks) {
				desc = plan.Tasks[i].Description
			}
			failures = append(failures, fmt.Sprintf("❌ %s: %s", desc, r.Error))
			continue
		}
		outputs = append(outputs, r.Output)
		for _, t := range r.ToolsUsed {
			if synthesisTools[t] {
				ranSynthesisTool = true
			}
		}
	}

	if !allSucceeded {
		return Result{
			Success:   false,
			Response:  fmt.Sprintf("%d/%d tasks completed. %s", len(results)-len(failures), len(results), strings.Join(failures, " ")),
			ToolsUsed: toolsUsed,
			Error:     "one or more tasks failed",
		}
	}

	if infoQuery && ranSynthesisTool {
		response, err := o.planner.Synthesize(ctx, originalPrompt, outputs)
		if err != nil {
			o.bus.Publish(ctx, events.Event{Kind: events.KindOrchestrationError, Message: err.Error()})
			return Result{Success: false, ToolsUsed: toolsUsed, Error: fmt.Sprintf("%s: %v", ErrSynthesisFailed, err)}
		}
		return Result{Success: true, Response: response, ToolsUsed: toolsUsed}
	}

	// All tasks succeeded but synthesis didn't apply (no info query, or no
	// synthesis-eligible tool ran). A file-creating run and a plain
	// tool-running run both collapse to the same concise operation
	// summary; the spec names only the file-creation case explicitly.
	return Result{Success: true, Response: fmt.Sprintf("Completed %d task(s).", len(results)), ToolsUsed: toolsUsed}
}

// writeBack is spec §4.5 step 7: persist a knowledge record and a
// semantic chunk. Failure is logged, never fatal.
func (o *Orchestrator) writeBack(ctx context.Context, originalPrompt string, plan *coretypes.TaskPlan, results []coretypes.ExecutionResult) error {
	var b strings.Builder
	fmt.Fprintf(&b, "prompt: %s\n", originalPrompt)
	if plan.IsConversation {
		fmt.Fprintf(&b, "response: %s\n", plan.ConversationResponse)
	} else {
		for i, t := range plan.Tasks {
			status := "pending"
			if i < len(results) {
				status = "ok"
				if !results[i].Success {
					status = "failed: " + results[i].Error
				}
			}
			fmt.Fprintf(&b, "- %s [%s] tools=%v -> %s\n", t.ID, t.Description, t.Tools, status)
		}
	}

	if err := o.memory.StoreKnowledge(ctx, plan.ID, b.String(), "run-summary"); err != nil {
		return err
	}
	if err := o.memory.StoreChunk(ctx, plan.ID, b.String(), "plan-summary", map[string]string{"prompt": originalPrompt}); err != nil {
		return err
	}
	if plan.ConversationResponse != "" {
		if err := o.memory.AddAssistantResponse(ctx, plan.ConversationResponse); err != nil {
			return err
		}
	}
	o.bus.Publish(ctx, events.Event{Kind: events.KindMemoryUpdate, Message: "write-back complete"})
	return nil
}
