package executor

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/triadrun/agentcore/internal/approval"
	"github.com/triadrun/agentcore/internal/events"
	"github.com/triadrun/agentcore/internal/llm"
	"github.com/triadrun/agentcore/internal/tools"
	"github.com/triadrun/agentcore/pkg/coretypes"
)

// chatClient is the narrow dependency Executor needs for content
// generation (spec §4.4 step 3), broken out so tests can fake it without
// touching llm's unexported backend machinery.
type chatClient interface {
	Chat(ctx context.Context, messages []llm.Message, tools []coretypes.ToolSchema, forceJSON bool, maxTokens int) (string, error)
}

// approvalGate is the narrow dependency Executor needs from
// approval.Gate, broken out for the same testing reason as chatClient.
type approvalGate interface {
	Check(ctx context.Context, toolName string, args map[string]any, details *tools.ConfirmationDetails, state coretypes.ApprovalState) (approval.Decision, coretypes.ApprovalState, error)
}

// Config tunes Executor behavior beyond the defaults spec §9 leaves open.
type Config struct {
	// ToolTimeout bounds a single tool invocation. Default: 30s.
	ToolTimeout time.Duration
	// ContentMaxTokens bounds generateFileContent's output. Default: 8192
	// (spec open-question resolution, see SPEC_FULL.md §D).
	ContentMaxTokens int
}

func (c Config) withDefaults() Config {
	if c.ToolTimeout <= 0 {
		c.ToolTimeout = 30 * time.Second
	}
	if c.ContentMaxTokens <= 0 {
		c.ContentMaxTokens = 8192
	}
	return c
}

// Executor is the Executor role from spec §4.4. It holds the tool
// registry, the dedicated content-generation client, and the per-run
// cancellation token registry; ExecutionContext lives per call, not here.
type Executor struct {
	registry *tools.Registry
	client   chatClient
	gate     approvalGate
	bus      events.Bus

	toolTimeout      time.Duration
	contentMaxTokens int

	cancels *cancelRegistry
}

// New constructs an Executor. bus may be nil (defaulted to a no-op bus).
// gate may be nil, in which case ShouldConfirm results are never consulted
// and every tool call runs unconditionally (matching a pre-ApprovalGate
// caller or a test that doesn't exercise confirmation at all).
func New(registry *tools.Registry, client chatClient, gate approvalGate, bus events.Bus, cfg Config) *Executor {
	cfg = cfg.withDefaults()
	if bus == nil {
		bus = events.NopBus{}
	}
	return &Executor{
		registry:         registry,
		client:           client,
		gate:             gate,
		bus:              bus,
		toolTimeout:      cfg.ToolTimeout,
		contentMaxTokens: cfg.ContentMaxTokens,
		cancels:          newCancelRegistry(),
	}
}

// AbortTask cancels a single in-flight task by id.
func (e *Executor) AbortTask(taskID string) { e.cancels.abortTask(taskID) }

// AbortAll cancels every task currently registered for this Executor.
func (e *Executor) AbortAll() { e.cancels.abortAll() }

// ExecuteTask runs a single task through the PENDING→RUNNING→{SUCCEEDED,
// FAILED,ABORTED} state machine described in spec §4.4.
func (e *Executor) ExecuteTask(ctx context.Context, task coretypes.Task, ec *ExecutionContext) coretypes.ExecutionResult {
	start := time.Now()
	taskCtx, cancel := e.cancels.register(ctx, task.ID)
	defer func() {
		cancel()
		e.cancels.unregister(task.ID)
	}()

	e.bus.Publish(taskCtx, events.Event{Kind: events.KindTaskStart, TaskID: task.ID, Message: task.Description})
	e.bus.Publish(taskCtx, events.Event{Kind: events.KindStatus, TaskID: task.ID, Message: "starting " + task.Description})

	if task.Type == coretypes.TaskSimple {
		result := coretypes.ExecutionResult{TaskID: task.ID, Success: true, Duration: time.Since(start)}
		e.bus.Publish(taskCtx, events.Event{Kind: events.KindTaskComplete, TaskID: task.ID})
		e.recordSideEffects(task, result, ec)
		return result
	}

	var toolsUsed []string
	var lastOutput string
	for _, toolName := range task.Tools {
		if err := taskCtx.Err(); err != nil {
			result := coretypes.ExecutionResult{TaskID: task.ID, Success: false, Error: "aborted", ToolsUsed: toolsUsed, Duration: time.Since(start)}
			e.bus.Publish(taskCtx, events.Event{Kind: events.KindTaskAborted, TaskID: task.ID})
			e.recordSideEffects(task, result, ec)
			return result
		}

		args, err := e.resolveArguments(taskCtx, task, toolName, ec)
		if err != nil {
			result := coretypes.ExecutionResult{TaskID: task.ID, Success: false, Error: err.Error(), ToolsUsed: toolsUsed, Duration: time.Since(start)}
			e.bus.Publish(taskCtx, events.Event{Kind: events.KindTaskError, TaskID: task.ID, Message: err.Error()})
			e.recordSideEffects(task, result, ec)
			return result
		}

		if denied, err := e.checkApproval(taskCtx, toolName, args, ec); err != nil || denied {
			msg := "approval-denied"
			if err != nil {
				msg = err.Error()
			}
			result := coretypes.ExecutionResult{TaskID: task.ID, Success: false, Error: msg, ToolsUsed: toolsUsed, Duration: time.Since(start)}
			e.bus.Publish(taskCtx, events.Event{Kind: events.KindTaskError, TaskID: task.ID, Message: msg})
			e.recordSideEffects(task, result, ec)
			return result
		}

		e.bus.Publish(taskCtx, events.Event{Kind: events.KindToolExecute, TaskID: task.ID, ToolName: toolName, Args: args})
		e.bus.Publish(taskCtx, events.Event{Kind: events.KindStatus, TaskID: task.ID, Message: displayName(toolName, args)})

		callStart := time.Now()
		callCtx, cancelCall := context.WithTimeout(taskCtx, e.toolTimeout)
		toolResult := e.registry.Execute(callCtx, toolName, args)
		cancelCall()
		callDuration := time.Since(callStart)

		e.bus.Publish(taskCtx, events.Event{Kind: events.KindToolResult, TaskID: task.ID, ToolName: toolName, Data: map[string]any{"duration_seconds": callDuration.Seconds()}})
		toolsUsed = append(toolsUsed, toolName)

		if !toolResult.Success {
			e.bus.Publish(taskCtx, events.Event{Kind: events.KindToolFailure, TaskID: task.ID, ToolName: toolName, Message: toolResult.Error, Data: map[string]any{"duration_seconds": callDuration.Seconds()}})
			if recovered, ok := e.recover(taskCtx, toolName, args, toolResult); ok {
				toolResult = recovered
			}
		}

		if !toolResult.Success {
			result := coretypes.ExecutionResult{TaskID: task.ID, Success: false, Error: toolResult.Error, ToolsUsed: toolsUsed, Duration: time.Since(start)}
			if taskCtx.Err() != nil {
				e.bus.Publish(taskCtx, events.Event{Kind: events.KindTaskAborted, TaskID: task.ID})
			} else {
				e.bus.Publish(taskCtx, events.Event{Kind: events.KindTaskError, TaskID: task.ID, Message: toolResult.Error})
			}
			e.recordSideEffects(task, result, ec)
			return result
		}
		lastOutput = toolResult.Output
	}

	result := coretypes.ExecutionResult{TaskID: task.ID, Success: true, Output: lastOutput, ToolsUsed: toolsUsed, Duration: time.Since(start)}
	e.bus.Publish(taskCtx, events.Event{Kind: events.KindTaskComplete, TaskID: task.ID})
	e.recordSideEffects(task, result, ec)
	return result
}

// checkApproval consults the ApprovalGate, if one is wired, before a tool
// call runs (spec §4.5/§7: "approval-denied" is a distinct failure kind,
// never silently skipped). A nil gate or a tool that never asked for
// confirmation both resolve to running unconditionally.
func (e *Executor) checkApproval(ctx context.Context, toolName string, args map[string]any, ec *ExecutionContext) (denied bool, err error) {
	if e.gate == nil {
		return false, nil
	}
	details := e.registry.ShouldConfirm(toolName, args)
	if details == nil {
		return false, nil
	}

	decision, newState, err := e.gate.Check(ctx, toolName, args, details, ec.ApprovalState())
	if err != nil {
		return true, err
	}
	ec.SetApprovalState(newState)
	return decision != approval.Allowed, nil
}

// ExecutePlan runs every task in plan against ec, sequentially or in
// parallel per plan.Parallelizable (spec §4.4).
func (e *Executor) ExecutePlan(ctx context.Context, plan *coretypes.TaskPlan, ec *ExecutionContext) []coretypes.ExecutionResult {
	e.bus.Publish(ctx, events.Event{Kind: events.KindPlanStart, Message: "plan-start"})

	var results []coretypes.ExecutionResult
	if plan.Parallelizable {
		results = e.executeParallel(ctx, plan.Tasks, ec)
	} else {
		results = e.executeSequential(ctx, plan.Tasks, ec)
	}

	anyFailed := false
	for _, r := range results {
		if !r.Success {
			anyFailed = true
			break
		}
	}
	if anyFailed {
		e.bus.Publish(ctx, events.Event{Kind: events.KindPlanError, Message: "one or more tasks failed"})
	} else {
		e.bus.Publish(ctx, events.Event{Kind: events.KindPlanComplete, Message: "plan-complete"})
	}
	return results
}

// executeSequential stops at the first failure (spec §4.4): completed
// results are preserved and returned, no further tasks start.
func (e *Executor) executeSequential(ctx context.Context, tasks []coretypes.Task, ec *ExecutionContext) []coretypes.ExecutionResult {
	results := make([]coretypes.ExecutionResult, 0, len(tasks))
	for _, task := range tasks {
		result := e.ExecuteTask(ctx, task, ec)
		ec.AppendResult(result)
		results = append(results, result)
		if !result.Success {
			break
		}
	}
	return results
}

// executeParallel launches every task concurrently; failures are
// per-task, fail-soft (spec §4.4): no task is aborted because a sibling
// failed. Result order matches plan.tasks order regardless of completion
// order.
func (e *Executor) executeParallel(ctx context.Context, tasks []coretypes.Task, ec *ExecutionContext) []coretypes.ExecutionResult {
	results := make([]coretypes.ExecutionResult, len(tasks))
	var wg sync.WaitGroup
	wg.Add(len(tasks))
	for i, task := range tasks {
		go func(i int, task coretypes.Task) {
			defer wg.Done()
			result := e.ExecuteTask(ctx, task, ec)
			ec.AppendResult(result)
			results[i] = result
		}(i, task)
	}
	wg.Wait()
	return results
}

var (
	filePattern1 = regexp.MustCompile(`(?i)file written: (\S+)`)
	filePattern2 = regexp.MustCompile(`(?i)created: (\S+)`)
	extBearingRe = regexp.MustCompile(`\b([\w./-]+\.\w{1,5})\b`)
)

// recordSideEffects inspects a completed task's output for file-creation
// markers and always appends a task history entry, per spec §4.4.
func (e *Executor) recordSideEffects(task coretypes.Task, result coretypes.ExecutionResult, ec *ExecutionContext) {
	if result.Success {
		if m := filePattern1.FindStringSubmatch(result.Output); m != nil {
			ec.AppendCreatedFile(m[1])
		} else if m := filePattern2.FindStringSubmatch(result.Output); m != nil {
			ec.AppendCreatedFile(m[1])
		} else if m := extBearingRe.FindStringSubmatch(task.Description); m != nil && hasFileTool(task.Tools) {
			ec.AppendCreatedFile(m[1])
		}
	}

	ec.AppendHistory(coretypes.TaskHistoryEntry{
		TaskID:      task.ID,
		Description: task.Description,
		ToolsUsed:   result.ToolsUsed,
		Result:      result,
		Duration:    result.Duration,
	})
}

func hasFileTool(toolNames []string) bool {
	for _, t := range toolNames {
		if t == "write_file" || t == "file" || t == "edit" {
			return true
		}
	}
	return false
}

// displayName builds the short status summary from spec §4.4: Write(path),
// Bash(cmd…), WebSearch("q").
func displayName(toolName string, args map[string]any) string {
	switch toolName {
	case "write_file", "file":
		if p, ok := args["file_path"].(string); ok && p != "" {
			return fmt.Sprintf("Write(%s)", p)
		}
		return "Write(...)"
	case "bash":
		if c, ok := args["command"].(string); ok && c != "" {
			return fmt.Sprintf("Bash(%s)", truncate(c, 40))
		}
		return "Bash(...)"
	case "web":
		if q, ok := args["query"].(string); ok && q != "" {
			return fmt.Sprintf("WebSearch(%q)", q)
		}
		return "WebSearch(...)"
	default:
		return fmt.Sprintf("%s(...)", toolName)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n]) + "…"
}
