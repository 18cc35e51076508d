// Package executor implements the Executor role described in spec §4.4:
// it drives a TaskPlan against a per-run ExecutionContext, resolving
// arguments, invoking tools, handling dependencies, retries, and the
// bounded deterministic recovery rules.
package executor

import (
	"sync"

	"github.com/triadrun/agentcore/pkg/coretypes"
)

// ExecutionContext is the per-run mutable accumulator of side effects and
// history described in spec §5: mutated in exactly one place in the
// sequential loop, or guarded by this mutex in the parallel loop.
type ExecutionContext struct {
	mu              sync.Mutex
	previousResults []coretypes.ExecutionResult
	createdFiles    []string
	taskHistory     []coretypes.TaskHistoryEntry
	approvalState   coretypes.ApprovalState
}

// NewExecutionContext returns an empty context ready for one run, seeded
// with the run's initial approval mode.
func NewExecutionContext(mode coretypes.ApprovalMode) *ExecutionContext {
	return &ExecutionContext{approvalState: coretypes.ApprovalState{Mode: mode}}
}

// ApprovalState returns the current approval bookkeeping for this run.
func (c *ExecutionContext) ApprovalState() coretypes.ApprovalState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.approvalState
}

// SetApprovalState updates the run's approval bookkeeping, e.g. after the
// ApprovalGate folds in a confirmed decision.
func (c *ExecutionContext) SetApprovalState(s coretypes.ApprovalState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.approvalState = s
}

// PreviousResults returns a snapshot copy of results accumulated so far.
func (c *ExecutionContext) PreviousResults() []coretypes.ExecutionResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]coretypes.ExecutionResult, len(c.previousResults))
	copy(out, c.previousResults)
	return out
}

// ResultByTaskID returns a prior result for taskID, if any, for dependency
// lookups during argument resolution.
func (c *ExecutionContext) ResultByTaskID(taskID string) (coretypes.ExecutionResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.previousResults {
		if r.TaskID == taskID {
			return r, true
		}
	}
	return coretypes.ExecutionResult{}, false
}

// CreatedFiles returns a snapshot copy of files created so far this run,
// most-recent last.
func (c *ExecutionContext) CreatedFiles() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.createdFiles))
	copy(out, c.createdFiles)
	return out
}

// LastCreatedFile returns the most recently created file, used for
// anaphoric argument substitution (spec §4.4 step 5).
func (c *ExecutionContext) LastCreatedFile() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.createdFiles) == 0 {
		return "", false
	}
	return c.createdFiles[len(c.createdFiles)-1], true
}

// AppendResult records a completed task's result.
func (c *ExecutionContext) AppendResult(r coretypes.ExecutionResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.previousResults = append(c.previousResults, r)
}

// AppendCreatedFile records a new side-effect path.
func (c *ExecutionContext) AppendCreatedFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.createdFiles = append(c.createdFiles, path)
}

// AppendHistory records a task history entry (always appended, regardless
// of task outcome, per spec §4.4).
func (c *ExecutionContext) AppendHistory(e coretypes.TaskHistoryEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.taskHistory = append(c.taskHistory, e)
}

// TaskHistory returns a snapshot copy of the accumulated history.
func (c *ExecutionContext) TaskHistory() []coretypes.TaskHistoryEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]coretypes.TaskHistoryEntry, len(c.taskHistory))
	copy(out, c.taskHistory)
	return out
}
