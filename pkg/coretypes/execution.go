package coretypes

import "time"

// ExecutionResult is the outcome of running one Task against the registry.
type ExecutionResult struct {
	TaskID    string
	Success   bool
	Output    string
	Error     string
	ToolsUsed []string
	Duration  time.Duration
}

// TaskHistoryEntry logs one completed task within an ExecutionContext's
// taskHistory, in the order tasks actually finished.
type TaskHistoryEntry struct {
	TaskID      string
	Description string
	Timestamp   time.Time
	ToolsUsed   []string
	Result      ExecutionResult
	Duration    time.Duration
}

// TokenUsage is emitted per LLM call.
type TokenUsage struct {
	Input  int
	Output int
	Total  int
}
