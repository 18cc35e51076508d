// Package coretypes defines the shared data model exchanged between the
// Planner, Executor, and Orchestrator: prompts, plans, tasks, execution
// results, and the small set of cross-cutting value types (token usage,
// trio messages, approval decisions, tool schemas) that none of the three
// roles owns exclusively.
package coretypes

// Mode is a pacing hint derived from the user's prompt. It never gates
// behavior on its own; it only biases token budgets and logging verbosity.
type Mode string

const (
	ModeDirect  Mode = "direct"
	ModeConcise Mode = "concise"
	ModeDeep    Mode = "deep"
)

// Prompt carries the user's raw request plus the detected Mode.
type Prompt struct {
	Text string
	Mode Mode
}

// NewPrompt wraps raw text with the default mode. Callers that have already
// classified the prompt should set Mode directly.
func NewPrompt(text string) Prompt {
	return Prompt{Text: text, Mode: ModeConcise}
}
