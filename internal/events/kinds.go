package events

// Kind is the closed set of event kinds the core can emit. Consumers
// switch on Kind rather than matching on free-form event-name strings.
type Kind string

const (
	KindStatus      Kind = "status"
	KindTrioMessage Kind = "trio-message"
	KindError       Kind = "error"
	KindRetry       Kind = "retry"
	KindTimeout     Kind = "timeout"
	KindTokenUsage  Kind = "token-usage"

	KindPlanningStart    Kind = "planning-start"
	KindPlanningComplete Kind = "planning-complete"

	KindPlanStart   Kind = "plan-start"
	KindPlanComplete Kind = "plan-complete"
	KindPlanError   Kind = "plan-error"

	KindTaskStart   Kind = "task-start"
	KindTaskComplete Kind = "task-complete"
	KindTaskError   Kind = "task-error"
	KindTaskAborted Kind = "task-aborted"

	KindToolExecute Kind = "tool-execute"
	KindToolResult  Kind = "tool-result"
	KindToolFailure Kind = "tool-failure"

	KindOrchestrationStart    Kind = "orchestration-start"
	KindOrchestrationComplete Kind = "orchestration-complete"
	KindOrchestrationError    Kind = "orchestration-error"

	KindMemoryUpdate Kind = "memory-update"
)
