package coretypes

// TrioRole identifies one of the three coordinating components.
type TrioRole string

const (
	RolePlanner      TrioRole = "planner"
	RoleExecutor     TrioRole = "executor"
	RoleOrchestrator TrioRole = "orchestrator"
	RoleAll          TrioRole = "all"
)

// TrioMessageType categorizes a TrioMessage's intent.
type TrioMessageType string

const (
	TrioQuestion   TrioMessageType = "question"
	TrioResponse   TrioMessageType = "response"
	TrioAdjustment TrioMessageType = "adjustment"
	TrioStatus     TrioMessageType = "status"
	TrioError      TrioMessageType = "error"
)

// TrioMessage is an append-only log entry representing communication
// between Planner, Executor, and Orchestrator within a single run. It is
// consumed by the event bus, never mutated once constructed.
type TrioMessage struct {
	From    TrioRole
	To      TrioRole
	Type    TrioMessageType
	Content string
	Data    map[string]any
}
