package coretypes

// Complexity is a derived classification used for logging/budget pacing
// only. It is never a gate on Executor or Orchestrator behavior.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// TaskType identifies how a Task is bound to the tool registry.
type TaskType string

const (
	TaskSimple     TaskType = "simple"
	TaskTool       TaskType = "tool"
	TaskMultiStep  TaskType = "multi_step"
)

// Task is a single atomic unit of work within a TaskPlan.
//
// Invariants (enforced by the planner, never by zero-value construction):
//   - if len(Tools) > 0 then Type == TaskTool
//   - if Type == TaskSimple then len(Tools) == 0
//   - every id in Dependencies refers to a Task appearing earlier in the
//     same plan's Tasks slice.
type Task struct {
	ID           string
	Description  string
	Type         TaskType
	Tools        []string
	Arguments    map[string]map[string]any // toolName -> argument record
	Dependencies []string
	Priority     int // 1-based, reflects declared order
}

// TaskPlan is the Planner's sole output: either a pure conversational reply
// or an ordered, dependency-safe list of atomic tasks. Never both.
type TaskPlan struct {
	ID                   string
	OriginalPrompt       string
	Tasks                []Task
	Complexity           Complexity
	Parallelizable       bool
	IsConversation       bool
	ConversationResponse string
}

// Validate checks the plan-level invariants from spec §3/§8(1,2). It does
// not mutate the plan; callers that construct plans by hand (tests, the
// round-trip serializer) should call this before trusting the result.
func (p *TaskPlan) Validate() error {
	if p.IsConversation {
		if len(p.Tasks) != 0 {
			return errPlanShape("conversation plan must have zero tasks")
		}
		if p.ConversationResponse == "" {
			return errPlanShape("conversation plan must carry a non-empty response")
		}
		return nil
	}
	if len(p.Tasks) == 0 {
		return errPlanShape("non-conversation plan must have at least one task")
	}
	if p.ConversationResponse != "" {
		return errPlanShape("non-conversation plan must not carry a conversation response")
	}
	seen := make(map[string]bool, len(p.Tasks))
	for _, t := range p.Tasks {
		for _, dep := range t.Dependencies {
			if !seen[dep] {
				return errPlanShape("task " + t.ID + " depends on unknown or later task " + dep)
			}
		}
		if len(t.Tools) > 0 && t.Type != TaskTool {
			return errPlanShape("task " + t.ID + " has tools but type != tool")
		}
		if t.Type == TaskSimple && len(t.Tools) > 0 {
			return errPlanShape("task " + t.ID + " is simple but declares tools")
		}
		seen[t.ID] = true
	}
	return nil
}

type planShapeError string

func (e planShapeError) Error() string { return string(e) }

func errPlanShape(msg string) error { return planShapeError(msg) }
