package planner

import "errors"

// ErrInvalidPlanJSON is returned when both the primary and the simplified
// retry LLM calls fail to produce parseable plan JSON. Per spec §4.3 this
// is fatal to createPlan: the Planner never returns a partial plan.
var ErrInvalidPlanJSON = errors.New("planner: plan-invalid-json")
