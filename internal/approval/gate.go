// Package approval implements the ApprovalGate described in spec §4.5: a
// pure policy decision over (tool, args, mode, session-state), with the
// actual UI side effect (console prompt, IDE diff) injected as a Resolver
// capability rather than hardcoded here. Grounded on the teacher's
// ApprovalChecker (internal/agent/approval.go), simplified to the three-mode
// {default, auto_edit, yolo} model the spec actually needs.
package approval

import (
	"context"
	"fmt"

	"github.com/triadrun/agentcore/internal/tools"
	"github.com/triadrun/agentcore/pkg/coretypes"
)

// Decision is the outcome of evaluating a single tool invocation.
type Decision string

const (
	Allowed Decision = "allowed"
	Denied  Decision = "denied"
	Pending Decision = "pending"
)

// Request describes a tool invocation awaiting a user's go/no-go, handed to
// a Resolver for presentation.
type Request struct {
	ToolName string
	Args     map[string]any
	Details  *tools.ConfirmationDetails
}

// Resolver is the injected side effect that turns a Pending decision into a
// final answer. The core never presents UI itself; callers running
// interactively wire a console prompt, callers running --non-interactive
// wire nil (or a Resolver that always denies).
type Resolver interface {
	Resolve(ctx context.Context, req Request) (approved bool, err error)
}

// Gate is the policy object. It holds no mutable state of its own; all
// bookkeeping lives in the coretypes.ApprovalState the caller threads
// through Check.
type Gate struct {
	resolver Resolver
	policy   *Policy
}

// NewGate constructs a Gate. A nil resolver means every Pending decision is
// resolved as denied, matching the CLI's --non-interactive contract
// (spec §6: "suppress prompts, default-deny any confirmation").
func NewGate(resolver Resolver) *Gate {
	return &Gate{resolver: resolver}
}

// WithPolicy attaches a glob-pattern overlay and returns the Gate for
// chaining. A nil policy (the zero value from NewGate) leaves Check's
// decision entirely up to each tool's own ConfirmationDetails.
func (g *Gate) WithPolicy(policy *Policy) *Gate {
	g.policy = policy
	return g
}

// Check evaluates whether toolName may run with args given state, consulting
// the Resolver only when the static policy is ambiguous (Pending). It
// returns the decision and the ApprovalState as it should be carried
// forward into subsequent calls this run/process.
func (g *Gate) Check(ctx context.Context, toolName string, args map[string]any, details *tools.ConfirmationDetails, state coretypes.ApprovalState) (Decision, coretypes.ApprovalState, error) {
	requireApproval, async := g.policy.classify(toolName)
	if async {
		return Allowed, state, nil
	}

	switch decide(details, state, requireApproval) {
	case Allowed:
		return Allowed, state, nil
	case Denied:
		return Denied, state, nil
	}

	approved, err := g.resolve(ctx, Request{ToolName: toolName, Args: args, Details: details})
	if err != nil {
		return Denied, state, fmt.Errorf("approval: resolving %q: %w", toolName, err)
	}
	if !approved {
		return Denied, state, nil
	}
	return Allowed, Apply(state, true), nil
}

func (g *Gate) resolve(ctx context.Context, req Request) (bool, error) {
	if g.resolver == nil {
		return false, nil
	}
	return g.resolver.Resolve(ctx, req)
}

// decide is the static part of the policy: no side effects, no UI. A tool
// that never asked for confirmation (details == nil) and isn't named by a
// requireApproval pattern is always allowed; otherwise the decision depends
// on mode and the sticky override flags.
func decide(details *tools.ConfirmationDetails, state coretypes.ApprovalState, requireApproval bool) Decision {
	if details == nil && !requireApproval {
		return Allowed
	}
	if state.GlobalAutoApprove || state.Mode == coretypes.ApprovalModeYolo {
		return Allowed
	}
	if requireApproval || (details != nil && details.Destructive) {
		return Pending
	}
	if state.Mode == coretypes.ApprovalModeAutoEdit && state.SessionAutoApprove {
		return Allowed
	}
	return Pending
}

// Apply folds a confirmed decision back into state per spec §3's lifecycle:
// sessionAutoApprove may flip true on a confirmed operation when mode is
// not default; globalAutoApprove is sticky for the process once yolo mode
// sees its first confirmation. Check calls this automatically after a
// Resolver approves a Pending decision. It is exported so that code which
// switches a state into yolo mode can set the sticky override directly;
// nothing in this module calls it that way.
func Apply(state coretypes.ApprovalState, approved bool) coretypes.ApprovalState {
	if !approved {
		return state
	}
	if state.Mode == coretypes.ApprovalModeYolo {
		state.GlobalAutoApprove = true
	}
	if state.Mode != coretypes.ApprovalModeDefault {
		state.SessionAutoApprove = true
	}
	return state
}
