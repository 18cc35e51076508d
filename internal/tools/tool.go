// Package tools defines the Tool contract and the registry the Executor
// dispatches through and the Planner introspects. Concrete tools (bash,
// file, grep, web, edit, git) are external collaborators per spec §1; this
// package only specifies the shape they must conform to.
package tools

import (
	"context"

	"github.com/triadrun/agentcore/pkg/coretypes"
)

// ConfirmationDetails describes why a tool call needs external approval
// before it runs. A Tool returns nil from ShouldConfirm when the call is
// safe to run unattended.
type ConfirmationDetails struct {
	Title       string
	Description string
	// Destructive marks operations the ApprovalGate should never silently
	// auto-approve via auto_edit's SessionAutoApprove flag; only yolo mode
	// (or the GlobalAutoApprove flag it sets) or an approval Policy
	// AsyncTools match bypasses it.
	Destructive bool
}

// Tool is a named, schema-typed capability the Executor can invoke.
type Tool interface {
	Name() string
	Description() string
	ParameterSchema() []coretypes.ToolParameter

	// Validate checks args structurally before Execute is attempted.
	// Tools with no extra validation beyond the schema simply return true.
	Validate(args map[string]any) bool

	Execute(ctx context.Context, args map[string]any) (coretypes.ToolResult, error)

	// ShouldConfirm returns confirmation details when this particular call
	// needs an approval gate check, or nil when it doesn't require one.
	ShouldConfirm(args map[string]any) *ConfirmationDetails
}
