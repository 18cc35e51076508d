package coretypes

// ApprovalMode selects how aggressively the ApprovalGate short-circuits
// confirmation for tool invocations.
type ApprovalMode string

const (
	// ApprovalModeDefault asks for confirmation per the policy's normal rules.
	ApprovalModeDefault ApprovalMode = "default"
	// ApprovalModeAutoEdit auto-approves non-destructive confirmations of
	// any tool after the first confirmed operation in a session.
	ApprovalModeAutoEdit ApprovalMode = "auto_edit"
	// ApprovalModeYolo auto-approves everything, sticky for the process.
	ApprovalModeYolo ApprovalMode = "yolo"
)

// ApprovalState is the mutable per-run/per-process approval bookkeeping
// described in spec §3: a mode plus two escalating override flags.
type ApprovalState struct {
	Mode               ApprovalMode
	SessionAutoApprove bool
	GlobalAutoApprove  bool
}
