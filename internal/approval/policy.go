package approval

import "strings"

// Policy is a static, glob-style overlay on top of a tool's own
// ConfirmationDetails. It lets an operator force confirmation onto a whole
// class of tools (e.g. every MCP-backed tool: "mcp:*") without each tool
// implementation knowing about the rule, and exempt another class from ever
// blocking on a Resolver at all.
//
// Grounded on the teacher's tools/policy.Resolver, narrowed from its full
// profile/group/provider-override system to the two lists this core's
// ApprovalGate actually needs.
type Policy struct {
	// RequireApproval lists patterns that force Pending, even for a tool
	// call whose own ConfirmationDetails is nil; yolo mode and the sticky
	// GlobalAutoApprove flag still allow such a call.
	RequireApproval []string
	// AsyncTools lists patterns that are always Allowed without consulting
	// a Resolver, even when ConfirmationDetails requests confirmation.
	AsyncTools []string
}

// classify reports whether toolName is covered by either list. Patterns are
// matched with matchToolPattern so "mcp:*", "mcp:server.*", "*", and exact
// names all work the way the teacher's resolver documents them.
func (p *Policy) classify(toolName string) (requireApproval, async bool) {
	if p == nil {
		return false, false
	}
	for _, pattern := range p.RequireApproval {
		if matchToolPattern(pattern, toolName) {
			requireApproval = true
			break
		}
	}
	for _, pattern := range p.AsyncTools {
		if matchToolPattern(pattern, toolName) {
			async = true
			break
		}
	}
	return requireApproval, async
}

// matchToolPattern supports the same small pattern language as the teacher:
// "*" matches anything, "prefix.*" matches anything sharing prefix, anything
// else must match exactly.
func matchToolPattern(pattern, toolName string) bool {
	if pattern == "*" {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(toolName, strings.TrimSuffix(pattern, "*"))
	}
	return pattern == toolName
}
