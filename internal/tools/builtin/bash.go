// Package builtin provides the concrete Tool implementations the core
// ships with: bash, file read/write/edit, grep, git, and a minimal web
// fetch. Grounded on the teacher's internal/tools/exec (ExecTool) and
// internal/web (api_tools.go) packages, adapted to this repo's narrower
// tools.Tool interface.
package builtin

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/triadrun/agentcore/internal/tools"
	"github.com/triadrun/agentcore/pkg/coretypes"
)

// BashTool runs a shell command via /bin/sh -c, mirroring the teacher's
// ExecTool.runSync path but synchronous-only: the core has no background
// process registry (spec §1 scope).
type BashTool struct {
	// Timeout bounds a single command beyond whatever ctx deadline the
	// caller already applies (Executor already wraps calls in its own
	// per-tool timeout; this is a second, tool-owned ceiling).
	Timeout time.Duration
}

func NewBashTool() *BashTool { return &BashTool{Timeout: 60 * time.Second} }

func (t *BashTool) Name() string        { return "bash" }
func (t *BashTool) Description() string { return "Run a shell command and return its combined stdout/stderr." }

func (t *BashTool) ParameterSchema() []coretypes.ToolParameter {
	return []coretypes.ToolParameter{
		{Name: "command", Type: "string", Required: true, Description: "Shell command to execute."},
	}
}

func (t *BashTool) Validate(args map[string]any) bool {
	cmd, ok := args["command"].(string)
	return ok && strings.TrimSpace(cmd) != ""
}

func (t *BashTool) Execute(ctx context.Context, args map[string]any) (coretypes.ToolResult, error) {
	command, _ := args["command"].(string)
	command = strings.TrimSpace(command)
	if command == "" {
		return coretypes.ToolResult{Success: false, Error: "command is required"}, nil
	}

	timeout := t.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(callCtx, "/bin/sh", "-c", command)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return coretypes.ToolResult{Success: false, Output: out.String(), Error: err.Error()}, nil
	}
	return coretypes.ToolResult{Success: true, Output: out.String()}, nil
}

// ShouldConfirm flags any command that looks destructive per spec §4.5's
// ApprovalGate integration; everything else runs without confirmation.
func (t *BashTool) ShouldConfirm(args map[string]any) *tools.ConfirmationDetails {
	command, _ := args["command"].(string)
	lower := strings.ToLower(command)
	for _, marker := range []string{"rm -rf", "rm -r ", "dd if=", "mkfs", "> /dev/", ":(){ :"} {
		if strings.Contains(lower, marker) {
			return &tools.ConfirmationDetails{
				Title:       "Run potentially destructive command",
				Description: command,
				Destructive: true,
			}
		}
	}
	return nil
}
