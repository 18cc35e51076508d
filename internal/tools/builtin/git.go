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

// GitTool runs a restricted subcommand of `git` against the working
// directory. One of the synthesis-eligible tools (spec §4.5 step 8).
type GitTool struct {
	Timeout time.Duration
}

func NewGitTool() *GitTool { return &GitTool{Timeout: 30 * time.Second} }

func (t *GitTool) Name() string        { return "git" }
func (t *GitTool) Description() string { return "Run a git subcommand (status, log, diff, show, commit, add, branch) against the working directory." }

var allowedGitSubcommands = map[string]bool{
	"status": true, "log": true, "diff": true, "show": true,
	"commit": true, "add": true, "branch": true,
}

func (t *GitTool) ParameterSchema() []coretypes.ToolParameter {
	return []coretypes.ToolParameter{
		{Name: "args", Type: "string", Required: true, Description: "Arguments to pass to git, e.g. \"status --short\"."},
	}
}

func (t *GitTool) Validate(args map[string]any) bool {
	raw, ok := args["args"].(string)
	if !ok || strings.TrimSpace(raw) == "" {
		return false
	}
	fields := strings.Fields(raw)
	return allowedGitSubcommands[fields[0]]
}

func (t *GitTool) Execute(ctx context.Context, args map[string]any) (coretypes.ToolResult, error) {
	raw, _ := args["args"].(string)
	fields := strings.Fields(raw)
	if len(fields) == 0 || !allowedGitSubcommands[fields[0]] {
		return coretypes.ToolResult{Success: false, Error: "git subcommand not permitted: " + raw}, nil
	}

	timeout := t.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(callCtx, "git", fields...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return coretypes.ToolResult{Success: false, Output: out.String(), Error: err.Error()}, nil
	}
	return coretypes.ToolResult{Success: true, Output: out.String()}, nil
}

func (t *GitTool) ShouldConfirm(args map[string]any) *tools.ConfirmationDetails {
	raw, _ := args["args"].(string)
	if strings.HasPrefix(strings.TrimSpace(raw), "commit") {
		return &tools.ConfirmationDetails{Title: "Create a git commit", Description: raw}
	}
	return nil
}
