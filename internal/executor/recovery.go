package executor

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/triadrun/agentcore/pkg/coretypes"
)

// recover attempts the bounded, deterministic, no-LLM recovery rules from
// spec §4.4. It returns the salvaged result and true if recovery produced
// a usable result, or the original failed result and false if no rule
// applied (or the retry also failed) — in which case the caller returns
// the original error untouched.
func (e *Executor) recover(ctx context.Context, toolName string, args map[string]any, failed coretypes.ToolResult) (coretypes.ToolResult, bool) {
	reason := strings.ToLower(failed.Error)

	switch {
	case (toolName == "write_file" || toolName == "file") &&
		(strings.Contains(reason, "file-not-found") || strings.Contains(reason, "no such file or directory")):
		path, _ := args["file_path"].(string)
		if path == "" {
			return failed, false
		}
		parent := filepath.Dir(path)
		mkdirResult := e.registry.Execute(ctx, "bash", map[string]any{"command": "mkdir -p " + parent})
		if !mkdirResult.Success {
			return failed, false
		}
		return e.registry.Execute(ctx, toolName, args), true

	case toolName == "bash" && strings.Contains(reason, "permission-denied"):
		cmd, _ := args["command"].(string)
		if cmd == "" || !strings.HasPrefix(cmd, "/") {
			return failed, false
		}
		retryArgs := map[string]any{"command": "/tmp" + cmd}
		return e.registry.Execute(ctx, toolName, retryArgs), true

	case toolName == "web" && (strings.Contains(reason, "timeout") || strings.Contains(reason, "network")):
		select {
		case <-time.After(2 * time.Second):
		case <-ctx.Done():
			return failed, false
		}
		return e.registry.Execute(ctx, toolName, args), true
	}

	return failed, false
}
