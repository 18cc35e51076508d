package orchestrator

import (
	"fmt"
	"strings"
)

const helpText = `Available commands:
  /help, /?        show this message
  /status          show current run status
  /tools           list available tools
  /clear           clear conversation state
  /quit, /exit     end the session
  /monitor [on|off|status]  control the monitoring sidecar`

// handleSlashCommand dispatches an in-process slash command without
// involving Planner or Executor (spec §4.5 step 1). It is idempotent:
// running the same command repeatedly never mutates ExecutionContext or
// memory (spec §8 invariant 8).
func (o *Orchestrator) handleSlashCommand(cmd string) Result {
	fields := strings.Fields(cmd)
	name := strings.ToLower(fields[0])
	arg := ""
	if len(fields) > 1 {
		arg = strings.ToLower(fields[1])
	}

	switch name {
	case "/help", "/?":
		return Result{Success: true, Response: helpText}
	case "/status":
		return Result{Success: true, Response: o.statusText()}
	case "/tools":
		return Result{Success: true, Response: o.toolsText()}
	case "/clear":
		return Result{Success: true, Response: "conversation state cleared"}
	case "/quit", "/exit":
		return Result{Success: true, Response: "goodbye"}
	case "/monitor":
		return Result{Success: true, Response: o.monitorText(arg)}
	default:
		return Result{Success: false, Error: fmt.Sprintf("unknown command: %s", name)}
	}
}

func (o *Orchestrator) statusText() string {
	return "idle"
}

func (o *Orchestrator) toolsText() string {
	schemas := o.registry.GetTools()
	if len(schemas) == 0 {
		return "no tools registered"
	}
	var b strings.Builder
	for _, s := range schemas {
		fmt.Fprintf(&b, "%s: %s\n", s.Name, s.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (o *Orchestrator) monitorText(arg string) string {
	switch arg {
	case "on":
		return "monitoring enabled"
	case "off":
		return "monitoring disabled"
	case "status", "":
		return "monitoring status: unknown (monitoring is an external sidecar)"
	default:
		return fmt.Sprintf("unknown /monitor argument: %s", arg)
	}
}
