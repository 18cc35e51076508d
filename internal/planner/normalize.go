package planner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/triadrun/agentcore/pkg/coretypes"
)

// rawPlanResponse is the wire shape the LLM returns, permissive per spec
// §6: implementations must accept both the legacy "tasks" key and the
// preferred "plan" key.
type rawPlanResponse struct {
	Type     string    `json:"type"`
	Response string    `json:"response"`
	Tasks    []rawTask `json:"tasks"`
	Plan     []rawTask `json:"plan"`
}

// rawTask is one plan entry as returned by the LLM. Tool and Type are both
// accepted as the tool identifier (Tool preferred, Type legacy) per §6.
type rawTask struct {
	ID           string                    `json:"id"`
	Description  string                    `json:"description"`
	Tool         string                    `json:"tool"`
	Type         string                    `json:"type"`
	Tools        []string                  `json:"tools"`
	Command      string                    `json:"command"`
	FilePath     string                    `json:"file_path"`
	Path         string                    `json:"path"`
	Content      *string                   `json:"content"`
	Dependencies []string                  `json:"dependencies"`
	Priority     int                       `json:"priority"`
	Arguments    map[string]map[string]any `json:"arguments"`
}

func (r rawPlanResponse) entries() []rawTask {
	if len(r.Plan) > 0 {
		return r.Plan
	}
	return r.Tasks
}

var toolKeywords = []struct {
	tool     string
	keywords []string
}{
	{"file", []string{"create", "write"}},
	{"bash", []string{"run", "execute"}},
	{"edit", []string{"edit", "modify"}},
	{"grep", []string{"search", "grep", "find"}},
	{"web", []string{"web", "fetch", "price"}},
	{"git", []string{"git", "commit"}},
}

// inferTools derives the tool set for a task per spec §4.3 step 5: the
// singleton [tool] when one is given, otherwise keyword inference from the
// description, deduplicated and in first-seen order.
func inferTools(rt rawTask) []string {
	explicit := rt.Tool
	if explicit == "" {
		explicit = rt.Type
	}
	if explicit != "" {
		return []string{explicit}
	}
	if len(rt.Tools) > 0 {
		return dedupe(rt.Tools)
	}

	desc := strings.ToLower(rt.Description)
	var found []string
	seen := map[string]bool{}
	for _, tk := range toolKeywords {
		for _, kw := range tk.keywords {
			if strings.Contains(desc, kw) && !seen[tk.tool] {
				found = append(found, tk.tool)
				seen[tk.tool] = true
				break
			}
		}
	}
	return found
}

func dedupe(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

var (
	bashCommandRe  = regexp.MustCompile("`([^`]+)`")
	pathPatternRe  = regexp.MustCompile(`\b([A-Z0-9_]+/[\w./-]+\.\w+|[\w./-]+/[\w./-]+\.\w+)\b`)
	quotedFileRe   = regexp.MustCompile(`["']([\w./-]+\.\w+)["']`)
	createWriteRe  = regexp.MustCompile(`(?i)\b(?:create|write|make)\s+([\w./-]+\.\w+)`)
	extensionOnly  = regexp.MustCompile(`\b([\w-]+\.\w{1,5})\b`)
)

// buildArguments fills per-tool argument records per spec §4.3 step 5. It
// is intentionally a subset of what the Executor's live resolution can do
// (spec §4.4): no LLM calls, no access to execution-time context like
// createdFiles. Anything left unresolved here is completed at execution
// time.
func buildArguments(rt rawTask, toolNames []string) map[string]map[string]any {
	args := make(map[string]map[string]any, len(toolNames))
	for name, explicit := range rt.Arguments {
		args[name] = explicit
	}

	for _, name := range toolNames {
		if _, ok := args[name]; ok {
			continue
		}
		switch name {
		case "bash":
			args[name] = bashArguments(rt)
		case "write_file", "file", "edit":
			args[name] = fileArguments(rt)
		default:
			args[name] = map[string]any{}
		}
	}
	return args
}

func bashArguments(rt rawTask) map[string]any {
	cmd := rt.Command
	if cmd == "" {
		if m := bashCommandRe.FindStringSubmatch(rt.Description); m != nil {
			cmd = m[1]
		}
	}
	a := map[string]any{}
	if cmd != "" {
		a["command"] = cmd
	}
	return a
}

func fileArguments(rt rawTask) map[string]any {
	path := rt.FilePath
	if path == "" {
		path = rt.Path
	}
	if path == "" {
		if m := pathPatternRe.FindStringSubmatch(rt.Description); m != nil {
			path = m[1]
		}
	}
	if path == "" {
		if m := quotedFileRe.FindStringSubmatch(rt.Description); m != nil {
			path = m[1]
		}
	}
	if path == "" {
		if m := createWriteRe.FindStringSubmatch(rt.Description); m != nil {
			path = m[1]
		}
	}
	if path == "" {
		if m := extensionOnly.FindStringSubmatch(rt.Description); m != nil {
			path = m[1]
		}
	}

	a := map[string]any{}
	if path != "" {
		a["file_path"] = path
	}
	if rt.Content != nil {
		a["content"] = *rt.Content
	} else {
		// Leave content unset: signals "generate content at execution
		// time" per spec §4.3 step 5.
		a["content"] = nil
	}
	return a
}

// normalizeTasks turns raw plan entries into validated coretypes.Task
// values: tool inference, argument building, id assignment (spec §4.3
// steps 5-6) and dependency inference. Plan-level complexity and
// parallelizability are derived afterwards by the caller in planner.go.
func normalizeTasks(entries []rawTask, runTS string) ([]coretypes.Task, error) {
	tasks := make([]coretypes.Task, 0, len(entries))
	for i, rt := range entries {
		id := rt.ID
		if id == "" {
			id = fmt.Sprintf("task_%s_%d", runTS, i)
		}

		toolNames := inferTools(rt)
		taskType := coretypes.TaskSimple
		var args map[string]map[string]any
		if len(toolNames) > 0 {
			taskType = coretypes.TaskTool
			args = buildArguments(rt, toolNames)
		}

		tasks = append(tasks, coretypes.Task{
			ID:          id,
			Description: rt.Description,
			Type:        taskType,
			Tools:       toolNames,
			Arguments:   args,
			Priority:    i + 1,
		})
	}

	inferDependencies(tasks)
	return tasks, nil
}
