package executor

import (
	"context"
	"regexp"
	"strings"

	"github.com/triadrun/agentcore/internal/llm"
	"github.com/triadrun/agentcore/pkg/coretypes"
)

var (
	bashBacktickRe = regexp.MustCompile("`([^`]+)`")
	bashPhraseRe   = regexp.MustCompile(`(?i)(?:run|execute)\s+(.+)$`)
	pathPatternRe = regexp.MustCompile(`\b([A-Z0-9_]+/[\w./-]+\.\w+|[\w./-]+/[\w./-]+\.\w+)\b`)
	quotedFileRe  = regexp.MustCompile(`["']([\w./-]+\.\w+)["']`)
	createWriteRe = regexp.MustCompile(`(?i)\b(?:create|write|make)\s+([\w./-]+\.\w+)`)
	extensionRe   = regexp.MustCompile(`\b([\w-]+\.\w{1,5})\b`)

	grepQuotedRe   = regexp.MustCompile(`["']([^"']+)["']`)
	grepWordRe     = regexp.MustCompile(`\b(\w{3,})\b`)
	anaphoricFile  = regexp.MustCompile(`(?i)\b(it|that file|the file|result|output|back)\b`)
)

// resolveArguments is the Executor's live argument-resolution pass (spec
// §4.4): it completes whatever the Planner's static normalization left
// unresolved, using execution-time state (ExecutionContext.createdFiles)
// and, for file content, a dedicated LLM call.
func (e *Executor) resolveArguments(ctx context.Context, task coretypes.Task, toolName string, ec *ExecutionContext) (map[string]any, error) {
	args := map[string]any{}
	if task.Arguments != nil {
		if existing, ok := task.Arguments[toolName]; ok {
			for k, v := range existing {
				args[k] = v
			}
		}
	}

	switch toolName {
	case "bash":
		if _, ok := args["command"]; !ok || args["command"] == "" {
			if cmd := extractBashCommand(task.Description); cmd != "" {
				args["command"] = cmd
			}
		}
	case "write_file", "file", "edit":
		if err := e.resolveFileArgs(ctx, task, args, ec); err != nil {
			return nil, err
		}
	case "grep", "rg":
		if _, ok := args["pattern"]; !ok {
			args["pattern"] = extractGrepPattern(task.Description)
		}
	default:
		if len(args) == 0 {
			args = fallbackParse(task.Description)
		}
	}

	if anaphoricFile.MatchString(task.Description) {
		if path, ok := args["file_path"]; !ok || path == "" || path == nil {
			if last, ok := ec.LastCreatedFile(); ok {
				args["file_path"] = last
			}
		}
	}

	return args, nil
}

func extractBashCommand(description string) string {
	if m := bashBacktickRe.FindStringSubmatch(description); m != nil {
		return m[1]
	}
	if m := bashPhraseRe.FindStringSubmatch(description); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func (e *Executor) resolveFileArgs(ctx context.Context, task coretypes.Task, args map[string]any, ec *ExecutionContext) error {
	if path, ok := args["file_path"]; !ok || path == nil || path == "" {
		args["file_path"] = extractFilePath(task.Description)
	}

	content, hasContent := args["content"]
	needsGeneration := !hasContent || content == nil || content == ""
	if needsGeneration {
		generated, err := e.generateFileContent(ctx, task.Description)
		if err != nil {
			// Generation failure is not task failure (spec §4.4 step 3):
			// fall back to a sentinel TODO and proceed.
			args["content"] = "// TODO: content generation failed: " + err.Error()
			return nil
		}
		args["content"] = generated
	}
	return nil
}

// extractFilePath applies the precedence from spec §4.4 step 4: structured
// path pattern, quoted filename, create/write <path>, extension-only
// match, fallback "file.txt".
func extractFilePath(description string) string {
	if m := pathPatternRe.FindStringSubmatch(description); m != nil {
		return m[1]
	}
	if m := quotedFileRe.FindStringSubmatch(description); m != nil {
		return m[1]
	}
	if m := createWriteRe.FindStringSubmatch(description); m != nil {
		return m[1]
	}
	if m := extensionRe.FindStringSubmatch(description); m != nil {
		return m[1]
	}
	return "file.txt"
}

// extractGrepPattern: first quoted string, else single word ≥3 chars, else
// match-everything, per spec §4.4 step 6.
func extractGrepPattern(description string) string {
	if m := grepQuotedRe.FindStringSubmatch(description); m != nil {
		return m[1]
	}
	if m := grepWordRe.FindStringSubmatch(description); m != nil {
		return m[1]
	}
	return ".*"
}

// fallbackParse is the last-resort per-tool-agnostic parser used when the
// Planner supplied no arguments at all for a tool Executor doesn't have a
// dedicated resolver for: pull a quoted string if present, else the
// description verbatim as a single "text" field.
func fallbackParse(description string) map[string]any {
	if m := grepQuotedRe.FindStringSubmatch(description); m != nil {
		return map[string]any{"text": m[1]}
	}
	return map[string]any{"text": description}
}

// generateFileContent makes the single dedicated LLMClient.chat call
// described in spec §4.4 step 3: a strict raw-content-only prompt and a
// high output cap, distinct from the Planner's JSON-mode calls.
func (e *Executor) generateFileContent(ctx context.Context, description string) (string, error) {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: "Return only the raw file content described by the user. No explanations, no markdown code fences, no commentary."},
		{Role: llm.RoleUser, Content: description},
	}
	return e.client.Chat(ctx, messages, nil, false, e.contentMaxTokens)
}
