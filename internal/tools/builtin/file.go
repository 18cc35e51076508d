package builtin

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/triadrun/agentcore/internal/tools"
	"github.com/triadrun/agentcore/pkg/coretypes"
)

// WriteFileTool creates or overwrites a file. Registered under the name
// "write_file"; the Executor's resolveFileArgs/recover paths special-case
// that exact name (spec §4.4 steps 3-4).
type WriteFileTool struct{}

func NewWriteFileTool() *WriteFileTool { return &WriteFileTool{} }

func (t *WriteFileTool) Name() string        { return "write_file" }
func (t *WriteFileTool) Description() string { return "Write content to a file. The parent directory must already exist." }

func (t *WriteFileTool) ParameterSchema() []coretypes.ToolParameter {
	return []coretypes.ToolParameter{
		{Name: "file_path", Type: "string", Required: true, Description: "Path of the file to write."},
		{Name: "content", Type: "string", Required: true, Description: "Content to write."},
	}
}

func (t *WriteFileTool) Validate(args map[string]any) bool {
	path, ok := args["file_path"].(string)
	return ok && path != ""
}

func (t *WriteFileTool) Execute(ctx context.Context, args map[string]any) (coretypes.ToolResult, error) {
	path, _ := args["file_path"].(string)
	content, _ := args["content"].(string)
	if path == "" {
		return coretypes.ToolResult{Success: false, Error: "file_path is required"}, nil
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		if os.IsNotExist(err) {
			return coretypes.ToolResult{Success: false, Error: "no such file or directory: " + err.Error()}, nil
		}
		return coretypes.ToolResult{Success: false, Error: err.Error()}, nil
	}
	return coretypes.ToolResult{Success: true, Output: fmt.Sprintf("File written: %s", path)}, nil
}

func (t *WriteFileTool) ShouldConfirm(args map[string]any) *tools.ConfirmationDetails {
	return &tools.ConfirmationDetails{Title: "Write file", Description: fmt.Sprintf("%v", args["file_path"])}
}

// ReadFileTool reads a file's full content. Registered under "read_file",
// one of the synthesis-eligible tools (spec §4.5 step 8).
type ReadFileTool struct{}

func NewReadFileTool() *ReadFileTool { return &ReadFileTool{} }

func (t *ReadFileTool) Name() string        { return "read_file" }
func (t *ReadFileTool) Description() string { return "Read a file's full content." }

func (t *ReadFileTool) ParameterSchema() []coretypes.ToolParameter {
	return []coretypes.ToolParameter{
		{Name: "file_path", Type: "string", Required: true, Description: "Path of the file to read."},
	}
}

func (t *ReadFileTool) Validate(args map[string]any) bool {
	path, ok := args["file_path"].(string)
	return ok && path != ""
}

func (t *ReadFileTool) Execute(ctx context.Context, args map[string]any) (coretypes.ToolResult, error) {
	path, _ := args["file_path"].(string)
	if path == "" {
		return coretypes.ToolResult{Success: false, Error: "file_path is required"}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return coretypes.ToolResult{Success: false, Error: "no such file or directory: " + err.Error()}, nil
		}
		return coretypes.ToolResult{Success: false, Error: err.Error()}, nil
	}
	return coretypes.ToolResult{Success: true, Output: string(data)}, nil
}

func (t *ReadFileTool) ShouldConfirm(args map[string]any) *tools.ConfirmationDetails { return nil }

// EditTool performs a literal find-and-replace within an existing file.
// Registered under "edit"; hasFileTool in internal/executor treats it as
// a file-creating tool for anaphoric path substitution purposes.
type EditTool struct{}

func NewEditTool() *EditTool { return &EditTool{} }

func (t *EditTool) Name() string        { return "edit" }
func (t *EditTool) Description() string { return "Replace the first occurrence of old_text with new_text in a file." }

func (t *EditTool) ParameterSchema() []coretypes.ToolParameter {
	return []coretypes.ToolParameter{
		{Name: "file_path", Type: "string", Required: true, Description: "Path of the file to edit."},
		{Name: "old_text", Type: "string", Required: true, Description: "Text to find."},
		{Name: "new_text", Type: "string", Required: true, Description: "Replacement text."},
	}
}

func (t *EditTool) Validate(args map[string]any) bool {
	path, ok := args["file_path"].(string)
	return ok && path != ""
}

func (t *EditTool) Execute(ctx context.Context, args map[string]any) (coretypes.ToolResult, error) {
	path, _ := args["file_path"].(string)
	oldText, _ := args["old_text"].(string)
	newText, _ := args["new_text"].(string)
	if path == "" {
		return coretypes.ToolResult{Success: false, Error: "file_path is required"}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return coretypes.ToolResult{Success: false, Error: "no such file or directory: " + err.Error()}, nil
		}
		return coretypes.ToolResult{Success: false, Error: err.Error()}, nil
	}

	content := string(data)
	if oldText != "" && !strings.Contains(content, oldText) {
		return coretypes.ToolResult{Success: false, Error: "old_text not found in file"}, nil
	}
	replaced := strings.Replace(content, oldText, newText, 1)

	if err := os.WriteFile(path, []byte(replaced), 0o644); err != nil {
		return coretypes.ToolResult{Success: false, Error: err.Error()}, nil
	}
	return coretypes.ToolResult{Success: true, Output: fmt.Sprintf("Edited: %s", path)}, nil
}

func (t *EditTool) ShouldConfirm(args map[string]any) *tools.ConfirmationDetails {
	return &tools.ConfirmationDetails{Title: "Edit file", Description: fmt.Sprintf("%v", args["file_path"])}
}

