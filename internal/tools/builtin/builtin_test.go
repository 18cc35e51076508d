package builtin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestBashTool_ExecuteCapturesOutput(t *testing.T) {
	tool := NewBashTool()
	result, err := tool.Execute(context.Background(), map[string]any{"command": "echo hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if result.Output != "hi\n" {
		t.Errorf("output = %q, want %q", result.Output, "hi\n")
	}
}

func TestBashTool_ExecuteFailure(t *testing.T) {
	tool := NewBashTool()
	result, _ := tool.Execute(context.Background(), map[string]any{"command": "exit 3"})
	if result.Success {
		t.Fatalf("expected failure")
	}
}

func TestBashTool_ShouldConfirmFlagsDestructive(t *testing.T) {
	tool := NewBashTool()
	if d := tool.ShouldConfirm(map[string]any{"command": "echo hi"}); d != nil {
		t.Errorf("expected no confirmation for a benign command, got %+v", d)
	}
	d := tool.ShouldConfirm(map[string]any{"command": "rm -rf /"})
	if d == nil || !d.Destructive {
		t.Errorf("expected destructive confirmation for rm -rf, got %+v", d)
	}
}

func TestWriteFileTool_WritesAndReportsPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	tool := NewWriteFileTool()
	result, err := tool.Execute(context.Background(), map[string]any{"file_path": path, "content": "hello"})
	if err != nil || !result.Success {
		t.Fatalf("expected success, got %+v err=%v", result, err)
	}
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("readback failed: %v", readErr)
	}
	if string(data) != "hello" {
		t.Errorf("content = %q, want %q", string(data), "hello")
	}
}

func TestWriteFileTool_MissingParentDirectoryFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing-subdir", "out.txt")
	tool := NewWriteFileTool()
	result, _ := tool.Execute(context.Background(), map[string]any{"file_path": path, "content": "hello"})
	if result.Success {
		t.Fatalf("expected failure for missing parent directory")
	}
}

func TestReadFileTool_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(path, []byte("content here"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	tool := NewReadFileTool()
	result, err := tool.Execute(context.Background(), map[string]any{"file_path": path})
	if err != nil || !result.Success {
		t.Fatalf("expected success, got %+v err=%v", result, err)
	}
	if result.Output != "content here" {
		t.Errorf("output = %q, want %q", result.Output, "content here")
	}
}

func TestEditTool_ReplacesFirstOccurrence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edit.txt")
	if err := os.WriteFile(path, []byte("foo bar foo"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	tool := NewEditTool()
	result, err := tool.Execute(context.Background(), map[string]any{"file_path": path, "old_text": "foo", "new_text": "baz"})
	if err != nil || !result.Success {
		t.Fatalf("expected success, got %+v err=%v", result, err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "baz bar foo" {
		t.Errorf("content = %q, want %q", string(data), "baz bar foo")
	}
}

func TestEditTool_OldTextNotFoundFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edit.txt")
	if err := os.WriteFile(path, []byte("foo bar"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	tool := NewEditTool()
	result, _ := tool.Execute(context.Background(), map[string]any{"file_path": path, "old_text": "missing", "new_text": "x"})
	if result.Success {
		t.Fatalf("expected failure when old_text is absent")
	}
}

func TestGrepTool_FindsMatchingLines(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha\nbeta\ngamma\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	tool := NewGrepTool()
	result, err := tool.Execute(context.Background(), map[string]any{"pattern": "^b", "path": dir})
	if err != nil || !result.Success {
		t.Fatalf("expected success, got %+v err=%v", result, err)
	}
	if result.Output == "" {
		t.Errorf("expected at least one match")
	}
}

func TestGrepTool_InvalidPatternFails(t *testing.T) {
	tool := NewGrepTool()
	result, _ := tool.Execute(context.Background(), map[string]any{"pattern": "(unclosed", "path": t.TempDir()})
	if result.Success {
		t.Fatalf("expected failure for invalid regex")
	}
}

func TestGitTool_RejectsDisallowedSubcommand(t *testing.T) {
	tool := NewGitTool()
	if tool.Validate(map[string]any{"args": "push --force"}) {
		t.Errorf("expected push to be rejected")
	}
}

func TestGitTool_ShouldConfirmFlagsCommit(t *testing.T) {
	tool := NewGitTool()
	if d := tool.ShouldConfirm(map[string]any{"args": "status"}); d != nil {
		t.Errorf("expected no confirmation for status, got %+v", d)
	}
	if d := tool.ShouldConfirm(map[string]any{"args": "commit -m msg"}); d == nil {
		t.Errorf("expected confirmation for commit")
	}
}

func TestWebTool_FetchesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	}))
	defer server.Close()

	tool := NewWebTool()
	result, err := tool.Execute(context.Background(), map[string]any{"query": server.URL})
	if err != nil || !result.Success {
		t.Fatalf("expected success, got %+v err=%v", result, err)
	}
	if result.Output != "pong" {
		t.Errorf("output = %q, want %q", result.Output, "pong")
	}
}

func TestWebTool_HTTPErrorStatusFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	tool := NewWebTool()
	result, _ := tool.Execute(context.Background(), map[string]any{"query": server.URL})
	if result.Success {
		t.Fatalf("expected failure for a 404 response")
	}
}
