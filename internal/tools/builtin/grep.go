package builtin

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/triadrun/agentcore/internal/tools"
	"github.com/triadrun/agentcore/pkg/coretypes"
)

// GrepTool searches files under a root directory for a regex pattern,
// mirroring the spirit of the teacher's ripgrep-backed search tool
// without shelling out: the core has no dependency on `rg` being on
// PATH, so this walks the tree with regexp/filepath directly.
type GrepTool struct {
	// MaxMatches bounds the number of reported lines, default 200.
	MaxMatches int
}

func NewGrepTool() *GrepTool { return &GrepTool{MaxMatches: 200} }

func (t *GrepTool) Name() string        { return "grep" }
func (t *GrepTool) Description() string { return "Search files under a directory for a regex pattern." }

func (t *GrepTool) ParameterSchema() []coretypes.ToolParameter {
	return []coretypes.ToolParameter{
		{Name: "pattern", Type: "string", Required: true, Description: "Regex pattern to search for."},
		{Name: "path", Type: "string", Required: false, Description: "Root directory to search (default \".\")."},
	}
}

func (t *GrepTool) Validate(args map[string]any) bool {
	pattern, ok := args["pattern"].(string)
	return ok && pattern != ""
}

func (t *GrepTool) Execute(ctx context.Context, args map[string]any) (coretypes.ToolResult, error) {
	pattern, _ := args["pattern"].(string)
	root, _ := args["path"].(string)
	if root == "" {
		root = "."
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return coretypes.ToolResult{Success: false, Error: "invalid pattern: " + err.Error()}, nil
	}

	max := t.MaxMatches
	if max <= 0 {
		max = 200
	}

	var hits []string
	walkErr := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || len(hits) >= max {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		lineNo := 0
		for scanner.Scan() && len(hits) < max {
			lineNo++
			if re.MatchString(scanner.Text()) {
				hits = append(hits, fmt.Sprintf("%s:%d:%s", path, lineNo, strings.TrimRight(scanner.Text(), "\r")))
			}
		}
		return nil
	})
	if walkErr != nil && walkErr != ctx.Err() {
		return coretypes.ToolResult{Success: false, Error: walkErr.Error()}, nil
	}

	return coretypes.ToolResult{Success: true, Output: strings.Join(hits, "\n")}, nil
}

func (t *GrepTool) ShouldConfirm(args map[string]any) *tools.ConfirmationDetails { return nil }
