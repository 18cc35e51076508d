package builtin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/triadrun/agentcore/internal/tools"
	"github.com/triadrun/agentcore/pkg/coretypes"
)

// WebTool fetches a URL and returns its body, capped to a fixed size.
// Grounded on the teacher's internal/web fetch helpers, narrowed to the
// single "fetch a resource" operation the core's recovery rule (spec
// §4.4: timeout/network retry after a 2s sleep) is written against.
type WebTool struct {
	Client   *http.Client
	MaxBytes int64
}

func NewWebTool() *WebTool {
	return &WebTool{
		Client:   &http.Client{Timeout: 20 * time.Second},
		MaxBytes: 1 << 20,
	}
}

func (t *WebTool) Name() string        { return "web" }
func (t *WebTool) Description() string { return "Fetch a URL over HTTP and return its body." }

func (t *WebTool) ParameterSchema() []coretypes.ToolParameter {
	return []coretypes.ToolParameter{
		{Name: "query", Type: "string", Required: true, Description: "URL to fetch."},
	}
}

func (t *WebTool) Validate(args map[string]any) bool {
	q, ok := args["query"].(string)
	return ok && q != ""
}

func (t *WebTool) Execute(ctx context.Context, args map[string]any) (coretypes.ToolResult, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return coretypes.ToolResult{Success: false, Error: "query is required"}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, query, nil)
	if err != nil {
		return coretypes.ToolResult{Success: false, Error: "invalid URL: " + err.Error()}, nil
	}

	resp, err := t.Client.Do(req)
	if err != nil {
		return coretypes.ToolResult{Success: false, Error: "network: " + err.Error()}, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.MaxBytes))
	if err != nil {
		return coretypes.ToolResult{Success: false, Error: err.Error()}, nil
	}

	if resp.StatusCode >= 400 {
		return coretypes.ToolResult{Success: false, Error: fmt.Sprintf("http %d", resp.StatusCode)}, nil
	}
	return coretypes.ToolResult{Success: true, Output: string(body)}, nil
}

func (t *WebTool) ShouldConfirm(args map[string]any) *tools.ConfirmationDetails { return nil }
