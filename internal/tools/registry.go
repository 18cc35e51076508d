package tools

import (
	"context"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/triadrun/agentcore/pkg/coretypes"
)

// ErrDuplicateTool is returned by Register when a tool with the same name
// is already present. The registry never silently replaces a tool.
var ErrDuplicateTool = fmt.Errorf("duplicate-tool")

type registeredTool struct {
	tool   Tool
	schema *jsonschema.Schema
}

// Registry holds the name->Tool mapping the Executor dispatches through
// and the Planner introspects for prompt construction. Registration only
// happens during process init; after that it is read-only, so lookups use
// an RWMutex sized for heavy concurrent reads.
type Registry struct {
	mu      sync.RWMutex
	tools   map[string]*registeredTool
	order   []string // stable registration order, for deterministic GetTools()
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*registeredTool)}
}

// Register adds a tool by its unique name. Replacing an existing name
// fails with ErrDuplicateTool rather than silently overwriting it.
func (r *Registry) Register(tool Tool) error {
	if tool == nil {
		return fmt.Errorf("tools: cannot register nil tool")
	}
	name := tool.Name()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tools: %s: %w", name, ErrDuplicateTool)
	}

	schema, err := compileParamSchema(name, tool.ParameterSchema())
	if err != nil {
		return err
	}
	r.tools[name] = &registeredTool{tool: tool, schema: schema}
	r.order = append(r.order, name)
	return nil
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.tools[name]
	if !ok {
		return nil, false
	}
	return rt.tool, true
}

// GetTools returns every registered tool's schema in stable registration
// order, used by the Planner to build a deterministic tool listing.
func (r *Registry) GetTools() []coretypes.ToolSchema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]coretypes.ToolSchema, 0, len(r.order))
	for _, name := range r.order {
		rt := r.tools[name]
		out = append(out, coretypes.ToolSchema{
			Name:        rt.tool.Name(),
			Description: rt.tool.Description(),
			Parameters:  rt.tool.ParameterSchema(),
		})
	}
	return out
}

// Execute dispatches a named tool call and never lets the tool's error
// escape: failures come back as a ToolResult with Success=false.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) coretypes.ToolResult {
	r.mu.RLock()
	rt, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return coretypes.ToolResult{Success: false, Error: "tool not found: " + name}
	}

	if err := validateArgs(rt.schema, args); err != nil {
		return coretypes.ToolResult{Success: false, Error: fmt.Sprintf("invalid arguments for %s: %v", name, err)}
	}
	if !rt.tool.Validate(args) {
		return coretypes.ToolResult{Success: false, Error: fmt.Sprintf("arguments rejected by %s", name)}
	}

	result, err := rt.tool.Execute(ctx, args)
	if err != nil {
		return coretypes.ToolResult{Success: false, Error: err.Error()}
	}
	return result
}

// ShouldConfirm surfaces the tool's confirmation requirement, or nil if
// the tool doesn't exist or doesn't require one.
func (r *Registry) ShouldConfirm(name string, args map[string]any) *ConfirmationDetails {
	r.mu.RLock()
	rt, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	return rt.tool.ShouldConfirm(args)
}
