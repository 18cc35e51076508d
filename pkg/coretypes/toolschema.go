package coretypes

// ToolParameter describes one argument a Tool accepts.
type ToolParameter struct {
	Name        string
	Type        string // "string", "number", "boolean", "object", "array"
	Required    bool
	Enum        []string
	Description string
}

// ToolSchema is the read-only shape of a registered Tool, as surfaced by
// ToolRegistry.GetTools() for Planner prompt construction.
type ToolSchema struct {
	Name        string
	Description string
	Parameters  []ToolParameter
}
