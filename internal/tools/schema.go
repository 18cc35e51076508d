package tools

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/triadrun/agentcore/pkg/coretypes"
)

// compileParamSchema turns a Tool's parameter list into a JSON Schema and
// compiles it, so ToolRegistry.Execute can validate resolved arguments
// before dispatching to Execute. Tools with no parameters compile to an
// "any object" schema.
func compileParamSchema(toolName string, params []coretypes.ToolParameter) (*jsonschema.Schema, error) {
	properties := make(map[string]any, len(params))
	var required []string
	for _, p := range params {
		prop := map[string]any{"type": jsonType(p.Type)}
		if len(p.Enum) > 0 {
			enum := make([]any, len(p.Enum))
			for i, e := range p.Enum {
				enum[i] = e
			}
			prop["enum"] = enum
		}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}

	doc := map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": true,
	}
	if len(required) > 0 {
		doc["required"] = required
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("tools: marshal schema for %s: %w", toolName, err)
	}

	url := "mem://tools/" + toolName + ".json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("tools: add schema resource for %s: %w", toolName, err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("tools: compile schema for %s: %w", toolName, err)
	}
	return schema, nil
}

// validateArgs round-trips args through JSON so the types match what
// jsonschema expects (float64 for numbers, etc.) before validating.
func validateArgs(schema *jsonschema.Schema, args map[string]any) error {
	if schema == nil {
		return nil
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("tools: marshal args: %w", err)
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("tools: unmarshal args: %w", err)
	}
	return schema.Validate(decoded)
}

func jsonType(t string) string {
	switch t {
	case "", "string":
		return "string"
	case "number", "integer", "float":
		return "number"
	case "boolean", "bool":
		return "boolean"
	case "object":
		return "object"
	case "array":
		return "array"
	default:
		return "string"
	}
}
