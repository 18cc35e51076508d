package planner

import (
	"fmt"
	"strings"

	"github.com/triadrun/agentcore/internal/llm"
	"github.com/triadrun/agentcore/pkg/coretypes"
)

const planJSONShapeInstructions = `Return ONLY JSON, no prose, no markdown code fences, in exactly one of these two shapes:

Conversation reply:
{"type":"conversation","response": "<your answer as a string>"}

Task plan:
{"type":"tasks","plan": [ {"id":"<string>","description":"<string>","tool":"<tool name>", ...tool-specific fields} ] }

Use the conversation shape for questions, clarifications, or anything that does not require taking an action. Use the task plan shape when the request requires one or more tool invocations. Each plan entry's "tool" must be one of the tool names listed above. Do not invent tool names.`

const simplifiedRetryInstructions = `Your previous response could not be parsed as JSON. Break the request into simple steps and return ONLY JSON in the shape described above. Do not include any prose before or after the JSON.`

// buildMessages assembles the single user message the spec describes: the
// user's text, the enumerated tool catalog with schemas, and the two-shape
// JSON contract. infoQuery biases the Planner toward a conversation
// response by prefixing a "SIMPLE QUESTION" framing (spec §4.5 step 3).
// memoryContext, when non-empty, is prepended ahead of everything else
// (spec §4.3 step 1).
func buildMessages(promptText string, tools []coretypes.ToolSchema, memoryContext []string, infoQuery bool, simplifiedRetry bool) []llm.Message {
	var b strings.Builder

	if len(memoryContext) > 0 {
		b.WriteString("Relevant context:\n")
		for _, c := range memoryContext {
			b.WriteString("- ")
			b.WriteString(c)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if infoQuery {
		b.WriteString("SIMPLE QUESTION\n")
	}

	b.WriteString(promptText)
	b.WriteString("\n\n")

	b.WriteString("Available tools:\n")
	for _, t := range tools {
		b.WriteString(describeTool(t))
	}
	b.WriteString("\n")

	b.WriteString(planJSONShapeInstructions)
	if simplifiedRetry {
		b.WriteString("\n\n")
		b.WriteString(simplifiedRetryInstructions)
	}

	return []llm.Message{
		{Role: llm.RoleSystem, Content: "You are the planning stage of a task agent. You decompose requests into atomic, tool-bound steps or answer directly."},
		{Role: llm.RoleUser, Content: b.String()},
	}
}

func describeTool(t coretypes.ToolSchema) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- %s: %s\n", t.Name, t.Description)
	for _, p := range t.Parameters {
		req := "optional"
		if p.Required {
			req = "required"
		}
		fmt.Fprintf(&b, "    %s (%s, %s): %s\n", p.Name, p.Type, req, p.Description)
	}
	return b.String()
}

// synthesisMessages builds the "SIMPLE QUESTION" follow-up call the
// Orchestrator makes over retrieved tool outputs (spec §4.5 step 8), via
// Planner.Synthesize.
func synthesisMessages(originalPrompt string, retrievedOutputs []string) []llm.Message {
	var b strings.Builder
	b.WriteString("SIMPLE QUESTION\n")
	b.WriteString(originalPrompt)
	b.WriteString("\n\nRetrieved information:\n")
	for _, o := range retrievedOutputs {
		b.WriteString("- ")
		b.WriteString(o)
		b.WriteString("\n")
	}
	b.WriteString("\nRespond with the conversation JSON shape only: {\"type\":\"conversation\",\"response\": \"<answer>\"}.")

	return []llm.Message{
		{Role: llm.RoleSystem, Content: "You answer the user's question directly using only the retrieved information provided."},
		{Role: llm.RoleUser, Content: b.String()},
	}
}
