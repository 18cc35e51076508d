package planner

import (
	"context"
	"testing"

	"github.com/triadrun/agentcore/internal/llm"
	"github.com/triadrun/agentcore/internal/tools"
	"github.com/triadrun/agentcore/pkg/coretypes"
)

type fakeChatClient struct {
	responses []string
	calls     int
}

func (f *fakeChatClient) Chat(ctx context.Context, messages []llm.Message, toolSchemas []coretypes.ToolSchema, forceJSON bool, maxTokens int) (string, error) {
	i := f.calls
	f.calls++
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	return f.responses[i], nil
}

func newTestRegistry() *tools.Registry {
	return tools.NewRegistry()
}

func TestCreatePlan_ConversationShape(t *testing.T) {
	fc := &fakeChatClient{responses: []string{`{"type":"conversation","response":"hello there"}`}}
	p := New(nil, newTestRegistry(), nil, nil, 1024)
	p.client = fc

	plan, err := p.CreatePlan(context.Background(), coretypes.NewPrompt("hi"), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.IsConversation {
		t.Fatalf("expected conversation plan")
	}
	if plan.ConversationResponse != "hello there" {
		t.Errorf("response = %q", plan.ConversationResponse)
	}
}

func TestCreatePlan_TaskShapeNormalizesToolsAndArgs(t *testing.T) {
	raw := `{"type":"tasks","plan":[
		{"id":"t1","description":"create a file called notes.txt"},
		{"id":"t2","description":"run the tests"}
	]}`
	fc := &fakeChatClient{responses: []string{raw}}
	p := New(nil, newTestRegistry(), nil, nil, 1024)
	p.client = fc

	plan, err := p.CreatePlan(context.Background(), coretypes.NewPrompt("do stuff"), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.IsConversation {
		t.Fatalf("expected task plan")
	}
	if len(plan.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(plan.Tasks))
	}
	if got := plan.Tasks[0].Tools; len(got) != 1 || got[0] != "file" {
		t.Errorf("task 0 tools = %v, want [file]", got)
	}
	if got := plan.Tasks[1].Tools; len(got) != 1 || got[0] != "bash" {
		t.Errorf("task 1 tools = %v, want [bash]", got)
	}
	if err := plan.Validate(); err != nil {
		t.Errorf("plan failed validation: %v", err)
	}
}

func TestCreatePlan_RetriesOnceOnInvalidJSON(t *testing.T) {
	fc := &fakeChatClient{responses: []string{
		"not json at all",
		`{"type":"conversation","response":"recovered"}`,
	}}
	p := New(nil, newTestRegistry(), nil, nil, 1024)
	p.client = fc

	plan, err := p.CreatePlan(context.Background(), coretypes.NewPrompt("hi"), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.ConversationResponse != "recovered" {
		t.Errorf("response = %q", plan.ConversationResponse)
	}
	if fc.calls != 2 {
		t.Errorf("expected exactly 2 attempts, got %d", fc.calls)
	}
}

func TestCreatePlan_FailsAfterSecondInvalidJSON(t *testing.T) {
	fc := &fakeChatClient{responses: []string{"nope", "still nope"}}
	p := New(nil, newTestRegistry(), nil, nil, 1024)
	p.client = fc

	_, err := p.CreatePlan(context.Background(), coretypes.NewPrompt("hi"), false)
	if err != ErrInvalidPlanJSON {
		t.Errorf("err = %v, want ErrInvalidPlanJSON", err)
	}
	if fc.calls != 2 {
		t.Errorf("expected exactly 2 attempts, got %d", fc.calls)
	}
}

func TestDependencyInference_AnaphoricReference(t *testing.T) {
	raw := `{"type":"tasks","plan":[
		{"id":"t1","description":"write a file called out.txt"},
		{"id":"t2","description":"read it back and print the contents"}
	]}`
	fc := &fakeChatClient{responses: []string{raw}}
	p := New(nil, newTestRegistry(), nil, nil, 1024)
	p.client = fc

	plan, err := p.CreatePlan(context.Background(), coretypes.NewPrompt("x"), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Tasks[1].Dependencies) != 1 || plan.Tasks[1].Dependencies[0] != "t1" {
		t.Errorf("task 2 dependencies = %v, want [t1]", plan.Tasks[1].Dependencies)
	}
	if plan.Parallelizable {
		t.Errorf("expected Parallelizable=false when a dependency exists")
	}
}

func TestClassifyComplexity(t *testing.T) {
	simpleTasks := []coretypes.Task{{Type: coretypes.TaskSimple}}
	toolTasks := []coretypes.Task{{Type: coretypes.TaskTool, Tools: []string{"bash"}}}

	tests := []struct {
		name   string
		prompt string
		tasks  []coretypes.Task
		want   coretypes.Complexity
	}{
		{"short no tools", "say hi", simpleTasks, coretypes.ComplexitySimple},
		{"has tool keyword", "run the build script now", toolTasks, coretypes.ComplexityModerate},
		{"multi-step marker", "first build it, then run the tests", simpleTasks, coretypes.ComplexityComplex},
		{"long with tools", "run the full suite of integration tests across every module in the staging environment repeatedly until all results are reported correctly", toolTasks, coretypes.ComplexityComplex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyComplexity(tt.prompt, tt.tasks); got != tt.want {
				t.Errorf("classifyComplexity(%q) = %v, want %v", tt.prompt, got, tt.want)
			}
		})
	}
}

func TestSynthesize_ReturnsConversationResponse(t *testing.T) {
	fc := &fakeChatClient{responses: []string{`{"type":"conversation","response":"the answer is 42"}`}}
	p := New(nil, newTestRegistry(), nil, nil, 1024)
	p.client = fc

	resp, err := p.Synthesize(context.Background(), "what is the answer", []string{"42"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != "the answer is 42" {
		t.Errorf("resp = %q", resp)
	}
}

func TestSynthesize_TaskPlanInsteadOfConversationIsHardError(t *testing.T) {
	fc := &fakeChatClient{responses: []string{`{"type":"tasks","plan":[{"id":"t1","description":"do something"}]}`}}
	p := New(nil, newTestRegistry(), nil, nil, 1024)
	p.client = fc

	_, err := p.Synthesize(context.Background(), "what is the answer", []string{"42"})
	if err == nil {
		t.Fatalf("expected synthesis-failed error")
	}
}
