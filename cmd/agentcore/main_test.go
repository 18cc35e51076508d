package main

import (
	"bytes"
	"testing"

	"github.com/triadrun/agentcore/internal/config"
	"github.com/triadrun/agentcore/internal/orchestrator"
)

func TestBuildRootCmd_HasExpectedFlags(t *testing.T) {
	cmd := buildRootCmd()
	for _, name := range []string{"config", "prompt", "non-interactive", "approval-mode", "with-monitoring"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected a %q flag to be registered", name)
		}
	}
}

func TestSetup_NonInteractiveUsesDenyAllResolver(t *testing.T) {
	cfg := config.Config{}
	cfg.LLM.Provider = "openai"
	cfg.LLM.APIKey = "sk-test"
	cfg.LLM.Endpoint = "https://example.com"

	orch, logger, err := setup(cfg, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if orch == nil || logger == nil {
		t.Fatal("expected a non-nil orchestrator and logger")
	}
}

func TestPrintResult_WritesResponseAndError(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, orchestrator.Result{Success: true, Response: "done"})
	if buf.String() != "done\n" {
		t.Errorf("output = %q, want %q", buf.String(), "done\n")
	}

	buf.Reset()
	printResult(&buf, orchestrator.Result{Success: false, Error: "boom"})
	if buf.String() != "error: boom\n" {
		t.Errorf("output = %q, want %q", buf.String(), "error: boom\n")
	}
}
