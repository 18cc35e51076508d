package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/triadrun/agentcore/pkg/coretypes"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"API_KEY", "AZURE_API_KEY", "ENDPOINT", "AZURE_ENDPOINT_URL", "MODEL", "AZURE_MODEL", "API_VERSION", "DEBUG", "APPROVAL_MODE", "ENABLE_MONITORING", "MONITORING_PORT"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_MissingRequiredEnvFails(t *testing.T) {
	clearEnv(t)
	_, err := Load("")
	if err == nil {
		t.Fatalf("expected an error when API_KEY/ENDPOINT are unset")
	}
}

func TestLoad_EnvOverridesApplied(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "sk-test")
	t.Setenv("ENDPOINT", "https://api.example.com")
	t.Setenv("MODEL", "gpt-test")
	t.Setenv("APPROVAL_MODE", "yolo")
	t.Setenv("ENABLE_MONITORING", "true")
	t.Setenv("MONITORING_PORT", "9090")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LLM.APIKey != "sk-test" || cfg.LLM.Endpoint != "https://api.example.com" || cfg.LLM.Model != "gpt-test" {
		t.Errorf("LLM config not overridden: %+v", cfg.LLM)
	}
	if cfg.ApprovalMode != coretypes.ApprovalModeYolo {
		t.Errorf("approval mode = %q, want yolo", cfg.ApprovalMode)
	}
	if !cfg.Monitoring.Enabled || cfg.Monitoring.Port != 9090 {
		t.Errorf("monitoring config not overridden: %+v", cfg.Monitoring)
	}
}

func TestLoad_AzureEnvSelectsAzureProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("AZURE_API_KEY", "az-key")
	t.Setenv("AZURE_ENDPOINT_URL", "https://azure.example.com")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LLM.Provider != "azure" {
		t.Errorf("provider = %q, want azure", cfg.LLM.Provider)
	}
}

func TestLoad_YAMLFileMergedUnderEnvPrecedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("llm:\n  model: from-yaml\n  provider: openai\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	t.Setenv("API_KEY", "sk-test")
	t.Setenv("ENDPOINT", "https://api.example.com")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LLM.Model != "from-yaml" {
		t.Errorf("model = %q, want yaml value to survive when env doesn't override it", cfg.LLM.Model)
	}

	t.Setenv("MODEL", "from-env")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LLM.Model != "from-env" {
		t.Errorf("model = %q, want env override to win", cfg.LLM.Model)
	}
}

func TestLoad_YAMLApprovalPolicyParsed(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlBody := "llm:\n  provider: openai\napproval_policy:\n  require_approval:\n    - \"mcp:*\"\n  async_tools:\n    - \"notify:*\"\n"
	if err := os.WriteFile(path, []byte(yamlBody), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	t.Setenv("API_KEY", "sk-test")
	t.Setenv("ENDPOINT", "https://api.example.com")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.ApprovalPolicy.RequireApproval) != 1 || cfg.ApprovalPolicy.RequireApproval[0] != "mcp:*" {
		t.Errorf("RequireApproval = %v, want [mcp:*]", cfg.ApprovalPolicy.RequireApproval)
	}
	if len(cfg.ApprovalPolicy.AsyncTools) != 1 || cfg.ApprovalPolicy.AsyncTools[0] != "notify:*" {
		t.Errorf("AsyncTools = %v, want [notify:*]", cfg.ApprovalPolicy.AsyncTools)
	}
}

func TestValidate_RejectsUnknownApprovalMode(t *testing.T) {
	cfg := defaults()
	cfg.LLM.APIKey = "k"
	cfg.LLM.Endpoint = "e"
	cfg.ApprovalMode = "bogus"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for an unknown approval mode")
	}
}
