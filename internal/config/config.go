// Package config loads the core's runtime configuration: LLM
// endpoint/credentials, retry/timeout tuning, approval mode, and the
// monitoring toggle. Grounded on the teacher's internal/config package
// (YAML-first struct, environment overrides applied after load), scoped
// down to what spec §6 actually names — no $include resolution, no
// multi-domain config tree.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/triadrun/agentcore/pkg/coretypes"
)

// LLMConfig configures the LLMClient backend (spec §6's env contract).
type LLMConfig struct {
	Provider    string        `yaml:"provider"`
	APIKey      string        `yaml:"api_key"`
	Endpoint    string        `yaml:"endpoint"`
	Model       string        `yaml:"model"`
	APIVersion  string        `yaml:"api_version"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxRetries  int           `yaml:"max_retries"`
}

// MonitoringConfig configures the external monitoring sidecar attach
// point (spec §6); the sidecar itself is out of scope (§1 Non-goals).
type MonitoringConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// ApprovalPolicyConfig is the on-disk form of an approval.Policy glob-pattern
// overlay: tool-name patterns that require a confirmation (outside yolo
// mode) regardless of a tool's own ConfirmationDetails, and patterns that
// never block for one.
type ApprovalPolicyConfig struct {
	RequireApproval []string `yaml:"require_approval"`
	AsyncTools      []string `yaml:"async_tools"`
}

// Config is the core's full configuration tree.
type Config struct {
	LLM            LLMConfig              `yaml:"llm"`
	ApprovalMode   coretypes.ApprovalMode `yaml:"approval_mode"`
	ApprovalPolicy ApprovalPolicyConfig   `yaml:"approval_policy"`
	Debug          bool                   `yaml:"debug"`
	Monitoring     MonitoringConfig       `yaml:"monitoring"`
}

func defaults() Config {
	return Config{
		LLM: LLMConfig{
			Provider:   "openai",
			Timeout:    120 * time.Second,
			MaxRetries: 3,
		},
		ApprovalMode: coretypes.ApprovalModeDefault,
		Monitoring: MonitoringConfig{
			Port: 4000,
		},
	}
}

// Load reads an optional YAML file at path (skipped entirely if path is
// empty or the file doesn't exist) and then applies environment-variable
// overrides, matching the teacher's "YAML first, env wins" precedence.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := firstNonEmpty(os.Getenv("API_KEY"), os.Getenv("AZURE_API_KEY")); v != "" {
		cfg.LLM.APIKey = v
	}
	if os.Getenv("AZURE_API_KEY") != "" {
		cfg.LLM.Provider = "azure"
	}
	if v := firstNonEmpty(os.Getenv("ENDPOINT"), os.Getenv("AZURE_ENDPOINT_URL")); v != "" {
		cfg.LLM.Endpoint = v
	}
	if v := firstNonEmpty(os.Getenv("MODEL"), os.Getenv("AZURE_MODEL")); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("API_VERSION"); v != "" {
		cfg.LLM.APIVersion = v
	}
	if v := os.Getenv("DEBUG"); v != "" {
		cfg.Debug = strings.EqualFold(v, "true")
	}
	if v := os.Getenv("APPROVAL_MODE"); v != "" {
		cfg.ApprovalMode = coretypes.ApprovalMode(v)
	}
	if v := os.Getenv("ENABLE_MONITORING"); v != "" {
		cfg.Monitoring.Enabled = strings.EqualFold(v, "true")
	}
	if v := os.Getenv("MONITORING_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Monitoring.Port = port
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Validate enforces spec §6's required environment contract: API_KEY (or
// AZURE_API_KEY) and ENDPOINT (or AZURE_ENDPOINT_URL) must be present.
func (c Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("config: missing API_KEY/AZURE_API_KEY")
	}
	if c.LLM.Endpoint == "" {
		return fmt.Errorf("config: missing ENDPOINT/AZURE_ENDPOINT_URL")
	}
	switch c.ApprovalMode {
	case coretypes.ApprovalModeDefault, coretypes.ApprovalModeAutoEdit, coretypes.ApprovalModeYolo:
	default:
		return fmt.Errorf("config: invalid approval mode %q", c.ApprovalMode)
	}
	return nil
}
