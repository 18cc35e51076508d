// Package main provides the CLI entry point for the agent core.
//
// Usage:
//
//	agentcore --prompt "summarize internal/executor" --non-interactive
//	agentcore --approval-mode yolo
//
// Configuration is read from an optional YAML file (--config) and then
// overridden by the environment variables spec §6 names (API_KEY,
// ENDPOINT, MODEL, ...).
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/triadrun/agentcore/internal/approval"
	"github.com/triadrun/agentcore/internal/config"
	"github.com/triadrun/agentcore/internal/corelog"
	"github.com/triadrun/agentcore/internal/events"
	"github.com/triadrun/agentcore/internal/executor"
	"github.com/triadrun/agentcore/internal/llm"
	"github.com/triadrun/agentcore/internal/memory"
	"github.com/triadrun/agentcore/internal/orchestrator"
	"github.com/triadrun/agentcore/internal/planner"
	"github.com/triadrun/agentcore/internal/tools"
	"github.com/triadrun/agentcore/internal/tools/builtin"
	"github.com/triadrun/agentcore/pkg/coretypes"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	var (
		configPath     string
		promptText     string
		nonInteractive bool
		approvalMode   string
		withMonitoring bool
	)

	cmd := &cobra.Command{
		Use:     "agentcore",
		Short:   "Triad task-agent core: Planner, Executor, Orchestrator over a pluggable LLM backend",
		Version: fmt.Sprintf("%s (commit %s)", version, commit),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if approvalMode != "" {
				cfg.ApprovalMode = coretypes.ApprovalMode(approvalMode)
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			if withMonitoring {
				cfg.Monitoring.Enabled = true
			}

			orch, logger, err := setup(cfg, nonInteractive)
			if err != nil {
				return err
			}

			if nonInteractive {
				if promptText == "" {
					return fmt.Errorf("agentcore: --prompt is required with --non-interactive")
				}
				return runOnce(cmd.Context(), orch, logger, promptText, cmd.OutOrStdout())
			}

			if promptText != "" {
				return runOnce(cmd.Context(), orch, logger, promptText, cmd.OutOrStdout())
			}

			return runREPL(cmd.Context(), orch, logger, os.Stdin, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML configuration file")
	cmd.Flags().StringVarP(&promptText, "prompt", "p", "", "Run a single prompt and exit")
	cmd.Flags().BoolVar(&nonInteractive, "non-interactive", false, "Suppress approval prompts and the REPL; requires --prompt")
	cmd.Flags().StringVar(&approvalMode, "approval-mode", "", "Override the configured approval mode: default, auto_edit, yolo")
	cmd.Flags().BoolVar(&withMonitoring, "with-monitoring", false, "Enable the Prometheus counters sink on the event bus")

	return cmd
}

// setup wires every component the Orchestrator needs from a loaded Config,
// following the teacher's per-command "load config, construct collaborators,
// run" shape rather than a DI container.
func setup(cfg config.Config, nonInteractive bool) (*orchestrator.Orchestrator, corelog.Logger, error) {
	logLevel := "info"
	if cfg.Debug {
		logLevel = "debug"
	}
	logger := corelog.New(corelog.Config{Level: logLevel})

	runID := uuid.NewString()
	bus := events.NewInProcessBus(runID)
	if cfg.Monitoring.Enabled {
		sink := events.NewPromCounters(nil)
		ch, _ := bus.Subscribe(256)
		go sink.Consume(ch)
	}

	llmClient, err := llm.New(llm.Config{
		Provider:   cfg.LLM.Provider,
		APIKey:     cfg.LLM.APIKey,
		Endpoint:   cfg.LLM.Endpoint,
		Model:      cfg.LLM.Model,
		APIVersion: cfg.LLM.APIVersion,
		Timeout:    cfg.LLM.Timeout,
		MaxRetries: cfg.LLM.MaxRetries,
	}, bus)
	if err != nil {
		return nil, nil, err
	}

	registry := tools.NewRegistry()
	for _, t := range []tools.Tool{
		builtin.NewBashTool(),
		builtin.NewWriteFileTool(),
		builtin.NewReadFileTool(),
		builtin.NewEditTool(),
		builtin.NewGrepTool(),
		builtin.NewGitTool(),
		builtin.NewWebTool(),
	} {
		if err := registry.Register(t); err != nil {
			return nil, nil, fmt.Errorf("agentcore: registering %s: %w", t.Name(), err)
		}
	}

	var resolver approval.Resolver = denyAllResolver{}
	if !nonInteractive {
		resolver = newConsoleResolver(os.Stdin, os.Stdout)
	}
	gate := approval.NewGate(resolver)
	if len(cfg.ApprovalPolicy.RequireApproval) > 0 || len(cfg.ApprovalPolicy.AsyncTools) > 0 {
		gate = gate.WithPolicy(&approval.Policy{
			RequireApproval: cfg.ApprovalPolicy.RequireApproval,
			AsyncTools:      cfg.ApprovalPolicy.AsyncTools,
		})
	}

	mem := memory.NopProvider{}

	pl := planner.New(llmClient, registry, mem, bus, 0)
	ex := executor.New(registry, llmClient, gate, bus, executor.Config{})
	orch := orchestrator.New(registry, pl, ex, mem, bus, cfg.ApprovalMode)

	logger.Info("agentcore ready", "run_id", runID, "provider", cfg.LLM.Provider)
	return orch, logger, nil
}

func runOnce(ctx context.Context, orch *orchestrator.Orchestrator, logger corelog.Logger, prompt string, out io.Writer) error {
	result := orch.Execute(ctx, prompt)
	printResult(out, result)
	if !result.Success {
		logger.Error("run failed", "error", result.Error)
		return errors.New(result.Error)
	}
	return nil
}

func printResult(out io.Writer, result orchestrator.Result) {
	if result.Response != "" {
		fmt.Fprintln(out, result.Response)
	}
	if !result.Success {
		fmt.Fprintf(out, "error: %s\n", result.Error)
	}
}
