package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/triadrun/agentcore/internal/corelog"
	"github.com/triadrun/agentcore/internal/orchestrator"
)

// runREPL reads prompts from in line by line until EOF or a slash command
// tells the Orchestrator to quit, printing each Result to out. Grounded on
// the teacher's pattern of a cobra RunE driving a plain bufio.Scanner loop
// rather than a third-party readline library (nexus's channel adapters own
// their own I/O; the CLI itself never pulls one in).
func runREPL(ctx context.Context, orch *orchestrator.Orchestrator, logger corelog.Logger, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, "agentcore interactive mode. Type /help for commands, /quit to exit.")

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		result := orch.Execute(ctx, line)
		printResult(out, result)

		if isQuit(line) {
			return nil
		}
		if !result.Success {
			logger.Warn("prompt failed", "error", result.Error)
		}
	}
}

func isQuit(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "/quit", "/exit":
		return true
	default:
		return false
	}
}
