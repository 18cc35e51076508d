package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/triadrun/agentcore/internal/approval"
)

// consoleResolver prompts the user on stdin/stdout for a yes/no answer
// before a gated tool call runs. Grounded on the teacher's CLI RunE
// functions reading from cmd.OutOrStdout()/os.Stdin directly rather than
// through any TTY library.
type consoleResolver struct {
	in  *bufio.Reader
	out io.Writer
}

func newConsoleResolver(in io.Reader, out io.Writer) *consoleResolver {
	return &consoleResolver{in: bufio.NewReader(in), out: out}
}

func (r *consoleResolver) Resolve(ctx context.Context, req approval.Request) (bool, error) {
	title := req.ToolName
	if req.Details != nil && req.Details.Title != "" {
		title = req.Details.Title
	}
	fmt.Fprintf(r.out, "approval needed: %s\n", title)
	if req.Details != nil && req.Details.Description != "" {
		fmt.Fprintf(r.out, "  %s\n", req.Details.Description)
	}
	fmt.Fprint(r.out, "proceed? [y/N] ")

	line, err := r.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// denyAllResolver backs --non-interactive: the spec's env contract says
// to suppress prompts and default-deny any confirmation rather than block
// on a read that will never come.
type denyAllResolver struct{}

func (denyAllResolver) Resolve(context.Context, approval.Request) (bool, error) {
	return false, nil
}
