package sweep

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// CommandRunner executes one external command to completion and returns its
// combined output. Implementations are injectable so sweeps are testable
// without real profilers.
type CommandRunner interface {
	Run(ctx context.Context, argv []string, env []string) ([]byte, error)
}

// ExecRunner runs commands through os/exec. A positive Timeout bounds each
// invocation; a timed-out command is reported like any other failure so the
// sweep skips the point and continues.
type ExecRunner struct {
	Timeout time.Duration
}

// Run executes argv synchronously. env == nil inherits the parent
// environment.
func (r ExecRunner) Run(ctx context.Context, argv []string, env []string) ([]byte, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) // #nosec G204 -- structured arguments only
	if env != nil {
		cmd.Env = env
	}
	output, err := cmd.CombinedOutput()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return output, fmt.Errorf("command timed out after %s: %s", r.Timeout, strings.Join(argv, " "))
	}
	if err != nil {
		return output, fmt.Errorf("%s: %w", argv[0], err)
	}
	return output, nil
}
