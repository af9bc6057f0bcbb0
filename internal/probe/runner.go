package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ErrTimeout is returned by runners when the check outlives its deadline.
var ErrTimeout = errors.New("check timed out")

// Output is what a finished (or killed) process left behind.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes an external command and collects its output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Output, error)
}

// ExecRunner runs commands through os/exec.
type ExecRunner struct {
	// WaitDelay bounds how long we wait for stdio to close after the process
	// is killed. wsl.exe can leave a child holding the pipes.
	WaitDelay time.Duration
}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) (Output, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = r.WaitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = 500 * time.Millisecond
	}

	err := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: -1}
	if cmd.ProcessState != nil {
		out.ExitCode = cmd.ProcessState.ExitCode()
	}

	return out, runError(ctx, name, err)
}

// runError maps a finished command's error. A command that exited cleanly
// is a success even if the deadline passed right after.
func runError(ctx context.Context, name string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", ErrTimeout, name)
	}
	return fmt.Errorf("run %s: %w", name, err)
}
