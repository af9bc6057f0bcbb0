package probe

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	DefaultCommand = "systemctl is-active %s"
	DefaultTimeout = 5 * time.Second
)

// DefaultShell runs the status command inside the WSL2 default distro.
var DefaultShell = []string{"wsl", "bash", "-c"}

// service names end up inside a shell string, keep them boring.
var serviceNameRe = regexp.MustCompile(`^[A-Za-z0-9@._:\-]{1,256}$`)

// ValidateServiceName rejects names that are not plain unit names.
func ValidateServiceName(name string) error {
	if !serviceNameRe.MatchString(name) {
		return fmt.Errorf("invalid service name %q", name)
	}
	return nil
}

// ServiceChecker asks the subsystem shell whether a service is active.
type ServiceChecker struct {
	Runner  Runner
	Shell   []string
	Command string
	Timeout time.Duration

	now func() time.Time
}

func NewServiceChecker(shell []string, command string, timeout time.Duration) *ServiceChecker {
	if len(shell) == 0 {
		shell = DefaultShell
	}
	if command == "" {
		command = DefaultCommand
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ServiceChecker{
		Runner:  ExecRunner{},
		Shell:   shell,
		Command: command,
		Timeout: timeout,
		now:     time.Now,
	}
}

// Argv returns the full command line used to check service.
func (c *ServiceChecker) Argv(service string) ([]string, error) {
	if err := ValidateServiceName(service); err != nil {
		return nil, err
	}
	if len(c.Shell) == 0 {
		return nil, fmt.Errorf("empty shell command")
	}
	argv := make([]string, 0, len(c.Shell)+1)
	argv = append(argv, c.Shell...)
	return append(argv, fmt.Sprintf(c.Command, service)), nil
}

func (c *ServiceChecker) Check(ctx context.Context, service string) CheckResult {
	start := c.clock()
	res := CheckResult{Service: service}

	argv, err := c.Argv(service)
	if err != nil {
		return c.finish(res, start, "", err)
	}

	cctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	out, runErr := c.Runner.Run(cctx, argv[0], argv[1:]...)
	if runErr != nil && isTimeout(runErr) {
		runErr = fmt.Errorf("command %q timed out after %s: %w", strings.Join(argv, " "), c.Timeout, ErrTimeout)
		return c.finish(res, start, "", runErr)
	}

	// systemctl exits non-zero for anything but "active" while still printing
	// the state, so stdout wins over the exit status.
	state := cleanOutput(out.Stdout)
	if state == "" && runErr != nil {
		if detail := cleanOutput(out.Stderr); detail != "" {
			runErr = fmt.Errorf("%w: %s", runErr, detail)
		}
	}
	return c.finish(res, start, state, runErr)
}

func (c *ServiceChecker) finish(res CheckResult, start time.Time, state string, err error) CheckResult {
	res.CheckedAt = c.clock()
	res.Duration = res.CheckedAt.Sub(start)
	res.State = state
	switch {
	case state == "" && err != nil:
		res.Outcome = OutcomeError
		res.Err = err
		res.Message = err.Error()
	case state == "active":
		res.Outcome = OutcomeActive
		res.Message = state
	default:
		res.Outcome = OutcomeInactive
		res.Message = state
		if state == "" {
			res.Message = "no output"
		}
	}
	return res
}

func (c *ServiceChecker) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

// cleanOutput trims whitespace and the NUL padding wsl.exe leaves when it
// writes UTF-16 to a pipe.
func cleanOutput(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\x00", ""))
}

func isTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}
