package probe

import (
	"context"
	"time"
)

// Outcome classifies a single service-status check.
type Outcome string

const (
	OutcomeActive   Outcome = "active"
	OutcomeInactive Outcome = "inactive"
	OutcomeError    Outcome = "error"
)

// CheckResult is the unified result of a single probe.
//
// Fields:
//   - State: trimmed stdout of the status command ("active", "inactive", "failed", ...).
//     Empty when the command could not run.
//   - Message: error detail for OutcomeError, otherwise the state.
type CheckResult struct {
	Service   string        `json:"service"`
	Outcome   Outcome       `json:"outcome"`
	State     string        `json:"state,omitempty"`
	Message   string        `json:"message"`
	Err       error         `json:"-"`
	Duration  time.Duration `json:"duration"`
	CheckedAt time.Time     `json:"checked_at"`
}

func (r CheckResult) Active() bool { return r.Outcome == OutcomeActive }

// Checker performs a single status check for a named service.
type Checker interface {
	Check(ctx context.Context, service string) CheckResult
}
