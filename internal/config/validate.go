package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hamed0406/wslwatch/internal/probe"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate checks the configuration without mutating it.
func Validate(cfg Config) error {
	if err := probe.ValidateServiceName(cfg.Service); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if len(cfg.Shell) == 0 {
		return fmt.Errorf("%w: shell command is empty", ErrInvalid)
	}
	if strings.Count(cfg.Command, "%s") != 1 {
		return fmt.Errorf("%w: command %q must contain exactly one %%s", ErrInvalid, cfg.Command)
	}
	if cfg.CheckInterval <= 0 {
		return fmt.Errorf("%w: check interval must be > 0", ErrInvalid)
	}
	if cfg.CheckTimeout <= 0 {
		return fmt.Errorf("%w: check timeout must be > 0", ErrInvalid)
	}
	if cfg.ClockInterval <= 0 {
		return fmt.Errorf("%w: clock interval must be > 0", ErrInvalid)
	}
	if cfg.PublicRPM > 0 && cfg.PublicBurst < 1 {
		return fmt.Errorf("%w: public burst must be >= 1 when rate limiting is on", ErrInvalid)
	}
	if cfg.LogDir == "" {
		return fmt.Errorf("%w: log dir is empty", ErrInvalid)
	}
	return nil
}

// Warnings lists settings that are legal but probably not intended.
func Warnings(cfg Config) []string {
	var out []string
	if cfg.CheckTimeout >= cfg.CheckInterval {
		out = append(out, fmt.Sprintf("check timeout %s is not shorter than the interval %s; the clock will stall while a check hangs", cfg.CheckTimeout, cfg.CheckInterval))
	}
	if cfg.Addr == "" && !cfg.Terminal {
		out = append(out, "status API and terminal output are both disabled; results only reach the log")
	}
	if cfg.Addr != "" && len(cfg.AllowedOrigins) == 0 {
		out = append(out, "ALLOWED_ORIGINS empty; the status API accepts any origin")
	}
	return out
}
