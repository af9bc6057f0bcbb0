package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/hamed0406/wslwatch/internal/config"
)

var preflightCmd = &cobra.Command{
	Use:   "preflight",
	Short: "Check configuration and environment before starting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
		failed := false
		fail := func(msg string) {
			fmt.Fprintln(errOut, "✖", msg)
			failed = true
		}
		warn := func(msg string) { fmt.Fprintln(errOut, "⚠", msg) }
		ok := func(msg string) { fmt.Fprintln(out, "✔", msg) }

		cfg, err := loadConfig(cmd)
		if err != nil {
			fail(err.Error())
			return &exitError{code: 1, silent: true}
		}
		ok(fmt.Sprintf("service=%s interval=%s timeout=%s", cfg.Service, cfg.CheckInterval, cfg.CheckTimeout))

		if path, err := exec.LookPath(cfg.Shell[0]); err != nil {
			fail(fmt.Sprintf("%s not found on PATH; set CHECK_SHELL (e.g. \"bash -c\" when running inside Linux)", cfg.Shell[0]))
		} else {
			ok("shell " + path)
		}

		if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
			fail("LOG_DIR not writable: " + err.Error())
		} else {
			ok("LOG_DIR=" + cfg.LogDir)
		}

		if cfg.Addr == "" {
			warn("API_ADDR off; no web widget or /metrics.")
		} else {
			ok("API_ADDR=" + cfg.Addr)
		}
		if cfg.SlackWebhook == "" {
			warn("SLACK_WEBHOOK_URL empty; transitions are only logged.")
		} else {
			ok("SLACK_WEBHOOK_URL present")
		}
		for _, w := range config.Warnings(cfg) {
			warn(w)
		}

		if failed {
			return &exitError{code: 1, silent: true}
		}
		ok("preflight passed")
		return nil
	},
}
