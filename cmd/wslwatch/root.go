package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/hamed0406/wslwatch/internal/config"
)

var (
	cfgFile      string
	flagService  string
	flagInterval time.Duration
	flagTimeout  time.Duration
	flagAddr     string
	flagLogDir   string
	flagNoColor  bool
	flagDebug    bool
)

var rootCmd = &cobra.Command{
	Use:   "wslwatch",
	Short: "Watch a service inside WSL2 and show how long ago it was last seen active.",
	Long: `wslwatch periodically runs "systemctl is-active <service>" inside the WSL2
subsystem and shows the result plus a "last seen active" clock on the terminal
and on a small local web widget.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runWatcher,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "YAML config file (env and defaults apply underneath)")
	f.StringVar(&flagService, "service", "", "service to check (default nginx)")
	f.DurationVar(&flagInterval, "interval", 0, "delay between checks (default 12s)")
	f.DurationVar(&flagTimeout, "timeout", 0, "timeout of a single check (default 5s)")
	f.StringVar(&flagAddr, "addr", "", `status API address, "off" disables it (default 127.0.0.1:8080)`)
	f.StringVar(&flagLogDir, "log-dir", "", "log directory (default logs)")
	f.BoolVar(&flagNoColor, "no-color", false, "disable colored terminal output")
	f.BoolVar(&flagDebug, "debug", false, "log every check")

	rootCmd.AddCommand(runCmd, checkCmd, statusCmd, preflightCmd)
}

// loadConfig layers defaults, env, the config file and flags, then validates.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.FromEnv()
	if cfgFile != "" {
		if err := config.LoadFile(cfgFile, &cfg); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("service") {
		cfg.Service = flagService
	}
	if flags.Changed("interval") {
		cfg.CheckInterval = flagInterval
	}
	if flags.Changed("timeout") {
		cfg.CheckTimeout = flagTimeout
	}
	if flags.Changed("addr") {
		cfg.Addr = flagAddr
		if cfg.Addr == "off" {
			cfg.Addr = ""
		}
	}
	if flags.Changed("log-dir") {
		cfg.LogDir = flagLogDir
	}
	if flags.Changed("no-color") {
		cfg.NoColor = flagNoColor
	}

	if err := config.Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
