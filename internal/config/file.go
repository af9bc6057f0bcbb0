package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of the config. Zero values leave the current
// setting alone, pointers are used where zero is meaningful.
type File struct {
	Service struct {
		Name        string `yaml:"name"`
		Label       string `yaml:"label"`
		Subsystem   string `yaml:"subsystem"`
		WindowTitle string `yaml:"window_title"`
	} `yaml:"service"`

	Check struct {
		Shell      []string `yaml:"shell"`
		Command    string   `yaml:"command"`
		IntervalMs int      `yaml:"interval_ms"`
		TimeoutMs  int      `yaml:"timeout_ms"`
		ClockMs    int      `yaml:"clock_ms"`
	} `yaml:"check"`

	API struct {
		Addr           *string  `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
		PublicRPM      *int     `yaml:"public_rpm"`
		PublicBurst    *int     `yaml:"public_burst"`
	} `yaml:"api"`

	Alerts struct {
		SlackWebhook string `yaml:"slack_webhook"`
		OnRecovery   *bool  `yaml:"on_recovery"`
		CooldownMs   int    `yaml:"cooldown_ms"`
	} `yaml:"alerts"`

	LogDir   string `yaml:"log_dir"`
	NoColor  *bool  `yaml:"no_color"`
	Terminal *bool  `yaml:"terminal"`
}

// LoadFile reads a YAML file and applies it on top of cfg.
func LoadFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	f.apply(cfg)
	return nil
}

func (f *File) apply(cfg *Config) {
	setString(&cfg.Service, f.Service.Name)
	setString(&cfg.Label, f.Service.Label)
	setString(&cfg.Subsystem, f.Service.Subsystem)
	setString(&cfg.WindowTitle, f.Service.WindowTitle)

	if len(f.Check.Shell) > 0 {
		cfg.Shell = f.Check.Shell
	}
	setString(&cfg.Command, f.Check.Command)
	setMillis(&cfg.CheckInterval, f.Check.IntervalMs)
	setMillis(&cfg.CheckTimeout, f.Check.TimeoutMs)
	setMillis(&cfg.ClockInterval, f.Check.ClockMs)

	if f.API.Addr != nil {
		cfg.Addr = *f.API.Addr
	}
	if len(f.API.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = f.API.AllowedOrigins
	}
	if f.API.PublicRPM != nil {
		cfg.PublicRPM = *f.API.PublicRPM
	}
	if f.API.PublicBurst != nil {
		cfg.PublicBurst = *f.API.PublicBurst
	}

	setString(&cfg.SlackWebhook, f.Alerts.SlackWebhook)
	if f.Alerts.OnRecovery != nil {
		cfg.AlertRecovery = *f.Alerts.OnRecovery
	}
	setMillis(&cfg.AlertCooldown, f.Alerts.CooldownMs)

	setString(&cfg.LogDir, f.LogDir)
	if f.NoColor != nil {
		cfg.NoColor = *f.NoColor
	}
	if f.Terminal != nil {
		cfg.Terminal = *f.Terminal
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setMillis(dst *time.Duration, ms int) {
	if ms > 0 {
		*dst = time.Duration(ms) * time.Millisecond
	}
}
