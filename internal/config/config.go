package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Service        string        // systemd unit to check, e.g. "nginx"
	Label          string        // display name, e.g. "Nginx"
	Subsystem      string        // display name of the subsystem shell, e.g. "WSL"
	WindowTitle    string        // overrides Title()
	Shell          []string      // command prefix that runs a script in the subsystem
	Command        string        // status script, %s is replaced with Service
	CheckInterval  time.Duration // delay between the end of one check and the next
	CheckTimeout   time.Duration // hard limit for a single check
	ClockInterval  time.Duration // elapsed-time label refresh
	Addr           string        // status API bind address; empty disables it
	LogDir         string        // logs directory
	AllowedOrigins []string      // CORS origins for the status API; empty allows all
	PublicRPM      int           // per-IP requests/min on the status API, 0 disables
	PublicBurst    int
	SlackWebhook   string        // transition alerts; empty disables them
	AlertRecovery  bool          // also alert when the service comes back
	AlertCooldown  time.Duration // minimum gap between repeated down alerts
	NoColor        bool          // plain terminal output
	Terminal       bool          // draw the status line on stdout
}

// Defaults returns the stock WSL2/nginx watcher configuration.
func Defaults() Config {
	return Config{
		Service:       "nginx",
		Subsystem:     "WSL",
		Shell:         []string{"wsl", "bash", "-c"},
		Command:       "systemctl is-active %s",
		CheckInterval: 12 * time.Second,
		CheckTimeout:  5 * time.Second,
		ClockInterval: time.Second,
		Addr:          "127.0.0.1:8080",
		LogDir:        "logs",
		PublicRPM:     600,
		PublicBurst:   60,
		AlertRecovery: true,
		AlertCooldown: 5 * time.Minute,
		Terminal:      true,
	}
}

func FromEnv() Config {
	cfg := Defaults()

	if v := os.Getenv("SERVICE_NAME"); v != "" {
		cfg.Service = strings.TrimSpace(v)
	}
	if v := os.Getenv("SERVICE_LABEL"); v != "" {
		cfg.Label = v
	}
	if v := os.Getenv("WINDOW_TITLE"); v != "" {
		cfg.WindowTitle = v
	}
	if v := os.Getenv("SUBSYSTEM_LABEL"); v != "" {
		cfg.Subsystem = v
	}
	if v := os.Getenv("CHECK_SHELL"); v != "" {
		cfg.Shell = strings.Fields(v)
	}
	if v := os.Getenv("CHECK_COMMAND"); v != "" {
		cfg.Command = v
	}

	// Timing
	cfg.CheckInterval = envMillis("CHECK_INTERVAL_MS", cfg.CheckInterval)
	cfg.CheckTimeout = envMillis("CHECK_TIMEOUT_MS", cfg.CheckTimeout)
	cfg.ClockInterval = envMillis("CLOCK_INTERVAL_MS", cfg.ClockInterval)

	// API ("off" disables it, unset keeps the default)
	if v, ok := os.LookupEnv("API_ADDR"); ok {
		cfg.Addr = strings.TrimSpace(v)
		if strings.EqualFold(cfg.Addr, "off") {
			cfg.Addr = ""
		}
	}
	if v := os.Getenv("LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
	cfg.AllowedOrigins = splitList(os.Getenv("ALLOWED_ORIGINS"))
	cfg.PublicRPM = envInt("PUBLIC_RPM", cfg.PublicRPM)
	cfg.PublicBurst = envInt("PUBLIC_BURST", cfg.PublicBurst)

	// Alerts
	cfg.SlackWebhook = strings.TrimSpace(os.Getenv("SLACK_WEBHOOK_URL"))
	cfg.AlertRecovery = envBool("ALERT_ON_RECOVERY", cfg.AlertRecovery)
	cfg.AlertCooldown = envMillis("ALERT_COOLDOWN_MS", cfg.AlertCooldown)

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		cfg.NoColor = true
	}
	return cfg
}

// DisplayName is Label, or Service with its first letter upper-cased.
func (c Config) DisplayName() string {
	if c.Label != "" {
		return c.Label
	}
	if c.Service == "" {
		return ""
	}
	return strings.ToUpper(c.Service[:1]) + c.Service[1:]
}

// Title is the window title of the status widget.
func (c Config) Title() string {
	if c.WindowTitle != "" {
		return c.WindowTitle
	}
	return strings.TrimSpace(c.Subsystem + " " + c.DisplayName() + " Status Checker")
}

func envMillis(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
