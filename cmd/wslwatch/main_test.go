package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hamed0406/wslwatch/internal/domain"
	"github.com/hamed0406/wslwatch/internal/probe"
)

// executeRoot runs the CLI with args and restores every flag afterwards so
// tests do not leak state into each other.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() {
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestExitCodeForError(t *testing.T) {
	cases := []struct {
		err      error
		code     int
		stderrOK func(string) bool
	}{
		{&exitError{code: 2, silent: true}, 2, func(s string) bool { return s == "" }},
		{&exitError{code: 1, err: errors.New("bad")}, 1, func(s string) bool { return strings.Contains(s, "bad") }},
		{fmt.Errorf("wrap: %w", context.Canceled), 130, func(s string) bool { return strings.Contains(s, "canceled") }},
		{errors.New("boom"), 1, func(s string) bool { return strings.Contains(s, "boom") }},
	}
	for _, c := range cases {
		var stderr bytes.Buffer
		if got := exitCodeForError(c.err, &stderr); got != c.code {
			t.Fatalf("exitCodeForError(%v)=%d want %d", c.err, got, c.code)
		}
		if !c.stderrOK(stderr.String()) {
			t.Fatalf("unexpected stderr for %v: %q", c.err, stderr.String())
		}
	}
	if runMain(func() error { return nil }, &bytes.Buffer{}) != 0 {
		t.Fatalf("nil error must exit 0")
	}
}

func TestRenderCheck(t *testing.T) {
	var buf bytes.Buffer
	err := renderCheck(&buf, "wsl bash -c systemctl is-active nginx", probe.CheckResult{
		Service:  "nginx",
		Outcome:  probe.OutcomeError,
		Message:  "check timed out",
		Duration: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"nginx", "error", "check timed out", "5000 ms"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
}

func TestStatusCommand_FetchesSnapshot(t *testing.T) {
	at := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/status" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(domain.Snapshot{
			Title:       "WSL Nginx Status Checker",
			Service:     "nginx",
			Status:      domain.Status{Level: domain.LevelOK, Text: "Nginx is running ✅"},
			Clock:       "Last WSL request: 4 seconds ago",
			LastSuccess: &at,
		})
	}))
	defer ts.Close()

	out, err := executeRoot(t, "status", "--url", ts.URL, "--json")
	if err != nil {
		t.Fatalf("status --json: %v", err)
	}
	if !strings.Contains(out, `"clock": "Last WSL request: 4 seconds ago"`) {
		t.Fatalf("json snapshot missing clock:\n%s", out)
	}
	// --json from the previous run must not stick
	t.Setenv("API_BASE", ts.URL)
	out, err = executeRoot(t, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Last WSL request: 4 seconds ago") || strings.Contains(out, `"clock"`) {
		t.Fatalf("want table output:\n%s", out)
	}
}

func TestRunCheck_RejectsUnsafeService(t *testing.T) {
	var out bytes.Buffer
	err := runCheck(context.Background(), &out, probe.NewServiceChecker([]string{"sh", "-c"}, "", 0), "nginx; rm -rf /")
	if code := exitCodeForError(err, &bytes.Buffer{}); code != 2 {
		t.Fatalf("want exit code 2, got %d (err=%v)", code, err)
	}
	if out.Len() != 0 {
		t.Fatalf("nothing should be printed:\n%s", out.String())
	}
}

func TestCheckCommand_ExitCodes(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	t.Setenv("CHECK_SHELL", "sh -c")

	cases := []struct {
		command string
		code    int
	}{
		{"echo active; true %s", 0},
		{"echo inactive; exit 3; %s", 1},
		{"exit 127; %s", 2},
	}
	for _, c := range cases {
		t.Setenv("CHECK_COMMAND", c.command)
		out, err := executeRoot(t, "check")

		code := 0
		if err != nil {
			code = exitCodeForError(err, &bytes.Buffer{})
		}
		if code != c.code {
			t.Fatalf("%q: exit code %d want %d (err=%v)\n%s", c.command, code, c.code, err, out)
		}
	}
}
