package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/hamed0406/wslwatch/internal/display"
	"github.com/hamed0406/wslwatch/internal/domain"
	"github.com/hamed0406/wslwatch/internal/metrics"
)

// ---- test helpers ----

func setupServer(t *testing.T, opts RouterOptions) (*httptest.Server, *display.Board) {
	t.Helper()
	board := display.NewBoard("WSL Nginx Status Checker", "nginx")
	srv := NewServer(zap.NewNop(), board, metrics.New())
	ts := httptest.NewServer(srv.Router(opts))
	t.Cleanup(ts.Close)
	return ts, board
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, string(b)
}

// ---- tests ----

func TestHealthz(t *testing.T) {
	ts, _ := setupServer(t, RouterOptions{})
	resp, body := get(t, ts.URL+"/healthz")
	if resp.StatusCode != 200 || body != "ok" {
		t.Fatalf("healthz: %d %q", resp.StatusCode, body)
	}
}

func TestStatus_ReflectsBoard(t *testing.T) {
	ts, board := setupServer(t, RouterOptions{})
	at := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)
	board.SetStatus(domain.Status{Level: domain.LevelOK, Text: "Nginx is running ✅", CheckedAt: at})
	board.SetClock("Last WSL request: 3 seconds ago")

	resp, body := get(t, ts.URL+"/api/status")
	if resp.StatusCode != 200 {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(body), &snap); err != nil {
		t.Fatalf("decode: %v (%s)", err, body)
	}
	if snap.Status.Level != domain.LevelOK || snap.Clock != "Last WSL request: 3 seconds ago" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.LastSuccess == nil || !snap.LastSuccess.Equal(at) {
		t.Fatalf("last_success=%v want %v", snap.LastSuccess, at)
	}
}

func TestWidget_RendersLabels(t *testing.T) {
	ts, board := setupServer(t, RouterOptions{})
	board.SetStatus(domain.Status{Level: domain.LevelError, Text: "Error: <timeout>"})
	board.SetClock("Waiting for first WSL request...")

	resp, body := get(t, ts.URL+"/")
	if resp.StatusCode != 200 || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Fatalf("widget: %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(body, `<title>WSL Nginx Status Checker</title>`) {
		t.Fatalf("missing title")
	}
	if !strings.Contains(body, `class="error"`) || !strings.Contains(body, "Error: &lt;timeout&gt;") {
		t.Fatalf("status label not rendered/escaped:\n%s", body)
	}
	if !strings.Contains(body, "Waiting for first WSL request...") {
		t.Fatalf("clock label missing")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := setupServer(t, RouterOptions{})
	get(t, ts.URL+"/api/status")
	resp, body := get(t, ts.URL+"/metrics")
	if resp.StatusCode != 200 {
		t.Fatalf("metrics: %d", resp.StatusCode)
	}
	if !strings.Contains(body, `wslwatch_http_requests_total{code="200",route="/api/status"}`) {
		t.Fatalf("request counter missing:\n%s", body)
	}
}

func TestUnknownPathsShareOneSeries(t *testing.T) {
	reg := metrics.New()
	srv := NewServer(zap.NewNop(), display.NewBoard("WSL Nginx Status Checker", "nginx"), reg)
	ts := httptest.NewServer(srv.Router(RouterOptions{}))
	defer ts.Close()

	for i := 0; i < 50; i++ {
		if resp, _ := get(t, fmt.Sprintf("%s/x%d", ts.URL, i)); resp.StatusCode != http.StatusNotFound {
			t.Fatalf("want 404, got %d", resp.StatusCode)
		}
	}
	if n := testutil.CollectAndCount(reg.HTTPRequestsTotal); n != 1 {
		t.Fatalf("want 1 series for unmatched paths, got %d", n)
	}
	if got := testutil.ToFloat64(reg.HTTPRequestsTotal.WithLabelValues("unmatched", "404")); got != 50 {
		t.Fatalf("unmatched counter=%v", got)
	}
}

func TestRateLimitAppliesToStatus(t *testing.T) {
	ts, _ := setupServer(t, RouterOptions{PublicRPM: 60, PublicBurst: 1})
	if resp, _ := get(t, ts.URL+"/api/status"); resp.StatusCode != 200 {
		t.Fatalf("first request: %d", resp.StatusCode)
	}
	if resp, _ := get(t, ts.URL+"/api/status"); resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("second request: want 429, got %d", resp.StatusCode)
	}
	// health checks are never limited
	if resp, _ := get(t, ts.URL+"/healthz"); resp.StatusCode != 200 {
		t.Fatalf("healthz limited: %d", resp.StatusCode)
	}
}

func TestCORS_AllowedOrigin(t *testing.T) {
	ts, _ := setupServer(t, RouterOptions{AllowedOrigins: []string{"http://localhost:3000"}})

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/status", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow-origin=%q", got)
	}

	req2, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/status", nil)
	req2.Header.Set("Origin", "http://evil.test")
	resp2, err := http.DefaultClient.Do(req2)
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if got := resp2.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow-origin for foreign origin: %q", got)
	}
}
