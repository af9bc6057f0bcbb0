package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/hamed0406/wslwatch/internal/probe"
)

func TestObserveCheck(t *testing.T) {
	r := New()
	at := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)

	r.ObserveCheck(probe.CheckResult{Service: "nginx", Outcome: probe.OutcomeActive, Duration: 300 * time.Millisecond, CheckedAt: at})
	if got := testutil.ToFloat64(r.ServiceUp); got != 1 {
		t.Fatalf("service_up=%v want 1", got)
	}
	if got := testutil.ToFloat64(r.LastSuccess); got != float64(at.Unix()) {
		t.Fatalf("last_success=%v want %v", got, at.Unix())
	}

	r.ObserveCheck(probe.CheckResult{Service: "nginx", Outcome: probe.OutcomeError, CheckedAt: at.Add(time.Minute)})
	if got := testutil.ToFloat64(r.ServiceUp); got != 0 {
		t.Fatalf("service_up=%v want 0", got)
	}
	if got := testutil.ToFloat64(r.LastSuccess); got != float64(at.Unix()) {
		t.Fatalf("last_success must not move on error, got %v", got)
	}
	if got := testutil.ToFloat64(r.ChecksTotal.WithLabelValues("nginx", "error")); got != 1 {
		t.Fatalf("error count=%v want 1", got)
	}
}

func TestNilRegistryIsNoop(t *testing.T) {
	var r *Registry
	r.ObserveCheck(probe.CheckResult{Outcome: probe.OutcomeActive})
}

func TestHandler_Exposes(t *testing.T) {
	r := New()
	r.ObserveCheck(probe.CheckResult{Service: "nginx", Outcome: probe.OutcomeInactive})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `wslwatch_checks_total{outcome="inactive",service="nginx"} 1`) {
		t.Fatalf("missing counter in exposition:\n%s", body)
	}
}
