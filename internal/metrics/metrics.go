package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hamed0406/wslwatch/internal/probe"
)

// Registry holds the watcher's Prometheus metrics on a private registry.
type Registry struct {
	reg *prometheus.Registry

	// Check Metrics
	ChecksTotal   *prometheus.CounterVec
	CheckDuration prometheus.Histogram
	ServiceUp     prometheus.Gauge
	LastSuccess   prometheus.Gauge

	// HTTP Metrics
	HTTPRequestsTotal *prometheus.CounterVec
}

func New() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Registry{
		reg: reg,
		ChecksTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wslwatch_checks_total",
				Help: "Service-status checks by outcome",
			},
			[]string{"service", "outcome"},
		),
		CheckDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wslwatch_check_duration_seconds",
				Help:    "Wall time of a service-status check, including subsystem start-up",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 10},
			},
		),
		ServiceUp: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "wslwatch_service_up",
				Help: "1 if the last check reported the service active",
			},
		),
		LastSuccess: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "wslwatch_last_success_timestamp_seconds",
				Help: "Unix time of the last check that reported the service active",
			},
		),
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wslwatch_http_requests_total",
				Help: "Status API requests by route and status code",
			},
			[]string{"route", "code"},
		),
	}
}

// ObserveCheck records one finished check.
func (r *Registry) ObserveCheck(res probe.CheckResult) {
	if r == nil {
		return
	}
	r.ChecksTotal.WithLabelValues(res.Service, string(res.Outcome)).Inc()
	r.CheckDuration.Observe(res.Duration.Seconds())
	if res.Active() {
		r.ServiceUp.Set(1)
		r.LastSuccess.Set(float64(res.CheckedAt.UnixNano()) / 1e9)
		return
	}
	r.ServiceUp.Set(0)
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
