// Package telemetry exposes service observability counters. These are process
// metrics for operators, not gameplay analytics; nothing here ends up in a save.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles every collector the server registers.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	clicksTotal     prometheus.Counter
	throttledTotal  prometheus.Counter
	purchasesTotal  *prometheus.CounterVec
	prestigesTotal  prometheus.Counter
	savesTotal      prometheus.Counter
	saveErrorsTotal prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clicker_http_requests_total",
			Help: "HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clicker_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		clicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clicker_clicks_total",
			Help: "Accepted clicks across all slots.",
		}),
		throttledTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clicker_clicks_throttled_total",
			Help: "Clicks dropped by the rate limit.",
		}),
		purchasesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clicker_purchases_total",
			Help: "Successful purchases by kind.",
		}, []string{"kind"}),
		prestigesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clicker_prestiges_total",
			Help: "Completed prestige resets.",
		}),
		savesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clicker_saves_total",
			Help: "Successful save persists.",
		}),
		saveErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clicker_save_errors_total",
			Help: "Failed save persists.",
		}),
	}
	m.registry.MustRegister(
		m.requestsTotal, m.requestDuration,
		m.clicksTotal, m.throttledTotal, m.purchasesTotal,
		m.prestigesTotal, m.savesTotal, m.saveErrorsTotal,
	)
	return m
}

// HTTPHandler serves the /metrics endpoint.
func (m *Metrics) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(method, path string, status int, d time.Duration) {
	m.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func (m *Metrics) IncClick()               { m.clicksTotal.Inc() }
func (m *Metrics) IncThrottled()           { m.throttledTotal.Inc() }
func (m *Metrics) IncPurchase(kind string) { m.purchasesTotal.WithLabelValues(kind).Inc() }
func (m *Metrics) IncPrestige()            { m.prestigesTotal.Inc() }
func (m *Metrics) IncSave()                { m.savesTotal.Inc() }
func (m *Metrics) IncSaveError()           { m.saveErrorsTotal.Inc() }
