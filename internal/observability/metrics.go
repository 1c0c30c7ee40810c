// Package observability provides Prometheus metrics for analysis runs.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	InstrumentsAnalyzed *prometheus.CounterVec // labels: result
	AlertsFired         *prometheus.CounterVec // labels: kind
	NotificationsSent   prometheus.Counter

	FetchDuration *prometheus.HistogramVec // labels: source
	RunDuration   prometheus.Histogram

	LastRunTimestamp prometheus.Gauge
}

// NewMetrics registers all metrics on reg under the given namespace.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if namespace == "" {
		namespace = "stock_sentinel"
	}
	factory := promauto.With(reg)

	return &Metrics{
		InstrumentsAnalyzed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "instruments_analyzed_total",
			Help:      "Instruments processed, by result (ok, error)",
		}, []string{"result"}),
		AlertsFired: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "alerts_total",
			Help:      "Threshold alerts emitted, by kind",
		}, []string{"kind"}),
		NotificationsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifier",
			Name:      "notifications_sent_total",
			Help:      "Alert notifications delivered after de-duplication",
		}),
		FetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "collector",
			Name:      "fetch_duration_seconds",
			Help:      "Time spent collecting one instrument snapshot",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "run_duration_seconds",
			Help:      "Duration of a full analysis pass",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		LastRunTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed analysis pass",
		}),
	}
}

// ObserveInstrument counts one processed instrument.
func (m *Metrics) ObserveInstrument(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.InstrumentsAnalyzed.WithLabelValues(result).Inc()
}

// ObserveAlert counts one emitted alert.
func (m *Metrics) ObserveAlert(kind string) {
	if m == nil {
		return
	}
	m.AlertsFired.WithLabelValues(kind).Inc()
}

// ObserveNotification counts one delivered alert notification.
func (m *Metrics) ObserveNotification() {
	if m == nil {
		return
	}
	m.NotificationsSent.Inc()
}

// ObserveFetch records how long collecting a snapshot took.
func (m *Metrics) ObserveFetch(source string, d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(source).Observe(d.Seconds())
}

// ObserveRun records a finished analysis pass.
func (m *Metrics) ObserveRun(started, finished time.Time) {
	if m == nil {
		return
	}
	m.RunDuration.Observe(finished.Sub(started).Seconds())
	m.LastRunTimestamp.Set(float64(finished.Unix()))
}

// Handler returns the HTTP handler exposing metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
