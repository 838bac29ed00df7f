// Package metrics exposes Prometheus instrumentation for coupon reports.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "coupon_insights"

// Report outcomes used as the "result" label.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Metrics holds the collectors recorded by the report service.
type Metrics struct {
	ReportRuns     *prometheus.CounterVec
	ReportDuration prometheus.Histogram
	UniqueCoupons  prometheus.Gauge
}

// New creates the report collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ReportRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unique_product_code_reports_total",
			Help:      "Number of unique product code reports by result.",
		}, []string{"result"}),
		ReportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "unique_product_code_report_duration_seconds",
			Help:      "Time spent fetching coupons and counting unique product codes.",
			Buckets:   prometheus.DefBuckets,
		}),
		UniqueCoupons: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "coupons_with_unique_product_codes",
			Help:      "Result of the most recent successful report.",
		}),
	}

	reg.MustRegister(m.ReportRuns, m.ReportDuration, m.UniqueCoupons)

	return m
}

// NewRegistry returns a registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler serves the metrics gathered by reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// ObserveReport records one report run.
func (m *Metrics) ObserveReport(duration time.Duration, count int, err error) {
	if m == nil {
		return
	}

	m.ReportDuration.Observe(duration.Seconds())
	if err != nil {
		m.ReportRuns.WithLabelValues(ResultError).Inc()
		return
	}

	m.ReportRuns.WithLabelValues(ResultSuccess).Inc()
	m.UniqueCoupons.Set(float64(count))
}
