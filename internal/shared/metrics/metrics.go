package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeBusy     = "busy"
	OutcomeUpstream = "upstream_error"
	OutcomeFailed   = "failed"
)

var (
	registry = prometheus.NewRegistry()

	uploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inspector_uploads_total",
			Help: "Résumé uploads by outcome",
		},
		[]string{"outcome"},
	)

	exportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inspector_exports_total",
			Help: "PDF report exports by outcome",
		},
		[]string{"outcome"},
	)

	upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inspector_upstream_duration_seconds",
			Help:    "Analysis backend call duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"endpoint", "outcome"},
	)

	exportDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "inspector_export_duration_seconds",
			Help:    "PDF report generation time in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)
)

func init() {
	registry.MustRegister(uploadsTotal, exportsTotal, upstreamDuration, exportDuration)
}

// IncUpload counts one upload attempt.
func IncUpload(outcome string) {
	uploadsTotal.WithLabelValues(outcome).Inc()
}

// IncExport counts one export attempt.
func IncExport(outcome string) {
	exportsTotal.WithLabelValues(outcome).Inc()
}

// ObserveUpstream records one call to the analysis backend.
func ObserveUpstream(endpoint, outcome string, d time.Duration) {
	upstreamDuration.WithLabelValues(endpoint, outcome).Observe(d.Seconds())
}

// ObserveExport records the time spent generating one report.
func ObserveExport(d time.Duration) {
	exportDuration.Observe(d.Seconds())
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}
