package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "settlement_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	reconcileTotal   *prometheus.CounterVec
	reconcileLatency *prometheus.HistogramVec
	reconcileRows    *prometheus.CounterVec

	uploadsTotal   *prometheus.CounterVec
	downloadsTotal *prometheus.CounterVec
	jobsInFlight   prometheus.Gauge

	cleanupRemoved *prometheus.CounterVec
)

// Init registers the service metrics with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		reconcileTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "reconcile_total",
				Help: "Total reconcile runs by result",
			},
			[]string{"result"},
		)
		reconcileLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "reconcile_latency_seconds",
				Help:    "Reconcile run latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		reconcileRows = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "reconcile_rows_total",
				Help: "Settlement rows processed by stage",
			},
			[]string{"stage"},
		)

		uploadsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "uploads_total",
				Help: "Total report uploads by result",
			},
			[]string{"result"},
		)
		downloadsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "downloads_total",
				Help: "Total artifact downloads by result",
			},
			[]string{"result"},
		)
		jobsInFlight = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "jobs_in_flight",
				Help: "Reconcile jobs currently processing",
			},
		)

		cleanupRemoved = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "cleanup_removed_files_total",
				Help: "Expired files removed by storage area",
			},
			[]string{"area"},
		)

		prometheus.MustRegister(
			reconcileTotal,
			reconcileLatency,
			reconcileRows,
			uploadsTotal,
			downloadsTotal,
			jobsInFlight,
			cleanupRemoved,
		)
	})
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveReconcile records reconcile latency and result.
func ObserveReconcile(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if reconcileTotal != nil {
		reconcileTotal.WithLabelValues(result).Inc()
	}
	if reconcileLatency != nil {
		reconcileLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// AddRows adds count rows to the given stage counter.
func AddRows(stage string, count int) {
	if count <= 0 {
		return
	}
	if reconcileRows != nil {
		reconcileRows.WithLabelValues(stage).Add(float64(count))
	}
}

// IncUpload increments the upload counter.
func IncUpload(result string) {
	if result == "" {
		result = "unknown"
	}
	if uploadsTotal != nil {
		uploadsTotal.WithLabelValues(result).Inc()
	}
}

// IncDownload increments the download counter.
func IncDownload(result string) {
	if result == "" {
		result = "unknown"
	}
	if downloadsTotal != nil {
		downloadsTotal.WithLabelValues(result).Inc()
	}
}

// JobStarted and JobFinished track jobs in flight.
func JobStarted() {
	if jobsInFlight != nil {
		jobsInFlight.Inc()
	}
}

func JobFinished() {
	if jobsInFlight != nil {
		jobsInFlight.Dec()
	}
}

// AddCleanupRemoved counts files removed by expiry cleanup.
func AddCleanupRemoved(area string, count int) {
	if count <= 0 {
		return
	}
	if cleanupRemoved != nil {
		cleanupRemoved.WithLabelValues(area).Add(float64(count))
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError

	ResultRejected = "rejected"
	ResultGone     = "gone"

	StageRead     = "read"
	StageRetained = "retained"
	StageEmitted  = "emitted"
	StageFlushed  = "flushed"
)
