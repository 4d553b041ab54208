// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Normalizer metrics
	LedgerEntriesNormalized prometheus.Counter
	InputFilesSkipped       prometheus.Counter
	RecordsDropped          *prometheus.CounterVec

	// Pipeline metrics
	WalletsFeatured prometheus.Counter
	WalletsScored   prometheus.Counter
	StageRunsTotal  *prometheus.CounterVec
	StageDuration   *prometheus.HistogramVec

	// Normalizer artifact metrics
	NormalizerFits  prometheus.Counter
	NormalizerLoads prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "wallet_credit_score"
	}

	return &Metrics{
		LedgerEntriesNormalized: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "entries_normalized_total",
			Help:      "Total number of ledger entries emitted by the normalizer",
		}),
		InputFilesSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "input_files_skipped_total",
			Help:      "Total number of unparsable input files skipped",
		}),
		RecordsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "records_dropped_total",
			Help:      "Total number of raw records dropped by reason",
		}, []string{"reason"}),

		WalletsFeatured: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "wallets_featured_total",
			Help:      "Total number of wallets with computed feature vectors",
		}),
		WalletsScored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "wallets_scored_total",
			Help:      "Total number of wallets scored",
		}),
		StageRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_runs_total",
			Help:      "Total number of pipeline stage runs by status",
		}, []string{"stage", "status"}),
		StageDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage execution duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		}, []string{"stage"}),

		NormalizerFits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "normalizer_fits_total",
			Help:      "Total number of quantile normalizers fit and persisted",
		}),
		NormalizerLoads: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "normalizer_loads_total",
			Help:      "Total number of persisted quantile normalizers reused",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordEntriesNormalized adds to the normalized ledger entries counter.
func RecordEntriesNormalized(n int) {
	DefaultMetrics.LedgerEntriesNormalized.Add(float64(n))
}

// RecordFileSkipped increments the skipped input files counter.
func RecordFileSkipped() {
	DefaultMetrics.InputFilesSkipped.Inc()
}

// RecordRecordsDropped adds to the dropped records counter for a reason.
func RecordRecordsDropped(reason string, n int) {
	DefaultMetrics.RecordsDropped.WithLabelValues(reason).Add(float64(n))
}

// RecordStageRun records one pipeline stage run.
func RecordStageRun(stage, status string, durationSeconds float64) {
	DefaultMetrics.StageRunsTotal.WithLabelValues(stage, status).Inc()
	DefaultMetrics.StageDuration.WithLabelValues(stage).Observe(durationSeconds)
}

// RecordNormalizerFit increments the fitted normalizers counter.
func RecordNormalizerFit() {
	DefaultMetrics.NormalizerFits.Inc()
}

// RecordNormalizerLoad increments the reused normalizers counter.
func RecordNormalizerLoad() {
	DefaultMetrics.NormalizerLoads.Inc()
}
