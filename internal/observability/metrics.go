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
	// Ingestion metrics
	TradesIngested   *prometheus.CounterVec
	TradesStored     prometheus.Counter
	IngestErrors     *prometheus.CounterVec
	TailReconnects   prometheus.Counter
	TailQueueDepth   prometheus.Gauge

	// Analytics metrics
	ReportsGenerated prometheus.Counter
	AnalyzeDuration  prometheus.Histogram
	ReportWarnings   prometheus.Counter

	// Archive metrics
	SnapshotsArchived prometheus.Counter
	ArchiveErrors     prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulIngestion prometheus.Gauge
	LastSuccessfulReport    prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "lumir"
	}

	return &Metrics{
		// Ingestion metrics
		TradesIngested: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "trades_ingested_total",
			Help:      "Total number of trades ingested by source",
		}, []string{"source"}),
		TradesStored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "trades_stored_total",
			Help:      "Total number of trades stored to database",
		}),
		IngestErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "errors_total",
			Help:      "Total number of ingestion errors by type",
		}, []string{"error_type"}),
		TailReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "tail_reconnects_total",
			Help:      "Total number of WebSocket tail reconnects",
		}),
		TailQueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "tail_queue_depth",
			Help:      "Current number of trades buffered from the tail feed",
		}),

		// Analytics metrics
		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "reports_generated_total",
			Help:      "Total number of reports generated",
		}),
		AnalyzeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "analyze_duration_seconds",
			Help:      "Report computation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		ReportWarnings: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "report_warnings_total",
			Help:      "Total number of data-quality warnings surfaced in reports",
		}),

		// Archive metrics
		SnapshotsArchived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "archive",
			Name:      "snapshots_archived_total",
			Help:      "Total number of report snapshots archived",
		}),
		ArchiveErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "archive",
			Name:      "errors_total",
			Help:      "Total number of snapshot archive errors",
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulIngestion: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_ingestion_timestamp",
			Help:      "Unix timestamp of last successful ingestion",
		}),
		LastSuccessfulReport: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_report_timestamp",
			Help:      "Unix timestamp of last successful report generation",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordTradeIngested increments the ingested counter for a source.
func RecordTradeIngested(source string) {
	DefaultMetrics.TradesIngested.WithLabelValues(source).Inc()
}

// RecordIngestError increments the ingest error counter for a type.
func RecordIngestError(errorType string) {
	DefaultMetrics.IngestErrors.WithLabelValues(errorType).Inc()
}

// RecordReportGenerated records a completed report and its duration.
func RecordReportGenerated(durationSeconds float64, warnings int) {
	DefaultMetrics.ReportsGenerated.Inc()
	DefaultMetrics.AnalyzeDuration.Observe(durationSeconds)
	DefaultMetrics.ReportWarnings.Add(float64(warnings))
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
