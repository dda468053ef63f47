package metrics

import (
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "radar_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	fetchTotal   *prometheus.CounterVec
	fetchLatency *prometheus.HistogramVec

	recordsNormalized *prometheus.CounterVec

	alertsNotified      *prometheus.CounterVec
	alertsSuppressed    *prometheus.CounterVec
	notificationErrors  prometheus.Counter
	streamClientsActive prometheus.Gauge

	enrichmentTotal   *prometheus.CounterVec
	enrichmentLatency *prometheus.HistogramVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec
)

// Init registers the radar metrics plus a gauge tracking the dedup ledger
// size. ledgerLen may be nil when no ledger gauge is wanted (tests).
func Init(ledgerLen func() int, logger *log.Logger) {
	registerOnce.Do(func() {
		fetchTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "fetch_total",
				Help: "Total source fetch passes by source and result",
			},
			[]string{"source", "result"},
		)
		fetchLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "fetch_latency_seconds",
				Help:    "Source fetch latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source", "result"},
		)

		recordsNormalized = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "records_normalized_total",
				Help: "Total normalized records by source",
			},
			[]string{"source"},
		)

		alertsNotified = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "alerts_notified_total",
				Help: "Total delivered alert notifications by severity",
			},
			[]string{"severity"},
		)
		alertsSuppressed = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "alerts_suppressed_total",
				Help: "Alert notifications withheld by reason",
			},
			[]string{"reason"},
		)
		notificationErrors = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "notification_errors_total",
				Help: "Failed notification deliveries",
			},
		)
		streamClientsActive = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "stream_clients_active",
				Help: "Connected event stream clients",
			},
		)

		enrichmentTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "enrichment_total",
				Help: "Total narrative enrichment runs by result",
			},
			[]string{"result"},
		)
		enrichmentLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "enrichment_latency_seconds",
				Help:    "Narrative enrichment latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total digest export operations by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Digest export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			fetchTotal,
			fetchLatency,
			recordsNormalized,
			alertsNotified,
			alertsSuppressed,
			notificationErrors,
			streamClientsActive,
			enrichmentTotal,
			enrichmentLatency,
			exportTotal,
			exportLatency,
		)

		if ledgerLen != nil {
			registerLedgerGauge(ledgerLen, logger)
		}
	})
}

func registerLedgerGauge(ledgerLen func() int, logger *log.Logger) {
	err := prometheus.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "dedup_ledger_size",
			Help: "Identities currently tracked by the dedup ledger",
		},
		func() float64 {
			size := ledgerLen()
			if size < 0 {
				return 0
			}
			return float64(size)
		},
	))
	if err != nil && logger != nil {
		logger.Printf("metrics ledger gauge registration failed: %v", err)
	}
}

// ObserveFetch records one source fetch pass.
func ObserveFetch(source, result string, duration time.Duration) {
	if source == "" {
		source = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if fetchTotal != nil {
		fetchTotal.WithLabelValues(source, result).Inc()
	}
	if fetchLatency != nil {
		fetchLatency.WithLabelValues(source, result).Observe(duration.Seconds())
	}
}

// AddRecordsNormalized counts records a source pass produced.
func AddRecordsNormalized(source string, count int) {
	if count <= 0 {
		return
	}
	if source == "" {
		source = "unknown"
	}
	if recordsNormalized != nil {
		recordsNormalized.WithLabelValues(source).Add(float64(count))
	}
}

// IncAlertNotified counts one delivered notification.
func IncAlertNotified(severity string) {
	if severity == "" {
		severity = "unknown"
	}
	if alertsNotified != nil {
		alertsNotified.WithLabelValues(severity).Inc()
	}
}

// IncAlertSuppressed counts one withheld notification.
func IncAlertSuppressed(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	if alertsSuppressed != nil {
		alertsSuppressed.WithLabelValues(reason).Inc()
	}
}

// IncNotificationError counts one failed delivery.
func IncNotificationError() {
	if notificationErrors != nil {
		notificationErrors.Inc()
	}
}

// SetStreamClients sets the connected stream client gauge.
func SetStreamClients(count int) {
	if count < 0 {
		count = 0
	}
	if streamClientsActive != nil {
		streamClientsActive.Set(float64(count))
	}
}

// ObserveEnrichment records one narrative enrichment run.
func ObserveEnrichment(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if enrichmentTotal != nil {
		enrichmentTotal.WithLabelValues(result).Inc()
	}
	if enrichmentLatency != nil {
		enrichmentLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveExport records one digest export.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError

	SuppressFiltered     = "filtered"
	SuppressBootstrap    = "bootstrap"
	SuppressNoPermission = "no-permission"
)
