package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "energy_dashboard_"

	resultSuccess = "success"
	resultError   = "error"

	skipReasonNotEnoughData = "not_enough_data"
	skipReasonSliceError    = "slice_error"
)

var (
	registerOnce sync.Once

	chartResolveTotal *prometheus.CounterVec

	aggregationTotal   *prometheus.CounterVec
	aggregationLatency *prometheus.HistogramVec
	slicesAggregated   prometheus.Counter
	slicesSkipped      *prometheus.CounterVec

	ledgerLoadTotal   *prometheus.CounterVec
	ledgerLoadLatency *prometheus.HistogramVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec
)

// Init registers the aggregation metrics once.
func Init() {
	registerOnce.Do(func() {
		chartResolveTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "chart_resolve_total",
				Help: "Total catalog chart resolutions by result",
			},
			[]string{"result"},
		)

		aggregationTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "aggregation_total",
				Help: "Total chart aggregations by result",
			},
			[]string{"result"},
		)
		aggregationLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "aggregation_latency_seconds",
				Help:    "Chart aggregation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		slicesAggregated = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "aggregation_slices_total",
				Help: "Total successfully aggregated (school, period) slices",
			},
		)
		slicesSkipped = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "aggregation_slices_skipped_total",
				Help: "Total skipped (school, period) slices by reason",
			},
			[]string{"reason"},
		)

		ledgerLoadTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "ledger_load_total",
				Help: "Total meter ledger loads by result",
			},
			[]string{"result"},
		)
		ledgerLoadLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "ledger_load_latency_seconds",
				Help:    "Meter ledger load latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total chart result exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Chart result export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			chartResolveTotal,
			aggregationTotal,
			aggregationLatency,
			slicesAggregated,
			slicesSkipped,
			ledgerLoadTotal,
			ledgerLoadLatency,
			exportTotal,
			exportLatency,
		)
	})
}

// IncChartResolve counts one catalog resolution.
func IncChartResolve(result string) {
	if result == "" {
		result = resultSuccess
	}
	if chartResolveTotal != nil {
		chartResolveTotal.WithLabelValues(result).Inc()
	}
}

// ObserveAggregation records one aggregation's duration and result.
func ObserveAggregation(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if aggregationTotal != nil {
		aggregationTotal.WithLabelValues(result).Inc()
	}
	if aggregationLatency != nil {
		aggregationLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncSliceAggregated counts one successful (school, period) slice.
func IncSliceAggregated() {
	if slicesAggregated != nil {
		slicesAggregated.Inc()
	}
}

// IncSliceSkipped counts one skipped (school, period) slice.
func IncSliceSkipped(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	if slicesSkipped != nil {
		slicesSkipped.WithLabelValues(reason).Inc()
	}
}

// ObserveLedgerLoad records one meter ledger load.
func ObserveLedgerLoad(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if ledgerLoadTotal != nil {
		ledgerLoadTotal.WithLabelValues(result).Inc()
	}
	if ledgerLoadLatency != nil {
		ledgerLoadLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveExport records one result export.
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

	SkipNotEnoughData = skipReasonNotEnoughData
	SkipSliceError    = skipReasonSliceError
)
