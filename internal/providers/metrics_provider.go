package providers

import (
	"time"

	"ctad/internal/structures"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncCacheRefreshFailures()
	SetCacheLastRefresh(ts time.Time)
	SetCachedRecords(kind string, count int)
	IncSweepTransitions(sweep string)
	IncSweepConflicts(sweep string)
	IncSnapshotMerges()
	IncSnapshotUpserts()
	ObserveEligibleCTAs(count int)
}

type MetricsProvider struct {
	requestsTotal        *prometheus.CounterVec
	requestDuration      *prometheus.HistogramVec
	cacheHits            prometheus.Counter
	cacheMisses          prometheus.Counter
	cacheRefreshFailures prometheus.Counter
	cacheLastRefresh     prometheus.Gauge
	cachedRecords        *prometheus.GaugeVec
	sweepTransitions     *prometheus.CounterVec
	sweepConflicts       *prometheus.CounterVec
	snapshotMerges       prometheus.Counter
	snapshotUpserts      prometheus.Counter
	eligibleCTAs         prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncCacheRefreshFailures() {
	m.cacheRefreshFailures.Inc()
}

func (m *MetricsProvider) SetCacheLastRefresh(ts time.Time) {
	m.cacheLastRefresh.Set(float64(ts.Unix()))
}

func (m *MetricsProvider) SetCachedRecords(kind string, count int) {
	m.cachedRecords.WithLabelValues(kind).Set(float64(count))
}

func (m *MetricsProvider) IncSweepTransitions(sweep string) {
	m.sweepTransitions.WithLabelValues(sweep).Inc()
}

func (m *MetricsProvider) IncSweepConflicts(sweep string) {
	m.sweepConflicts.WithLabelValues(sweep).Inc()
}

func (m *MetricsProvider) IncSnapshotMerges() {
	m.snapshotMerges.Inc()
}

func (m *MetricsProvider) IncSnapshotUpserts() {
	m.snapshotUpserts.Inc()
}

func (m *MetricsProvider) ObserveEligibleCTAs(count int) {
	m.eligibleCTAs.Observe(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ctad_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ctad_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ctad_cache_hits_total",
			Help: "Total number of local cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ctad_cache_misses_total",
			Help: "Total number of local cache misses",
		}),

		cacheRefreshFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ctad_static_cache_refresh_failures_total",
			Help: "Total number of failed static data cache refresh cycles",
		}),

		cacheLastRefresh: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ctad_static_cache_last_refresh_timestamp",
			Help: "Unix timestamp of the last successful static data cache refresh",
		}),

		cachedRecords: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ctad_static_cache_records",
			Help: "Number of records in the static data cache per kind",
		}, []string{"kind"}),

		sweepTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ctad_sweep_transitions_total",
			Help: "Total number of CTA status transitions applied by background sweeps",
		}, []string{"sweep"}),

		sweepConflicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ctad_sweep_conflicts_total",
			Help: "Total number of generation conflicts skipped by background sweeps",
		}, []string{"sweep"}),

		snapshotMerges: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ctad_snapshot_merges_total",
			Help: "Total number of delta snapshot merges",
		}),

		snapshotUpserts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ctad_snapshot_upserts_total",
			Help: "Total number of user snapshot writes",
		}),

		eligibleCTAs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ctad_eligible_ctas",
			Help:    "Number of eligible CTAs returned per app launch",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		}),
	}

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncCacheRefreshFailures()                         {}
func (n *noopMetrics) SetCacheLastRefresh(_ time.Time)                  {}
func (n *noopMetrics) SetCachedRecords(_ string, _ int)                 {}
func (n *noopMetrics) IncSweepTransitions(_ string)                     {}
func (n *noopMetrics) IncSweepConflicts(_ string)                       {}
func (n *noopMetrics) IncSnapshotMerges()                               {}
func (n *noopMetrics) IncSnapshotUpserts()                              {}
func (n *noopMetrics) ObserveEligibleCTAs(_ int)                        {}
