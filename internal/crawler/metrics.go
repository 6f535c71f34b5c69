package crawler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the crawl pipeline on a dedicated
// registry. All methods are nil-safe so tests can pass a nil *Metrics.
type Metrics struct {
	Registry       *prometheus.Registry
	PagesFetched   *prometheus.CounterVec
	ItemsCollected *prometheus.CounterVec
	DedupDropped   *prometheus.CounterVec
	SyncErrors     *prometheus.CounterVec
	SyncDuration   *prometheus.HistogramVec
}

// NewMetrics constructs and registers all collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	pages := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "specials_pages_fetched_total",
			Help: "Listing pages fetched per site.",
		},
		[]string{"site"},
	)
	items := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "specials_items_collected_total",
			Help: "Raw items kept after name filtering and dedup, per site.",
		},
		[]string{"site"},
	)
	dedup := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "specials_dedup_dropped_total",
			Help: "Items dropped because their name was already seen in the run.",
		},
		[]string{"site"},
	)
	syncErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "specials_sync_errors_total",
			Help: "Failed force-sync operations by site and reason.",
		},
		[]string{"site", "reason"},
	)
	syncDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "specials_sync_duration_seconds",
			Help:    "Wall time of one force-sync per site.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
		[]string{"site"},
	)

	registry.MustRegister(pages, items, dedup, syncErrors, syncDuration)

	return &Metrics{
		Registry:       registry,
		PagesFetched:   pages,
		ItemsCollected: items,
		DedupDropped:   dedup,
		SyncErrors:     syncErrors,
		SyncDuration:   syncDuration,
	}
}

func (m *Metrics) IncPage(site string) {
	if m == nil {
		return
	}
	m.PagesFetched.WithLabelValues(site).Inc()
}

func (m *Metrics) AddItems(site string, n int) {
	if m == nil {
		return
	}
	m.ItemsCollected.WithLabelValues(site).Add(float64(n))
}

func (m *Metrics) IncDedupDropped(site string) {
	if m == nil {
		return
	}
	m.DedupDropped.WithLabelValues(site).Inc()
}

func (m *Metrics) IncSyncError(site, reason string) {
	if m == nil {
		return
	}
	m.SyncErrors.WithLabelValues(site, reason).Inc()
}

func (m *Metrics) ObserveSync(site string, d time.Duration) {
	if m == nil {
		return
	}
	m.SyncDuration.WithLabelValues(site).Observe(d.Seconds())
}
