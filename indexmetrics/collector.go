// Package indexmetrics exports the work of indexmap.IndexMapper
// instances as Prometheus metrics.
//
// Example:
//
//	collector := indexmetrics.NewCollector("grid", "rows")
//	prometheus.MustRegister(collector)
//	mapper := indexmap.New(indexmap.WithObserver(collector))
package indexmetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/domonda/go-regrid/indexmap"
)

var _ indexmap.Observer = new(Collector)

// Collector implements indexmap.Observer with Prometheus metrics
// and prometheus.Collector to register them.
type Collector struct {
	cacheRebuilds    prometheus.Counter
	cacheRebuildTime prometheus.Histogram
	visibleIndexes   prometheus.Gauge
	skippedIndexes   prometheus.Gauge
	edits            *prometheus.CounterVec
}

// NewCollector returns a Collector with metrics
// named namespace_subsystem_*.
func NewCollector(namespace, subsystem string) *Collector {
	return &Collector{
		cacheRebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cache_rebuilds_total",
			Help:      "Number of index cache rebuilds.",
		}),
		cacheRebuildTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cache_rebuild_seconds",
			Help:      "Duration of index cache rebuilds.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		visibleIndexes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "visible_indexes",
			Help:      "Number of not skipped indexes after the last cache rebuild.",
		}),
		skippedIndexes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "skipped_indexes",
			Help:      "Number of skipped indexes after the last cache rebuild.",
		}),
		edits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "edited_indexes_total",
			Help:      "Number of moved, inserted and removed indexes.",
		}, []string{"operation"}),
	}
}

func (c *Collector) CacheRebuilt(notSkipped, skipped int, duration time.Duration) {
	c.cacheRebuilds.Inc()
	c.cacheRebuildTime.Observe(duration.Seconds())
	c.visibleIndexes.Set(float64(notSkipped))
	c.skippedIndexes.Set(float64(skipped))
}

func (c *Collector) IndexesMoved(count int) {
	c.edits.WithLabelValues("move").Add(float64(count))
}

func (c *Collector) IndexesInserted(count int) {
	c.edits.WithLabelValues("insert").Add(float64(count))
}

func (c *Collector) IndexesRemoved(count int) {
	c.edits.WithLabelValues("remove").Add(float64(count))
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.cacheRebuilds.Describe(ch)
	c.cacheRebuildTime.Describe(ch)
	c.visibleIndexes.Describe(ch)
	c.skippedIndexes.Describe(ch)
	c.edits.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.cacheRebuilds.Collect(ch)
	c.cacheRebuildTime.Collect(ch)
	c.visibleIndexes.Collect(ch)
	c.skippedIndexes.Collect(ch)
	c.edits.Collect(ch)
}
