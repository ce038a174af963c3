package syncer

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes counters/histograms for the sync engine.
type Metrics struct {
	refreshTotal    *prometheus.CounterVec
	bookTotal       *prometheus.CounterVec
	cacheTotal      *prometheus.CounterVec
	refreshDuration prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		refreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookingportal",
			Subsystem: "syncer",
			Name:      "refresh_total",
			Help:      "Total slot refresh attempts",
		}, []string{"result"}),
		bookTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookingportal",
			Subsystem: "syncer",
			Name:      "book_total",
			Help:      "Total booking attempts",
		}, []string{"result"}),
		cacheTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookingportal",
			Subsystem: "syncer",
			Name:      "filter_cache_total",
			Help:      "Filter cache lookups by outcome",
		}, []string{"result"}),
		refreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bookingportal",
			Subsystem: "syncer",
			Name:      "refresh_duration_seconds",
			Help:      "Latency of slot list refreshes",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.refreshTotal, m.bookTotal, m.cacheTotal, m.refreshDuration)
	return m
}

func (m *Metrics) ObserveRefresh(result string, seconds float64) {
	if m == nil {
		return
	}
	m.refreshTotal.WithLabelValues(result).Inc()
	m.refreshDuration.Observe(seconds)
}

func (m *Metrics) ObserveBook(result string) {
	if m == nil {
		return
	}
	m.bookTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheTotal.WithLabelValues("hit").Inc()
	} else {
		m.cacheTotal.WithLabelValues("miss").Inc()
	}
}
