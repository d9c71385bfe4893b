package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the prometheus instruments for the polling core. All
// methods are safe on a nil receiver so components can run unmetered in
// tests.
type Metrics struct {
	fetches     *prometheus.CounterVec
	cacheHits   prometheus.Counter
	staleServes prometheus.Counter
	publishes   *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "weatherthing_station_fetches_total",
		Help: "Upstream station fetch attempts by result.",
	}, []string{"result"})
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "weatherthing_cache_hits_total",
		Help: "GetLatest calls answered from a fresh cache entry.",
	})
	staleServes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "weatherthing_cache_stale_served_total",
		Help: "GetLatest calls answered with a stale entry after a failed refresh.",
	})
	publishes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "weatherthing_sensor_publishes_total",
		Help: "Sensor property publishes by state.",
	}, []string{"state"})

	reg.MustRegister(fetches, cacheHits, staleServes, publishes)

	return &Metrics{
		fetches:     fetches,
		cacheHits:   cacheHits,
		staleServes: staleServes,
		publishes:   publishes,
	}
}

func (m *Metrics) FetchSucceeded() {
	if m != nil {
		m.fetches.WithLabelValues("success").Inc()
	}
}

func (m *Metrics) FetchFailed() {
	if m != nil {
		m.fetches.WithLabelValues("error").Inc()
	}
}

func (m *Metrics) CacheHit() {
	if m != nil {
		m.cacheHits.Inc()
	}
}

func (m *Metrics) StaleServed() {
	if m != nil {
		m.staleServes.Inc()
	}
}

func (m *Metrics) ValuePublished() {
	if m != nil {
		m.publishes.WithLabelValues("value").Inc()
	}
}

func (m *Metrics) UnknownPublished() {
	if m != nil {
		m.publishes.WithLabelValues("unknown").Inc()
	}
}
