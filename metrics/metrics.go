// Package metrics exposes Prometheus counters for catalog lookups and loads.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup results.
const (
	ResultHit     = "hit"
	ResultMiss    = "miss"
	ResultInvalid = "invalid" // short-circuited by the invalid marker
)

// Load tiers.
const (
	TierSnapshot = "snapshot"
	TierFresh    = "fresh"
	TierSource   = "source"
)

// Collector groups the translator's counters. A nil *Collector is valid and
// records nothing.
type Collector struct {
	lookups   *prometheus.CounterVec
	loads     *prometheus.CounterVec
	selfHeals prometheus.Counter
	entries   prometheus.Counter
}

// New registers the counters with reg. Pass prometheus.DefaultRegisterer to
// expose them on the default /metrics handler.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		lookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gotcat_lookups_total",
				Help: "Total number of translation lookups by result",
			},
			[]string{"result"},
		),
		loads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gotcat_domain_loads_total",
				Help: "Total number of domain loads by the tier that satisfied them",
			},
			[]string{"tier"},
		),
		selfHeals: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gotcat_self_heal_reloads_total",
				Help: "Total number of domain reloads triggered by a cache miss",
			},
		),
		entries: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gotcat_entries_loaded_total",
				Help: "Total number of cache entries written by domain loads",
			},
		),
	}
}

// Lookup counts one lookup with the given result.
func (c *Collector) Lookup(result string) {
	if c == nil {
		return
	}
	c.lookups.WithLabelValues(result).Inc()
}

// Load counts one domain load satisfied by tier, which wrote n entries.
func (c *Collector) Load(tier string, n int) {
	if c == nil {
		return
	}
	c.loads.WithLabelValues(tier).Inc()
	if n > 0 {
		c.entries.Add(float64(n))
	}
}

// SelfHeal counts one miss-triggered reload.
func (c *Collector) SelfHeal() {
	if c == nil {
		return
	}
	c.selfHeals.Inc()
}
