// Package prom exports the cache's activity as Prometheus metrics.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/krisalay/swr-cache/types"
)

// Metrics implements types.Metrics on Prometheus counters.
type Metrics struct {
	Hits      prometheus.Counter
	Stales    prometheus.Counter
	Misses    prometheus.Counter
	Refreshes prometheus.Counter
	Failures  prometheus.Counter
}

var _ types.Metrics = (*Metrics)(nil)

// NewMetrics creates and registers the cache counters under the given
// namespace. A nil registerer falls back to the Prometheus default.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Hits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Fresh values served straight from the cache",
		}),
		Stales: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_stale_served_total",
			Help:      "Expired values served as fallbacks while a refresh was pending",
		}),
		Misses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Calls that left empty-handed after their wait budget",
		}),
		Refreshes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_refreshes_total",
			Help:      "Producer invocations started",
		}),
		Failures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_refresh_failures_total",
			Help:      "Producer invocations that failed",
		}),
	}
}

func (m *Metrics) Hit()     { m.Hits.Inc() }
func (m *Metrics) Stale()   { m.Stales.Inc() }
func (m *Metrics) Miss()    { m.Misses.Inc() }
func (m *Metrics) Refresh() { m.Refreshes.Inc() }
func (m *Metrics) Failure() { m.Failures.Inc() }
