package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics holds the search counters shared by every agent of a
// run. Register it once per registry and hand each agent its own Collector.
type PrometheusMetrics struct {
	searches   *prometheus.CounterVec
	iterations *prometheus.CounterVec
	playouts   *prometheus.CounterVec
	reused     *prometheus.CounterVec
	proven     *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		searches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gamesearch",
				Subsystem: "searcher",
				Name:      "searches_total",
				Help:      "Total move searches by algorithm",
			},
			[]string{"algorithm"},
		),
		iterations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gamesearch",
				Subsystem: "searcher",
				Name:      "iterations_total",
				Help:      "Total search iterations (MCTS) or recursive calls (minimax) by algorithm",
			},
			[]string{"algorithm"},
		),
		playouts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gamesearch",
				Subsystem: "searcher",
				Name:      "playouts_total",
				Help:      "Total random playouts by algorithm",
			},
			[]string{"algorithm"},
		),
		reused: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gamesearch",
				Subsystem: "searcher",
				Name:      "tree_reuses_total",
				Help:      "Total searches that started from a reused tree",
			},
			[]string{"algorithm"},
		),
		proven: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gamesearch",
				Subsystem: "searcher",
				Name:      "proven_roots_total",
				Help:      "Total searches whose root position was proven, by outcome",
			},
			[]string{"algorithm", "outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "gamesearch",
				Subsystem: "searcher",
				Name:      "search_duration_seconds",
				Help:      "Wall-clock duration of move searches",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"algorithm"},
		),
	}
}

// Collector returns a collector that records into m when a search completes.
func (m *PrometheusMetrics) Collector() Collector {
	return &prometheusCollector{Collector: NewCollector(), metrics: m}
}

type prometheusCollector struct {
	Collector
	metrics *PrometheusMetrics
}

func (c *prometheusCollector) Complete() SearchMetric {
	metric := c.Collector.Complete()

	alg := metric.Algorithm
	c.metrics.searches.WithLabelValues(alg).Inc()
	c.metrics.iterations.WithLabelValues(alg).Add(float64(metric.Iterations))
	c.metrics.playouts.WithLabelValues(alg).Add(float64(metric.Playouts))
	c.metrics.duration.WithLabelValues(alg).Observe(metric.Duration.Seconds())
	if metric.TreeReused {
		c.metrics.reused.WithLabelValues(alg).Inc()
	}
	if metric.Outcome != "" {
		c.metrics.proven.WithLabelValues(alg, metric.Outcome).Inc()
	}
	return metric
}
