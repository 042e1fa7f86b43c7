// Package metrics exposes Prometheus instrumentation for cut list planning.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eugenenazirov/molding-cutter/internal/cutting"
)

const namespace = "molding_cutter"

// Metrics records planner outcomes. A nil *Metrics is a no-op.
type Metrics struct {
	registry   *prometheus.Registry
	plans      prometheus.Counter
	failures   *prometheus.CounterVec
	stockUnits prometheus.Histogram
	waste      prometheus.Histogram
	pieces     prometheus.Counter
}

// New creates a registry with the planner collectors and the Go runtime
// collectors registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		plans: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_total",
			Help:      "Number of cut lists planned successfully.",
		}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_failures_total",
			Help:      "Number of cut lists that could not be planned, by reason.",
		}, []string{"reason"}),
		stockUnits: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "plan_stock_units",
			Help:      "Stock units consumed per plan.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		waste: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "plan_waste_ratio",
			Help:      "Share of consumed stock left as offcuts per plan.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 10),
		}),
		pieces: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pieces_total",
			Help:      "Number of requested pieces processed.",
		}),
	}
}

// ObservePlan records a successful plan built from the given number of pieces.
func (m *Metrics) ObservePlan(plan cutting.Plan, pieces int) {
	if m == nil {
		return
	}
	m.plans.Inc()
	m.pieces.Add(float64(pieces))
	m.stockUnits.Observe(float64(plan.StockCount()))
	if plan.StockCount() > 0 {
		m.waste.Observe(1 - plan.Utilization())
	}
}

// ObserveFailure records a failed plan under a short reason label.
func (m *Metrics) ObserveFailure(reason string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(reason).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
