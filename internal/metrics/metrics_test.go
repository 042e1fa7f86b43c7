package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eugenenazirov/molding-cutter/internal/cutting"
)

func TestObservePlan(t *testing.T) {
	m := New()
	plan := cutting.Plan{
		StockLength: 1000,
		Bins: []cutting.BinResult{
			{Capacity: 1000, Pieces: []uint{750}, Remaining: 250},
			{Capacity: 1000, Pieces: []uint{750}, Remaining: 250},
		},
		TotalRequested: 1500,
		TotalWaste:     500,
	}

	m.ObservePlan(plan, 2)
	m.ObservePlan(cutting.Plan{StockLength: 1000}, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.plans))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.pieces))
	assert.Equal(t, uint64(2), histogramSamples(t, m, "molding_cutter_plan_stock_units"))
	assert.Equal(t, uint64(1), histogramSamples(t, m, "molding_cutter_plan_waste_ratio"))
}

func TestObserveFailure(t *testing.T) {
	m := New()
	m.ObserveFailure("invalid_length")
	m.ObserveFailure("invalid_length")
	m.ObserveFailure("too_many_stock_units")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.failures.WithLabelValues("invalid_length")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("too_many_stock_units")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObservePlan(cutting.Plan{}, 1)
		m.ObserveFailure("x")
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerExposesPlannerMetrics(t *testing.T) {
	m := New()
	m.ObservePlan(cutting.Plan{StockLength: 10, Bins: []cutting.BinResult{{Capacity: 10, Remaining: 0}}}, 1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "molding_cutter_plans_total 1")
	assert.Contains(t, string(body), "molding_cutter_plan_stock_units_bucket")
}

func histogramSamples(t *testing.T, m *Metrics, name string) uint64 {
	t.Helper()

	families, err := m.registry.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		require.Len(t, family.GetMetric(), 1)
		return family.GetMetric()[0].GetHistogram().GetSampleCount()
	}
	t.Fatalf("metric family %s not found", name)
	return 0
}
