package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.PredictionsTotal.Inc()
	m.PredictionsTotal.Inc()
	m.ValidationFailures.Inc()

	if got := testutil.ToFloat64(m.PredictionsTotal); got != 2 {
		t.Errorf("predictions_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.ValidationFailures); got != 1 {
		t.Errorf("validation_failures_total = %v, want 1", got)
	}
}

func TestWrapper(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)
	w := NewWrapper(m)

	w.PredictionsInc()
	w.ValidationFailuresInc()
	w.InferenceFailuresInc()
	w.MalformedRequestsInc()
	w.PredictionLatencyObserve(0.002)
	w.ConfidenceScoreObserve(0.83)
	w.WSClientsAdd(1)
	w.WSClientsAdd(-1)
	w.AuditErrorsInc()
	w.ModelAgeSet(3600)

	if got := testutil.ToFloat64(m.PredictionsTotal); got != 1 {
		t.Errorf("predictions_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.WSClients); got != 0 {
		t.Errorf("ws_clients = %v, want 0", got)
	}
	if got := testutil.ToFloat64(m.ModelAge); got != 3600 {
		t.Errorf("model_age_seconds = %v, want 3600", got)
	}
}
