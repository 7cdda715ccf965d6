package metrics

// Wrapper exposes the collectors through the small method set the predict
// and server packages depend on, so they never import Prometheus directly.
type Wrapper struct {
	m *Metrics
}

func NewWrapper(m *Metrics) *Wrapper {
	return &Wrapper{m: m}
}

func (w *Wrapper) PredictionsInc() {
	w.m.PredictionsTotal.Inc()
}

func (w *Wrapper) ValidationFailuresInc() {
	w.m.ValidationFailures.Inc()
}

func (w *Wrapper) InferenceFailuresInc() {
	w.m.InferenceFailures.Inc()
}

func (w *Wrapper) MalformedRequestsInc() {
	w.m.MalformedRequests.Inc()
}

func (w *Wrapper) PredictionLatencyObserve(seconds float64) {
	w.m.PredictionLatency.Observe(seconds)
}

func (w *Wrapper) ConfidenceScoreObserve(score float64) {
	w.m.ConfidenceScores.Observe(score)
}

func (w *Wrapper) WSClientsAdd(delta float64) {
	w.m.WSClients.Add(delta)
}

func (w *Wrapper) AuditErrorsInc() {
	w.m.AuditErrors.Inc()
}

func (w *Wrapper) ModelAgeSet(seconds float64) {
	w.m.ModelAge.Set(seconds)
}
