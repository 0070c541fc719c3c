package metrics

// Wrapper exposes the metric updates the prediction service needs behind
// plain methods, so packages can depend on a small interface instead of
// concrete Prometheus types.
type Wrapper struct {
	m *Metrics
}

// NewWrapper creates a metrics wrapper around the given metrics instance.
func NewWrapper(m *Metrics) *Wrapper {
	return &Wrapper{m: m}
}

func (w *Wrapper) PredictionsInc() {
	if w != nil && w.m != nil {
		w.m.Predictions.Inc()
	}
}

func (w *Wrapper) PredictionErrorsInc() {
	if w != nil && w.m != nil {
		w.m.PredictionErrors.Inc()
	}
}

func (w *Wrapper) PredictionLatencyObserve(seconds float64) {
	if w != nil && w.m != nil {
		w.m.PredictionLatency.Observe(seconds)
	}
}

func (w *Wrapper) ConfidenceObserve(score float64) {
	if w != nil && w.m != nil {
		w.m.ConfidenceScores.Observe(score)
	}
}

func (w *Wrapper) ModelAgeSet(seconds float64) {
	if w != nil && w.m != nil {
		w.m.ModelAge.Set(seconds)
	}
}
