package model

import (
	"fmt"
	"math"
)

// GaussianNB is a Gaussian naive Bayes classifier. It exposes probabilities
// but no feature importances.
type GaussianNB struct {
	VarSmoothing float64

	Priors   [2]float64
	Means    [2][]float64
	Vars     [2][]float64
	NFeature int
}

// NewGaussianNB configures a classifier from grid parameters.
func NewGaussianNB(p Params) (Classifier, error) {
	eps := p.Float("var_smoothing", 1e-9)
	if eps <= 0 {
		return nil, fmt.Errorf("gaussian nb: var_smoothing must be positive, got %g", eps)
	}
	return &GaussianNB{VarSmoothing: eps}, nil
}

func (m *GaussianNB) Fit(x [][]float64, y []float64) error {
	if len(x) == 0 || len(x) != len(y) {
		return fmt.Errorf("gaussian nb: %d rows, %d labels", len(x), len(y))
	}
	d := len(x[0])
	m.NFeature = d

	var counts [2]float64
	for c := 0; c < 2; c++ {
		m.Means[c] = make([]float64, d)
		m.Vars[c] = make([]float64, d)
	}

	for i, row := range x {
		c := int(y[i])
		counts[c]++
		for j, v := range row {
			m.Means[c][j] += v
		}
	}
	for c := 0; c < 2; c++ {
		if counts[c] == 0 {
			return fmt.Errorf("gaussian nb: class %d has no samples", c)
		}
		for j := range m.Means[c] {
			m.Means[c][j] /= counts[c]
		}
	}

	var maxVar float64
	for i, row := range x {
		c := int(y[i])
		for j, v := range row {
			diff := v - m.Means[c][j]
			m.Vars[c][j] += diff * diff
		}
	}
	for c := 0; c < 2; c++ {
		for j := range m.Vars[c] {
			m.Vars[c][j] /= counts[c]
			if m.Vars[c][j] > maxVar {
				maxVar = m.Vars[c][j]
			}
		}
	}

	// Variance floor keeps degenerate columns from collapsing the likelihood.
	eps := m.VarSmoothing * maxVar
	if eps == 0 {
		eps = m.VarSmoothing
	}
	for c := 0; c < 2; c++ {
		for j := range m.Vars[c] {
			m.Vars[c][j] += eps
		}
	}

	n := counts[0] + counts[1]
	m.Priors = [2]float64{counts[0] / n, counts[1] / n}
	return nil
}

func (m *GaussianNB) Predict(x [][]float64) ([]float64, error) {
	proba, err := m.PredictProba(x)
	if err != nil {
		return nil, err
	}
	pred := make([]float64, len(proba))
	for i, p := range proba {
		if p[1] > p[0] {
			pred[i] = 1
		}
	}
	return pred, nil
}

func (m *GaussianNB) PredictProba(x [][]float64) ([][]float64, error) {
	if m.NFeature == 0 {
		return nil, fmt.Errorf("gaussian nb is not fitted")
	}
	proba := make([][]float64, len(x))
	for i, row := range x {
		if len(row) != m.NFeature {
			return nil, fmt.Errorf("gaussian nb: row has %d features, fitted on %d", len(row), m.NFeature)
		}
		var logp [2]float64
		for c := 0; c < 2; c++ {
			lp := math.Log(m.Priors[c])
			for j, v := range row {
				diff := v - m.Means[c][j]
				lp += -0.5*math.Log(2*math.Pi*m.Vars[c][j]) - diff*diff/(2*m.Vars[c][j])
			}
			logp[c] = lp
		}

		// Stable softmax over the two joint log-likelihoods.
		max := math.Max(logp[0], logp[1])
		e0 := math.Exp(logp[0] - max)
		e1 := math.Exp(logp[1] - max)
		proba[i] = []float64{e0 / (e0 + e1), e1 / (e0 + e1)}
	}
	return proba, nil
}
