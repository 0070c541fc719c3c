package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// LogisticRegression is a binary logistic classifier trained by full-batch
// gradient descent with an optional l1 or l2 penalty. Training is fully
// deterministic: no shuffling, fixed iteration count.
type LogisticRegression struct {
	C        float64 // inverse regularization strength
	Penalty  string  // "l1" or "l2"
	Balanced bool    // reweight classes inversely to their frequency
	LR       float64
	MaxIter  int

	Weights []float64
	Bias    float64
}

// NewLogisticRegression configures a classifier from grid parameters.
func NewLogisticRegression(p Params) (Classifier, error) {
	penalty := p.String("penalty", "l2")
	if penalty != "l1" && penalty != "l2" {
		return nil, fmt.Errorf("logistic regression: unsupported penalty %q", penalty)
	}
	c := p.Float("C", 1.0)
	if c <= 0 {
		return nil, fmt.Errorf("logistic regression: C must be positive, got %f", c)
	}
	return &LogisticRegression{
		C:        c,
		Penalty:  penalty,
		Balanced: p.String("class_weight", "") == "balanced",
		LR:       p.Float("learning_rate", 0.1),
		MaxIter:  p.Int("max_iter", 500),
	}, nil
}

func (m *LogisticRegression) Fit(x [][]float64, y []float64) error {
	if len(x) == 0 || len(x) != len(y) {
		return fmt.Errorf("logistic regression: %d rows, %d labels", len(x), len(y))
	}
	n := len(x)
	d := len(x[0])

	weights := classWeights(y, m.Balanced)
	lambda := 1.0 / (m.C * float64(n))

	m.Weights = make([]float64, d)
	m.Bias = 0

	grad := make([]float64, d)
	for iter := 0; iter < m.MaxIter; iter++ {
		for i := range grad {
			grad[i] = 0
		}
		var gradBias float64

		for i, row := range x {
			p := sigmoid(floats.Dot(m.Weights, row) + m.Bias)
			g := weights[int(y[i])] * (p - y[i]) / float64(n)
			floats.AddScaled(grad, g, row)
			gradBias += g
		}

		switch m.Penalty {
		case "l2":
			floats.AddScaled(grad, lambda, m.Weights)
		case "l1":
			for i, w := range m.Weights {
				grad[i] += lambda * sign(w)
			}
		}

		floats.AddScaled(m.Weights, -m.LR, grad)
		m.Bias -= m.LR * gradBias
	}
	return nil
}

func (m *LogisticRegression) Predict(x [][]float64) ([]float64, error) {
	proba, err := m.PredictProba(x)
	if err != nil {
		return nil, err
	}
	pred := make([]float64, len(proba))
	for i, p := range proba {
		if p[1] >= 0.5 {
			pred[i] = 1
		}
	}
	return pred, nil
}

func (m *LogisticRegression) PredictProba(x [][]float64) ([][]float64, error) {
	if m.Weights == nil {
		return nil, fmt.Errorf("logistic regression is not fitted")
	}
	proba := make([][]float64, len(x))
	for i, row := range x {
		if len(row) != len(m.Weights) {
			return nil, fmt.Errorf("logistic regression: row has %d features, fitted on %d", len(row), len(m.Weights))
		}
		p := sigmoid(floats.Dot(m.Weights, row) + m.Bias)
		proba[i] = []float64{1 - p, p}
	}
	return proba, nil
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// classWeights returns per-class sample weights. Unbalanced training uses
// unit weights; balanced training weighs each class by n/(2*count).
func classWeights(y []float64, balanced bool) [2]float64 {
	if !balanced {
		return [2]float64{1, 1}
	}
	var counts [2]float64
	for _, label := range y {
		counts[int(label)]++
	}
	n := float64(len(y))
	w := [2]float64{1, 1}
	for c := 0; c < 2; c++ {
		if counts[c] > 0 {
			w[c] = n / (2 * counts[c])
		}
	}
	return w
}
