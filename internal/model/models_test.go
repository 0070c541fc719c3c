package model

import (
	"math"
	"math/rand"
	"reflect"
	"testing"
)

// separableData builds a clearly separable two-feature problem: class 1
// clusters around (4, 4), class 0 around (0, 0). Feature 2 is pure noise so
// importance-capable models should rank it last.
func separableData(n int, seed int64) ([][]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		label := float64(i % 2)
		shift := label * 4
		x[i] = []float64{
			shift + rng.NormFloat64()*0.5,
			shift + rng.NormFloat64()*0.5,
			rng.NormFloat64(), // noise
		}
		y[i] = label
	}
	return x, y
}

func fitAndScore(t *testing.T, m Classifier, x [][]float64, y []float64) float64 {
	t.Helper()
	if err := m.Fit(x, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	pred, err := m.Predict(x)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	return Accuracy(pred, y)
}

func TestDecisionTree_SeparableData(t *testing.T) {
	x, y := separableData(200, 1)
	m, err := NewDecisionTree(Params{"max_depth": 4, "criterion": "gini"})
	if err != nil {
		t.Fatalf("NewDecisionTree failed: %v", err)
	}

	if acc := fitAndScore(t, m, x, y); acc < 0.95 {
		t.Errorf("Tree should separate the clusters, accuracy %f", acc)
	}
}

func TestDecisionTree_ImportancesNormalizedAndRanked(t *testing.T) {
	x, y := separableData(300, 2)
	m, _ := NewDecisionTree(Params{"max_depth": 5})
	if err := m.Fit(x, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	imp := m.(*DecisionTree).FeatureImportances()
	if len(imp) != 3 {
		t.Fatalf("Expected 3 importances, got %d", len(imp))
	}

	var sum float64
	for _, v := range imp {
		if v < 0 {
			t.Errorf("Importance must be non-negative, got %f", v)
		}
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("Importances must sum to 1, got %f", sum)
	}
	if imp[2] >= imp[0] && imp[2] >= imp[1] {
		t.Errorf("Noise feature should not dominate: %v", imp)
	}
}

func TestDecisionTree_DeterministicForFixedSeed(t *testing.T) {
	x, y := separableData(150, 3)

	fit := func() []float64 {
		m, _ := NewDecisionTree(Params{"max_depth": 6, "max_features": 2, "seed": 42})
		if err := m.Fit(x, y); err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		pred, _ := m.Predict(x)
		return pred
	}

	if !reflect.DeepEqual(fit(), fit()) {
		t.Error("Identical seed must yield identical predictions")
	}
}

func TestDecisionTree_RejectsBadCriterion(t *testing.T) {
	if _, err := NewDecisionTree(Params{"criterion": "chaos"}); err == nil {
		t.Error("Expected error for unsupported criterion")
	}
}

func TestRandomForest_SeparableDataAndProba(t *testing.T) {
	x, y := separableData(200, 4)
	m, err := NewRandomForest(Params{"n_estimators": 20, "max_depth": 5, "seed": 42})
	if err != nil {
		t.Fatalf("NewRandomForest failed: %v", err)
	}

	if acc := fitAndScore(t, m, x, y); acc < 0.95 {
		t.Errorf("Forest should separate the clusters, accuracy %f", acc)
	}

	proba, err := m.(*RandomForest).PredictProba(x[:5])
	if err != nil {
		t.Fatalf("PredictProba failed: %v", err)
	}
	for i, p := range proba {
		if math.Abs(p[0]+p[1]-1.0) > 1e-9 {
			t.Errorf("Row %d: probabilities must sum to 1, got %v", i, p)
		}
	}
}

func TestRandomForest_DeterministicForFixedSeed(t *testing.T) {
	x, y := separableData(120, 5)

	fit := func() []float64 {
		m, _ := NewRandomForest(Params{"n_estimators": 10, "max_depth": 4, "seed": 7})
		if err := m.Fit(x, y); err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		pred, _ := m.Predict(x)
		return pred
	}

	if !reflect.DeepEqual(fit(), fit()) {
		t.Error("Identical seed must yield identical ensembles")
	}
}

func TestLogisticRegression_SeparableData(t *testing.T) {
	x, y := separableData(200, 6)

	for _, penalty := range []string{"l1", "l2"} {
		t.Run(penalty, func(t *testing.T) {
			m, err := NewLogisticRegression(Params{"C": 1.0, "penalty": penalty})
			if err != nil {
				t.Fatalf("NewLogisticRegression failed: %v", err)
			}
			if acc := fitAndScore(t, m, x, y); acc < 0.95 {
				t.Errorf("Separable data should fit well, accuracy %f", acc)
			}
		})
	}
}

func TestLogisticRegression_ProbaMatchesPrediction(t *testing.T) {
	x, y := separableData(200, 7)
	m, _ := NewLogisticRegression(Params{"C": 10.0})
	if err := m.Fit(x, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	lr := m.(*LogisticRegression)
	pred, _ := lr.Predict(x)
	proba, _ := lr.PredictProba(x)
	for i := range pred {
		want := 0.0
		if proba[i][1] >= 0.5 {
			want = 1.0
		}
		if pred[i] != want {
			t.Fatalf("Row %d: prediction %f inconsistent with proba %v", i, pred[i], proba[i])
		}
	}
}

func TestLogisticRegression_RejectsBadParams(t *testing.T) {
	if _, err := NewLogisticRegression(Params{"penalty": "l3"}); err == nil {
		t.Error("Expected error for unsupported penalty")
	}
	if _, err := NewLogisticRegression(Params{"C": -1.0}); err == nil {
		t.Error("Expected error for non-positive C")
	}
}

func TestGaussianNB_SeparableData(t *testing.T) {
	x, y := separableData(200, 8)
	m, err := NewGaussianNB(Params{"var_smoothing": 1e-9})
	if err != nil {
		t.Fatalf("NewGaussianNB failed: %v", err)
	}

	if acc := fitAndScore(t, m, x, y); acc < 0.95 {
		t.Errorf("NB should separate gaussian clusters, accuracy %f", acc)
	}

	proba, err := m.(*GaussianNB).PredictProba(x[:3])
	if err != nil {
		t.Fatalf("PredictProba failed: %v", err)
	}
	for i, p := range proba {
		if p[0] < 0 || p[0] > 1 || math.Abs(p[0]+p[1]-1) > 1e-9 {
			t.Errorf("Row %d: invalid probability vector %v", i, p)
		}
	}
}

func TestGaussianNB_HasNoImportances(t *testing.T) {
	m, _ := NewGaussianNB(Params{})
	if _, ok := m.(ImportanceProvider); ok {
		t.Error("GaussianNB must not claim the importance capability")
	}
	if _, ok := m.(ProbabilityEstimator); !ok {
		t.Error("GaussianNB should expose probabilities")
	}
}

func TestUnfittedModelsError(t *testing.T) {
	x := [][]float64{{1, 2, 3}}

	models := []Classifier{
		&LogisticRegression{},
		&DecisionTree{},
		&RandomForest{},
		&GaussianNB{},
	}
	for _, m := range models {
		if _, err := m.Predict(x); err == nil {
			t.Errorf("%T: expected error predicting before fit", m)
		}
	}
}

func TestAccuracy(t *testing.T) {
	testCases := []struct {
		name     string
		pred, y  []float64
		expected float64
	}{
		{"perfect", []float64{0, 1, 1}, []float64{0, 1, 1}, 1.0},
		{"half", []float64{0, 0, 1, 1}, []float64{0, 1, 1, 0}, 0.5},
		{"empty", nil, nil, 0.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Accuracy(tc.pred, tc.y); got != tc.expected {
				t.Errorf("Expected %f, got %f", tc.expected, got)
			}
		})
	}
}
