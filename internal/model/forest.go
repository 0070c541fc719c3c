package model

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// RandomForest averages bootstrap-trained decision trees, each splitting on
// a sqrt(d) random feature subset. Per-tree seeds are drawn up front from
// the forest seed, so a fixed seed yields an identical ensemble.
type RandomForest struct {
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	Balanced        bool
	Seed            int64

	Trees     []*DecisionTree
	NFeatures int
}

// NewRandomForest configures a forest from grid parameters.
func NewRandomForest(p Params) (Classifier, error) {
	n := p.Int("n_estimators", 100)
	if n <= 0 {
		return nil, fmt.Errorf("random forest: n_estimators must be positive, got %d", n)
	}
	return &RandomForest{
		NEstimators:     n,
		MaxDepth:        p.Int("max_depth", 0),
		MinSamplesSplit: p.Int("min_samples_split", 2),
		Balanced:        p.String("class_weight", "") == "balanced",
		Seed:            int64(p.Int("seed", 0)),
	}, nil
}

func (m *RandomForest) Fit(x [][]float64, y []float64) error {
	if len(x) == 0 || len(x) != len(y) {
		return fmt.Errorf("random forest: %d rows, %d labels", len(x), len(y))
	}
	m.NFeatures = len(x[0])
	maxFeatures := int(math.Sqrt(float64(m.NFeatures)))
	if maxFeatures < 1 {
		maxFeatures = 1
	}

	rng := rand.New(rand.NewSource(m.Seed))
	m.Trees = make([]*DecisionTree, m.NEstimators)

	n := len(x)
	for t := range m.Trees {
		tree := &DecisionTree{
			Criterion:       "gini",
			MaxDepth:        m.MaxDepth,
			MinSamplesSplit: m.MinSamplesSplit,
			MinSamplesLeaf:  1,
			Balanced:        m.Balanced,
			MaxFeatures:     maxFeatures,
			Seed:            rng.Int63(),
		}

		bx := make([][]float64, n)
		by := make([]float64, n)
		for i := 0; i < n; i++ {
			j := rng.Intn(n)
			bx[i] = x[j]
			by[i] = y[j]
		}

		if err := tree.Fit(bx, by); err != nil {
			return fmt.Errorf("random forest: tree %d: %w", t, err)
		}
		m.Trees[t] = tree
	}
	return nil
}

func (m *RandomForest) Predict(x [][]float64) ([]float64, error) {
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

func (m *RandomForest) PredictProba(x [][]float64) ([][]float64, error) {
	if len(m.Trees) == 0 {
		return nil, fmt.Errorf("random forest is not fitted")
	}
	proba := make([][]float64, len(x))
	for i := range proba {
		proba[i] = []float64{0, 0}
	}
	for _, tree := range m.Trees {
		tp, err := tree.PredictProba(x)
		if err != nil {
			return nil, err
		}
		for i := range proba {
			proba[i][0] += tp[i][0]
			proba[i][1] += tp[i][1]
		}
	}
	inv := 1.0 / float64(len(m.Trees))
	for i := range proba {
		proba[i][0] *= inv
		proba[i][1] *= inv
	}
	return proba, nil
}

// FeatureImportances averages the trees' impurity-decrease importances and
// renormalizes them to sum to 1.
func (m *RandomForest) FeatureImportances() []float64 {
	imp := make([]float64, m.NFeatures)
	for _, tree := range m.Trees {
		floats.Add(imp, tree.Importance)
	}
	if sum := floats.Sum(imp); sum > 0 {
		floats.Scale(1/sum, imp)
	}
	return imp
}
