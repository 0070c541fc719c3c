// Package model implements the candidate classifiers, the cross-validated
// grid-search evaluator and the winner selection that together form the
// model-training core.
package model

import (
	"encoding/gob"
)

// Classifier is a trainable binary classifier over fixed-width feature
// vectors. Labels are 0 and 1.
type Classifier interface {
	Fit(x [][]float64, y []float64) error
	Predict(x [][]float64) ([]float64, error)
}

// ProbabilityEstimator is implemented by classifiers that expose per-class
// probabilities. The returned matrix has one row per sample with columns
// ordered [P(class 0), P(class 1)].
type ProbabilityEstimator interface {
	PredictProba(x [][]float64) ([][]float64, error)
}

// ImportanceProvider is implemented by fitted tree-based classifiers that
// expose per-feature importance scores, normalized to sum to 1.
type ImportanceProvider interface {
	FeatureImportances() []float64
}

// Params holds one hyperparameter configuration for a classifier.
type Params map[string]any

// Float reads a float hyperparameter, tolerating integer grid values.
func (p Params) Float(key string, def float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return def
	}
}

// Int reads an integer hyperparameter.
func (p Params) Int(key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return def
	}
}

// String reads a string hyperparameter.
func (p Params) String(key string, def string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return def
}

// Factory builds an untrained classifier configured with the given
// hyperparameters. A fresh instance is built for every cross-validation fit
// so no state leaks between folds.
type Factory func(p Params) (Classifier, error)

// Candidate pairs a named classifier factory with its hyperparameter grid.
type Candidate struct {
	Name string
	New  Factory
	Grid Grid
}

// SavedModel is the single persisted training artifact: the winning fitted
// estimator together with its name and chosen hyperparameters.
type SavedModel struct {
	Name     string
	Params   Params
	Accuracy float64
	Model    Classifier
}

// Accuracy is the fraction of predictions matching the labels.
func Accuracy(pred, y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	correct := 0
	for i := range y {
		if pred[i] == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(y))
}

func init() {
	// Concrete classifier types travel inside SavedModel's interface field,
	// as do primitive hyperparameter values inside Params.
	gob.Register(&LogisticRegression{})
	gob.Register(&DecisionTree{})
	gob.Register(&RandomForest{})
	gob.Register(&GaussianNB{})
	gob.Register(int(0))
	gob.Register(float64(0))
	gob.Register(string(""))
}
