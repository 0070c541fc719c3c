package model

import (
	"fmt"
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Outcome is one candidate's evaluation result: its best hyperparameters,
// the estimator refitted on the full training set, and held-out accuracy.
type Outcome struct {
	Name     string
	Accuracy float64
	Params   Params
	Model    Classifier
}

// Report holds one Outcome per evaluated candidate, in candidate order.
// Selection tie-breaks depend on this order, so it is a slice, not a map.
type Report []Outcome

// Get returns the outcome for the named candidate.
func (r Report) Get(name string) (Outcome, bool) {
	for _, o := range r {
		if o.Name == name {
			return o, true
		}
	}
	return Outcome{}, false
}

// Evaluator runs cross-validated grid search per candidate and scores each
// refitted winner uniformly on the held-out test set.
type Evaluator struct {
	Folds       int
	Parallelism int
}

func NewEvaluator(folds, parallelism int) *Evaluator {
	if parallelism < 1 {
		parallelism = runtime.NumCPU()
	}
	return &Evaluator{Folds: folds, Parallelism: parallelism}
}

// Evaluate processes every candidate, in order:
//  1. exhaustive K-fold grid search over the candidate's grid, scored by
//     mean cross-validated accuracy on the training set only;
//  2. refit a fresh estimator with the best configuration on the whole
//     training set;
//  3. score accuracy on the held-out test set.
//
// The report is returned once, after the loop, and contains exactly one
// entry per candidate. A failure fitting or scoring any candidate aborts the
// entire evaluation; a candidate is never silently omitted.
func (e *Evaluator) Evaluate(candidates []Candidate, xTrain [][]float64, yTrain []float64, xTest [][]float64, yTest []float64) (Report, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no candidates to evaluate")
	}

	report := make(Report, 0, len(candidates))
	for _, c := range candidates {
		log.Info().Str("model", c.Name).Msg("grid search started")

		best, cvScore, err := e.gridSearch(c, xTrain, yTrain)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s: %w", c.Name, err)
		}

		m, err := c.New(best)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s: %w", c.Name, err)
		}
		if err := m.Fit(xTrain, yTrain); err != nil {
			return nil, fmt.Errorf("evaluate %s: refit: %w", c.Name, err)
		}

		pred, err := m.Predict(xTest)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s: score: %w", c.Name, err)
		}
		acc := Accuracy(pred, yTest)

		log.Info().
			Str("model", c.Name).
			Float64("cv_accuracy", cvScore).
			Float64("test_accuracy", acc).
			Msg("candidate evaluated")

		report = append(report, Outcome{Name: c.Name, Accuracy: acc, Params: best, Model: m})
	}

	return report, nil
}

// gridSearch scores every grid point by mean K-fold accuracy and returns the
// best configuration. Combinations run concurrently with write-once score
// slots; the winner is chosen by a strict greater-than scan in enumeration
// order, so exact ties keep the first combination found.
func (e *Evaluator) gridSearch(c Candidate, x [][]float64, y []float64) (Params, float64, error) {
	combos := c.Grid.Enumerate()
	if len(combos) == 0 {
		return nil, 0, fmt.Errorf("hyperparameter grid is empty")
	}

	folds, err := foldBounds(len(x), e.Folds)
	if err != nil {
		return nil, 0, err
	}

	scores := make([]float64, len(combos))
	var g errgroup.Group
	g.SetLimit(e.Parallelism)
	for i, p := range combos {
		g.Go(func() error {
			s, err := e.crossValidate(c, p, x, y, folds)
			if err != nil {
				return err
			}
			scores[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	bestIdx := 0
	for i, s := range scores {
		if s > scores[bestIdx] {
			bestIdx = i
		}
	}
	return combos[bestIdx], scores[bestIdx], nil
}

func (e *Evaluator) crossValidate(c Candidate, p Params, x [][]float64, y []float64, folds [][2]int) (float64, error) {
	var total float64
	for _, bounds := range folds {
		lo, hi := bounds[0], bounds[1]

		xt := make([][]float64, 0, len(x)-(hi-lo))
		yt := make([]float64, 0, len(y)-(hi-lo))
		xt = append(append(xt, x[:lo]...), x[hi:]...)
		yt = append(append(yt, y[:lo]...), y[hi:]...)

		m, err := c.New(p)
		if err != nil {
			return 0, err
		}
		if err := m.Fit(xt, yt); err != nil {
			return 0, err
		}
		pred, err := m.Predict(x[lo:hi])
		if err != nil {
			return 0, err
		}
		total += Accuracy(pred, y[lo:hi])
	}
	return total / float64(len(folds)), nil
}

// foldBounds slices n samples into k contiguous folds, the first n%k folds
// one sample larger. The training data is already shuffled by ingestion, so
// contiguous folds are unbiased and keep cross-validation deterministic.
func foldBounds(n, k int) ([][2]int, error) {
	if k < 2 {
		return nil, fmt.Errorf("cross-validation needs at least 2 folds, got %d", k)
	}
	if n < k {
		return nil, fmt.Errorf("cannot split %d samples into %d folds", n, k)
	}
	bounds := make([][2]int, k)
	size, rem := n/k, n%k
	start := 0
	for i := 0; i < k; i++ {
		end := start + size
		if i < rem {
			end++
		}
		bounds[i] = [2]int{start, end}
		start = end
	}
	return bounds, nil
}
