package preprocess

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ErrNotFitted is returned when Transform is called before FitTransform.
var ErrNotFitted = errors.New("transformer is not fitted")

// StandardPipeline is a two-stage column transformation: median imputation
// followed by standardization to zero mean and unit variance. Statistics are
// learned once, from training data only, and then applied unchanged to any
// other matrix. The fitted state is gob-serializable; a restored pipeline
// behaves identically to the original.
type StandardPipeline struct {
	Medians []float64
	Means   []float64
	Scales  []float64
	Fitted  bool
}

// NewStandardPipeline returns an unfitted pipeline.
func NewStandardPipeline() *StandardPipeline {
	return &StandardPipeline{}
}

// FitTransform learns per-column medians, means and scales from x and
// returns the transformed copy of x. Calling it again refits from scratch.
func (t *StandardPipeline) FitTransform(x [][]float64) ([][]float64, error) {
	if len(x) == 0 || len(x[0]) == 0 {
		return nil, fmt.Errorf("fit transformer: empty matrix")
	}
	cols := len(x[0])

	t.Medians = make([]float64, cols)
	t.Means = make([]float64, cols)
	t.Scales = make([]float64, cols)

	for col := 0; col < cols; col++ {
		values := make([]float64, 0, len(x))
		for _, row := range x {
			if len(row) != cols {
				return nil, fmt.Errorf("fit transformer: ragged matrix at width %d, expected %d", len(row), cols)
			}
			if !math.IsNaN(row[col]) {
				values = append(values, row[col])
			}
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("fit transformer: column %d has no numeric values", col)
		}
		sort.Float64s(values)
		t.Medians[col] = stat.Quantile(0.5, stat.LinInterp, values, nil)
	}

	// Mean and population standard deviation are computed over imputed data,
	// matching the order the stages apply in Transform.
	n := float64(len(x))
	for col := 0; col < cols; col++ {
		var sum float64
		for _, row := range x {
			sum += t.impute(row[col], col)
		}
		mean := sum / n

		var sq float64
		for _, row := range x {
			d := t.impute(row[col], col) - mean
			sq += d * d
		}
		scale := math.Sqrt(sq / n)
		if scale == 0 {
			scale = 1 // constant column passes through centered
		}

		t.Means[col] = mean
		t.Scales[col] = scale
	}

	t.Fitted = true
	return t.apply(x)
}

// Transform applies the frozen statistics to x without refitting.
func (t *StandardPipeline) Transform(x [][]float64) ([][]float64, error) {
	if !t.Fitted {
		return nil, ErrNotFitted
	}
	return t.apply(x)
}

func (t *StandardPipeline) apply(x [][]float64) ([][]float64, error) {
	cols := len(t.Medians)
	out := make([][]float64, len(x))
	for i, row := range x {
		if len(row) != cols {
			return nil, fmt.Errorf("transform: row has %d columns, transformer fitted on %d", len(row), cols)
		}
		tr := make([]float64, cols)
		for col, v := range row {
			tr[col] = (t.impute(v, col) - t.Means[col]) / t.Scales[col]
		}
		out[i] = tr
	}
	return out, nil
}

func (t *StandardPipeline) impute(v float64, col int) float64 {
	if math.IsNaN(v) {
		return t.Medians[col]
	}
	return v
}
