// Package preprocess implements IQR outlier capping and the reusable
// median-impute + standard-scale transformation fitted on training data.
package preprocess

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// CapOutliersIQR clips every column of x to [Q1-1.5*IQR, Q3+1.5*IQR], where
// the quantiles come from that column of x itself. Values are capped in
// place; the row count never changes. names provides column names for error
// context and must match the matrix width.
//
// Note: train and test sets are each capped with their own quantiles. This
// mirrors the rest of the pipeline's historical behavior and is deliberate,
// but unlike imputation/scaling it is not a fit-on-train transformation.
func CapOutliersIQR(x [][]float64, names []string) error {
	if len(x) == 0 {
		return fmt.Errorf("cap outliers: empty matrix")
	}
	if len(names) != len(x[0]) {
		return fmt.Errorf("cap outliers: %d column names for %d columns", len(names), len(x[0]))
	}

	for col := range names {
		if err := capColumn(x, col); err != nil {
			return fmt.Errorf("cap outliers in column %q: %w", names[col], err)
		}
	}
	return nil
}

func capColumn(x [][]float64, col int) error {
	values := make([]float64, 0, len(x))
	for _, row := range x {
		if col >= len(row) {
			return fmt.Errorf("row has %d columns, need index %d", len(row), col)
		}
		if !math.IsNaN(row[col]) {
			values = append(values, row[col])
		}
	}
	if len(values) == 0 {
		return fmt.Errorf("no numeric values")
	}
	sort.Float64s(values)

	q1 := stat.Quantile(0.25, stat.LinInterp, values, nil)
	q3 := stat.Quantile(0.75, stat.LinInterp, values, nil)
	iqr := q3 - q1
	upper := q3 + 1.5*iqr
	lower := q1 - 1.5*iqr

	for _, row := range x {
		switch {
		case row[col] > upper:
			row[col] = upper
		case row[col] < lower:
			row[col] = lower
		}
	}
	return nil
}
