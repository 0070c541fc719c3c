// Package dataset loads the adult census CSV, validates its schema, and
// produces the deterministic train/test split consumed by preprocessing.
//
// All categorical fields arrive pre-encoded as small integers; this package
// never re-derives those codes.
package dataset

import (
	"fmt"
)

// FeatureRow is one observation of the 12 census attributes, in the fixed
// order the fitted transformer expects. Field set and order must not change.
type FeatureRow struct {
	Age           float64 `csv:"age" json:"age"`
	Workclass     float64 `csv:"workclass" json:"workclass"`
	EducationNum  float64 `csv:"education_num" json:"education_num"`
	MaritalStatus float64 `csv:"marital_status" json:"marital_status"`
	Occupation    float64 `csv:"occupation" json:"occupation"`
	Relationship  float64 `csv:"relationship" json:"relationship"`
	Race          float64 `csv:"race" json:"race"`
	Sex           float64 `csv:"sex" json:"sex"`
	CapitalGain   float64 `csv:"capital_gain" json:"capital_gain"`
	CapitalLoss   float64 `csv:"capital_loss" json:"capital_loss"`
	HoursPerWeek  float64 `csv:"hours_per_week" json:"hours_per_week"`
	NativeCountry float64 `csv:"native_country" json:"native_country"`
}

// LabeledRow is a FeatureRow plus its binary income label.
type LabeledRow struct {
	FeatureRow
	Income float64 `csv:"income" json:"income"`
}

// FeatureNames lists the feature columns in schema order.
var FeatureNames = []string{
	"age",
	"workclass",
	"education_num",
	"marital_status",
	"occupation",
	"relationship",
	"race",
	"sex",
	"capital_gain",
	"capital_loss",
	"hours_per_week",
	"native_country",
}

// NumFeatures is the width of a feature vector.
const NumFeatures = 12

// Vector returns the row's values in schema order.
func (r FeatureRow) Vector() []float64 {
	return []float64{
		r.Age,
		r.Workclass,
		r.EducationNum,
		r.MaritalStatus,
		r.Occupation,
		r.Relationship,
		r.Race,
		r.Sex,
		r.CapitalGain,
		r.CapitalLoss,
		r.HoursPerWeek,
		r.NativeCountry,
	}
}

// FromVector builds a FeatureRow from values in schema order.
func FromVector(v []float64) (FeatureRow, error) {
	if len(v) != NumFeatures {
		return FeatureRow{}, fmt.Errorf("expected %d features, got %d", NumFeatures, len(v))
	}
	return FeatureRow{
		Age:           v[0],
		Workclass:     v[1],
		EducationNum:  v[2],
		MaritalStatus: v[3],
		Occupation:    v[4],
		Relationship:  v[5],
		Race:          v[6],
		Sex:           v[7],
		CapitalGain:   v[8],
		CapitalLoss:   v[9],
		HoursPerWeek:  v[10],
		NativeCountry: v[11],
	}, nil
}

// Matrix splits labeled rows into a feature matrix and a label vector.
func Matrix(rows []LabeledRow) ([][]float64, []float64) {
	x := make([][]float64, len(rows))
	y := make([]float64, len(rows))
	for i, r := range rows {
		x[i] = r.Vector()
		y[i] = r.Income
	}
	return x, y
}
