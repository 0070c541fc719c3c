package predict

import (
	"fmt"
	"strconv"

	"census-income/internal/dataset"
)

// ParseInput validates a decoded JSON object against the 12-field schema and
// builds a FeatureRow. Every field must be present and numeric; validation
// failures name the offending field and happen before any model invocation.
// JSON numbers and numeric strings are both accepted, matching form input.
func ParseInput(values map[string]any) (dataset.FeatureRow, error) {
	vector := make([]float64, 0, dataset.NumFeatures)
	for _, field := range dataset.FeatureNames {
		raw, ok := values[field]
		if !ok || raw == nil {
			return dataset.FeatureRow{}, fmt.Errorf("missing required field: %s", field)
		}

		v, err := toNumber(raw)
		if err != nil {
			return dataset.FeatureRow{}, fmt.Errorf("invalid value for %s: must be a number", field)
		}
		vector = append(vector, v)
	}

	row, err := dataset.FromVector(vector)
	if err != nil {
		return dataset.FeatureRow{}, err
	}
	return row, validateRanges(row)
}

func toNumber(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", raw)
	}
}

// validateRanges applies the domain bounds on key fields.
func validateRanges(row dataset.FeatureRow) error {
	if row.Age < 0 || row.Age > 120 {
		return fmt.Errorf("age must be between 0 and 120")
	}
	if row.HoursPerWeek < 0 || row.HoursPerWeek > 168 {
		return fmt.Errorf("hours_per_week must be between 0 and 168")
	}
	if row.CapitalGain < 0 {
		return fmt.Errorf("capital_gain cannot be negative")
	}
	if row.CapitalLoss < 0 {
		return fmt.Errorf("capital_loss cannot be negative")
	}
	return nil
}
