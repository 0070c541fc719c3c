package predict

import (
	"strings"
	"testing"

	"census-income/internal/dataset"
)

func validInput() map[string]any {
	return map[string]any{
		"age": 39.0, "workclass": 4.0, "education_num": 13.0,
		"marital_status": 2.0, "occupation": 1.0, "relationship": 0.0,
		"race": 4.0, "sex": 1.0, "capital_gain": 2174.0,
		"capital_loss": 0.0, "hours_per_week": 40.0, "native_country": 39.0,
	}
}

func TestParseInput_Valid(t *testing.T) {
	row, err := ParseInput(validInput())
	if err != nil {
		t.Fatalf("ParseInput failed: %v", err)
	}
	if row.Age != 39 || row.CapitalGain != 2174 || row.HoursPerWeek != 40 {
		t.Errorf("Parsed row has wrong values: %+v", row)
	}
}

func TestParseInput_NumericStringsAccepted(t *testing.T) {
	input := validInput()
	input["age"] = "52"
	input["hours_per_week"] = "37.5"

	row, err := ParseInput(input)
	if err != nil {
		t.Fatalf("ParseInput failed: %v", err)
	}
	if row.Age != 52 || row.HoursPerWeek != 37.5 {
		t.Errorf("String values not parsed: %+v", row)
	}
}

func TestParseInput_MissingFieldNamed(t *testing.T) {
	for _, field := range dataset.FeatureNames {
		input := validInput()
		delete(input, field)

		_, err := ParseInput(input)
		if err == nil {
			t.Fatalf("Expected error when %s is missing", field)
		}
		if !strings.Contains(err.Error(), field) {
			t.Errorf("Error should name %s, got %q", field, err)
		}
	}
}

func TestParseInput_NonNumericNamed(t *testing.T) {
	input := validInput()
	input["occupation"] = "farmer"

	_, err := ParseInput(input)
	if err == nil {
		t.Fatal("Expected error for non-numeric value")
	}
	if !strings.Contains(err.Error(), "occupation") || !strings.Contains(err.Error(), "must be a number") {
		t.Errorf("Error should name the field and the reason, got %q", err)
	}
}

func TestParseInput_NullValue(t *testing.T) {
	input := validInput()
	input["sex"] = nil // JSON null decodes to nil

	if _, err := ParseInput(input); err == nil {
		t.Error("Expected error for null value")
	}
}

func TestParseInput_RangeChecks(t *testing.T) {
	testCases := []struct {
		field string
		value float64
		want  string
	}{
		{"age", -1, "age"},
		{"age", 121, "age"},
		{"hours_per_week", 169, "hours_per_week"},
		{"capital_gain", -5, "capital_gain"},
		{"capital_loss", -5, "capital_loss"},
	}

	for _, tc := range testCases {
		input := validInput()
		input[tc.field] = tc.value

		_, err := ParseInput(input)
		if err == nil {
			t.Errorf("Expected range error for %s=%f", tc.field, tc.value)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("Error for %s=%f should mention %q, got %q", tc.field, tc.value, tc.want, err)
		}
	}
}

func TestParseInput_BoundaryValuesAccepted(t *testing.T) {
	input := validInput()
	input["age"] = 0.0
	input["hours_per_week"] = 168.0

	if _, err := ParseInput(input); err != nil {
		t.Errorf("Boundary values should pass: %v", err)
	}
}
