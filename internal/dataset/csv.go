package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"census-income/internal/common"
)

// requiredColumns is the full expected header: the 12 features plus the label.
var requiredColumns = append(append([]string{}, FeatureNames...), common.TargetColumn)

// ValidateColumns checks that every required column is present in the header.
// Extra columns are tolerated; missing ones are a fatal schema error reported
// before any artifact is written.
func ValidateColumns(header []string) error {
	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[col] = true
	}

	var missing []string
	for _, col := range requiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing columns in dataset: %v", missing)
	}
	return nil
}

// ReadCSV loads labeled rows from a CSV file with a header row, validating
// the schema before parsing any values.
func ReadCSV(path string) ([]LabeledRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header %s: %w", path, err)
	}
	if err := ValidateColumns(header); err != nil {
		return nil, err
	}

	var rows []LabeledRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset %s contains no rows", path)
	}
	return rows, nil
}

// WriteCSV writes labeled rows to a CSV file with a header row, creating
// parent directories and overwriting any previous artifact.
func WriteCSV(path string, rows []LabeledRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create artifact dir for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create artifact %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("write artifact %s: %w", path, err)
	}
	return nil
}
