package preprocess

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"census-income/internal/artifacts"
	"census-income/internal/dataset"
)

// PreprocessorConfig carries the path the fitted transformer is saved to.
type PreprocessorConfig struct {
	TransformerPath string
}

// Preprocessor runs outlier capping and the fit/transform stage over the
// train/test CSV artifacts produced by ingestion.
type Preprocessor struct {
	config PreprocessorConfig
}

func NewPreprocessor(config PreprocessorConfig) *Preprocessor {
	return &Preprocessor{config: config}
}

// Run reads the train and test CSVs, caps outliers on each set using its own
// quantiles, fits the transformer on train only, transforms both sets and
// persists the fitted transformer. It returns the transformed matrices and
// label vectors for model training.
func (p *Preprocessor) Run(trainPath, testPath string) (xTrain, xTest [][]float64, yTrain, yTest []float64, err error) {
	log.Info().Msg("data preprocessing started")

	trainRows, err := dataset.ReadCSV(trainPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	testRows, err := dataset.ReadCSV(testPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	xTrain, yTrain = dataset.Matrix(trainRows)
	xTest, yTest = dataset.Matrix(testRows)

	if err := CapOutliersIQR(xTrain, dataset.FeatureNames); err != nil {
		return nil, nil, nil, nil, err
	}
	log.Info().Msg("outliers capped on training data")

	if err := CapOutliersIQR(xTest, dataset.FeatureNames); err != nil {
		return nil, nil, nil, nil, err
	}
	log.Info().Msg("outliers capped on test data")

	transformer := NewStandardPipeline()
	xTrain, err = transformer.FitTransform(xTrain)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	xTest, err = transformer.Transform(xTest)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	if err := artifacts.Save(p.config.TransformerPath, transformer); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("save transformer: %w", err)
	}

	log.Info().Msg("data preprocessing completed")
	return xTrain, xTest, yTrain, yTest, nil
}
