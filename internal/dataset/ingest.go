package dataset

import (
	"github.com/rs/zerolog/log"
)

// IngestionConfig carries the paths ingestion reads from and writes to.
type IngestionConfig struct {
	RawDataPath     string
	RawArtifactPath string
	TrainPath       string
	TestPath        string
	TestSize        float64
	RandomState     int64
}

// Ingestion loads the raw dataset, validates its schema, splits it and
// persists the raw/train/test CSV artifacts.
type Ingestion struct {
	config IngestionConfig
}

func NewIngestion(config IngestionConfig) *Ingestion {
	return &Ingestion{config: config}
}

// Run executes ingestion and returns the train/test artifact paths for the
// downstream preprocessing stage. Schema validation happens before any
// artifact write, so a malformed dataset leaves no partial output behind.
func (i *Ingestion) Run() (trainPath, testPath string, err error) {
	log.Info().Str("source", i.config.RawDataPath).Msg("data ingestion started")

	rows, err := ReadCSV(i.config.RawDataPath)
	if err != nil {
		return "", "", err
	}
	log.Info().Int("rows", len(rows)).Msg("dataset loaded, column validation passed")

	if err := WriteCSV(i.config.RawArtifactPath, rows); err != nil {
		return "", "", err
	}

	train, test, err := Split(rows, i.config.TestSize, i.config.RandomState)
	if err != nil {
		return "", "", err
	}
	log.Info().Int("train", len(train)).Int("test", len(test)).Msg("train/test split complete")

	if err := WriteCSV(i.config.TrainPath, train); err != nil {
		return "", "", err
	}
	if err := WriteCSV(i.config.TestPath, test); err != nil {
		return "", "", err
	}

	log.Info().Msg("data ingestion completed")
	return i.config.TrainPath, i.config.TestPath, nil
}
