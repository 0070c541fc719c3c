package common

// Environment variable keys
const (
	EnvConfigFile    = "CONFIG_FILE"
	EnvRawDataPath   = "RAW_DATA_PATH"
	EnvArtifactsDir  = "ARTIFACTS_DIR"
	EnvDataPath      = "DATA_PATH"
	EnvTestSize      = "TEST_SIZE"
	EnvRandomState   = "RANDOM_STATE"
	EnvCVFolds       = "CV_FOLDS"
	EnvTopPredictors = "TOP_PREDICTORS"
	EnvServerPort    = "SERVER_PORT"
	EnvCVParallelism = "CV_PARALLELISM"
)

// Configuration defaults
const (
	DefaultRawDataPath   = "data/raw/adult.csv"
	DefaultArtifactsDir  = "artifacts"
	DefaultTestSize      = 0.30
	DefaultRandomState   = 42
	DefaultCVFolds       = 5
	DefaultTopPredictors = 8
	DefaultServerPort    = 8080
)

// Artifact file names, relative to the artifacts directory.
// Every run overwrites these wholesale; there is no versioning.
const (
	RawArtifactName   = "data_ingestion/raw.csv"
	TrainArtifactName = "data_ingestion/train.csv"
	TestArtifactName  = "data_ingestion/test.csv"
	TransformerName   = "preprocessing/transformer.gob"
	ModelArtifactName = "model_trainer/model.gob"
)

// TargetColumn is the label column of the dataset (0 = <=50K, 1 = >50K).
const TargetColumn = "income"
