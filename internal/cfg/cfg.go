package cfg

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"

	"census-income/internal/common"
)

type Settings struct {
	RawDataPath   string
	ArtifactsDir  string
	DataPath      string
	TestSize      float64
	RandomState   int64
	CVFolds       int
	CVParallelism int
	TopPredictors int
	ServerPort    int
}

type ConfigFile struct {
	Data struct {
		RawPath      string `yaml:"rawPath"`
		ArtifactsDir string `yaml:"artifactsDir"`
		HistoryPath  string `yaml:"historyPath"`
	} `yaml:"data"`

	Training struct {
		TestSize      float64 `yaml:"testSize"`
		RandomState   int64   `yaml:"randomState"`
		CVFolds       int     `yaml:"cvFolds"`
		CVParallelism int     `yaml:"cvParallelism"`
	} `yaml:"training"`

	Serving struct {
		Port          int `yaml:"port"`
		TopPredictors int `yaml:"topPredictors"`
	} `yaml:"serving"`
}

func Load() (Settings, error) {
	// Try to load from YAML file first
	if configPath := os.Getenv(common.EnvConfigFile); configPath != "" {
		return loadFromYAML(configPath)
	}

	// Fallback to environment variables
	return loadFromEnv()
}

func loadFromYAML(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	settings := Settings{
		RawDataPath:   getEnvOrDefault(common.EnvRawDataPath, orString(config.Data.RawPath, common.DefaultRawDataPath)),
		ArtifactsDir:  getEnvOrDefault(common.EnvArtifactsDir, orString(config.Data.ArtifactsDir, common.DefaultArtifactsDir)),
		DataPath:      getEnvOrDefault(common.EnvDataPath, config.Data.HistoryPath),
		TestSize:      getFloatFromEnvOrConfig(common.EnvTestSize, config.Training.TestSize, common.DefaultTestSize),
		RandomState:   getInt64FromEnvOrConfig(common.EnvRandomState, config.Training.RandomState, common.DefaultRandomState),
		CVFolds:       getIntFromEnvOrConfig(common.EnvCVFolds, config.Training.CVFolds, common.DefaultCVFolds),
		CVParallelism: getIntFromEnvOrConfig(common.EnvCVParallelism, config.Training.CVParallelism, runtime.NumCPU()),
		TopPredictors: getIntFromEnvOrConfig(common.EnvTopPredictors, config.Serving.TopPredictors, common.DefaultTopPredictors),
		ServerPort:    getIntFromEnvOrConfig(common.EnvServerPort, config.Serving.Port, common.DefaultServerPort),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

func loadFromEnv() (Settings, error) {
	settings := Settings{
		RawDataPath:   getEnvOrDefault(common.EnvRawDataPath, common.DefaultRawDataPath),
		ArtifactsDir:  getEnvOrDefault(common.EnvArtifactsDir, common.DefaultArtifactsDir),
		DataPath:      os.Getenv(common.EnvDataPath), // optional
		TestSize:      getFloatOrDefault(common.EnvTestSize, common.DefaultTestSize),
		RandomState:   getInt64OrDefault(common.EnvRandomState, common.DefaultRandomState),
		CVFolds:       getIntOrDefault(common.EnvCVFolds, common.DefaultCVFolds),
		CVParallelism: getIntOrDefault(common.EnvCVParallelism, runtime.NumCPU()),
		TopPredictors: getIntOrDefault(common.EnvTopPredictors, common.DefaultTopPredictors),
		ServerPort:    getIntOrDefault(common.EnvServerPort, common.DefaultServerPort),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

// Artifact path helpers, all relative to the configured artifacts directory.

func (s *Settings) RawArtifactPath() string {
	return filepath.Join(s.ArtifactsDir, filepath.FromSlash(common.RawArtifactName))
}

func (s *Settings) TrainDataPath() string {
	return filepath.Join(s.ArtifactsDir, filepath.FromSlash(common.TrainArtifactName))
}

func (s *Settings) TestDataPath() string {
	return filepath.Join(s.ArtifactsDir, filepath.FromSlash(common.TestArtifactName))
}

func (s *Settings) TransformerPath() string {
	return filepath.Join(s.ArtifactsDir, filepath.FromSlash(common.TransformerName))
}

func (s *Settings) ModelPath() string {
	return filepath.Join(s.ArtifactsDir, filepath.FromSlash(common.ModelArtifactName))
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getInt64OrDefault(key string, defaultValue int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getIntFromEnvOrConfig(key string, configValue, defaultValue int) int {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.Atoi(env); err == nil {
			return val
		}
	}
	if configValue != 0 {
		return configValue
	}
	return defaultValue
}

func getInt64FromEnvOrConfig(key string, configValue, defaultValue int64) int64 {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.ParseInt(env, 10, 64); err == nil {
			return val
		}
	}
	if configValue != 0 {
		return configValue
	}
	return defaultValue
}

func getFloatFromEnvOrConfig(key string, configValue, defaultValue float64) float64 {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.ParseFloat(env, 64); err == nil {
			return val
		}
	}
	if configValue != 0 {
		return configValue
	}
	return defaultValue
}

func orString(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

// validateSettings performs comprehensive validation of configuration values
func validateSettings(settings *Settings) error {
	if settings.RawDataPath == "" {
		return fmt.Errorf("raw data path cannot be empty")
	}
	if settings.ArtifactsDir == "" {
		return fmt.Errorf("artifacts directory cannot be empty")
	}

	if settings.TestSize <= 0 || settings.TestSize >= 1 {
		return fmt.Errorf("test size must be between 0 and 1 exclusive, got %f", settings.TestSize)
	}
	if settings.CVFolds < 2 || settings.CVFolds > 20 {
		return fmt.Errorf("CV folds must be between 2 and 20, got %d", settings.CVFolds)
	}
	if settings.CVParallelism < 1 {
		return fmt.Errorf("CV parallelism must be at least 1, got %d", settings.CVParallelism)
	}
	if settings.TopPredictors < 1 {
		return fmt.Errorf("top predictors must be at least 1, got %d", settings.TopPredictors)
	}
	if settings.ServerPort < 1024 || settings.ServerPort > 65535 {
		return fmt.Errorf("server port must be between 1024 and 65535, got %d", settings.ServerPort)
	}

	return nil
}
