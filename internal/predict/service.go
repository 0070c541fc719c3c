// Package predict serves single-row income predictions from the persisted
// transformer and selected model.
package predict

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"census-income/internal/artifacts"
	"census-income/internal/dataset"
	"census-income/internal/model"
	"census-income/internal/preprocess"
)

// MetricsInterface defines the metric updates the service emits.
type MetricsInterface interface {
	PredictionsInc()
	PredictionErrorsInc()
	PredictionLatencyObserve(float64)
	ConfidenceObserve(float64)
	ModelAgeSet(float64)
}

// FeatureWeight pairs a feature name with its relative importance.
type FeatureWeight struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Result is the three-part prediction output. Confidence and TopPredictors
// are nil when the selected model lacks the corresponding capability; their
// absence is not an error.
type Result struct {
	Label         int             `json:"label"`
	Confidence    *float64        `json:"confidence,omitempty"`
	TopPredictors []FeatureWeight `json:"top_predictors,omitempty"`
}

// Service loads the persisted transformer and model lazily, exactly once,
// and caches both for the process lifetime. The cache is never invalidated;
// picking up a newer training run requires a restart. Concurrent first
// requests are safe: sync.Once guarantees a single load.
type Service struct {
	transformerPath string
	modelPath       string
	topN            int
	metrics         MetricsInterface

	once        sync.Once
	loadErr     error
	transformer *preprocess.StandardPipeline
	saved       *model.SavedModel
}

// NewService builds a prediction service; metrics may be nil.
func NewService(transformerPath, modelPath string, topN int, metrics MetricsInterface) *Service {
	return &Service{
		transformerPath: transformerPath,
		modelPath:       modelPath,
		topN:            topN,
		metrics:         metrics,
	}
}

func (s *Service) load() {
	transformer := preprocess.NewStandardPipeline()
	if err := artifacts.Load(s.transformerPath, transformer); err != nil {
		s.loadErr = fmt.Errorf("load transformer: %w", err)
		return
	}

	var saved model.SavedModel
	if err := artifacts.Load(s.modelPath, &saved); err != nil {
		s.loadErr = fmt.Errorf("load model: %w", err)
		return
	}

	s.transformer = transformer
	s.saved = &saved
	log.Info().
		Str("model", saved.Name).
		Float64("trained_accuracy", saved.Accuracy).
		Msg("prediction artifacts loaded")

	if s.metrics != nil {
		if info, err := os.Stat(s.modelPath); err == nil {
			s.metrics.ModelAgeSet(time.Since(info.ModTime()).Seconds())
		}
	}
}

// ModelName reports the loaded model's name, loading artifacts if needed.
func (s *Service) ModelName() (string, error) {
	s.once.Do(s.load)
	if s.loadErr != nil {
		return "", s.loadErr
	}
	return s.saved.Name, nil
}

// Predict transforms one feature row and returns the predicted label, the
// probability of that predicted class (if the model exposes probabilities),
// and the top-N ranked feature importances (if the model exposes them).
func (s *Service) Predict(row dataset.FeatureRow) (Result, error) {
	start := time.Now()

	res, err := s.predict(row)

	if s.metrics != nil {
		s.metrics.PredictionLatencyObserve(time.Since(start).Seconds())
		if err != nil {
			s.metrics.PredictionErrorsInc()
		} else {
			s.metrics.PredictionsInc()
			if res.Confidence != nil {
				s.metrics.ConfidenceObserve(*res.Confidence)
			}
		}
	}
	return res, err
}

func (s *Service) predict(row dataset.FeatureRow) (Result, error) {
	s.once.Do(s.load)
	if s.loadErr != nil {
		return Result{}, s.loadErr
	}

	x, err := s.transformer.Transform([][]float64{row.Vector()})
	if err != nil {
		return Result{}, fmt.Errorf("transform input: %w", err)
	}

	pred, err := s.saved.Model.Predict(x)
	if err != nil {
		return Result{}, fmt.Errorf("predict: %w", err)
	}
	label := int(pred[0])

	res := Result{Label: label}

	if pe, ok := s.saved.Model.(model.ProbabilityEstimator); ok {
		proba, err := pe.PredictProba(x)
		if err != nil {
			log.Warn().Err(err).Msg("could not extract probability")
		} else {
			// Confidence is the probability of the class actually predicted,
			// not the maximum class probability.
			conf := proba[0][label]
			res.Confidence = &conf
		}
	}

	if ip, ok := s.saved.Model.(model.ImportanceProvider); ok {
		res.TopPredictors = rankImportances(ip.FeatureImportances(), s.topN)
	}

	return res, nil
}

// rankImportances pairs importances with feature names and returns the topN
// heaviest, descending.
func rankImportances(importances []float64, topN int) []FeatureWeight {
	ranked := make([]FeatureWeight, 0, len(importances))
	for i, w := range importances {
		if i >= len(dataset.FeatureNames) {
			break
		}
		ranked = append(ranked, FeatureWeight{Name: dataset.FeatureNames[i], Weight: w})
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].Weight > ranked[b].Weight })

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
