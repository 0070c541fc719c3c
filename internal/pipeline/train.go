// Package pipeline orchestrates the end-to-end training workflow:
// ingestion, preprocessing, and model evaluation/selection, strictly in
// that order. A fresh invocation reruns all stages from the top; with
// identical inputs and seed the run is idempotent.
package pipeline

import (
	"time"

	"github.com/rs/zerolog/log"

	"census-income/internal/artifacts"
	"census-income/internal/cfg"
	"census-income/internal/dataset"
	"census-income/internal/metrics"
	"census-income/internal/model"
	"census-income/internal/preprocess"
)

// Trainer sequences the three training stages and persists the winning
// model. Any stage failure halts the pipeline and surfaces the original
// error wrapped with the stage name.
type Trainer struct {
	settings cfg.Settings
	metrics  *metrics.Metrics
}

// NewTrainer builds a trainer; m may be nil when metrics are not wanted
// (e.g. in tests).
func NewTrainer(settings cfg.Settings, m *metrics.Metrics) *Trainer {
	return &Trainer{settings: settings, metrics: m}
}

// Run executes the full training pipeline and returns the evaluation report.
func (t *Trainer) Run() (model.Report, error) {
	start := time.Now()
	log.Info().Msg("training pipeline started")
	if t.metrics != nil {
		t.metrics.TrainingRuns.Inc()
	}

	report, err := t.run()
	if err != nil {
		if t.metrics != nil {
			t.metrics.TrainingFailures.Inc()
		}
		log.Error().Err(err).Msg("training pipeline failed")
		return nil, err
	}

	if t.metrics != nil {
		t.metrics.TrainingDuration.Observe(time.Since(start).Seconds())
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("training pipeline completed")
	return report, nil
}

func (t *Trainer) run() (model.Report, error) {
	ingestion := dataset.NewIngestion(dataset.IngestionConfig{
		RawDataPath:     t.settings.RawDataPath,
		RawArtifactPath: t.settings.RawArtifactPath(),
		TrainPath:       t.settings.TrainDataPath(),
		TestPath:        t.settings.TestDataPath(),
		TestSize:        t.settings.TestSize,
		RandomState:     t.settings.RandomState,
	})
	trainPath, testPath, err := ingestion.Run()
	if err != nil {
		return nil, stageErr(StageIngest, err)
	}

	preprocessor := preprocess.NewPreprocessor(preprocess.PreprocessorConfig{
		TransformerPath: t.settings.TransformerPath(),
	})
	xTrain, xTest, yTrain, yTest, err := preprocessor.Run(trainPath, testPath)
	if err != nil {
		return nil, stageErr(StagePreprocess, err)
	}

	candidates := model.DefaultCandidates(t.settings.RandomState)
	evaluator := model.NewEvaluator(t.settings.CVFolds, t.settings.CVParallelism)
	report, err := evaluator.Evaluate(candidates, xTrain, yTrain, xTest, yTest)
	if err != nil {
		return nil, stageErr(StageTrain, err)
	}
	if t.metrics != nil {
		t.metrics.ModelsEvaluated.Add(float64(len(report)))
	}

	winner, err := model.Select(report)
	if err != nil {
		return nil, stageErr(StageTrain, err)
	}

	saved := model.SavedModel{
		Name:     winner.Name,
		Params:   winner.Params,
		Accuracy: winner.Accuracy,
		Model:    winner.Model,
	}
	if err := artifacts.Save(t.settings.ModelPath(), &saved); err != nil {
		return nil, stageErr(StageTrain, err)
	}
	if t.metrics != nil {
		t.metrics.BestModelAccuracy.Set(winner.Accuracy)
	}

	return report, nil
}
