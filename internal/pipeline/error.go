package pipeline

import "fmt"

// Stage names, in execution order.
const (
	StageIngest     = "ingest"
	StagePreprocess = "preprocess"
	StageTrain      = "train"
)

// StageError wraps a failure with the pipeline stage it originated in. The
// orchestrator never recovers locally; the wrapped error propagates to the
// caller with errors.Is/errors.As support intact.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
