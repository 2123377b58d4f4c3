package pipeline

import (
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/David-Botos/catalog-prep/pkg/encoder"
	"github.com/David-Botos/catalog-prep/pkg/model"
	"github.com/David-Botos/catalog-prep/pkg/scaler"
)

// Result represents the outcome of a pipeline run
type Result struct {
	RunID      string
	InputPath  string
	OutputPath string

	Frame        dataframe.DataFrame // Final 13-column table
	Encoders     encoder.Encoders
	Scaler       scaler.StandardScaler
	Operations   []model.CleaningOperation
	Metrics      *RunMetrics
	Verification *VerificationReport
	Summary      Summary

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// newResult initializes a result for a run
func newResult(runID, inputPath, outputPath string) *Result {
	return &Result{
		RunID:      runID,
		InputPath:  inputPath,
		OutputPath: outputPath,
		StartTime:  time.Now(),
	}
}

// Complete marks the run as complete and calculates duration
func (r *Result) Complete() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
	if r.Metrics != nil {
		r.Metrics.Complete()
	}
}

// OperationCounts groups the cleaning operations by kind and column
func (r *Result) OperationCounts() []model.OperationCount {
	return model.CountOperations(r.Operations)
}
