// pkg/pipeline/pipeline.go
package pipeline

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/David-Botos/catalog-prep/pkg/cleaner"
	"github.com/David-Botos/catalog-prep/pkg/encoder"
	"github.com/David-Botos/catalog-prep/pkg/features"
	"github.com/David-Botos/catalog-prep/pkg/loader"
	"github.com/David-Botos/catalog-prep/pkg/model"
	"github.com/David-Botos/catalog-prep/pkg/scaler"
	"github.com/David-Botos/catalog-prep/pkg/selector"
)

// DefaultOutputPath is used when Run is given an empty output path
const DefaultOutputPath = "netflix_titles_processed.csv"

// Stage names used in metrics and error records
const (
	StageLoad     = "load"
	StageClean    = cleaner.Stage
	StageFeatures = features.Stage
	StageEncode   = encoder.Stage
	StageScale    = scaler.Stage
	StageSelect   = selector.Stage
	StageVerify   = "verification"
	StageWrite    = "write"
	stageCount    = 6
)

// PreviewRows is the number of rows shown after a successful run
const PreviewRows = 5

// Pipeline runs the six preprocessing stages over one file, synchronously
type Pipeline struct {
	logger    *zap.Logger
	out       io.Writer
	delimiter rune
	cleaner   *cleaner.DataCleaner
	engineer  *features.Engineer
	verifier  *Verifier
	newRunID  func() string
}

// New creates a pipeline that prints progress to stdout
func New(logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		logger:    logger,
		out:       os.Stdout,
		delimiter: ',',
		cleaner:   cleaner.NewDataCleaner(logger.Named("cleaner")),
		engineer:  features.NewEngineer(logger.Named("features")),
		verifier:  NewVerifier(logger.Named("verifier")),
		newRunID:  func() string { return uuid.New().String() },
	}
}

// WithOutput sets where progress notices and the summary are printed
func (p *Pipeline) WithOutput(w io.Writer) *Pipeline {
	p.out = w
	return p
}

// WithDelimiter sets the field delimiter for both input and output
func (p *Pipeline) WithDelimiter(d rune) *Pipeline {
	if d != 0 {
		p.delimiter = d
	}
	return p
}

// Run is shorthand for New(zap.L()).Run
func Run(inputPath, outputPath string) (*Result, error) {
	return New(zap.L()).Run(inputPath, outputPath)
}

// Run loads inputPath, cleans, engineers, encodes, scales and selects the
// final columns, verifies the table and writes it to outputPath. Nothing is
// written when any step fails.
func (p *Pipeline) Run(inputPath, outputPath string) (*Result, error) {
	if outputPath == "" {
		outputPath = DefaultOutputPath
	}

	runID := p.newRunID()
	logger := p.logger.With(zap.String("run_id", runID))
	result := newResult(runID, inputPath, outputPath)
	metrics := NewRunMetrics(runID, logger)
	result.Metrics = metrics

	fail := func(stage string, err error) (*Result, error) {
		record := NewErrorRecord(err).WithRun(runID).WithStage(stage)
		logger.Error("Pipeline run failed", record.Fields()...)
		return nil, fmt.Errorf("%s stage failed: %w", stage, err)
	}

	p.printf("%s\nPREPROCESSING NETFLIX MOVIES AND TV SHOWS DATASET\n%s\n", rule, rule)

	// [1/6] load
	p.progress(1, "Loading dataset...")
	start := time.Now()
	df, err := loader.LoadCSV(inputPath, logger.Named("loader"), loader.WithDelimiter(p.delimiter))
	if err != nil {
		return fail(StageLoad, err)
	}
	metrics.RecordStage(stageMetrics(StageLoad, df.Nrow(), df, 0, start))
	p.printf("  dataset loaded: %d rows, %d columns\n", df.Nrow(), df.Ncol())

	// [2/6] missing values
	p.progress(2, "Handling missing values...")
	start = time.Now()
	rowsIn := df.Nrow()
	df, rowIDs, cleanOps, err := p.cleaner.HandleMissingValuesWithRows(df, model.RowIdentifiers(df))
	if err != nil {
		return fail(StageClean, err)
	}
	metrics.RecordStage(stageMetrics(StageClean, rowsIn, df, len(cleanOps), start))
	p.printf("  missing values handled: %d rows remaining\n", df.Nrow())

	// [3/6] feature engineering
	p.progress(3, "Engineering features...")
	start = time.Now()
	rowsIn = df.Nrow()
	df, _, featureOps, err := p.engineer.EngineerWithRows(df, rowIDs)
	if err != nil {
		return fail(StageFeatures, err)
	}
	metrics.RecordStage(stageMetrics(StageFeatures, rowsIn, df, len(featureOps), start))
	p.printf("  feature engineering done: %d rows, %d columns\n", df.Nrow(), df.Ncol())

	// [4/6] encoding
	p.progress(4, "Encoding categorical features...")
	start = time.Now()
	df, encoders, err := encoder.EncodeFeatures(df)
	if err != nil {
		return fail(StageEncode, err)
	}
	metrics.RecordStage(stageMetrics(StageEncode, df.Nrow(), df, 0, start))
	p.printf("  encoding done: %d rating classes, %d duration types\n",
		encoders.Rating.Len(), encoders.DurationType.Len())

	// [5/6] scaling
	p.progress(5, "Scaling numeric features...")
	start = time.Now()
	df, fitted, err := scaler.ScaleFeatures(df)
	if err != nil {
		return fail(StageScale, err)
	}
	metrics.RecordStage(stageMetrics(StageScale, df.Nrow(), df, 0, start))
	p.printf("  scaling done: %d columns standardized\n", len(fitted.Columns))

	// [6/6] selection
	p.progress(6, "Selecting final features...")
	start = time.Now()
	df, err = selector.SelectFinalFeatures(df)
	if err != nil {
		return fail(StageSelect, err)
	}
	metrics.RecordStage(stageMetrics(StageSelect, df.Nrow(), df, 0, start))
	p.printf("  feature selection done: %d columns\n", df.Ncol())

	report, err := p.verifier.Verify(df, encoders)
	result.Verification = report
	if err != nil {
		return fail(StageVerify, err)
	}

	if err := writeCSV(df, outputPath, p.delimiter); err != nil {
		return fail(StageWrite, err)
	}
	p.printf("\nDataset saved to: %s\n", outputPath)

	summary, err := Summarize(df)
	if err != nil {
		return fail(StageWrite, err)
	}

	result.Frame = df
	result.Encoders = encoders
	result.Scaler = fitted
	result.Operations = model.StampRun(append(cleanOps, featureOps...), runID)
	result.Summary = summary
	result.Complete()

	for _, c := range result.OperationCounts() {
		logger.Info("Cleaning operations",
			zap.String("operation", c.Operation),
			zap.String("column", c.Column),
			zap.Int("count", c.Count))
	}

	if err := summary.Write(p.out); err != nil {
		logger.Warn("Failed to print summary", zap.Error(err))
	}

	logger.Info("Pipeline run succeeded",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
		zap.Int("rows", df.Nrow()),
		zap.Int("operations", len(result.Operations)),
		zap.Duration("duration", result.Duration))

	return result, nil
}

func stageMetrics(stage string, rowsIn int, df dataframe.DataFrame, ops int, start time.Time) StageMetrics {
	return StageMetrics{
		Stage:      stage,
		RowsIn:     rowsIn,
		RowsOut:    df.Nrow(),
		Columns:    df.Ncol(),
		Operations: ops,
		Duration:   time.Since(start),
	}
}

func (p *Pipeline) progress(step int, description string) {
	p.printf("\n[%d/%d] %s\n", step, stageCount, description)
}

func (p *Pipeline) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format, args...)
}
