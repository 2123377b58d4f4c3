package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/David-Botos/catalog-prep/pkg/config"
	"github.com/David-Botos/catalog-prep/pkg/connector"
	"github.com/David-Botos/catalog-prep/pkg/logger"
	"github.com/David-Botos/catalog-prep/pkg/pipeline"
	"github.com/David-Botos/catalog-prep/pkg/sink"
)

// Exit codes by failure category
var exitCodes = map[pipeline.ErrorCategory]int{
	pipeline.ErrorCategoryLoad:       2,
	pipeline.ErrorCategorySchema:     3,
	pipeline.ErrorCategoryValidation: 4,
	pipeline.ErrorCategoryOutput:     5,
	pipeline.ErrorCategorySink:       6,
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: .env file not found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	fs := flag.NewFlagSet("preprocess", flag.ContinueOnError)
	input := fs.String("input", cfg.InputPath, "path to the raw catalog file")
	output := fs.String("output", cfg.OutputPath, "path for the processed file (default "+pipeline.DefaultOutputPath+")")
	delimiter := fs.String("delimiter", string(cfg.Delimiter), `field delimiter, a single character or \t`)
	metricsOut := fs.String("metrics-out", "", "optional path for the run metrics as JSON")
	publish := fs.Bool("publish", cfg.Sink.Enabled(), "publish the processed table to the configured SINK_DRIVER; an optional extra outside the core file-in/file-out contract")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *input == "" && fs.NArg() > 0 {
		*input = fs.Arg(0)
	}
	if *input == "" {
		fmt.Fprintln(os.Stderr, "an input file is required (-input or PREP_INPUT_PATH)")
		fs.Usage()
		return 1
	}

	delim, err := config.ParseDelimiter(*delimiter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid delimiter: %v\n", err)
		return 1
	}

	zapLogger := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer zapLogger.Sync()
	zap.ReplaceGlobals(zapLogger)

	if *publish && !cfg.Sink.Enabled() {
		zapLogger.Error("Publishing requested but SINK_DRIVER is not set",
			zap.String("driver", cfg.Sink.Driver))
		return 1
	}

	result, err := pipeline.New(zapLogger).WithDelimiter(delim).Run(*input, *output)
	if err != nil {
		return exitCode(zapLogger, err)
	}

	if err := pipeline.WritePreview(os.Stdout, result.Frame, pipeline.PreviewRows); err != nil {
		zapLogger.Warn("Failed to print preview", zap.Error(err))
	}
	zapLogger.Debug("Run metrics", zap.String("report", result.Metrics.GenerateReport()))

	if *metricsOut != "" {
		if err := writeMetrics(*metricsOut, result.Metrics); err != nil {
			zapLogger.Warn("Failed to write run metrics", zap.String("path", *metricsOut), zap.Error(err))
		}
	}

	if *publish {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := publishResult(ctx, cfg.Sink, result, zapLogger); err != nil {
			return exitCode(zapLogger, &pipeline.SinkError{Target: cfg.Sink.Driver, Err: err})
		}
	}

	zapLogger.Info("Preprocessing complete",
		zap.String("run_id", result.RunID),
		zap.String("output", result.OutputPath),
		zap.Duration("duration", result.Duration))
	return 0
}

// publishResult sends the final frame and its cleaning audit to the sink database
func publishResult(ctx context.Context, cfg *config.SinkConfig, result *pipeline.Result, log *zap.Logger) error {
	conn, err := connector.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.Validate(ctx); err != nil {
		return err
	}

	_, err = sink.NewPublisher(conn, cfg, log).Publish(ctx, result.RunID, result.Frame, result.Operations)
	return err
}

func writeMetrics(path string, metrics *pipeline.RunMetrics) error {
	data, err := metrics.ToJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func exitCode(log *zap.Logger, err error) int {
	record := pipeline.NewErrorRecord(err)
	log.Error("Preprocessing failed", record.Fields()...)
	fmt.Fprintln(os.Stderr, record.String())

	if errors.Is(err, context.Canceled) {
		return 130
	}
	if code, ok := exitCodes[record.Category]; ok {
		return code
	}
	return 1
}
