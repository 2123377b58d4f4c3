package pipeline

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/David-Botos/catalog-prep/pkg/model"
)

// ErrorCategory classifies a pipeline failure for logging and exit handling
type ErrorCategory int

const (
	ErrorCategoryNone ErrorCategory = iota
	ErrorCategoryLoad
	ErrorCategorySchema
	ErrorCategoryValidation
	ErrorCategoryOutput
	ErrorCategorySink
	ErrorCategoryCritical
)

// String returns a string representation of the error category
func (ec ErrorCategory) String() string {
	switch ec {
	case ErrorCategoryNone:
		return "None"
	case ErrorCategoryLoad:
		return "Load"
	case ErrorCategorySchema:
		return "Schema"
	case ErrorCategoryValidation:
		return "Validation"
	case ErrorCategoryOutput:
		return "Output"
	case ErrorCategorySink:
		return "Sink"
	case ErrorCategoryCritical:
		return "Critical"
	default:
		return fmt.Sprintf("Unknown(%d)", ec)
	}
}

// OutputError reports a failure to persist the final table
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("failed to write %q: %v", e.Path, e.Err)
}

func (e *OutputError) Unwrap() error { return e.Err }

// SinkError reports a failure to publish the final table to a database
type SinkError struct {
	Target string
	Err    error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("failed to publish to %s: %v", e.Target, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// CategorizeError determines the category of an error
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ErrorCategoryNone
	}

	var (
		loadErr   *model.LoadError
		schemaErr *model.SchemaError
		parseErr  *model.ParseError
		verifyErr *VerificationError
		outputErr *OutputError
		sinkErr   *SinkError
	)

	switch {
	case errors.As(err, &sinkErr):
		return ErrorCategorySink
	case errors.As(err, &loadErr):
		return ErrorCategoryLoad
	case errors.As(err, &schemaErr):
		return ErrorCategorySchema
	case errors.As(err, &verifyErr), errors.As(err, &parseErr):
		return ErrorCategoryValidation
	case errors.As(err, &outputErr):
		return ErrorCategoryOutput
	}

	// Untyped errors from the filesystem still belong to the output step
	msg := err.Error()
	switch {
	case errors.Is(err, os.ErrPermission),
		strings.Contains(msg, "no space left"),
		strings.Contains(msg, "read-only file system"):
		return ErrorCategoryOutput
	default:
		return ErrorCategoryCritical
	}
}

// ErrorRecord describes a failed run for structured logging
type ErrorRecord struct {
	Category  ErrorCategory
	RunID     string
	Stage     string
	Error     error
	Message   string // Derived from Error but stored for serialization
	Timestamp time.Time
}

// NewErrorRecord creates a new error record with current timestamp
func NewErrorRecord(err error) ErrorRecord {
	record := ErrorRecord{
		Category:  CategorizeError(err),
		Error:     err,
		Timestamp: time.Now(),
	}
	if err != nil {
		record.Message = err.Error()
	}
	return record
}

// WithRun adds the run ID to the error record
func (r ErrorRecord) WithRun(runID string) ErrorRecord {
	r.RunID = runID
	return r
}

// WithStage adds the failing stage to the error record
func (r ErrorRecord) WithStage(stage string) ErrorRecord {
	r.Stage = stage
	return r
}

// Fields returns the record as zap fields
func (r ErrorRecord) Fields() []zap.Field {
	return []zap.Field{
		zap.String("category", r.Category.String()),
		zap.String("run_id", r.RunID),
		zap.String("stage", r.Stage),
		zap.Time("timestamp", r.Timestamp),
		zap.Error(r.Error),
	}
}

// String returns a formatted error message
func (r ErrorRecord) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] ", r.Category))
	if r.Stage != "" {
		sb.WriteString(fmt.Sprintf("Stage: %s ", r.Stage))
	}
	sb.WriteString(fmt.Sprintf("Error: %s", r.Message))
	return sb.String()
}
