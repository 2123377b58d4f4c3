package pipeline

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/David-Botos/catalog-prep/pkg/model"
)

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"nil", nil, ErrorCategoryNone},
		{"load", &model.LoadError{Path: "x.csv", Err: os.ErrNotExist}, ErrorCategoryLoad},
		{"wrapped schema", fmt.Errorf("encoding stage failed: %w", &model.SchemaError{Stage: "encoding", Missing: []string{"rating"}}), ErrorCategorySchema},
		{"parse", &model.ParseError{Column: "date_added", Value: "32/13/2021"}, ErrorCategoryValidation},
		{"output", &OutputError{Path: "out.csv", Err: errors.New("boom")}, ErrorCategoryOutput},
		{"permission", fmt.Errorf("open: %w", os.ErrPermission), ErrorCategoryOutput},
		{"sink", &SinkError{Target: "postgres", Err: errors.New("connection refused")}, ErrorCategorySink},
		{"other", errors.New("something odd"), ErrorCategoryCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CategorizeError(tt.err))
		})
	}
}

func TestErrorRecord(t *testing.T) {
	err := &model.SchemaError{Stage: "scaling", Missing: []string{"num_genres"}}
	record := NewErrorRecord(err).WithRun("run-1").WithStage("scaling")

	assert.Equal(t, ErrorCategorySchema, record.Category)
	assert.Equal(t, "run-1", record.RunID)
	assert.Len(t, record.Fields(), 5)
	assert.Equal(t, "[Schema] Stage: scaling Error: "+err.Error(), record.String())
	assert.Equal(t, "Unknown(42)", ErrorCategory(42).String())
}
