package pipeline

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/David-Botos/catalog-prep/pkg/encoder"
	"github.com/David-Botos/catalog-prep/pkg/model"
)

func finalFrame(overrides map[string]series.Series) dataframe.DataFrame {
	cols := make([]series.Series, 0, len(model.FinalColumns))
	for _, name := range model.FinalColumns {
		if s, ok := overrides[name]; ok {
			cols = append(cols, s)
			continue
		}
		cols = append(cols, series.New([]int{0, 1}, series.Int, name))
	}
	return dataframe.New(cols...)
}

func twoClassEncoders() encoder.Encoders {
	return encoder.Encoders{
		Rating:       encoder.FitLabelEncoder([]string{"PG", "R"}),
		DurationType: encoder.FitLabelEncoder([]string{"Season", "min"}),
	}
}

func TestVerifyPasses(t *testing.T) {
	v := NewVerifier(zaptest.NewLogger(t))

	report, err := v.Verify(finalFrame(nil), twoClassEncoders())
	require.NoError(t, err)
	assert.True(t, report.Passed())
	assert.Equal(t, 2, report.Rows)
	assert.Equal(t, 13, report.Columns)
}

func TestVerifyFindsIssues(t *testing.T) {
	df := finalFrame(map[string]series.Series{
		model.ColContentAge:    series.New([]float64{1, math.NaN()}, series.Float, model.ColContentAge),
		model.ColHasCast:       series.New([]int{0, 2}, series.Int, model.ColHasCast),
		model.ColRatingEncoded: series.New([]int{0, 5}, series.Int, model.ColRatingEncoded),
	})

	report, err := NewVerifier(zaptest.NewLogger(t)).Verify(df, twoClassEncoders())
	require.Error(t, err)
	assert.False(t, report.Passed())

	var verifyErr *VerificationError
	require.True(t, errors.As(err, &verifyErr))
	assert.Equal(t, ErrorCategoryValidation, CategorizeError(err))

	columns := make([]string, 0, len(report.Issues))
	for _, issue := range report.Issues {
		columns = append(columns, issue.Column)
		assert.Equal(t, 1, issue.AffectedRows)
	}
	assert.ElementsMatch(t, []string{model.ColContentAge, model.ColHasCast, model.ColRatingEncoded}, columns)
}

func TestVerifyColumnOrder(t *testing.T) {
	df := finalFrame(nil).Select([]string{model.ColTypeEncoded, model.ColReleaseYear})

	report, err := NewVerifier(nil).Verify(df, twoClassEncoders())
	require.Error(t, err)
	assert.False(t, report.ColumnsMatch)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "structure", report.Issues[0].Check)
}
