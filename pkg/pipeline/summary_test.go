package pipeline

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/David-Botos/catalog-prep/pkg/model"
)

func TestSummary(t *testing.T) {
	df := dataframe.New(
		series.New([]float64{0.1, 0.2, 0.3}, series.Float, model.ColReleaseYear),
		series.New([]int{1, 1, 0}, series.Int, model.ColTypeEncoded),
	)

	s, err := Summarize(df)
	require.NoError(t, err)
	assert.Equal(t, Summary{Samples: 3, Features: 1, Movies: 2, TVShows: 1}, s)

	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))
	assert.Contains(t, buf.String(), "Movie (1): 2 (66.67%)")
	assert.Contains(t, buf.String(), "TV Show (0): 1 (33.33%)")
}

func TestSummaryEmptyTable(t *testing.T) {
	s := Summary{}
	assert.Equal(t, 0.0, s.MoviePercent())
	assert.Equal(t, 0.0, s.TVShowPercent())
}

func TestWritePreview(t *testing.T) {
	values := make([]int, 8)
	df := dataframe.New(series.New(values, series.Int, model.ColTypeEncoded))

	var buf bytes.Buffer
	require.NoError(t, WritePreview(&buf, df, PreviewRows))
	assert.True(t, strings.HasPrefix(buf.String(), "\nSample data (first 5 rows):\n"))
	assert.Contains(t, buf.String(), "[5x1] DataFrame")
}

func TestRunMetrics(t *testing.T) {
	m := NewRunMetrics("run-1", zaptest.NewLogger(t))
	m.RecordStage(StageMetrics{Stage: StageClean, RowsIn: 10, RowsOut: 8, Columns: 12, Operations: 5, Duration: time.Millisecond})
	m.RecordStage(StageMetrics{Stage: StageFeatures, RowsIn: 8, RowsOut: 7, Columns: 22, Operations: 1})
	m.Complete()

	assert.Equal(t, 3, m.RowsDropped())
	assert.Equal(t, 6, m.Operations())
	assert.False(t, m.EndTime.IsZero())
	assert.Contains(t, m.GenerateReport(), StageFeatures)

	_, ok := m.Stage(StageScale)
	assert.False(t, ok)

	data, err := m.ToJSON()
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "run-1", decoded["runId"])
	assert.Equal(t, float64(3), decoded["rowsDropped"])
}
