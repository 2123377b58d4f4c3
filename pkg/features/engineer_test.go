package features

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/David-Botos/catalog-prep/pkg/model"
)

func cleanedFrame(t *testing.T) dataframe.DataFrame {
	t.Helper()
	df := dataframe.New(
		series.New([]string{"s1", "s2", "s3", "s4"}, series.String, model.ColShowID),
		series.New([]string{"Movie", "TV Show", "Movie", "Movie"}, series.String, model.ColType),
		series.New([]string{"Kirsten Johnson", model.Unknown, "Rajiv Menon", model.Unknown}, series.String, model.ColDirector),
		series.New([]string{model.Unknown, "Ama Qamata, Khosi Ngema", "Tabu", "Someone"}, series.String, model.ColCast),
		series.New([]string{"United States", model.Unknown, "India, USA", "France"}, series.String, model.ColCountry),
		series.New([]string{"September 25, 2021", " September 24, 2021", "2019-01-05", "32/13/2021"}, series.String, model.ColDateAdded),
		series.New([]float64{2020, 2021, 2022, 2018}, series.Float, model.ColReleaseYear),
		series.New([]string{"PG-13", "TV-MA", "TV-14", "R"}, series.String, model.ColRating),
		series.New([]string{"90 min", "2 Seasons", model.Unknown, "100 min"}, series.String, model.ColDuration),
		series.New([]string{"Documentaries", "International TV Shows, TV Dramas, TV Mysteries", "Dramas, Music", "Dramas"}, series.String, model.ColListedIn),
		series.New([]string{"A documentary.", "Très bien", "", "x"}, series.String, model.ColDescription),
	)
	require.NoError(t, df.Err)
	return df
}

func TestEngineer(t *testing.T) {
	e := NewEngineer(zaptest.NewLogger(t))

	out, ops, err := e.Engineer(cleanedFrame(t))
	require.NoError(t, err)

	// s4 has an impossible date
	require.Equal(t, 3, out.Nrow())
	assert.Equal(t, []string{"s1", "s2", "s3"}, out.Col(model.ColShowID).Records())
	require.Len(t, ops, 1)
	assert.Equal(t, model.OpRowDrop, ops[0].CleaningOperation)
	assert.Equal(t, model.ReasonUnparseableDateAdded, ops[0].CleaningReason)
	assert.Equal(t, "s4", ops[0].RowIdentifier)
	assert.Equal(t, "32/13/2021", ops[0].OriginalValue)

	assert.Equal(t, []string{"2021-09-25", "2021-09-24", "2019-01-05"}, out.Col(model.ColDateAdded).Records())

	durationValue := out.Col(model.ColDurationValue).Float()
	assert.Equal(t, 90.0, durationValue[0])
	assert.Equal(t, 2.0, durationValue[1])
	assert.True(t, math.IsNaN(durationValue[2]))

	durationType := out.Col(model.ColDurationType)
	assert.Equal(t, "min", durationType.Elem(0).String())
	assert.Equal(t, "Season", durationType.Elem(1).String())
	assert.True(t, durationType.Elem(2).IsNA())

	years, err := out.Col(model.ColYearAdded).Int()
	require.NoError(t, err)
	assert.Equal(t, []int{2021, 2021, 2019}, years)

	months, err := out.Col(model.ColMonthAdded).Int()
	require.NoError(t, err)
	assert.Equal(t, []int{9, 9, 1}, months)

	// Added before release is kept negative
	assert.Equal(t, []float64{1, 0, -3}, out.Col(model.ColContentAge).Float())

	assertInts(t, out, model.ColNumGenres, 1, 3, 2)
	assertInts(t, out, model.ColNumCountries, 1, 0, 2)
	assertInts(t, out, model.ColHasDirector, 1, 0, 1)
	assertInts(t, out, model.ColHasCast, 0, 1, 1)
	assertInts(t, out, model.ColDescriptionLength, 14, 9, 0)

	// Original columns survive alongside the derived ones
	assert.Equal(t, 11+10, out.Ncol())
}

func assertInts(t *testing.T, df dataframe.DataFrame, column string, want ...int) {
	t.Helper()
	got, err := df.Col(column).Int()
	require.NoError(t, err, column)
	assert.Equal(t, want, got, column)
}

func TestEngineerNaNReleaseYear(t *testing.T) {
	df := cleanedFrame(t).Mutate(
		series.New([]float64{math.NaN(), 2021, 2022, 2018}, series.Float, model.ColReleaseYear),
	)

	out, _, err := NewEngineer(nil).Engineer(df)
	require.NoError(t, err)

	age := out.Col(model.ColContentAge).Float()
	assert.True(t, math.IsNaN(age[0]))
	assert.Equal(t, 0.0, age[1])
}

func TestEngineerSchemaError(t *testing.T) {
	df := cleanedFrame(t).Drop(model.ColListedIn)

	_, _, err := NewEngineer(zaptest.NewLogger(t)).Engineer(df)

	var schemaErr *model.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{model.ColListedIn}, schemaErr.Missing)
}

func TestDurations(t *testing.T) {
	col := series.New([]string{"90 min", "1 Season", "Unknown", "NaN", "min"}, series.String, model.ColDuration)

	values, units := durations(col)

	assert.Equal(t, 90.0, values[0])
	assert.Equal(t, 1.0, values[1])
	assert.True(t, math.IsNaN(values[2]))
	assert.True(t, math.IsNaN(values[3]))
	assert.True(t, math.IsNaN(values[4]))

	assert.Equal(t, []string{"min", "Season", "NaN", "NaN", "min"}, units.Records())
}

func TestCountCountries(t *testing.T) {
	col := series.New([]string{model.Unknown, "India, USA", "Spain", "NaN"}, series.String, model.ColCountry)
	assert.Equal(t, []int{0, 2, 1, 0}, countCountries(col))
}

func TestEngineerWithRowsKeepsInputIdentifiers(t *testing.T) {
	e := NewEngineer(zaptest.NewLogger(t))

	// Identifiers from an earlier stage that dropped input rows 1, 4 and 6
	ids := []string{"row:2", "row:3", "row:5", "row:7"}
	out, kept, ops, err := e.EngineerWithRows(cleanedFrame(t), ids)
	require.NoError(t, err)

	assert.Equal(t, 3, out.Nrow())
	assert.Equal(t, []string{"row:2", "row:3", "row:5"}, kept)
	require.Len(t, ops, 1)
	assert.Equal(t, "row:7", ops[0].RowIdentifier)

	_, _, _, err = e.EngineerWithRows(cleanedFrame(t), ids[:2])
	assert.Error(t, err)
}

func TestEngineerDropsEveryRow(t *testing.T) {
	e := NewEngineer(zaptest.NewLogger(t))
	df := dataframe.New(
		series.New([]string{"Dir", model.Unknown}, series.String, model.ColDirector),
		series.New([]string{"Cast", model.Unknown}, series.String, model.ColCast),
		series.New([]string{"France", model.Unknown}, series.String, model.ColCountry),
		series.New([]string{"junk", "32/13/2021"}, series.String, model.ColDateAdded),
		series.New([]float64{2020, 2021}, series.Float, model.ColReleaseYear),
		series.New([]string{"90 min", "1 Season"}, series.String, model.ColDuration),
		series.New([]string{"Dramas", "Comedies"}, series.String, model.ColListedIn),
		series.New([]string{"a", "b"}, series.String, model.ColDescription),
	)
	require.NoError(t, df.Err)

	out, ops, err := e.Engineer(df)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Nrow())
	assert.Len(t, ops, 2)
	assert.Equal(t, []string{"row:1", "row:2"}, []string{ops[0].RowIdentifier, ops[1].RowIdentifier})

	// Derived columns still exist, just empty
	for _, name := range []string{model.ColDurationValue, model.ColYearAdded, model.ColContentAge, model.ColDescriptionLength} {
		assert.Equal(t, 0, out.Col(name).Len(), name)
	}
}
