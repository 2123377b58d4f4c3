package encoder

import (
	"errors"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David-Botos/catalog-prep/pkg/model"
)

func engineeredFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New([]string{"Movie", "TV Show", "Movie", "TV Show", "NaN"}, series.String, model.ColType),
		series.New([]string{"TV-MA", "PG-13", "R", "TV-MA", "G"}, series.String, model.ColRating),
		series.New([]string{"min", "Season", "NaN", "Season", "min"}, series.String, model.ColDurationType),
	)
}

func TestEncodeFeatures(t *testing.T) {
	in := engineeredFrame()

	out, encoders, err := EncodeFeatures(in)
	require.NoError(t, err)

	typeCodes, err := out.Col(model.ColTypeEncoded).Int()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 1, 0, 0}, typeCodes)

	assert.Equal(t, []string{"G", "PG-13", "R", "TV-MA"}, encoders.Rating.Classes)
	ratingCodes, err := out.Col(model.ColRatingEncoded).Int()
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2, 3, 0}, ratingCodes)

	// Absent duration_type becomes its own class
	assert.Equal(t, []string{"Season", model.Unknown, "min"}, encoders.DurationType.Classes)
	durationCodes, err := out.Col(model.ColDurationTypeEncoded).Int()
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 1, 0, 2}, durationCodes)

	for i, code := range durationCodes {
		assert.True(t, code >= 0 && code < encoders.DurationType.Len(), "row %d", i)
	}

	// The input frame does not gain columns
	assert.Equal(t, 3, in.Ncol())
	assert.Equal(t, 6, out.Ncol())
}

func TestEncodeFeaturesRatingRoundTrip(t *testing.T) {
	in := engineeredFrame()
	out, encoders, err := EncodeFeatures(in)
	require.NoError(t, err)

	codes, err := out.Col(model.ColRatingEncoded).Int()
	require.NoError(t, err)

	decoded, err := encoders.Rating.InverseTransform(codes)
	require.NoError(t, err)
	assert.Equal(t, in.Col(model.ColRating).Records(), decoded)
}

func TestEncodeFeaturesSchemaError(t *testing.T) {
	df := engineeredFrame().Drop(model.ColDurationType)

	_, _, err := EncodeFeatures(df)

	var schemaErr *model.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{model.ColDurationType}, schemaErr.Missing)
}

func TestLabelEncoder(t *testing.T) {
	enc := FitLabelEncoder([]string{"b", "a", "c", "a"})
	assert.Equal(t, 3, enc.Len())
	assert.Equal(t, map[string]int{"a": 0, "b": 1, "c": 2}, enc.ClassToInt)

	codes, err := enc.Transform([]string{"c", "a"})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0}, codes)

	_, err = enc.Transform([]string{"d"})
	assert.Error(t, err, "unseen labels are rejected, not refit")
	assert.Equal(t, 3, enc.Len())

	_, err = enc.InverseTransform([]int{3})
	assert.Error(t, err)
	_, err = enc.InverseTransform([]int{-1})
	assert.Error(t, err)
}
