// pkg/encoder/encoder.go
package encoder

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/David-Botos/catalog-prep/pkg/model"
)

// Stage names the encoding step in schema errors
const Stage = "encoding"

// MovieType is the type value encoded as 1, every other type is 0
const MovieType = "Movie"

// Encoders holds the label encoders fitted during EncodeFeatures
type Encoders struct {
	Rating       LabelEncoder `json:"rating"`
	DurationType LabelEncoder `json:"duration_type"`
}

// EncodeFeatures appends type_encoded, rating_encoded and
// duration_type_encoded. Absent rating or duration_type values are encoded as
// the "Unknown" class.
func EncodeFeatures(df dataframe.DataFrame) (dataframe.DataFrame, Encoders, error) {
	if df.Err != nil {
		return dataframe.DataFrame{}, Encoders{}, fmt.Errorf("invalid input frame: %w", df.Err)
	}
	if err := model.RequireColumns(df, Stage, model.ColType, model.ColRating, model.ColDurationType); err != nil {
		return dataframe.DataFrame{}, Encoders{}, err
	}

	var encoders Encoders
	out := df.Mutate(series.New(typeFlags(df.Col(model.ColType)), series.Int, model.ColTypeEncoded))

	ratings := labelsOf(df.Col(model.ColRating))
	encoders.Rating = FitLabelEncoder(ratings)
	ratingCodes, err := encoders.Rating.Transform(ratings)
	if err != nil {
		return dataframe.DataFrame{}, Encoders{}, fmt.Errorf("failed to encode %s: %w", model.ColRating, err)
	}
	out = out.Mutate(series.New(ratingCodes, series.Int, model.ColRatingEncoded))

	durationTypes := labelsOf(df.Col(model.ColDurationType))
	encoders.DurationType = FitLabelEncoder(durationTypes)
	durationCodes, err := encoders.DurationType.Transform(durationTypes)
	if err != nil {
		return dataframe.DataFrame{}, Encoders{}, fmt.Errorf("failed to encode %s: %w", model.ColDurationType, err)
	}
	out = out.Mutate(series.New(durationCodes, series.Int, model.ColDurationTypeEncoded))

	if out.Err != nil {
		return dataframe.DataFrame{}, Encoders{}, fmt.Errorf("failed to add encoded columns: %w", out.Err)
	}
	return out, encoders, nil
}

func typeFlags(col series.Series) []int {
	flags := make([]int, col.Len())
	for i := range flags {
		if elem := col.Elem(i); !elem.IsNA() && elem.String() == MovieType {
			flags[i] = 1
		}
	}
	return flags
}

func labelsOf(col series.Series) []string {
	labels := make([]string, col.Len())
	for i := range labels {
		elem := col.Elem(i)
		if elem.IsNA() {
			labels[i] = model.Unknown
			continue
		}
		labels[i] = elem.String()
	}
	return labels
}
