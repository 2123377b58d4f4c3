package model

import (
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Raw catalog columns
const (
	ColShowID      = "show_id"
	ColType        = "type"
	ColDirector    = "director"
	ColCast        = "cast"
	ColCountry     = "country"
	ColDateAdded   = "date_added"
	ColReleaseYear = "release_year"
	ColRating      = "rating"
	ColDuration    = "duration"
	ColListedIn    = "listed_in"
	ColDescription = "description"
)

// Derived columns
const (
	ColDurationValue       = "duration_value"
	ColDurationType        = "duration_type"
	ColYearAdded           = "year_added"
	ColMonthAdded          = "month_added"
	ColContentAge          = "content_age"
	ColNumGenres           = "num_genres"
	ColNumCountries        = "num_countries"
	ColHasDirector         = "has_director"
	ColHasCast             = "has_cast"
	ColDescriptionLength   = "description_length"
	ColTypeEncoded         = "type_encoded"
	ColRatingEncoded       = "rating_encoded"
	ColDurationTypeEncoded = "duration_type_encoded"
)

// Unknown is the sentinel written in place of absent text values
const Unknown = "Unknown"

// TargetColumn is the label column of the final table
const TargetColumn = ColTypeEncoded

// TextColumns are loaded as strings regardless of their content
var TextColumns = []string{
	ColShowID, ColType, ColDirector, ColCast, ColCountry, ColDateAdded,
	ColRating, ColDuration, ColListedIn, ColDescription,
}

// ScaledColumns are standardized by the scaler
var ScaledColumns = []string{
	ColReleaseYear, ColYearAdded, ColMonthAdded, ColContentAge,
	ColNumGenres, ColNumCountries, ColDescriptionLength, ColDurationValue,
}

// FinalColumns is the exact column list, in order, of the pipeline output
var FinalColumns = []string{
	ColReleaseYear, ColRatingEncoded, ColDurationValue, ColDurationTypeEncoded,
	ColYearAdded, ColMonthAdded, ColContentAge, ColNumGenres, ColNumCountries,
	ColHasDirector, ColHasCast, ColDescriptionLength, ColTypeEncoded,
}

// RequireColumns returns a *SchemaError naming every required column df lacks
func RequireColumns(df dataframe.DataFrame, stage string, required ...string) error {
	present := make(map[string]struct{}, df.Ncol())
	for _, name := range df.Names() {
		present[name] = struct{}{}
	}

	var missing []string
	for _, name := range required {
		if _, ok := present[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Stage: stage, Missing: missing}
	}
	return nil
}

// RowIdentifiers returns a stable identifier per row: show_id when the
// column exists and the value is present, otherwise the 1-based row number.
func RowIdentifiers(df dataframe.DataFrame) []string {
	ids := make([]string, df.Nrow())
	var showIDs series.Series
	hasShowID := hasColumn(df, ColShowID)
	if hasShowID {
		showIDs = df.Col(ColShowID)
	}
	for i := range ids {
		if hasShowID && !showIDs.Elem(i).IsNA() {
			ids[i] = showIDs.Elem(i).String()
			continue
		}
		ids[i] = "row:" + strconv.Itoa(i+1)
	}
	return ids
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}
