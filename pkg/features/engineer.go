// pkg/features/engineer.go
package features

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"go.uber.org/zap"

	"github.com/David-Botos/catalog-prep/pkg/model"
)

// Stage is the name recorded on operations produced by this package
const Stage = "feature_engineering"

var (
	durationValuePattern = regexp.MustCompile(`\d+`)
	durationTypePattern  = regexp.MustCompile(`min|Season`)
)

// Engineer derives the numeric and flag columns from a cleaned catalog frame
type Engineer struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewEngineer creates a new Engineer
func NewEngineer(logger *zap.Logger) *Engineer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engineer{logger: logger, now: time.Now}
}

// Engineer parses date_added, drops the rows whose date cannot be parsed and
// appends duration_value, duration_type, year_added, month_added,
// content_age, num_genres, num_countries, has_director, has_cast and
// description_length. date_added is rewritten as YYYY-MM-DD.
func (e *Engineer) Engineer(df dataframe.DataFrame) (dataframe.DataFrame, []model.CleaningOperation, error) {
	out, _, operations, err := e.EngineerWithRows(df, model.RowIdentifiers(df))
	return out, operations, err
}

// EngineerWithRows is Engineer for a frame whose rows are identified by
// rowIDs, typically the identifiers kept by the missing-value handler. Row
// drops are recorded under those identifiers and the kept ones are returned.
func (e *Engineer) EngineerWithRows(
	df dataframe.DataFrame,
	rowIDs []string,
) (dataframe.DataFrame, []string, []model.CleaningOperation, error) {
	if df.Err != nil {
		return dataframe.DataFrame{}, nil, nil, fmt.Errorf("invalid input frame: %w", df.Err)
	}
	if len(rowIDs) != df.Nrow() {
		return dataframe.DataFrame{}, nil, nil, fmt.Errorf("got %d row identifiers for %d rows", len(rowIDs), df.Nrow())
	}
	if err := model.RequireColumns(df, Stage,
		model.ColDuration, model.ColDateAdded, model.ColReleaseYear, model.ColListedIn,
		model.ColCountry, model.ColDirector, model.ColCast, model.ColDescription,
	); err != nil {
		return dataframe.DataFrame{}, nil, nil, err
	}

	out, dates, keptIDs, operations := e.parseDates(df, rowIDs)
	if out.Err != nil {
		return dataframe.DataFrame{}, nil, nil, fmt.Errorf("failed to drop unparseable dates: %w", out.Err)
	}

	isoDates := make([]string, len(dates))
	yearAdded := make([]int, len(dates))
	monthAdded := make([]int, len(dates))
	for i, d := range dates {
		isoDates[i] = d.Format(DateLayout)
		yearAdded[i] = d.Year()
		monthAdded[i] = int(d.Month())
	}

	durationValue, durationType := durations(out.Col(model.ColDuration))
	releaseYear := out.Col(model.ColReleaseYear).Float()

	contentAge := make([]float64, len(dates))
	for i := range contentAge {
		// NaN release years propagate
		contentAge[i] = float64(yearAdded[i]) - releaseYear[i]
	}

	derived := []series.Series{
		series.New(isoDates, series.String, model.ColDateAdded),
		series.New(durationValue, series.Float, model.ColDurationValue),
		durationType,
		series.New(yearAdded, series.Int, model.ColYearAdded),
		series.New(monthAdded, series.Int, model.ColMonthAdded),
		series.New(contentAge, series.Float, model.ColContentAge),
		series.New(countGenres(out.Col(model.ColListedIn)), series.Int, model.ColNumGenres),
		series.New(countCountries(out.Col(model.ColCountry)), series.Int, model.ColNumCountries),
		series.New(knownFlags(out.Col(model.ColDirector)), series.Int, model.ColHasDirector),
		series.New(knownFlags(out.Col(model.ColCast)), series.Int, model.ColHasCast),
		series.New(textLengths(out.Col(model.ColDescription)), series.Int, model.ColDescriptionLength),
	}
	for _, s := range derived {
		out = out.Mutate(s)
		if out.Err != nil {
			return dataframe.DataFrame{}, nil, nil, fmt.Errorf("failed to add %s: %w", s.Name, out.Err)
		}
	}

	e.logger.Info("Engineered features",
		zap.Int("rows_in", df.Nrow()),
		zap.Int("rows_out", out.Nrow()),
		zap.Int("columns", out.Ncol()),
		zap.Int("unparseable_dates", len(operations)))

	return out, keptIDs, operations, nil
}

// parseDates returns df without the rows whose date_added does not parse, the
// parsed dates and identifiers of the surviving rows and one row_drop
// operation per removed row
func (e *Engineer) parseDates(
	df dataframe.DataFrame,
	rowIDs []string,
) (dataframe.DataFrame, []time.Time, []string, []model.CleaningOperation) {
	col := df.Col(model.ColDateAdded)
	cleanedAt := e.now()

	keep := make([]int, 0, col.Len())
	keptIDs := make([]string, 0, col.Len())
	dates := make([]time.Time, 0, col.Len())
	var operations []model.CleaningOperation

	for i := 0; i < col.Len(); i++ {
		elem := col.Elem(i)
		var raw interface{}
		var err error
		if elem.IsNA() {
			err = errEmptyDate
		} else {
			raw = elem.String()
			var t time.Time
			if t, err = ParseDate(elem.String()); err == nil {
				keep = append(keep, i)
				keptIDs = append(keptIDs, rowIDs[i])
				dates = append(dates, t)
				continue
			}
		}

		parseErr := &model.ParseError{
			Column:        model.ColDateAdded,
			Value:         fmt.Sprint(raw),
			RowIdentifier: rowIDs[i],
			Err:           err,
		}
		e.logger.Debug("Dropping row with unparseable date", zap.Error(parseErr))

		operations = append(operations, model.CleaningOperation{
			Stage:             Stage,
			ColumnName:        model.ColDateAdded,
			OriginalValue:     raw,
			RowIdentifier:     rowIDs[i],
			CleaningOperation: model.OpRowDrop,
			CleaningReason:    model.ReasonUnparseableDateAdded,
			CleanedAt:         cleanedAt,
		})
	}

	if len(operations) == 0 {
		return df, dates, keptIDs, nil
	}
	return df.Subset(keep), dates, keptIDs, operations
}

// durations splits duration text like "90 min" or "2 Seasons" into its first
// number and its unit. Either part is absent when the text has none.
func durations(col series.Series) ([]float64, series.Series) {
	values := make([]float64, col.Len())
	units := make([]string, col.Len())
	for i := 0; i < col.Len(); i++ {
		values[i] = math.NaN()
		units[i] = "NaN"

		elem := col.Elem(i)
		if elem.IsNA() {
			continue
		}
		text := elem.String()

		if digits := durationValuePattern.FindString(text); digits != "" {
			if v, err := strconv.ParseFloat(digits, 64); err == nil {
				values[i] = v
			}
		}
		if unit := durationTypePattern.FindString(text); unit != "" {
			units[i] = unit
		}
	}
	return values, series.New(units, series.String, model.ColDurationType)
}

// countGenres counts comma separated entries; absent text counts as one
func countGenres(col series.Series) []int {
	counts := make([]int, col.Len())
	for i := range counts {
		counts[i] = 1
		if elem := col.Elem(i); !elem.IsNA() {
			counts[i] = strings.Count(elem.String(), ",") + 1
		}
	}
	return counts
}

// countCountries counts ", " separated entries, zero for Unknown
func countCountries(col series.Series) []int {
	counts := make([]int, col.Len())
	for i := range counts {
		elem := col.Elem(i)
		if elem.IsNA() || elem.String() == model.Unknown {
			continue
		}
		counts[i] = len(strings.Split(elem.String(), ", "))
	}
	return counts
}

// knownFlags is 1 where the value is present and not Unknown
func knownFlags(col series.Series) []int {
	flags := make([]int, col.Len())
	for i := range flags {
		elem := col.Elem(i)
		if !elem.IsNA() && elem.String() != model.Unknown {
			flags[i] = 1
		}
	}
	return flags
}

// textLengths counts characters, zero for absent text
func textLengths(col series.Series) []int {
	lengths := make([]int, col.Len())
	for i := range lengths {
		if elem := col.Elem(i); !elem.IsNA() {
			lengths[i] = utf8.RuneCountInString(elem.String())
		}
	}
	return lengths
}
