// pkg/cleaner/cleaner.go
package cleaner

import (
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
	"go.uber.org/zap"

	"github.com/David-Botos/catalog-prep/pkg/model"
)

// Stage is the name recorded on operations produced by this package
const Stage = "missing_values"

// constantFillColumns are filled with model.Unknown when absent
var constantFillColumns = []string{
	model.ColDirector,
	model.ColCast,
	model.ColCountry,
	model.ColDuration,
}

// DataCleaner applies the fixed missing-value policy to a catalog frame
type DataCleaner struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewDataCleaner creates a new DataCleaner instance
func NewDataCleaner(logger *zap.Logger) *DataCleaner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataCleaner{
		logger: logger,
		now:    time.Now,
	}
}

// HandleMissingValues removes rows without a date_added, fills absent
// director, cast, country and duration with "Unknown", and fills absent
// rating with the column mode. The input frame is never modified; when
// nothing is absent the input is returned as is along with no operations.
func (c *DataCleaner) HandleMissingValues(df dataframe.DataFrame) (dataframe.DataFrame, []model.CleaningOperation, error) {
	out, _, operations, err := c.HandleMissingValuesWithRows(df, model.RowIdentifiers(df))
	return out, operations, err
}

// HandleMissingValuesWithRows is HandleMissingValues for a frame whose rows
// are identified by rowIDs. It also returns the identifiers of the rows kept,
// so later stages can keep reporting input row numbers.
func (c *DataCleaner) HandleMissingValuesWithRows(
	df dataframe.DataFrame,
	rowIDs []string,
) (dataframe.DataFrame, []string, []model.CleaningOperation, error) {
	if df.Err != nil {
		return dataframe.DataFrame{}, nil, nil, fmt.Errorf("invalid input frame: %w", df.Err)
	}
	if len(rowIDs) != df.Nrow() {
		return dataframe.DataFrame{}, nil, nil, fmt.Errorf("got %d row identifiers for %d rows", len(rowIDs), df.Nrow())
	}

	required := append([]string{model.ColDateAdded, model.ColRating}, constantFillColumns...)
	if err := model.RequireColumns(df, Stage, required...); err != nil {
		return dataframe.DataFrame{}, nil, nil, err
	}

	cleanedAt := c.now()
	var operations []model.CleaningOperation

	// Rows without a date_added carry no usable timeline, drop them first
	out, rowIDs, dropOps := dropAbsentRows(df, model.ColDateAdded, rowIDs, model.ReasonMissingDateAdded, cleanedAt)
	if out.Err != nil {
		return dataframe.DataFrame{}, nil, nil, fmt.Errorf("failed to drop rows: %w", out.Err)
	}
	operations = append(operations, dropOps...)

	for _, col := range constantFillColumns {
		filled, ops := fillAbsent(out.Col(col), model.Unknown, model.OpFillConstant, rowIDs, cleanedAt)
		if len(ops) == 0 {
			continue
		}
		out = out.Mutate(filled)
		if out.Err != nil {
			return dataframe.DataFrame{}, nil, nil, fmt.Errorf("failed to fill %s: %w", col, out.Err)
		}
		operations = append(operations, ops...)
	}

	rating := out.Col(model.ColRating)
	mode, ok := modeOf(rating)
	if !ok {
		mode = model.Unknown
		c.logger.Warn("Rating column has no values, filling with sentinel",
			zap.String("value", mode))
	}
	if filled, ops := fillAbsent(rating, mode, model.OpFillMode, rowIDs, cleanedAt); len(ops) > 0 {
		out = out.Mutate(filled)
		if out.Err != nil {
			return dataframe.DataFrame{}, nil, nil, fmt.Errorf("failed to fill %s: %w", model.ColRating, out.Err)
		}
		operations = append(operations, ops...)
	}

	c.logger.Info("Handled missing values",
		zap.Int("rows_in", df.Nrow()),
		zap.Int("rows_out", out.Nrow()),
		zap.Int("rows_dropped", len(dropOps)),
		zap.Int("operations", len(operations)))

	return out, rowIDs, operations, nil
}
