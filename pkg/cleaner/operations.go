// pkg/cleaner/operations.go
package cleaner

import (
	"sort"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/David-Botos/catalog-prep/pkg/model"
)

// fillAbsent returns a string copy of col with every absent value replaced by
// value, plus one operation per replaced cell. No operations means col had
// nothing absent and the returned series should be ignored.
func fillAbsent(
	col series.Series,
	value string,
	operation string,
	rowIDs []string,
	cleanedAt time.Time,
) (series.Series, []model.CleaningOperation) {
	if !col.HasNaN() {
		return col, nil
	}

	values := make([]string, col.Len())
	var operations []model.CleaningOperation
	for i := 0; i < col.Len(); i++ {
		elem := col.Elem(i)
		if !elem.IsNA() {
			values[i] = elem.String()
			continue
		}

		values[i] = value
		operations = append(operations, model.CleaningOperation{
			Stage:             Stage,
			ColumnName:        col.Name,
			OriginalValue:     nil,
			NewValue:          value,
			RowIdentifier:     rowIDs[i],
			CleaningOperation: operation,
			CleaningReason:    model.ReasonMissingValue,
			CleanedAt:         cleanedAt,
		})
	}

	return series.New(values, series.String, col.Name), operations
}

// dropAbsentRows removes the rows where column is absent. The row identifiers
// are filtered alongside so they keep lining up with the returned frame.
func dropAbsentRows(
	df dataframe.DataFrame,
	column string,
	rowIDs []string,
	reason string,
	cleanedAt time.Time,
) (dataframe.DataFrame, []string, []model.CleaningOperation) {
	col := df.Col(column)
	if !col.HasNaN() {
		return df, rowIDs, nil
	}

	keep := make([]int, 0, col.Len())
	keptIDs := make([]string, 0, col.Len())
	var operations []model.CleaningOperation
	for i := 0; i < col.Len(); i++ {
		if !col.Elem(i).IsNA() {
			keep = append(keep, i)
			keptIDs = append(keptIDs, rowIDs[i])
			continue
		}
		operations = append(operations, model.CleaningOperation{
			Stage:             Stage,
			ColumnName:        column,
			OriginalValue:     nil,
			RowIdentifier:     rowIDs[i],
			CleaningOperation: model.OpRowDrop,
			CleaningReason:    reason,
			CleanedAt:         cleanedAt,
		})
	}

	return df.Subset(keep), keptIDs, operations
}

// modeOf returns the most frequent present value of col. Ties resolve to the
// lexicographically smallest value. ok is false when every value is absent.
func modeOf(col series.Series) (mode string, ok bool) {
	counts := make(map[string]int)
	for i := 0; i < col.Len(); i++ {
		elem := col.Elem(i)
		if elem.IsNA() {
			continue
		}
		counts[elem.String()]++
	}
	if len(counts) == 0 {
		return "", false
	}

	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Strings(values)

	best := values[0]
	for _, v := range values[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best, true
}
