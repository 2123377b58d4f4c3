// pkg/selector/selector.go
package selector

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"

	"github.com/David-Botos/catalog-prep/pkg/model"
)

// Stage names the selection step in schema errors
const Stage = "feature_selection"

// SelectFinalFeatures projects df onto model.FinalColumns, in that order
func SelectFinalFeatures(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	return Select(df, model.FinalColumns)
}

// Select projects df onto columns in the given order. Every missing column is
// reported in a single *model.SchemaError.
func Select(df dataframe.DataFrame, columns []string) (dataframe.DataFrame, error) {
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("invalid input frame: %w", df.Err)
	}
	if err := model.RequireColumns(df, Stage, columns...); err != nil {
		return dataframe.DataFrame{}, err
	}

	out := df.Select(columns)
	if out.Err != nil {
		return dataframe.DataFrame{}, &model.SchemaError{Stage: Stage, Err: out.Err}
	}
	return out, nil
}
