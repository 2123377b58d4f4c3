// pkg/sink/rows.go
package sink

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/David-Botos/catalog-prep/pkg/converter"
	"github.com/David-Botos/catalog-prep/pkg/model"
)

// frameMetadata describes the published table: run_id followed by the frame columns
func frameMetadata(schema, table string, df dataframe.DataFrame) *model.TableMetadata {
	meta := model.MetadataFromFrame(schema, table, df)
	meta.Columns = append([]model.Column{{
		Name:     RunIDColumn,
		DataType: string(series.String),
	}}, meta.Columns...)
	return meta
}

// frameRows converts every frame row to driver values, run ID first
func frameRows(conv *converter.TypeConverter, runID string, df dataframe.DataFrame) ([][]interface{}, error) {
	rows := make([][]interface{}, df.Nrow())
	for r := range rows {
		values, err := conv.RowValues(df, r)
		if err != nil {
			return nil, err
		}
		rows[r] = append([]interface{}{runID}, values...)
	}
	return rows, nil
}

// auditMetadata describes the audit table
func auditMetadata(schema string) *model.TableMetadata {
	text := string(series.String)
	return &model.TableMetadata{
		Schema: schema,
		Table:  AuditTable,
		Columns: []model.Column{
			{Name: "run_id", DataType: text},
			{Name: "stage", DataType: text},
			{Name: "column_name", DataType: text},
			{Name: "original_value", DataType: text, Nullable: true},
			{Name: "new_value", DataType: text, Nullable: true},
			{Name: "row_identifier", DataType: text},
			{Name: "cleaning_operation", DataType: text},
			{Name: "cleaning_reason", DataType: text},
			{Name: "cleaned_at", DataType: text, SQLType: "TIMESTAMP"},
		},
	}
}

// auditRows flattens operations in auditMetadata column order
func auditRows(ops []model.CleaningOperation) [][]interface{} {
	rows := make([][]interface{}, len(ops))
	for i, op := range ops {
		rows[i] = []interface{}{
			op.RunID,
			op.Stage,
			op.ColumnName,
			toNullableString(op.OriginalValue),
			toNullableString(op.NewValue),
			op.RowIdentifier,
			op.CleaningOperation,
			op.CleaningReason,
			op.CleanedAt.UTC(),
		}
	}
	return rows
}

// toNullableString renders a value as text, keeping absent values NULL
func toNullableString(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if val == "" {
			return nil
		}
		return val
	default:
		return fmt.Sprint(val)
	}
}
