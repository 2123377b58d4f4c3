// pkg/model/metadata.go
package model

import (
	"github.com/go-gota/gota/dataframe"
)

// TableMetadata describes a frame about to be published to a database table
type TableMetadata struct {
	Schema      string   // Target schema name
	Table       string   // Target table name
	Columns     []Column // Column definitions, in frame order
	PrimaryKeys []string // List of primary key column names
}

// Column represents metadata about a frame column
type Column struct {
	Name         string // Column name
	DataType     string // gota series type ("int", "float", "string", "bool")
	SQLType      string // Mapped target database type
	Nullable     bool   // Whether column allows NULL values
	IsPrimaryKey bool   // Whether column is part of primary key
}

// MetadataFromFrame derives column metadata from a frame's names and types.
// SQL types are left empty for the converter to fill in.
func MetadataFromFrame(schema, table string, df dataframe.DataFrame) *TableMetadata {
	names := df.Names()
	types := df.Types()

	meta := &TableMetadata{
		Schema:  schema,
		Table:   table,
		Columns: make([]Column, len(names)),
	}
	for i, name := range names {
		meta.Columns[i] = Column{
			Name:     name,
			DataType: string(types[i]),
			Nullable: df.Col(name).HasNaN(),
		}
	}
	return meta
}

// ColumnNames returns the column names in order
func (tm *TableMetadata) ColumnNames() []string {
	names := make([]string, len(tm.Columns))
	for i, col := range tm.Columns {
		names[i] = col.Name
	}
	return names
}
