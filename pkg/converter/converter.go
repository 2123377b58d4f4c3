// pkg/converter/converter.go
package converter

import (
	"fmt"
	"strings"

	"github.com/go-gota/gota/series"
	"go.uber.org/zap"

	"github.com/David-Botos/catalog-prep/pkg/model"
)

// Dialect selects the SQL type vocabulary of the target database
type Dialect string

const (
	DialectPostgres  Dialect = "postgres"
	DialectSnowflake Dialect = "snowflake"
)

// TypeConverter handles mapping and conversion of frame types and values
type TypeConverter struct {
	logger  *zap.Logger
	dialect Dialect
}

// NewTypeConverter creates a TypeConverter for the given dialect
func NewTypeConverter(logger *zap.Logger, dialect Dialect) *TypeConverter {
	return &TypeConverter{
		logger:  logger,
		dialect: dialect,
	}
}

// Dialect returns the dialect the converter maps to
func (c *TypeConverter) Dialect() Dialect {
	return c.dialect
}

// MapSeriesType converts a gota series type to a column type of the dialect
func (c *TypeConverter) MapSeriesType(t series.Type) (string, error) {
	switch c.dialect {
	case DialectPostgres:
		switch t {
		case series.String:
			return "TEXT", nil
		case series.Int:
			return "BIGINT", nil
		case series.Float:
			return "DOUBLE PRECISION", nil
		case series.Bool:
			return "BOOLEAN", nil
		}
	case DialectSnowflake:
		switch t {
		case series.String:
			return "VARCHAR", nil
		case series.Int:
			return "NUMBER(38,0)", nil
		case series.Float:
			return "FLOAT", nil
		case series.Bool:
			return "BOOLEAN", nil
		}
	default:
		return "", fmt.Errorf("unsupported dialect: %s", c.dialect)
	}

	// Log unexpected type and fall back to text
	c.logger.Warn("Unknown series type encountered",
		zap.String("seriesType", string(t)),
		zap.String("dialect", string(c.dialect)))
	return c.textType(), fmt.Errorf("unknown series type: %s (mapped to text as fallback)", t)
}

func (c *TypeConverter) textType() string {
	if c.dialect == DialectSnowflake {
		return "VARCHAR"
	}
	return "TEXT"
}

// ApplySQLTypes fills in the SQL type of every column that lacks one
func (c *TypeConverter) ApplySQLTypes(metadata *model.TableMetadata) error {
	for i := range metadata.Columns {
		col := &metadata.Columns[i]
		if col.SQLType != "" {
			continue
		}
		sqlType, err := c.MapSeriesType(series.Type(col.DataType))
		if err != nil {
			return fmt.Errorf("column %s: %w", col.Name, err)
		}
		col.SQLType = sqlType
	}
	return nil
}

// GenerateColumnDefinitions creates column definitions for CREATE TABLE
func (c *TypeConverter) GenerateColumnDefinitions(metadata *model.TableMetadata) ([]string, error) {
	definitions := make([]string, 0, len(metadata.Columns))

	for _, col := range metadata.Columns {
		sqlType := col.SQLType
		if sqlType == "" {
			var err error
			sqlType, err = c.MapSeriesType(series.Type(col.DataType))
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", col.Name, err)
			}
		}

		nullability := "NULL"
		if col.IsPrimaryKey || !col.Nullable {
			nullability = "NOT NULL"
		}

		definitions = append(definitions, fmt.Sprintf("%s %s %s",
			QuoteIdentifier(col.Name),
			sqlType,
			nullability))
	}

	if len(metadata.PrimaryKeys) > 0 {
		keys := make([]string, len(metadata.PrimaryKeys))
		for i, k := range metadata.PrimaryKeys {
			keys[i] = QuoteIdentifier(k)
		}
		definitions = append(definitions, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(keys, ", ")))
	}

	return definitions, nil
}

// QuoteIdentifier quotes and escapes an identifier, folding it to lower case
func QuoteIdentifier(name string) string {
	return fmt.Sprintf("\"%s\"", strings.ToLower(strings.ReplaceAll(name, "\"", "\"\"")))
}

// QualifiedName quotes a schema-qualified table name
func QualifiedName(schema, table string) string {
	if schema == "" {
		return QuoteIdentifier(table)
	}
	return QuoteIdentifier(schema) + "." + QuoteIdentifier(table)
}
