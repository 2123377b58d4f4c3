// pkg/connector/connector.go
package connector

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/David-Botos/catalog-prep/pkg/converter"
)

const (
	defaultBatchSize    = 1000
	defaultQueryTimeout = 30 * time.Second
)

// DatabaseConnector defines the interface for publish targets
type DatabaseConnector interface {
	// DB returns the underlying database handle
	DB() *sqlx.DB

	// Dialect reports which SQL type vocabulary the target speaks
	Dialect() converter.Dialect

	// Validate verifies the connection and permissions
	Validate(ctx context.Context) error

	// Close closes the connection and releases resources
	Close() error

	// EnsureSchema creates the schema if it does not exist
	EnsureSchema(ctx context.Context, schema string) error

	// CreateTableIfNotExists creates a table from column definitions
	CreateTableIfNotExists(ctx context.Context, schema, table string, columnDefs []string) error

	// BatchInsert inserts rows in batches and returns the number inserted
	BatchInsert(ctx context.Context, schema, table string, columns []string, valueRows [][]interface{}, batchSize int) (int64, error)

	// CountRows counts rows of a table matching an optional equality filter
	CountRows(ctx context.Context, schema, table, column string, value interface{}) (int64, error)

	// ExecWithTimeout executes a statement with a timeout
	ExecWithTimeout(ctx context.Context, query string, timeout time.Duration, args ...interface{}) (sql.Result, error)
}

// baseConnector carries the statements shared by every sqlx-backed target
type baseConnector struct {
	db     *sqlx.DB
	logger *zap.Logger
	name   string
}

// DB returns the underlying database handle
func (c *baseConnector) DB() *sqlx.DB {
	return c.db
}

// Close closes the database connection
func (c *baseConnector) Close() error {
	c.logger.Info("Closing connection", zap.String("database", c.name))
	LogConnectionStats(c.logger, c.name, c.db)
	return c.db.Close()
}

// EnsureSchema creates a schema if it doesn't exist
func (c *baseConnector) EnsureSchema(ctx context.Context, schema string) error {
	if schema == "" {
		return nil
	}
	_, err := c.ExecWithTimeout(ctx,
		fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", converter.QuoteIdentifier(schema)),
		defaultQueryTimeout)
	return err
}

// ExecWithTimeout executes a statement with a timeout
func (c *baseConnector) ExecWithTimeout(
	ctx context.Context,
	query string,
	timeout time.Duration,
	args ...interface{},
) (sql.Result, error) {
	queryCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.db.ExecContext(queryCtx, query, args...)
}

// CreateTableIfNotExists creates a table with the given column definitions
func (c *baseConnector) CreateTableIfNotExists(
	ctx context.Context,
	schema string,
	table string,
	columnDefs []string,
) error {
	fullTableName := converter.QualifiedName(schema, table)

	createSQL := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)",
		fullTableName,
		strings.Join(columnDefs, ",\n\t"),
	)

	if _, err := c.ExecWithTimeout(ctx, createSQL, defaultQueryTimeout); err != nil {
		return fmt.Errorf("failed to create table %s: %w", fullTableName, err)
	}

	c.logger.Info("Table ready", zap.String("table", fullTableName))
	return nil
}

// BatchInsert performs a bulk insert into a table
func (c *baseConnector) BatchInsert(
	ctx context.Context,
	schema string,
	table string,
	columns []string,
	valueRows [][]interface{},
	batchSize int,
) (int64, error) {
	if len(valueRows) == 0 {
		return 0, nil
	}

	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	fullTableName := converter.QualifiedName(schema, table)
	var totalRowsInserted int64

	for _, b := range batches(len(valueRows), batchSize) {
		currentBatch := valueRows[b[0]:b[1]]

		args := make([]interface{}, 0, len(currentBatch)*len(columns))
		for j, row := range currentBatch {
			if len(row) != len(columns) {
				return totalRowsInserted, fmt.Errorf("row %d has %d values, want %d",
					b[0]+j, len(row), len(columns))
			}
			args = append(args, row...)
		}

		query := c.db.Rebind(buildInsertQuery(fullTableName, columns, len(currentBatch)))

		result, err := c.ExecWithTimeout(ctx, query, defaultQueryTimeout, args...)
		if err != nil {
			return totalRowsInserted, fmt.Errorf("batch insert failed: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			c.logger.Warn("Couldn't get rows affected", zap.Error(err))
			rowsAffected = int64(len(currentBatch))
		}
		totalRowsInserted += rowsAffected

		c.logger.Debug("Inserted batch",
			zap.String("table", fullTableName),
			zap.Int("from", b[0]),
			zap.Int("to", b[1]))
	}

	return totalRowsInserted, nil
}

// CountRows counts the rows of a table, filtered by column = value when column is set
func (c *baseConnector) CountRows(
	ctx context.Context,
	schema string,
	table string,
	column string,
	value interface{},
) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", converter.QualifiedName(schema, table))
	var args []interface{}
	if column != "" {
		query += fmt.Sprintf(" WHERE %s = ?", converter.QuoteIdentifier(column))
		args = append(args, value)
	}

	queryCtx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	var count int64
	if err := c.db.GetContext(queryCtx, &count, c.db.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return count, nil
}

// buildInsertQuery renders a multi-row INSERT with ? placeholders
func buildInsertQuery(fullTableName string, columns []string, rows int) string {
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = converter.QuoteIdentifier(col)
	}

	rowPlaceholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"
	placeholders := make([]string, rows)
	for i := range placeholders {
		placeholders[i] = rowPlaceholder
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		fullTableName, strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
}

// batches splits n rows into [start, end) ranges of at most size rows
func batches(n, size int) [][2]int {
	var out [][2]int
	for i := 0; i < n; i += size {
		end := i + size
		if end > n {
			end = n
		}
		out = append(out, [2]int{i, end})
	}
	return out
}

// ConnStats contains standardized connection statistics
type ConnStats struct {
	OpenConnections int
	InUse           int
	Idle            int
	MaxOpenConns    int
}

// GetConnectionStats returns connection pool statistics for logging
func GetConnectionStats(db *sqlx.DB) ConnStats {
	stats := db.Stats()
	return ConnStats{
		OpenConnections: stats.OpenConnections,
		InUse:           stats.InUse,
		Idle:            stats.Idle,
		MaxOpenConns:    stats.MaxOpenConnections,
	}
}

// LogConnectionStats logs connection pool statistics
func LogConnectionStats(logger *zap.Logger, name string, db *sqlx.DB) {
	stats := GetConnectionStats(db)
	logger.Debug("Connection pool stats",
		zap.String("database", name),
		zap.Int("open_connections", stats.OpenConnections),
		zap.Int("in_use", stats.InUse),
		zap.Int("idle", stats.Idle),
		zap.Int("max_open", stats.MaxOpenConns),
	)
}

// PingWithTimeout attempts to ping a database with a timeout
func PingWithTimeout(ctx context.Context, db *sqlx.DB, timeout time.Duration) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping failed after %v: %w", timeout, err)
	}
	return nil
}

// ApplyConnectionSettings configures database connection pool settings
func ApplyConnectionSettings(db *sqlx.DB, maxOpen, maxIdle int, maxLifetime time.Duration) {
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		db.SetMaxIdleConns(maxIdle)
	}
	if maxLifetime > 0 {
		db.SetConnMaxLifetime(maxLifetime)
	}
}
