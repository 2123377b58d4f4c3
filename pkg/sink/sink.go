// pkg/sink/sink.go
package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
	"go.uber.org/zap"

	"github.com/David-Botos/catalog-prep/pkg/config"
	"github.com/David-Botos/catalog-prep/pkg/connector"
	"github.com/David-Botos/catalog-prep/pkg/converter"
	"github.com/David-Botos/catalog-prep/pkg/model"
)

const (
	// RunIDColumn is prepended to the published table so runs can coexist
	RunIDColumn = "run_id"

	// AuditTable receives one row per cleaning operation
	AuditTable = "preprocessing_audit"

	defaultBatchSize = 500
)

// Publisher writes a finished frame and its cleaning audit to a database
type Publisher struct {
	conn      connector.DatabaseConnector
	converter *converter.TypeConverter
	logger    *zap.Logger
	schema    string
	table     string
	batchSize int
}

// PublishResult reports what a publish wrote
type PublishResult struct {
	RunID        string
	Table        string
	RowsInserted int64
	AuditRows    int64
	Duration     time.Duration
}

// NewPublisher creates a publisher targeting the configured schema and table
func NewPublisher(conn connector.DatabaseConnector, cfg *config.SinkConfig, logger *zap.Logger) *Publisher {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Publisher{
		conn:      conn,
		converter: converter.NewTypeConverter(logger, conn.Dialect()),
		logger:    logger.Named("sink"),
		schema:    cfg.Schema,
		table:     cfg.Table,
		batchSize: batchSize,
	}
}

// Publish creates the target tables if needed, inserts the frame rows stamped
// with runID, records the audit trail and checks the row count landed
func (p *Publisher) Publish(
	ctx context.Context,
	runID string,
	df dataframe.DataFrame,
	ops []model.CleaningOperation,
) (*PublishResult, error) {
	start := time.Now()
	result := &PublishResult{
		RunID: runID,
		Table: converter.QualifiedName(p.schema, p.table),
	}

	if err := p.conn.EnsureSchema(ctx, p.schema); err != nil {
		return nil, fmt.Errorf("failed to ensure schema %s: %w", p.schema, err)
	}

	meta := frameMetadata(p.schema, p.table, df)
	if err := p.createTable(ctx, meta); err != nil {
		return nil, err
	}

	rows, err := frameRows(p.converter, runID, df)
	if err != nil {
		return nil, fmt.Errorf("failed to convert rows: %w", err)
	}

	inserted, err := p.conn.BatchInsert(ctx, p.schema, p.table, meta.ColumnNames(), rows, p.batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", result.Table, err)
	}
	result.RowsInserted = inserted

	audited, err := p.RecordCleaningOperations(ctx, ops)
	if err != nil {
		return nil, err
	}
	result.AuditRows = audited

	// Verify the run landed in full
	count, err := p.conn.CountRows(ctx, p.schema, p.table, RunIDColumn, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify %s: %w", result.Table, err)
	}
	if count != int64(df.Nrow()) {
		return nil, fmt.Errorf("row count mismatch in %s: %d rows for run %s, expected %d",
			result.Table, count, runID, df.Nrow())
	}

	result.Duration = time.Since(start)
	p.logger.Info("Published dataset",
		zap.String("runId", runID),
		zap.String("table", result.Table),
		zap.Int64("rows", result.RowsInserted),
		zap.Int64("auditRows", result.AuditRows),
		zap.Duration("duration", result.Duration))

	return result, nil
}

// RecordCleaningOperations batch inserts cleaning operations into the audit table
func (p *Publisher) RecordCleaningOperations(ctx context.Context, ops []model.CleaningOperation) (int64, error) {
	if len(ops) == 0 {
		return 0, nil
	}

	meta := auditMetadata(p.schema)
	if err := p.createTable(ctx, meta); err != nil {
		return 0, err
	}

	inserted, err := p.conn.BatchInsert(ctx, p.schema, AuditTable, meta.ColumnNames(), auditRows(ops), p.batchSize)
	if err != nil {
		return inserted, fmt.Errorf("failed to insert cleaning operations: %w", err)
	}

	p.logger.Info("Recorded cleaning operations", zap.Int64("count", inserted))
	return inserted, nil
}

func (p *Publisher) createTable(ctx context.Context, meta *model.TableMetadata) error {
	if err := p.converter.ApplySQLTypes(meta); err != nil {
		return err
	}
	defs, err := p.converter.GenerateColumnDefinitions(meta)
	if err != nil {
		return err
	}
	return p.conn.CreateTableIfNotExists(ctx, meta.Schema, meta.Table, defs)
}
