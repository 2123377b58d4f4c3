// pkg/connector/factory.go
package connector

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/David-Botos/catalog-prep/pkg/config"
)

// Open creates the connector the sink configuration asks for
func Open(ctx context.Context, cfg *config.SinkConfig, logger *zap.Logger) (DatabaseConnector, error) {
	if !cfg.Enabled() {
		return nil, errors.New("no sink driver configured")
	}

	switch cfg.Driver {
	case config.SinkPostgres:
		if cfg.Postgres == nil {
			return nil, errors.New("postgres sink selected without postgres settings")
		}
		logger.Info("Creating PostgreSQL connector")
		conn, err := NewPostgresConnector(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connector: %w", err)
		}
		return conn, nil
	case config.SinkSnowflake:
		if cfg.Snowflake == nil {
			return nil, errors.New("snowflake sink selected without snowflake settings")
		}
		logger.Info("Creating Snowflake connector")
		conn, err := NewSnowflakeConnector(ctx, cfg.Snowflake, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Snowflake connector: %w", err)
		}
		return conn, nil
	default:
		return nil, fmt.Errorf("unsupported sink driver %q", cfg.Driver)
	}
}
