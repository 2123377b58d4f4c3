package connector

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/David-Botos/catalog-prep/pkg/config"
)

func TestBuildInsertQuery(t *testing.T) {
	q := buildInsertQuery(`"public"."titles"`, []string{"run_id", "Rating"}, 2)
	assert.Equal(t,
		`INSERT INTO "public"."titles" ("run_id", "rating") VALUES (?, ?), (?, ?)`, q)

	assert.Equal(t,
		`INSERT INTO "public"."titles" ("run_id", "rating") VALUES ($1, $2), ($3, $4)`,
		sqlx.Rebind(sqlx.DOLLAR, q))
}

func TestBatches(t *testing.T) {
	assert.Equal(t, [][2]int{{0, 2}, {2, 4}, {4, 5}}, batches(5, 2))
	assert.Equal(t, [][2]int{{0, 3}}, batches(3, 10))
	assert.Empty(t, batches(0, 10))
}

func TestOpenRejectsDisabledSink(t *testing.T) {
	logger := zaptest.NewLogger(t)

	_, err := Open(context.Background(), &config.SinkConfig{Driver: config.SinkNone}, logger)
	require.Error(t, err)

	_, err = Open(context.Background(), &config.SinkConfig{Driver: config.SinkPostgres}, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres settings")

	_, err = Open(context.Background(), &config.SinkConfig{Driver: "mysql"}, logger)
	require.Error(t, err)
}
