// pkg/config/database.go
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/snowflakedb/gosnowflake"
)

// SnowflakeConfig holds Snowflake connection parameters
type SnowflakeConfig struct {
	User          string
	Password      string
	Account       string
	Warehouse     string
	Database      string
	Role          string
	Authenticator gosnowflake.AuthType

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// Query timeout
	QueryTimeout time.Duration
}

// PostgresConfig holds PostgreSQL connection parameters
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// Statement timeout
	StatementTimeout time.Duration
}

// LoadSnowflakeConfig loads Snowflake configuration from environment variables
func LoadSnowflakeConfig() (*SnowflakeConfig, error) {
	authenticator := parseAuthenticator(getEnv("SNOWFLAKE_AUTHENTICATOR", "snowflake"))

	required := []string{"SNOWFLAKE_USER", "SNOWFLAKE_ACCOUNT", "SNOWFLAKE_WAREHOUSE", "SNOWFLAKE_DATABASE"}
	// Password auth is the only mode where a password is mandatory
	if authenticator == gosnowflake.AuthTypeSnowflake {
		required = append(required, "SNOWFLAKE_PASSWORD")
	}
	env, err := requireEnv(required...)
	if err != nil {
		return nil, err
	}

	return &SnowflakeConfig{
		User:          env["SNOWFLAKE_USER"],
		Password:      os.Getenv("SNOWFLAKE_PASSWORD"),
		Account:       env["SNOWFLAKE_ACCOUNT"],
		Warehouse:     env["SNOWFLAKE_WAREHOUSE"],
		Database:      env["SNOWFLAKE_DATABASE"],
		Role:          getEnv("SNOWFLAKE_ROLE", ""),
		Authenticator: authenticator,

		MaxOpenConns:    getEnvAsInt("SNOWFLAKE_MAX_OPEN_CONNS", 4),
		MaxIdleConns:    getEnvAsInt("SNOWFLAKE_MAX_IDLE_CONNS", 2),
		ConnMaxLifetime: getEnvAsSeconds("SNOWFLAKE_CONN_MAX_LIFETIME_SECONDS", 600),
		QueryTimeout:    getEnvAsSeconds("SNOWFLAKE_QUERY_TIMEOUT_SECONDS", 300),
	}, nil
}

// parseAuthenticator maps the env string onto the driver's auth type
func parseAuthenticator(s string) gosnowflake.AuthType {
	switch s {
	case "oauth":
		return gosnowflake.AuthTypeOAuth
	case "externalbrowser":
		return gosnowflake.AuthTypeExternalBrowser
	case "username_password_mfa":
		return gosnowflake.AuthTypeUsernamePasswordMFA
	case "jwt":
		return gosnowflake.AuthTypeJwt
	case "token":
		return gosnowflake.AuthTypeTokenAccessor
	case "okta":
		return gosnowflake.AuthTypeOkta
	default:
		return gosnowflake.AuthTypeSnowflake
	}
}

// LoadPostgresConfig loads PostgreSQL configuration from environment variables
func LoadPostgresConfig() (*PostgresConfig, error) {
	env, err := requireEnv("POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB")
	if err != nil {
		return nil, err
	}

	return &PostgresConfig{
		Host:     getEnv("POSTGRES_HOST", "localhost"),
		Port:     getEnvAsInt("POSTGRES_PORT", 5432),
		User:     env["POSTGRES_USER"],
		Password: env["POSTGRES_PASSWORD"],
		Database: env["POSTGRES_DB"],
		SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MaxOpenConns:     getEnvAsInt("POSTGRES_MAX_OPEN_CONNS", 4),
		MaxIdleConns:     getEnvAsInt("POSTGRES_MAX_IDLE_CONNS", 2),
		ConnMaxLifetime:  getEnvAsSeconds("POSTGRES_CONN_MAX_LIFETIME_SECONDS", 1800),
		StatementTimeout: getEnvAsSeconds("POSTGRES_STATEMENT_TIMEOUT_SECONDS", 300),
	}, nil
}

// DriverConfig builds the gosnowflake config used to produce a DSN
func (c *SnowflakeConfig) DriverConfig() *gosnowflake.Config {
	return &gosnowflake.Config{
		Account:       c.Account,
		User:          c.User,
		Password:      c.Password,
		Database:      c.Database,
		Warehouse:     c.Warehouse,
		Role:          c.Role,
		Authenticator: c.Authenticator,
	}
}

// ConnectionString returns a formatted Snowflake DSN
func (c *SnowflakeConfig) ConnectionString() (string, error) {
	dsn, err := gosnowflake.DSN(c.DriverConfig())
	if err != nil {
		return "", fmt.Errorf("failed to build snowflake DSN: %w", err)
	}
	return dsn, nil
}

// ConnectionString returns a formatted PostgreSQL connection string
func (c *PostgresConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Database,
		c.SSLMode,
	)
}
