// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Sink drivers
const (
	SinkNone      = "none"
	SinkPostgres  = "postgres"
	SinkSnowflake = "snowflake"
)

// Config represents the application configuration
type Config struct {
	// Pipeline paths
	InputPath  string
	OutputPath string
	Delimiter  rune

	// Logging
	LogLevel  string
	LogFormat string

	// Optional publish target
	Sink *SinkConfig
}

// SinkConfig describes where the final table is published, if anywhere
type SinkConfig struct {
	Driver    string
	Schema    string
	Table     string
	BatchSize int

	// Only the one matching Driver is populated
	Postgres  *PostgresConfig
	Snowflake *SnowflakeConfig
}

// Enabled reports whether a publish target is configured
func (s *SinkConfig) Enabled() bool {
	return s != nil && s.Driver != SinkNone && s.Driver != ""
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	delimiter, err := parseDelimiter(getEnv("PREP_DELIMITER", ","))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		InputPath:  getEnv("PREP_INPUT_PATH", ""),
		OutputPath: getEnv("PREP_OUTPUT_PATH", ""),
		Delimiter:  delimiter,
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "json"),
	}

	sink, err := LoadSinkConfig(getEnv("SINK_DRIVER", SinkNone))
	if err != nil {
		return nil, fmt.Errorf("failed to load sink configuration: %w", err)
	}
	cfg.Sink = sink

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadSinkConfig loads the publish settings for driver. Database settings are
// only required when the driver needs them.
func LoadSinkConfig(driver string) (*SinkConfig, error) {
	sink := &SinkConfig{
		Driver:    strings.ToLower(strings.TrimSpace(driver)),
		Schema:    getEnv("SINK_SCHEMA", "public"),
		Table:     getEnv("SINK_TABLE", "netflix_titles_processed"),
		BatchSize: getEnvAsInt("SINK_BATCH_SIZE", 500),
	}

	switch sink.Driver {
	case "", SinkNone:
		sink.Driver = SinkNone
	case SinkPostgres:
		pg, err := LoadPostgresConfig()
		if err != nil {
			return nil, err
		}
		sink.Postgres = pg
	case SinkSnowflake:
		sf, err := LoadSnowflakeConfig()
		if err != nil {
			return nil, err
		}
		sink.Snowflake = sf
	default:
		return nil, fmt.Errorf("unsupported sink driver %q", driver)
	}

	return sink, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if c.Delimiter == 0 {
		return errors.New("delimiter is required")
	}

	if c.Sink == nil {
		return errors.New("sink configuration is required")
	}

	if c.Sink.Enabled() {
		if c.Sink.Table == "" {
			return errors.New("sink table is required when publishing")
		}
		if c.Sink.BatchSize <= 0 {
			return errors.New("sink batch size must be positive")
		}
	}

	return nil
}

// parseDelimiter accepts a single character, or the escape "\t"
func parseDelimiter(s string) (rune, error) {
	if s == `\t` {
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// ParseDelimiter is the exported form used by the CLI flag
func ParseDelimiter(s string) (rune, error) {
	return parseDelimiter(s)
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSeconds(key string, defaultSeconds int) time.Duration {
	return time.Duration(getEnvAsInt(key, defaultSeconds)) * time.Second
}

// requireEnv returns the values of keys, or one error naming every key that is unset
func requireEnv(keys ...string) (map[string]string, error) {
	values := make(map[string]string, len(keys))
	var missing []string
	for _, key := range keys {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
			continue
		}
		values[key] = v
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	return values, nil
}
