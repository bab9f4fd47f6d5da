// Package config holds the warehouse loader configuration. Values come from
// environment variables, optionally seeded from a .env file, mirroring how
// the warehouse credentials are provisioned in every other deployment of this
// stack. The package stays deliberately small: no config-file formats, no
// dynamic reloading.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults for batch sizing. Dimension rows are narrow, fact rows are wide;
// the fact batch is sized to stay under backend parameter limits.
const (
	DefaultDimensionBatchSize = 100
	DefaultFactBatchSize      = 1000
)

// DB holds warehouse connection settings.
type DB struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// DSN returns the pgx connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// Config is the full loader configuration.
type Config struct {
	DB DB

	// Schema is the warehouse schema holding dim_/fact_/mart_ objects.
	Schema string

	// DimensionBatchSize and FactBatchSize control insert chunking.
	DimensionBatchSize int
	FactBatchSize      int

	// PushgatewayURL enables the Prometheus push backend when non-empty.
	PushgatewayURL string
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present; a missing file is not an error.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DB: DB{
			Host:     envOr("DB_HOST", "localhost"),
			Port:     envOr("DB_PORT", "5432"),
			Name:     envOr("DB_NAME", "ipl_analytics"),
			User:     envOr("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
		},
		Schema:             envOr("WAREHOUSE_SCHEMA", "ipl_analytics"),
		DimensionBatchSize: envIntOr("DIMENSION_BATCH_SIZE", DefaultDimensionBatchSize),
		FactBatchSize:      envIntOr("FACT_BATCH_SIZE", DefaultFactBatchSize),
		PushgatewayURL:     os.Getenv("PUSHGATEWAY_URL"),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
