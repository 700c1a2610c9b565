// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config contains all configuration parameters for the application.
// Storage DSNs are optional: with no Postgres DSN the wallet store runs
// in memory, with no ClickHouse DSN the transfer archive is disabled.
type Config struct {
	SolanaRPCURL string `envconfig:"SOLANA_RPC_URL" default:"https://api.devnet.solana.com"`
	SolanaWSURL  string `envconfig:"SOLANA_WS_URL" default:""`

	PostgresDSN   string `envconfig:"POSTGRES_DSN" default:""`
	ClickhouseDSN string `envconfig:"CLICKHOUSE_DSN" default:""`

	FeeEstimateLamports uint64 `envconfig:"FEE_ESTIMATE_LAMPORTS" default:"5000"`
	PacingDelayMs       int    `envconfig:"PACING_DELAY_MS" default:"500"`

	MetricsAddr string `envconfig:"METRICS_ADDR" default:""`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return cfg, nil
}

// PacingDelay returns the inter-transfer delay as a duration.
func (c *Config) PacingDelay() time.Duration {
	return time.Duration(c.PacingDelayMs) * time.Millisecond
}
