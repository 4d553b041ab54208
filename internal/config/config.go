// Package config loads the pipeline configuration from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/ledger"
)

// Config is the top-level YAML structure.
type Config struct {
	DataDir        string             `yaml:"data_dir"`
	OutputDir      string             `yaml:"output_dir"`
	TopK           int                `yaml:"top_k"`
	TimestampUnit  string             `yaml:"ts_unit"`
	Weights        map[string]float64 `yaml:"weights"`
	NormalizerPath string             `yaml:"normalizer_path"`
	PostgresDSN    string             `yaml:"postgres_dsn"`
	ClickhouseDSN  string             `yaml:"clickhouse_dsn"`
	MetricsAddr    string             `yaml:"metrics_addr"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		DataDir:       "data",
		OutputDir:     "output",
		TopK:          1000,
		TimestampUnit: string(ledger.UnitAuto),
		Weights: map[string]float64{
			"health": domain.DefaultWeights.Health,
			"trust":  domain.DefaultWeights.Trust,
			"risk":   domain.DefaultWeights.Risk,
		},
	}
}

// Load reads and validates a YAML config file. Missing fields keep their
// defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field ranges and the weight map.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", c.TopK)
	}
	switch ledger.TimestampUnit(c.TimestampUnit) {
	case ledger.UnitAuto, ledger.UnitSeconds, ledger.UnitMillis:
	default:
		return fmt.Errorf("ts_unit must be auto, s or ms, got %q", c.TimestampUnit)
	}
	if _, err := domain.WeightsFromMap(c.Weights); err != nil {
		return err
	}
	return nil
}

// ScoreWeights returns the validated weight struct.
func (c *Config) ScoreWeights() (domain.Weights, error) {
	return domain.WeightsFromMap(c.Weights)
}
