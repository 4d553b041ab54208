package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"wallet-credit-score/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if cfg.TopK != 1000 {
		t.Errorf("top_k: got %d, want 1000", cfg.TopK)
	}
	w, err := cfg.ScoreWeights()
	if err != nil {
		t.Fatalf("ScoreWeights failed: %v", err)
	}
	if w != domain.DefaultWeights {
		t.Errorf("weights: got %+v, want defaults", w)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
data_dir: /var/data/actions
top_k: 50
ts_unit: ms
weights:
  health: 0.6
  trust: 0.2
  risk: 0.2
postgres_dsn: postgres://u:p@localhost:5432/scores
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DataDir != "/var/data/actions" {
		t.Errorf("data_dir: got %q", cfg.DataDir)
	}
	if cfg.TopK != 50 {
		t.Errorf("top_k: got %d, want 50", cfg.TopK)
	}
	if cfg.TimestampUnit != "ms" {
		t.Errorf("ts_unit: got %q, want ms", cfg.TimestampUnit)
	}
	// Unset fields keep their defaults.
	if cfg.OutputDir != "output" {
		t.Errorf("output_dir: got %q, want output", cfg.OutputDir)
	}

	w, err := cfg.ScoreWeights()
	if err != nil {
		t.Fatalf("ScoreWeights failed: %v", err)
	}
	if w.Health != 0.6 || w.Trust != 0.2 || w.Risk != 0.2 {
		t.Errorf("weights: got %+v", w)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "top_k: [not an int")
	if _, err := Load(path); err == nil {
		t.Fatal("Expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty data_dir", func(c *Config) { c.DataDir = "" }},
		{"zero top_k", func(c *Config) { c.TopK = 0 }},
		{"bad ts_unit", func(c *Config) { c.TimestampUnit = "minutes" }},
		{"weights not summing to 1", func(c *Config) { c.Weights["health"] = 0.9 }},
		{"missing weight key", func(c *Config) { delete(c.Weights, "risk") }},
		{"extra weight key", func(c *Config) { c.Weights["bonus"] = 0.0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Expected validation error")
			}
		})
	}
}

func TestValidate_WeightError(t *testing.T) {
	cfg := Default()
	cfg.Weights["health"] = 0.9

	err := cfg.Validate()
	if !errors.Is(err, domain.ErrInvalidWeights) {
		t.Fatalf("Expected ErrInvalidWeights, got %v", err)
	}
}
