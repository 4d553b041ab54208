// Package main provides the credit scoring pipeline entry point.
// Executes: ledger normalization → feature engineering → scoring → CSV export.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"wallet-credit-score/internal/config"
	"wallet-credit-score/internal/features"
	"wallet-credit-score/internal/ledger"
	"wallet-credit-score/internal/observability"
	"wallet-credit-score/internal/pipeline"
	"wallet-credit-score/internal/reporting"
	"wallet-credit-score/internal/storage"
	"wallet-credit-score/internal/storage/clickhouse"
	"wallet-credit-score/internal/storage/migrations"
	"wallet-credit-score/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "", "Optional YAML config file")
	dataDir := flag.String("data-dir", "", "JSON input directory")
	outputDir := flag.String("output-dir", "", "CSV and normalizer output directory")
	weightsSpec := flag.String("weights", "", "Comma-separated health=...,trust=...,risk=... (sum=1)")
	topK := flag.Int("topk", 0, "Number of top wallets to export")
	tsUnit := flag.String("ts-unit", "", "Timestamp unit: s, ms, or auto")
	profile := flag.Bool("profile", false, "Print feature summary (mean,std,skew) and exit")
	postgresDSN := flag.String("postgres-dsn", "", "Optional Postgres DSN for score persistence")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "Optional ClickHouse DSN for ledger persistence")
	metricsAddr := flag.String("metrics-addr", "", "Optional listen address for /metrics")
	verbose := flag.Bool("verbose", false, "Verbose logging")
	flag.Parse()

	setupLogging(*verbose)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	applyFlags(cfg, *dataDir, *outputDir, *weightsSpec, *topK, *tsUnit, *postgresDSN, *clickhouseDSN, *metricsAddr)

	weights, err := cfg.ScoreWeights()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid weights")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Warn().Str("signal", sig.String()).Msg("cancelling pipeline")
		cancel()
	}()

	if cfg.MetricsAddr != "" {
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, observability.Handler()); err != nil {
				log.Error().Err(err).Msg("metrics endpoint failed")
			}
		}()
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.OutputDir).Msg("create output directory")
	}

	loadOpts := ledger.Options{TimestampUnit: ledger.TimestampUnit(cfg.TimestampUnit)}

	if *profile {
		if err := runProfile(cfg.DataDir, loadOpts); err != nil {
			log.Fatal().Err(err).Msg("profile failed")
		}
		return
	}

	ledgerStore, scoreStore, cleanup, err := connectStores(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connect stores")
	}
	defer cleanup()

	normalizerPath := cfg.NormalizerPath
	if normalizerPath == "" {
		normalizerPath = filepath.Join(cfg.OutputDir, "normalizer.json")
	}

	runner := pipeline.New(pipeline.Options{
		LedgerStore:    ledgerStore,
		ScoreStore:     scoreStore,
		Weights:        weights,
		NormalizerPath: normalizerPath,
		LoadOptions:    loadOpts,
	})

	result, err := runner.Run(ctx, cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("pipeline failed")
	}

	if len(result.Scored.Rows) == 0 {
		log.Warn().Msg("no wallets scored, nothing to export")
		return
	}

	outPath := filepath.Join(cfg.OutputDir, fmt.Sprintf("top_%d_wallets.csv", cfg.TopK))
	if _, err := os.Stat(outPath); err == nil {
		log.Warn().Str("path", outPath).Msg("output file exists, overwriting")
	}
	csv := reporting.RenderTopK(result.Scored, cfg.TopK)
	if err := os.WriteFile(outPath, []byte(csv), 0o644); err != nil {
		log.Fatal().Err(err).Str("path", outPath).Msg("write output csv")
	}
	log.Info().Str("path", outPath).Int("top_k", cfg.TopK).Msg("wrote scored wallets")
}

func setupLogging(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// applyFlags overrides config fields with explicitly set flags.
func applyFlags(cfg *config.Config, dataDir, outputDir, weightsSpec string, topK int, tsUnit, postgresDSN, clickhouseDSN, metricsAddr string) {
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if weightsSpec != "" {
		if m, err := parseWeights(weightsSpec); err == nil {
			cfg.Weights = m
		} else {
			log.Fatal().Err(err).Msg("invalid -weights")
		}
	}
	if topK > 0 {
		cfg.TopK = topK
	}
	if tsUnit != "" {
		cfg.TimestampUnit = tsUnit
	}
	if postgresDSN != "" {
		cfg.PostgresDSN = postgresDSN
	}
	if clickhouseDSN != "" {
		cfg.ClickhouseDSN = clickhouseDSN
	}
	if metricsAddr != "" {
		cfg.MetricsAddr = metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
}

// parseWeights parses "health=0.45,trust=0.35,risk=0.20" into a weight map.
func parseWeights(spec string) (map[string]float64, error) {
	m := make(map[string]float64)
	for _, kv := range strings.Split(spec, ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("bad weight %q (expected key=val)", kv)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("bad weight value %q for %q", v, k)
		}
		m[strings.TrimSpace(k)] = f
	}
	return m, nil
}

// runProfile prints per-feature distribution statistics instead of scoring.
func runProfile(dataDir string, opts ledger.Options) error {
	entries, err := ledger.LoadDirectory(dataDir, opts)
	if err != nil {
		return err
	}
	table := features.Compute(entries)
	fmt.Print(reporting.RenderProfile(features.Profile(table)))
	return nil
}

// connectStores opens the optional persistence backends and runs their
// migrations. The returned cleanup closes whatever was opened.
func connectStores(ctx context.Context, cfg *config.Config) (storage.LedgerStore, storage.ScoreStore, func(), error) {
	var (
		ledgerStore storage.LedgerStore
		scoreStore  storage.ScoreStore
		closers     []func()
	)
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	if cfg.PostgresDSN != "" {
		pool, err := postgres.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, cleanup, err
		}
		closers = append(closers, pool.Close)
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return nil, nil, cleanup, err
		}
		scoreStore = postgres.NewScoreStore(pool)
	}

	if cfg.ClickhouseDSN != "" {
		conn, err := clickhouse.NewConn(ctx, cfg.ClickhouseDSN)
		if err != nil {
			return nil, nil, cleanup, err
		}
		closers = append(closers, func() { conn.Close() })
		if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
			return nil, nil, cleanup, err
		}
		ledgerStore = clickhouse.NewLedgerStore(conn)
	}

	return ledgerStore, scoreStore, cleanup, nil
}
