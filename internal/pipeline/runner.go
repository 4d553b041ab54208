// Package pipeline coordinates the batch scoring pipeline:
// ledger normalization → feature engineering → composite scoring.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/features"
	"wallet-credit-score/internal/ledger"
	"wallet-credit-score/internal/observability"
	"wallet-credit-score/internal/scoring"
	"wallet-credit-score/internal/storage"
)

// Runner executes the three pipeline stages in order. Each stage consumes
// the immutable output of the previous one; a fatal stage error aborts the
// run with no partial results.
type Runner struct {
	ledgerStore storage.LedgerStore
	scoreStore  storage.ScoreStore

	weights        domain.Weights
	normalizerPath string
	loadOptions    ledger.Options
}

// Options for creating a Runner.
type Options struct {
	// Optional stores; a nil store disables that persistence step.
	LedgerStore storage.LedgerStore
	ScoreStore  storage.ScoreStore

	// Scoring inputs.
	Weights        domain.Weights
	NormalizerPath string

	// Ledger loading options.
	LoadOptions ledger.Options
}

// New creates a new pipeline Runner.
func New(opts Options) *Runner {
	return &Runner{
		ledgerStore:    opts.LedgerStore,
		scoreStore:     opts.ScoreStore,
		weights:        opts.Weights,
		normalizerPath: opts.NormalizerPath,
		loadOptions:    opts.LoadOptions,
	}
}

// RunResult contains results from one pipeline run.
type RunResult struct {
	RunID         string
	LedgerEntries int
	Wallets       int
	Scored        *domain.ScoredTable
}

// Run executes the full pipeline over a directory of raw action files.
func (r *Runner) Run(ctx context.Context, dataDir string) (*RunResult, error) {
	runID := uuid.NewString()
	log.Info().Str("run_id", runID).Str("data_dir", dataDir).Msg("starting pipeline run")

	entries, err := runStage("normalize", func() ([]domain.LedgerEntry, error) {
		return ledger.LoadDirectory(dataDir, r.loadOptions)
	})
	if err != nil {
		return nil, err
	}

	if r.ledgerStore != nil {
		if err := r.ledgerStore.InsertBulk(ctx, entries); err != nil {
			return nil, fmt.Errorf("persist ledger: %w", err)
		}
	}

	table, err := runStage("features", func() (*domain.FeatureTable, error) {
		return features.Compute(entries), nil
	})
	if err != nil {
		return nil, err
	}
	observability.DefaultMetrics.WalletsFeatured.Add(float64(len(table.Rows)))

	scored, err := runStage("score", func() (*domain.ScoredTable, error) {
		return scoring.Score(table, r.weights, r.normalizerPath)
	})
	if err != nil {
		return nil, err
	}
	observability.DefaultMetrics.WalletsScored.Add(float64(len(scored.Rows)))

	if r.scoreStore != nil && len(scored.Rows) > 0 {
		if err := r.scoreStore.InsertRun(ctx, runID, scored.Rows); err != nil {
			return nil, fmt.Errorf("persist scores: %w", err)
		}
	}

	log.Info().Str("run_id", runID).Int("entries", len(entries)).
		Int("wallets", len(scored.Rows)).Msg("pipeline run complete")

	return &RunResult{
		RunID:         runID,
		LedgerEntries: len(entries),
		Wallets:       len(table.Rows),
		Scored:        scored,
	}, nil
}

// runStage times one stage and records its outcome.
func runStage[T any](name string, fn func() (T, error)) (T, error) {
	start := time.Now()
	out, err := fn()
	status := "ok"
	if err != nil {
		status = "error"
	}
	observability.RecordStageRun(name, status, time.Since(start).Seconds())
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s stage: %w", name, err)
	}
	return out, nil
}
