package storage

import (
	"context"

	"wallet-credit-score/internal/domain"
)

// LedgerStore provides access to normalized ledger entry storage.
type LedgerStore interface {
	// InsertBulk adds multiple ledger entries. Fails entire batch on any
	// duplicate tx_hash.
	InsertBulk(ctx context.Context, entries []domain.LedgerEntry) error

	// GetByWallet retrieves all entries for a wallet, ordered by timestamp ASC.
	GetByWallet(ctx context.Context, wallet string) ([]domain.LedgerEntry, error)

	// Count returns the total number of stored entries.
	Count(ctx context.Context) (int, error)
}

// ScoreStore provides access to scored wallet storage.
type ScoreStore interface {
	// InsertRun persists the scored rows of one pipeline run.
	InsertRun(ctx context.Context, runID string, rows []*domain.ScoredWallet) error

	// GetRun retrieves all rows of a run, ordered by score DESC, wallet ASC.
	// Returns ErrNotFound if the run does not exist.
	GetRun(ctx context.Context, runID string) ([]*domain.ScoredWallet, error)

	// GetWallet retrieves one wallet's row within a run.
	// Returns ErrNotFound if not present.
	GetWallet(ctx context.Context, runID, wallet string) (*domain.ScoredWallet, error)
}
