package clickhouse

import (
	"context"
	"fmt"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/storage"
)

// LedgerStore implements storage.LedgerStore using ClickHouse.
type LedgerStore struct {
	conn *Conn
}

// NewLedgerStore creates a new LedgerStore.
func NewLedgerStore(conn *Conn) *LedgerStore {
	return &LedgerStore{conn: conn}
}

// Compile-time interface check.
var _ storage.LedgerStore = (*LedgerStore)(nil)

// InsertBulk adds multiple ledger entries. ClickHouse MergeTree does not
// enforce uniqueness at insert time, so intra-batch and existing tx_hash
// duplicates are rejected with explicit checks before the batch is sent.
func (s *LedgerStore) InsertBulk(ctx context.Context, entries []domain.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.TxHash == "" || e.Wallet == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := seen[e.TxHash]; exists {
			return storage.ErrDuplicateKey
		}
		seen[e.TxHash] = struct{}{}
	}

	for _, e := range entries {
		exists, err := s.exists(ctx, e.TxHash)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO ledger_entries (
			wallet, tx_hash, timestamp_ms, action_type, amount_usd, asset, relation
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, e := range entries {
		err = batch.Append(
			e.Wallet, e.TxHash, uint64(e.TimestampMs),
			string(e.ActionType), e.AmountUSD, e.Asset, string(e.Relation),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByWallet retrieves all entries for a wallet, ordered by timestamp ASC.
func (s *LedgerStore) GetByWallet(ctx context.Context, wallet string) ([]domain.LedgerEntry, error) {
	query := `
		SELECT wallet, tx_hash, timestamp_ms, action_type, amount_usd, asset, relation
		FROM ledger_entries
		WHERE wallet = ?
		ORDER BY timestamp_ms ASC, tx_hash ASC
	`

	rows, err := s.conn.Query(ctx, query, wallet)
	if err != nil {
		return nil, fmt.Errorf("query ledger entries: %w", err)
	}
	defer rows.Close()

	var out []domain.LedgerEntry
	for rows.Next() {
		var (
			e           domain.LedgerEntry
			timestampMs uint64
			actionType  string
			relation    string
		)
		if err := rows.Scan(&e.Wallet, &e.TxHash, &timestampMs, &actionType, &e.AmountUSD, &e.Asset, &relation); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.TimestampMs = int64(timestampMs)
		e.ActionType = domain.ActionType(actionType)
		e.Relation = domain.Relation(relation)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}
	return out, nil
}

// Count returns the total number of stored entries.
func (s *LedgerStore) Count(ctx context.Context) (int, error) {
	var count uint64
	row := s.conn.QueryRow(ctx, `SELECT count() FROM ledger_entries`)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count ledger entries: %w", err)
	}
	return int(count), nil
}

// exists checks whether a tx_hash is already stored.
func (s *LedgerStore) exists(ctx context.Context, txHash string) (bool, error) {
	var count uint64
	row := s.conn.QueryRow(ctx, `SELECT count() FROM ledger_entries WHERE tx_hash = ?`, txHash)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
