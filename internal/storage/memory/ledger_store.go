// Package memory provides in-memory store implementations for tests and
// single-process pipeline runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/storage"
)

// LedgerStore is an in-memory implementation of storage.LedgerStore.
type LedgerStore struct {
	mu   sync.RWMutex
	data map[string]domain.LedgerEntry // keyed by tx_hash
}

// NewLedgerStore creates a new in-memory ledger store.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		data: make(map[string]domain.LedgerEntry),
	}
}

// InsertBulk adds multiple entries atomically. Fails entire batch on any
// duplicate tx_hash.
func (s *LedgerStore) InsertBulk(_ context.Context, entries []domain.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates.
	batchKeys := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.TxHash == "" || e.Wallet == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[e.TxHash]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[e.TxHash]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[e.TxHash] = struct{}{}
	}

	for _, e := range entries {
		s.data[e.TxHash] = e
	}
	return nil
}

// GetByWallet retrieves all entries for a wallet, ordered by timestamp ASC.
func (s *LedgerStore) GetByWallet(_ context.Context, wallet string) ([]domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.LedgerEntry
	for _, e := range s.data {
		if e.Wallet == wallet {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TimestampMs != out[j].TimestampMs {
			return out[i].TimestampMs < out[j].TimestampMs
		}
		return out[i].TxHash < out[j].TxHash
	})
	return out, nil
}

// Count returns the total number of stored entries.
func (s *LedgerStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data), nil
}
