package memory

import (
	"context"
	"sort"
	"sync"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/storage"
)

// ScoreStore is an in-memory implementation of storage.ScoreStore.
type ScoreStore struct {
	mu   sync.RWMutex
	runs map[string]map[string]*domain.ScoredWallet // run_id -> wallet -> row
}

// NewScoreStore creates a new in-memory score store.
func NewScoreStore() *ScoreStore {
	return &ScoreStore{
		runs: make(map[string]map[string]*domain.ScoredWallet),
	}
}

// InsertRun persists the scored rows of one pipeline run.
func (s *ScoreStore) InsertRun(_ context.Context, runID string, rows []*domain.ScoredWallet) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[runID]; exists {
		return storage.ErrDuplicateKey
	}

	run := make(map[string]*domain.ScoredWallet, len(rows))
	for _, row := range rows {
		clone := *row
		run[row.Wallet] = &clone
	}
	s.runs[runID] = run
	return nil
}

// GetRun retrieves all rows of a run, ordered by score DESC, wallet ASC.
func (s *ScoreStore) GetRun(_ context.Context, runID string) ([]*domain.ScoredWallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[runID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	out := make([]*domain.ScoredWallet, 0, len(run))
	for _, row := range run {
		clone := *row
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Wallet < out[j].Wallet
	})
	return out, nil
}

// GetWallet retrieves one wallet's row within a run.
func (s *ScoreStore) GetWallet(_ context.Context, runID, wallet string) (*domain.ScoredWallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[runID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	row, ok := run[wallet]
	if !ok {
		return nil, storage.ErrNotFound
	}
	clone := *row
	return &clone, nil
}
