package storage

import "errors"

// Sentinel errors shared by all store implementations.
var (
	// ErrNotFound is returned when a requested run or wallet row does not
	// exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when an insert collides with an existing
	// tx_hash or run_id. Ledger entries and scored runs are immutable once
	// written; a conflicting batch is rejected whole.
	ErrDuplicateKey = errors.New("duplicate key: stored records are immutable")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
