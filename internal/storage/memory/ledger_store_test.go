package memory

import (
	"context"
	"errors"
	"testing"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/storage"
)

func testEntry(wallet, hash string, ts int64) domain.LedgerEntry {
	return domain.LedgerEntry{
		Wallet:      wallet,
		TxHash:      hash,
		TimestampMs: ts,
		ActionType:  domain.ActionDeposit,
		AmountUSD:   100,
		Asset:       "USDC",
		Relation:    domain.RelationNone,
	}
}

func TestLedgerStore_InsertAndGet(t *testing.T) {
	store := NewLedgerStore()
	ctx := context.Background()

	entries := []domain.LedgerEntry{
		testEntry("0xaaa", "0x2", 2000),
		testEntry("0xaaa", "0x1", 1000),
		testEntry("0xbbb", "0x3", 1500),
	}
	if err := store.InsertBulk(ctx, entries); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByWallet(ctx, "0xaaa")
	if err != nil {
		t.Fatalf("GetByWallet failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(got))
	}
	if got[0].TxHash != "0x1" || got[1].TxHash != "0x2" {
		t.Errorf("Expected timestamp ASC order, got %s then %s", got[0].TxHash, got[1].TxHash)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected count 3, got %d", count)
	}
}

func TestLedgerStore_DuplicateRejected(t *testing.T) {
	store := NewLedgerStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, []domain.LedgerEntry{testEntry("0xaaa", "0x1", 1000)}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	err := store.InsertBulk(ctx, []domain.LedgerEntry{
		testEntry("0xbbb", "0x2", 2000),
		testEntry("0xccc", "0x1", 3000),
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}

	// The whole batch must be rejected.
	count, _ := store.Count(ctx)
	if count != 1 {
		t.Errorf("Expected count 1 after failed batch, got %d", count)
	}
}

func TestLedgerStore_IntraBatchDuplicate(t *testing.T) {
	store := NewLedgerStore()

	err := store.InsertBulk(context.Background(), []domain.LedgerEntry{
		testEntry("0xaaa", "0x1", 1000),
		testEntry("0xbbb", "0x1", 2000),
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestLedgerStore_InvalidInput(t *testing.T) {
	store := NewLedgerStore()

	err := store.InsertBulk(context.Background(), []domain.LedgerEntry{testEntry("", "0x1", 1000)})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput for empty wallet, got %v", err)
	}

	err = store.InsertBulk(context.Background(), []domain.LedgerEntry{testEntry("0xaaa", "", 1000)})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput for empty tx hash, got %v", err)
	}
}

func TestLedgerStore_GetUnknownWallet(t *testing.T) {
	store := NewLedgerStore()

	got, err := store.GetByWallet(context.Background(), "0xmissing")
	if err != nil {
		t.Fatalf("GetByWallet failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no entries, got %d", len(got))
	}
}
