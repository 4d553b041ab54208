package ledger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"wallet-credit-score/internal/domain"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
}

func TestLoadDirectory_Basic(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "deposits.json", `{
		"deposits": [
			{"account": {"id": "0xAAA"}, "hash": "0x1", "timestamp": 1700000100, "amountUSD": 500, "asset": "USDC"},
			{"account": {"id": "0xaaa"}, "hash": "0x2", "timestamp": 1700000000, "amountUSD": 100, "asset": "USDC"}
		]
	}`)

	ledger, err := LoadDirectory(dir, Options{})
	if err != nil {
		t.Fatalf("LoadDirectory failed: %v", err)
	}

	if len(ledger) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(ledger))
	}
	// Sorted ascending by timestamp, seconds upscaled to milliseconds.
	if ledger[0].TxHash != "0x2" || ledger[1].TxHash != "0x1" {
		t.Errorf("order: got %q then %q, want 0x2 then 0x1", ledger[0].TxHash, ledger[1].TxHash)
	}
	if ledger[0].TimestampMs != 1700000000000 {
		t.Errorf("timestamp: got %d, want 1700000000000", ledger[0].TimestampMs)
	}
	for _, e := range ledger {
		if e.Wallet != "0xaaa" {
			t.Errorf("wallet not lowercased: %q", e.Wallet)
		}
	}
}

func TestLoadDirectory_DedupFirstWins(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "mixed.json", `{
		"deposits": [
			{"account": {"id": "0xAAA"}, "hash": "0xdup", "timestamp": 1700000000, "amountUSD": 100, "asset": "USDC"}
		],
		"borrows": [
			{"account": {"id": "0xBBB"}, "hash": "0xdup", "timestamp": 1700000500, "amountUSD": 900, "asset": "DAI"}
		]
	}`)

	ledger, err := LoadDirectory(dir, Options{})
	if err != nil {
		t.Fatalf("LoadDirectory failed: %v", err)
	}

	if len(ledger) != 1 {
		t.Fatalf("Expected 1 entry after dedup, got %d", len(ledger))
	}
	if ledger[0].ActionType != domain.ActionDeposit {
		t.Errorf("Earliest occurrence should win, got %q", ledger[0].ActionType)
	}
}

func TestLoadDirectory_DedupSameTimestampStable(t *testing.T) {
	// One transaction emitting two actions shares hash and timestamp across
	// categories; the survivor must not depend on map iteration order.
	dir := t.TempDir()
	writeFixture(t, dir, "mixed.json", `{
		"borrows": [
			{"account": {"id": "0xBBB"}, "hash": "0xdup", "timestamp": 1700000000, "amountUSD": 900, "asset": "DAI"}
		],
		"deposits": [
			{"account": {"id": "0xAAA"}, "hash": "0xdup", "timestamp": 1700000000, "amountUSD": 100, "asset": "USDC"}
		]
	}`)

	for i := 0; i < 50; i++ {
		ledger, err := LoadDirectory(dir, Options{})
		if err != nil {
			t.Fatalf("LoadDirectory failed: %v", err)
		}
		if len(ledger) != 1 {
			t.Fatalf("Expected 1 entry after dedup, got %d", len(ledger))
		}
		if ledger[0].ActionType != domain.ActionDeposit {
			t.Fatalf("iteration %d: survivor is %q, want deposit (fixed category order)", i, ledger[0].ActionType)
		}
	}
}

func TestLoadDirectory_LiquidationTwinsSurviveDedup(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "liquidates.json", `{
		"liquidates": [
			{"liquidator": {"id": "0xLIQ"}, "user": {"id": "0xVIC"}, "hash": "0xsame", "timestamp": 1700000000, "amountUSD": 400, "asset": "WETH"}
		]
	}`)

	ledger, err := LoadDirectory(dir, Options{})
	if err != nil {
		t.Fatalf("LoadDirectory failed: %v", err)
	}

	if len(ledger) != 2 {
		t.Fatalf("Expected both liquidation entries, got %d", len(ledger))
	}
	actions := map[domain.ActionType]bool{}
	for _, e := range ledger {
		actions[e.ActionType] = true
	}
	if !actions[domain.ActionLiquidatorAction] || !actions[domain.ActionLiquidatedEvent] {
		t.Errorf("Expected liquidator_action and liquidated_event, got %v", actions)
	}
}

func TestLoadDirectory_IncompleteRecordsDropped(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "deposits.json", `{
		"deposits": [
			{"account": {"id": "0xAAA"}, "hash": "0x1", "timestamp": 1700000000, "amountUSD": 100, "asset": "USDC"},
			{"account": {"id": "0xAAA"}, "timestamp": 1700000001, "amountUSD": 100, "asset": "USDC"},
			{"account": {"id": "0xAAA"}, "hash": "0x3", "amountUSD": 100, "asset": "USDC"},
			{"account": {"id": "0xAAA"}, "hash": "0x4", "timestamp": 1700000002, "asset": "USDC"},
			{"account": {"id": "0xAAA"}, "hash": "0x5", "timestamp": 1700000003, "amountUSD": 100}
		]
	}`)

	ledger, err := LoadDirectory(dir, Options{})
	if err != nil {
		t.Fatalf("LoadDirectory failed: %v", err)
	}

	if len(ledger) != 1 {
		t.Fatalf("Expected only the complete record, got %d", len(ledger))
	}
	if ledger[0].TxHash != "0x1" {
		t.Errorf("Expected 0x1, got %q", ledger[0].TxHash)
	}
}

func TestLoadDirectory_UnparsableFileSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "broken.json", `{not valid json`)
	writeFixture(t, dir, "good.json", `{
		"borrows": [
			{"account": {"id": "0xAAA"}, "hash": "0x1", "timestamp": 1700000000, "amountUSD": 100, "asset": "DAI"}
		]
	}`)

	ledger, err := LoadDirectory(dir, Options{})
	if err != nil {
		t.Fatalf("Broken file must not be fatal: %v", err)
	}
	if len(ledger) != 1 {
		t.Errorf("Expected 1 entry from the good file, got %d", len(ledger))
	}
}

func TestLoadDirectory_EmptyResultFatal(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "empty.json", `{"deposits": []}`)

	_, err := LoadDirectory(dir, Options{})
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("Expected ErrDataUnavailable, got %v", err)
	}
}

func TestLoadDirectory_NonJSONIgnored(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "readme.txt", "not data")
	writeFixture(t, dir, "deposits.json", `{
		"deposits": [
			{"account": {"id": "0xAAA"}, "hash": "0x1", "timestamp": 1700000000, "amountUSD": 100, "asset": "USDC"}
		]
	}`)

	ledger, err := LoadDirectory(dir, Options{})
	if err != nil {
		t.Fatalf("LoadDirectory failed: %v", err)
	}
	if len(ledger) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(ledger))
	}
}

func TestNormalizeTimestamps_AutoDetect(t *testing.T) {
	// Max value above 1e12 classifies the whole batch as milliseconds.
	batch := []draft{
		{tsRaw: 1700000000000, hasTS: true},
		{tsRaw: 1700000001000, hasTS: true},
	}
	normalizeTimestamps(batch, UnitAuto)
	if batch[0].tsRaw != 1700000000000 {
		t.Errorf("ms batch must not be rescaled, got %v", batch[0].tsRaw)
	}

	batch = []draft{
		{tsRaw: 1700000000, hasTS: true},
		{tsRaw: 1700000001, hasTS: true},
	}
	normalizeTimestamps(batch, UnitAuto)
	if batch[0].tsRaw != 1700000000000 {
		t.Errorf("seconds batch must be upscaled, got %v", batch[0].tsRaw)
	}
}

func TestNormalizeTimestamps_ForcedUnit(t *testing.T) {
	// A forced unit overrides detection even when values look like the
	// other resolution.
	batch := []draft{{tsRaw: 1700000000000, hasTS: true}}
	normalizeTimestamps(batch, UnitSeconds)
	if batch[0].tsRaw != 1700000000000000 {
		t.Errorf("forced seconds: got %v", batch[0].tsRaw)
	}

	batch = []draft{{tsRaw: 1700000000, hasTS: true}}
	normalizeTimestamps(batch, UnitMillis)
	if batch[0].tsRaw != 1700000000 {
		t.Errorf("forced ms: got %v", batch[0].tsRaw)
	}
}

func TestLoadDirectory_MissingAssetDropped(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "deposits.json", `{
		"deposits": [
			{"account": {"id": "0xAAA"}, "hash": "0x1", "timestamp": 1700000000, "amountUSD": 100, "asset": {"id": "no-symbol"}},
			{"account": {"id": "0xAAA"}, "hash": "0x2", "timestamp": 1700000001, "amountUSD": 100, "asset": "USDC"}
		]
	}`)

	ledger, err := LoadDirectory(dir, Options{})
	if err != nil {
		t.Fatalf("LoadDirectory failed: %v", err)
	}
	if len(ledger) != 1 || ledger[0].TxHash != "0x2" {
		t.Fatalf("Expected the record with a resolvable asset, got %+v", ledger)
	}
}
