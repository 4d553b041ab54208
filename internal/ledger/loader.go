// Package ledger normalizes heterogeneous per-action lending-protocol
// records into one unified, deduplicated transaction ledger.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/observability"
)

// ErrDataUnavailable is returned when no valid transaction record survived
// normalization across the whole input set.
var ErrDataUnavailable = errors.New("no valid transaction records could be processed")

// TimestampUnit selects how raw numeric epoch values are interpreted.
type TimestampUnit string

const (
	// UnitAuto classifies a batch as milliseconds when its maximum raw
	// timestamp exceeds 1e12, seconds otherwise.
	UnitAuto    TimestampUnit = "auto"
	UnitSeconds TimestampUnit = "s"
	UnitMillis  TimestampUnit = "ms"
)

// msThreshold separates second-resolution from millisecond-resolution epochs.
const msThreshold = 1e12

// Options configures directory loading.
type Options struct {
	// TimestampUnit forces the epoch unit; UnitAuto (the zero-value default
	// after normalization) enables per-batch detection.
	TimestampUnit TimestampUnit
}

// LoadDirectory reads every .json file in dir, normalizes all known action
// categories and assembles the unified ledger. Unparsable files and broken
// categories are skipped with a logged error; only a fully empty result is
// fatal.
func LoadDirectory(dir string, opts Options) ([]domain.LedgerEntry, error) {
	unit := opts.TimestampUnit
	if unit == "" {
		unit = UnitAuto
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory %s: %w", dir, err)
	}

	var drafts []draft
	for _, ent := range entries {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, ent.Name())
		fileDrafts, err := loadFile(path, unit)
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("skipping unparsable input file")
			observability.RecordFileSkipped()
			continue
		}
		drafts = append(drafts, fileDrafts...)
	}

	ledger := assemble(drafts)
	if len(ledger) == 0 {
		return nil, fmt.Errorf("%w from %s", ErrDataUnavailable, dir)
	}
	return ledger, nil
}

// loadFile parses one input file: a mapping from plural action-category name
// to a list of raw records.
func loadFile(path string, unit TimestampUnit) ([]draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string][]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	for category := range raw {
		if _, ok := extractors[category]; !ok {
			log.Debug().Str("file", path).Str("category", category).Msg("unknown action category")
		}
	}

	// Fixed category order: the concatenated draft order feeds the stable
	// timestamp sort in assemble, so the dedup survivor among equal
	// timestamps must not depend on map iteration.
	var out []draft
	for _, category := range categoryOrder {
		records, ok := raw[category]
		if !ok {
			continue
		}
		extract := extractors[category]
		if len(records) == 0 {
			log.Debug().Str("file", path).Str("category", category).Msg("no records for category")
			continue
		}

		batch := make([]draft, 0, len(records))
		for _, rec := range records {
			batch = append(batch, extract(rec)...)
		}

		batch = dropMissingAsset(batch, path, category)
		normalizeTimestamps(batch, unit)
		out = append(out, batch...)
	}
	return out, nil
}

// dropMissingAsset removes drafts whose asset reference did not normalize to
// a symbol. Logged once per file/category, non-fatal.
func dropMissingAsset(batch []draft, path, category string) []draft {
	kept := batch[:0]
	missing := 0
	for _, d := range batch {
		if d.asset == "" {
			missing++
			continue
		}
		kept = append(kept, d)
	}
	if missing > 0 {
		log.Error().Str("file", path).Str("category", category).Int("records", missing).
			Msg("dropping records with missing asset field")
		observability.RecordRecordsDropped("missing_asset", missing)
	}
	return kept
}

// normalizeTimestamps converts raw epoch values in a per-file, per-category
// batch to canonical Unix milliseconds.
func normalizeTimestamps(batch []draft, unit TimestampUnit) {
	u := unit
	if u == UnitAuto {
		u = UnitSeconds
		for _, d := range batch {
			if d.hasTS && d.tsRaw > msThreshold {
				u = UnitMillis
				break
			}
		}
	}
	for i := range batch {
		if !batch[i].hasTS {
			continue
		}
		if u == UnitSeconds {
			batch[i].tsRaw *= 1000
		}
	}
}
