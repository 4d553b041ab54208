package ledger

import (
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/observability"
)

// assemble applies the final normalization steps to the concatenated drafts:
// completeness filter, ascending timestamp sort, first-wins tx_hash dedup,
// wallet lowercasing.
func assemble(drafts []draft) []domain.LedgerEntry {
	complete := drafts[:0]
	for _, d := range drafts {
		if d.wallet == "" || d.txHash == "" || !d.hasTS || !d.hasAmount || d.asset == "" {
			continue
		}
		complete = append(complete, d)
	}

	// Stable sort keeps input order among equal timestamps, so the dedup
	// below deterministically keeps the earliest occurrence.
	sort.SliceStable(complete, func(i, j int) bool {
		return complete[i].tsRaw < complete[j].tsRaw
	})

	seen := make(map[string]struct{}, len(complete))
	ledger := make([]domain.LedgerEntry, 0, len(complete))
	duplicates := 0
	for _, d := range complete {
		if _, ok := seen[d.txHash]; ok {
			duplicates++
			continue
		}
		seen[d.txHash] = struct{}{}
		ledger = append(ledger, domain.LedgerEntry{
			Wallet:      strings.ToLower(d.wallet),
			TxHash:      d.txHash,
			TimestampMs: int64(d.tsRaw),
			ActionType:  d.action,
			AmountUSD:   d.amountUSD,
			Asset:       d.asset,
			Relation:    d.relation,
		})
	}
	if duplicates > 0 {
		log.Info().Int("dropped", duplicates).Msg("dropped duplicate transactions")
		observability.RecordRecordsDropped("duplicate_tx", duplicates)
	}
	observability.RecordEntriesNormalized(len(ledger))
	return ledger
}
