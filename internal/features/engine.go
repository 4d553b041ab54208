// Package features aggregates the unified ledger into per-wallet feature
// vectors.
package features

import (
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"wallet-credit-score/internal/domain"
)

// EPS guards ratio denominators and log arguments throughout the pipeline.
const EPS = 1e-9

const (
	msPerDay  = 86_400_000
	msPerHour = 3_600_000
)

// Compute derives the per-wallet feature table from a normalized ledger.
// An empty ledger yields an empty table immediately.
func Compute(entries []domain.LedgerEntry) *domain.FeatureTable {
	if len(entries) == 0 {
		log.Warn().Msg("input ledger is empty, returning empty feature table")
		return &domain.FeatureTable{}
	}

	log.Info().Int("records", len(entries)).Msg("starting feature engineering")

	byWallet := make(map[string][]domain.LedgerEntry)
	for _, e := range entries {
		byWallet[e.Wallet] = append(byWallet[e.Wallet], e)
	}

	wallets := make([]string, 0, len(byWallet))
	for w := range byWallet {
		wallets = append(wallets, w)
	}
	sort.Strings(wallets)

	rows := make([]*domain.WalletFeatures, 0, len(wallets))
	for _, w := range wallets {
		rows = append(rows, computeBase(w, byWallet[w]))
	}

	computeLogDerivatives(rows)

	log.Info().Int("wallets", len(rows)).Int("features", len(domain.AllFeatureColumns)).
		Msg("completed feature engineering")
	return &domain.FeatureTable{Columns: domain.AllFeatureColumns, Rows: rows}
}

// computeBase derives the fourteen base features for one wallet.
func computeBase(wallet string, entries []domain.LedgerEntry) *domain.WalletFeatures {
	f := &domain.WalletFeatures{Wallet: wallet}

	// Per-wallet chronological order; ledger order is already ascending but
	// grouping must not depend on it.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TimestampMs < entries[j].TimestampMs
	})

	var depositSum, borrowSum, repaySum, withdrawSum float64
	liquidatedHashes := make(map[string]struct{})
	assets := make(map[string]struct{})
	activeDays := make(map[int64]struct{})
	amounts := make([]float64, 0, len(entries))

	for _, e := range entries {
		switch e.ActionType {
		case domain.ActionDeposit:
			depositSum += e.AmountUSD
		case domain.ActionBorrow:
			borrowSum += e.AmountUSD
		case domain.ActionRepay:
			repaySum += e.AmountUSD
		case domain.ActionWithdraw:
			withdrawSum += e.AmountUSD
		case domain.ActionLiquidatedEvent:
			liquidatedHashes[e.TxHash] = struct{}{}
		}
		assets[e.Asset] = struct{}{}
		activeDays[e.TimestampMs/msPerDay] = struct{}{}
		amounts = append(amounts, e.AmountUSD)
	}

	f.RawDepositsUSD = depositSum
	f.RawBorrowsUSD = borrowSum

	// No debt is treated as fully repaid.
	if borrowSum < EPS {
		f.RepaymentRatio = 1.0
	} else {
		f.RepaymentRatio = math.Min(repaySum/(borrowSum+EPS), 1.0)
	}

	f.NetCollateralFlow = depositSum - withdrawSum
	f.HealthFactor = f.NetCollateralFlow / (borrowSum + EPS)

	f.LiquidationCount = float64(len(liquidatedHashes))
	if f.LiquidationCount > 0 {
		f.EverLiquidated = 1
	}

	first := entries[0].TimestampMs
	last := entries[len(entries)-1].TimestampMs
	f.AccountAgeDays = float64((last - first) / msPerDay)
	f.UniqueActiveDays = float64(len(activeDays))
	f.TxCount = float64(len(entries))
	f.AssetDiversity = float64(len(assets))
	f.USDAmountStd = sampleStddev(amounts)

	if len(entries) >= 2 {
		gaps := make([]float64, 0, len(entries)-1)
		for i := 1; i < len(entries); i++ {
			gaps = append(gaps, float64(entries[i].TimestampMs-entries[i-1].TimestampMs)/msPerHour)
		}
		f.MedianTxGapHours = median(gaps)
	}

	denom := f.UniqueActiveDays
	if denom < 1 {
		denom = 1
	}
	f.TxFreqPerDay = f.TxCount / denom

	return f
}

// logDerivative describes one log(1 + base + shift) feature and its
// accessors. The shift guarantees a positive log argument; for
// net_collateral_flow it is derived from the table-wide minimum.
type logDerivative struct {
	name string
	base func(*domain.WalletFeatures) float64
	set  func(*domain.WalletFeatures, float64)
}

var logDerivatives = []logDerivative{
	{
		name: domain.FeatureLogNetCollateralFlow,
		base: func(f *domain.WalletFeatures) float64 { return f.NetCollateralFlow },
		set:  func(f *domain.WalletFeatures, v float64) { f.LogNetCollateralFlow = v },
	},
	{
		name: domain.FeatureLogUSDAmountStd,
		base: func(f *domain.WalletFeatures) float64 { return f.USDAmountStd },
		set:  func(f *domain.WalletFeatures, v float64) { f.LogUSDAmountStd = v },
	},
	{
		name: domain.FeatureLogAccountAgeDays,
		base: func(f *domain.WalletFeatures) float64 { return f.AccountAgeDays },
		set:  func(f *domain.WalletFeatures, v float64) { f.LogAccountAgeDays = v },
	},
	{
		name: domain.FeatureLogUniqueActiveDays,
		base: func(f *domain.WalletFeatures) float64 { return f.UniqueActiveDays },
		set:  func(f *domain.WalletFeatures, v float64) { f.LogUniqueActiveDays = v },
	},
	{
		name: domain.FeatureLogMedianTxGapHours,
		base: func(f *domain.WalletFeatures) float64 { return f.MedianTxGapHours },
		set:  func(f *domain.WalletFeatures, v float64) { f.LogMedianTxGapHours = v },
	},
	{
		name: domain.FeatureLogTxFreqPerDay,
		base: func(f *domain.WalletFeatures) float64 { return f.TxFreqPerDay },
		set:  func(f *domain.WalletFeatures, v float64) { f.LogTxFreqPerDay = v },
	},
}

// computeLogDerivatives fills the six log-transformed features and winsorizes
// each at its own 99th percentile across wallets.
func computeLogDerivatives(rows []*domain.WalletFeatures) {
	if len(rows) == 0 {
		return
	}

	minFlow := rows[0].NetCollateralFlow
	for _, f := range rows[1:] {
		if f.NetCollateralFlow < minFlow {
			minFlow = f.NetCollateralFlow
		}
	}

	for _, d := range logDerivatives {
		shift := EPS
		if d.name == domain.FeatureLogNetCollateralFlow {
			shift = -minFlow + EPS
		}

		values := make([]float64, len(rows))
		for i, f := range rows {
			values[i] = math.Log1p(d.base(f) + shift)
		}

		sorted := make([]float64, len(values))
		copy(sorted, values)
		sort.Float64s(sorted)
		p99 := percentile(sorted, 0.99)
		log.Debug().Str("feature", d.name).Float64("cap", p99).Msg("winsorizing at p99")

		for i, f := range rows {
			d.set(f, math.Min(values[i], p99))
		}
	}
}
