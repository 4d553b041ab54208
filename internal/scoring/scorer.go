// Package scoring converts per-wallet feature vectors into
// distribution-normalized, weighted composite credit scores.
package scoring

import (
	"errors"
	"math"
	"os"
	"sort"

	"github.com/rs/zerolog/log"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/observability"
)

// ErrNoFeatures is returned when none of the configured group features are
// present in the input table.
var ErrNoFeatures = errors.New("no features found for scoring")

// Override multipliers applied to the raw composite, in this order.
const (
	liquidatedPenalty = 0.2 // ever_liquidated = 1
	lowRepayPenalty   = 0.5 // repayment_ratio < 0.8
	lowRepayThreshold = 0.8
)

// Score normalizes the scorable features, combines them into health/trust/
// risk sub-scores, applies the deterministic overrides and emits the final
// 0-100 integer score per wallet, sorted by score descending with wallet
// ascending as tie-break.
//
// When normalizerPath names an existing file the persisted normalizer is
// loaded and reused unmodified; otherwise one is fit on the input table and,
// if a path was given, persisted there. An empty (zero-row) table yields an
// empty scored table with no error and leaves the normalizer untouched.
func Score(table *domain.FeatureTable, weights domain.Weights, normalizerPath string) (*domain.ScoredTable, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	if len(table.Rows) == 0 {
		log.Warn().Msg("feature table is empty, nothing to score")
		return &domain.ScoredTable{}, nil
	}

	feats := scorableFeatures(table)
	if len(feats) == 0 {
		return nil, ErrNoFeatures
	}

	norm, err := loadOrFit(table, feats, normalizerPath)
	if err != nil {
		return nil, err
	}

	rows := make([]*domain.ScoredWallet, 0, len(table.Rows))
	liquidated, lowRepay := 0, 0
	for _, f := range table.Rows {
		scaled := make(map[string]float64, len(feats))
		for _, feat := range feats {
			v, _ := f.Value(feat)
			s := norm.Transform(feat, v)
			if _, neg := negativeFeatures[feat]; neg {
				s = 1 - s
			}
			scaled[feat] = s
		}

		row := &domain.ScoredWallet{WalletFeatures: *f}
		raw := 0.0
		for _, g := range scoreGroups {
			sum, count := 0.0, 0
			for _, feat := range g.features {
				if s, ok := scaled[feat]; ok {
					sum += s
					count++
				}
			}
			groupScore := 0.0
			if count > 0 {
				groupScore = sum / float64(count)
			}
			g.set(row, groupScore)
			raw += groupScore * g.weight(weights)
		}

		if f.EverLiquidated == 1 {
			raw *= liquidatedPenalty
			liquidated++
		}
		if f.RepaymentRatio < lowRepayThreshold {
			raw *= lowRepayPenalty
			lowRepay++
		}

		row.RawScore = raw
		row.Score = int(math.Round(clip01(raw) * 100))
		rows = append(rows, row)
	}

	log.Info().Int("liquidated", liquidated).Int("low_repay", lowRepay).
		Msg("applied score overrides")

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].Wallet < rows[j].Wallet
	})

	return &domain.ScoredTable{Rows: rows}, nil
}

// scorableFeatures returns the configured group features actually present in
// the table, in fixed group order.
func scorableFeatures(table *domain.FeatureTable) []string {
	var feats []string
	for _, g := range scoreGroups {
		for _, feat := range g.features {
			if table.HasColumn(feat) {
				feats = append(feats, feat)
			}
		}
	}
	return feats
}

// loadOrFit reuses a persisted normalizer when one exists at path, otherwise
// fits one on the current table and persists it when a path was given.
func loadOrFit(table *domain.FeatureTable, feats []string, path string) (*Normalizer, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			norm, err := LoadNormalizer(path)
			if err != nil {
				return nil, err
			}
			log.Info().Str("path", path).Msg("loaded persisted normalizer")
			observability.RecordNormalizerLoad()
			return norm, nil
		}
	}

	norm := Fit(table, feats)
	if path != "" {
		if err := SaveNormalizer(path, norm); err != nil {
			return nil, err
		}
		log.Info().Str("path", path).Int("quantiles", norm.NQuantiles).
			Msg("saved fitted normalizer")
		observability.RecordNormalizerFit()
	}
	return norm, nil
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
