// Package main runs weight-sensitivity analysis on the scoring model:
// the top-K leaderboard is recomputed under alternative weightings against
// one shared persisted normalizer and compared by Jaccard similarity.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/features"
	"wallet-credit-score/internal/ledger"
	"wallet-credit-score/internal/scoring"
)

// stableThreshold is the Jaccard similarity above which the leaderboard is
// considered stable under a weight variation.
const stableThreshold = 0.8

func main() {
	dataDir := flag.String("data-dir", "data", "JSON input directory")
	outputDir := flag.String("output-dir", "output", "Directory for the shared normalizer")
	tsUnit := flag.String("ts-unit", "auto", "Timestamp unit: s, ms, or auto")
	topK := flag.Int("topk", 1000, "Top-K wallets to include in Jaccard sets")
	verbose := flag.Bool("verbose", false, "Verbose logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", *outputDir).Msg("create output directory")
	}

	entries, err := ledger.LoadDirectory(*dataDir, ledger.Options{
		TimestampUnit: ledger.TimestampUnit(*tsUnit),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("load transactions")
	}

	table := features.Compute(entries)

	// All variants score against the same persisted normalizer, so the
	// leaderboard differences reflect weights alone.
	normalizerPath := filepath.Join(*outputDir, "sensitivity_normalizer.json")

	variants := []struct {
		name    string
		weights domain.Weights
	}{
		{"base", domain.Weights{Health: 0.45, Trust: 0.35, Risk: 0.20}},
		{"alt1", domain.Weights{Health: 0.60, Trust: 0.20, Risk: 0.20}},
		{"alt2", domain.Weights{Health: 0.40, Trust: 0.40, Risk: 0.20}},
	}

	tops := make(map[string]map[string]struct{}, len(variants))
	for _, v := range variants {
		log.Info().Str("variant", v.name).Msg("scoring with weight variant")
		scored, err := scoring.Score(table, v.weights, normalizerPath)
		if err != nil {
			log.Fatal().Err(err).Str("variant", v.name).Msg("scoring failed")
		}
		set := make(map[string]struct{}, *topK)
		for _, row := range scored.TopK(*topK) {
			set[row.Wallet] = struct{}{}
		}
		tops[v.name] = set
	}

	j1 := jaccard(tops["base"], tops["alt1"])
	j2 := jaccard(tops["base"], tops["alt2"])
	fmt.Printf("Jaccard(base, alt1) = %.3f\n", j1)
	fmt.Printf("Jaccard(base, alt2) = %.3f\n", j2)
	if j1 > stableThreshold && j2 > stableThreshold {
		fmt.Println("Stable leaderboard under weight variations.")
	} else {
		fmt.Println("Significant sensitivity detected.")
	}
}

// jaccard computes |a∩b| / |a∪b|, 0 for two empty sets.
func jaccard(a, b map[string]struct{}) float64 {
	intersection := 0
	for w := range a {
		if _, ok := b[w]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
