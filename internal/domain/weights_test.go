package domain

import (
	"errors"
	"testing"
)

func TestWeightsValidate(t *testing.T) {
	if err := DefaultWeights.Validate(); err != nil {
		t.Fatalf("default weights must validate: %v", err)
	}
	if err := (Weights{Health: 0.5, Trust: 0.5, Risk: 0.5}).Validate(); !errors.Is(err, ErrInvalidWeights) {
		t.Fatalf("Expected ErrInvalidWeights, got %v", err)
	}
	// Floating point slack within tolerance is accepted.
	if err := (Weights{Health: 0.3, Trust: 0.3, Risk: 0.4 + 1e-9}).Validate(); err != nil {
		t.Errorf("tolerance not applied: %v", err)
	}
}

func TestWeightsFromMap(t *testing.T) {
	w, err := WeightsFromMap(map[string]float64{"health": 0.6, "trust": 0.2, "risk": 0.2})
	if err != nil {
		t.Fatalf("WeightsFromMap failed: %v", err)
	}
	if w.Health != 0.6 || w.Trust != 0.2 || w.Risk != 0.2 {
		t.Errorf("got %+v", w)
	}

	bad := []map[string]float64{
		{"health": 0.8, "trust": 0.2},                           // missing key
		{"health": 0.4, "trust": 0.3, "risk": 0.2, "luck": 0.1}, // extra key
		{"health": 0.4, "trust": 0.3, "confidence": 0.3},        // wrong key
		{"health": 0.5, "trust": 0.3, "risk": 0.3},              // bad sum
	}
	for i, m := range bad {
		if _, err := WeightsFromMap(m); !errors.Is(err, ErrInvalidWeights) {
			t.Errorf("case %d: expected ErrInvalidWeights, got %v", i, err)
		}
	}
}

func TestScoredTableTopK(t *testing.T) {
	table := &ScoredTable{Rows: []*ScoredWallet{
		{WalletFeatures: WalletFeatures{Wallet: "0xaaa"}, Score: 90},
		{WalletFeatures: WalletFeatures{Wallet: "0xbbb"}, Score: 70},
	}}

	if got := table.TopK(1); len(got) != 1 || got[0].Wallet != "0xaaa" {
		t.Errorf("TopK(1): got %v", got)
	}
	if got := table.TopK(10); len(got) != 2 {
		t.Errorf("TopK beyond size: got %d rows", len(got))
	}
	if got := table.TopK(-1); len(got) != 0 {
		t.Errorf("TopK(-1): got %d rows", len(got))
	}
}
