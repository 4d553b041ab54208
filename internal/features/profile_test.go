package features

import (
	"math"
	"testing"

	"wallet-credit-score/internal/domain"
)

func TestProfile(t *testing.T) {
	table := &domain.FeatureTable{
		Columns: []string{domain.FeatureHealthFactor, domain.FeatureTxCount},
		Rows: []*domain.WalletFeatures{
			{Wallet: "0xaaa", HealthFactor: 1.0, TxCount: 10},
			{Wallet: "0xbbb", HealthFactor: 2.0, TxCount: 20},
			{Wallet: "0xccc", HealthFactor: 3.0, TxCount: 30},
		},
	}

	summaries := Profile(table)

	if len(summaries) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].Feature != domain.FeatureHealthFactor {
		t.Errorf("column order not preserved: %q first", summaries[0].Feature)
	}
	if math.Abs(summaries[0].Mean-2.0) > 1e-9 {
		t.Errorf("mean: got %v, want 2", summaries[0].Mean)
	}
	if math.Abs(summaries[0].Std-1.0) > 1e-9 {
		t.Errorf("std: got %v, want 1", summaries[0].Std)
	}
	if math.Abs(summaries[0].Skew) > 1e-9 {
		t.Errorf("skew of symmetric values: got %v, want 0", summaries[0].Skew)
	}
}

func TestProfile_EmptyTable(t *testing.T) {
	summaries := Profile(&domain.FeatureTable{})
	if len(summaries) != 0 {
		t.Errorf("Expected no summaries, got %d", len(summaries))
	}
}
