package domain

// ScoredWallet is a wallet's feature vector extended with sub-scores and the
// final integer credit score. Corresponds to wallet_scores table in Postgres.
type ScoredWallet struct {
	WalletFeatures

	HealthScore float64 // mean of normalized health-group features
	TrustScore  float64 // mean of normalized trust-group features
	RiskScore   float64 // mean of normalized (inverted) risk-group features
	RawScore    float64 // weighted composite after overrides
	Score       int     // round(clip(raw,0,1)*100), in [0,100]
}

// ScoredTable is the scorer output, ordered by Score descending with wallet
// ascending as tie-break.
type ScoredTable struct {
	Rows []*ScoredWallet
}

// TopK returns the first k rows (all rows when k exceeds the table size).
func (t *ScoredTable) TopK(k int) []*ScoredWallet {
	if k < 0 {
		k = 0
	}
	if k > len(t.Rows) {
		k = len(t.Rows)
	}
	return t.Rows[:k]
}
