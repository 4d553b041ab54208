package scoring

import "wallet-credit-score/internal/domain"

// scoreGroup is one sub-score: a named set of member features averaged after
// normalization.
type scoreGroup struct {
	name     string
	features []string
	weight   func(domain.Weights) float64
	set      func(*domain.ScoredWallet, float64)
}

// scoreGroups is the fixed health/trust/risk feature grouping. Order matters:
// it defines the feature ordering a normalizer is fit (and persisted) with.
var scoreGroups = []scoreGroup{
	{
		name: "health",
		features: []string{
			domain.FeatureHealthFactor,
			domain.FeatureRepaymentRatio,
			domain.FeatureLogNetCollateralFlow,
		},
		weight: func(w domain.Weights) float64 { return w.Health },
		set:    func(s *domain.ScoredWallet, v float64) { s.HealthScore = v },
	},
	{
		name: "trust",
		features: []string{
			domain.FeatureLogAccountAgeDays,
			domain.FeatureLogUniqueActiveDays,
			domain.FeatureLogMedianTxGapHours,
		},
		weight: func(w domain.Weights) float64 { return w.Trust },
		set:    func(s *domain.ScoredWallet, v float64) { s.TrustScore = v },
	},
	{
		name: "risk",
		features: []string{
			domain.FeatureLiquidationCount,
			domain.FeatureLogTxFreqPerDay,
			domain.FeatureLogUSDAmountStd,
			domain.FeatureAssetDiversity,
		},
		weight: func(w domain.Weights) float64 { return w.Risk },
		set:    func(s *domain.ScoredWallet, v float64) { s.RiskScore = v },
	},
}

// negativeFeatures are features where a larger raw value is worse; their
// normalized values are inverted so higher always means better.
var negativeFeatures = map[string]struct{}{
	domain.FeatureLiquidationCount: {},
	domain.FeatureLogTxFreqPerDay:  {},
	domain.FeatureLogUSDAmountStd:  {},
}
