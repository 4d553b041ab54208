package domain

// Feature column names. The ordered set a FeatureTable was built with is
// carried in FeatureTable.Columns; the scorer only consumes columns that are
// actually present there.
const (
	FeatureRawDepositsUSD       = "raw_deposits_usd"
	FeatureRawBorrowsUSD        = "raw_borrows_usd"
	FeatureRepaymentRatio       = "repayment_ratio"
	FeatureNetCollateralFlow    = "net_collateral_flow"
	FeatureHealthFactor         = "health_factor"
	FeatureLiquidationCount     = "liquidation_count"
	FeatureEverLiquidated       = "ever_liquidated"
	FeatureAccountAgeDays       = "account_age_days"
	FeatureUniqueActiveDays     = "unique_active_days"
	FeatureTxCount              = "tx_count"
	FeatureAssetDiversity       = "asset_diversity"
	FeatureUSDAmountStd         = "usd_amount_std"
	FeatureMedianTxGapHours     = "median_tx_gap_hours"
	FeatureTxFreqPerDay         = "tx_freq_per_day"
	FeatureLogNetCollateralFlow = "log_net_collateral_flow"
	FeatureLogUSDAmountStd      = "log_usd_amount_std"
	FeatureLogAccountAgeDays    = "log_account_age_days"
	FeatureLogUniqueActiveDays  = "log_unique_active_days"
	FeatureLogMedianTxGapHours  = "log_median_tx_gap_hours"
	FeatureLogTxFreqPerDay      = "log_tx_freq_per_day"
)

// AllFeatureColumns is the canonical column order produced by the feature
// engine: fourteen base features followed by six log-transformed derivatives.
var AllFeatureColumns = []string{
	FeatureRawDepositsUSD,
	FeatureRawBorrowsUSD,
	FeatureRepaymentRatio,
	FeatureNetCollateralFlow,
	FeatureHealthFactor,
	FeatureLiquidationCount,
	FeatureEverLiquidated,
	FeatureAccountAgeDays,
	FeatureUniqueActiveDays,
	FeatureTxCount,
	FeatureAssetDiversity,
	FeatureUSDAmountStd,
	FeatureMedianTxGapHours,
	FeatureTxFreqPerDay,
	FeatureLogNetCollateralFlow,
	FeatureLogUSDAmountStd,
	FeatureLogAccountAgeDays,
	FeatureLogUniqueActiveDays,
	FeatureLogMedianTxGapHours,
	FeatureLogTxFreqPerDay,
}

// WalletFeatures holds the engineered feature vector for one wallet.
type WalletFeatures struct {
	Wallet string

	// Base features
	RawDepositsUSD    float64 // sum of deposit amounts (USD)
	RawBorrowsUSD     float64 // sum of borrow amounts (USD)
	RepaymentRatio    float64 // repaid/borrowed, forced to 1 with no debt, capped at 1
	NetCollateralFlow float64 // deposits minus withdrawals (USD)
	HealthFactor      float64 // net collateral flow over borrows
	LiquidationCount  float64 // distinct liquidated_event transactions
	EverLiquidated    float64 // 1 if LiquidationCount > 0, else 0
	AccountAgeDays    float64 // whole days between first and last transaction
	UniqueActiveDays  float64 // distinct calendar days with activity
	TxCount           float64 // total transactions
	AssetDiversity    float64 // distinct assets touched
	USDAmountStd      float64 // sample stddev of per-transaction amounts
	MedianTxGapHours  float64 // median gap between consecutive transactions
	TxFreqPerDay      float64 // transactions per active day

	// Log-transformed, p99-winsorized derivatives
	LogNetCollateralFlow float64
	LogUSDAmountStd      float64
	LogAccountAgeDays    float64
	LogUniqueActiveDays  float64
	LogMedianTxGapHours  float64
	LogTxFreqPerDay      float64
}

// Value returns the named feature value. The second return is false for an
// unknown column name.
func (f *WalletFeatures) Value(column string) (float64, bool) {
	switch column {
	case FeatureRawDepositsUSD:
		return f.RawDepositsUSD, true
	case FeatureRawBorrowsUSD:
		return f.RawBorrowsUSD, true
	case FeatureRepaymentRatio:
		return f.RepaymentRatio, true
	case FeatureNetCollateralFlow:
		return f.NetCollateralFlow, true
	case FeatureHealthFactor:
		return f.HealthFactor, true
	case FeatureLiquidationCount:
		return f.LiquidationCount, true
	case FeatureEverLiquidated:
		return f.EverLiquidated, true
	case FeatureAccountAgeDays:
		return f.AccountAgeDays, true
	case FeatureUniqueActiveDays:
		return f.UniqueActiveDays, true
	case FeatureTxCount:
		return f.TxCount, true
	case FeatureAssetDiversity:
		return f.AssetDiversity, true
	case FeatureUSDAmountStd:
		return f.USDAmountStd, true
	case FeatureMedianTxGapHours:
		return f.MedianTxGapHours, true
	case FeatureTxFreqPerDay:
		return f.TxFreqPerDay, true
	case FeatureLogNetCollateralFlow:
		return f.LogNetCollateralFlow, true
	case FeatureLogUSDAmountStd:
		return f.LogUSDAmountStd, true
	case FeatureLogAccountAgeDays:
		return f.LogAccountAgeDays, true
	case FeatureLogUniqueActiveDays:
		return f.LogUniqueActiveDays, true
	case FeatureLogMedianTxGapHours:
		return f.LogMedianTxGapHours, true
	case FeatureLogTxFreqPerDay:
		return f.LogTxFreqPerDay, true
	}
	return 0, false
}

// FeatureTable is the per-wallet feature matrix produced by the feature
// engine. Rows are ordered by wallet ascending. Columns records the ordered
// feature set the table carries; tables built by the engine carry
// AllFeatureColumns.
type FeatureTable struct {
	Columns []string
	Rows    []*WalletFeatures
}

// HasColumn reports whether the table carries the named feature column.
func (t *FeatureTable) HasColumn(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}
