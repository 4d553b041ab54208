package postgres

import (
	"context"
	"fmt"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/storage"
)

// ScoreStore implements storage.ScoreStore using PostgreSQL.
type ScoreStore struct {
	pool *Pool
}

// NewScoreStore creates a new ScoreStore.
func NewScoreStore(pool *Pool) *ScoreStore {
	return &ScoreStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ScoreStore = (*ScoreStore)(nil)

const insertScoreQuery = `
	INSERT INTO wallet_scores (
		run_id, wallet,
		raw_deposits_usd, raw_borrows_usd, repayment_ratio,
		net_collateral_flow, health_factor,
		liquidation_count, ever_liquidated,
		account_age_days, unique_active_days, tx_count, asset_diversity,
		usd_amount_std, median_tx_gap_hours, tx_freq_per_day,
		log_net_collateral_flow, log_usd_amount_std, log_account_age_days,
		log_unique_active_days, log_median_tx_gap_hours, log_tx_freq_per_day,
		health_score, trust_score, risk_score, raw_score, score
	) VALUES (
		$1, $2,
		$3, $4, $5,
		$6, $7,
		$8, $9,
		$10, $11, $12, $13,
		$14, $15, $16,
		$17, $18, $19,
		$20, $21, $22,
		$23, $24, $25, $26, $27
	)
`

// InsertRun persists the scored rows of one pipeline run atomically.
// Fails the entire batch if the (run_id, wallet) key already exists.
func (s *ScoreStore) InsertRun(ctx context.Context, runID string, rows []*domain.ScoredWallet) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range rows {
		_, err := tx.Exec(ctx, insertScoreQuery,
			runID, r.Wallet,
			r.RawDepositsUSD, r.RawBorrowsUSD, r.RepaymentRatio,
			r.NetCollateralFlow, r.HealthFactor,
			r.LiquidationCount, r.EverLiquidated,
			r.AccountAgeDays, r.UniqueActiveDays, r.TxCount, r.AssetDiversity,
			r.USDAmountStd, r.MedianTxGapHours, r.TxFreqPerDay,
			r.LogNetCollateralFlow, r.LogUSDAmountStd, r.LogAccountAgeDays,
			r.LogUniqueActiveDays, r.LogMedianTxGapHours, r.LogTxFreqPerDay,
			r.HealthScore, r.TrustScore, r.RiskScore, r.RawScore, r.Score,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert wallet score: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

const selectScoreColumns = `
	wallet,
	raw_deposits_usd, raw_borrows_usd, repayment_ratio,
	net_collateral_flow, health_factor,
	liquidation_count, ever_liquidated,
	account_age_days, unique_active_days, tx_count, asset_diversity,
	usd_amount_std, median_tx_gap_hours, tx_freq_per_day,
	log_net_collateral_flow, log_usd_amount_std, log_account_age_days,
	log_unique_active_days, log_median_tx_gap_hours, log_tx_freq_per_day,
	health_score, trust_score, risk_score, raw_score, score
`

// GetRun retrieves all rows of a run, ordered by score DESC, wallet ASC.
func (s *ScoreStore) GetRun(ctx context.Context, runID string) ([]*domain.ScoredWallet, error) {
	query := `
		SELECT ` + selectScoreColumns + `
		FROM wallet_scores
		WHERE run_id = $1
		ORDER BY score DESC, wallet ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query wallet scores: %w", err)
	}
	defer rows.Close()

	var out []*domain.ScoredWallet
	for rows.Next() {
		r, err := scanScoredWallet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet scores: %w", err)
	}
	if len(out) == 0 {
		return nil, storage.ErrNotFound
	}
	return out, nil
}

// GetWallet retrieves one wallet's row within a run.
func (s *ScoreStore) GetWallet(ctx context.Context, runID, wallet string) (*domain.ScoredWallet, error) {
	query := `
		SELECT ` + selectScoreColumns + `
		FROM wallet_scores
		WHERE run_id = $1 AND wallet = $2
	`

	row := s.pool.QueryRow(ctx, query, runID, wallet)
	r, err := scanScoredWallet(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

// rowScanner abstracts pgx.Row and pgx.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanScoredWallet(row rowScanner) (*domain.ScoredWallet, error) {
	var r domain.ScoredWallet
	err := row.Scan(
		&r.Wallet,
		&r.RawDepositsUSD, &r.RawBorrowsUSD, &r.RepaymentRatio,
		&r.NetCollateralFlow, &r.HealthFactor,
		&r.LiquidationCount, &r.EverLiquidated,
		&r.AccountAgeDays, &r.UniqueActiveDays, &r.TxCount, &r.AssetDiversity,
		&r.USDAmountStd, &r.MedianTxGapHours, &r.TxFreqPerDay,
		&r.LogNetCollateralFlow, &r.LogUSDAmountStd, &r.LogAccountAgeDays,
		&r.LogUniqueActiveDays, &r.LogMedianTxGapHours, &r.LogTxFreqPerDay,
		&r.HealthScore, &r.TrustScore, &r.RiskScore, &r.RawScore, &r.Score,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
