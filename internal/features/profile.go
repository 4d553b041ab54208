package features

import "wallet-credit-score/internal/domain"

// Summary holds distribution statistics for one feature column.
type Summary struct {
	Feature string
	Mean    float64
	Std     float64
	Skew    float64
}

// Profile summarizes every column of the feature table, in column order.
func Profile(table *domain.FeatureTable) []Summary {
	summaries := make([]Summary, 0, len(table.Columns))
	for _, col := range table.Columns {
		values := make([]float64, 0, len(table.Rows))
		for _, row := range table.Rows {
			if v, ok := row.Value(col); ok {
				values = append(values, v)
			}
		}
		summaries = append(summaries, Summary{
			Feature: col,
			Mean:    mean(values),
			Std:     sampleStddev(values),
			Skew:    skewness(values),
		})
	}
	return summaries
}
