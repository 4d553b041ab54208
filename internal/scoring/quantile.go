package scoring

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"wallet-credit-score/internal/domain"
)

// Quantile resolution bounds: clamp(wallet_count/10, 2, 100).
const (
	minQuantiles = 2
	maxQuantiles = 100
)

// Normalizer maps each feature's empirical distribution to the uniform
// range [0,1] via a quantile-rank transform. It is valid only for the
// ordered feature list it was fit on; once persisted it is reused unmodified
// so scores stay comparable across repeated and weight-variant runs.
type Normalizer struct {
	Features   []string             `json:"features"`
	NQuantiles int                  `json:"n_quantiles"`
	References []float64            `json:"references"` // quantile levels, linspace [0,1]
	Quantiles  map[string][]float64 `json:"quantiles"`  // per feature, aligned with References
}

// Fit builds a normalizer from the current feature table for the given
// ordered feature list.
func Fit(table *domain.FeatureTable, features []string) *Normalizer {
	n := len(table.Rows)
	nq := n / 10
	if nq < minQuantiles {
		nq = minQuantiles
	}
	if nq > maxQuantiles {
		nq = maxQuantiles
	}

	refs := make([]float64, nq)
	for i := range refs {
		refs[i] = float64(i) / float64(nq-1)
	}

	norm := &Normalizer{
		Features:   append([]string(nil), features...),
		NQuantiles: nq,
		References: refs,
		Quantiles:  make(map[string][]float64, len(features)),
	}

	for _, feat := range features {
		values := make([]float64, 0, n)
		for _, row := range table.Rows {
			if v, ok := row.Value(feat); ok {
				values = append(values, v)
			}
		}
		sort.Float64s(values)

		qs := make([]float64, nq)
		for i, p := range refs {
			qs[i] = quantileAt(values, p)
		}
		norm.Quantiles[feat] = qs
	}

	return norm
}

// Transform maps a raw feature value into [0,1] by piecewise-linear
// interpolation against the fitted quantiles. Values outside the fitted
// range clamp to 0 or 1.
func (n *Normalizer) Transform(feature string, x float64) float64 {
	qs, ok := n.Quantiles[feature]
	if !ok || len(qs) == 0 {
		return 0
	}
	refs := n.References

	last := len(qs) - 1
	if x <= qs[0] {
		return refs[0]
	}
	if x >= qs[last] {
		return refs[last]
	}

	// Smallest i with qs[i] >= x; qs[i-1] < x.
	i := sort.SearchFloat64s(qs, x)
	if qs[i] == x {
		return refs[i]
	}
	lo, hi := qs[i-1], qs[i]
	return refs[i-1] + (x-lo)/(hi-lo)*(refs[i]-refs[i-1])
}

// quantileAt computes the p-quantile with linear interpolation on sorted
// values (index = p*(n-1)).
func quantileAt(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// LoadNormalizer reads a persisted normalizer artifact. The artifact is
// opaque to callers: no cross-validation against the current feature schema
// is performed.
func LoadNormalizer(path string) (*Normalizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read normalizer %s: %w", path, err)
	}
	var n Normalizer
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("parse normalizer %s: %w", path, err)
	}
	return &n, nil
}

// SaveNormalizer persists a fitted normalizer to path.
func SaveNormalizer(path string, n *Normalizer) error {
	data, err := json.MarshalIndent(n, "", "  ")
	if err != nil {
		return fmt.Errorf("encode normalizer: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write normalizer %s: %w", path, err)
	}
	return nil
}
