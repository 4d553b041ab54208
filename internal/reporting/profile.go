package reporting

import (
	"fmt"
	"strings"

	"wallet-credit-score/internal/features"
)

// RenderProfile renders per-feature distribution statistics as an aligned
// text table.
func RenderProfile(summaries []features.Summary) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-26s %12s %12s %12s\n", "feature", "mean", "std", "skew"))
	for _, s := range summaries {
		sb.WriteString(fmt.Sprintf("%-26s %12.4f %12.4f %12.4f\n", s.Feature, s.Mean, s.Std, s.Skew))
	}

	return sb.String()
}
