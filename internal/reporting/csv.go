// Package reporting renders pipeline outputs for export.
package reporting

import (
	"fmt"
	"strings"

	"wallet-credit-score/internal/domain"
)

// RenderTopK renders the top-k scored wallets as CSV, descending by score.
func RenderTopK(table *domain.ScoredTable, k int) string {
	var sb strings.Builder

	sb.WriteString("wallet,score\n")
	for _, row := range table.TopK(k) {
		sb.WriteString(fmt.Sprintf("%s,%d\n", row.Wallet, row.Score))
	}

	return sb.String()
}
