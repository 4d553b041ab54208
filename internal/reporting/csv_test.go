package reporting

import (
	"strings"
	"testing"

	"wallet-credit-score/internal/domain"
)

func scoredTable(wallets []string, scores []int) *domain.ScoredTable {
	t := &domain.ScoredTable{}
	for i := range wallets {
		t.Rows = append(t.Rows, &domain.ScoredWallet{
			WalletFeatures: domain.WalletFeatures{Wallet: wallets[i]},
			Score:          scores[i],
		})
	}
	return t
}

func TestRenderTopK(t *testing.T) {
	table := scoredTable(
		[]string{"0xaaa", "0xbbb", "0xccc"},
		[]int{90, 75, 40},
	)

	out := RenderTopK(table, 2)

	want := "wallet,score\n0xaaa,90\n0xbbb,75\n"
	if out != want {
		t.Errorf("RenderTopK:\ngot  %q\nwant %q", out, want)
	}
}

func TestRenderTopK_KExceedsRows(t *testing.T) {
	table := scoredTable([]string{"0xaaa"}, []int{55})

	out := RenderTopK(table, 1000)

	if strings.Count(out, "\n") != 2 {
		t.Errorf("Expected header plus 1 row, got %q", out)
	}
}

func TestRenderTopK_Empty(t *testing.T) {
	out := RenderTopK(&domain.ScoredTable{}, 10)
	if out != "wallet,score\n" {
		t.Errorf("Expected header only, got %q", out)
	}
}
