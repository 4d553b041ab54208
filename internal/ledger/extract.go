package ledger

import (
	"encoding/json"
	"strconv"

	"wallet-credit-score/internal/domain"
)

// draft is a partially normalized record. Zero/false fields mark values that
// were missing or unparsable; the assembly completeness filter removes drafts
// that never became whole.
type draft struct {
	wallet    string
	txHash    string
	tsRaw     float64
	hasTS     bool
	amountUSD float64
	hasAmount bool
	asset     string
	action    domain.ActionType
	relation  domain.Relation
}

// extractFunc normalizes one raw record of a known action category into zero
// or more drafts. One explicit function per category; no duck-typed probing.
type extractFunc func(rec map[string]any) []draft

// extractors maps the plural category names found in input files to their
// extraction variant.
var extractors = map[string]extractFunc{
	"deposits":   extractDeposit,
	"borrows":    extractBorrow,
	"repays":     extractRepay,
	"withdraws":  extractWithdraw,
	"liquidates": extractLiquidate,
}

// categoryOrder fixes the order categories are processed in within a file.
// Draft order decides the dedup survivor among equal timestamps, so it must
// be deterministic.
var categoryOrder = []string{"deposits", "borrows", "repays", "withdraws", "liquidates"}

func extractDeposit(rec map[string]any) []draft {
	d := baseDraft(rec)
	d.action = domain.ActionDeposit
	d.relation = domain.RelationNone
	d.wallet = addressRef(rec["account"])
	return []draft{d}
}

func extractBorrow(rec map[string]any) []draft {
	d := baseDraft(rec)
	d.action = domain.ActionBorrow
	d.relation = domain.RelationNone
	d.wallet = addressRef(rec["account"])
	return []draft{d}
}

func extractWithdraw(rec map[string]any) []draft {
	d := baseDraft(rec)
	d.action = domain.ActionWithdraw
	d.relation = domain.RelationNone
	d.wallet = addressRef(rec["account"])
	return []draft{d}
}

// extractRepay derives the wallet from the account reference and the payer
// relation from the payer reference: self_pay when the payer is the wallet
// itself, third_party_pay otherwise.
func extractRepay(rec map[string]any) []draft {
	d := baseDraft(rec)
	d.action = domain.ActionRepay
	d.wallet = addressRef(rec["account"])
	payer := addressRef(rec["payer"])
	if payer != "" && payer == d.wallet {
		d.relation = domain.RelationSelfPay
	} else {
		d.relation = domain.RelationThirdParty
	}
	return []draft{d}
}

// extractLiquidate fans one liquidation record out into two ledger entries:
// a liquidator_action keyed by the liquidator address and a liquidated_event
// keyed by the liquidated user. The synthetic twins get role-suffixed hashes
// so tx_hash stays globally unique after dedup without losing either side.
func extractLiquidate(rec map[string]any) []draft {
	base := baseDraft(rec)
	base.relation = domain.RelationNone

	var out []draft
	if liquidator := addressRef(rec["liquidator"]); liquidator != "" {
		d := base
		d.wallet = liquidator
		d.action = domain.ActionLiquidatorAction
		if d.txHash != "" {
			d.txHash += "#liquidator"
		}
		out = append(out, d)
	}
	if user := addressRef(rec["user"]); user != "" {
		d := base
		d.wallet = user
		d.action = domain.ActionLiquidatedEvent
		if d.txHash != "" {
			d.txHash += "#liquidated"
		}
		out = append(out, d)
	}
	return out
}

// baseDraft extracts the category-independent fields: transaction hash,
// timestamp, USD amount and asset symbol.
func baseDraft(rec map[string]any) draft {
	var d draft
	d.txHash = firstString(rec, "tx_hash", "hash", "transactionHash")
	d.tsRaw, d.hasTS = firstNumeric(rec, "timestamp", "blockTimestamp")
	d.amountUSD, d.hasAmount = toNumeric(rec["amountUSD"])
	d.asset = assetSymbol(rec["asset"])
	return d
}

// addressRef extracts a wallet address from either a plain string or an
// object carrying an "id" field.
func addressRef(v any) string {
	switch ref := v.(type) {
	case string:
		return ref
	case map[string]any:
		if id, ok := ref["id"].(string); ok {
			return id
		}
	}
	return ""
}

// assetSymbol flattens a nested asset reference (object with a "symbol"
// field) to the symbol string; plain strings pass through.
func assetSymbol(v any) string {
	switch ref := v.(type) {
	case string:
		return ref
	case map[string]any:
		if sym, ok := ref["symbol"].(string); ok {
			return sym
		}
	}
	return ""
}

func firstString(rec map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := rec[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func firstNumeric(rec map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := rec[k]; ok {
			return toNumeric(v)
		}
	}
	return 0, false
}

// toNumeric coerces a JSON value to float64. Unparsable values degrade to
// (0, false) and fall out in the completeness filter, not as hard errors.
func toNumeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}
