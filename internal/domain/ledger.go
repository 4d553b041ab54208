package domain

// ActionType is the lending-protocol operation category of a ledger entry.
type ActionType string

const (
	ActionDeposit          ActionType = "deposit"
	ActionBorrow           ActionType = "borrow"
	ActionRepay            ActionType = "repay"
	ActionWithdraw         ActionType = "withdraw"
	ActionLiquidatorAction ActionType = "liquidator_action"
	ActionLiquidatedEvent  ActionType = "liquidated_event"
)

// Relation describes who paid on behalf of the wallet, for repay entries.
type Relation string

const (
	RelationNone       Relation = "none"
	RelationSelfPay    Relation = "self_pay"
	RelationThirdParty Relation = "third_party_pay"
)

// LedgerEntry represents one canonical unified transaction.
// Corresponds to ledger_entries table in ClickHouse.
type LedgerEntry struct {
	Wallet      string     // lowercase wallet address
	TxHash      string     // transaction hash, globally unique after dedup
	TimestampMs int64      // Unix timestamp in milliseconds
	ActionType  ActionType // canonical action category
	AmountUSD   float64    // USD-denominated amount, >= 0
	Asset       string     // asset symbol
	Relation    Relation   // payer relation, "none" outside repays
}
