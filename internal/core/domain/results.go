package domain

import "github.com/shopspring/decimal"

// RateResolution is the outcome of resolving a buy/sell rate for a pair.
type RateResolution struct {
	Rate         decimal.Decimal
	Direction    RateDirection
	RateID       string // resolved rate record; empty on neutral fallback
	Denomination string // collapsed denomination key actually matched; empty for the general rate
	Inverted     bool   // the canonical record was stored in the opposite orientation
	Found        bool   // false when the neutral rate of 1 was substituted
}

// DerivedAmount is the result of computing a missing leg amount from a
// counterpart leg and resolved rate.
type DerivedAmount struct {
	Amount      decimal.Decimal
	FloorMargin decimal.Decimal // truncated remainder for floor-rounded currencies
	RateMissing bool            // at least one lookup fell back to the neutral rate
}

// InventoryShortfall names one denomination whose requested count exceeds stock.
type InventoryShortfall struct {
	Denomination string
	Requested    int64
	Available    int64
	Shortfall    int64
}

// InventoryValidation is the advisory/mandatory result of checking a leg's
// composition against available denomination stock.
type InventoryValidation struct {
	Valid      bool
	Shortfalls []InventoryShortfall
}

// Decomposition is the validated set of atomic records produced from one
// compound request, with accumulated fee/profit totals. The totals are
// exposed to the risk workflow and the submission preview only, never to the
// counterparty.
type Decomposition struct {
	Records     []AtomicTransactionRecord
	TotalFees   decimal.Decimal
	TotalMargin decimal.Decimal
	TotalProfit decimal.Decimal
}

// AppliedRecord links a decomposed record to the ledger identity it received
// on application.
type AppliedRecord struct {
	RecordID string
	LedgerID string
}

// ExecutionResult reports the exact outcome of sequentially submitting a
// decomposition to the ledger. On partial failure the controller proposes a
// compensating rollback as a pure decision; the host interface renders the
// confirmation prompt.
type ExecutionResult struct {
	Applied              []AppliedRecord
	Succeeded            int
	Failed               int // 0 or 1; submission stops at the first failure
	Unattempted          int
	FailedRecordID       string
	RequiresConfirmation bool
	ProposedAction       string
}

// RollbackResult lists the ledger records whose effects were reversed by
// compensating cancellation.
type RollbackResult struct {
	Cancelled []AppliedRecord
}

// WorkflowSession tracks one compound transaction through the staged-approval
// flow. The request value itself stays immutable; each transition produces an
// updated session snapshot.
type WorkflowSession struct {
	SessionID     string
	Request       CompoundTransactionRequest
	State         WorkflowState
	Risk          RiskAssessment
	Decomposition Decomposition
	Execution     *ExecutionResult
	AuditFields
}
