package models

import "github.com/shopspring/decimal"

// AtomicTransaction is the persisted shape of one atomic ledger posting.
// Leg compositions and free-form metadata are stored as JSONB columns.
type AtomicTransaction struct {
	TransactionID   string          `json:"transactionID"` // Primary Key (UUID)
	TransactionType string          `json:"transactionType"`
	FromKind        string          `json:"fromKind"`
	FromCurrency    string          `json:"fromCurrency"`
	FromAccountRef  string          `json:"fromAccountRef"`
	FromComposition []byte          `json:"fromComposition"` // JSONB map of face value to count
	ToKind          string          `json:"toKind"`
	ToCurrency      string          `json:"toCurrency"`
	ToAccountRef    string          `json:"toAccountRef"`
	ToComposition   []byte          `json:"toComposition"` // JSONB map of face value to count
	FromAmount      decimal.Decimal `json:"fromAmount"`
	ToAmount        decimal.Decimal `json:"toAmount"`
	AppliedRate     decimal.Decimal `json:"appliedRate"`
	Fee             decimal.Decimal `json:"fee"`
	FloorMargin     decimal.Decimal `json:"floorMargin"`
	Profit          decimal.Decimal `json:"profit"`
	IsPrimary       bool            `json:"isPrimary"`
	ParentID        *string         `json:"parentID"` // FK to the primary posting; nil on the primary itself
	Memo            string          `json:"memo"`
	Metadata        []byte          `json:"metadata"` // JSONB
	Status          string          `json:"status"`
	AuditFields
}
