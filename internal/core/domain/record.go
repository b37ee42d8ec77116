package domain

import "github.com/shopspring/decimal"

// RecordStatus is the lifecycle state of an atomic transaction record.
type RecordStatus string

const (
	StatusPending   RecordStatus = "PENDING"
	StatusConfirmed RecordStatus = "CONFIRMED"
	StatusCancelled RecordStatus = "CANCELLED"
)

// CurrencyRole distinguishes the shop's operating currency from customer
// currencies in the transaction-type lookup.
type CurrencyRole string

const (
	RoleLocal   CurrencyRole = "LOCAL"
	RoleForeign CurrencyRole = "FOREIGN"
)

// TransactionType is the semantic type of an atomic ledger posting, selected
// from a closed lookup keyed by the input/output leg kinds and currency roles.
type TransactionType string

const (
	TypeCashSellForeign         TransactionType = "CASH_SELL_FOREIGN"
	TypeCashBuyForeign          TransactionType = "CASH_BUY_FOREIGN"
	TypeCashCrossExchange       TransactionType = "CASH_CROSS_EXCHANGE"
	TypeCashSwap                TransactionType = "CASH_SWAP"
	TypeCashDeposit             TransactionType = "CASH_DEPOSIT"
	TypeCashRemittance          TransactionType = "CASH_REMITTANCE"
	TypeForeignCashDeposit      TransactionType = "FOREIGN_CASH_DEPOSIT"
	TypeForeignCashRemittance   TransactionType = "FOREIGN_CASH_REMITTANCE"
	TypeCashWithdrawal          TransactionType = "CASH_WITHDRAWAL"
	TypeForeignCashPayout       TransactionType = "FOREIGN_CASH_PAYOUT"
	TypeForeignAccountCashout   TransactionType = "FOREIGN_ACCOUNT_CASHOUT"
	TypeForeignAccountPayout    TransactionType = "FOREIGN_ACCOUNT_PAYOUT"
	TypeAccountTransfer         TransactionType = "ACCOUNT_TRANSFER"
	TypeAccountRemittance       TransactionType = "ACCOUNT_REMITTANCE"
	TypeAccountRepatriation     TransactionType = "ACCOUNT_REPATRIATION"
	TypeForeignAccountTransfer  TransactionType = "FOREIGN_ACCOUNT_TRANSFER"
)

// LegPairKey keys the transaction-type lookup.
type LegPairKey struct {
	InputKind  LegKind
	InputRole  CurrencyRole
	OutputKind LegKind
	OutputRole CurrencyRole
}

// transactionTypes is the closed lookup from leg pairing to semantic type.
var transactionTypes = map[LegPairKey]TransactionType{
	{LegCash, RoleLocal, LegCash, RoleForeign}:       TypeCashSellForeign,
	{LegCash, RoleForeign, LegCash, RoleLocal}:       TypeCashBuyForeign,
	{LegCash, RoleForeign, LegCash, RoleForeign}:     TypeCashCrossExchange,
	{LegCash, RoleLocal, LegCash, RoleLocal}:         TypeCashSwap,
	{LegCash, RoleLocal, LegAccount, RoleLocal}:      TypeCashDeposit,
	{LegCash, RoleLocal, LegAccount, RoleForeign}:    TypeCashRemittance,
	{LegCash, RoleForeign, LegAccount, RoleLocal}:    TypeForeignCashDeposit,
	{LegCash, RoleForeign, LegAccount, RoleForeign}:  TypeForeignCashRemittance,
	{LegAccount, RoleLocal, LegCash, RoleLocal}:      TypeCashWithdrawal,
	{LegAccount, RoleLocal, LegCash, RoleForeign}:    TypeForeignCashPayout,
	{LegAccount, RoleForeign, LegCash, RoleLocal}:    TypeForeignAccountCashout,
	{LegAccount, RoleForeign, LegCash, RoleForeign}:  TypeForeignAccountPayout,
	{LegAccount, RoleLocal, LegAccount, RoleLocal}:   TypeAccountTransfer,
	{LegAccount, RoleLocal, LegAccount, RoleForeign}: TypeAccountRemittance,
	{LegAccount, RoleForeign, LegAccount, RoleLocal}: TypeAccountRepatriation,
	{LegAccount, RoleForeign, LegAccount, RoleForeign}: TypeForeignAccountTransfer,
}

// TransactionTypeFor resolves the semantic type for a leg pairing.
func TransactionTypeFor(key LegPairKey) (TransactionType, bool) {
	t, ok := transactionTypes[key]
	return t, ok
}

// rateDirections maps each transaction type to the shop-perspective rate
// direction: converting from the operating currency into a customer currency
// is a sell, the inverse is a buy. Foreign-to-foreign crosses are quoted as
// sells by convention.
var rateDirections = map[TransactionType]RateDirection{
	TypeCashSellForeign:        Sell,
	TypeCashBuyForeign:         Buy,
	TypeCashCrossExchange:      Sell,
	TypeCashSwap:               Sell,
	TypeCashDeposit:            Sell,
	TypeCashRemittance:         Sell,
	TypeForeignCashDeposit:     Buy,
	TypeForeignCashRemittance:  Sell,
	TypeCashWithdrawal:         Sell,
	TypeForeignCashPayout:      Sell,
	TypeForeignAccountCashout:  Buy,
	TypeForeignAccountPayout:   Sell,
	TypeAccountTransfer:        Sell,
	TypeAccountRemittance:      Sell,
	TypeAccountRepatriation:    Buy,
	TypeForeignAccountTransfer: Sell,
}

// Direction returns the rate direction for the transaction type.
func (t TransactionType) Direction() RateDirection {
	if d, ok := rateDirections[t]; ok {
		return d
	}
	return Sell
}

// IsTransfer reports whether either side of the posting is an account leg, in
// which case transfer fee rules apply instead of exchange fee rules.
func (t TransactionType) IsTransfer() bool {
	switch t {
	case TypeCashSellForeign, TypeCashBuyForeign, TypeCashCrossExchange, TypeCashSwap:
		return false
	}
	return true
}

// AtomicTransactionRecord is the unit persisted by the ledger collaborator.
// Created by the decomposer in PENDING or CONFIRMED state (CONFIRMED when no
// staged approval is required); moved to CANCELLED by the rollback controller
// when a compensating action is required.
type AtomicTransactionRecord struct {
	RecordID    string
	Type        TransactionType
	FromLeg     TransactionLeg
	ToLeg       TransactionLeg
	FromAmount  decimal.Decimal
	ToAmount    decimal.Decimal
	AppliedRate decimal.Decimal
	Fee         decimal.Decimal
	FloorMargin decimal.Decimal // truncated remainder recognized as profit
	Profit      decimal.Decimal
	IsPrimary   bool
	ParentID    string // references the primary record; empty on the primary itself
	Memo        string
	Metadata    map[string]string
	Status      RecordStatus
	AuditFields
}
