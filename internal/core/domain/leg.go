package domain

import "github.com/shopspring/decimal"

// LegRole marks a leg as funding the exchange or receiving its proceeds.
type LegRole string

const (
	LegInput  LegRole = "INPUT"
	LegOutput LegRole = "OUTPUT"
)

// LegKind distinguishes physical cash legs from account balance legs.
type LegKind string

const (
	LegCash    LegKind = "CASH"
	LegAccount LegKind = "ACCOUNT"
)

// TransactionLeg is one side of a compound exchange, in a given currency, as
// cash or an account balance.
type TransactionLeg struct {
	Role         LegRole
	Kind         LegKind
	Currency     CurrencyCode
	Amount       decimal.Decimal
	AccountRef   string                  // set only for Kind == LegAccount
	Composition  DenominationComposition // set only for Kind == LegCash
	SplitPercent decimal.Decimal         // optional output split percentage; zero means unset
}

// IsCash reports whether the leg moves physical notes.
func (l TransactionLeg) IsCash() bool {
	return l.Kind == LegCash
}

// CompositionMatchesAmount verifies the cash-leg invariant: the composition's
// computed total must equal the declared amount. Legs without a composition
// trivially satisfy it.
func (l TransactionLeg) CompositionMatchesAmount() (bool, error) {
	if !l.IsCash() || l.Composition.IsEmpty() {
		return true, nil
	}
	total, err := l.Composition.Total()
	if err != nil {
		return false, err
	}
	return total.Equal(l.Amount), nil
}

// CompoundTransactionRequest is a single customer-facing exchange action:
// N input legs funding M output legs, plus free-text metadata. It is built
// transiently by the initiating actor and exists only to be decomposed; it is
// never persisted as-is.
type CompoundTransactionRequest struct {
	RequestID        string
	Operator         string // identity of the staff member entering the exchange
	Inputs           []TransactionLeg
	Outputs          []TransactionLeg
	Memo             string
	Counterparty     string
	RateAcknowledged bool // caller explicitly accepted a neutral-rate fallback
}

// PrimaryInput returns the first input leg, the funding source for
// multi-leg decomposition.
func (r CompoundTransactionRequest) PrimaryInput() (TransactionLeg, bool) {
	if len(r.Inputs) == 0 {
		return TransactionLeg{}, false
	}
	return r.Inputs[0], true
}
