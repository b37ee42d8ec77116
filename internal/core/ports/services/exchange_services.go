package services

import (
	"context"

	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DenominationSvcFacade exposes the currency-specific denomination arithmetic.
// All operations are pure functions over in-memory values.
type DenominationSvcFacade interface {
	// Breakdown greedily allocates an amount into the largest denominations
	// first and returns the composition plus any unallocated remainder.
	Breakdown(currency domain.CurrencyCode, amount decimal.Decimal) (domain.DenominationComposition, decimal.Decimal, error)

	// ComposeTotal sums faceValue * count over the composition. Must be called
	// after every denomination edit to verify the leg invariant.
	ComposeTotal(composition domain.DenominationComposition) (decimal.Decimal, error)

	// RoundForCurrency applies the currency's rounding rule to a derived
	// amount and returns the rounded value plus the recognized margin.
	RoundForCurrency(currency domain.CurrencyCode, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal, error)

	// ValidateLegComposition checks the cash-leg invariant: composition total
	// equals declared amount.
	ValidateLegComposition(leg domain.TransactionLeg) error
}

// RateResolverSvcFacade resolves buy/sell exchange rates for currency pairs,
// optionally refined by denomination, from the configured rate records.
type RateResolverSvcFacade interface {
	// ResolveRate resolves a rate. When no record matches, the neutral rate 1
	// is returned with Found=false; the caller decides whether that blocks
	// submission.
	ResolveRate(ctx context.Context, from, to domain.CurrencyCode, denomination string, direction domain.RateDirection) (domain.RateResolution, error)

	// ListActiveRates returns the resolver's current snapshot.
	ListActiveRates(ctx context.Context) ([]domain.RateRecord, error)
}

// LegCalculatorSvcFacade keeps legs consistent as the user edits amounts.
type LegCalculatorSvcFacade interface {
	// DeriveAmount computes the target leg's amount from the source leg and
	// resolved rates, per-denomination when the source carries a composition,
	// then applies the target currency's rounding rule.
	DeriveAmount(ctx context.Context, source, target domain.TransactionLeg) (domain.DerivedAmount, error)

	// Recalculate returns a copy of the request with the first output leg
	// re-derived from the primary input. Additional output legs stay manual.
	Recalculate(ctx context.Context, req domain.CompoundTransactionRequest) (domain.CompoundTransactionRequest, error)
}

// InventoryValidatorSvcFacade checks requested denomination counts against
// available stock. Advisory during editing, mandatory at submission.
type InventoryValidatorSvcFacade interface {
	// Validate reports per-denomination shortfalls for a cash leg. Legs
	// without a composition are always valid with respect to inventory.
	Validate(ctx context.Context, leg domain.TransactionLeg) (domain.InventoryValidation, error)

	// AutoAdjustToInventory attempts a best-effort allocation bounded by
	// stock. Fails closed: if a remainder exists the adjustment is rejected
	// rather than partially applied.
	AutoAdjustToInventory(ctx context.Context, leg domain.TransactionLeg) (domain.DenominationComposition, error)
}

// DecomposerSvcFacade converts a compound request into atomic ledger records.
type DecomposerSvcFacade interface {
	// Decompose validates the request and emits one or more records with
	// primary/child linkage and fee/profit metadata. initialStatus is
	// CONFIRMED when no staged approval is required, PENDING otherwise.
	Decompose(ctx context.Context, req domain.CompoundTransactionRequest, initialStatus domain.RecordStatus) (domain.Decomposition, error)
}
