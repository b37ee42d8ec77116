package services

import (
	"errors"
	"fmt"

	"github.com/seoulfx/exchange_shop_backend/internal/apperrors"
	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
	portssvc "github.com/seoulfx/exchange_shop_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownCurrency = errors.New("currency is not in the supported set")
	ErrNegativeAmount  = errors.New("amount must not be negative")
)

// denominationService implements the currency-specific denomination catalog
// arithmetic: greedy breakdown, composition totals and rounding rules. All
// operations are pure.
type denominationService struct{}

// NewDenominationService creates a new DenominationService.
func NewDenominationService() portssvc.DenominationSvcFacade {
	return &denominationService{}
}

var _ portssvc.DenominationSvcFacade = (*denominationService)(nil)

// Breakdown greedily allocates the amount into the largest denominations
// first, taking floor(remaining / faceValue) units per denomination in
// descending order. Any amount not evenly divisible by the smallest
// denomination is returned as the unallocated remainder.
func (s *denominationService) Breakdown(currency domain.CurrencyCode, amount decimal.Decimal) (domain.DenominationComposition, decimal.Decimal, error) {
	cur, ok := domain.CurrencyByCode(currency)
	if !ok {
		return nil, decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownCurrency, currency)
	}
	if amount.IsNegative() {
		return nil, decimal.Zero, fmt.Errorf("%w: %s", ErrNegativeAmount, amount)
	}

	composition := make(domain.DenominationComposition)
	remaining := amount
	for _, face := range cur.Denominations {
		count := remaining.Div(face).Floor().IntPart()
		if count <= 0 {
			continue
		}
		composition[domain.DenominationKey(face)] = count
		remaining = remaining.Sub(face.Mul(decimal.NewFromInt(count)))
	}
	return composition, remaining, nil
}

// ComposeTotal sums faceValue * count over all entries of the composition.
func (s *denominationService) ComposeTotal(composition domain.DenominationComposition) (decimal.Decimal, error) {
	total, err := composition.Total()
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	return total, nil
}

// RoundForCurrency applies the currency's rounding rule to a derived amount
// and returns the rounded value plus the recognized truncation margin.
func (s *denominationService) RoundForCurrency(currency domain.CurrencyCode, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	cur, ok := domain.CurrencyByCode(currency)
	if !ok {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownCurrency, currency)
	}
	rounded, margin := cur.RoundWithMargin(amount)
	return rounded, margin, nil
}

// ValidateLegComposition checks the cash-leg invariant: the composition's
// computed total must equal the declared amount before the leg is considered
// valid for submission.
func (s *denominationService) ValidateLegComposition(leg domain.TransactionLeg) error {
	matches, err := leg.CompositionMatchesAmount()
	if err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	if !matches {
		total, _ := leg.Composition.Total()
		return fmt.Errorf("%w: %s leg declares %s but composition totals %s",
			apperrors.ErrDenominationMismatch, leg.Currency, leg.Amount, total)
	}
	return nil
}
