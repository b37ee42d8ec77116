package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/seoulfx/exchange_shop_backend/internal/apperrors"
	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
	portssvc "github.com/seoulfx/exchange_shop_backend/internal/core/ports/services"
	"github.com/seoulfx/exchange_shop_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// legCalculatorService computes a missing leg amount from a counterpart leg
// and resolved rates, applying the target currency's rounding rule.
type legCalculatorService struct {
	rates         portssvc.RateResolverSvcFacade
	denominations portssvc.DenominationSvcFacade
	localCurrency domain.CurrencyCode
}

// NewLegCalculatorService creates a new LegCalculatorService.
func NewLegCalculatorService(rates portssvc.RateResolverSvcFacade, denominations portssvc.DenominationSvcFacade, localCurrency domain.CurrencyCode) portssvc.LegCalculatorSvcFacade {
	return &legCalculatorService{
		rates:         rates,
		denominations: denominations,
		localCurrency: localCurrency,
	}
}

var _ portssvc.LegCalculatorSvcFacade = (*legCalculatorService)(nil)

func (s *legCalculatorService) roleFor(currency domain.CurrencyCode) domain.CurrencyRole {
	if currency == s.localCurrency {
		return domain.RoleLocal
	}
	return domain.RoleForeign
}

// directionFor maps the leg pairing to the shop-perspective rate direction via
// the transaction-type lookup.
func (s *legCalculatorService) directionFor(source, target domain.TransactionLeg) domain.RateDirection {
	key := domain.LegPairKey{
		InputKind:  source.Kind,
		InputRole:  s.roleFor(source.Currency),
		OutputKind: target.Kind,
		OutputRole: s.roleFor(target.Currency),
	}
	if txnType, ok := domain.TransactionTypeFor(key); ok {
		return txnType.Direction()
	}
	return domain.Sell
}

// DeriveAmount computes the target leg's amount from the source leg. When the
// source is a cash leg with a non-empty composition, the amount is computed
// per-denomination: each entry resolves its own (possibly denomination-
// specific) rate, so large and small notes can carry different rates. The raw
// result is then passed through the target currency's rounding rule.
func (s *legCalculatorService) DeriveAmount(ctx context.Context, source, target domain.TransactionLeg) (domain.DerivedAmount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	direction := s.directionFor(source, target)

	raw := decimal.Zero
	rateMissing := false

	if source.IsCash() && !source.Composition.IsEmpty() {
		for key, count := range source.Composition {
			if count == 0 {
				continue
			}
			face, err := decimal.NewFromString(key)
			if err != nil {
				return domain.DerivedAmount{}, fmt.Errorf("%w: invalid denomination key %q", apperrors.ErrValidation, key)
			}
			resolution, err := s.rates.ResolveRate(ctx, source.Currency, target.Currency, key, direction)
			if err != nil {
				return domain.DerivedAmount{}, fmt.Errorf("failed to resolve rate for denomination %s: %w", key, err)
			}
			if !resolution.Found {
				rateMissing = true
			}
			value := face.Mul(decimal.NewFromInt(count))
			raw = raw.Add(value.Mul(resolution.Rate))
		}
	} else {
		resolution, err := s.rates.ResolveRate(ctx, source.Currency, target.Currency, "", direction)
		if err != nil {
			return domain.DerivedAmount{}, fmt.Errorf("failed to resolve rate: %w", err)
		}
		if !resolution.Found {
			rateMissing = true
		}
		raw = source.Amount.Mul(resolution.Rate)
	}

	rounded, margin, err := s.denominations.RoundForCurrency(target.Currency, raw)
	if err != nil {
		return domain.DerivedAmount{}, err
	}

	logger.Debug("Derived leg amount",
		slog.String("source_currency", string(source.Currency)),
		slog.String("target_currency", string(target.Currency)),
		slog.String("amount", rounded.String()),
		slog.Bool("rate_missing", rateMissing),
	)
	return domain.DerivedAmount{Amount: rounded, FloorMargin: margin, RateMissing: rateMissing}, nil
}

// Recalculate returns a copy of the request with the first output leg
// re-derived from the primary input. Additional output legs stay manual: the
// asymmetry lets an operator split one input across several manually-sized
// disbursements. A re-derived cash leg gets a fresh greedy breakdown when the
// amount divides evenly, otherwise its composition is cleared for re-entry.
func (s *legCalculatorService) Recalculate(ctx context.Context, req domain.CompoundTransactionRequest) (domain.CompoundTransactionRequest, error) {
	primary, ok := req.PrimaryInput()
	if !ok || len(req.Outputs) == 0 {
		return req, nil
	}

	out := req
	out.Outputs = make([]domain.TransactionLeg, len(req.Outputs))
	copy(out.Outputs, req.Outputs)

	derived, err := s.DeriveAmount(ctx, primary, out.Outputs[0])
	if err != nil {
		return req, err
	}
	out.Outputs[0].Amount = derived.Amount

	if out.Outputs[0].IsCash() {
		composition, remainder, err := s.denominations.Breakdown(out.Outputs[0].Currency, derived.Amount)
		if err != nil {
			return req, err
		}
		if remainder.IsZero() {
			out.Outputs[0].Composition = composition
		} else {
			out.Outputs[0].Composition = nil
		}
	}
	return out, nil
}
