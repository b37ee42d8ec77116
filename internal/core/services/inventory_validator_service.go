package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/seoulfx/exchange_shop_backend/internal/apperrors"
	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
	portsrepo "github.com/seoulfx/exchange_shop_backend/internal/core/ports/repositories"
	portssvc "github.com/seoulfx/exchange_shop_backend/internal/core/ports/services"
	"github.com/seoulfx/exchange_shop_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// inventoryValidatorService checks a leg's requested denomination counts
// against the currency's available stock. Advisory during editing, mandatory
// at submission.
type inventoryValidatorService struct {
	inventory portsrepo.InventorySource
}

// NewInventoryValidatorService creates a new InventoryValidatorService.
func NewInventoryValidatorService(inventory portsrepo.InventorySource) portssvc.InventoryValidatorSvcFacade {
	return &inventoryValidatorService{inventory: inventory}
}

var _ portssvc.InventoryValidatorSvcFacade = (*inventoryValidatorService)(nil)

// Validate compares every positively requested denomination against available
// stock. Each shortfall produces one entry naming the denomination and the
// missing quantity. Legs without a composition are always valid with respect
// to inventory.
func (s *inventoryValidatorService) Validate(ctx context.Context, leg domain.TransactionLeg) (domain.InventoryValidation, error) {
	if !leg.IsCash() || leg.Composition.IsEmpty() {
		return domain.InventoryValidation{Valid: true}, nil
	}

	stock, err := s.inventory.GetDenominationStock(ctx, leg.Currency)
	if err != nil {
		return domain.InventoryValidation{}, fmt.Errorf("failed to load denomination stock for %s: %w", leg.Currency, err)
	}

	var shortfalls []domain.InventoryShortfall
	for key, requested := range leg.Composition {
		if requested <= 0 {
			continue
		}
		available := stock[key]
		if requested > available {
			shortfalls = append(shortfalls, domain.InventoryShortfall{
				Denomination: key,
				Requested:    requested,
				Available:    available,
				Shortfall:    requested - available,
			})
		}
	}

	// Stable, largest-note-first ordering for user-facing error lists.
	sort.Slice(shortfalls, func(i, j int) bool {
		a, errA := decimal.NewFromString(shortfalls[i].Denomination)
		b, errB := decimal.NewFromString(shortfalls[j].Denomination)
		if errA != nil || errB != nil {
			return shortfalls[i].Denomination > shortfalls[j].Denomination
		}
		return a.GreaterThan(b)
	})

	return domain.InventoryValidation{Valid: len(shortfalls) == 0, Shortfalls: shortfalls}, nil
}

// AutoAdjustToInventory attempts a best-effort allocation of the leg amount
// bounded by available stock, in the same greedy descending-denomination
// order as breakdown. Fails closed: if a remainder exists the adjustment is
// rejected rather than applied, preserving the invariant that a submitted
// composition totals the declared amount.
func (s *inventoryValidatorService) AutoAdjustToInventory(ctx context.Context, leg domain.TransactionLeg) (domain.DenominationComposition, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	cur, ok := domain.CurrencyByCode(leg.Currency)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCurrency, leg.Currency)
	}
	if !leg.IsCash() {
		return nil, fmt.Errorf("%w: only cash legs can be adjusted to inventory", apperrors.ErrValidation)
	}

	stock, err := s.inventory.GetDenominationStock(ctx, leg.Currency)
	if err != nil {
		return nil, fmt.Errorf("failed to load denomination stock for %s: %w", leg.Currency, err)
	}

	composition := make(domain.DenominationComposition)
	remaining := leg.Amount
	for _, face := range cur.Denominations {
		key := domain.DenominationKey(face)
		wanted := remaining.Div(face).Floor().IntPart()
		if wanted <= 0 {
			continue
		}
		if available := stock[key]; wanted > available {
			wanted = available
		}
		if wanted <= 0 {
			continue
		}
		composition[key] = wanted
		remaining = remaining.Sub(face.Mul(decimal.NewFromInt(wanted)))
	}

	if !remaining.IsZero() {
		logger.Warn("Inventory auto-adjustment rejected",
			slog.String("currency", string(leg.Currency)),
			slog.String("unallocated", remaining.String()),
		)
		return nil, fmt.Errorf("%w: %s %s could not be allocated from stock",
			apperrors.ErrInventoryShortfall, remaining, leg.Currency)
	}
	return composition, nil
}
