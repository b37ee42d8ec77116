package repositories

import (
	"context"

	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
)

// InventorySource provides a read-only snapshot of the physical denomination
// stock per currency. Keys are denomination face values as decimal strings.
type InventorySource interface {
	// GetDenominationStock returns the current note counts for a currency.
	GetDenominationStock(ctx context.Context, currency domain.CurrencyCode) (map[string]int64, error)
}
