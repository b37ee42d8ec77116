package repositories

import (
	"context"

	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
)

// RateSource provides a read-only snapshot of the configured exchange rates.
// The resolver treats the snapshot as immutable for the duration of a request.
type RateSource interface {
	// ListActiveRates returns all active rate records.
	ListActiveRates(ctx context.Context) ([]domain.RateRecord, error)
}

// RateStore extends RateSource with rate administration.
type RateStore interface {
	RateSource

	// SaveExchangeRate inserts or updates a rate record, keyed by currency
	// pair and denomination.
	SaveExchangeRate(ctx context.Context, record domain.RateRecord) error
}
