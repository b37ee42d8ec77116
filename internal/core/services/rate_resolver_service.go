package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
	portsrepo "github.com/seoulfx/exchange_shop_backend/internal/core/ports/repositories"
	portssvc "github.com/seoulfx/exchange_shop_backend/internal/core/ports/services"
	"github.com/seoulfx/exchange_shop_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// Denomination collapse keys. The business quotes one VND rate regardless of
// note size, and the low-value KRW notes share one combined record.
const (
	vndCombinedDenomination     = "500000"
	krwSmallNoteDenomination    = "5000"
	krwSmallestNoteDenomination = "1000"
)

var one = decimal.NewFromInt(1)

// rateResolverService resolves a buy/sell rate for a currency pair from the
// configured rate records, optionally refined by denomination.
type rateResolverService struct {
	rateSource    portsrepo.RateSource
	localCurrency domain.CurrencyCode
}

// NewRateResolverService creates a new RateResolverService.
func NewRateResolverService(rateSource portsrepo.RateSource, localCurrency domain.CurrencyCode) portssvc.RateResolverSvcFacade {
	return &rateResolverService{
		rateSource:    rateSource,
		localCurrency: localCurrency,
	}
}

var _ portssvc.RateResolverSvcFacade = (*rateResolverService)(nil)

// collapseDenomination maps a requested denomination to the key rate records
// are actually stored under.
func collapseDenomination(currency domain.CurrencyCode, denomination string) string {
	if denomination == "" {
		return ""
	}
	switch currency {
	case domain.VND:
		return vndCombinedDenomination
	case domain.KRW:
		if denomination == krwSmallestNoteDenomination || denomination == krwSmallNoteDenomination {
			return krwSmallNoteDenomination
		}
	}
	return denomination
}

// canonicalPair returns the canonical storage orientation for a pair: the
// shop's operating currency first when it participates, lexicographic
// otherwise. The second return reports whether the requested orientation is
// inverted relative to canonical.
func (s *rateResolverService) canonicalPair(from, to domain.CurrencyCode) (domain.CurrencyCode, domain.CurrencyCode, bool) {
	switch {
	case from == s.localCurrency:
		return from, to, false
	case to == s.localCurrency:
		return to, from, true
	case from < to:
		return from, to, false
	default:
		return to, from, true
	}
}

// ResolveRate resolves a rate for the pair and direction. A denomination, if
// supplied, is matched first after collapse; the pair's general record is the
// fallback. When the requested orientation is inverted relative to the
// canonical record, the direction is flipped and the rate inverted, so that
// ResolveRate(A,B,d,BUY) and ResolveRate(B,A,d,SELL) stay reciprocal. When no
// record resolves at all, the neutral rate 1 is returned with Found=false.
func (s *rateResolverService) ResolveRate(ctx context.Context, from, to domain.CurrencyCode, denomination string, direction domain.RateDirection) (domain.RateResolution, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !from.Valid() || !to.Valid() {
		return domain.RateResolution{}, fmt.Errorf("%w: pair %s/%s", ErrUnknownCurrency, from, to)
	}
	if from == to {
		return domain.RateResolution{Rate: one, Direction: direction, Found: true}, nil
	}

	records, err := s.rateSource.ListActiveRates(ctx)
	if err != nil {
		return domain.RateResolution{}, fmt.Errorf("failed to load rate records: %w", err)
	}

	canonFrom, canonTo, inverted := s.canonicalPair(from, to)
	lookupDirection := direction
	if inverted {
		lookupDirection = direction.Opposite()
	}
	denomKey := collapseDenomination(from, denomination)

	record, matchedDenom := findRateRecord(records, canonFrom, canonTo, denomKey)
	if record == nil {
		logger.Warn("No rate record resolved, substituting neutral rate",
			slog.String("from", string(from)), slog.String("to", string(to)),
			slog.String("denomination", denomination))
		return domain.RateResolution{Rate: one, Direction: direction, Found: false}, nil
	}

	rate := record.RateFor(lookupDirection)
	if rate.IsZero() {
		logger.Warn("Resolved rate record carries no usable rate, substituting neutral rate",
			slog.String("rate_id", record.RateID), slog.String("direction", string(lookupDirection)))
		return domain.RateResolution{Rate: one, Direction: direction, Found: false}, nil
	}
	if inverted {
		rate = one.Div(rate)
	}

	return domain.RateResolution{
		Rate:         rate,
		Direction:    direction,
		RateID:       record.RateID,
		Denomination: matchedDenom,
		Inverted:     inverted,
		Found:        true,
	}, nil
}

// findRateRecord picks the denomination-specific record when one matches,
// falling back to the pair's general (no-denomination) record.
func findRateRecord(records []domain.RateRecord, from, to domain.CurrencyCode, denomKey string) (*domain.RateRecord, string) {
	var general *domain.RateRecord
	for i := range records {
		rec := &records[i]
		if !rec.Active || rec.FromCurrency != from || rec.ToCurrency != to {
			continue
		}
		if denomKey != "" && rec.Denomination == denomKey {
			return rec, denomKey
		}
		if rec.Denomination == "" && general == nil {
			general = rec
		}
	}
	return general, ""
}

// ListActiveRates returns the resolver's current snapshot.
func (s *rateResolverService) ListActiveRates(ctx context.Context) ([]domain.RateRecord, error) {
	return s.rateSource.ListActiveRates(ctx)
}
