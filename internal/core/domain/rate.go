package domain

import "github.com/shopspring/decimal"

// RateDirection selects which side of a rate record applies, seen from the
// shop's perspective.
type RateDirection string

const (
	Buy  RateDirection = "BUY"
	Sell RateDirection = "SELL"
)

// Opposite returns the other direction, used when a pair lookup is inverted.
func (d RateDirection) Opposite() RateDirection {
	if d == Buy {
		return Sell
	}
	return Buy
}

// RateRecord stores the configured conversion rates for a currency pair,
// optionally refined by denomination. A record with an empty Denomination is
// the pair's general rate. Rates are stored in one canonical direction per
// pair; inverted lookups take the reciprocal.
type RateRecord struct {
	RateID       string
	FromCurrency CurrencyCode
	ToCurrency   CurrencyCode
	Denomination string // face value key; empty for the pair's general rate
	BuyRate      decimal.Decimal
	SellRate     decimal.Decimal
	GoldShopRate decimal.Decimal // fallback when the selected directional rate is unset
	Active       bool
	AuditFields
}

// RateFor selects the directional rate, falling back to GoldShopRate when the
// selected field is unset or zero.
func (r RateRecord) RateFor(direction RateDirection) decimal.Decimal {
	selected := r.BuyRate
	if direction == Sell {
		selected = r.SellRate
	}
	if selected.IsZero() {
		return r.GoldShopRate
	}
	return selected
}
