package domain

import "github.com/shopspring/decimal"

// CurrencyCode identifies one of the fixed set of currencies the shop trades.
type CurrencyCode string

const (
	KRW CurrencyCode = "KRW"
	USD CurrencyCode = "USD"
	VND CurrencyCode = "VND"
)

// RoundingRule determines how a derived (as opposed to directly entered)
// amount is rounded for a currency.
type RoundingRule string

const (
	RoundToInteger     RoundingRule = "INTEGER"        // truncate to the nearest lower integer
	RoundTwoDecimals   RoundingRule = "TWO_DECIMALS"   // round half-up to 2 decimal places
	RoundFloorThousand RoundingRule = "FLOOR_THOUSAND" // truncate to the nearest lower multiple of 1,000
)

// Currency describes a tradeable currency: its note denominations in
// descending face-value order and the rounding rule applied to derived amounts.
type Currency struct {
	Code          CurrencyCode
	Symbol        string
	Name          string
	Denominations []decimal.Decimal // descending face values
	Rounding      RoundingRule
}

var thousand = decimal.NewFromInt(1000)

func faces(values ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.NewFromInt(v)
	}
	return out
}

// currencies is the fixed catalog of currencies the shop trades.
var currencies = map[CurrencyCode]Currency{
	KRW: {
		Code:          KRW,
		Symbol:        "₩",
		Name:          "South Korean Won",
		Denominations: faces(50000, 10000, 5000, 1000),
		Rounding:      RoundToInteger,
	},
	USD: {
		Code:          USD,
		Symbol:        "$",
		Name:          "US Dollar",
		Denominations: faces(100, 50, 20, 10, 5, 2, 1),
		Rounding:      RoundTwoDecimals,
	},
	VND: {
		Code:          VND,
		Symbol:        "₫",
		Name:          "Vietnamese Dong",
		Denominations: faces(500000, 200000, 100000, 50000, 20000, 10000, 5000, 2000, 1000),
		Rounding:      RoundFloorThousand,
	},
}

// CurrencyByCode returns the catalog entry for a currency code.
func CurrencyByCode(code CurrencyCode) (Currency, bool) {
	c, ok := currencies[code]
	return c, ok
}

// SupportedCurrencies returns the catalog entries for all tradeable currencies.
func SupportedCurrencies() []Currency {
	out := make([]Currency, 0, len(currencies))
	for _, code := range []CurrencyCode{KRW, USD, VND} {
		out = append(out, currencies[code])
	}
	return out
}

// Valid reports whether the code belongs to the fixed currency set.
func (c CurrencyCode) Valid() bool {
	_, ok := currencies[c]
	return ok
}

// Round applies the currency's rounding rule to a derived amount.
func (c Currency) Round(amount decimal.Decimal) decimal.Decimal {
	rounded, _ := c.RoundWithMargin(amount)
	return rounded
}

// RoundWithMargin applies the currency's rounding rule and returns the rounded
// amount together with the truncated remainder. The margin is non-zero only
// for truncating rules that recognize it as profit (VND floor-to-1000).
func (c Currency) RoundWithMargin(amount decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	switch c.Rounding {
	case RoundFloorThousand:
		rounded := amount.Div(thousand).Floor().Mul(thousand)
		return rounded, amount.Sub(rounded)
	case RoundToInteger:
		return amount.Floor(), decimal.Zero
	case RoundTwoDecimals:
		return amount.Round(2), decimal.Zero
	default:
		return amount, decimal.Zero
	}
}

// TruncationUnit returns the unit derived amounts are floored to, or zero when
// the rounding rule does not truncate to a coarse unit.
func (c Currency) TruncationUnit() decimal.Decimal {
	if c.Rounding == RoundFloorThousand {
		return thousand
	}
	return decimal.Zero
}

// SmallestDenomination returns the smallest face value in the catalog.
func (c Currency) SmallestDenomination() decimal.Decimal {
	if len(c.Denominations) == 0 {
		return decimal.Zero
	}
	return c.Denominations[len(c.Denominations)-1]
}
