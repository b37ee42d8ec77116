package utils

import (
	"github.com/shopspring/decimal"

	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
)

// FormatAmount renders an amount at the display precision implied by the
// currency's rounding rule.
// Example: 12.3456 USD returns "12.35"
// Example: 12.3456 KRW returns "12"
func FormatAmount(amount decimal.Decimal, code domain.CurrencyCode) string {
	currency, ok := domain.CurrencyByCode(code)
	if !ok {
		return amount.String()
	}
	if currency.Rounding == domain.RoundTwoDecimals {
		return amount.StringFixed(2)
	}
	return amount.StringFixed(0)
}
