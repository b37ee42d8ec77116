package domain

import "github.com/shopspring/decimal"

// FeePolicy holds the configured fee components applied per emitted record.
// Percentages are expressed as percents (0.5 means 0.5%). Minimum and flat
// fees are denominated in the currency of the record's input leg.
type FeePolicy struct {
	ExchangeFeePercent    decimal.Decimal
	TransferFeePercent    decimal.Decimal
	TransferMinFees       map[CurrencyCode]decimal.Decimal
	ProcessingFlatFees    map[CurrencyCode]decimal.Decimal
	LargeAmountThresholds map[CurrencyCode]decimal.Decimal
}

// DefaultFeePolicy returns the shop's standard fee schedule.
func DefaultFeePolicy() FeePolicy {
	return FeePolicy{
		ExchangeFeePercent: decimal.RequireFromString("0.5"),
		TransferFeePercent: decimal.RequireFromString("1.0"),
		TransferMinFees: map[CurrencyCode]decimal.Decimal{
			KRW: decimal.NewFromInt(5000),
			USD: decimal.NewFromInt(5),
			VND: decimal.NewFromInt(100000),
		},
		ProcessingFlatFees: map[CurrencyCode]decimal.Decimal{
			KRW: decimal.NewFromInt(10000),
			USD: decimal.NewFromInt(10),
			VND: decimal.NewFromInt(200000),
		},
		LargeAmountThresholds: map[CurrencyCode]decimal.Decimal{
			KRW: decimal.NewFromInt(20000000),
			USD: decimal.NewFromInt(20000),
			VND: decimal.NewFromInt(400000000),
		},
	}
}

// RiskPolicy holds the thresholds used to classify compound transactions.
type RiskPolicy struct {
	// ValueThresholds escalate a request to MEDIUM when the per-currency
	// input total exceeds them.
	ValueThresholds map[CurrencyCode]decimal.Decimal
	// VolatileCashThresholds escalate to HIGH when a foreign cash leg
	// exceeds them.
	VolatileCashThresholds map[CurrencyCode]decimal.Decimal
	// MaxLegsPerSide escalates to MEDIUM when exceeded on either side.
	MaxLegsPerSide int
}

// DefaultRiskPolicy returns the shop's standard risk thresholds.
func DefaultRiskPolicy() RiskPolicy {
	return RiskPolicy{
		ValueThresholds: map[CurrencyCode]decimal.Decimal{
			KRW: decimal.NewFromInt(10000000),
			USD: decimal.NewFromInt(10000),
			VND: decimal.NewFromInt(200000000),
		},
		VolatileCashThresholds: map[CurrencyCode]decimal.Decimal{
			USD: decimal.NewFromInt(5000),
			VND: decimal.NewFromInt(100000000),
		},
		MaxLegsPerSide: 2,
	}
}
