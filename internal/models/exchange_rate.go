package models

import "github.com/shopspring/decimal"

// ExchangeRate stores the configured buy/sell rates for a currency pair,
// optionally refined by denomination.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"` // Primary Key (UUID)
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Denomination     string          `json:"denomination"` // empty for the pair's general rate
	BuyRate          decimal.Decimal `json:"buyRate"`
	SellRate         decimal.Decimal `json:"sellRate"`
	GoldShopRate     decimal.Decimal `json:"goldShopRate"`
	Active           bool            `json:"active"`
	AuditFields
}
