package dto

import (
	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateRecordResponse is the transport shape of one configured rate record.
type RateRecordResponse struct {
	RateID       string          `json:"rateID"`
	FromCurrency string          `json:"fromCurrency"`
	ToCurrency   string          `json:"toCurrency"`
	Denomination string          `json:"denomination,omitempty"`
	BuyRate      decimal.Decimal `json:"buyRate"`
	SellRate     decimal.Decimal `json:"sellRate"`
	GoldShopRate decimal.Decimal `json:"goldShopRate"`
	Active       bool            `json:"active"`
}

// ToRateRecordResponse converts a domain rate record.
func ToRateRecordResponse(record domain.RateRecord) RateRecordResponse {
	return RateRecordResponse{
		RateID:       record.RateID,
		FromCurrency: string(record.FromCurrency),
		ToCurrency:   string(record.ToCurrency),
		Denomination: record.Denomination,
		BuyRate:      record.BuyRate,
		SellRate:     record.SellRate,
		GoldShopRate: record.GoldShopRate,
		Active:       record.Active,
	}
}

// SaveRateRequest creates or updates the rate record for a pair and optional
// denomination. Zero directional rates fall back to goldShopRate on lookup.
type SaveRateRequest struct {
	Operator     string          `json:"operator,omitempty"`
	FromCurrency string          `json:"fromCurrency" binding:"required,len=3,uppercase"`
	ToCurrency   string          `json:"toCurrency" binding:"required,len=3,uppercase"`
	Denomination string          `json:"denomination,omitempty"`
	BuyRate      decimal.Decimal `json:"buyRate"`
	SellRate     decimal.Decimal `json:"sellRate"`
	GoldShopRate decimal.Decimal `json:"goldShopRate"`
	Active       *bool           `json:"active,omitempty"`
}

// ToDomain converts the request into a domain rate record without audit or
// identity fields; the handler fills those in.
func (r SaveRateRequest) ToDomain() domain.RateRecord {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return domain.RateRecord{
		FromCurrency: domain.CurrencyCode(r.FromCurrency),
		ToCurrency:   domain.CurrencyCode(r.ToCurrency),
		Denomination: r.Denomination,
		BuyRate:      r.BuyRate,
		SellRate:     r.SellRate,
		GoldShopRate: r.GoldShopRate,
		Active:       active,
	}
}

// ToListRateRecordResponse converts a slice of domain rate records.
func ToListRateRecordResponse(records []domain.RateRecord) []RateRecordResponse {
	out := make([]RateRecordResponse, len(records))
	for i, record := range records {
		out[i] = ToRateRecordResponse(record)
	}
	return out
}
