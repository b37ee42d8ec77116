package dto

import "github.com/seoulfx/exchange_shop_backend/internal/core/domain"

// CurrencyResponse describes one tradeable currency and its note ladder.
type CurrencyResponse struct {
	Code          string   `json:"code"`
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	Denominations []string `json:"denominations"`
	Rounding      string   `json:"rounding"`
}

// ToCurrencyResponse converts a catalog entry.
func ToCurrencyResponse(currency domain.Currency) CurrencyResponse {
	denominations := make([]string, len(currency.Denominations))
	for i, face := range currency.Denominations {
		denominations[i] = face.String()
	}
	return CurrencyResponse{
		Code:          string(currency.Code),
		Symbol:        currency.Symbol,
		Name:          currency.Name,
		Denominations: denominations,
		Rounding:      string(currency.Rounding),
	}
}

// ToListCurrencyResponse converts the full catalog.
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	out := make([]CurrencyResponse, len(currencies))
	for i, currency := range currencies {
		out[i] = ToCurrencyResponse(currency)
	}
	return out
}
