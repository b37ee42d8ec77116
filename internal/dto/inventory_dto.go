package dto

import "github.com/seoulfx/exchange_shop_backend/internal/core/domain"

// DenominationStockResponse reports the current note counts for a currency.
type DenominationStockResponse struct {
	Currency string           `json:"currency"`
	Stock    map[string]int64 `json:"stock"`
}

// InventoryShortfallResponse names one denomination short of stock.
type InventoryShortfallResponse struct {
	Denomination string `json:"denomination"`
	Requested    int64  `json:"requested"`
	Available    int64  `json:"available"`
	Shortfall    int64  `json:"shortfall"`
}

// InventoryValidationResponse is the per-leg validation verdict.
type InventoryValidationResponse struct {
	Valid      bool                         `json:"valid"`
	Shortfalls []InventoryShortfallResponse `json:"shortfalls,omitempty"`
}

// ToInventoryValidationResponse converts a domain validation result.
func ToInventoryValidationResponse(validation domain.InventoryValidation) InventoryValidationResponse {
	out := InventoryValidationResponse{Valid: validation.Valid}
	for _, shortfall := range validation.Shortfalls {
		out.Shortfalls = append(out.Shortfalls, InventoryShortfallResponse{
			Denomination: shortfall.Denomination,
			Requested:    shortfall.Requested,
			Available:    shortfall.Available,
			Shortfall:    shortfall.Shortfall,
		})
	}
	return out
}

// AutoAdjustResponse carries the inventory-bounded composition for a leg.
type AutoAdjustResponse struct {
	Composition map[string]int64 `json:"composition"`
}
