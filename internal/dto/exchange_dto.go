package dto

import (
	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionLegDTO is one side of a compound exchange as submitted by the
// operator UI. Role is implied by which list the leg appears in.
type TransactionLegDTO struct {
	Kind         string           `json:"kind" binding:"required,oneof=CASH ACCOUNT"`
	Currency     string           `json:"currency" binding:"required,len=3,uppercase"`
	Amount       decimal.Decimal  `json:"amount" binding:"required"`
	AccountRef   string           `json:"accountRef,omitempty"`
	Composition  map[string]int64 `json:"composition,omitempty"`
	SplitPercent decimal.Decimal  `json:"splitPercent,omitempty"`
}

// ToDomain converts the DTO into a domain leg with the given role.
func (d TransactionLegDTO) ToDomain(role domain.LegRole) domain.TransactionLeg {
	return domain.TransactionLeg{
		Role:         role,
		Kind:         domain.LegKind(d.Kind),
		Currency:     domain.CurrencyCode(d.Currency),
		Amount:       d.Amount,
		AccountRef:   d.AccountRef,
		Composition:  domain.DenominationComposition(d.Composition),
		SplitPercent: d.SplitPercent,
	}
}

// CompoundTransactionRequestDTO is the transient compound exchange action:
// input legs funding output legs plus free-text metadata.
type CompoundTransactionRequestDTO struct {
	Operator         string              `json:"operator,omitempty"`
	Inputs           []TransactionLegDTO `json:"inputs" binding:"required,min=1,dive"`
	Outputs          []TransactionLegDTO `json:"outputs" binding:"required,min=1,dive"`
	Memo             string              `json:"memo,omitempty"`
	Counterparty     string              `json:"counterparty,omitempty"`
	RateAcknowledged bool                `json:"rateAcknowledged,omitempty"`
}

// ToDomain converts the DTO into the immutable domain request value.
func (d CompoundTransactionRequestDTO) ToDomain() domain.CompoundTransactionRequest {
	req := domain.CompoundTransactionRequest{
		Operator:         d.Operator,
		Memo:             d.Memo,
		Counterparty:     d.Counterparty,
		RateAcknowledged: d.RateAcknowledged,
	}
	for _, leg := range d.Inputs {
		req.Inputs = append(req.Inputs, leg.ToDomain(domain.LegInput))
	}
	for _, leg := range d.Outputs {
		req.Outputs = append(req.Outputs, leg.ToDomain(domain.LegOutput))
	}
	return req
}

// ToLegDTO converts a domain leg back to its transport shape.
func ToLegDTO(leg domain.TransactionLeg) TransactionLegDTO {
	return TransactionLegDTO{
		Kind:         string(leg.Kind),
		Currency:     string(leg.Currency),
		Amount:       leg.Amount,
		AccountRef:   leg.AccountRef,
		Composition:  map[string]int64(leg.Composition),
		SplitPercent: leg.SplitPercent,
	}
}

// ToCompoundRequestDTO converts a domain request back to its transport shape,
// used by the recalculate endpoint which echoes the updated request.
func ToCompoundRequestDTO(req domain.CompoundTransactionRequest) CompoundTransactionRequestDTO {
	out := CompoundTransactionRequestDTO{
		Operator:         req.Operator,
		Memo:             req.Memo,
		Counterparty:     req.Counterparty,
		RateAcknowledged: req.RateAcknowledged,
	}
	for _, leg := range req.Inputs {
		out.Inputs = append(out.Inputs, ToLegDTO(leg))
	}
	for _, leg := range req.Outputs {
		out.Outputs = append(out.Outputs, ToLegDTO(leg))
	}
	return out
}

// QuoteRequest asks for a missing leg amount derived from a counterpart leg.
type QuoteRequest struct {
	Source         TransactionLegDTO `json:"source" binding:"required"`
	TargetCurrency string            `json:"targetCurrency" binding:"required,len=3,uppercase"`
	TargetKind     string            `json:"targetKind" binding:"required,oneof=CASH ACCOUNT"`
}

// QuoteResponse carries the derived amount and rounding metadata.
type QuoteResponse struct {
	Amount      decimal.Decimal `json:"amount"`
	FloorMargin decimal.Decimal `json:"floorMargin"`
	RateMissing bool            `json:"rateMissing"`
}

// ToQuoteResponse converts a derived amount.
func ToQuoteResponse(derived domain.DerivedAmount) QuoteResponse {
	return QuoteResponse{
		Amount:      derived.Amount,
		FloorMargin: derived.FloorMargin,
		RateMissing: derived.RateMissing,
	}
}
