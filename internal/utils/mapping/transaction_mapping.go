package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
	"github.com/seoulfx/exchange_shop_backend/internal/models"
)

// ToModelTransaction converts a domain AtomicTransactionRecord to a model
// AtomicTransaction, serializing compositions and metadata to JSON.
func ToModelTransaction(d domain.AtomicTransactionRecord) (models.AtomicTransaction, error) {
	fromComposition, err := marshalComposition(d.FromLeg.Composition)
	if err != nil {
		return models.AtomicTransaction{}, fmt.Errorf("failed to marshal from-leg composition: %w", err)
	}
	toComposition, err := marshalComposition(d.ToLeg.Composition)
	if err != nil {
		return models.AtomicTransaction{}, fmt.Errorf("failed to marshal to-leg composition: %w", err)
	}
	metadata, err := json.Marshal(d.Metadata)
	if err != nil {
		return models.AtomicTransaction{}, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	var parentID *string
	if d.ParentID != "" {
		parentID = &d.ParentID
	}

	return models.AtomicTransaction{
		TransactionID:   d.RecordID,
		TransactionType: string(d.Type),
		FromKind:        string(d.FromLeg.Kind),
		FromCurrency:    string(d.FromLeg.Currency),
		FromAccountRef:  d.FromLeg.AccountRef,
		FromComposition: fromComposition,
		ToKind:          string(d.ToLeg.Kind),
		ToCurrency:      string(d.ToLeg.Currency),
		ToAccountRef:    d.ToLeg.AccountRef,
		ToComposition:   toComposition,
		FromAmount:      d.FromAmount,
		ToAmount:        d.ToAmount,
		AppliedRate:     d.AppliedRate,
		Fee:             d.Fee,
		FloorMargin:     d.FloorMargin,
		Profit:          d.Profit,
		IsPrimary:       d.IsPrimary,
		ParentID:        parentID,
		Memo:            d.Memo,
		Metadata:        metadata,
		Status:          string(d.Status),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainTransaction converts a model AtomicTransaction back to a domain
// AtomicTransactionRecord.
func ToDomainTransaction(m models.AtomicTransaction) (domain.AtomicTransactionRecord, error) {
	fromComposition, err := unmarshalComposition(m.FromComposition)
	if err != nil {
		return domain.AtomicTransactionRecord{}, fmt.Errorf("failed to unmarshal from-leg composition: %w", err)
	}
	toComposition, err := unmarshalComposition(m.ToComposition)
	if err != nil {
		return domain.AtomicTransactionRecord{}, fmt.Errorf("failed to unmarshal to-leg composition: %w", err)
	}

	var metadata map[string]string
	if len(m.Metadata) > 0 {
		if err := json.Unmarshal(m.Metadata, &metadata); err != nil {
			return domain.AtomicTransactionRecord{}, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	var parentID string
	if m.ParentID != nil {
		parentID = *m.ParentID
	}

	return domain.AtomicTransactionRecord{
		RecordID: m.TransactionID,
		Type:     domain.TransactionType(m.TransactionType),
		FromLeg: domain.TransactionLeg{
			Role:        domain.LegInput,
			Kind:        domain.LegKind(m.FromKind),
			Currency:    domain.CurrencyCode(m.FromCurrency),
			Amount:      m.FromAmount,
			AccountRef:  m.FromAccountRef,
			Composition: fromComposition,
		},
		ToLeg: domain.TransactionLeg{
			Role:        domain.LegOutput,
			Kind:        domain.LegKind(m.ToKind),
			Currency:    domain.CurrencyCode(m.ToCurrency),
			Amount:      m.ToAmount,
			AccountRef:  m.ToAccountRef,
			Composition: toComposition,
		},
		FromAmount:  m.FromAmount,
		ToAmount:    m.ToAmount,
		AppliedRate: m.AppliedRate,
		Fee:         m.Fee,
		FloorMargin: m.FloorMargin,
		Profit:      m.Profit,
		IsPrimary:   m.IsPrimary,
		ParentID:    parentID,
		Memo:        m.Memo,
		Metadata:    metadata,
		Status:      domain.RecordStatus(m.Status),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}, nil
}

func marshalComposition(c domain.DenominationComposition) ([]byte, error) {
	if c.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(map[string]int64(c))
}

func unmarshalComposition(raw []byte) (domain.DenominationComposition, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var m map[string]int64
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return domain.DenominationComposition(m), nil
}
