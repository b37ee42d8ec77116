package dto

import (
	"time"

	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordResponse is the transport shape of one atomic transaction record as
// shown in the submission preview.
type RecordResponse struct {
	RecordID    string            `json:"recordID"`
	Type        string            `json:"type"`
	FromLeg     TransactionLegDTO `json:"fromLeg"`
	ToLeg       TransactionLegDTO `json:"toLeg"`
	FromAmount  decimal.Decimal   `json:"fromAmount"`
	ToAmount    decimal.Decimal   `json:"toAmount"`
	AppliedRate decimal.Decimal   `json:"appliedRate"`
	Fee         decimal.Decimal   `json:"fee"`
	FloorMargin decimal.Decimal   `json:"floorMargin"`
	Profit      decimal.Decimal   `json:"profit"`
	IsPrimary   bool              `json:"isPrimary"`
	ParentID    string            `json:"parentID,omitempty"`
	Status      string            `json:"status"`
}

// ToRecordResponse converts a domain record.
func ToRecordResponse(record domain.AtomicTransactionRecord) RecordResponse {
	return RecordResponse{
		RecordID:    record.RecordID,
		Type:        string(record.Type),
		FromLeg:     ToLegDTO(record.FromLeg),
		ToLeg:       ToLegDTO(record.ToLeg),
		FromAmount:  record.FromAmount,
		ToAmount:    record.ToAmount,
		AppliedRate: record.AppliedRate,
		Fee:         record.Fee,
		FloorMargin: record.FloorMargin,
		Profit:      record.Profit,
		IsPrimary:   record.IsPrimary,
		ParentID:    record.ParentID,
		Status:      string(record.Status),
	}
}

// DecompositionResponse is the preview of decomposed records with fee/profit
// totals. Shown to the operator only, never to the counterparty.
type DecompositionResponse struct {
	Records     []RecordResponse `json:"records"`
	TotalFees   decimal.Decimal  `json:"totalFees"`
	TotalMargin decimal.Decimal  `json:"totalMargin"`
	TotalProfit decimal.Decimal  `json:"totalProfit"`
}

// ToDecompositionResponse converts a domain decomposition.
func ToDecompositionResponse(d domain.Decomposition) DecompositionResponse {
	records := make([]RecordResponse, len(d.Records))
	for i, record := range d.Records {
		records[i] = ToRecordResponse(record)
	}
	return DecompositionResponse{
		Records:     records,
		TotalFees:   d.TotalFees,
		TotalMargin: d.TotalMargin,
		TotalProfit: d.TotalProfit,
	}
}

// RiskResponse is the transport shape of a risk assessment.
type RiskResponse struct {
	Level   string   `json:"level"`
	Reasons []string `json:"reasons"`
}

// ToRiskResponse converts a domain assessment.
func ToRiskResponse(risk domain.RiskAssessment) RiskResponse {
	return RiskResponse{Level: string(risk.Level), Reasons: risk.Reasons}
}

// ExecutionResponse reports the exact outcome of ledger submission.
type ExecutionResponse struct {
	Succeeded            int    `json:"succeeded"`
	Failed               int    `json:"failed"`
	Unattempted          int    `json:"unattempted"`
	FailedRecordID       string `json:"failedRecordID,omitempty"`
	RequiresConfirmation bool   `json:"requiresConfirmation"`
	ProposedAction       string `json:"proposedAction,omitempty"`
}

// ToExecutionResponse converts a domain execution result.
func ToExecutionResponse(result *domain.ExecutionResult) *ExecutionResponse {
	if result == nil {
		return nil
	}
	return &ExecutionResponse{
		Succeeded:            result.Succeeded,
		Failed:               result.Failed,
		Unattempted:          result.Unattempted,
		FailedRecordID:       result.FailedRecordID,
		RequiresConfirmation: result.RequiresConfirmation,
		ProposedAction:       result.ProposedAction,
	}
}

// RollbackResponse lists the reversed records.
type RollbackResponse struct {
	CancelledRecordIDs []string `json:"cancelledRecordIDs"`
}

// ToRollbackResponse converts a domain rollback result.
func ToRollbackResponse(result *domain.RollbackResult) RollbackResponse {
	ids := make([]string, len(result.Cancelled))
	for i, applied := range result.Cancelled {
		ids[i] = applied.RecordID
	}
	return RollbackResponse{CancelledRecordIDs: ids}
}

// SessionResponse is the transport shape of a workflow session snapshot.
type SessionResponse struct {
	SessionID     string                `json:"sessionID"`
	State         string                `json:"state"`
	Risk          RiskResponse          `json:"risk"`
	Decomposition DecompositionResponse `json:"decomposition"`
	Execution     *ExecutionResponse    `json:"execution,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	LastUpdatedAt time.Time             `json:"lastUpdatedAt"`
}

// ToSessionResponse converts a domain session.
func ToSessionResponse(session *domain.WorkflowSession) SessionResponse {
	return SessionResponse{
		SessionID:     session.SessionID,
		State:         string(session.State),
		Risk:          ToRiskResponse(session.Risk),
		Decomposition: ToDecompositionResponse(session.Decomposition),
		Execution:     ToExecutionResponse(session.Execution),
		CreatedAt:     session.CreatedAt,
		LastUpdatedAt: session.LastUpdatedAt,
	}
}

// AdvanceSessionRequest names the target workflow state.
type AdvanceSessionRequest struct {
	State string `json:"state" binding:"required,oneof=REVIEW APPROVED EXECUTED"`
}
