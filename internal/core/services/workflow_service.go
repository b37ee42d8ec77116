package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/seoulfx/exchange_shop_backend/internal/apperrors"
	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
	portssvc "github.com/seoulfx/exchange_shop_backend/internal/core/ports/services"
	"github.com/seoulfx/exchange_shop_backend/internal/middleware"
	"github.com/seoulfx/exchange_shop_backend/internal/utils"
	"github.com/shopspring/decimal"
)

var (
	ErrSessionNotFound    = errors.New("workflow session not found")
	ErrIllegalTransition  = errors.New("illegal workflow transition")
	ErrApprovalRequired   = errors.New("staged approval required before execution")
	ErrExecutionStarted   = errors.New("execution has started, cancellation is only possible via rollback")
	ErrNoRollbackProposed = errors.New("session has no pending rollback proposal")
)

// workflowService classifies compound transactions and gates execution behind
// review/approval stages. Sessions are the only mutable state in the engine
// and are guarded by a mutex; the request values themselves stay immutable.
type workflowService struct {
	inventory  portssvc.InventoryValidatorSvcFacade
	decomposer portssvc.DecomposerSvcFacade
	executor   portssvc.ExecutorSvcFacade

	localCurrency domain.CurrencyCode
	risk          domain.RiskPolicy

	mu        sync.RWMutex
	sessions  map[string]*domain.WorkflowSession
	executing map[string]struct{} // session IDs with a ledger call in flight
}

// NewWorkflowService creates a new WorkflowService.
func NewWorkflowService(inventory portssvc.InventoryValidatorSvcFacade, decomposer portssvc.DecomposerSvcFacade, executor portssvc.ExecutorSvcFacade, localCurrency domain.CurrencyCode, risk domain.RiskPolicy) portssvc.WorkflowSvcFacade {
	return &workflowService{
		inventory:     inventory,
		decomposer:    decomposer,
		executor:      executor,
		localCurrency: localCurrency,
		risk:          risk,
		sessions:      make(map[string]*domain.WorkflowSession),
		executing:     make(map[string]struct{}),
	}
}

var _ portssvc.WorkflowSvcFacade = (*workflowService)(nil)

// Classify derives the risk assessment for a request: MEDIUM when a
// per-currency input total exceeds its threshold or a side carries more than
// the allowed leg count, HIGH when any disbursement leg fails inventory
// validation or a foreign cash leg exceeds its volatility threshold.
func (s *workflowService) Classify(ctx context.Context, req domain.CompoundTransactionRequest) (domain.RiskAssessment, error) {
	level := domain.RiskLow
	var reasons []string

	totals := make(map[domain.CurrencyCode]decimal.Decimal)
	for _, leg := range req.Inputs {
		totals[leg.Currency] = totals[leg.Currency].Add(leg.Amount)
	}
	for currency, total := range totals {
		if threshold, ok := s.risk.ValueThresholds[currency]; ok && total.GreaterThan(threshold) {
			level = level.Escalate(domain.RiskMedium)
			reasons = append(reasons, fmt.Sprintf("input total %s %s exceeds threshold %s", utils.FormatAmount(total, currency), currency, utils.FormatAmount(threshold, currency)))
		}
	}

	if len(req.Inputs) > s.risk.MaxLegsPerSide || len(req.Outputs) > s.risk.MaxLegsPerSide {
		level = level.Escalate(domain.RiskMedium)
		reasons = append(reasons, fmt.Sprintf("leg count exceeds %d on one side", s.risk.MaxLegsPerSide))
	}

	// Inventory feasibility gates what the shop can pay out.
	for i, leg := range req.Outputs {
		validation, err := s.inventory.Validate(ctx, leg)
		if err != nil {
			return domain.RiskAssessment{}, err
		}
		if !validation.Valid {
			level = level.Escalate(domain.RiskHigh)
			reasons = append(reasons, fmt.Sprintf("output leg %d fails inventory validation (%d shortfall(s))", i+1, len(validation.Shortfalls)))
		}
	}

	for _, leg := range append(append([]domain.TransactionLeg{}, req.Inputs...), req.Outputs...) {
		if !leg.IsCash() || leg.Currency == s.localCurrency {
			continue
		}
		if threshold, ok := s.risk.VolatileCashThresholds[leg.Currency]; ok && leg.Amount.GreaterThan(threshold) {
			level = level.Escalate(domain.RiskHigh)
			reasons = append(reasons, fmt.Sprintf("volatile %s cash leg of %s exceeds threshold %s", leg.Currency, utils.FormatAmount(leg.Amount, leg.Currency), utils.FormatAmount(threshold, leg.Currency)))
		}
	}

	return domain.RiskAssessment{Level: level, Reasons: reasons}, nil
}

// Start classifies the request and decomposes it into a reviewable session.
// Low-risk sessions get CONFIRMED records (no staged approval); everything
// else starts PENDING.
func (s *workflowService) Start(ctx context.Context, req domain.CompoundTransactionRequest) (*domain.WorkflowSession, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	assessment, err := s.Classify(ctx, req)
	if err != nil {
		return nil, err
	}

	initialStatus := domain.StatusPending
	if assessment.Level == domain.RiskLow {
		initialStatus = domain.StatusConfirmed
	}

	decomposition, err := s.decomposer.Decompose(ctx, req, initialStatus)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &domain.WorkflowSession{
		SessionID:     uuid.NewString(),
		Request:       req,
		State:         domain.StateInput,
		Risk:          assessment,
		Decomposition: decomposition,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     req.Operator,
			LastUpdatedAt: now,
			LastUpdatedBy: req.Operator,
		},
	}

	s.mu.Lock()
	s.sessions[session.SessionID] = session
	s.mu.Unlock()

	logger.Info("Workflow session started",
		slog.String("session_id", session.SessionID),
		slog.String("risk_level", string(assessment.Level)),
		slog.Int("record_count", len(decomposition.Records)),
	)
	return snapshot(session), nil
}

// Advance moves a session to the target state. Advancing to EXECUTED submits
// the decomposition to the ledger; the input→executed shortcut is reserved
// for low-risk sessions. The service lock is not held across ledger calls, so
// distinct sessions execute concurrently; a session with a ledger call in
// flight rejects further transitions until it completes.
func (s *workflowService) Advance(ctx context.Context, sessionID string, to domain.WorkflowState) (*domain.WorkflowSession, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if _, busy := s.executing[sessionID]; busy {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: session has a ledger operation in flight", apperrors.ErrConflict)
	}
	if !session.State.CanTransition(to) {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, session.State, to)
	}
	if to == domain.StateExecuted && session.State == domain.StateInput && session.Risk.Level != domain.RiskLow {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: risk level is %s", ErrApprovalRequired, session.Risk.Level)
	}

	if to != domain.StateExecuted {
		session.State = to
		session.LastUpdatedAt = time.Now().UTC()
		updated := snapshot(session)
		s.mu.Unlock()
		logger.Info("Workflow session advanced",
			slog.String("session_id", sessionID),
			slog.String("state", string(to)),
		)
		return updated, nil
	}

	// Records are immutable after decomposition, so they can be submitted
	// outside the lock.
	records := session.Decomposition.Records
	s.executing[sessionID] = struct{}{}
	s.mu.Unlock()

	result, err := s.executor.Execute(ctx, records)

	s.mu.Lock()
	delete(s.executing, sessionID)
	session.Execution = result
	session.LastUpdatedAt = time.Now().UTC()
	if err == nil {
		session.State = domain.StateExecuted
	}
	updated := snapshot(session)
	s.mu.Unlock()

	if err != nil {
		// Partial failure: the session stays where it was so the caller can
		// confirm the proposed rollback.
		logger.Warn("Execution of workflow session failed",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return updated, err
	}
	return updated, nil
}

// Cancel discards a session with no ledger effect. Once records have been
// applied, cancellation is only achievable via Rollback, never by abandoning;
// a failed execution that applied nothing left no effects and may still be
// discarded.
func (s *workflowService) Cancel(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if _, busy := s.executing[sessionID]; busy {
		return fmt.Errorf("%w: session has a ledger operation in flight", apperrors.ErrConflict)
	}
	if session.State.Terminal() {
		return fmt.Errorf("%w: session already %s", apperrors.ErrConflict, session.State)
	}
	if session.Execution != nil && session.Execution.Succeeded > 0 {
		return ErrExecutionStarted
	}

	session.State = domain.StateCancelled
	session.LastUpdatedAt = time.Now().UTC()
	middleware.GetLoggerFromCtx(ctx).Info("Workflow session cancelled", slog.String("session_id", sessionID))
	return nil
}

// Rollback performs the compensating cancellation proposed after a partial
// execution failure and marks the session cancelled on success. The service
// lock is released while the retried cancellations run against the ledger.
func (s *workflowService) Rollback(ctx context.Context, sessionID string) (*domain.RollbackResult, error) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if _, busy := s.executing[sessionID]; busy {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: session has a ledger operation in flight", apperrors.ErrConflict)
	}
	if session.Execution == nil || !session.Execution.RequiresConfirmation {
		s.mu.Unlock()
		return nil, ErrNoRollbackProposed
	}
	applied := session.Execution.Applied
	s.executing[sessionID] = struct{}{}
	s.mu.Unlock()

	result, err := s.executor.Rollback(ctx, applied)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.executing, sessionID)
	session.LastUpdatedAt = time.Now().UTC()
	if err != nil {
		return result, err
	}

	session.State = domain.StateCancelled
	session.Execution.RequiresConfirmation = false
	return result, nil
}

// Get returns the current session snapshot.
func (s *workflowService) Get(ctx context.Context, sessionID string) (*domain.WorkflowSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return snapshot(session), nil
}

// snapshot copies a session so callers never share the guarded value.
func snapshot(session *domain.WorkflowSession) *domain.WorkflowSession {
	copied := *session
	if session.Execution != nil {
		execution := *session.Execution
		copied.Execution = &execution
	}
	return &copied
}
