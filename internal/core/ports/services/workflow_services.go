package services

import (
	"context"

	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
)

// WorkflowSvcFacade gates compound transactions behind risk classification and
// staged approval. Sessions advance input → review → approved → executed;
// low-risk requests may skip straight from input to executed. A session may be
// cancelled at any point before execution with no ledger effect.
type WorkflowSvcFacade interface {
	// Classify derives the risk assessment for a request without starting a
	// session.
	Classify(ctx context.Context, req domain.CompoundTransactionRequest) (domain.RiskAssessment, error)

	// Start classifies and decomposes the request into a reviewable session.
	Start(ctx context.Context, req domain.CompoundTransactionRequest) (*domain.WorkflowSession, error)

	// Advance moves a session to the target state, executing the decomposition
	// when the target is EXECUTED.
	Advance(ctx context.Context, sessionID string, to domain.WorkflowState) (*domain.WorkflowSession, error)

	// Cancel discards a session prior to execution.
	Cancel(ctx context.Context, sessionID string) error

	// Rollback performs the compensating cancellation proposed by a partial
	// execution failure on the session.
	Rollback(ctx context.Context, sessionID string) (*domain.RollbackResult, error)

	// Get returns the current session snapshot.
	Get(ctx context.Context, sessionID string) (*domain.WorkflowSession, error)
}

// ExecutorSvcFacade submits decomposed records to the ledger collaborator.
type ExecutorSvcFacade interface {
	// Execute submits records strictly sequentially, in slice order. A later
	// record is never submitted until the previous one is confirmed. On
	// failure it reports exact succeeded/failed/unattempted counts and
	// proposes a compensating rollback without performing it.
	Execute(ctx context.Context, records []domain.AtomicTransactionRecord) (*domain.ExecutionResult, error)

	// Rollback cancels the already-applied records of a partial execution.
	// A failed cancellation is terminal and requires manual reconciliation.
	Rollback(ctx context.Context, applied []domain.AppliedRecord) (*domain.RollbackResult, error)
}
