package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eapache/go-resiliency/retrier"

	"github.com/seoulfx/exchange_shop_backend/internal/apperrors"
	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
	portsrepo "github.com/seoulfx/exchange_shop_backend/internal/core/ports/repositories"
	portssvc "github.com/seoulfx/exchange_shop_backend/internal/core/ports/services"
	"github.com/seoulfx/exchange_shop_backend/internal/middleware"
)

// executionService submits decomposed records to the ledger collaborator
// strictly sequentially and handles partial failure with compensating
// cancellation.
type executionService struct {
	ledger portsrepo.Ledger
	// Cancellations get a few bounded attempts before the failure is
	// declared terminal; the controller never retries indefinitely.
	cancelRetrier *retrier.Retrier
}

// NewExecutionService creates a new ExecutionService.
func NewExecutionService(ledger portsrepo.Ledger) portssvc.ExecutorSvcFacade {
	return &executionService{
		ledger:        ledger,
		cancelRetrier: retrier.New(retrier.ConstantBackoff(3, 200*time.Millisecond), nil),
	}
}

var _ portssvc.ExecutorSvcFacade = (*executionService)(nil)

// Execute submits records in slice order. A later record is never submitted
// until the previous one's persistence and effects are confirmed. On failure
// of record k, records 0..k-1 stay applied, the result reports the exact
// succeeded/failed/unattempted counts, and a compensating rollback is
// proposed but not performed.
func (s *executionService) Execute(ctx context.Context, records []domain.AtomicTransactionRecord) (*domain.ExecutionResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	applied := make([]domain.AppliedRecord, 0, len(records))
	for i, record := range records {
		ledgerID, err := s.ledger.Apply(ctx, record)
		if err != nil {
			result := &domain.ExecutionResult{
				Applied:              applied,
				Succeeded:            len(applied),
				Failed:               1,
				Unattempted:          len(records) - i - 1,
				FailedRecordID:       record.RecordID,
				RequiresConfirmation: len(applied) > 0,
			}
			if len(applied) > 0 {
				result.ProposedAction = fmt.Sprintf("cancel the %d already-applied record(s)", len(applied))
			}
			logger.Error("Execution failed partway through compound transaction",
				slog.Int("succeeded", result.Succeeded),
				slog.Int("unattempted", result.Unattempted),
				slog.String("failed_record_id", record.RecordID),
				slog.String("error", err.Error()),
			)
			return result, fmt.Errorf("%w: record %d of %d: %w", apperrors.ErrPartialExecution, i+1, len(records), err)
		}
		applied = append(applied, domain.AppliedRecord{RecordID: record.RecordID, LedgerID: ledgerID})
	}

	logger.Info("Compound transaction executed", slog.Int("record_count", len(applied)))
	return &domain.ExecutionResult{Applied: applied, Succeeded: len(applied)}, nil
}

// Rollback cancels already-applied records in reverse application order. The
// ledger interprets the CANCELLED transition as "reverse this record's
// balance and denomination effects exactly". A cancellation that still fails
// after its bounded retries is terminal and requires manual reconciliation.
func (s *executionService) Rollback(ctx context.Context, applied []domain.AppliedRecord) (*domain.RollbackResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	cancelled := make([]domain.AppliedRecord, 0, len(applied))
	for i := len(applied) - 1; i >= 0; i-- {
		target := applied[i]
		err := s.cancelRetrier.RunCtx(ctx, func(ctx context.Context) error {
			return s.ledger.SetStatus(ctx, target.LedgerID, domain.StatusCancelled)
		})
		if err != nil {
			logger.Error("Compensating cancellation failed, manual reconciliation required",
				slog.String("ledger_id", target.LedgerID),
				slog.Int("reversed", len(cancelled)),
				slog.Int("not_reversed", len(applied)-len(cancelled)),
				slog.String("error", err.Error()),
			)
			return &domain.RollbackResult{Cancelled: cancelled},
				fmt.Errorf("%w: reversed %d of %d record(s): %w", apperrors.ErrRollbackFailed, len(cancelled), len(applied), err)
		}
		cancelled = append(cancelled, target)
	}

	logger.Info("Compensating rollback completed", slog.Int("cancelled_count", len(cancelled)))
	return &domain.RollbackResult{Cancelled: cancelled}, nil
}
