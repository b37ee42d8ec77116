package services_test

import (
	"context"
	"testing"

	"github.com/seoulfx/exchange_shop_backend/internal/apperrors"
	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
	portssvc "github.com/seoulfx/exchange_shop_backend/internal/core/ports/services"
	"github.com/seoulfx/exchange_shop_backend/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock Ledger ---
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Apply(ctx context.Context, record domain.AtomicTransactionRecord) (string, error) {
	args := m.Called(ctx, record)
	return args.String(0), args.Error(1)
}

func (m *MockLedger) SetStatus(ctx context.Context, ledgerID string, status domain.RecordStatus) error {
	args := m.Called(ctx, ledgerID, status)
	return args.Error(0)
}

// --- Test Suite ---
type ExecutionServiceTestSuite struct {
	suite.Suite
	mockLedger *MockLedger
	service    portssvc.ExecutorSvcFacade
}

func (suite *ExecutionServiceTestSuite) SetupTest() {
	suite.mockLedger = new(MockLedger)
	suite.service = services.NewExecutionService(suite.mockLedger)
}

func record(id string) domain.AtomicTransactionRecord {
	return domain.AtomicTransactionRecord{RecordID: id, Status: domain.StatusConfirmed}
}

func matchRecord(id string) interface{} {
	return mock.MatchedBy(func(r domain.AtomicTransactionRecord) bool {
		return r.RecordID == id
	})
}

// --- Test Cases ---

func (suite *ExecutionServiceTestSuite) TestExecute_AllRecordsApplied() {
	records := []domain.AtomicTransactionRecord{record("a"), record("b"), record("c")}
	suite.mockLedger.On("Apply", mock.Anything, matchRecord("a")).Return("L-a", nil).Once()
	suite.mockLedger.On("Apply", mock.Anything, matchRecord("b")).Return("L-b", nil).Once()
	suite.mockLedger.On("Apply", mock.Anything, matchRecord("c")).Return("L-c", nil).Once()

	result, err := suite.service.Execute(context.Background(), records)

	suite.Require().NoError(err)
	suite.Equal(3, result.Succeeded)
	suite.Zero(result.Failed)
	suite.Zero(result.Unattempted)
	suite.False(result.RequiresConfirmation)
	suite.Equal([]domain.AppliedRecord{
		{RecordID: "a", LedgerID: "L-a"},
		{RecordID: "b", LedgerID: "L-b"},
		{RecordID: "c", LedgerID: "L-c"},
	}, result.Applied)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *ExecutionServiceTestSuite) TestExecute_PartialFailureReportsExactCounts() {
	records := []domain.AtomicTransactionRecord{record("a"), record("b"), record("c")}
	suite.mockLedger.On("Apply", mock.Anything, matchRecord("a")).Return("L-a", nil).Once()
	suite.mockLedger.On("Apply", mock.Anything, matchRecord("b")).Return("", assert.AnError).Once()

	result, err := suite.service.Execute(context.Background(), records)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPartialExecution)
	suite.Equal(1, result.Succeeded)
	suite.Equal(1, result.Failed)
	suite.Equal(1, result.Unattempted)
	suite.Equal("b", result.FailedRecordID)
	suite.True(result.RequiresConfirmation)
	suite.NotEmpty(result.ProposedAction)
	// The third record was never attempted.
	suite.mockLedger.AssertNotCalled(suite.T(), "Apply", mock.Anything, matchRecord("c"))
}

func (suite *ExecutionServiceTestSuite) TestExecute_FirstRecordFailureNeedsNoRollback() {
	records := []domain.AtomicTransactionRecord{record("a"), record("b")}
	suite.mockLedger.On("Apply", mock.Anything, matchRecord("a")).Return("", assert.AnError).Once()

	result, err := suite.service.Execute(context.Background(), records)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPartialExecution)
	suite.Zero(result.Succeeded)
	suite.Equal(1, result.Failed)
	suite.Equal(1, result.Unattempted)
	suite.False(result.RequiresConfirmation)
	suite.Empty(result.ProposedAction)
}

func (suite *ExecutionServiceTestSuite) TestRollback_CancelsInReverseOrder() {
	applied := []domain.AppliedRecord{
		{RecordID: "a", LedgerID: "L-a"},
		{RecordID: "b", LedgerID: "L-b"},
	}
	suite.mockLedger.On("SetStatus", mock.Anything, "L-b", domain.StatusCancelled).Return(nil).Once()
	suite.mockLedger.On("SetStatus", mock.Anything, "L-a", domain.StatusCancelled).Return(nil).Once()

	result, err := suite.service.Rollback(context.Background(), applied)

	suite.Require().NoError(err)
	suite.Equal([]domain.AppliedRecord{
		{RecordID: "b", LedgerID: "L-b"},
		{RecordID: "a", LedgerID: "L-a"},
	}, result.Cancelled)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *ExecutionServiceTestSuite) TestRollback_PersistentFailureIsTerminal() {
	applied := []domain.AppliedRecord{
		{RecordID: "a", LedgerID: "L-a"},
		{RecordID: "b", LedgerID: "L-b"},
	}
	// The cancellation keeps failing through every bounded retry.
	suite.mockLedger.On("SetStatus", mock.Anything, "L-b", domain.StatusCancelled).Return(assert.AnError)

	result, err := suite.service.Rollback(context.Background(), applied)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRollbackFailed)
	suite.Empty(result.Cancelled)
	suite.mockLedger.AssertNotCalled(suite.T(), "SetStatus", mock.Anything, "L-a", domain.StatusCancelled)
}

func TestExecutionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExecutionServiceTestSuite))
}
