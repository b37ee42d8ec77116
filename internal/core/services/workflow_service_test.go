package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/seoulfx/exchange_shop_backend/internal/apperrors"
	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
	portssvc "github.com/seoulfx/exchange_shop_backend/internal/core/ports/services"
	"github.com/seoulfx/exchange_shop_backend/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type WorkflowServiceTestSuite struct {
	suite.Suite
	mockSource    *MockRateSource
	mockInventory *MockInventorySource
	mockLedger    *MockLedger
	service       portssvc.WorkflowSvcFacade
}

func (suite *WorkflowServiceTestSuite) SetupTest() {
	suite.mockSource = new(MockRateSource)
	suite.mockInventory = new(MockInventorySource)
	suite.mockLedger = new(MockLedger)

	denominations := services.NewDenominationService()
	rates := services.NewRateResolverService(suite.mockSource, domain.KRW)
	inventory := services.NewInventoryValidatorService(suite.mockInventory)
	decomposer := services.NewDecomposerService(rates, denominations, domain.KRW, domain.DefaultFeePolicy())
	executor := services.NewExecutionService(suite.mockLedger)

	suite.service = services.NewWorkflowService(inventory, decomposer, executor, domain.KRW, domain.DefaultRiskPolicy())
}

func (suite *WorkflowServiceTestSuite) stockRates() {
	records := []domain.RateRecord{
		rateRecord("krwusd", domain.KRW, domain.USD, "", "0", "0.0007", "0"),
		rateRecord("krwvnd", domain.KRW, domain.VND, "", "0", "10", "0"),
	}
	suite.mockSource.On("ListActiveRates", mock.Anything).Return(records, nil)
}

func (suite *WorkflowServiceTestSuite) simpleRequest() domain.CompoundTransactionRequest {
	return domain.CompoundTransactionRequest{
		Inputs:  []domain.TransactionLeg{cashLeg(domain.LegInput, domain.KRW, 100000)},
		Outputs: []domain.TransactionLeg{cashLeg(domain.LegOutput, domain.USD, 70)},
	}
}

func matchOutputCurrency(currency domain.CurrencyCode) interface{} {
	return mock.MatchedBy(func(r domain.AtomicTransactionRecord) bool {
		return r.ToLeg.Currency == currency
	})
}

// --- Test Cases ---

func (suite *WorkflowServiceTestSuite) TestClassify_LowRisk() {
	assessment, err := suite.service.Classify(context.Background(), suite.simpleRequest())

	suite.Require().NoError(err)
	suite.Equal(domain.RiskLow, assessment.Level)
	suite.Empty(assessment.Reasons)
}

func (suite *WorkflowServiceTestSuite) TestClassify_ValueThresholdEscalatesToMedium() {
	req := domain.CompoundTransactionRequest{
		Inputs:  []domain.TransactionLeg{cashLeg(domain.LegInput, domain.KRW, 20000000)},
		Outputs: []domain.TransactionLeg{cashLeg(domain.LegOutput, domain.USD, 70)},
	}

	assessment, err := suite.service.Classify(context.Background(), req)

	suite.Require().NoError(err)
	suite.Equal(domain.RiskMedium, assessment.Level)
	suite.NotEmpty(assessment.Reasons)
}

func (suite *WorkflowServiceTestSuite) TestClassify_LegCountEscalatesToMedium() {
	req := domain.CompoundTransactionRequest{
		Inputs: []domain.TransactionLeg{
			cashLeg(domain.LegInput, domain.KRW, 1000),
			cashLeg(domain.LegInput, domain.KRW, 1000),
			cashLeg(domain.LegInput, domain.KRW, 1000),
		},
		Outputs: []domain.TransactionLeg{cashLeg(domain.LegOutput, domain.USD, 2)},
	}

	assessment, err := suite.service.Classify(context.Background(), req)

	suite.Require().NoError(err)
	suite.Equal(domain.RiskMedium, assessment.Level)
}

func (suite *WorkflowServiceTestSuite) TestClassify_VolatileForeignCashEscalatesToHigh() {
	req := domain.CompoundTransactionRequest{
		Inputs:  []domain.TransactionLeg{cashLeg(domain.LegInput, domain.KRW, 9000000)},
		Outputs: []domain.TransactionLeg{cashLeg(domain.LegOutput, domain.USD, 6000)},
	}

	assessment, err := suite.service.Classify(context.Background(), req)

	suite.Require().NoError(err)
	suite.Equal(domain.RiskHigh, assessment.Level)
}

func (suite *WorkflowServiceTestSuite) TestClassify_InventoryShortfallEscalatesToHigh() {
	suite.mockInventory.On("GetDenominationStock", mock.Anything, domain.USD).
		Return(map[string]int64{"100": 1}, nil)

	output := cashLeg(domain.LegOutput, domain.USD, 400)
	output.Composition = domain.DenominationComposition{"100": 4}
	req := domain.CompoundTransactionRequest{
		Inputs:  []domain.TransactionLeg{cashLeg(domain.LegInput, domain.KRW, 600000)},
		Outputs: []domain.TransactionLeg{output},
	}

	assessment, err := suite.service.Classify(context.Background(), req)

	suite.Require().NoError(err)
	suite.Equal(domain.RiskHigh, assessment.Level)
}

func (suite *WorkflowServiceTestSuite) TestStart_LowRiskConfirmsRecords() {
	suite.stockRates()

	session, err := suite.service.Start(context.Background(), suite.simpleRequest())

	suite.Require().NoError(err)
	suite.NotEmpty(session.SessionID)
	suite.Equal(domain.StateInput, session.State)
	suite.Equal(domain.RiskLow, session.Risk.Level)
	suite.Require().Len(session.Decomposition.Records, 1)
	suite.Equal(domain.StatusConfirmed, session.Decomposition.Records[0].Status)
}

func (suite *WorkflowServiceTestSuite) TestStart_MediumRiskKeepsRecordsPending() {
	suite.stockRates()

	req := domain.CompoundTransactionRequest{
		Inputs:  []domain.TransactionLeg{cashLeg(domain.LegInput, domain.KRW, 20000000)},
		Outputs: []domain.TransactionLeg{cashLeg(domain.LegOutput, domain.USD, 70)},
	}

	session, err := suite.service.Start(context.Background(), req)

	suite.Require().NoError(err)
	suite.Equal(domain.RiskMedium, session.Risk.Level)
	suite.Equal(domain.StatusPending, session.Decomposition.Records[0].Status)
}

func (suite *WorkflowServiceTestSuite) TestAdvance_LowRiskSkipsStraightToExecuted() {
	suite.stockRates()
	suite.mockLedger.On("Apply", mock.Anything, mock.AnythingOfType("domain.AtomicTransactionRecord")).
		Return("L-1", nil).Once()

	session, err := suite.service.Start(context.Background(), suite.simpleRequest())
	suite.Require().NoError(err)

	advanced, err := suite.service.Advance(context.Background(), session.SessionID, domain.StateExecuted)

	suite.Require().NoError(err)
	suite.Equal(domain.StateExecuted, advanced.State)
	suite.Require().NotNil(advanced.Execution)
	suite.Equal(1, advanced.Execution.Succeeded)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *WorkflowServiceTestSuite) TestAdvance_MediumRiskRequiresApproval() {
	suite.stockRates()

	req := domain.CompoundTransactionRequest{
		Inputs:  []domain.TransactionLeg{cashLeg(domain.LegInput, domain.KRW, 20000000)},
		Outputs: []domain.TransactionLeg{cashLeg(domain.LegOutput, domain.USD, 70)},
	}
	session, err := suite.service.Start(context.Background(), req)
	suite.Require().NoError(err)

	_, err = suite.service.Advance(context.Background(), session.SessionID, domain.StateExecuted)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrApprovalRequired)
	suite.mockLedger.AssertNotCalled(suite.T(), "Apply", mock.Anything, mock.Anything)
}

func (suite *WorkflowServiceTestSuite) TestAdvance_FullApprovalPath() {
	suite.stockRates()
	suite.mockLedger.On("Apply", mock.Anything, mock.AnythingOfType("domain.AtomicTransactionRecord")).
		Return("L-1", nil).Once()

	req := domain.CompoundTransactionRequest{
		Inputs:  []domain.TransactionLeg{cashLeg(domain.LegInput, domain.KRW, 20000000)},
		Outputs: []domain.TransactionLeg{cashLeg(domain.LegOutput, domain.USD, 70)},
	}
	session, err := suite.service.Start(context.Background(), req)
	suite.Require().NoError(err)

	for _, state := range []domain.WorkflowState{domain.StateReview, domain.StateApproved, domain.StateExecuted} {
		session, err = suite.service.Advance(context.Background(), session.SessionID, state)
		suite.Require().NoError(err)
		suite.Equal(state, session.State)
	}
}

func (suite *WorkflowServiceTestSuite) TestAdvance_IllegalTransition() {
	suite.stockRates()

	session, err := suite.service.Start(context.Background(), suite.simpleRequest())
	suite.Require().NoError(err)

	_, err = suite.service.Advance(context.Background(), session.SessionID, domain.StateApproved)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrIllegalTransition)
}

func (suite *WorkflowServiceTestSuite) TestAdvance_UnknownSession() {
	_, err := suite.service.Advance(context.Background(), "nope", domain.StateReview)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrSessionNotFound)
}

func (suite *WorkflowServiceTestSuite) TestCancel_BeforeExecution() {
	suite.stockRates()

	session, err := suite.service.Start(context.Background(), suite.simpleRequest())
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.Cancel(context.Background(), session.SessionID))

	got, err := suite.service.Get(context.Background(), session.SessionID)
	suite.Require().NoError(err)
	suite.Equal(domain.StateCancelled, got.State)

	// A terminal session cannot be cancelled again.
	err = suite.service.Cancel(context.Background(), session.SessionID)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *WorkflowServiceTestSuite) TestPartialFailureThenConfirmedRollback() {
	suite.stockRates()
	// First record applies, second fails: one USD output then one VND output.
	suite.mockLedger.On("Apply", mock.Anything, matchOutputCurrency(domain.USD)).Return("L-1", nil).Once()
	suite.mockLedger.On("Apply", mock.Anything, matchOutputCurrency(domain.VND)).Return("", assert.AnError).Once()
	suite.mockLedger.On("SetStatus", mock.Anything, "L-1", domain.StatusCancelled).Return(nil).Once()

	req := domain.CompoundTransactionRequest{
		Inputs: []domain.TransactionLeg{cashLeg(domain.LegInput, domain.KRW, 500000)},
		Outputs: []domain.TransactionLeg{
			cashLeg(domain.LegOutput, domain.USD, 200),
			cashLeg(domain.LegOutput, domain.VND, 1000000),
		},
	}
	session, err := suite.service.Start(context.Background(), req)
	suite.Require().NoError(err)
	suite.Equal(domain.RiskLow, session.Risk.Level)

	failed, err := suite.service.Advance(context.Background(), session.SessionID, domain.StateExecuted)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPartialExecution)
	suite.Require().NotNil(failed.Execution)
	suite.Equal(1, failed.Execution.Succeeded)
	suite.Equal(1, failed.Execution.Failed)
	suite.True(failed.Execution.RequiresConfirmation)
	// The session did not advance.
	suite.NotEqual(domain.StateExecuted, failed.State)

	// Plain cancellation is no longer available once execution started.
	err = suite.service.Cancel(context.Background(), session.SessionID)
	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrExecutionStarted)

	// The operator confirms the proposed compensating rollback.
	result, err := suite.service.Rollback(context.Background(), session.SessionID)
	suite.Require().NoError(err)
	suite.Require().Len(result.Cancelled, 1)
	suite.Equal("L-1", result.Cancelled[0].LedgerID)

	got, err := suite.service.Get(context.Background(), session.SessionID)
	suite.Require().NoError(err)
	suite.Equal(domain.StateCancelled, got.State)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *WorkflowServiceTestSuite) TestCancel_AfterExecutionFailedWithNothingApplied() {
	suite.stockRates()
	suite.mockLedger.On("Apply", mock.Anything, mock.AnythingOfType("domain.AtomicTransactionRecord")).
		Return("", assert.AnError).Once()

	session, err := suite.service.Start(context.Background(), suite.simpleRequest())
	suite.Require().NoError(err)

	failed, err := suite.service.Advance(context.Background(), session.SessionID, domain.StateExecuted)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPartialExecution)
	suite.Require().NotNil(failed.Execution)
	suite.Zero(failed.Execution.Succeeded)

	// Nothing was applied, so there is no rollback to confirm.
	_, err = suite.service.Rollback(context.Background(), session.SessionID)
	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNoRollbackProposed)

	// And with zero ledger effects the session can still be discarded.
	suite.Require().NoError(suite.service.Cancel(context.Background(), session.SessionID))

	got, err := suite.service.Get(context.Background(), session.SessionID)
	suite.Require().NoError(err)
	suite.Equal(domain.StateCancelled, got.State)
}

func (suite *WorkflowServiceTestSuite) TestAdvance_ExecutionDoesNotBlockOtherSessions() {
	suite.stockRates()

	started := make(chan struct{})
	release := make(chan struct{})
	suite.mockLedger.On("Apply", mock.Anything, matchOutputCurrency(domain.USD)).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return("L-1", nil).Once()

	slow, err := suite.service.Start(context.Background(), suite.simpleRequest())
	suite.Require().NoError(err)

	other, err := suite.service.Start(context.Background(), domain.CompoundTransactionRequest{
		Inputs:  []domain.TransactionLeg{cashLeg(domain.LegInput, domain.KRW, 100000)},
		Outputs: []domain.TransactionLeg{cashLeg(domain.LegOutput, domain.VND, 1000000)},
	})
	suite.Require().NoError(err)

	advanced := make(chan error, 1)
	go func() {
		_, advErr := suite.service.Advance(context.Background(), slow.SessionID, domain.StateExecuted)
		advanced <- advErr
	}()
	<-started

	// The executing session rejects further transitions until the ledger
	// call returns.
	_, err = suite.service.Advance(context.Background(), slow.SessionID, domain.StateExecuted)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)

	err = suite.service.Cancel(context.Background(), slow.SessionID)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)

	// Unrelated sessions stay readable while the ledger call is in flight.
	got := make(chan *domain.WorkflowSession, 1)
	go func() {
		session, getErr := suite.service.Get(context.Background(), other.SessionID)
		suite.NoError(getErr)
		got <- session
	}()
	select {
	case session := <-got:
		suite.Equal(domain.StateInput, session.State)
	case <-time.After(time.Second):
		suite.FailNow("Get blocked behind an unrelated execution")
	}

	close(release)
	suite.Require().NoError(<-advanced)

	final, err := suite.service.Get(context.Background(), slow.SessionID)
	suite.Require().NoError(err)
	suite.Equal(domain.StateExecuted, final.State)
}

func (suite *WorkflowServiceTestSuite) TestRollback_WithoutProposal() {
	suite.stockRates()

	session, err := suite.service.Start(context.Background(), suite.simpleRequest())
	suite.Require().NoError(err)

	_, err = suite.service.Rollback(context.Background(), session.SessionID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNoRollbackProposed)
}

func TestWorkflowServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WorkflowServiceTestSuite))
}
