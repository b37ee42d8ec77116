package services_test

import (
	"context"
	"testing"

	"github.com/seoulfx/exchange_shop_backend/internal/apperrors"
	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
	portssvc "github.com/seoulfx/exchange_shop_backend/internal/core/ports/services"
	"github.com/seoulfx/exchange_shop_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock InventorySource ---
type MockInventorySource struct {
	mock.Mock
}

func (m *MockInventorySource) GetDenominationStock(ctx context.Context, currency domain.CurrencyCode) (map[string]int64, error) {
	args := m.Called(ctx, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

// --- Test Suite ---
type InventoryValidatorServiceTestSuite struct {
	suite.Suite
	mockInventory *MockInventorySource
	service       portssvc.InventoryValidatorSvcFacade
}

func (suite *InventoryValidatorServiceTestSuite) SetupTest() {
	suite.mockInventory = new(MockInventorySource)
	suite.service = services.NewInventoryValidatorService(suite.mockInventory)
}

// --- Test Cases ---

func (suite *InventoryValidatorServiceTestSuite) TestValidate_SufficientStock() {
	suite.mockInventory.On("GetDenominationStock", mock.Anything, domain.USD).
		Return(map[string]int64{"100": 10, "50": 5}, nil)

	leg := domain.TransactionLeg{
		Kind:        domain.LegCash,
		Currency:    domain.USD,
		Amount:      decimal.NewFromInt(350),
		Composition: domain.DenominationComposition{"100": 3, "50": 1},
	}

	validation, err := suite.service.Validate(context.Background(), leg)

	suite.Require().NoError(err)
	suite.True(validation.Valid)
	suite.Empty(validation.Shortfalls)
}

func (suite *InventoryValidatorServiceTestSuite) TestValidate_ShortfallsLargestNoteFirst() {
	suite.mockInventory.On("GetDenominationStock", mock.Anything, domain.USD).
		Return(map[string]int64{"100": 1}, nil)

	leg := domain.TransactionLeg{
		Kind:        domain.LegCash,
		Currency:    domain.USD,
		Amount:      decimal.NewFromInt(400),
		Composition: domain.DenominationComposition{"100": 3, "50": 2},
	}

	validation, err := suite.service.Validate(context.Background(), leg)

	suite.Require().NoError(err)
	suite.False(validation.Valid)
	suite.Require().Len(validation.Shortfalls, 2)
	suite.Equal(domain.InventoryShortfall{Denomination: "100", Requested: 3, Available: 1, Shortfall: 2}, validation.Shortfalls[0])
	suite.Equal(domain.InventoryShortfall{Denomination: "50", Requested: 2, Available: 0, Shortfall: 2}, validation.Shortfalls[1])
}

func (suite *InventoryValidatorServiceTestSuite) TestValidate_NoCompositionIsAlwaysValid() {
	leg := domain.TransactionLeg{
		Kind:     domain.LegCash,
		Currency: domain.USD,
		Amount:   decimal.NewFromInt(400),
	}

	validation, err := suite.service.Validate(context.Background(), leg)

	suite.Require().NoError(err)
	suite.True(validation.Valid)
	suite.mockInventory.AssertNotCalled(suite.T(), "GetDenominationStock")
}

func (suite *InventoryValidatorServiceTestSuite) TestValidate_SourceError() {
	suite.mockInventory.On("GetDenominationStock", mock.Anything, domain.USD).
		Return(nil, assert.AnError)

	leg := domain.TransactionLeg{
		Kind:        domain.LegCash,
		Currency:    domain.USD,
		Amount:      decimal.NewFromInt(100),
		Composition: domain.DenominationComposition{"100": 1},
	}

	_, err := suite.service.Validate(context.Background(), leg)

	suite.Require().Error(err)
	suite.ErrorIs(err, assert.AnError)
}

func (suite *InventoryValidatorServiceTestSuite) TestAutoAdjust_AllocatesWithinStock() {
	suite.mockInventory.On("GetDenominationStock", mock.Anything, domain.KRW).
		Return(map[string]int64{"50000": 1, "10000": 10}, nil)

	leg := domain.TransactionLeg{
		Kind:     domain.LegCash,
		Currency: domain.KRW,
		Amount:   decimal.NewFromInt(100000),
	}

	// Only one 50,000 note in stock; the rest falls to 10,000 notes.
	composition, err := suite.service.AutoAdjustToInventory(context.Background(), leg)

	suite.Require().NoError(err)
	suite.Equal(domain.DenominationComposition{"50000": 1, "10000": 5}, composition)
}

func (suite *InventoryValidatorServiceTestSuite) TestAutoAdjust_FailsClosedOnRemainder() {
	suite.mockInventory.On("GetDenominationStock", mock.Anything, domain.KRW).
		Return(map[string]int64{"50000": 1}, nil)

	leg := domain.TransactionLeg{
		Kind:     domain.LegCash,
		Currency: domain.KRW,
		Amount:   decimal.NewFromInt(100000),
	}

	composition, err := suite.service.AutoAdjustToInventory(context.Background(), leg)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInventoryShortfall)
	suite.Nil(composition)
}

func (suite *InventoryValidatorServiceTestSuite) TestAutoAdjust_RejectsAccountLeg() {
	leg := domain.TransactionLeg{
		Kind:     domain.LegAccount,
		Currency: domain.KRW,
		Amount:   decimal.NewFromInt(100000),
	}

	_, err := suite.service.AutoAdjustToInventory(context.Background(), leg)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestInventoryValidatorServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InventoryValidatorServiceTestSuite))
}
