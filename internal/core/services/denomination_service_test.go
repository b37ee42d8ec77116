package services_test

import (
	"testing"

	"github.com/seoulfx/exchange_shop_backend/internal/apperrors"
	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
	portssvc "github.com/seoulfx/exchange_shop_backend/internal/core/ports/services"
	"github.com/seoulfx/exchange_shop_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type DenominationServiceTestSuite struct {
	suite.Suite
	service portssvc.DenominationSvcFacade
}

func (suite *DenominationServiceTestSuite) SetupTest() {
	suite.service = services.NewDenominationService()
}

// --- Test Cases ---

func (suite *DenominationServiceTestSuite) TestBreakdown_KRW_GreedyLargestFirst() {
	composition, remainder, err := suite.service.Breakdown(domain.KRW, decimal.NewFromInt(176000))

	suite.Require().NoError(err)
	suite.True(remainder.IsZero())
	suite.Equal(domain.DenominationComposition{
		"50000": 3,
		"10000": 2,
		"5000":  1,
		"1000":  1,
	}, composition)
}

func (suite *DenominationServiceTestSuite) TestBreakdown_USD_UsesAllNoteSizes() {
	composition, remainder, err := suite.service.Breakdown(domain.USD, decimal.NewFromInt(137))

	suite.Require().NoError(err)
	suite.True(remainder.IsZero())
	suite.Equal(domain.DenominationComposition{
		"100": 1,
		"20":  1,
		"10":  1,
		"5":   1,
		"2":   1,
	}, composition)
}

func (suite *DenominationServiceTestSuite) TestBreakdown_ReturnsRemainderBelowSmallestNote() {
	composition, remainder, err := suite.service.Breakdown(domain.KRW, decimal.NewFromInt(1500))

	suite.Require().NoError(err)
	suite.Equal(domain.DenominationComposition{"1000": 1}, composition)
	suite.True(remainder.Equal(decimal.NewFromInt(500)))
}

func (suite *DenominationServiceTestSuite) TestBreakdown_UnknownCurrency() {
	_, _, err := suite.service.Breakdown("JPY", decimal.NewFromInt(1000))

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrUnknownCurrency)
}

func (suite *DenominationServiceTestSuite) TestBreakdown_NegativeAmount() {
	_, _, err := suite.service.Breakdown(domain.USD, decimal.NewFromInt(-5))

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNegativeAmount)
}

func (suite *DenominationServiceTestSuite) TestComposeTotal() {
	total, err := suite.service.ComposeTotal(domain.DenominationComposition{
		"50000": 2,
		"1000":  3,
	})

	suite.Require().NoError(err)
	suite.True(total.Equal(decimal.NewFromInt(103000)))
}

func (suite *DenominationServiceTestSuite) TestComposeTotal_InvalidKey() {
	_, err := suite.service.ComposeTotal(domain.DenominationComposition{"fifty": 1})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DenominationServiceTestSuite) TestRoundForCurrency_VNDFloorsToThousandWithMargin() {
	rounded, margin, err := suite.service.RoundForCurrency(domain.VND, decimal.NewFromInt(1234567))

	suite.Require().NoError(err)
	suite.True(rounded.Equal(decimal.NewFromInt(1234000)))
	suite.True(margin.Equal(decimal.NewFromInt(567)))
}

func (suite *DenominationServiceTestSuite) TestRoundForCurrency_KRWFloorsToInteger() {
	rounded, margin, err := suite.service.RoundForCurrency(domain.KRW, decimal.RequireFromString("123.9"))

	suite.Require().NoError(err)
	suite.True(rounded.Equal(decimal.NewFromInt(123)))
	suite.True(margin.IsZero())
}

func (suite *DenominationServiceTestSuite) TestRoundForCurrency_USDRoundsTwoDecimals() {
	rounded, margin, err := suite.service.RoundForCurrency(domain.USD, decimal.RequireFromString("40.005"))

	suite.Require().NoError(err)
	suite.True(rounded.Equal(decimal.RequireFromString("40.01")))
	suite.True(margin.IsZero())
}

func (suite *DenominationServiceTestSuite) TestValidateLegComposition_Match() {
	leg := domain.TransactionLeg{
		Kind:        domain.LegCash,
		Currency:    domain.KRW,
		Amount:      decimal.NewFromInt(60000),
		Composition: domain.DenominationComposition{"50000": 1, "10000": 1},
	}

	suite.NoError(suite.service.ValidateLegComposition(leg))
}

func (suite *DenominationServiceTestSuite) TestValidateLegComposition_Mismatch() {
	leg := domain.TransactionLeg{
		Kind:        domain.LegCash,
		Currency:    domain.KRW,
		Amount:      decimal.NewFromInt(70000),
		Composition: domain.DenominationComposition{"50000": 1, "10000": 1},
	}

	err := suite.service.ValidateLegComposition(leg)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDenominationMismatch)
}

func (suite *DenominationServiceTestSuite) TestValidateLegComposition_NoCompositionIsValid() {
	leg := domain.TransactionLeg{
		Kind:     domain.LegCash,
		Currency: domain.USD,
		Amount:   decimal.NewFromInt(100),
	}

	suite.NoError(suite.service.ValidateLegComposition(leg))
}

func TestDenominationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DenominationServiceTestSuite))
}
