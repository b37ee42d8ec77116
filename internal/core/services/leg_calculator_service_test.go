package services_test

import (
	"context"
	"testing"

	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
	portssvc "github.com/seoulfx/exchange_shop_backend/internal/core/ports/services"
	"github.com/seoulfx/exchange_shop_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type LegCalculatorServiceTestSuite struct {
	suite.Suite
	mockSource *MockRateSource
	service    portssvc.LegCalculatorSvcFacade
}

func (suite *LegCalculatorServiceTestSuite) SetupTest() {
	suite.mockSource = new(MockRateSource)
	denominations := services.NewDenominationService()
	rates := services.NewRateResolverService(suite.mockSource, domain.KRW)
	suite.service = services.NewLegCalculatorService(rates, denominations, domain.KRW)
}

// --- Test Cases ---

func (suite *LegCalculatorServiceTestSuite) TestDeriveAmount_VNDCompositionToUSD() {
	// USD/VND stored canonically as 25,000 VND per USD; handing over VND
	// derives USD through the reciprocal.
	records := []domain.RateRecord{
		rateRecord("usdvnd", domain.USD, domain.VND, "500000", "25000", "26000", "0"),
	}
	suite.mockSource.On("ListActiveRates", mock.Anything).Return(records, nil)

	source := domain.TransactionLeg{
		Role:        domain.LegInput,
		Kind:        domain.LegCash,
		Currency:    domain.VND,
		Amount:      decimal.NewFromInt(1000000),
		Composition: domain.DenominationComposition{"500000": 2},
	}
	target := domain.TransactionLeg{
		Role:     domain.LegOutput,
		Kind:     domain.LegCash,
		Currency: domain.USD,
	}

	derived, err := suite.service.DeriveAmount(context.Background(), source, target)

	suite.Require().NoError(err)
	suite.False(derived.RateMissing)
	suite.True(derived.Amount.Equal(decimal.NewFromInt(40)), "got %s", derived.Amount)
	suite.True(derived.FloorMargin.IsZero())
}

func (suite *LegCalculatorServiceTestSuite) TestDeriveAmount_KRWToVNDFloorsWithMargin() {
	records := []domain.RateRecord{
		rateRecord("krwvnd", domain.KRW, domain.VND, "", "18.5", "18.7", "0"),
	}
	suite.mockSource.On("ListActiveRates", mock.Anything).Return(records, nil)

	source := domain.TransactionLeg{
		Role:     domain.LegInput,
		Kind:     domain.LegCash,
		Currency: domain.KRW,
		Amount:   decimal.NewFromInt(66020),
	}
	target := domain.TransactionLeg{
		Role:     domain.LegOutput,
		Kind:     domain.LegCash,
		Currency: domain.VND,
	}

	// 66,020 * 18.7 = 1,234,574 floors to 1,234,000 with 574 margin.
	derived, err := suite.service.DeriveAmount(context.Background(), source, target)

	suite.Require().NoError(err)
	suite.True(derived.Amount.Equal(decimal.NewFromInt(1234000)), "got %s", derived.Amount)
	suite.True(derived.FloorMargin.Equal(decimal.NewFromInt(574)), "got %s", derived.FloorMargin)
}

func (suite *LegCalculatorServiceTestSuite) TestDeriveAmount_PerDenominationRates() {
	// Small KRW notes convert at a worse rate than the general one.
	records := []domain.RateRecord{
		rateRecord("general", domain.KRW, domain.USD, "", "0", "0.0007", "0"),
		rateRecord("small", domain.KRW, domain.USD, "5000", "0", "0.0006", "0"),
	}
	suite.mockSource.On("ListActiveRates", mock.Anything).Return(records, nil)

	source := domain.TransactionLeg{
		Role:        domain.LegInput,
		Kind:        domain.LegCash,
		Currency:    domain.KRW,
		Amount:      decimal.NewFromInt(110000),
		Composition: domain.DenominationComposition{"50000": 2, "5000": 2},
	}
	target := domain.TransactionLeg{
		Role:     domain.LegOutput,
		Kind:     domain.LegCash,
		Currency: domain.USD,
	}

	// 100,000 * 0.0007 + 10,000 * 0.0006 = 70 + 6 = 76.00
	derived, err := suite.service.DeriveAmount(context.Background(), source, target)

	suite.Require().NoError(err)
	suite.True(derived.Amount.Equal(decimal.NewFromInt(76)), "got %s", derived.Amount)
}

func (suite *LegCalculatorServiceTestSuite) TestDeriveAmount_MissingRateFlagsNeutral() {
	suite.mockSource.On("ListActiveRates", mock.Anything).Return([]domain.RateRecord{}, nil)

	source := domain.TransactionLeg{
		Role:     domain.LegInput,
		Kind:     domain.LegCash,
		Currency: domain.KRW,
		Amount:   decimal.NewFromInt(50),
	}
	target := domain.TransactionLeg{
		Role:     domain.LegOutput,
		Kind:     domain.LegCash,
		Currency: domain.USD,
	}

	derived, err := suite.service.DeriveAmount(context.Background(), source, target)

	suite.Require().NoError(err)
	suite.True(derived.RateMissing)
	suite.True(derived.Amount.Equal(decimal.NewFromInt(50)))
}

func (suite *LegCalculatorServiceTestSuite) TestRecalculate_RederivesFirstOutputOnly() {
	records := []domain.RateRecord{
		rateRecord("krwusd", domain.KRW, domain.USD, "", "0", "0.0007", "0"),
	}
	suite.mockSource.On("ListActiveRates", mock.Anything).Return(records, nil)

	req := domain.CompoundTransactionRequest{
		Inputs: []domain.TransactionLeg{{
			Role:     domain.LegInput,
			Kind:     domain.LegCash,
			Currency: domain.KRW,
			Amount:   decimal.NewFromInt(1400000),
		}},
		Outputs: []domain.TransactionLeg{
			{
				Role:     domain.LegOutput,
				Kind:     domain.LegCash,
				Currency: domain.USD,
				Amount:   decimal.NewFromInt(1),
			},
			{
				Role:     domain.LegOutput,
				Kind:     domain.LegAccount,
				Currency: domain.USD,
				Amount:   decimal.NewFromInt(250),
			},
		},
	}

	updated, err := suite.service.Recalculate(context.Background(), req)

	suite.Require().NoError(err)
	suite.True(updated.Outputs[0].Amount.Equal(decimal.NewFromInt(980)), "got %s", updated.Outputs[0].Amount)
	suite.Equal(domain.DenominationComposition{
		"100": 9,
		"50":  1,
		"20":  1,
		"10":  1,
	}, updated.Outputs[0].Composition)
	// The second output stays exactly as the operator sized it.
	suite.True(updated.Outputs[1].Amount.Equal(decimal.NewFromInt(250)))
	// The original request value is untouched.
	suite.True(req.Outputs[0].Amount.Equal(decimal.NewFromInt(1)))
}

func TestLegCalculatorServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LegCalculatorServiceTestSuite))
}
