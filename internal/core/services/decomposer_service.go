package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/seoulfx/exchange_shop_backend/internal/apperrors"
	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
	portssvc "github.com/seoulfx/exchange_shop_backend/internal/core/ports/services"
	"github.com/seoulfx/exchange_shop_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

var (
	ErrNoInputLegs       = errors.New("request must have at least one input leg")
	ErrNoOutputLegs      = errors.New("request must have at least one output leg")
	ErrUnknownLegPairing = errors.New("no transaction type defined for leg pairing")
)

var hundred = decimal.NewFromInt(100)

// decomposerService converts a compound request into one or more atomic
// ledger transaction records with primary/child linkage and fee/profit
// metadata.
type decomposerService struct {
	rates         portssvc.RateResolverSvcFacade
	denominations portssvc.DenominationSvcFacade
	localCurrency domain.CurrencyCode
	fees          domain.FeePolicy
}

// NewDecomposerService creates a new DecomposerService.
func NewDecomposerService(rates portssvc.RateResolverSvcFacade, denominations portssvc.DenominationSvcFacade, localCurrency domain.CurrencyCode, fees domain.FeePolicy) portssvc.DecomposerSvcFacade {
	return &decomposerService{
		rates:         rates,
		denominations: denominations,
		localCurrency: localCurrency,
		fees:          fees,
	}
}

var _ portssvc.DecomposerSvcFacade = (*decomposerService)(nil)

func (s *decomposerService) roleFor(currency domain.CurrencyCode) domain.CurrencyRole {
	if currency == s.localCurrency {
		return domain.RoleLocal
	}
	return domain.RoleForeign
}

// typeFor selects the semantic transaction type for an input/output pairing
// from the closed lookup table.
func (s *decomposerService) typeFor(input, output domain.TransactionLeg) (domain.TransactionType, error) {
	key := domain.LegPairKey{
		InputKind:  input.Kind,
		InputRole:  s.roleFor(input.Currency),
		OutputKind: output.Kind,
		OutputRole: s.roleFor(output.Currency),
	}
	txnType, ok := domain.TransactionTypeFor(key)
	if !ok {
		return "", fmt.Errorf("%w: %s/%s -> %s/%s", ErrUnknownLegPairing, input.Kind, input.Currency, output.Kind, output.Currency)
	}
	return txnType, nil
}

// validateRequest applies the submission-blocking checks: leg presence,
// positive amounts, composition totals and split percentages.
func (s *decomposerService) validateRequest(req domain.CompoundTransactionRequest) error {
	if len(req.Inputs) == 0 {
		return ErrNoInputLegs
	}
	if len(req.Outputs) == 0 {
		return ErrNoOutputLegs
	}

	for _, leg := range append(append([]domain.TransactionLeg{}, req.Inputs...), req.Outputs...) {
		if !leg.Currency.Valid() {
			return fmt.Errorf("%w: %s", ErrUnknownCurrency, leg.Currency)
		}
		if leg.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: leg amount must be positive, got %s %s", apperrors.ErrValidation, leg.Amount, leg.Currency)
		}
		if err := s.denominations.ValidateLegComposition(leg); err != nil {
			return err
		}
	}

	// Output split percentages, where used, must cover the whole request.
	splitUsed := false
	splitSum := decimal.Zero
	for _, out := range req.Outputs {
		if !out.SplitPercent.IsZero() {
			splitUsed = true
		}
		splitSum = splitSum.Add(out.SplitPercent)
	}
	if splitUsed && !splitSum.Equal(hundred) {
		return fmt.Errorf("%w: got %s", apperrors.ErrPercentageValidation, splitSum)
	}
	return nil
}

// resolveRecordRate resolves the applied rate for one record. A missing rate
// blocks decomposition unless the request explicitly acknowledged proceeding
// with the neutral rate.
func (s *decomposerService) resolveRecordRate(ctx context.Context, req domain.CompoundTransactionRequest, input, output domain.TransactionLeg, txnType domain.TransactionType) (domain.RateResolution, error) {
	resolution, err := s.rates.ResolveRate(ctx, input.Currency, output.Currency, "", txnType.Direction())
	if err != nil {
		return domain.RateResolution{}, err
	}
	if !resolution.Found && !req.RateAcknowledged {
		return domain.RateResolution{}, fmt.Errorf("%w: %s/%s", apperrors.ErrRateNotFound, input.Currency, output.Currency)
	}
	return resolution, nil
}

// computeFee applies the fee schedule to one record: a fixed percentage for
// exchange types, the greater of a minimum and a percentage for transfer
// types, plus a flat processing fee above the large-amount threshold. The fee
// is denominated in the input leg's currency.
func (s *decomposerService) computeFee(txnType domain.TransactionType, inputCurrency domain.CurrencyCode, fromAmount decimal.Decimal) decimal.Decimal {
	var fee decimal.Decimal
	if txnType.IsTransfer() {
		fee = fromAmount.Mul(s.fees.TransferFeePercent).Div(hundred)
		if minFee, ok := s.fees.TransferMinFees[inputCurrency]; ok && fee.LessThan(minFee) {
			fee = minFee
		}
	} else {
		fee = fromAmount.Mul(s.fees.ExchangeFeePercent).Div(hundred)
	}
	if threshold, ok := s.fees.LargeAmountThresholds[inputCurrency]; ok && fromAmount.GreaterThan(threshold) {
		fee = fee.Add(s.fees.ProcessingFlatFees[inputCurrency])
	}
	return fee
}

// floorMargin computes the truncated remainder recognized as profit when the
// output currency floors derived amounts. Only a remainder inside [0, unit)
// is a genuine truncation artifact; anything else means the amounts were
// entered manually and carries no margin.
func floorMargin(outputCurrency domain.CurrencyCode, fromAmount, toAmount, rate decimal.Decimal) decimal.Decimal {
	cur, ok := domain.CurrencyByCode(outputCurrency)
	if !ok {
		return decimal.Zero
	}
	unit := cur.TruncationUnit()
	if unit.IsZero() {
		return decimal.Zero
	}
	margin := fromAmount.Mul(rate).Sub(toAmount)
	if margin.IsNegative() || margin.GreaterThanOrEqual(unit) {
		return decimal.Zero
	}
	return margin
}

func (s *decomposerService) buildRecord(req domain.CompoundTransactionRequest, txnType domain.TransactionType, input, output domain.TransactionLeg, fromAmount, toAmount decimal.Decimal, resolution domain.RateResolution, isPrimary bool, parentID string, status domain.RecordStatus, now time.Time) domain.AtomicTransactionRecord {
	fee := s.computeFee(txnType, input.Currency, fromAmount)
	margin := floorMargin(output.Currency, fromAmount, toAmount, resolution.Rate)

	metadata := map[string]string{"requestID": req.RequestID}
	if req.Counterparty != "" {
		metadata["counterparty"] = req.Counterparty
	}
	if !resolution.Found {
		metadata["neutralRate"] = "true"
	}

	return domain.AtomicTransactionRecord{
		RecordID:    uuid.NewString(),
		Type:        txnType,
		FromLeg:     input,
		ToLeg:       output,
		FromAmount:  fromAmount,
		ToAmount:    toAmount,
		AppliedRate: resolution.Rate,
		Fee:         fee,
		FloorMargin: margin,
		Profit:      fee.Add(margin),
		IsPrimary:   isPrimary,
		ParentID:    parentID,
		Memo:        req.Memo,
		Metadata:    metadata,
		Status:      status,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     req.Operator,
			LastUpdatedAt: now,
			LastUpdatedBy: req.Operator,
		},
	}
}

// Decompose converts the request's input/output legs into atomic records.
// A single-input/single-output request emits exactly one primary record.
// Otherwise the first input leg is the primary funding source: each output
// leg gets one record whose input amount (outputAmount / appliedRate) is
// capped by whatever remains of the primary input; the first record is the
// primary and the rest reference it.
func (s *decomposerService) Decompose(ctx context.Context, req domain.CompoundTransactionRequest, initialStatus domain.RecordStatus) (domain.Decomposition, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.validateRequest(req); err != nil {
		return domain.Decomposition{}, err
	}
	if initialStatus != domain.StatusConfirmed {
		initialStatus = domain.StatusPending
	}

	now := time.Now().UTC()
	var records []domain.AtomicTransactionRecord

	if len(req.Inputs) == 1 && len(req.Outputs) == 1 {
		input, output := req.Inputs[0], req.Outputs[0]
		txnType, err := s.typeFor(input, output)
		if err != nil {
			return domain.Decomposition{}, err
		}
		resolution, err := s.resolveRecordRate(ctx, req, input, output, txnType)
		if err != nil {
			return domain.Decomposition{}, err
		}
		records = append(records, s.buildRecord(req, txnType, input, output, input.Amount, output.Amount, resolution, true, "", initialStatus, now))
	} else {
		primary, _ := req.PrimaryInput()
		remaining := primary.Amount
		primaryID := ""
		for _, output := range req.Outputs {
			txnType, err := s.typeFor(primary, output)
			if err != nil {
				return domain.Decomposition{}, err
			}
			resolution, err := s.resolveRecordRate(ctx, req, primary, output, txnType)
			if err != nil {
				return domain.Decomposition{}, err
			}

			required := output.Amount.Div(resolution.Rate)
			required, _, err = s.denominations.RoundForCurrency(primary.Currency, required)
			if err != nil {
				return domain.Decomposition{}, err
			}
			if required.GreaterThan(remaining) {
				required = remaining
			}
			remaining = remaining.Sub(required)

			isPrimary := primaryID == ""
			record := s.buildRecord(req, txnType, primary, output, required, output.Amount, resolution, isPrimary, primaryID, initialStatus, now)
			if isPrimary {
				primaryID = record.RecordID
			}
			records = append(records, record)
		}
	}

	decomposition := domain.Decomposition{
		Records:     records,
		TotalFees:   decimal.Zero,
		TotalMargin: decimal.Zero,
		TotalProfit: decimal.Zero,
	}
	for _, record := range records {
		decomposition.TotalFees = decomposition.TotalFees.Add(record.Fee)
		decomposition.TotalMargin = decomposition.TotalMargin.Add(record.FloorMargin)
		decomposition.TotalProfit = decomposition.TotalProfit.Add(record.Profit)
	}

	logger.Info("Compound request decomposed",
		slog.String("request_id", req.RequestID),
		slog.Int("record_count", len(records)),
		slog.String("total_profit", decomposition.TotalProfit.String()),
	)
	return decomposition, nil
}
