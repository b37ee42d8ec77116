package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/seoulfx/exchange_shop_backend/internal/apperrors"
	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
	portsrepo "github.com/seoulfx/exchange_shop_backend/internal/core/ports/repositories"
	"github.com/seoulfx/exchange_shop_backend/internal/models"
	"github.com/seoulfx/exchange_shop_backend/internal/utils/mapping"
)

// PgxLedgerRepository implements the ports.Ledger interface using pgxpool.
// Each Apply or SetStatus call is one database transaction: the record row and
// its inventory/account effects commit or roll back together.
type PgxLedgerRepository struct {
	BaseRepository
}

var _ portsrepo.Ledger = (*PgxLedgerRepository)(nil)

func newPgxLedgerRepository(db *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// Apply persists one record and, when it arrives CONFIRMED, applies its
// balance and denomination effects. The record ID doubles as the ledger ID so
// retries stay identifiable.
func (r *PgxLedgerRepository) Apply(ctx context.Context, record domain.AtomicTransactionRecord) (string, error) {
	m, err := mapping.ToModelTransaction(record)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO atomic_transactions (
			transaction_id, transaction_type,
			from_kind, from_currency, from_account_ref, from_composition,
			to_kind, to_currency, to_account_ref, to_composition,
			from_amount, to_amount, applied_rate, fee, floor_margin, profit,
			is_primary, parent_id, memo, metadata, status,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21,
			$22, $23, $24, $25
		)`,
		m.TransactionID, m.TransactionType,
		m.FromKind, m.FromCurrency, m.FromAccountRef, m.FromComposition,
		m.ToKind, m.ToCurrency, m.ToAccountRef, m.ToComposition,
		m.FromAmount, m.ToAmount, m.AppliedRate, m.Fee, m.FloorMargin, m.Profit,
		m.IsPrimary, m.ParentID, m.Memo, m.Metadata, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		_ = r.Rollback(ctx, tx)
		return "", fmt.Errorf("%w: failed to insert transaction record: %v", apperrors.ErrInternal, err)
	}

	if record.Status == domain.StatusConfirmed {
		if err := r.applyEffects(ctx, tx, record, 1); err != nil {
			_ = r.Rollback(ctx, tx)
			return "", err
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return record.RecordID, nil
}

// SetStatus transitions a persisted record. Confirming applies its effects,
// cancelling a confirmed record reverses them exactly.
func (r *PgxLedgerRepository) SetStatus(ctx context.Context, ledgerID string, status domain.RecordStatus) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}

	record, err := r.findForUpdate(ctx, tx, ledgerID)
	if err != nil {
		_ = r.Rollback(ctx, tx)
		return err
	}

	if record.Status == status {
		_ = r.Rollback(ctx, tx)
		return nil
	}

	switch {
	case record.Status == domain.StatusPending && status == domain.StatusConfirmed:
		err = r.applyEffects(ctx, tx, record, 1)
	case record.Status == domain.StatusConfirmed && status == domain.StatusCancelled:
		err = r.applyEffects(ctx, tx, record, -1)
	case record.Status == domain.StatusPending && status == domain.StatusCancelled:
		// No effects were applied, only the status changes.
	default:
		err = fmt.Errorf("%w: cannot transition record %s from %s to %s",
			apperrors.ErrConflict, ledgerID, record.Status, status)
	}
	if err != nil {
		_ = r.Rollback(ctx, tx)
		return err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE atomic_transactions
		SET status = $1, last_updated_at = $2
		WHERE transaction_id = $3`,
		string(status), time.Now(), ledgerID,
	); err != nil {
		_ = r.Rollback(ctx, tx)
		return fmt.Errorf("%w: failed to update record status: %v", apperrors.ErrInternal, err)
	}
	return r.Commit(ctx, tx)
}

// findForUpdate loads a record row with a row lock inside the transaction.
func (r *PgxLedgerRepository) findForUpdate(ctx context.Context, tx pgx.Tx, ledgerID string) (domain.AtomicTransactionRecord, error) {
	var m models.AtomicTransaction
	err := tx.QueryRow(ctx, `
		SELECT transaction_id, transaction_type,
			from_kind, from_currency, from_account_ref, from_composition,
			to_kind, to_currency, to_account_ref, to_composition,
			from_amount, to_amount, applied_rate, fee, floor_margin, profit,
			is_primary, parent_id, memo, metadata, status,
			created_at, created_by, last_updated_at, last_updated_by
		FROM atomic_transactions
		WHERE transaction_id = $1
		FOR UPDATE`,
		ledgerID,
	).Scan(
		&m.TransactionID, &m.TransactionType,
		&m.FromKind, &m.FromCurrency, &m.FromAccountRef, &m.FromComposition,
		&m.ToKind, &m.ToCurrency, &m.ToAccountRef, &m.ToComposition,
		&m.FromAmount, &m.ToAmount, &m.AppliedRate, &m.Fee, &m.FloorMargin, &m.Profit,
		&m.IsPrimary, &m.ParentID, &m.Memo, &m.Metadata, &m.Status,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.AtomicTransactionRecord{}, fmt.Errorf("%w: transaction record %s", apperrors.ErrNotFound, ledgerID)
	}
	if err != nil {
		return domain.AtomicTransactionRecord{}, fmt.Errorf("%w: failed to load transaction record: %v", apperrors.ErrInternal, err)
	}
	record, err := mapping.ToDomainTransaction(m)
	if err != nil {
		return domain.AtomicTransactionRecord{}, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}
	return record, nil
}

// applyEffects moves note inventory and account balances for a record. The
// from leg is what the shop receives, the to leg is what it pays out. sign -1
// reverses a previously applied record.
func (r *PgxLedgerRepository) applyEffects(ctx context.Context, tx pgx.Tx, record domain.AtomicTransactionRecord, sign int64) error {
	if record.FromLeg.IsCash() {
		if err := r.adjustInventory(ctx, tx, record.FromLeg.Currency, record.FromLeg.Composition, sign); err != nil {
			return err
		}
	} else {
		if err := r.adjustAccount(ctx, tx, record.FromLeg, record.FromAmount, sign); err != nil {
			return err
		}
	}

	if record.ToLeg.IsCash() {
		if err := r.adjustInventory(ctx, tx, record.ToLeg.Currency, record.ToLeg.Composition, -sign); err != nil {
			return err
		}
	} else {
		if err := r.adjustAccount(ctx, tx, record.ToLeg, record.ToAmount, -sign); err != nil {
			return err
		}
	}
	return nil
}

// adjustInventory adds (sign +1) or removes (sign -1) the composition's notes.
// Removal never drives a count negative; a short denomination surfaces as an
// inventory shortfall instead.
func (r *PgxLedgerRepository) adjustInventory(ctx context.Context, tx pgx.Tx, currency domain.CurrencyCode, composition domain.DenominationComposition, sign int64) error {
	for denomination, count := range composition {
		if count <= 0 {
			continue
		}
		delta := count * sign
		if delta >= 0 {
			if _, err := tx.Exec(ctx, `
				INSERT INTO denomination_inventory (currency_code, denomination, note_count, created_at, last_updated_at)
				VALUES ($1, $2, $3, $4, $4)
				ON CONFLICT (currency_code, denomination)
				DO UPDATE SET note_count = denomination_inventory.note_count + $3, last_updated_at = $4`,
				string(currency), denomination, delta, time.Now(),
			); err != nil {
				return fmt.Errorf("%w: failed to add notes to inventory: %v", apperrors.ErrInternal, err)
			}
			continue
		}

		tag, err := tx.Exec(ctx, `
			UPDATE denomination_inventory
			SET note_count = note_count + $3, last_updated_at = $4
			WHERE currency_code = $1 AND denomination = $2 AND note_count + $3 >= 0`,
			string(currency), denomination, delta, time.Now(),
		)
		if err != nil {
			return fmt.Errorf("%w: failed to remove notes from inventory: %v", apperrors.ErrInternal, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s x%d of %s", apperrors.ErrInventoryShortfall, denomination, -delta, currency)
		}
	}
	return nil
}

// adjustAccount moves an account leg's amount on the shop-side mirror balance.
func (r *PgxLedgerRepository) adjustAccount(ctx context.Context, tx pgx.Tx, leg domain.TransactionLeg, amount decimal.Decimal, sign int64) error {
	delta := amount
	if sign < 0 {
		delta = amount.Neg()
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO accounts (account_ref, currency_code, balance, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (account_ref, currency_code)
		DO UPDATE SET balance = accounts.balance + $3, last_updated_at = $4`,
		leg.AccountRef, string(leg.Currency), delta, time.Now(),
	); err != nil {
		return fmt.Errorf("%w: failed to adjust account balance: %v", apperrors.ErrInternal, err)
	}
	return nil
}
