package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seoulfx/exchange_shop_backend/internal/apperrors"
	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
	portsrepo "github.com/seoulfx/exchange_shop_backend/internal/core/ports/repositories"
	"github.com/seoulfx/exchange_shop_backend/internal/models"
	"github.com/seoulfx/exchange_shop_backend/internal/utils/mapping"
)

// PgxExchangeRateRepository implements the ports.RateSource interface using pgxpool.
type PgxExchangeRateRepository struct {
	BaseRepository
}

var _ portsrepo.RateStore = (*PgxExchangeRateRepository)(nil)

func newPgxExchangeRateRepository(db *pgxpool.Pool) *PgxExchangeRateRepository {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// ListActiveRates returns every active rate record, general rates before
// denomination-specific ones for stable resolver iteration.
func (r *PgxExchangeRateRepository) ListActiveRates(ctx context.Context) ([]domain.RateRecord, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT exchange_rate_id, from_currency_code, to_currency_code, denomination,
			buy_rate, sell_rate, gold_shop_rate, active,
			created_at, created_by, last_updated_at, last_updated_by
		FROM exchange_rates
		WHERE active = TRUE
		ORDER BY from_currency_code, to_currency_code, denomination`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query exchange rates: %v", apperrors.ErrInternal, err)
	}
	defer rows.Close()

	var records []domain.RateRecord
	for rows.Next() {
		var m models.ExchangeRate
		if err := rows.Scan(
			&m.ExchangeRateID, &m.FromCurrencyCode, &m.ToCurrencyCode, &m.Denomination,
			&m.BuyRate, &m.SellRate, &m.GoldShopRate, &m.Active,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("%w: failed to scan exchange rate row: %v", apperrors.ErrInternal, err)
		}
		records = append(records, mapping.ToDomainExchangeRate(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate exchange rates: %v", apperrors.ErrInternal, err)
	}
	return records, nil
}

// SaveExchangeRate inserts or updates a rate record, keyed by pair and
// denomination.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, record domain.RateRecord) error {
	if record.FromCurrency == record.ToCurrency {
		return fmt.Errorf("%w: from and to currencies cannot be the same", apperrors.ErrValidation)
	}
	m := mapping.ToModelExchangeRate(record)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}

	var existingID string
	err = tx.QueryRow(ctx, `
		SELECT exchange_rate_id FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2 AND denomination = $3`,
		m.FromCurrencyCode, m.ToCurrencyCode, m.Denomination,
	).Scan(&existingID)

	if err == nil && existingID != "" {
		_, err = tx.Exec(ctx, `
			UPDATE exchange_rates
			SET buy_rate = $1, sell_rate = $2, gold_shop_rate = $3, active = $4,
				last_updated_at = $5, last_updated_by = $6
			WHERE exchange_rate_id = $7`,
			m.BuyRate, m.SellRate, m.GoldShopRate, m.Active,
			m.LastUpdatedAt, m.LastUpdatedBy, existingID,
		)
	} else if errors.Is(err, pgx.ErrNoRows) {
		_, err = tx.Exec(ctx, `
			INSERT INTO exchange_rates (
				exchange_rate_id, from_currency_code, to_currency_code, denomination,
				buy_rate, sell_rate, gold_shop_rate, active,
				created_at, created_by, last_updated_at, last_updated_by
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			m.ExchangeRateID, m.FromCurrencyCode, m.ToCurrencyCode, m.Denomination,
			m.BuyRate, m.SellRate, m.GoldShopRate, m.Active,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
	}

	if err != nil {
		_ = r.Rollback(ctx, tx)
		return fmt.Errorf("%w: failed to save exchange rate: %v", apperrors.ErrInternal, err)
	}
	return r.Commit(ctx, tx)
}
