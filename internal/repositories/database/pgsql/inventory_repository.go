package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seoulfx/exchange_shop_backend/internal/apperrors"
	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
	portsrepo "github.com/seoulfx/exchange_shop_backend/internal/core/ports/repositories"
)

// PgxInventoryRepository implements the ports.InventorySource interface using pgxpool.
type PgxInventoryRepository struct {
	BaseRepository
}

var _ portsrepo.InventorySource = (*PgxInventoryRepository)(nil)

func newPgxInventoryRepository(db *pgxpool.Pool) *PgxInventoryRepository {
	return &PgxInventoryRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// GetDenominationStock returns the current note counts for a currency, keyed
// by face value. Denominations with no row are simply absent.
func (r *PgxInventoryRepository) GetDenominationStock(ctx context.Context, currency domain.CurrencyCode) (map[string]int64, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT denomination, note_count
		FROM denomination_inventory
		WHERE currency_code = $1`,
		string(currency))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query denomination stock: %v", apperrors.ErrInternal, err)
	}
	defer rows.Close()

	stock := make(map[string]int64)
	for rows.Next() {
		var denomination string
		var count int64
		if err := rows.Scan(&denomination, &count); err != nil {
			return nil, fmt.Errorf("%w: failed to scan denomination stock row: %v", apperrors.ErrInternal, err)
		}
		stock[denomination] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate denomination stock: %v", apperrors.ErrInternal, err)
	}
	return stock, nil
}
