package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/seoulfx/exchange_shop_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		RateRepo:      newPgxExchangeRateRepository(dbPool),
		InventoryRepo: newPgxInventoryRepository(dbPool),
		LedgerRepo:    newPgxLedgerRepository(dbPool),
	}
}
