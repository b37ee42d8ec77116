package repositories

import (
	"context"

	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
)

// Ledger is the collaborator that persists atomic transaction records and
// applies their balance/denomination effects. It owns every record once
// persisted; the engine only issues commands against it. The collaborator is
// responsible for its own consistency under concurrent compound requests and
// is expected to fail fast rather than hang.
type Ledger interface {
	// Apply persists one record and, for CONFIRMED records, applies its
	// balance and denomination effects. The returned id must make retries
	// identifiable.
	Apply(ctx context.Context, record domain.AtomicTransactionRecord) (string, error)

	// SetStatus transitions a persisted record. CANCELLED must reverse
	// previously applied effects exactly.
	SetStatus(ctx context.Context, ledgerID string, status domain.RecordStatus) error
}
