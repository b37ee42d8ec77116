package repositories

// RepositoryProvider bundles the persistence collaborators handed to the
// service container.
type RepositoryProvider struct {
	RateRepo      RateStore
	InventoryRepo InventorySource
	LedgerRepo    Ledger
}
