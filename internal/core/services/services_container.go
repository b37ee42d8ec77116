package services

import (
	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
	portsrepo "github.com/seoulfx/exchange_shop_backend/internal/core/ports/repositories"
	portssvc "github.com/seoulfx/exchange_shop_backend/internal/core/ports/services"
)

// ContainerConfig carries the collaborators and business policies the engine
// services are wired with.
type ContainerConfig struct {
	RateSource      portsrepo.RateSource
	InventorySource portsrepo.InventorySource
	Ledger          portsrepo.Ledger
	LocalCurrency   domain.CurrencyCode
	Fees            domain.FeePolicy
	Risk            domain.RiskPolicy
}

// NewServiceContainer wires all engine services together.
func NewServiceContainer(cfg ContainerConfig) *portssvc.ServiceContainer {
	denomination := NewDenominationService()
	rates := NewRateResolverService(cfg.RateSource, cfg.LocalCurrency)
	legs := NewLegCalculatorService(rates, denomination, cfg.LocalCurrency)
	inventory := NewInventoryValidatorService(cfg.InventorySource)
	decomposer := NewDecomposerService(rates, denomination, cfg.LocalCurrency, cfg.Fees)
	executor := NewExecutionService(cfg.Ledger)
	workflow := NewWorkflowService(inventory, decomposer, executor, cfg.LocalCurrency, cfg.Risk)

	return &portssvc.ServiceContainer{
		Denomination: denomination,
		Rates:        rates,
		Legs:         legs,
		Inventory:    inventory,
		Decomposer:   decomposer,
		Workflow:     workflow,
		Executor:     executor,
	}
}
