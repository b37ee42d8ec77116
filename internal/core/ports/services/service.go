package services

// ServiceContainer holds instances of all the engine services. This is the
// main entry point for accessing engine functionality and is what the
// handlers are wired against.
type ServiceContainer struct {
	Denomination DenominationSvcFacade
	Rates        RateResolverSvcFacade
	Legs         LegCalculatorSvcFacade
	Inventory    InventoryValidatorSvcFacade
	Decomposer   DecomposerSvcFacade
	Workflow     WorkflowSvcFacade
	Executor     ExecutorSvcFacade
}
