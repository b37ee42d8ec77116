package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the requested operation conflicts with the current state.
var ErrConflict = errors.New("conflicting state")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrRateNotFound indicates that no exchange rate record could be resolved for a
// currency pair. Recoverable: the caller may proceed with the neutral rate only
// after explicit acknowledgement, otherwise submission must be blocked.
var ErrRateNotFound = errors.New("exchange rate not found")

// ErrDenominationMismatch indicates that a cash leg's denomination composition
// total disagrees with its declared amount. Always blocks submission.
var ErrDenominationMismatch = errors.New("denomination composition does not match declared amount")

// ErrInventoryShortfall indicates that one or more requested denominations
// exceed the available stock.
var ErrInventoryShortfall = errors.New("insufficient denomination stock")

// ErrPercentageValidation indicates that output leg split percentages do not sum to 100.
var ErrPercentageValidation = errors.New("split percentages must sum to 100")

// ErrPartialExecution indicates that a compound transaction was only partially
// applied to the ledger. Never retried silently; always reported with exact
// succeeded/failed/unattempted counts.
var ErrPartialExecution = errors.New("partial execution failure")

// ErrRollbackFailed indicates that a compensating cancellation itself failed.
// Terminal: requires manual reconciliation.
var ErrRollbackFailed = errors.New("rollback failed, manual reconciliation required")
