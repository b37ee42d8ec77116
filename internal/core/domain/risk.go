package domain

// RiskLevel classifies a compound transaction before execution.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

var riskRank = map[RiskLevel]int{
	RiskLow:    0,
	RiskMedium: 1,
	RiskHigh:   2,
}

// Escalate returns the more severe of the two levels.
func (l RiskLevel) Escalate(to RiskLevel) RiskLevel {
	if riskRank[to] > riskRank[l] {
		return to
	}
	return l
}

// RiskAssessment is a derived, non-persisted classification of a compound
// transaction, computed from size, leg count and inventory feasibility.
type RiskAssessment struct {
	Level   RiskLevel
	Reasons []string
}

// WorkflowState is the staged-approval state of a compound transaction.
type WorkflowState string

const (
	StateInput     WorkflowState = "INPUT"
	StateReview    WorkflowState = "REVIEW"
	StateApproved  WorkflowState = "APPROVED"
	StateExecuted  WorkflowState = "EXECUTED"
	StateCancelled WorkflowState = "CANCELLED"
)

// workflowTransitions lists the legal state transitions. The input→executed
// shortcut is only legal for low-risk requests; the workflow service enforces
// that refinement.
var workflowTransitions = map[WorkflowState][]WorkflowState{
	StateInput:    {StateReview, StateExecuted, StateCancelled},
	StateReview:   {StateApproved, StateCancelled},
	StateApproved: {StateExecuted, StateCancelled},
}

// CanTransition reports whether moving from s to the target state is legal.
func (s WorkflowState) CanTransition(to WorkflowState) bool {
	for _, next := range workflowTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s WorkflowState) Terminal() bool {
	return s == StateExecuted || s == StateCancelled
}
