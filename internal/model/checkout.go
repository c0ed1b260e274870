package model

import (
	"time"

	"github.com/google/uuid"
)

// CheckoutStep is a stage of the checkout workflow.
type CheckoutStep string

const (
	StepInfo       CheckoutStep = "info"
	StepPayment    CheckoutStep = "payment"
	StepProcessing CheckoutStep = "processing"
)

// legalTransitions enumerates every permitted step change. processing → payment
// is the mandatory revert path after a failed payment initiation: a session
// must never stay in processing once initiation has failed.
var legalTransitions = map[CheckoutStep][]CheckoutStep{
	StepInfo:       {StepPayment},
	StepPayment:    {StepProcessing},
	StepProcessing: {StepPayment},
}

// CanTransitionTo reports whether moving from s to target is legal.
func (s CheckoutStep) CanTransitionTo(target CheckoutStep) bool {
	for _, allowed := range legalTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (s CheckoutStep) String() string {
	return string(s)
}

// CheckoutSession is the explicit application state of one checkout run,
// scoped to a single buyer and persisted between requests. Items and the
// promotion are snapshots taken at session start; the promotion snapshot is
// replaced whenever a new code is applied.
type CheckoutSession struct {
	ID          uuid.UUID           `json:"id"`
	Step        CheckoutStep        `json:"step"`
	Items       []CartItem          `json:"items"`
	Promotion   *ValidatedPromotion `json:"promotion,omitempty"`
	Phone       string              `json:"phone"`
	Address     string              `json:"address"`
	Method      string              `json:"method,omitempty"`
	OrderNumber string              `json:"order_number,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}
