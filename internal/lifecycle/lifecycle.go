// Package lifecycle governs deal status transitions and the side
// effects of finalization.
package lifecycle

import (
	"fmt"
	"time"

	"github.com/dealdesk-dev/dealdesk/internal/gross"
	"github.com/dealdesk-dev/dealdesk/internal/ledger"
	"github.com/dealdesk-dev/dealdesk/internal/model"
)

// StateTransitionError reports a rejected lifecycle transition. The deal
// is left unchanged; the caller resolves the precondition and retries.
type StateTransitionError struct {
	From   model.DealStatus
	To     model.DealStatus
	Reason string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("cannot move deal from %s to %s: %s", e.From, e.To, e.Reason)
}

// allowed is the transition table. Cancellation is handled separately:
// it is reachable from any non-terminal state.
var allowed = map[model.DealStatus]model.DealStatus{
	model.StatusStructuring:   model.StatusCreditPending,
	model.StatusCreditPending: model.StatusApproved,
	model.StatusApproved:      model.StatusFinalized,
	model.StatusFinalized:     model.StatusFunded,
}

// Allowed reports whether the state machine permits from -> to.
func Allowed(from, to model.DealStatus) bool {
	if to == model.StatusCancelled {
		return !from.Terminal()
	}
	return allowed[from] == to
}

// Approval is the opaque credit decision consumed by the
// credit_pending -> approved transition. Where it came from is outside
// this core's scope.
type Approval struct {
	Approved  bool
	Reference string
}

// FinalizeResult carries everything the finalize transition produces.
// The caller persists all of it, or none of it.
type FinalizeResult struct {
	Deal  model.Deal
	Gross model.GrossProfit
	Entry model.JournalEntry
}

// Machine applies lifecycle transitions to deals. Transitions never
// mutate their input; the updated deal is returned.
type Machine struct {
	decomposer *gross.Decomposer
	generator  *ledger.Generator
	now        func() time.Time
}

// NewMachine creates a Machine. The decomposer and generator run at the
// finalized transition.
func NewMachine(decomposer *gross.Decomposer, generator *ledger.Generator) *Machine {
	return &Machine{decomposer: decomposer, generator: generator, now: time.Now}
}

// WithClock overrides the machine's clock. Used by tests.
func (m *Machine) WithClock(now func() time.Time) *Machine {
	m.now = now
	return m
}

// SubmitForCredit moves structuring -> credit_pending. The deal must
// have a customer and a vehicle assigned.
func (m *Machine) SubmitForCredit(deal model.Deal) (model.Deal, error) {
	if err := m.check(deal, model.StatusCreditPending); err != nil {
		return deal, err
	}
	if deal.CustomerID == "" {
		return deal, &StateTransitionError{From: deal.Status, To: model.StatusCreditPending,
			Reason: "no customer assigned"}
	}
	if deal.VIN == "" {
		return deal, &StateTransitionError{From: deal.Status, To: model.StatusCreditPending,
			Reason: "no vehicle assigned"}
	}
	deal.Status = model.StatusCreditPending
	return deal, nil
}

// Approve moves credit_pending -> approved on an affirmative credit
// decision.
func (m *Machine) Approve(deal model.Deal, approval Approval) (model.Deal, error) {
	if err := m.check(deal, model.StatusApproved); err != nil {
		return deal, err
	}
	if !approval.Approved {
		return deal, &StateTransitionError{From: deal.Status, To: model.StatusApproved,
			Reason: "credit decision was not an approval"}
	}
	deal.Status = model.StatusApproved
	return deal, nil
}

// Finalize moves approved -> finalized, running the gross decomposition
// and ledger generation as one unit. Either all of the result is
// produced and the deal is finalized, or an error is returned and the
// input deal stands as it was.
func (m *Machine) Finalize(deal model.Deal) (FinalizeResult, error) {
	if err := m.check(deal, model.StatusFinalized); err != nil {
		return FinalizeResult{}, err
	}
	if deal.Type == model.DealTypeFinanced {
		if deal.AmountFinanced.IsNegative() {
			return FinalizeResult{}, &StateTransitionError{From: deal.Status, To: model.StatusFinalized,
				Reason: "amount financed is negative"}
		}
		if deal.TermMonths <= 0 {
			return FinalizeResult{}, &StateTransitionError{From: deal.Status, To: model.StatusFinalized,
				Reason: "term must be positive on a financed deal"}
		}
	}

	gp := m.decomposer.Decompose(deal)
	now := m.now()

	entry, err := m.generator.Generate(deal, gp, now)
	if err != nil {
		return FinalizeResult{}, err
	}
	if err := ledger.CheckBalanced(entry); err != nil {
		return FinalizeResult{}, err
	}

	deal.Status = model.StatusFinalized
	deal.Gross = &gp
	deal.Finalized = &now

	return FinalizeResult{Deal: deal, Gross: gp, Entry: entry}, nil
}

// Fund moves finalized -> funded. The deal's journal entry must have
// been posted and must balance.
func (m *Machine) Fund(deal model.Deal, entry model.JournalEntry) (model.Deal, error) {
	if err := m.check(deal, model.StatusFunded); err != nil {
		return deal, err
	}
	if entry.DealNumber != deal.Number {
		return deal, &StateTransitionError{From: deal.Status, To: model.StatusFunded,
			Reason: fmt.Sprintf("journal entry belongs to deal %s", entry.DealNumber)}
	}
	if entry.PostedAt == nil {
		return deal, &StateTransitionError{From: deal.Status, To: model.StatusFunded,
			Reason: "journal entry has not been posted"}
	}
	if err := ledger.CheckBalanced(entry); err != nil {
		return deal, &StateTransitionError{From: deal.Status, To: model.StatusFunded,
			Reason: err.Error()}
	}
	deal.Status = model.StatusFunded
	return deal, nil
}

// Cancel moves any non-terminal deal to cancelled. An already-posted
// ledger is not reversed here; a compensating entry is a separate
// bookkeeping action.
func (m *Machine) Cancel(deal model.Deal) (model.Deal, error) {
	if err := m.check(deal, model.StatusCancelled); err != nil {
		return deal, err
	}
	deal.Status = model.StatusCancelled
	return deal, nil
}

func (m *Machine) check(deal model.Deal, to model.DealStatus) error {
	if !Allowed(deal.Status, to) {
		return &StateTransitionError{From: deal.Status, To: to,
			Reason: "transition not permitted"}
	}
	return nil
}
