package lifecycle

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealdesk-dev/dealdesk/internal/accounts"
	"github.com/dealdesk-dev/dealdesk/internal/gross"
	"github.com/dealdesk-dev/dealdesk/internal/ledger"
	"github.com/dealdesk-dev/dealdesk/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var fixedNow = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

func newMachine() *Machine {
	decomposer := gross.NewDecomposer(gross.DefaultReserveSpread, gross.DefaultPackCosts())
	generator := ledger.NewGenerator(accounts.NewService(accounts.DefaultChart()))
	return NewMachine(decomposer, generator).WithClock(func() time.Time { return fixedNow })
}

func approvedDeal() model.Deal {
	return model.Deal{
		Number:         "250901-K3QF",
		Status:         model.StatusApproved,
		Type:           model.DealTypeFinanced,
		CustomerID:     "cust-17",
		BuyerName:      "Jordan Avery",
		VIN:            "1HGCM82633A004352",
		Category:       model.CategoryUsed,
		SalePrice:      dec("28500"),
		VehicleCost:    dec("24000"),
		CashDown:       dec("5000"),
		Rebates:        dec("1000"),
		SalesTax:       dec("1979.13"),
		DocFee:         dec("599"),
		TitleFee:       dec("75"),
		AmountFinanced: dec("26403.13"),
		TermMonths:     60,
		APR:            dec("6.99"),
	}
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		from, to model.DealStatus
		want     bool
	}{
		{model.StatusStructuring, model.StatusCreditPending, true},
		{model.StatusCreditPending, model.StatusApproved, true},
		{model.StatusApproved, model.StatusFinalized, true},
		{model.StatusFinalized, model.StatusFunded, true},
		{model.StatusStructuring, model.StatusFunded, false},
		{model.StatusStructuring, model.StatusApproved, false},
		{model.StatusFinalized, model.StatusStructuring, false},
		{model.StatusStructuring, model.StatusCancelled, true},
		{model.StatusFinalized, model.StatusCancelled, true},
		{model.StatusFunded, model.StatusCancelled, false},
		{model.StatusCancelled, model.StatusCancelled, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Allowed(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestSubmitForCredit(t *testing.T) {
	m := newMachine()

	deal := approvedDeal()
	deal.Status = model.StatusStructuring

	out, err := m.SubmitForCredit(deal)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCreditPending, out.Status)

	// Guard: both customer and vehicle must be assigned.
	noCustomer := deal
	noCustomer.CustomerID = ""
	out, err = m.SubmitForCredit(noCustomer)
	assertTransitionError(t, err)
	assert.Equal(t, model.StatusStructuring, out.Status)

	noVehicle := deal
	noVehicle.VIN = ""
	_, err = m.SubmitForCredit(noVehicle)
	assertTransitionError(t, err)
}

func TestApprove(t *testing.T) {
	m := newMachine()

	deal := approvedDeal()
	deal.Status = model.StatusCreditPending

	out, err := m.Approve(deal, Approval{Approved: true, Reference: "LND-4471"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, out.Status)

	out, err = m.Approve(deal, Approval{Approved: false})
	assertTransitionError(t, err)
	assert.Equal(t, model.StatusCreditPending, out.Status)
}

func TestFinalize(t *testing.T) {
	m := newMachine()

	result, err := m.Finalize(approvedDeal())
	require.NoError(t, err)

	assert.Equal(t, model.StatusFinalized, result.Deal.Status)
	require.NotNil(t, result.Deal.Finalized)
	assert.Equal(t, fixedNow, *result.Deal.Finalized)
	require.NotNil(t, result.Deal.Gross)
	assert.Equal(t, result.Gross, *result.Deal.Gross)

	assert.True(t, ledger.IsBalanced(result.Entry))
	assert.Equal(t, result.Deal.Number, result.Entry.DealNumber)

	// Gross identity holds on the produced snapshot.
	want := result.Gross.FrontEndGross.
		Add(result.Gross.FinanceReserve).
		Add(result.Gross.ProductGross).
		Sub(result.Gross.PackCost)
	assert.True(t, result.Gross.NetGross.Equal(want))
}

func TestFinalizeGuards(t *testing.T) {
	m := newMachine()

	negative := approvedDeal()
	negative.AmountFinanced = dec("-100")
	_, err := m.Finalize(negative)
	assertTransitionError(t, err)

	noTerm := approvedDeal()
	noTerm.TermMonths = 0
	_, err = m.Finalize(noTerm)
	assertTransitionError(t, err)

	// Cash deals skip financing validation entirely.
	cash := approvedDeal()
	cash.Type = model.DealTypeCash
	cash.TermMonths = 0
	cash.AmountFinanced = dec("26403.13")
	result, err := m.Finalize(cash)
	require.NoError(t, err)
	assert.True(t, result.Gross.FinanceReserve.IsZero())
}

func TestFinalizeLeavesDealUntouchedOnError(t *testing.T) {
	m := newMachine()

	deal := approvedDeal()
	deal.TermMonths = 0
	_, err := m.Finalize(deal)
	require.Error(t, err)
	assert.Equal(t, model.StatusApproved, deal.Status)
	assert.Nil(t, deal.Gross)
	assert.Nil(t, deal.Finalized)
}

func TestFund(t *testing.T) {
	m := newMachine()

	result, err := m.Finalize(approvedDeal())
	require.NoError(t, err)

	entry := result.Entry
	deal := result.Deal

	// Not yet posted.
	_, err = m.Fund(deal, entry)
	assertTransitionError(t, err)

	posted := fixedNow
	entry.PostedAt = &posted
	out, err := m.Fund(deal, entry)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFunded, out.Status)

	// Entry for a different deal is rejected.
	wrong := entry
	wrong.DealNumber = "250901-ZZZZ"
	_, err = m.Fund(deal, wrong)
	assertTransitionError(t, err)
}

func TestInvalidJumpLeavesStatus(t *testing.T) {
	m := newMachine()

	deal := approvedDeal()
	deal.Status = model.StatusStructuring

	out, err := m.Fund(deal, model.JournalEntry{})
	assertTransitionError(t, err)
	assert.Equal(t, model.StatusStructuring, out.Status)
}

func TestCancel(t *testing.T) {
	m := newMachine()

	for _, from := range []model.DealStatus{
		model.StatusStructuring, model.StatusCreditPending,
		model.StatusApproved, model.StatusFinalized,
	} {
		deal := approvedDeal()
		deal.Status = from
		out, err := m.Cancel(deal)
		require.NoError(t, err, "cancel from %s", from)
		assert.Equal(t, model.StatusCancelled, out.Status)
	}

	funded := approvedDeal()
	funded.Status = model.StatusFunded
	out, err := m.Cancel(funded)
	assertTransitionError(t, err)
	assert.Equal(t, model.StatusFunded, out.Status)
}

func assertTransitionError(t *testing.T, err error) {
	t.Helper()
	var terr *StateTransitionError
	require.ErrorAs(t, err, &terr)
}
