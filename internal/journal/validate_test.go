package journal

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealdesk-dev/dealdesk/internal/model"
)

// mockChart implements AccountChecker for testing.
type mockChart struct {
	codes map[string]bool
}

func (m *mockChart) Exists(code string) bool {
	return m.codes[code]
}

func newMockChart(codes ...string) *mockChart {
	m := &mockChart{codes: make(map[string]bool)}
	for _, c := range codes {
		m.codes[c] = true
	}
	return m
}

var defaultChart = newMockChart("1010", "1210", "2210", "4010", "4030")

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func balancedEntry(lineID string, debitAcct, creditAcct, amount string) []model.JournalLine {
	return []model.JournalLine{
		{LineID: lineID + "a", Date: date(2025, 9, 1), AccountCode: debitAcct, Debit: dec(amount)},
		{LineID: lineID + "b", Date: date(2025, 9, 1), AccountCode: creditAcct, Credit: dec(amount)},
	}
}

func TestValidate_Balanced(t *testing.T) {
	lines := balancedEntry("2025-09-001", "1210", "4010", "28500.00")
	errs := ValidateLines(lines, defaultChart, 2025, 9)
	assert.Empty(t, errs)
}

func TestValidate_Invariant1_Unbalanced(t *testing.T) {
	lines := []model.JournalLine{
		{LineID: "2025-09-001a", Date: date(2025, 9, 1), AccountCode: "1210", Debit: dec("100.00")},
		{LineID: "2025-09-001b", Date: date(2025, 9, 1), AccountCode: "4010", Credit: dec("99.00")},
	}
	errs := ValidateLines(lines, defaultChart, 2025, 9)
	require.NotEmpty(t, errs)
	assert.Equal(t, 1, errs[0].Invariant)
}

func TestValidate_Invariant2_BothSides(t *testing.T) {
	lines := []model.JournalLine{
		{LineID: "2025-09-001a", Date: date(2025, 9, 1), AccountCode: "1210",
			Debit: dec("100.00"), Credit: dec("100.00")},
	}
	errs := ValidateLines(lines, defaultChart, 2025, 9)
	assertHasInvariant(t, errs, 2)
}

func TestValidate_Invariant2_NeitherSide(t *testing.T) {
	lines := []model.JournalLine{
		{LineID: "2025-09-001a", Date: date(2025, 9, 1), AccountCode: "1210"},
	}
	errs := ValidateLines(lines, defaultChart, 2025, 9)
	assertHasInvariant(t, errs, 2)
}

func TestValidate_Invariant3_UnknownAccount(t *testing.T) {
	lines := balancedEntry("2025-09-001", "1210", "9999", "50.00")
	errs := ValidateLines(lines, defaultChart, 2025, 9)
	assertHasInvariant(t, errs, 3)
}

func TestValidate_Invariant4_DateOutsideMonth(t *testing.T) {
	lines := balancedEntry("2025-09-001", "1210", "4010", "50.00")
	lines[0].Date = date(2025, 8, 31)
	errs := ValidateLines(lines, defaultChart, 2025, 9)
	assertHasInvariant(t, errs, 4)
}

func TestValidate_Invariant5_MissingSequence(t *testing.T) {
	lines := append(
		balancedEntry("2025-09-001", "1210", "4010", "50.00"),
		balancedEntry("2025-09-003", "1210", "4030", "25.00")...)
	errs := ValidateLines(lines, defaultChart, 2025, 9)
	assertHasInvariant(t, errs, 5)
}

func TestValidate_Invariant6_SubCentAmount(t *testing.T) {
	lines := []model.JournalLine{
		{LineID: "2025-09-001a", Date: date(2025, 9, 1), AccountCode: "1210", Debit: dec("10.005")},
		{LineID: "2025-09-001b", Date: date(2025, 9, 1), AccountCode: "4010", Credit: dec("10.005")},
	}
	errs := ValidateLines(lines, defaultChart, 2025, 9)
	assertHasInvariant(t, errs, 6)
}

func assertHasInvariant(t *testing.T, errs []ValidationError, invariant int) {
	t.Helper()
	for _, e := range errs {
		if e.Invariant == invariant {
			return
		}
	}
	t.Fatalf("expected invariant %d violation in %v", invariant, errs)
}
