package journal

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dealdesk-dev/dealdesk/internal/dealnum"
	"github.com/dealdesk-dev/dealdesk/internal/model"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   int
	LineID      string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.LineID, e.Description)
}

// AccountChecker tests whether an account code exists in the chart of
// accounts.
type AccountChecker interface {
	Exists(code string) bool
}

// ValidateLines enforces 6 invariants on a month's journal lines.
func ValidateLines(lines []model.JournalLine, chart AccountChecker, year, month int) []ValidationError {
	var errs []ValidationError

	// Group lines by entry.
	groups := make(map[string][]model.JournalLine)
	var groupOrder []string
	for _, line := range lines {
		g := line.EntryGroup()
		if _, seen := groups[g]; !seen {
			groupOrder = append(groupOrder, g)
		}
		groups[g] = append(groups[g], line)
	}

	// Invariant 1: Entry groups balance (sum(debits) == sum(credits) per group).
	for _, g := range groupOrder {
		totalDebit := decimal.Zero
		totalCredit := decimal.Zero
		for _, line := range groups[g] {
			totalDebit = totalDebit.Add(line.Debit)
			totalCredit = totalCredit.Add(line.Credit)
		}
		if !totalDebit.Equal(totalCredit) {
			errs = append(errs, ValidationError{
				Invariant:   1,
				LineID:      g,
				Description: fmt.Sprintf("debits (%s) != credits (%s)", totalDebit.StringFixed(2), totalCredit.StringFixed(2)),
			})
		}
	}

	cents := decimal.NewFromInt(100)
	for _, line := range lines {
		// Invariant 2: Exactly one of debit/credit per row.
		hasDebit := !line.Debit.IsZero()
		hasCredit := !line.Credit.IsZero()
		if hasDebit == hasCredit {
			errs = append(errs, ValidationError{
				Invariant:   2,
				LineID:      line.LineID,
				Description: "line must have exactly one of debit or credit",
			})
		}

		// Invariant 3: Valid account references.
		if !chart.Exists(line.AccountCode) {
			errs = append(errs, ValidationError{
				Invariant:   3,
				LineID:      line.LineID,
				Description: fmt.Sprintf("unknown account %s", line.AccountCode),
			})
		}

		// Invariant 4: Date within month.
		if line.Date.Year() != year || int(line.Date.Month()) != month {
			errs = append(errs, ValidationError{
				Invariant:   4,
				LineID:      line.LineID,
				Description: fmt.Sprintf("date %s not in %04d-%02d", line.Date.Format("2006-01-02"), year, month),
			})
		}

		// Invariant 6: Exact decimals, no more than 2 decimal places.
		if !line.Debit.IsZero() && !line.Debit.Mul(cents).Equal(line.Debit.Mul(cents).Floor()) {
			errs = append(errs, ValidationError{
				Invariant:   6,
				LineID:      line.LineID,
				Description: fmt.Sprintf("debit %s has more than 2 decimal places", line.Debit),
			})
		}
		if !line.Credit.IsZero() && !line.Credit.Mul(cents).Equal(line.Credit.Mul(cents).Floor()) {
			errs = append(errs, ValidationError{
				Invariant:   6,
				LineID:      line.LineID,
				Description: fmt.Sprintf("credit %s has more than 2 decimal places", line.Credit),
			})
		}
	}

	// Invariant 5: Unique sequential entry numbers, contiguous 1..N.
	seqSeen := make(map[int]bool)
	for _, line := range lines {
		ref, err := dealnum.ParseEntryRef(line.LineID)
		if err != nil {
			errs = append(errs, ValidationError{
				Invariant:   5,
				LineID:      line.LineID,
				Description: fmt.Sprintf("invalid line ID: %v", err),
			})
			continue
		}
		seqSeen[ref.Seq] = true
	}
	for i := 1; i <= len(seqSeen); i++ {
		if !seqSeen[i] {
			errs = append(errs, ValidationError{
				Invariant:   5,
				LineID:      fmt.Sprintf("seq %d", i),
				Description: fmt.Sprintf("missing sequence %d in 1..%d", i, len(seqSeen)),
			})
		}
	}

	return errs
}
