package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dealdesk-dev/dealdesk/internal/model"
)

// tolerance absorbs cent-level rounding when comparing debit and credit
// totals.
var tolerance = decimal.RequireFromString("0.01")

// LedgerImbalanceError reports an entry whose debits and credits differ
// beyond tolerance. It indicates a generator defect and aborts the
// finalize transaction; it is never retried automatically.
type LedgerImbalanceError struct {
	EntryNumber string
	Debits      decimal.Decimal
	Credits     decimal.Decimal
}

func (e *LedgerImbalanceError) Error() string {
	return fmt.Sprintf("ledger entry %s out of balance: debits %s, credits %s",
		e.EntryNumber, e.Debits.StringFixed(2), e.Credits.StringFixed(2))
}

// IsBalanced reports whether an entry's debits equal its credits within
// tolerance.
func IsBalanced(entry model.JournalEntry) bool {
	diff := entry.TotalDebits().Sub(entry.TotalCredits()).Abs()
	return diff.LessThanOrEqual(tolerance)
}

// CheckBalanced returns a LedgerImbalanceError if the entry is out of
// balance, nil otherwise.
func CheckBalanced(entry model.JournalEntry) error {
	if IsBalanced(entry) {
		return nil
	}
	return &LedgerImbalanceError{
		EntryNumber: entry.Number,
		Debits:      entry.TotalDebits(),
		Credits:     entry.TotalCredits(),
	}
}
