package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalLine is a single row in journal.csv (one side of a double-entry).
type JournalLine struct {
	LineID      string    // "2025-01-001a" where the trailing letter is the leg
	Date        time.Time
	AccountCode string
	Description string
	Debit       decimal.Decimal // zero if credit side
	Credit      decimal.Decimal // zero if debit side
	DealNumber  string
	Memo        string
}

// EntryGroup returns the base entry number (without the leg suffix).
// "2025-01-001a" -> "2025-01-001"
func (l JournalLine) EntryGroup() string {
	id := l.LineID
	i := len(id)
	for i > 0 && id[i-1] >= 'a' && id[i-1] <= 'z' {
		i--
	}
	return id[:i]
}

// JournalEntry is a balanced set of journal lines generated for one deal
// at finalize time. Immutable after posting.
type JournalEntry struct {
	Number     string // assigned at post time, "YYYY-MM-NNN"
	Date       time.Time
	DealNumber string
	Memo       string
	Lines      []JournalLine
	PostedAt   *time.Time
}

// TotalDebits sums the debit side of all lines.
func (e JournalEntry) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Debit)
	}
	return total
}

// TotalCredits sums the credit side of all lines.
func (e JournalEntry) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Credit)
	}
	return total
}
