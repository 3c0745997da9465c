package dealnum

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const suffixAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewDealNumber returns a date-based deal number like "250901-K3QF":
// two-digit year, month, day, then a random base-36 suffix.
func NewDealNumber(now time.Time) string {
	return FormatDealNumber(now, randomSuffix())
}

// FormatDealNumber builds a deal number from a date and a suffix.
func FormatDealNumber(t time.Time, suffix string) string {
	return fmt.Sprintf("%s-%s", t.Format("060102"), suffix)
}

// ParseDealNumber splits a deal number into its date and suffix parts.
func ParseDealNumber(number string) (date time.Time, suffix string, err error) {
	parts := strings.SplitN(number, "-", 2)
	if len(parts) != 2 || len(parts[0]) != 6 || parts[1] == "" {
		return time.Time{}, "", fmt.Errorf("invalid deal number format: %q", number)
	}
	date, err = time.Parse("060102", parts[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid date in deal number %q: %w", number, err)
	}
	return date, parts[1], nil
}

func randomSuffix() string {
	b := make([]byte, 4)
	for i := range b {
		b[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return string(b)
}

// EntryRef identifies a posted journal entry within a month.
type EntryRef struct {
	Year  int
	Month int
	Seq   int
}

// String formats the ref as an entry number like "2025-01-001".
func (r EntryRef) String() string {
	return fmt.Sprintf("%04d-%02d-%03d", r.Year, r.Month, r.Seq)
}

// LineID returns a line ID like "2025-01-001a" (line 0='a', 1='b', etc.).
func (r EntryRef) LineID(line int) string {
	return r.String() + string(rune('a'+line))
}

// ParseEntryRef parses an entry number (or a line ID; any trailing
// lowercase leg suffix is ignored) into an EntryRef.
func ParseEntryRef(number string) (EntryRef, error) {
	base := EntryGroup(number)

	parts := strings.SplitN(base, "-", 3)
	if len(parts) != 3 {
		return EntryRef{}, fmt.Errorf("invalid entry number format: %q", number)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return EntryRef{}, fmt.Errorf("invalid year in entry number %q: %w", number, err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return EntryRef{}, fmt.Errorf("invalid month in entry number %q: %w", number, err)
	}
	seq, err := strconv.Atoi(parts[2])
	if err != nil {
		return EntryRef{}, fmt.Errorf("invalid sequence in entry number %q: %w", number, err)
	}

	return EntryRef{Year: year, Month: month, Seq: seq}, nil
}

// EntryGroup strips the leg suffix from a line ID.
// "2025-01-001a" -> "2025-01-001"
func EntryGroup(lineID string) string {
	i := len(lineID)
	for i > 0 && lineID[i-1] >= 'a' && lineID[i-1] <= 'z' {
		i--
	}
	return lineID[:i]
}
