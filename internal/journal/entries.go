package journal

import (
	"sort"

	"github.com/dealdesk-dev/dealdesk/internal/model"
)

// EntriesFromLines reconstructs posted entries from journal lines read
// off disk, grouped by entry number. Lines on disk are by definition
// posted, so each entry's PostedAt is set to its entry date.
func EntriesFromLines(lines []model.JournalLine) []model.JournalEntry {
	byGroup := make(map[string][]model.JournalLine)
	for _, line := range lines {
		group := line.EntryGroup()
		byGroup[group] = append(byGroup[group], line)
	}

	numbers := make([]string, 0, len(byGroup))
	for number := range byGroup {
		numbers = append(numbers, number)
	}
	sort.Strings(numbers)

	entries := make([]model.JournalEntry, 0, len(numbers))
	for _, number := range numbers {
		group := byGroup[number]
		first := group[0]
		posted := first.Date
		entries = append(entries, model.JournalEntry{
			Number:     number,
			Date:       first.Date,
			DealNumber: first.DealNumber,
			Memo:       first.Memo,
			Lines:      group,
			PostedAt:   &posted,
		})
	}
	return entries
}
