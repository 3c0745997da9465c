package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealdesk-dev/dealdesk/internal/model"
)

func TestEntriesFromLines(t *testing.T) {
	lines := []model.JournalLine{
		{LineID: "2025-09-002a", Date: date(2025, 9, 15), AccountCode: "1210", Debit: dec("100.00"), DealNumber: "250915-AAAA", Memo: "Sale of VIN X"},
		{LineID: "2025-09-002b", Date: date(2025, 9, 15), AccountCode: "4010", Credit: dec("100.00"), DealNumber: "250915-AAAA", Memo: "Sale of VIN X"},
		{LineID: "2025-09-001a", Date: date(2025, 9, 1), AccountCode: "1210", Debit: dec("50.00"), DealNumber: "250901-BBBB"},
		{LineID: "2025-09-001b", Date: date(2025, 9, 1), AccountCode: "4010", Credit: dec("50.00"), DealNumber: "250901-BBBB"},
	}

	entries := EntriesFromLines(lines)
	require.Len(t, entries, 2)

	// Sorted by entry number.
	assert.Equal(t, "2025-09-001", entries[0].Number)
	assert.Equal(t, "250901-BBBB", entries[0].DealNumber)
	assert.Len(t, entries[0].Lines, 2)

	second := entries[1]
	assert.Equal(t, "2025-09-002", second.Number)
	assert.Equal(t, "Sale of VIN X", second.Memo)
	require.NotNil(t, second.PostedAt)
	assert.Equal(t, date(2025, 9, 15), *second.PostedAt)
	assert.True(t, second.TotalDebits().Equal(second.TotalCredits()))
}

func TestEntriesFromLines_Empty(t *testing.T) {
	assert.Empty(t, EntriesFromLines(nil))
}
