package accounts

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealdesk-dev/dealdesk/internal/model"
)

func TestDefaultChartConsistent(t *testing.T) {
	for _, a := range DefaultChart() {
		implied, ok := model.TypeForCode(a.Code)
		require.True(t, ok, "account %s", a.Code)
		assert.Equal(t, implied, a.Type, "account %s", a.Code)
		assert.Equal(t, model.NormalBalanceFor(a.Type), a.Normal, "account %s", a.Code)
		assert.NotEmpty(t, a.Name, "account %s", a.Code)
	}
}

func TestServiceLookups(t *testing.T) {
	svc := NewService(DefaultChart())

	a, ok := svc.Get(CodeReceivable)
	require.True(t, ok)
	assert.Equal(t, "Accounts Receivable", a.Name)

	assert.True(t, svc.Exists(CodeVehicleSales))
	assert.False(t, svc.Exists("9999"))

	revenue := svc.ByType(model.AccountTypeRevenue)
	require.NotEmpty(t, revenue)
	for _, r := range revenue {
		assert.Equal(t, model.AccountTypeRevenue, r.Type)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	root := t.TempDir()

	svc := NewService(DefaultChart())
	require.NoError(t, svc.Save(root))

	loaded, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, svc.All(), loaded.All())

	// File lands in the expected spot.
	assert.FileExists(t, filepath.Join(root, "accounts", "chart-of-accounts.csv"))
}

func TestUnmarshalAccountRejectsMismatchedType(t *testing.T) {
	_, err := UnmarshalAccount([]string{"1210", "Accounts Receivable", "revenue", "debit", ""})
	assert.Error(t, err)

	_, err = UnmarshalAccount([]string{"9999", "Mystery", "asset", "debit", ""})
	assert.Error(t, err)

	_, err = UnmarshalAccount([]string{"1210", "Accounts Receivable", "asset", "sideways", ""})
	assert.Error(t, err)
}
