package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealdesk-dev/dealdesk/internal/accounts"
	"github.com/dealdesk-dev/dealdesk/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var entryDate = time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

func chart() *accounts.Service {
	return accounts.NewService(accounts.DefaultChart())
}

func finalizedDeal() (model.Deal, model.GrossProfit) {
	deal := model.Deal{
		Number:          "250901-K3QF",
		Type:            model.DealTypeFinanced,
		BuyerName:       "Jordan Avery",
		VIN:             "1HGCM82633A004352",
		SalePrice:       dec("28500"),
		Rebates:         dec("1000"),
		CashDown:        dec("5000"),
		SalesTax:        dec("1979.13"),
		DocFee:          dec("599"),
		TitleFee:        dec("75"),
		RegistrationFee: dec("0"),
		Products: []model.DealProduct{
			{Name: "Extended Warranty", RetailPrice: dec("1250"), Cost: dec("600")},
		},
		AmountFinanced: dec("26403.13"),
		TermMonths:     60,
	}
	gp := model.GrossProfit{FinanceReserve: dec("2640.31")}
	return deal, gp
}

func TestGenerateBalancedEntry(t *testing.T) {
	deal, gp := finalizedDeal()
	entry, err := NewGenerator(chart()).Generate(deal, gp, entryDate)
	require.NoError(t, err)

	assert.True(t, IsBalanced(entry))
	assert.True(t, entry.TotalDebits().Equal(entry.TotalCredits()))
	assert.Equal(t, deal.Number, entry.DealNumber)

	// Every line carries exactly one side.
	for _, l := range entry.Lines {
		assert.NotEqual(t, l.Debit.IsZero(), l.Credit.IsZero(), "line %s %s", l.AccountCode, l.Description)
	}
}

func TestGenerateReceivableNetsToAmountFinanced(t *testing.T) {
	deal, gp := finalizedDeal()
	entry, err := NewGenerator(chart()).Generate(deal, gp, entryDate)
	require.NoError(t, err)

	ar := decimal.Zero
	for _, l := range entry.Lines {
		if l.AccountCode == accounts.CodeReceivable {
			ar = ar.Add(l.Debit).Sub(l.Credit)
		}
	}
	// What the customer still owes is exactly the financed balance.
	assert.True(t, ar.Equal(deal.AmountFinanced), "AR nets to %s", ar)
}

func TestGenerateSkipsZeroComponents(t *testing.T) {
	deal, _ := finalizedDeal()
	deal.Rebates = decimal.Zero
	deal.CashDown = decimal.Zero
	deal.Products = nil
	gp := model.GrossProfit{}

	entry, err := NewGenerator(chart()).Generate(deal, gp, entryDate)
	require.NoError(t, err)

	for _, l := range entry.Lines {
		assert.NotEqual(t, accounts.CodeRebateReceivable, l.AccountCode)
		assert.NotEqual(t, accounts.CodeProductRevenue, l.AccountCode)
		assert.NotEqual(t, accounts.CodeFinanceReserve, l.AccountCode)
		assert.NotEqual(t, accounts.CodeCash, l.AccountCode)
	}
	assert.True(t, IsBalanced(entry))
}

func TestGenerateTradeLines(t *testing.T) {
	deal, gp := finalizedDeal()
	deal.TradeVIN = "2T1BURHE5JC123456"
	deal.TradeAllowance = dec("8000")
	deal.TradePayoff = dec("11000")

	entry, err := NewGenerator(chart()).Generate(deal, gp, entryDate)
	require.NoError(t, err)
	assert.True(t, IsBalanced(entry))

	var tradeDebit, payoffCredit decimal.Decimal
	for _, l := range entry.Lines {
		switch l.AccountCode {
		case accounts.CodeTradeInventory:
			tradeDebit = tradeDebit.Add(l.Debit)
		case accounts.CodeTradePayoffs:
			payoffCredit = payoffCredit.Add(l.Credit)
		}
	}
	assert.True(t, tradeDebit.Equal(dec("8000")))
	assert.True(t, payoffCredit.Equal(dec("11000")))
}

func TestGenerateRejectsCodeMissingFromChart(t *testing.T) {
	// A chart without the receivable account cannot host a sale entry.
	var accts []model.Account
	for _, a := range accounts.DefaultChart() {
		if a.Code != accounts.CodeReceivable {
			accts = append(accts, a)
		}
	}
	deal, gp := finalizedDeal()

	_, err := NewGenerator(accounts.NewService(accts)).Generate(deal, gp, entryDate)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in chart")
}

func TestGenerateRejectsTypeDigitMismatch(t *testing.T) {
	accts := accounts.DefaultChart()
	for i := range accts {
		if accts[i].Code == accounts.CodeSalesTaxPayable {
			accts[i].Type = model.AccountTypeRevenue
		}
	}
	deal, gp := finalizedDeal()

	_, err := NewGenerator(accounts.NewService(accts)).Generate(deal, gp, entryDate)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match its code digit")
}

func TestIsBalancedTolerance(t *testing.T) {
	entry := model.JournalEntry{
		Lines: []model.JournalLine{
			{AccountCode: "1210", Debit: dec("100.00")},
			{AccountCode: "4010", Credit: dec("99.99")},
		},
	}
	assert.True(t, IsBalanced(entry))

	entry.Lines[1].Credit = dec("99.98")
	assert.False(t, IsBalanced(entry))

	err := CheckBalanced(entry)
	var imbalance *LedgerImbalanceError
	require.ErrorAs(t, err, &imbalance)
	assert.True(t, imbalance.Debits.Equal(dec("100.00")))
	assert.True(t, imbalance.Credits.Equal(dec("99.98")))
}

func TestTrialBalance(t *testing.T) {
	deal, gp := finalizedDeal()
	entry, err := NewGenerator(chart()).Generate(deal, gp, entryDate)
	require.NoError(t, err)

	tb := BuildTrialBalance(entry.Lines, chart())
	assert.True(t, tb.Balanced())
	assert.True(t, tb.TotalDebits.Equal(tb.TotalCredits))

	// Groups come out in statement order with the right membership.
	var types []model.AccountType
	for _, g := range tb.Groups {
		types = append(types, g.Type)
		for _, row := range g.Rows {
			implied, ok := model.TypeForCode(row.Code)
			require.True(t, ok)
			assert.Equal(t, implied, g.Type, "row %s in group %s", row.Code, g.Type)
		}
	}
	assert.Equal(t, []model.AccountType{
		model.AccountTypeAsset,
		model.AccountTypeLiability,
		model.AccountTypeRevenue,
	}, types)

	// Revenue group total: sale + doc fee + product revenue + reserve,
	// credit-normal.
	for _, g := range tb.Groups {
		if g.Type == model.AccountTypeRevenue {
			want := dec("28500").Add(dec("599")).Add(dec("1250")).Add(dec("2640.31"))
			assert.True(t, g.Total.Equal(want), "revenue total %s", g.Total)
		}
	}
}

func TestTrialBalanceUnknownAccountStillCounted(t *testing.T) {
	lines := []model.JournalLine{
		{AccountCode: "1970", Debit: dec("50.00")},
		{AccountCode: "4010", Credit: dec("50.00")},
	}
	tb := BuildTrialBalance(lines, chart())
	assert.True(t, tb.Balanced())
	assert.True(t, tb.TotalDebits.Equal(dec("50.00")))
}
