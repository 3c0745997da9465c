package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dealdesk-dev/dealdesk/internal/accounts"
	"github.com/dealdesk-dev/dealdesk/internal/model"
)

// TrialBalanceRow is one account's aggregate position.
type TrialBalanceRow struct {
	Code    string
	Name    string
	Debits  decimal.Decimal
	Credits decimal.Decimal
	Balance decimal.Decimal // signed by the account's normal balance side
}

// TrialBalanceGroup collects rows for one account type.
type TrialBalanceGroup struct {
	Type  model.AccountType
	Rows  []TrialBalanceRow
	Total decimal.Decimal
}

// TrialBalance aggregates all posted journal lines by account, grouped
// by account type.
type TrialBalance struct {
	Groups       []TrialBalanceGroup
	TotalDebits  decimal.Decimal
	TotalCredits decimal.Decimal
}

// Balanced reports whether total debits equal total credits within
// tolerance.
func (tb TrialBalance) Balanced() bool {
	return tb.TotalDebits.Sub(tb.TotalCredits).Abs().LessThanOrEqual(tolerance)
}

// groupOrder fixes the report's section ordering.
var groupOrder = []model.AccountType{
	model.AccountTypeAsset,
	model.AccountTypeLiability,
	model.AccountTypeEquity,
	model.AccountTypeRevenue,
	model.AccountTypeExpense,
}

// BuildTrialBalance aggregates journal lines into a trial balance
// against a chart of accounts. Lines referencing unknown accounts are
// reported under their own code with an empty name rather than dropped,
// so the totals always cover every posted line.
func BuildTrialBalance(lines []model.JournalLine, chart *accounts.Service) TrialBalance {
	type agg struct {
		debits  decimal.Decimal
		credits decimal.Decimal
	}
	byCode := make(map[string]*agg)
	for _, l := range lines {
		a, ok := byCode[l.AccountCode]
		if !ok {
			a = &agg{debits: decimal.Zero, credits: decimal.Zero}
			byCode[l.AccountCode] = a
		}
		a.debits = a.debits.Add(l.Debit)
		a.credits = a.credits.Add(l.Credit)
	}

	tb := TrialBalance{TotalDebits: decimal.Zero, TotalCredits: decimal.Zero}

	rowsByType := make(map[model.AccountType][]TrialBalanceRow)
	for code, a := range byCode {
		row := TrialBalanceRow{Code: code, Debits: a.debits, Credits: a.credits}

		acctType, _ := model.TypeForCode(code)
		normal := model.NormalBalanceFor(acctType)
		if acct, ok := chart.Get(code); ok {
			row.Name = acct.Name
			acctType = acct.Type
			normal = acct.Normal
		}

		if normal == model.BalanceDebit {
			row.Balance = a.debits.Sub(a.credits)
		} else {
			row.Balance = a.credits.Sub(a.debits)
		}

		rowsByType[acctType] = append(rowsByType[acctType], row)
		tb.TotalDebits = tb.TotalDebits.Add(a.debits)
		tb.TotalCredits = tb.TotalCredits.Add(a.credits)
	}

	for _, t := range groupOrder {
		rows := rowsByType[t]
		if len(rows) == 0 {
			continue
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].Code < rows[j].Code })

		total := decimal.Zero
		for _, r := range rows {
			total = total.Add(r.Balance)
		}
		tb.Groups = append(tb.Groups, TrialBalanceGroup{Type: t, Rows: rows, Total: total})
	}

	return tb
}
