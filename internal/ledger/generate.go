// Package ledger turns a finalized deal into balanced double-entry
// journal lines and verifies that posted entries stay balanced.
package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dealdesk-dev/dealdesk/internal/accounts"
	"github.com/dealdesk-dev/dealdesk/internal/model"
)

// Generator converts a deal plus its gross snapshot into a journal
// entry. Every economic component is emitted as a matched debit/credit
// pair, so the whole entry balances by construction; the balance is
// still re-verified before an entry is considered postable.
type Generator struct {
	chart *accounts.Service
}

// NewGenerator creates a Generator validating codes against a chart.
func NewGenerator(chart *accounts.Service) *Generator {
	return &Generator{chart: chart}
}

// Generate builds the journal entry for a finalized deal. The entry
// number is assigned later, at post time.
func (g *Generator) Generate(deal model.Deal, gp model.GrossProfit, date time.Time) (model.JournalEntry, error) {
	entry := model.JournalEntry{
		Date:       date,
		DealNumber: deal.Number,
		Memo:       fmt.Sprintf("Sale of VIN %s to %s", deal.VIN, deal.BuyerName),
	}

	add := func(debitCode, creditCode string, amount decimal.Decimal, desc string) error {
		if amount.IsZero() {
			return nil
		}
		for _, code := range []string{debitCode, creditCode} {
			if err := g.checkCode(code); err != nil {
				return err
			}
		}
		entry.Lines = append(entry.Lines,
			model.JournalLine{
				Date:        date,
				AccountCode: debitCode,
				Description: desc,
				Debit:       amount,
				DealNumber:  deal.Number,
			},
			model.JournalLine{
				Date:        date,
				AccountCode: creditCode,
				Description: desc,
				Credit:      amount,
				DealNumber:  deal.Number,
			},
		)
		return nil
	}

	pairs := []struct {
		debit, credit string
		amount        decimal.Decimal
		desc          string
	}{
		{accounts.CodeReceivable, accounts.CodeVehicleSales, deal.SalePrice,
			fmt.Sprintf("Vehicle sale, deal %s", deal.Number)},
		{accounts.CodeReceivable, accounts.CodeSalesTaxPayable, deal.SalesTax,
			fmt.Sprintf("Sales tax, deal %s", deal.Number)},
		{accounts.CodeReceivable, accounts.CodeDocFees, deal.DocFee,
			fmt.Sprintf("Doc fee, deal %s", deal.Number)},
		{accounts.CodeReceivable, accounts.CodeTitleFeesPayable, deal.TitleFee,
			fmt.Sprintf("Title fee, deal %s", deal.Number)},
		{accounts.CodeReceivable, accounts.CodeRegFeesPayable, deal.RegistrationFee,
			fmt.Sprintf("Registration fee, deal %s", deal.Number)},
		{accounts.CodeReceivable, accounts.CodeProductRevenue, deal.ProductTotal(),
			fmt.Sprintf("F&I products, deal %s", deal.Number)},
		{accounts.CodeRebateReceivable, accounts.CodeReceivable, deal.Rebates,
			fmt.Sprintf("Factory rebate, deal %s", deal.Number)},
		{accounts.CodeTradeInventory, accounts.CodeReceivable, deal.TradeAllowance,
			fmt.Sprintf("Trade-in allowance, VIN %s", deal.TradeVIN)},
		{accounts.CodeReceivable, accounts.CodeTradePayoffs, deal.TradePayoff,
			fmt.Sprintf("Trade payoff, VIN %s", deal.TradeVIN)},
		{accounts.CodeCash, accounts.CodeReceivable, deal.CashDown,
			fmt.Sprintf("Cash down, deal %s", deal.Number)},
		{accounts.CodeReserveReceivable, accounts.CodeFinanceReserve, gp.FinanceReserve,
			fmt.Sprintf("Finance reserve, deal %s", deal.Number)},
	}
	for _, p := range pairs {
		if err := add(p.debit, p.credit, p.amount, p.desc); err != nil {
			return model.JournalEntry{}, err
		}
	}

	if err := CheckBalanced(entry); err != nil {
		return model.JournalEntry{}, err
	}
	return entry, nil
}

// checkCode verifies the code exists in the chart and that its type
// digit agrees with the chart's declared type.
func (g *Generator) checkCode(code string) error {
	acct, ok := g.chart.Get(code)
	if !ok {
		return fmt.Errorf("account %s not in chart of accounts", code)
	}
	implied, ok := model.TypeForCode(code)
	if !ok || implied != acct.Type {
		return fmt.Errorf("account %s type %s does not match its code digit", code, acct.Type)
	}
	return nil
}
