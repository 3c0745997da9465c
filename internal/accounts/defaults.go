package accounts

import "github.com/dealdesk-dev/dealdesk/internal/model"

// Well-known account codes used by the ledger generator.
const (
	CodeCash              = "1010"
	CodeReceivable        = "1210"
	CodeReserveReceivable = "1220"
	CodeRebateReceivable  = "1230"
	CodeTradeInventory    = "1310"
	CodeTradePayoffs      = "2110"
	CodeSalesTaxPayable   = "2210"
	CodeTitleFeesPayable  = "2220"
	CodeRegFeesPayable    = "2230"
	CodeVehicleSales      = "4010"
	CodeFinanceReserve    = "4020"
	CodeDocFees           = "4030"
	CodeProductRevenue    = "4040"
)

// DefaultChart returns the standard dealership chart of accounts.
func DefaultChart() []model.Account {
	acct := func(code, name string, desc string) model.Account {
		t, _ := model.TypeForCode(code)
		return model.Account{
			Code:        code,
			Name:        name,
			Type:        t,
			Normal:      model.NormalBalanceFor(t),
			Description: desc,
		}
	}

	return []model.Account{
		acct(CodeCash, "Cash", "Cash and cash equivalents"),
		acct("1110", "Vehicle Inventory", "New and used vehicles held for sale"),
		acct(CodeReceivable, "Accounts Receivable", "Amounts due from customers and lenders"),
		acct(CodeReserveReceivable, "Finance Reserve Receivable", "Reserve due from lenders"),
		acct(CodeRebateReceivable, "Factory Rebates Receivable", "Rebates due from manufacturers"),
		acct(CodeTradeInventory, "Trade Vehicle Inventory", "Vehicles acquired by trade-in"),
		acct(CodeTradePayoffs, "Trade Payoffs Payable", "Lien payoffs owed on trade-ins"),
		acct(CodeSalesTaxPayable, "Sales Tax Payable", "Sales tax collected, due to the state"),
		acct(CodeTitleFeesPayable, "Title Fees Payable", "Title fees collected, due to the DMV"),
		acct(CodeRegFeesPayable, "Registration Fees Payable", "Registration fees collected, due to the DMV"),
		acct("3010", "Retained Earnings", "Accumulated dealership profits"),
		acct(CodeVehicleSales, "Vehicle Sales Revenue", "Revenue from vehicle sales"),
		acct(CodeFinanceReserve, "Finance Reserve Revenue", "Dealer markup on financing"),
		acct(CodeDocFees, "Documentation Fee Revenue", "Doc fee income"),
		acct(CodeProductRevenue, "F&I Product Revenue", "Warranties, GAP, and other add-ons"),
		acct("5010", "Cost of Vehicle Sales", "Inventory cost relieved at sale"),
		acct("5020", "F&I Product Cost", "Cost of F&I products sold"),
		acct("5030", "Pack Expense", "Per-vehicle overhead allocation"),
	}
}
