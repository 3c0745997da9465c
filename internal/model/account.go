package model

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// BalanceSide is the normal balance side of an account.
type BalanceSide string

const (
	BalanceDebit  BalanceSide = "debit"
	BalanceCredit BalanceSide = "credit"
)

// Account represents a row in chart-of-accounts.csv. The first digit of
// Code encodes the account type (1=asset, 2=liability, 3=equity,
// 4=revenue, 5=expense).
type Account struct {
	Code        string
	Name        string
	Type        AccountType
	Normal      BalanceSide
	Description string
}

// TypeForCode returns the account type implied by the first digit of an
// account code, and false if the code has no recognized type digit.
func TypeForCode(code string) (AccountType, bool) {
	if len(code) == 0 {
		return "", false
	}
	switch code[0] {
	case '1':
		return AccountTypeAsset, true
	case '2':
		return AccountTypeLiability, true
	case '3':
		return AccountTypeEquity, true
	case '4':
		return AccountTypeRevenue, true
	case '5':
		return AccountTypeExpense, true
	}
	return "", false
}

// NormalBalanceFor returns the normal balance side for an account type.
// Assets and expenses carry debit balances; everything else carries credit.
func NormalBalanceFor(t AccountType) BalanceSide {
	switch t {
	case AccountTypeAsset, AccountTypeExpense:
		return BalanceDebit
	default:
		return BalanceCredit
	}
}
