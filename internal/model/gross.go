package model

import "github.com/shopspring/decimal"

// GrossProfit is the profitability snapshot taken when a deal is
// finalized. The five fields are written together and never partially
// updated; NetGross always equals
// FrontEndGross + FinanceReserve + ProductGross - PackCost.
type GrossProfit struct {
	FrontEndGross  decimal.Decimal
	FinanceReserve decimal.Decimal
	ProductGross   decimal.Decimal
	PackCost       decimal.Decimal
	NetGross       decimal.Decimal
}
