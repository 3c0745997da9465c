package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DealStatus represents the lifecycle state of a deal.
type DealStatus string

const (
	StatusStructuring   DealStatus = "structuring"
	StatusCreditPending DealStatus = "credit_pending"
	StatusApproved      DealStatus = "approved"
	StatusFinalized     DealStatus = "finalized"
	StatusFunded        DealStatus = "funded"
	StatusCancelled     DealStatus = "cancelled"
)

// Terminal reports whether a status admits no further transitions.
func (s DealStatus) Terminal() bool {
	return s == StatusFunded || s == StatusCancelled
}

// DealType distinguishes cash deals from financed deals.
type DealType string

const (
	DealTypeCash     DealType = "cash"
	DealTypeFinanced DealType = "financed"
)

// VehicleCategory selects the pack cost applied to a deal.
type VehicleCategory string

const (
	CategoryNew       VehicleCategory = "new"
	CategoryUsed      VehicleCategory = "used"
	CategoryCertified VehicleCategory = "certified"
)

// DealProduct is an F&I add-on sold on a deal (warranty, GAP, etc.).
type DealProduct struct {
	Name        string
	Category    string
	RetailPrice decimal.Decimal
	Cost        decimal.Decimal
}

// Gross returns the product's margin (retail minus cost).
func (p DealProduct) Gross() decimal.Decimal {
	return p.RetailPrice.Sub(p.Cost)
}

// Deal is the central entity: a vehicle sale being structured, financed,
// and eventually posted to the books.
//
// The derived block is never hand-edited; it is recomputed as a whole by
// the desking composer whenever an input changes.
type Deal struct {
	ID     uuid.UUID
	Number string
	Status DealStatus
	Type   DealType

	// Parties.
	BuyerName   string
	CoBuyerName string
	CustomerID  string
	PostalCode  string

	// Vehicle.
	VIN         string
	Category    VehicleCategory
	MSRP        decimal.Decimal
	VehicleCost decimal.Decimal
	SalePrice   decimal.Decimal

	// Trade.
	TradeDescription string
	TradeVIN         string
	TradeAllowance   decimal.Decimal
	TradePayoff      decimal.Decimal
	TradeACV         decimal.Decimal

	// Pricing inputs.
	Rebates          decimal.Decimal
	CashDown         decimal.Decimal
	DocFee           decimal.Decimal
	TitleFee         decimal.Decimal
	RegistrationFee  decimal.Decimal
	SalesTax         decimal.Decimal
	TaxOverride      bool
	TitleFeeOverride bool
	Products         []DealProduct

	// Financing inputs.
	TermMonths int
	APR        decimal.Decimal

	// Derived.
	NetPrice       decimal.Decimal
	TradeEquity    decimal.Decimal
	TotalDown      decimal.Decimal
	AmountFinanced decimal.Decimal
	MonthlyPayment decimal.Decimal
	TotalPayments  decimal.Decimal
	FinanceCharge  decimal.Decimal

	// Set at the finalized transition; immutable once the deal is funded.
	Gross *GrossProfit

	Created   time.Time
	Updated   time.Time
	Finalized *time.Time
}

// ProductTotal returns the sum of retail prices over all deal products.
func (d Deal) ProductTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range d.Products {
		total = total.Add(p.RetailPrice)
	}
	return total
}

// ProductGross returns the sum of margins over all deal products.
func (d Deal) ProductGross() decimal.Decimal {
	total := decimal.Zero
	for _, p := range d.Products {
		total = total.Add(p.Gross())
	}
	return total
}
