// Package finance computes level-payment amortization figures.
package finance

import "github.com/shopspring/decimal"

var (
	one     = decimal.NewFromInt(1)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// Payment is the amortization result for one financed balance.
type Payment struct {
	Monthly       decimal.Decimal
	TotalPayments decimal.Decimal
	FinanceCharge decimal.Decimal
}

// ComputePayment returns the level monthly payment for a principal at a
// nominal annual rate (percent-of-100, e.g. 6.99) over termMonths.
//
// A zero rate falls back to straight-line division. Otherwise the
// standard formula P * (r(1+r)^n) / ((1+r)^n - 1) is evaluated in
// decimal with no intermediate rounding; the monthly payment is rounded
// half-up to cents at the end. TotalPayments is the rounded payment
// times the term, so the quoted figures are internally consistent.
//
// termMonths must be positive and annualRatePercent non-negative; both
// are validated by callers before reaching this function.
func ComputePayment(principal decimal.Decimal, annualRatePercent decimal.Decimal, termMonths int) Payment {
	term := decimal.NewFromInt(int64(termMonths))

	var monthly decimal.Decimal
	if annualRatePercent.IsZero() {
		// Straight-line; the amortization formula divides by zero here.
		monthly = principal.Div(term).Round(2)
	} else {
		r := annualRatePercent.Div(hundred).Div(twelve)
		compound := one.Add(r).Pow(term)
		monthly = principal.Mul(r).Mul(compound).Div(compound.Sub(one)).Round(2)
	}

	total := monthly.Mul(term)
	return Payment{
		Monthly:       monthly,
		TotalPayments: total,
		FinanceCharge: total.Sub(principal),
	}
}
