// Package desking recomputes a deal's derived financial fields from its
// raw inputs. Recomputation is an explicit, pure function: callers invoke
// it after any field edit and receive a new Deal value, so readers can
// never observe a partially recomputed deal.
package desking

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dealdesk-dev/dealdesk/internal/finance"
	"github.com/dealdesk-dev/dealdesk/internal/model"
	"github.com/dealdesk-dev/dealdesk/internal/ratetable"
)

// ValidationError reports a malformed or out-of-range deal input. The
// composer never corrects an input silently.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Warning reports a documented policy adjustment that was applied during
// recomputation (today only the amount-financed floor).
type Warning struct {
	Field   string
	Message string
}

// Composer assembles a deal's derived fields from its raw line items.
type Composer struct {
	rates    ratetable.Table
	minFloor decimal.Decimal // floor applied to a negative amount financed
}

// NewComposer creates a Composer resolving taxes and fees against the
// given table. The amount-financed floor defaults to zero.
func NewComposer(rates ratetable.Table) *Composer {
	return &Composer{rates: rates, minFloor: decimal.Zero}
}

// Recompute derives netPrice, tradeEquity, tax/title (unless overridden),
// amountFinanced, and the payment fields for a deal. The input is not
// mutated; on error the returned deal is the zero value and the caller's
// prior derived values stand untouched.
//
// Recompute is deterministic and idempotent: identical inputs produce
// bit-identical outputs.
func (c *Composer) Recompute(deal model.Deal) (model.Deal, []Warning, error) {
	if err := validate(deal); err != nil {
		return model.Deal{}, nil, err
	}

	var warnings []Warning

	deal.NetPrice = deal.SalePrice.Sub(deal.Rebates)

	// Negative equity means the trade adds to the amount owed.
	deal.TradeEquity = deal.TradeAllowance.Sub(deal.TradePayoff)

	if !deal.TaxOverride || !deal.TitleFeeOverride {
		r := c.rates.Resolve(ratetable.Prefix(deal.PostalCode))
		if !deal.TaxOverride {
			deal.SalesTax = deal.SalePrice.Mul(r.TaxRate).Div(hundred).Round(2)
		}
		if !deal.TitleFeeOverride {
			deal.TitleFee = r.TitleFee
		}
	}

	deal.TotalDown = deal.CashDown.Add(decimal.Max(decimal.Zero, deal.TradeEquity))

	financed := deal.NetPrice.
		Sub(deal.CashDown).
		Sub(deal.TradeEquity).
		Add(deal.ProductTotal()).
		Add(deal.SalesTax).
		Add(deal.DocFee).
		Add(deal.TitleFee).
		Add(deal.RegistrationFee)

	if financed.LessThan(c.minFloor) {
		warnings = append(warnings, Warning{
			Field: "amountFinanced",
			Message: fmt.Sprintf("computed amount financed %s floored at %s",
				financed.StringFixed(2), c.minFloor.StringFixed(2)),
		})
		financed = c.minFloor
	}
	deal.AmountFinanced = financed

	if deal.Type == model.DealTypeCash {
		deal.MonthlyPayment = decimal.Zero
		deal.TotalPayments = decimal.Zero
		deal.FinanceCharge = decimal.Zero
		return deal, warnings, nil
	}

	p := finance.ComputePayment(deal.AmountFinanced, deal.APR, deal.TermMonths)
	deal.MonthlyPayment = p.Monthly
	deal.TotalPayments = p.TotalPayments
	deal.FinanceCharge = p.FinanceCharge

	return deal, warnings, nil
}

var hundred = decimal.NewFromInt(100)

func validate(deal model.Deal) error {
	if deal.SalePrice.IsNegative() {
		return &ValidationError{Field: "salePrice", Reason: "must not be negative"}
	}
	if deal.TradeAllowance.IsNegative() {
		return &ValidationError{Field: "tradeAllowance", Reason: "must not be negative"}
	}
	if deal.TradePayoff.IsNegative() {
		return &ValidationError{Field: "tradePayoff", Reason: "must not be negative"}
	}
	if deal.CashDown.IsNegative() {
		return &ValidationError{Field: "cashDown", Reason: "must not be negative"}
	}
	if deal.APR.IsNegative() {
		return &ValidationError{Field: "apr", Reason: "must not be negative"}
	}
	if deal.Type != model.DealTypeCash && deal.TermMonths <= 0 {
		return &ValidationError{Field: "termMonths", Reason: "must be a positive number of months"}
	}
	return nil
}
