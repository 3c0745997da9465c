// Package gross decomposes a deal's profitability into front-end gross,
// finance reserve, product gross, pack cost, and net gross.
package gross

import (
	"github.com/shopspring/decimal"

	"github.com/dealdesk-dev/dealdesk/internal/model"
)

var twelve = decimal.NewFromInt(12)

// DefaultReserveSpread is the dealer's markup over the lender's buy
// rate, expressed as a fraction (2 points).
var DefaultReserveSpread = decimal.RequireFromString("0.02")

// DefaultPackCosts returns the standard per-deal overhead by vehicle
// category.
func DefaultPackCosts() map[model.VehicleCategory]decimal.Decimal {
	return map[model.VehicleCategory]decimal.Decimal{
		model.CategoryNew:       decimal.NewFromInt(500),
		model.CategoryUsed:      decimal.NewFromInt(300),
		model.CategoryCertified: decimal.NewFromInt(400),
	}
}

// Decomposer derives gross-profit snapshots for finalized deals. The
// spread and pack costs come from configuration, not package state.
type Decomposer struct {
	reserveSpread decimal.Decimal
	packCosts     map[model.VehicleCategory]decimal.Decimal
}

// NewDecomposer creates a Decomposer with the given reserve spread
// (fractional, e.g. 0.02) and pack cost table.
func NewDecomposer(reserveSpread decimal.Decimal, packCosts map[model.VehicleCategory]decimal.Decimal) *Decomposer {
	return &Decomposer{reserveSpread: reserveSpread, packCosts: packCosts}
}

// Decompose computes the five-field gross snapshot for a deal. It runs
// on the derived fields the composer produced, so the deal must have
// been recomputed first. The result is one immutable value; callers
// persist it whole or not at all.
func (d *Decomposer) Decompose(deal model.Deal) model.GrossProfit {
	tradeEquity := deal.TradeAllowance.Sub(deal.TradePayoff)

	// A trade costing more than its allowance is absorbed in front-end
	// gross rather than charged as negative gross against the trade.
	frontEnd := deal.SalePrice.
		Sub(deal.VehicleCost).
		Sub(decimal.Max(decimal.Zero, tradeEquity))

	reserve := decimal.Zero
	if deal.Type == model.DealTypeFinanced {
		term := decimal.NewFromInt(int64(deal.TermMonths))
		reserve = deal.AmountFinanced.
			Mul(d.reserveSpread).
			Mul(term).
			Div(twelve).
			Round(2)
	}

	product := deal.ProductGross()
	pack := d.packCost(deal.Category)

	return model.GrossProfit{
		FrontEndGross:  frontEnd,
		FinanceReserve: reserve,
		ProductGross:   product,
		PackCost:       pack,
		NetGross:       frontEnd.Add(reserve).Add(product).Sub(pack),
	}
}

func (d *Decomposer) packCost(category model.VehicleCategory) decimal.Decimal {
	if c, ok := d.packCosts[category]; ok {
		return c
	}
	// Unknown categories take the used-vehicle pack.
	if c, ok := d.packCosts[model.CategoryUsed]; ok {
		return c
	}
	return decimal.Zero
}
