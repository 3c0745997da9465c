package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealdesk-dev/dealdesk/internal/model"
)

// Worksheet CSV column indexes.
const (
	wsColBuyerName = iota
	wsColCustomerID
	wsColPostalCode
	wsColVIN
	wsColCategory
	wsColSalePrice
	wsColVehicleCost
	wsColRebates
	wsColCashDown
	wsColTradeAllowance
	wsColTradePayoff
	wsColDocFee
	wsColTermMonths
	wsColAPR
	wsColDealType
	wsColCount
)

// WorksheetParser parses deal worksheet exports.
//
// Expected format: header row, then one deal per row with columns
// buyer_name, customer_id, postal_code, vin, category, sale_price,
// vehicle_cost, rebates, cash_down, trade_allowance, trade_payoff,
// doc_fee, term_months, apr, deal_type.
type WorksheetParser struct{}

// Format returns the format identifier.
func (p *WorksheetParser) Format() string {
	return "worksheet"
}

// Parse reads a worksheet CSV and returns draft deals in structuring
// status. Deal numbers are not assigned here; the import command does
// that when it persists the drafts.
func (p *WorksheetParser) Parse(r io.Reader) ([]model.Deal, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = wsColCount

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading worksheet CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty worksheet file")
	}

	var deals []model.Deal
	for i, record := range records {
		if i == 0 && record[wsColBuyerName] == "buyer_name" {
			continue
		}
		deal, err := parseWorksheetRow(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		deals = append(deals, deal)
	}
	return deals, nil
}

func parseWorksheetRow(record []string) (model.Deal, error) {
	now := time.Now()
	deal := model.Deal{
		ID:         uuid.New(),
		Status:     model.StatusStructuring,
		BuyerName:  strings.TrimSpace(record[wsColBuyerName]),
		CustomerID: strings.TrimSpace(record[wsColCustomerID]),
		PostalCode: strings.TrimSpace(record[wsColPostalCode]),
		VIN:        strings.ToUpper(strings.TrimSpace(record[wsColVIN])),
		Category:   parseCategory(record[wsColCategory]),
		Created:    now,
		Updated:    now,
	}

	switch strings.ToLower(strings.TrimSpace(record[wsColDealType])) {
	case "cash":
		deal.Type = model.DealTypeCash
	case "financed", "finance", "":
		deal.Type = model.DealTypeFinanced
	default:
		return model.Deal{}, fmt.Errorf("unknown deal type %q", record[wsColDealType])
	}

	amounts := []struct {
		col  int
		name string
		dst  *decimal.Decimal
	}{
		{wsColSalePrice, "sale_price", &deal.SalePrice},
		{wsColVehicleCost, "vehicle_cost", &deal.VehicleCost},
		{wsColRebates, "rebates", &deal.Rebates},
		{wsColCashDown, "cash_down", &deal.CashDown},
		{wsColTradeAllowance, "trade_allowance", &deal.TradeAllowance},
		{wsColTradePayoff, "trade_payoff", &deal.TradePayoff},
		{wsColDocFee, "doc_fee", &deal.DocFee},
		{wsColAPR, "apr", &deal.APR},
	}
	for _, a := range amounts {
		v, err := parseAmount(record[a.col])
		if err != nil {
			return model.Deal{}, fmt.Errorf("parsing %s: %w", a.name, err)
		}
		*a.dst = v
	}

	if deal.Type == model.DealTypeFinanced {
		term := strings.TrimSpace(record[wsColTermMonths])
		if term == "" {
			return model.Deal{}, fmt.Errorf("financed deal missing term_months")
		}
		n, err := strconv.Atoi(term)
		if err != nil {
			return model.Deal{}, fmt.Errorf("parsing term_months: %w", err)
		}
		deal.TermMonths = n
	}

	if deal.BuyerName == "" {
		return model.Deal{}, fmt.Errorf("missing buyer_name")
	}
	if deal.VIN == "" {
		return model.Deal{}, fmt.Errorf("missing vin")
	}

	return deal, nil
}

func parseCategory(s string) model.VehicleCategory {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "new":
		return model.CategoryNew
	case "certified", "cpo":
		return model.CategoryCertified
	default:
		return model.CategoryUsed
	}
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
