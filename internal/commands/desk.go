package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/dealdesk-dev/dealdesk/internal/model"
)

// dealFlags is the deal-input flag set shared by `deal new` and
// `deal desk`. Only flags the user actually set are applied, so desking
// an existing deal touches nothing else.
type dealFlags struct {
	buyer          string
	customerID     string
	postalCode     string
	vin            string
	category       string
	dealType       string
	salePrice      string
	vehicleCost    string
	rebates        string
	cashDown       string
	tradeAllowance string
	tradePayoff    string
	docFee         string
	taxOverride    string
	titleFee       string
	regFee         string
	term           int
	apr            string
	products       []string
}

func newDealFlags() *dealFlags {
	return &dealFlags{}
}

func (f *dealFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.buyer, "buyer", "", "buyer name")
	cmd.Flags().StringVar(&f.customerID, "customer-id", "", "customer identifier")
	cmd.Flags().StringVar(&f.postalCode, "postal-code", "", "buyer postal code")
	cmd.Flags().StringVar(&f.vin, "vin", "", "vehicle VIN")
	cmd.Flags().StringVar(&f.category, "category", "", "vehicle category (new, used, certified)")
	cmd.Flags().StringVar(&f.dealType, "type", "", "deal type (cash, financed)")
	cmd.Flags().StringVar(&f.salePrice, "sale-price", "", "negotiated sale price")
	cmd.Flags().StringVar(&f.vehicleCost, "vehicle-cost", "", "dealer cost of the vehicle")
	cmd.Flags().StringVar(&f.rebates, "rebates", "", "manufacturer rebates")
	cmd.Flags().StringVar(&f.cashDown, "cash-down", "", "cash down payment")
	cmd.Flags().StringVar(&f.tradeAllowance, "trade-allowance", "", "trade-in allowance")
	cmd.Flags().StringVar(&f.tradePayoff, "trade-payoff", "", "trade-in payoff")
	cmd.Flags().StringVar(&f.docFee, "doc-fee", "", "documentation fee")
	cmd.Flags().StringVar(&f.taxOverride, "sales-tax", "", "override the resolved sales tax")
	cmd.Flags().StringVar(&f.titleFee, "title-fee", "", "override the resolved title fee")
	cmd.Flags().StringVar(&f.regFee, "registration-fee", "", "registration fee")
	cmd.Flags().IntVar(&f.term, "term", 0, "term in months")
	cmd.Flags().StringVar(&f.apr, "apr", "", "annual percentage rate")
	cmd.Flags().StringArrayVar(&f.products, "product", nil, "add-on product as name:retail:cost")
}

// apply copies every changed flag onto the deal.
func (f *dealFlags) apply(cmd *cobra.Command, deal model.Deal) (model.Deal, error) {
	changed := cmd.Flags().Changed

	if changed("buyer") {
		deal.BuyerName = f.buyer
	}
	if changed("customer-id") {
		deal.CustomerID = f.customerID
	}
	if changed("postal-code") {
		deal.PostalCode = f.postalCode
	}
	if changed("vin") {
		deal.VIN = strings.ToUpper(f.vin)
	}
	if changed("category") {
		switch model.VehicleCategory(f.category) {
		case model.CategoryNew, model.CategoryUsed, model.CategoryCertified:
			deal.Category = model.VehicleCategory(f.category)
		default:
			return deal, fmt.Errorf("unknown category %q", f.category)
		}
	}
	if changed("type") {
		switch model.DealType(f.dealType) {
		case model.DealTypeCash, model.DealTypeFinanced:
			deal.Type = model.DealType(f.dealType)
		default:
			return deal, fmt.Errorf("unknown deal type %q", f.dealType)
		}
	}
	if changed("term") {
		deal.TermMonths = f.term
	}

	amounts := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"sale-price", f.salePrice, &deal.SalePrice},
		{"vehicle-cost", f.vehicleCost, &deal.VehicleCost},
		{"rebates", f.rebates, &deal.Rebates},
		{"cash-down", f.cashDown, &deal.CashDown},
		{"trade-allowance", f.tradeAllowance, &deal.TradeAllowance},
		{"trade-payoff", f.tradePayoff, &deal.TradePayoff},
		{"doc-fee", f.docFee, &deal.DocFee},
		{"registration-fee", f.regFee, &deal.RegistrationFee},
		{"apr", f.apr, &deal.APR},
	}
	for _, a := range amounts {
		if !changed(a.name) {
			continue
		}
		v, err := decimal.NewFromString(a.raw)
		if err != nil {
			return deal, fmt.Errorf("parsing --%s: %w", a.name, err)
		}
		*a.dst = v
	}

	if changed("sales-tax") {
		v, err := decimal.NewFromString(f.taxOverride)
		if err != nil {
			return deal, fmt.Errorf("parsing --sales-tax: %w", err)
		}
		deal.SalesTax = v
		deal.TaxOverride = true
	}
	if changed("title-fee") {
		v, err := decimal.NewFromString(f.titleFee)
		if err != nil {
			return deal, fmt.Errorf("parsing --title-fee: %w", err)
		}
		deal.TitleFee = v
		deal.TitleFeeOverride = true
	}

	if changed("product") {
		for _, spec := range f.products {
			p, err := parseProduct(spec)
			if err != nil {
				return deal, err
			}
			deal.Products = append(deal.Products, p)
		}
	}

	return deal, nil
}

// parseProduct parses a name:retail:cost product spec.
func parseProduct(spec string) (model.DealProduct, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return model.DealProduct{}, fmt.Errorf("product %q: want name:retail:cost", spec)
	}
	retail, err := decimal.NewFromString(parts[1])
	if err != nil {
		return model.DealProduct{}, fmt.Errorf("product %q retail: %w", spec, err)
	}
	cost, err := decimal.NewFromString(parts[2])
	if err != nil {
		return model.DealProduct{}, fmt.Errorf("product %q cost: %w", spec, err)
	}
	return model.DealProduct{Name: parts[0], RetailPrice: retail, Cost: cost}, nil
}

func newDealDeskCommand() *cobra.Command {
	flags := newDealFlags()

	cmd := &cobra.Command{
		Use:   "desk <deal-number>",
		Short: "Update deal inputs and recompute the structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(repoFlag(cmd))
			if err != nil {
				return err
			}

			deal, err := ws.deals.Load(args[0])
			if err != nil {
				return err
			}
			if deal.Status.Terminal() || deal.Status == model.StatusFinalized {
				return fmt.Errorf("deal %s is %s and can no longer be desked", deal.Number, deal.Status)
			}

			deal, err = flags.apply(cmd, deal)
			if err != nil {
				return err
			}

			return deskAndSave(ws, deal, "desk")
		},
	}

	flags.register(cmd)
	return cmd
}

// deskAndSave recomputes the deal, persists it, logs the action, and
// prints the result with any policy warnings.
func deskAndSave(ws *workspace, deal model.Deal, action string) error {
	deal, warnings, err := ws.composer.Recompute(deal)
	if err != nil {
		return err
	}
	deal.Updated = time.Now()

	if err := ws.deals.Save(deal); err != nil {
		return fmt.Errorf("saving deal: %w", err)
	}

	ws.logActivity(action, deal.Number, "", "", fmt.Sprintf("amount financed %s", deal.AmountFinanced.StringFixed(2)))

	for _, w := range warnings {
		fmt.Printf("warning: %s: %s\n", w.Field, w.Message)
	}
	printDeal(deal)
	return nil
}
