package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dealdesk-dev/dealdesk/internal/dealnum"
	"github.com/dealdesk-dev/dealdesk/internal/model"
)

func newDealCommand() *cobra.Command {
	dealCmd := &cobra.Command{
		Use:   "deal",
		Short: "Deal operations",
	}
	dealCmd.PersistentFlags().String("repo", ".", "books repository directory")

	dealCmd.AddCommand(newDealNewCommand())
	dealCmd.AddCommand(newDealDeskCommand())
	dealCmd.AddCommand(newDealShowCommand())
	dealCmd.AddCommand(newDealListCommand())
	dealCmd.AddCommand(newDealSubmitCommand())
	dealCmd.AddCommand(newDealApproveCommand())
	dealCmd.AddCommand(newDealCancelCommand())
	dealCmd.AddCommand(newDealFinalizeCommand())
	dealCmd.AddCommand(newDealFundCommand())

	return dealCmd
}

func repoFlag(cmd *cobra.Command) string {
	repo, _ := cmd.Flags().GetString("repo")
	return repo
}

func newDealNewCommand() *cobra.Command {
	flags := newDealFlags()

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a deal and run the initial desk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(repoFlag(cmd))
			if err != nil {
				return err
			}

			now := time.Now()
			deal := model.Deal{
				ID:      uuid.New(),
				Number:  dealnum.NewDealNumber(now),
				Status:  model.StatusStructuring,
				Type:    model.DealTypeFinanced,
				DocFee:  ws.cfg.DefaultDocFee(),
				Created: now,
				Updated: now,
			}
			if ws.cfg.Desking.DefaultTermMonths > 0 {
				deal.TermMonths = ws.cfg.Desking.DefaultTermMonths
			}

			deal, err = flags.apply(cmd, deal)
			if err != nil {
				return err
			}

			return deskAndSave(ws, deal, "new")
		},
	}

	flags.register(cmd)
	return cmd
}

func newDealShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <deal-number>",
		Short: "Show a deal's structure and derived figures",
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
			printDeal(deal)
			return nil
		},
	}
}

func newDealListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List deals in the repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(repoFlag(cmd))
			if err != nil {
				return err
			}
			numbers, err := ws.deals.List()
			if err != nil {
				return err
			}
			for _, number := range numbers {
				deal, err := ws.deals.Load(number)
				if err != nil {
					return err
				}
				fmt.Printf("%-12s %-14s %-9s %-18s %s\n",
					deal.Number, deal.Status, deal.Type, deal.VIN, deal.BuyerName)
			}
			return nil
		},
	}
}

func printDeal(deal model.Deal) {
	fmt.Printf("Deal %s (%s)\n", deal.Number, deal.Status)
	fmt.Printf("  Buyer:           %s (%s)\n", deal.BuyerName, deal.CustomerID)
	fmt.Printf("  Vehicle:         %s %s\n", deal.Category, deal.VIN)
	fmt.Printf("  Type:            %s\n", deal.Type)
	fmt.Printf("  Sale price:      %s\n", deal.SalePrice.StringFixed(2))
	fmt.Printf("  Rebates:         %s\n", deal.Rebates.StringFixed(2))
	fmt.Printf("  Sales tax:       %s\n", deal.SalesTax.StringFixed(2))
	fmt.Printf("  Fees:            doc %s  title %s  reg %s\n",
		deal.DocFee.StringFixed(2), deal.TitleFee.StringFixed(2), deal.RegistrationFee.StringFixed(2))
	if !deal.TradeAllowance.IsZero() || !deal.TradePayoff.IsZero() {
		fmt.Printf("  Trade:           allowance %s  payoff %s  equity %s\n",
			deal.TradeAllowance.StringFixed(2), deal.TradePayoff.StringFixed(2), deal.TradeEquity.StringFixed(2))
	}
	for _, p := range deal.Products {
		fmt.Printf("  Product:         %s %s\n", p.Name, p.RetailPrice.StringFixed(2))
	}
	fmt.Printf("  Total down:      %s\n", deal.TotalDown.StringFixed(2))
	fmt.Printf("  Amount financed: %s\n", deal.AmountFinanced.StringFixed(2))
	if deal.Type == model.DealTypeFinanced {
		fmt.Printf("  Payment:         %s x %d at %s%% APR\n",
			deal.MonthlyPayment.StringFixed(2), deal.TermMonths, deal.APR.String())
		fmt.Printf("  Finance charge:  %s\n", deal.FinanceCharge.StringFixed(2))
	}
	if deal.Gross != nil {
		fmt.Printf("  Gross:           front %s  reserve %s  product %s  pack %s  net %s\n",
			deal.Gross.FrontEndGross.StringFixed(2), deal.Gross.FinanceReserve.StringFixed(2),
			deal.Gross.ProductGross.StringFixed(2), deal.Gross.PackCost.StringFixed(2),
			deal.Gross.NetGross.StringFixed(2))
	}
}
