package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dealdesk-dev/dealdesk/internal/journal"
	"github.com/dealdesk-dev/dealdesk/internal/lifecycle"
	"github.com/dealdesk-dev/dealdesk/internal/model"
)

func newDealSubmitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "submit <deal-number>",
		Short: "Submit a deal for credit approval",
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
			deal, err = ws.machine.SubmitForCredit(deal)
			if err != nil {
				return err
			}
			return saveTransition(ws, deal, "submit", "", "")
		},
	}
}

func newDealApproveCommand() *cobra.Command {
	var reference string

	cmd := &cobra.Command{
		Use:   "approve <deal-number>",
		Short: "Record a credit approval",
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
			deal, err = ws.machine.Approve(deal, lifecycle.Approval{Approved: true, Reference: reference})
			if err != nil {
				return err
			}
			return saveTransition(ws, deal, "approve", "", reference)
		},
	}

	cmd.Flags().StringVar(&reference, "reference", "", "lender approval reference")
	return cmd
}

func newDealCancelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <deal-number>",
		Short: "Cancel a deal",
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
			deal, err = ws.machine.Cancel(deal)
			if err != nil {
				return err
			}
			return saveTransition(ws, deal, "cancel", "", "")
		},
	}
}

func newDealFinalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "finalize <deal-number>",
		Short: "Finalize a deal and post its journal entry",
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
			return runFinalize(ws, deal)
		},
	}
}

func runFinalize(ws *workspace, deal model.Deal) error {
	result, err := ws.machine.Finalize(deal)
	if err != nil {
		return err
	}

	// Post the journal entry first. If posting fails the deal file is
	// untouched and the deal is still approved.
	entry, err := ws.journal.Post(result.Entry)
	if err != nil {
		return fmt.Errorf("posting journal entry: %w", err)
	}

	if err := ws.deals.Save(result.Deal); err != nil {
		return fmt.Errorf("saving deal: %w", err)
	}

	hash, err := ws.autoCommit(fmt.Sprintf("finalize: Deal %s entry %s", result.Deal.Number, entry.Number))
	if err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	ws.logActivity("finalize", result.Deal.Number, entry.Number, hash,
		fmt.Sprintf("net gross %s", result.Gross.NetGross.StringFixed(2)))

	fmt.Printf("Finalized deal %s\n", result.Deal.Number)
	fmt.Printf("  Journal entry:  %s (%d lines, %s debits)\n",
		entry.Number, len(entry.Lines), entry.TotalDebits().StringFixed(2))
	fmt.Printf("  Net gross:      %s\n", result.Gross.NetGross.StringFixed(2))
	return nil
}

func newDealFundCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fund <deal-number>",
		Short: "Mark a finalized deal as funded",
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

			lines, err := ws.journal.ReadDeal(deal.Number)
			if err != nil {
				return err
			}
			entries := journal.EntriesFromLines(lines)
			if len(entries) == 0 {
				return fmt.Errorf("no journal entry posted for deal %s", deal.Number)
			}

			deal, err = ws.machine.Fund(deal, entries[0])
			if err != nil {
				return err
			}
			return saveTransition(ws, deal, "fund", entries[0].Number, "")
		},
	}
}

// saveTransition persists a transitioned deal and records the action.
func saveTransition(ws *workspace, deal model.Deal, action, entryNumber, details string) error {
	deal.Updated = time.Now()
	if err := ws.deals.Save(deal); err != nil {
		return fmt.Errorf("saving deal: %w", err)
	}

	hash, err := ws.autoCommit(fmt.Sprintf("%s: Deal %s", action, deal.Number))
	if err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	ws.logActivity(action, deal.Number, entryNumber, hash, details)
	fmt.Printf("Deal %s is now %s\n", deal.Number, deal.Status)
	return nil
}
