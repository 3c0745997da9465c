package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dealdesk-dev/dealdesk/internal/ledger"
)

func newTrialBalanceCommand() *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Print a trial balance over all posted journals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(repoDir)
			if err != nil {
				return err
			}

			lines, err := ws.journal.ReadAll()
			if err != nil {
				return err
			}

			tb := ledger.BuildTrialBalance(lines, ws.chart)
			printTrialBalance(tb)

			if !tb.Balanced() {
				return fmt.Errorf("books out of balance: debits %s, credits %s",
					tb.TotalDebits.StringFixed(2), tb.TotalCredits.StringFixed(2))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "books repository directory")
	return cmd
}

func printTrialBalance(tb ledger.TrialBalance) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ACCOUNT\tNAME\tDEBITS\tCREDITS\tBALANCE")
	for _, group := range tb.Groups {
		for _, row := range group.Rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				row.Code, row.Name,
				row.Debits.StringFixed(2), row.Credits.StringFixed(2),
				row.Balance.StringFixed(2))
		}
		fmt.Fprintf(w, "\t%s total\t\t\t%s\n", group.Type, group.Total.StringFixed(2))
	}
	fmt.Fprintf(w, "\tTOTAL\t%s\t%s\t\n", tb.TotalDebits.StringFixed(2), tb.TotalCredits.StringFixed(2))
	w.Flush()
}
