package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dealdesk-dev/dealdesk/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "dealdesk",
		Short:   "Deal structuring and double-entry accounting for a dealership",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newDealCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newTrialBalanceCommand())

	return rootCmd
}
