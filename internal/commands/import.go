package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dealdesk-dev/dealdesk/internal/dealnum"
	"github.com/dealdesk-dev/dealdesk/internal/importer"
)

func newImportCommand() *cobra.Command {
	var format string
	var repoDir string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import deal worksheets from the import directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(repoDir)
			if err != nil {
				return err
			}

			parser := importer.DefaultRegistry().Get(format)
			if parser == nil {
				return fmt.Errorf("unknown import format %q", format)
			}

			return runImport(ws, parser)
		},
	}

	cmd.Flags().StringVar(&format, "format", "worksheet", "worksheet format")
	cmd.Flags().StringVar(&repoDir, "repo", ".", "books repository directory")
	return cmd
}

func runImport(ws *workspace, parser importer.Parser) error {
	files, err := importer.Scan(ws.root)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("Nothing to import")
		return nil
	}

	for _, file := range files {
		f, err := os.Open(file.Path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", file.Name, err)
		}
		deals, err := parser.Parse(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("parsing %s: %w", file.Name, err)
		}

		for _, deal := range deals {
			deal.Number = dealnum.NewDealNumber(time.Now())
			if deal.DocFee.IsZero() {
				deal.DocFee = ws.cfg.DefaultDocFee()
			}
			if deal.TermMonths == 0 && ws.cfg.Desking.DefaultTermMonths > 0 {
				deal.TermMonths = ws.cfg.Desking.DefaultTermMonths
			}

			deal, warnings, err := ws.composer.Recompute(deal)
			if err != nil {
				return fmt.Errorf("%s: deal for %s: %w", file.Name, deal.BuyerName, err)
			}
			if err := ws.deals.Save(deal); err != nil {
				return fmt.Errorf("saving deal %s: %w", deal.Number, err)
			}
			for _, w := range warnings {
				fmt.Printf("warning: %s: %s: %s\n", deal.Number, w.Field, w.Message)
			}
			ws.logActivity("import", deal.Number, "", "", file.Name)
			fmt.Printf("Imported deal %s for %s\n", deal.Number, deal.BuyerName)
		}

		if err := importer.MarkProcessed(ws.root, file.Name); err != nil {
			return err
		}
		fmt.Printf("Processed %s (%d deals)\n", file.Name, len(deals))
	}
	return nil
}
