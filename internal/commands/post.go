package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/credit360-dev/credit360/internal/importer"
)

func newPostCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "post [directory]",
		Short: "Import core-banking event exports and post journal entries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runPost(cmd, dir, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "corebank", "event export format")

	return cmd
}

func runPost(cmd *cobra.Command, dir, format string) error {
	ws, err := openWorkspace(dir)
	if err != nil {
		return err
	}

	parser := importer.DefaultRegistry().Get(format)
	if parser == nil {
		return fmt.Errorf("unknown export format %q", format)
	}

	files, err := importer.Scan(ws.root)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "nothing to import")
		return nil
	}

	accountMap := importer.AccountMap{
		Cash:           ws.cfg.Ledger.CashAccount,
		LoanPortfolio:  ws.cfg.Ledger.LoanPortfolioAccount,
		Savings:        ws.cfg.Ledger.SavingsAccount,
		InterestIncome: ws.cfg.Ledger.InterestIncomeAccount,
	}

	for _, file := range files {
		f, err := os.Open(file.Path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", file.Name, err)
		}
		events, err := parser.Parse(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("parsing %s: %w", file.Name, err)
		}

		res, err := importer.PostEvents(ws.ledger, accountMap, events)
		if err != nil {
			return fmt.Errorf("importing %s: %w", file.Name, err)
		}

		if err := importer.MarkProcessed(ws.root, file.Name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: posted %d, skipped %d\n", file.Name, res.Posted, res.Skipped)
	}
	return nil
}
