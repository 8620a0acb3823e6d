package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newBalanceCommand() *cobra.Command {
	var asOf string
	var dir string

	cmd := &cobra.Command{
		Use:   "balance <account-code>",
		Short: "Print an account's running balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asOfDate := time.Now()
			if asOf != "" {
				var err error
				asOfDate, err = time.Parse("2006-01-02", asOf)
				if err != nil {
					return fmt.Errorf("parsing --as-of: %w", err)
				}
			}
			return runBalance(cmd, dir, args[0], asOfDate)
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "balance date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "workspace directory")

	return cmd
}

func runBalance(cmd *cobra.Command, dir, code string, asOf time.Time) error {
	ws, err := openWorkspace(dir)
	if err != nil {
		return err
	}

	account, ok := ws.chart.Get(code)
	if !ok {
		return fmt.Errorf("unknown account %q", code)
	}

	balance := ws.ledger.RunningBalance(code, asOf)
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s as of %s\n",
		account.Code, account.Name, balance.StringFixed(2), asOf.Format("2006-01-02"))
	return nil
}
