package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/credit360-dev/credit360/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "credit360",
		Short:   "Microfinance regulatory reporting and ledger toolkit",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newPostCommand())
	rootCmd.AddCommand(newBalanceCommand())

	return rootCmd
}
