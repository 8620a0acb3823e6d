package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/credit360-dev/credit360/internal/accounts"
	"github.com/credit360-dev/credit360/internal/config"
)

func newInitCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new report workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, name)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "institution name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// sampleSheets is the starter report schema: a balance sheet summary and an
// agent-banking sheet that independently reports deposits.
const sampleSheets = `sheets:
  - name: agent
    cells:
      - id: deposits
      - id: float
  - name: bs
    cells:
      - id: total_assets
        formula: cash + loan_portfolio
      - id: cash
      - id: loan_portfolio
      - id: deposits
  - name: geo
    cells:
      - id: central_balance
      - id: coast_balance
      - id: grand_balance
        formula: central_balance + coast_balance
`

// sampleDistribution is the starter geographic distribution report: regional
// entries rolled up into zones and a grand total that checks can seed into
// the geo sheet.
const sampleDistribution = `fields: [balance]
entries:
  - group: nairobi
    values:
      balance: "0.00"
  - group: mombasa
    values:
      balance: "0.00"
groups:
  - name: central
    keys: [nairobi]
  - name: coast
    keys: [mombasa]
  - name: grand
    members: [central, coast]
`

const sampleRules = `rules:
  - id: deposits-match
    left: bs!deposits
    right: agent!deposits
    description: balance sheet deposits vs agent banking deposits
`

func runInit(dir, name string) error {
	// Create directory structure.
	dirs := []string{
		"accounts",
		"reports",
		"ledger",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write credit360.yaml.
	cfg := config.Default(name)
	if err := config.Save(filepath.Join(dir, "credit360.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write chart of accounts.
	svc := accounts.NewService(accounts.DefaultChart())
	if err := svc.Save(dir); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}

	// Write starter report schemas and rule set.
	if err := os.WriteFile(filepath.Join(dir, cfg.Reports.SchemaFile), []byte(sampleSheets), 0o644); err != nil {
		return fmt.Errorf("writing sheet schemas: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, cfg.Reports.RulesFile), []byte(sampleRules), 0o644); err != nil {
		return fmt.Errorf("writing rule set: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, cfg.Reports.DistributionFile), []byte(sampleDistribution), 0o644); err != nil {
		return fmt.Errorf("writing distribution report: %w", err)
	}

	// Write import/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	fmt.Printf("Initialized workspace for %s at %s\n", name, dir)
	return nil
}
