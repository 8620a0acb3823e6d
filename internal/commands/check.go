package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/credit360-dev/credit360/internal/fetch"
	"github.com/credit360-dev/credit360/internal/model"
	"github.com/credit360-dev/credit360/internal/rollup"
	"github.com/credit360-dev/credit360/internal/rules"
	"github.com/credit360-dev/credit360/internal/sheet"
)

func newCheckCommand() *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "check [directory]",
		Short: "Evaluate all cross-report validation rules",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			asOfDate := time.Now()
			if asOf != "" {
				var err error
				asOfDate, err = time.Parse("2006-01-02", asOf)
				if err != nil {
					return fmt.Errorf("parsing --as-of: %w", err)
				}
			}

			return runCheck(cmd, dir, asOfDate)
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "report date (YYYY-MM-DD, default today)")

	return cmd
}

func runCheck(cmd *cobra.Command, dir string, asOf time.Time) error {
	ws, err := openWorkspace(dir)
	if err != nil {
		return err
	}

	book, reg, err := buildReportSession(ws)
	if err != nil {
		return err
	}

	// Seed leaves from the workspace input file, through the caching fetch
	// service so repeated checks inside the TTL reuse one read.
	src := newFileSource(filepath.Join(ws.root, "reports", "values.yaml"))
	svc := fetch.NewService(src, time.Duration(ws.cfg.Fetch.TTLSeconds)*time.Second)
	snap, err := svc.Apply(context.Background(), book)
	if err != nil {
		return err
	}
	if snap.Stale {
		fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", snap.Warning)
	}

	// Cells on the "ledger" sheet named by account code read the account's
	// running balance as of the report date.
	if err := seedLedgerLeaves(ws, book, asOf); err != nil {
		return err
	}

	// Group totals from the geographic distribution report feed "geo" sheet
	// cells, so rules can reconcile them against other reports.
	if err := seedRollupLeaves(ws, book); err != nil {
		return err
	}

	results, err := reg.EvaluateAll()
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Passed {
			fmt.Fprintf(cmd.OutOrStdout(), "PASS %s (%s == %s within tolerance)\n",
				res.RuleID, res.Expected.StringFixed(2), res.Actual.StringFixed(2))
			continue
		}
		failed++
		fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %s\n", res.RuleID, res.Error)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d validation rules failed", failed, len(results))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d validation rules passed\n", len(results))
	return nil
}

// buildReportSession defines the workspace's sheets and registers its rules.
func buildReportSession(ws *workspace) (*sheet.Book, *rules.Registry, error) {
	schemas, err := sheet.LoadSchemas(filepath.Join(ws.root, ws.cfg.Reports.SchemaFile))
	if err != nil {
		return nil, nil, err
	}

	book := sheet.NewBook()
	for _, schema := range schemas {
		if err := book.DefineSheet(schema); err != nil {
			return nil, nil, fmt.Errorf("defining sheet %q: %w", schema.Name, err)
		}
	}

	ruleSet, err := rules.LoadRules(filepath.Join(ws.root, ws.cfg.Reports.RulesFile))
	if err != nil {
		return nil, nil, err
	}

	var defaultTol *decimal.Decimal
	if ws.cfg.Reports.Tolerance != "" {
		tol, err := decimal.NewFromString(ws.cfg.Reports.Tolerance)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing tolerance %q: %w", ws.cfg.Reports.Tolerance, err)
		}
		defaultTol = &tol
	}

	reg := rules.NewRegistry(book)
	for _, rule := range ruleSet {
		// Rules without their own tolerance inherit the workspace default;
		// an explicit per-rule value, including zero, wins.
		if rule.Tolerance == nil {
			rule.Tolerance = defaultTol
		}
		if err := reg.Register(rule); err != nil {
			return nil, nil, err
		}
	}
	return book, reg, nil
}

// seedLedgerLeaves writes running balances into any "ledger" sheet cells
// named by account code.
func seedLedgerLeaves(ws *workspace, book *sheet.Book, asOf time.Time) error {
	values := make(map[model.CellRef]decimal.Decimal)
	for _, a := range ws.chart.All() {
		ref := model.CellRef{Sheet: "ledger", Cell: a.Code}
		if book.HasCell(ref) {
			values[ref] = ws.ledger.RunningBalance(a.Code, asOf)
		}
	}
	if len(values) == 0 {
		return nil
	}
	return book.SetLeaves(values)
}

// seedRollupLeaves computes the workspace's distribution rollup and writes
// each group's field totals into "geo" sheet cells named <group>_<field>.
// A workspace without a distribution file skips the step.
func seedRollupLeaves(ws *workspace, book *sheet.Book) error {
	if ws.cfg.Reports.DistributionFile == "" {
		return nil
	}
	path := filepath.Join(ws.root, ws.cfg.Reports.DistributionFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	dist, err := rollup.LoadDistribution(path)
	if err != nil {
		return err
	}

	// Only leaves are seeded: a computed geo cell stays a formula over the
	// seeded base groups.
	values := make(map[model.CellRef]decimal.Decimal)
	for group, totals := range dist.Compute() {
		for field, v := range totals {
			ref := model.CellRef{Sheet: "geo", Cell: group + "_" + field}
			if book.IsLeaf(ref) {
				values[ref] = v
			}
		}
	}
	if len(values) == 0 {
		return nil
	}
	return book.SetLeaves(values)
}

// fileSource reads leaf values from reports/values.yaml. A missing file is
// an empty snapshot, not an error.
type fileSource struct {
	path string
}

func newFileSource(path string) *fileSource {
	return &fileSource{path: path}
}

type valuesFile struct {
	Values map[string]string `yaml:"values"`
}

// Fetch implements fetch.Source.
func (f *fileSource) Fetch(_ context.Context) (map[model.CellRef]decimal.Decimal, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[model.CellRef]decimal.Decimal{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading values: %w", err)
	}

	var file valuesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing values: %w", err)
	}

	out := make(map[model.CellRef]decimal.Decimal, len(file.Values))
	for key, raw := range file.Values {
		ref, err := model.ParseCellRef(key, "")
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", key, err)
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("value %q: parsing %q: %w", key, raw, err)
		}
		out[ref] = v
	}
	return out, nil
}
