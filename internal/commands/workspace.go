package commands

import (
	"fmt"
	"path/filepath"

	"github.com/credit360-dev/credit360/internal/accounts"
	"github.com/credit360-dev/credit360/internal/config"
	"github.com/credit360-dev/credit360/internal/ledger"
)

// workspace bundles the services loaded from a report workspace directory.
type workspace struct {
	root   string
	cfg    *config.Config
	chart  *accounts.Service
	ledger *ledger.Service
}

// openWorkspace loads config, chart of accounts, and the ledger from a
// workspace root.
func openWorkspace(dir string) (*workspace, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, "credit360.yaml"))
	if err != nil {
		return nil, err
	}

	chart, err := accounts.Load(root)
	if err != nil {
		return nil, err
	}

	svc, err := ledger.Load(root, chart)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	return &workspace{root: root, cfg: cfg, chart: chart, ledger: svc}, nil
}
