package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level credit360.yaml configuration.
type Config struct {
	Institution InstitutionConfig `yaml:"institution"`
	Reports     ReportsConfig     `yaml:"reports"`
	Ledger      LedgerConfig      `yaml:"ledger"`
	Fetch       FetchConfig       `yaml:"fetch"`
}

// InstitutionConfig identifies the reporting institution.
type InstitutionConfig struct {
	Name    string `yaml:"name"`
	License string `yaml:"license,omitempty"`
}

// ReportsConfig locates the sheet schemas and validation rule set for a
// report session.
type ReportsConfig struct {
	SchemaFile       string `yaml:"schema_file"`
	RulesFile        string `yaml:"rules_file"`
	DistributionFile string `yaml:"distribution_file,omitempty"`
	Tolerance        string `yaml:"tolerance"` // default comparison tolerance
}

// LedgerConfig maps core-banking events to chart-of-accounts codes.
type LedgerConfig struct {
	CashAccount           string `yaml:"cash_account"`
	LoanPortfolioAccount  string `yaml:"loan_portfolio_account"`
	SavingsAccount        string `yaml:"savings_account"`
	InterestIncomeAccount string `yaml:"interest_income_account"`
}

// FetchConfig controls the leaf-value cache.
type FetchConfig struct {
	TTLSeconds int `yaml:"ttl_seconds"`
}

// Load reads a credit360.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default(institutionName string) *Config {
	return &Config{
		Institution: InstitutionConfig{
			Name: institutionName,
		},
		Reports: ReportsConfig{
			SchemaFile:       "reports/sheets.yaml",
			RulesFile:        "reports/rules.yaml",
			DistributionFile: "reports/distribution.yaml",
			Tolerance:        "0.01",
		},
		Ledger: LedgerConfig{
			CashAccount:           "1010",
			LoanPortfolioAccount:  "1100",
			SavingsAccount:        "2010",
			InterestIncomeAccount: "4010",
		},
		Fetch: FetchConfig{
			TTLSeconds: 300,
		},
	}
}
