package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credit360.yaml")

	cfg := Default("Umoja Microfinance")
	cfg.Institution.License = "MFB-2231"
	cfg.Fetch.TTLSeconds = 60

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default("Umoja Microfinance")
	assert.Equal(t, "Umoja Microfinance", cfg.Institution.Name)
	assert.Equal(t, "0.01", cfg.Reports.Tolerance)
	assert.Equal(t, "1100", cfg.Ledger.LoanPortfolioAccount)
	assert.Equal(t, 300, cfg.Fetch.TTLSeconds)
}
