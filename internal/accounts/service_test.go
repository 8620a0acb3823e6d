package accounts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credit360-dev/credit360/internal/model"
)

func testChart() []model.Account {
	return []model.Account{
		{Code: "1010", Name: "Cash on Hand", Type: model.AccountTypeAsset, Active: true},
		{Code: "1100", Name: "Loan Portfolio", Type: model.AccountTypeAsset, Active: true},
		{Code: "2010", Name: "Customer Savings", Type: model.AccountTypeLiability, Active: true},
		{Code: "9999", Name: "Legacy Suspense", Type: model.AccountTypeAsset, Active: false},
	}
}

func TestGet(t *testing.T) {
	svc := NewService(testChart())

	a, ok := svc.Get("1100")
	require.True(t, ok)
	assert.Equal(t, "Loan Portfolio", a.Name)

	_, ok = svc.Get("0000")
	assert.False(t, ok)
}

func TestExists_ActiveOnly(t *testing.T) {
	svc := NewService(testChart())

	assert.True(t, svc.Exists("1010"))
	assert.False(t, svc.Exists("9999"), "deactivated account must not accept postings")
	assert.False(t, svc.Exists("0000"))

	// Deactivated accounts stay resolvable for history display.
	_, ok := svc.Get("9999")
	assert.True(t, ok)
}

func TestDeactivate(t *testing.T) {
	svc := NewService(testChart())

	require.NoError(t, svc.Deactivate("2010"))
	assert.False(t, svc.Exists("2010"))

	assert.Error(t, svc.Deactivate("0000"))
}

func TestByType(t *testing.T) {
	svc := NewService(testChart())

	assets := svc.ByType(model.AccountTypeAsset)
	require.Len(t, assets, 2, "inactive assets excluded")
	assert.Equal(t, "1010", assets[0].Code)
	assert.Equal(t, "1100", assets[1].Code)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	svc := NewService(DefaultChart())
	require.NoError(t, svc.Save(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, svc.All(), loaded.All())
	assert.True(t, loaded.Exists("1100"))
}
