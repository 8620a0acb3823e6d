package model

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// Account represents a row in chart-of-accounts.csv. Accounts are long-lived
// reference data: they are deactivated, never deleted, because posted ledger
// records keep referencing them.
type Account struct {
	Code        string
	Name        string
	Type        AccountType
	Active      bool
	Description string
}
