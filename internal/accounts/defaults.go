package accounts

import "github.com/credit360-dev/credit360/internal/model"

// DefaultChart returns the standard chart of accounts for a microfinance
// institution, used by `credit360 init`.
func DefaultChart() []model.Account {
	return []model.Account{
		{Code: "1010", Name: "Cash on Hand", Type: model.AccountTypeAsset, Active: true},
		{Code: "1020", Name: "Bank Balances", Type: model.AccountTypeAsset, Active: true},
		{Code: "1100", Name: "Loan Portfolio", Type: model.AccountTypeAsset, Active: true, Description: "Outstanding principal on customer loans"},
		{Code: "1110", Name: "Interest Receivable", Type: model.AccountTypeAsset, Active: true},
		{Code: "1200", Name: "Agent Banking Float", Type: model.AccountTypeAsset, Active: true},
		{Code: "2010", Name: "Customer Savings", Type: model.AccountTypeLiability, Active: true, Description: "Savings account balances owed to customers"},
		{Code: "2020", Name: "Fixed Deposits", Type: model.AccountTypeLiability, Active: true},
		{Code: "2100", Name: "Loan Loss Provision", Type: model.AccountTypeLiability, Active: true},
		{Code: "3010", Name: "Share Capital", Type: model.AccountTypeEquity, Active: true},
		{Code: "3020", Name: "Retained Earnings", Type: model.AccountTypeEquity, Active: true},
		{Code: "4010", Name: "Interest Income", Type: model.AccountTypeRevenue, Active: true},
		{Code: "4020", Name: "Fee Income", Type: model.AccountTypeRevenue, Active: true},
		{Code: "5010", Name: "Interest Expense", Type: model.AccountTypeExpense, Active: true},
		{Code: "5020", Name: "Operating Expenses", Type: model.AccountTypeExpense, Active: true},
		{Code: "5030", Name: "Provision Expense", Type: model.AccountTypeExpense, Active: true},
	}
}
