package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventKind classifies core-banking events that drive ledger postings.
type EventKind string

const (
	EventLoanDisbursement  EventKind = "loan_disbursement"
	EventLoanRepayment     EventKind = "loan_repayment"
	EventSavingsDeposit    EventKind = "savings_deposit"
	EventSavingsWithdrawal EventKind = "savings_withdrawal"
)

// LoanEvent represents a parsed core-banking export row.
type LoanEvent struct {
	Date        time.Time
	Kind        EventKind
	Reference   string // core banking transaction reference, unique per event
	CustomerID  string
	Amount      decimal.Decimal // principal or deposit amount
	Interest    decimal.Decimal // interest portion of a repayment, zero otherwise
	Description string
}
