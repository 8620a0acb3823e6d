package importer

import (
	"fmt"
	"time"

	"github.com/credit360-dev/credit360/internal/ledger"
	"github.com/credit360-dev/credit360/internal/model"
)

// AccountMap names the ledger accounts events post against.
type AccountMap struct {
	Cash           string
	LoanPortfolio  string
	Savings        string
	InterestIncome string
}

// Entry number prefixes per event source.
const (
	LoanPrefix    = "LN"
	SavingsPrefix = "SAV"
)

// Poster accepts journal postings. Implemented by ledger.Service.
type Poster interface {
	Post(date time.Time, prefix, reference, description string, lines []model.JournalLine) (ledger.Receipt, error)
	HasReference(reference string) bool
}

// Result summarizes one import run.
type Result struct {
	Posted  int
	Skipped int // events whose reference was already posted
}

// PostEvents maps events to balanced journal entries and posts them. Events
// whose reference already exists in the ledger are skipped, so re-importing
// a file is idempotent. The first posting failure aborts the run; already
// posted events stay posted.
func PostEvents(poster Poster, accounts AccountMap, events []model.LoanEvent) (Result, error) {
	var res Result
	for _, ev := range events {
		if poster.HasReference(ev.Reference) {
			res.Skipped++
			continue
		}

		prefix, lines, err := eventLines(accounts, ev)
		if err != nil {
			return res, fmt.Errorf("event %s: %w", ev.Reference, err)
		}

		desc := ev.Description
		if desc == "" {
			desc = fmt.Sprintf("%s %s", ev.Kind, ev.CustomerID)
		}
		if _, err := poster.Post(ev.Date, prefix, ev.Reference, desc, lines); err != nil {
			return res, fmt.Errorf("posting event %s: %w", ev.Reference, err)
		}
		res.Posted++
	}
	return res, nil
}

func eventLines(accounts AccountMap, ev model.LoanEvent) (string, []model.JournalLine, error) {
	switch ev.Kind {
	case model.EventLoanDisbursement:
		return LoanPrefix, []model.JournalLine{
			{AccountCode: accounts.LoanPortfolio, Debit: ev.Amount, Description: "principal disbursed"},
			{AccountCode: accounts.Cash, Credit: ev.Amount},
		}, nil

	case model.EventLoanRepayment:
		lines := []model.JournalLine{
			{AccountCode: accounts.Cash, Debit: ev.Amount.Add(ev.Interest)},
			{AccountCode: accounts.LoanPortfolio, Credit: ev.Amount, Description: "principal repaid"},
		}
		if !ev.Interest.IsZero() {
			lines = append(lines, model.JournalLine{
				AccountCode: accounts.InterestIncome,
				Credit:      ev.Interest,
				Description: "interest earned",
			})
		}
		return LoanPrefix, lines, nil

	case model.EventSavingsDeposit:
		return SavingsPrefix, []model.JournalLine{
			{AccountCode: accounts.Cash, Debit: ev.Amount},
			{AccountCode: accounts.Savings, Credit: ev.Amount},
		}, nil

	case model.EventSavingsWithdrawal:
		return SavingsPrefix, []model.JournalLine{
			{AccountCode: accounts.Savings, Debit: ev.Amount},
			{AccountCode: accounts.Cash, Credit: ev.Amount},
		}, nil

	default:
		return "", nil, fmt.Errorf("unknown event kind %q", ev.Kind)
	}
}
