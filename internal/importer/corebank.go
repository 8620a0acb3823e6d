package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/credit360-dev/credit360/internal/model"
)

// CoreBankingParser parses the core banking system's event export CSV.
type CoreBankingParser struct{}

const (
	cbDateFormat  = "2006-01-02"
	cbNumFields   = 7
	cbColDate     = 0
	cbColKind     = 1
	cbColRef      = 2
	cbColCustomer = 3
	cbColAmount   = 4
	cbColInterest = 5
	cbColDesc     = 6
)

// Format returns the parser name.
func (p *CoreBankingParser) Format() string { return "corebank" }

// Parse reads a core banking export and returns LoanEvents.
func (p *CoreBankingParser) Parse(r io.Reader) ([]model.LoanEvent, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = cbNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading corebank CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var events []model.LoanEvent
	for i, rec := range records[1:] {
		ev, err := parseCoreBankingRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseCoreBankingRow(rec []string) (model.LoanEvent, error) {
	date, err := time.Parse(cbDateFormat, rec[cbColDate])
	if err != nil {
		return model.LoanEvent{}, fmt.Errorf("parsing date %q: %w", rec[cbColDate], err)
	}

	kind := model.EventKind(rec[cbColKind])
	switch kind {
	case model.EventLoanDisbursement, model.EventLoanRepayment,
		model.EventSavingsDeposit, model.EventSavingsWithdrawal:
	default:
		return model.LoanEvent{}, fmt.Errorf("unknown event kind %q", rec[cbColKind])
	}

	if rec[cbColRef] == "" {
		return model.LoanEvent{}, fmt.Errorf("empty event reference")
	}

	amount, err := decimal.NewFromString(rec[cbColAmount])
	if err != nil {
		return model.LoanEvent{}, fmt.Errorf("parsing amount %q: %w", rec[cbColAmount], err)
	}

	interest := decimal.Zero
	if rec[cbColInterest] != "" {
		interest, err = decimal.NewFromString(rec[cbColInterest])
		if err != nil {
			return model.LoanEvent{}, fmt.Errorf("parsing interest %q: %w", rec[cbColInterest], err)
		}
	}

	return model.LoanEvent{
		Date:        date,
		Kind:        kind,
		Reference:   rec[cbColRef],
		CustomerID:  rec[cbColCustomer],
		Amount:      amount,
		Interest:    interest,
		Description: rec[cbColDesc],
	}, nil
}
