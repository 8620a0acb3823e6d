package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/credit360-dev/credit360/internal/model"
)

// Header is the CSV header for chart-of-accounts.csv.
const Header = "code,name,type,active,description"

const (
	numFields = 5
	colCode   = 0
	colName   = 1
	colType   = 2
	colActive = 3
	colDesc   = 4
)

// ReadAccounts reads all accounts from a chart-of-accounts.csv reader.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var accts []model.Account
	for i, rec := range records[1:] {
		a, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accts = append(accts, a)
	}
	return accts, nil
}

// WriteAccounts writes accounts to a chart-of-accounts.csv writer (including header).
func WriteAccounts(w io.Writer, accts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, a := range accts {
		if err := cw.Write(MarshalAccount(a)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row ([]string).
func MarshalAccount(a model.Account) []string {
	row := make([]string, numFields)
	row[colCode] = a.Code
	row[colName] = a.Name
	row[colType] = string(a.Type)
	row[colActive] = strconv.FormatBool(a.Active)
	row[colDesc] = a.Description
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(rec []string) (model.Account, error) {
	if len(rec) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(rec))
	}

	if rec[colCode] == "" {
		return model.Account{}, fmt.Errorf("empty account code")
	}

	accountType := model.AccountType(rec[colType])
	switch accountType {
	case model.AccountTypeAsset, model.AccountTypeLiability, model.AccountTypeEquity,
		model.AccountTypeRevenue, model.AccountTypeExpense:
	default:
		return model.Account{}, fmt.Errorf("unknown account type %q", rec[colType])
	}

	active, err := strconv.ParseBool(rec[colActive])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing active flag %q: %w", rec[colActive], err)
	}

	return model.Account{
		Code:        rec[colCode],
		Name:        rec[colName],
		Type:        accountType,
		Active:      active,
		Description: rec[colDesc],
	}, nil
}
