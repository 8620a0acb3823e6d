package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/credit360-dev/credit360/internal/model"
)

// JournalHeader is the CSV header for journal.csv (one row per line of an
// entry; entry metadata repeats on each of its rows).
const JournalHeader = "entry_id,entry_number,date,reference,description,account_code,debit,credit,line_description,status,reverses"

// LedgerHeader is the CSV header for ledger.csv.
const LedgerHeader = "account_code,date,entry_id,entry_number,debit,credit,running_balance"

const dateFormat = "2006-01-02"

const (
	journalNumFields = 11
	colJEntryID      = 0
	colJNumber       = 1
	colJDate         = 2
	colJReference    = 3
	colJDescription  = 4
	colJAccount      = 5
	colJDebit        = 6
	colJCredit       = 7
	colJLineDesc     = 8
	colJStatus       = 9
	colJReverses     = 10
)

const (
	ledgerNumFields = 7
	colLAccount     = 0
	colLDate        = 1
	colLEntryID     = 2
	colLNumber      = 3
	colLDebit       = 4
	colLCredit      = 5
	colLBalance     = 6
)

// journalRow is one flattened (entry, line) pair as stored in journal.csv.
type journalRow struct {
	EntryID     uuid.UUID
	EntryNumber string
	Date        time.Time
	Reference   string
	Description string
	Status      model.EntryStatus
	Reverses    string
	Line        model.JournalLine
}

func marshalJournalRow(row journalRow) []string {
	rec := make([]string, journalNumFields)
	rec[colJEntryID] = row.EntryID.String()
	rec[colJNumber] = row.EntryNumber
	rec[colJDate] = row.Date.Format(dateFormat)
	rec[colJReference] = row.Reference
	rec[colJDescription] = row.Description
	rec[colJAccount] = row.Line.AccountCode
	if !row.Line.Debit.IsZero() {
		rec[colJDebit] = row.Line.Debit.StringFixed(2)
	}
	if !row.Line.Credit.IsZero() {
		rec[colJCredit] = row.Line.Credit.StringFixed(2)
	}
	rec[colJLineDesc] = row.Line.Description
	rec[colJStatus] = string(row.Status)
	rec[colJReverses] = row.Reverses
	return rec
}

func unmarshalJournalRow(rec []string) (journalRow, error) {
	if len(rec) != journalNumFields {
		return journalRow{}, fmt.Errorf("expected %d fields, got %d", journalNumFields, len(rec))
	}

	entryID, err := uuid.Parse(rec[colJEntryID])
	if err != nil {
		return journalRow{}, fmt.Errorf("parsing entry ID %q: %w", rec[colJEntryID], err)
	}

	date, err := time.Parse(dateFormat, rec[colJDate])
	if err != nil {
		return journalRow{}, fmt.Errorf("parsing date %q: %w", rec[colJDate], err)
	}

	debit, err := parseAmount(rec[colJDebit])
	if err != nil {
		return journalRow{}, fmt.Errorf("parsing debit: %w", err)
	}
	credit, err := parseAmount(rec[colJCredit])
	if err != nil {
		return journalRow{}, fmt.Errorf("parsing credit: %w", err)
	}

	return journalRow{
		EntryID:     entryID,
		EntryNumber: rec[colJNumber],
		Date:        date,
		Reference:   rec[colJReference],
		Description: rec[colJDescription],
		Status:      model.EntryStatus(rec[colJStatus]),
		Reverses:    rec[colJReverses],
		Line: model.JournalLine{
			AccountCode: rec[colJAccount],
			Debit:       debit,
			Credit:      credit,
			Description: rec[colJLineDesc],
		},
	}, nil
}

func marshalLedgerRecord(r model.LedgerRecord) []string {
	rec := make([]string, ledgerNumFields)
	rec[colLAccount] = r.AccountCode
	rec[colLDate] = r.Date.Format(dateFormat)
	rec[colLEntryID] = r.EntryID.String()
	rec[colLNumber] = r.EntryNumber
	if !r.Debit.IsZero() {
		rec[colLDebit] = r.Debit.StringFixed(2)
	}
	if !r.Credit.IsZero() {
		rec[colLCredit] = r.Credit.StringFixed(2)
	}
	rec[colLBalance] = r.RunningBalance.StringFixed(2)
	return rec
}

func unmarshalLedgerRecord(rec []string) (model.LedgerRecord, error) {
	if len(rec) != ledgerNumFields {
		return model.LedgerRecord{}, fmt.Errorf("expected %d fields, got %d", ledgerNumFields, len(rec))
	}

	date, err := time.Parse(dateFormat, rec[colLDate])
	if err != nil {
		return model.LedgerRecord{}, fmt.Errorf("parsing date %q: %w", rec[colLDate], err)
	}

	entryID, err := uuid.Parse(rec[colLEntryID])
	if err != nil {
		return model.LedgerRecord{}, fmt.Errorf("parsing entry ID %q: %w", rec[colLEntryID], err)
	}

	debit, err := parseAmount(rec[colLDebit])
	if err != nil {
		return model.LedgerRecord{}, fmt.Errorf("parsing debit: %w", err)
	}
	credit, err := parseAmount(rec[colLCredit])
	if err != nil {
		return model.LedgerRecord{}, fmt.Errorf("parsing credit: %w", err)
	}
	balance, err := decimal.NewFromString(rec[colLBalance])
	if err != nil {
		return model.LedgerRecord{}, fmt.Errorf("parsing running balance %q: %w", rec[colLBalance], err)
	}

	return model.LedgerRecord{
		AccountCode:    rec[colLAccount],
		Date:           date,
		EntryID:        entryID,
		EntryNumber:    rec[colLNumber],
		Debit:          debit,
		Credit:         credit,
		RunningBalance: balance,
	}, nil
}

// parseAmount parses a decimal field, treating the empty string as zero.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

func readJournalRows(r io.Reader) ([]journalRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = journalNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var rows []journalRow
	for i, rec := range records[1:] {
		row, err := unmarshalJournalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readLedgerRecords(r io.Reader) ([]model.LedgerRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = ledgerNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var out []model.LedgerRecord
	for i, rec := range records[1:] {
		lr, err := unmarshalLedgerRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, lr)
	}
	return out, nil
}

func appendCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return cw.Error()
}

func writeHeader(w io.Writer, header string) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	if err := cw.Write(strings.Split(header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	return cw.Error()
}
