package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credit360-dev/credit360/internal/ledger"
	"github.com/credit360-dev/credit360/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

type chartStub struct{}

func (chartStub) Exists(code string) bool {
	switch code {
	case "1010", "1100", "2010", "4010":
		return true
	}
	return false
}

var testAccounts = AccountMap{
	Cash:           "1010",
	LoanPortfolio:  "1100",
	Savings:        "2010",
	InterestIncome: "4010",
}

const sampleExport = `date,kind,reference,customer_id,amount,interest,description
2025-03-01,loan_disbursement,TXN-1001,CUST-42,500000.00,,working capital loan
2025-03-05,loan_repayment,TXN-1002,CUST-42,100000.00,8000.00,
2025-03-06,savings_deposit,TXN-1003,CUST-77,25000.00,,
`

func TestCoreBankingParser(t *testing.T) {
	p := &CoreBankingParser{}
	events, err := p.Parse(strings.NewReader(sampleExport))
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, model.EventLoanDisbursement, events[0].Kind)
	assert.Equal(t, "TXN-1001", events[0].Reference)
	assert.True(t, events[0].Amount.Equal(dec("500000.00")))
	assert.True(t, events[0].Interest.IsZero())

	assert.Equal(t, model.EventLoanRepayment, events[1].Kind)
	assert.True(t, events[1].Interest.Equal(dec("8000.00")))
}

func TestCoreBankingParser_Invalid(t *testing.T) {
	p := &CoreBankingParser{}

	for name, row := range map[string]string{
		"bad kind":  "2025-03-01,loan_writeoff,TXN-1,C,100.00,,",
		"bad date":  "03/01/2025,loan_disbursement,TXN-1,C,100.00,,",
		"no ref":    "2025-03-01,loan_disbursement,,C,100.00,,",
		"bad value": "2025-03-01,loan_disbursement,TXN-1,C,abc,,",
	} {
		input := "date,kind,reference,customer_id,amount,interest,description\n" + row + "\n"
		_, err := p.Parse(strings.NewReader(input))
		assert.Error(t, err, name)
	}
}

func TestPostEvents(t *testing.T) {
	svc := ledger.NewService(ledger.NewStore(t.TempDir()), chartStub{})

	p := &CoreBankingParser{}
	events, err := p.Parse(strings.NewReader(sampleExport))
	require.NoError(t, err)

	res, err := PostEvents(svc, testAccounts, events)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Posted)
	assert.Equal(t, 0, res.Skipped)

	// Disbursement 500000 out, repayment 100000 principal back.
	portfolio := svc.RunningBalance("1100", date(2025, 3, 31))
	assert.True(t, portfolio.Equal(dec("400000")), "portfolio = %s", portfolio)

	// Cash: -500000 + 108000 + 25000.
	cash := svc.RunningBalance("1010", date(2025, 3, 31))
	assert.True(t, cash.Equal(dec("-367000")), "cash = %s", cash)

	// Interest income credited.
	assert.True(t, svc.RunningBalance("4010", date(2025, 3, 31)).Equal(dec("-8000")))

	// Loan and savings events draw from separate number sequences.
	_, ok := svc.Entry("LN-001")
	assert.True(t, ok)
	_, ok = svc.Entry("SAV-001")
	assert.True(t, ok)
}

func TestPostEvents_Idempotent(t *testing.T) {
	svc := ledger.NewService(ledger.NewStore(t.TempDir()), chartStub{})

	p := &CoreBankingParser{}
	events, err := p.Parse(strings.NewReader(sampleExport))
	require.NoError(t, err)

	_, err = PostEvents(svc, testAccounts, events)
	require.NoError(t, err)

	res, err := PostEvents(svc, testAccounts, events)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Posted)
	assert.Equal(t, 3, res.Skipped)
	assert.Len(t, svc.Entries(), 3)
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("corebank"))
	assert.NotNil(t, r.Get("COREBANK"))
	assert.Nil(t, r.Get("chase"))

	assert.Panics(t, func() { r.Register(&CoreBankingParser{}) })
}

func TestScanAndMarkProcessed(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "import"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "import", "march.csv"), []byte(sampleExport), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "import", "notes.txt"), []byte("skip"), 0o644))

	files, err := Scan(root)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "march.csv", files[0].Name)

	require.NoError(t, MarkProcessed(root, "march.csv"))

	files, err = Scan(root)
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = os.Stat(filepath.Join(root, "import", "processed", "march.csv"))
	assert.NoError(t, err)
}

func TestScan_NoImportDir(t *testing.T) {
	files, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, files)
}
