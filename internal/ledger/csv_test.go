package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credit360-dev/credit360/internal/model"
)

func TestStore_AppendAndLoad(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	entry := model.JournalEntry{
		ID:          uuid.New(),
		EntryNumber: "LN-001",
		Date:        date(2025, 3, 1),
		Reference:   "loan-445",
		Description: "loan disbursement",
		Status:      model.StatusPosted,
		Lines: []model.JournalLine{
			{AccountCode: "1100", Debit: dec("500000.00"), Description: "principal"},
			{AccountCode: "1010", Credit: dec("500000.00")},
		},
	}
	records := []model.LedgerRecord{
		{AccountCode: "1100", Date: entry.Date, EntryID: entry.ID, EntryNumber: "LN-001", Debit: dec("500000.00"), RunningBalance: dec("500000.00")},
		{AccountCode: "1010", Date: entry.Date, EntryID: entry.ID, EntryNumber: "LN-001", Credit: dec("500000.00"), RunningBalance: dec("-500000.00")},
	}
	require.NoError(t, store.Append(entry, records))

	// Files exist with headers.
	data, err := os.ReadFile(filepath.Join(dir, "ledger", "journal.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "entry_number")
	assert.Contains(t, string(data), "LN-001")

	entries, loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Len(t, loaded, 2)

	got := entries[0]
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, entry.Reference, got.Reference)
	require.Len(t, got.Lines, 2)
	assert.True(t, got.Lines[0].Debit.Equal(dec("500000.00")))
	assert.Equal(t, "principal", got.Lines[0].Description)

	assert.True(t, loaded[1].RunningBalance.Equal(dec("-500000.00")))
}

func TestStore_LoadMissingFiles(t *testing.T) {
	store := NewStore(t.TempDir())
	entries, records, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, entries)
	assert.Nil(t, records)
}

func TestJournalRow_RoundTrip(t *testing.T) {
	row := journalRow{
		EntryID:     uuid.New(),
		EntryNumber: "REV-002",
		Date:        date(2025, 4, 15),
		Reference:   "LN-001",
		Description: "correction",
		Status:      model.StatusPosted,
		Reverses:    "LN-001",
		Line:        model.JournalLine{AccountCode: "1010", Credit: dec("42.50")},
	}

	got, err := unmarshalJournalRow(marshalJournalRow(row))
	require.NoError(t, err)
	assert.Equal(t, row.EntryID, got.EntryID)
	assert.Equal(t, row.Reverses, got.Reverses)
	assert.True(t, got.Line.Credit.Equal(dec("42.50")))
	assert.True(t, got.Line.Debit.IsZero())
}

func TestUnmarshalJournalRow_Invalid(t *testing.T) {
	_, err := unmarshalJournalRow([]string{"too", "short"})
	assert.Error(t, err)

	rec := marshalJournalRow(journalRow{
		EntryID: uuid.New(), EntryNumber: "LN-001", Date: date(2025, 1, 1),
		Line: model.JournalLine{AccountCode: "1010", Debit: dec("1.00")},
	})
	rec[colJDate] = "01/02/2025"
	_, err = unmarshalJournalRow(rec)
	assert.ErrorContains(t, err, "parsing date")
}
