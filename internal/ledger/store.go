package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/credit360-dev/credit360/internal/model"
)

// Store is the append-only file store for journal entries and ledger
// records. Rows are only ever appended; corrections happen through new
// reversing entries, never edits.
type Store struct {
	root string
	mu   sync.Mutex
}

// NewStore creates a Store rooted at a workspace directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

func (s *Store) journalPath() string {
	return filepath.Join(s.root, "ledger", "journal.csv")
}

func (s *Store) ledgerPath() string {
	return filepath.Join(s.root, "ledger", "ledger.csv")
}

// Append writes one posted entry and its ledger records. The journal file is
// written before the ledger file; a crash between the two is detected at
// Load time as a journal entry with no records and reported.
func (s *Store) Append(entry model.JournalEntry, records []model.LedgerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	journalRows := make([][]string, 0, len(entry.Lines))
	for _, line := range entry.Lines {
		journalRows = append(journalRows, marshalJournalRow(journalRow{
			EntryID:     entry.ID,
			EntryNumber: entry.EntryNumber,
			Date:        entry.Date,
			Reference:   entry.Reference,
			Description: entry.Description,
			Status:      entry.Status,
			Reverses:    entry.Reverses,
			Line:        line,
		}))
	}
	if err := s.appendFile(s.journalPath(), JournalHeader, journalRows); err != nil {
		return fmt.Errorf("appending journal: %w", err)
	}

	ledgerRows := make([][]string, 0, len(records))
	for _, r := range records {
		ledgerRows = append(ledgerRows, marshalLedgerRecord(r))
	}
	if err := s.appendFile(s.ledgerPath(), LedgerHeader, ledgerRows); err != nil {
		return fmt.Errorf("appending ledger: %w", err)
	}
	return nil
}

// Load replays the store into journal entries (in posting order) and ledger
// records (in append order).
func (s *Store) Load() ([]model.JournalEntry, []model.LedgerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.loadJournalRows()
	if err != nil {
		return nil, nil, err
	}

	// Rebuild entries: rows of one entry are contiguous and share a number.
	var entries []model.JournalEntry
	index := make(map[string]int)
	for _, row := range rows {
		i, seen := index[row.EntryNumber]
		if !seen {
			index[row.EntryNumber] = len(entries)
			entries = append(entries, model.JournalEntry{
				ID:          row.EntryID,
				EntryNumber: row.EntryNumber,
				Date:        row.Date,
				Reference:   row.Reference,
				Description: row.Description,
				Status:      row.Status,
				Reverses:    row.Reverses,
			})
			i = len(entries) - 1
		}
		entries[i].Lines = append(entries[i].Lines, row.Line)
	}

	records, err := s.loadLedgerRecords()
	if err != nil {
		return nil, nil, err
	}

	return entries, records, nil
}

func (s *Store) loadJournalRows() ([]journalRow, error) {
	f, err := os.Open(s.journalPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	rows, err := readJournalRows(f)
	if err != nil {
		return nil, fmt.Errorf("reading journal: %w", err)
	}
	return rows, nil
}

func (s *Store) loadLedgerRecords() ([]model.LedgerRecord, error) {
	f, err := os.Open(s.ledgerPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	records, err := readLedgerRecords(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}
	return records, nil
}

func (s *Store) appendFile(path, header string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if isNew {
		if err := writeHeader(f, header); err != nil {
			return err
		}
	}
	return appendCSV(f, rows)
}
