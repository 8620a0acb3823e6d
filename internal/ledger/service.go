package ledger

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/credit360-dev/credit360/internal/id"
	"github.com/credit360-dev/credit360/internal/model"
)

// ReversalPrefix is the entry-number category for reversing entries.
const ReversalPrefix = "REV"

// AccountChecker tests whether an account code is active in the chart of
// accounts.
type AccountChecker interface {
	Exists(code string) bool
}

// Receipt identifies an accepted posting.
type Receipt struct {
	EntryID     uuid.UUID
	EntryNumber string
}

// accountState holds one account's ledger history. Its mutex serializes
// postings to the account so running balances are applied in strict order.
type accountState struct {
	mu      sync.Mutex
	records []model.LedgerRecord
}

// Service is the double-entry posting engine. Entries are validated in full
// before anything is written; rejection is always total. Posted entries are
// immutable — corrections go through Reverse.
type Service struct {
	store    *Store
	accounts AccountChecker

	mu      sync.Mutex
	seq     map[string]int // next sequence per category prefix
	entries map[string]model.JournalEntry
	order   []string // entry numbers in posting order
	byAcct  map[string]*accountState
}

// NewService creates an empty posting engine over a store.
func NewService(store *Store, accounts AccountChecker) *Service {
	return &Service{
		store:    store,
		accounts: accounts,
		seq:      make(map[string]int),
		entries:  make(map[string]model.JournalEntry),
		byAcct:   make(map[string]*accountState),
	}
}

// Load replays a store into a Service, restoring entry sequences and
// per-account histories.
func Load(root string, accounts AccountChecker) (*Service, error) {
	store := NewStore(root)
	entries, records, err := store.Load()
	if err != nil {
		return nil, err
	}

	s := NewService(store, accounts)

	lineCount := 0
	for _, e := range entries {
		s.entries[e.EntryNumber] = e
		s.order = append(s.order, e.EntryNumber)
		lineCount += len(e.Lines)

		prefix, seq, err := id.Parse(e.EntryNumber)
		if err != nil {
			return nil, fmt.Errorf("replaying entry %q: %w", e.EntryNumber, err)
		}
		if seq >= s.seq[prefix] {
			s.seq[prefix] = seq + 1
		}
	}

	if lineCount != len(records) {
		return nil, fmt.Errorf("ledger store inconsistent: %d journal lines but %d ledger records", lineCount, len(records))
	}
	for _, r := range records {
		s.acctState(r.AccountCode).records = append(s.acctState(r.AccountCode).records, r)
	}

	return s, nil
}

// Post validates and posts one balanced journal entry under the given
// category prefix, appending one ledger record per line. On any validation
// failure nothing is written.
func (s *Service) Post(date time.Time, prefix, reference, description string, lines []model.JournalLine) (Receipt, error) {
	return s.post(date, prefix, reference, description, lines, "")
}

// Reverse posts a correcting entry with every line's debit and credit
// swapped, referencing the original entry number. The original is untouched.
func (s *Service) Reverse(entryNumber string, date time.Time, description string) (Receipt, error) {
	s.mu.Lock()
	original, ok := s.entries[entryNumber]
	s.mu.Unlock()
	if !ok {
		return Receipt{}, fmt.Errorf("unknown entry %q", entryNumber)
	}

	swapped := make([]model.JournalLine, len(original.Lines))
	for i, line := range original.Lines {
		swapped[i] = model.JournalLine{
			AccountCode: line.AccountCode,
			Debit:       line.Credit,
			Credit:      line.Debit,
			Description: line.Description,
		}
	}
	return s.post(date, ReversalPrefix, original.EntryNumber, description, swapped, original.EntryNumber)
}

func (s *Service) post(date time.Time, prefix, reference, description string, lines []model.JournalLine, reverses string) (Receipt, error) {
	if err := id.ValidPrefix(prefix); err != nil {
		return Receipt{}, err
	}
	if err := s.validateLines(lines); err != nil {
		return Receipt{}, err
	}

	// Serialize against every involved account, in sorted order so two
	// overlapping entries cannot deadlock.
	states := s.lockAccounts(lines)
	defer func() {
		for _, st := range states {
			st.mu.Unlock()
		}
	}()

	// Same-account postings apply in strict (date, insertion) order, so a
	// posting dated before the account's latest record is rejected.
	for code, st := range states {
		if n := len(st.records); n > 0 && date.Before(st.records[n-1].Date) {
			return Receipt{}, fmt.Errorf("posting dated %s is out of order for account %s (latest record %s)",
				date.Format(dateFormat), code, st.records[n-1].Date.Format(dateFormat))
		}
	}

	// Serialized counter: two concurrent posts never share a number.
	s.mu.Lock()
	if s.seq[prefix] == 0 {
		s.seq[prefix] = 1
	}
	number := id.Format(prefix, s.seq[prefix])
	s.seq[prefix]++
	s.mu.Unlock()

	entry := model.JournalEntry{
		ID:          uuid.New(),
		EntryNumber: number,
		Date:        date,
		Reference:   reference,
		Description: description,
		Lines:       lines,
		Status:      model.StatusPosted,
		Reverses:    reverses,
	}

	records := make([]model.LedgerRecord, 0, len(lines))
	running := make(map[string]decimal.Decimal, len(states))
	for code, st := range states {
		if n := len(st.records); n > 0 {
			running[code] = st.records[n-1].RunningBalance
		} else {
			running[code] = decimal.Zero
		}
	}
	for _, line := range lines {
		bal := running[line.AccountCode].Add(line.Debit).Sub(line.Credit)
		running[line.AccountCode] = bal
		records = append(records, model.LedgerRecord{
			AccountCode:    line.AccountCode,
			Date:           date,
			EntryID:        entry.ID,
			EntryNumber:    entry.EntryNumber,
			Debit:          line.Debit,
			Credit:         line.Credit,
			RunningBalance: bal,
		})
	}

	if err := s.store.Append(entry, records); err != nil {
		return Receipt{}, err
	}

	for _, r := range records {
		st := states[r.AccountCode]
		st.records = append(st.records, r)
	}
	s.mu.Lock()
	s.entries[number] = entry
	s.order = append(s.order, number)
	s.mu.Unlock()

	return Receipt{EntryID: entry.ID, EntryNumber: number}, nil
}

// validateLines enforces the entry invariants before any write.
func (s *Service) validateLines(lines []model.JournalLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("entry has no lines")
	}

	// Scaling by 100 turns a <=2dp amount into a whole number of cents.
	centScale := decimal.NewFromInt(100)
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i, line := range lines {
		if !s.accounts.Exists(line.AccountCode) {
			return &UnknownAccountError{Code: line.AccountCode}
		}

		hasDebit := !line.Debit.IsZero()
		hasCredit := !line.Credit.IsZero()
		if hasDebit == hasCredit {
			return &LineError{Index: i, Reason: "exactly one of debit or credit must be set"}
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return &LineError{Index: i, Reason: "amounts must be positive"}
		}
		amount := line.Debit.Add(line.Credit)
		if !amount.Mul(centScale).Equal(amount.Mul(centScale).Floor()) {
			return &LineError{Index: i, Reason: fmt.Sprintf("amount %s has more than 2 decimal places", amount)}
		}

		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}

	if !totalDebit.Equal(totalCredit) {
		return &ImbalancedEntryError{Debits: totalDebit, Credits: totalCredit}
	}
	return nil
}

// lockAccounts locks the state of every account referenced by lines, in
// sorted code order, and returns the locked states keyed by code.
func (s *Service) lockAccounts(lines []model.JournalLine) map[string]*accountState {
	codes := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if !seen[line.AccountCode] {
			seen[line.AccountCode] = true
			codes = append(codes, line.AccountCode)
		}
	}
	sort.Strings(codes)

	states := make(map[string]*accountState, len(codes))
	for _, code := range codes {
		st := s.acctState(code)
		st.mu.Lock()
		states[code] = st
	}
	return states
}

func (s *Service) acctState(code string) *accountState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.byAcct[code]
	if !ok {
		st = &accountState{}
		s.byAcct[code] = st
	}
	return st
}

// RunningBalance returns an account's balance from the latest ledger record
// at or before asOf, zero if the account has no records by then.
func (s *Service) RunningBalance(code string, asOf time.Time) decimal.Decimal {
	st := s.acctState(code)
	st.mu.Lock()
	defer st.mu.Unlock()

	balance := decimal.Zero
	for _, r := range st.records {
		if r.Date.After(asOf) {
			break
		}
		balance = r.RunningBalance
	}
	return balance
}

// AccountRecords returns a copy of an account's ledger history in order.
func (s *Service) AccountRecords(code string) []model.LedgerRecord {
	st := s.acctState(code)
	st.mu.Lock()
	defer st.mu.Unlock()

	out := make([]model.LedgerRecord, len(st.records))
	copy(out, st.records)
	return out
}

// Entry returns a posted entry by number.
func (s *Service) Entry(number string) (model.JournalEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[number]
	if !ok {
		return model.JournalEntry{}, false
	}
	lines := make([]model.JournalLine, len(e.Lines))
	copy(lines, e.Lines)
	e.Lines = lines
	return e, true
}

// HasReference reports whether any posted entry carries the given reference.
// Event importers use it to keep re-imports idempotent.
func (s *Service) HasReference(reference string) bool {
	if reference == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.Reference == reference {
			return true
		}
	}
	return false
}

// Entries returns all posted entries in posting order.
func (s *Service) Entries() []model.JournalEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.JournalEntry, 0, len(s.order))
	for _, number := range s.order {
		out = append(out, s.entries[number])
	}
	return out
}
