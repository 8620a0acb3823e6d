package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryStatus represents the lifecycle state of a journal entry.
// The only transition is draft -> posted; posted entries are immutable and
// corrections happen through new reversing entries.
type EntryStatus string

const (
	StatusDraft  EntryStatus = "draft"
	StatusPosted EntryStatus = "posted"
)

// JournalLine is one side of a double-entry posting. Exactly one of
// Debit/Credit is non-zero.
type JournalLine struct {
	AccountCode string
	Debit       decimal.Decimal // zero if credit side
	Credit      decimal.Decimal // zero if debit side
	Description string
}

// JournalEntry is an atomic, balanced set of journal lines.
type JournalEntry struct {
	ID          uuid.UUID
	EntryNumber string // "PREFIX-NNN"
	Date        time.Time
	Reference   string
	Description string
	Lines       []JournalLine
	Status      EntryStatus
	Reverses    string // entry number of the original, for reversing entries
}

// LedgerRecord is one append-only row in an account's ledger history.
// RunningBalance is a function of strict (date, insertion-order) sequence:
// balance_n = balance_{n-1} + debit_n - credit_n.
type LedgerRecord struct {
	AccountCode    string
	Date           time.Time
	EntryID        uuid.UUID
	EntryNumber    string
	Debit          decimal.Decimal
	Credit         decimal.Decimal
	RunningBalance decimal.Decimal
}
