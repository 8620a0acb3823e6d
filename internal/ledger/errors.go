package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ImbalancedEntryError rejects an entry whose debits and credits differ.
// The comparison is exact: these are discrete currency amounts.
type ImbalancedEntryError struct {
	Debits  decimal.Decimal
	Credits decimal.Decimal
}

func (e *ImbalancedEntryError) Error() string {
	return fmt.Sprintf("entry not balanced: debits (%s) != credits (%s)",
		e.Debits.StringFixed(2), e.Credits.StringFixed(2))
}

// UnknownAccountError rejects an entry referencing an account code that is
// not an active member of the chart of accounts.
type UnknownAccountError struct {
	Code string
}

func (e *UnknownAccountError) Error() string {
	return fmt.Sprintf("unknown account %q", e.Code)
}

// LineError rejects an entry whose individual line violates a constraint
// (both or neither side set, negative amount, more than 2 decimal places).
type LineError struct {
	Index  int
	Reason string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Index, e.Reason)
}
