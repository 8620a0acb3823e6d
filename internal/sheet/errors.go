package sheet

import (
	"fmt"
	"strings"

	"github.com/credit360-dev/credit360/internal/model"
)

// CycleError reports a circular formula dependency found at definition time.
// The whole sheet is rejected.
type CycleError struct {
	Sheet string
	Cycle []model.CellRef // the cells forming the cycle, in reference order
}

func (e *CycleError) Error() string {
	refs := make([]string, len(e.Cycle))
	for i, r := range e.Cycle {
		refs[i] = r.String()
	}
	return fmt.Sprintf("sheet %q: formula cycle: %s", e.Sheet, strings.Join(refs, " -> "))
}

// UnknownCellError reports a formula or query referencing a cell that was
// never defined.
type UnknownCellError struct {
	Ref model.CellRef
}

func (e *UnknownCellError) Error() string {
	return fmt.Sprintf("unknown cell reference %q", e.Ref.String())
}
