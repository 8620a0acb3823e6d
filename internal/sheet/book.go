package sheet

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/credit360-dev/credit360/internal/model"
)

// Book holds the sheets of one report session. Leaf mutations and the
// recompute pass they trigger run under the write lock, so readers always see
// a consistent snapshot. Computed values are a pure function of current
// leaves: recomputing with unchanged leaves yields identical results.
type Book struct {
	mu     sync.RWMutex
	sheets map[string]*sheetState
	order  []string
}

type sheetState struct {
	schema Schema
	defs   map[string]CellDef
	leaves map[string]decimal.Decimal
	values map[string]decimal.Decimal // computed cells only
}

// NewBook creates an empty Book.
func NewBook() *Book {
	return &Book{sheets: make(map[string]*sheetState)}
}

// DefineSheet registers a sheet schema. It fails with UnknownCellError if a
// formula references a cell that is not in this schema or an already-defined
// sheet, and with CycleError if the computed-cell dependency graph contains a
// cycle. On any error the sheet is rejected entirely.
func (b *Book) DefineSheet(schema Schema) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if schema.Name == "" {
		return fmt.Errorf("sheet name must not be empty")
	}
	if _, exists := b.sheets[schema.Name]; exists {
		return fmt.Errorf("sheet %q already defined", schema.Name)
	}

	defs := make(map[string]CellDef, len(schema.Cells))
	for _, def := range schema.Cells {
		if _, dup := defs[def.ID]; dup {
			return fmt.Errorf("sheet %q: duplicate cell %q", schema.Name, def.ID)
		}
		defs[def.ID] = def
	}

	// Every reference must resolve: same-sheet references against this
	// schema, cross-sheet references against sheets defined earlier.
	for _, def := range schema.Cells {
		for _, term := range def.Formula {
			if term.Ref.Sheet == schema.Name {
				if _, ok := defs[term.Ref.Cell]; !ok {
					return &UnknownCellError{Ref: term.Ref}
				}
				continue
			}
			other, ok := b.sheets[term.Ref.Sheet]
			if !ok {
				return &UnknownCellError{Ref: term.Ref}
			}
			if _, ok := other.defs[term.Ref.Cell]; !ok {
				return &UnknownCellError{Ref: term.Ref}
			}
		}
	}

	// Cross-sheet edges only reach earlier sheets, which cannot point back
	// here, so a cycle must lie entirely within this schema.
	if cycle := findCycle(schema.Name, defs); cycle != nil {
		return &CycleError{Sheet: schema.Name, Cycle: cycle}
	}

	st := &sheetState{
		schema: schema,
		defs:   defs,
		leaves: make(map[string]decimal.Decimal),
		values: make(map[string]decimal.Decimal),
	}
	b.sheets[schema.Name] = st
	b.order = append(b.order, schema.Name)
	b.recompute()
	return nil
}

// SetLeaf sets a leaf cell's value and recomputes all dependent cells before
// returning. Setting a computed cell is an error.
func (b *Book) SetLeaf(ref model.CellRef, value decimal.Decimal) error {
	return b.SetLeaves(map[model.CellRef]decimal.Decimal{ref: value})
}

// SetLeaves applies a batch of leaf values atomically with a single recompute
// pass. Either every value is applied or none.
func (b *Book) SetLeaves(values map[model.CellRef]decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ref := range values {
		st, ok := b.sheets[ref.Sheet]
		if !ok {
			return &UnknownCellError{Ref: ref}
		}
		def, ok := st.defs[ref.Cell]
		if !ok {
			return &UnknownCellError{Ref: ref}
		}
		if def.Formula != nil {
			return fmt.Errorf("cannot set computed cell %q", ref.String())
		}
	}

	for ref, v := range values {
		b.sheets[ref.Sheet].leaves[ref.Cell] = v
	}
	b.recompute()
	return nil
}

// IsLeaf reports whether ref names a defined leaf cell.
func (b *Book) IsLeaf(ref model.CellRef) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	st, ok := b.sheets[ref.Sheet]
	if !ok {
		return false
	}
	def, ok := st.defs[ref.Cell]
	return ok && def.Formula == nil
}

// Value returns a cell's current value. Unset leaves are zero.
func (b *Book) Value(ref model.CellRef) (decimal.Decimal, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	st, ok := b.sheets[ref.Sheet]
	if !ok {
		return decimal.Zero, &UnknownCellError{Ref: ref}
	}
	def, ok := st.defs[ref.Cell]
	if !ok {
		return decimal.Zero, &UnknownCellError{Ref: ref}
	}
	if def.Formula == nil {
		return st.leaves[ref.Cell], nil
	}
	return st.values[ref.Cell], nil
}

// Sheets returns sheet names in definition order.
func (b *Book) Sheets() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// HasCell reports whether a reference resolves to a defined cell.
func (b *Book) HasCell(ref model.CellRef) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	st, ok := b.sheets[ref.Sheet]
	if !ok {
		return false
	}
	_, ok = st.defs[ref.Cell]
	return ok
}

// recompute re-evaluates every computed cell in topological order. Caller
// holds the write lock. Sheets are walked in definition order; cross-sheet
// references always point at earlier sheets, so their values are final by the
// time a later sheet reads them.
func (b *Book) recompute() {
	for _, name := range b.order {
		st := b.sheets[name]
		done := make(map[string]bool, len(st.defs))
		for _, def := range st.schema.Cells {
			if def.Formula != nil {
				b.evalCell(st, def.ID, done)
			}
		}
	}
}

// evalCell computes one cell via depth-first evaluation of its same-sheet
// dependencies. The definition-time cycle check guarantees termination.
func (b *Book) evalCell(st *sheetState, cellID string, done map[string]bool) decimal.Decimal {
	if done[cellID] {
		return st.values[cellID]
	}
	done[cellID] = true

	total := decimal.Zero
	for _, term := range st.defs[cellID].Formula {
		var v decimal.Decimal
		if term.Ref.Sheet == st.schema.Name {
			dep := st.defs[term.Ref.Cell]
			if dep.Formula == nil {
				v = st.leaves[term.Ref.Cell]
			} else {
				v = b.evalCell(st, term.Ref.Cell, done)
			}
		} else {
			other := b.sheets[term.Ref.Sheet]
			dep := other.defs[term.Ref.Cell]
			if dep.Formula == nil {
				v = other.leaves[term.Ref.Cell]
			} else {
				v = other.values[term.Ref.Cell]
			}
		}
		if term.Sign < 0 {
			total = total.Sub(v)
		} else {
			total = total.Add(v)
		}
	}
	st.values[cellID] = total
	return total
}

// findCycle runs a three-color depth-first search over the computed cells of
// one schema and returns the first cycle found, or nil.
func findCycle(sheetName string, defs map[string]CellDef) []model.CellRef {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(defs))
	var stack []string

	var visit func(cellID string) []model.CellRef
	visit = func(cellID string) []model.CellRef {
		color[cellID] = gray
		stack = append(stack, cellID)

		for _, term := range defs[cellID].Formula {
			if term.Ref.Sheet != sheetName {
				continue
			}
			next := term.Ref.Cell
			if defs[next].Formula == nil {
				continue
			}
			switch color[next] {
			case gray:
				// Found a cycle: slice the stack from the first occurrence.
				start := 0
				for i, c := range stack {
					if c == next {
						start = i
						break
					}
				}
				cycle := make([]model.CellRef, 0, len(stack)-start+1)
				for _, c := range stack[start:] {
					cycle = append(cycle, model.CellRef{Sheet: sheetName, Cell: c})
				}
				cycle = append(cycle, model.CellRef{Sheet: sheetName, Cell: next})
				return cycle
			case white:
				if cycle := visit(next); cycle != nil {
					return cycle
				}
			}
		}

		stack = stack[:len(stack)-1]
		color[cellID] = black
		return nil
	}

	for cellID, def := range defs {
		if def.Formula == nil || color[cellID] != white {
			continue
		}
		if cycle := visit(cellID); cycle != nil {
			return cycle
		}
		stack = stack[:0]
	}
	return nil
}
