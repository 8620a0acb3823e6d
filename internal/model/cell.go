package model

import (
	"fmt"
	"strings"
)

// CellRef identifies a cell as (sheet, cell). The textual form is
// "sheet!cell"; a bare "cell" resolves against a default sheet.
type CellRef struct {
	Sheet string
	Cell  string
}

// String returns the "sheet!cell" form.
func (r CellRef) String() string {
	if r.Sheet == "" {
		return r.Cell
	}
	return r.Sheet + "!" + r.Cell
}

// ParseCellRef parses "sheet!cell" or "cell" (resolved against defaultSheet).
func ParseCellRef(s, defaultSheet string) (CellRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CellRef{}, fmt.Errorf("empty cell reference")
	}
	if i := strings.IndexByte(s, '!'); i >= 0 {
		sheet, cell := s[:i], s[i+1:]
		if sheet == "" || cell == "" {
			return CellRef{}, fmt.Errorf("invalid cell reference %q", s)
		}
		return CellRef{Sheet: sheet, Cell: cell}, nil
	}
	if defaultSheet == "" {
		return CellRef{}, fmt.Errorf("cell reference %q has no sheet", s)
	}
	return CellRef{Sheet: defaultSheet, Cell: s}, nil
}

// Term is one signed reference in a computed cell's formula.
type Term struct {
	Sign int // +1 or -1
	Ref  CellRef
}
