package sheet

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/credit360-dev/credit360/internal/model"
)

// CellDef declares one cell of a sheet schema. A nil Formula marks a leaf.
type CellDef struct {
	ID      string
	Formula []model.Term
}

// Schema is the ordered cell list for one sheet.
type Schema struct {
	Name  string
	Cells []CellDef
}

// ParseFormula parses a signed-reference formula like "C4 + C5 - deposits!total".
// A bare leading reference is implicitly positive.
func ParseFormula(s, defaultSheet string) ([]model.Term, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty formula")
	}

	var terms []model.Term
	sign := 1
	pendingOp := false
	for _, tok := range fields {
		switch tok {
		case "+", "-":
			if pendingOp {
				return nil, fmt.Errorf("formula %q: consecutive operators", s)
			}
			if tok == "-" {
				sign = -1
			} else {
				sign = 1
			}
			pendingOp = true
		default:
			// Allow a sign glued to the reference, e.g. "-C4".
			if strings.HasPrefix(tok, "+") || strings.HasPrefix(tok, "-") {
				if tok[0] == '-' {
					sign = -sign
				}
				tok = tok[1:]
			}
			ref, err := model.ParseCellRef(tok, defaultSheet)
			if err != nil {
				return nil, fmt.Errorf("formula %q: %w", s, err)
			}
			terms = append(terms, model.Term{Sign: sign, Ref: ref})
			sign = 1
			pendingOp = false
		}
	}
	if pendingOp {
		return nil, fmt.Errorf("formula %q: trailing operator", s)
	}
	return terms, nil
}

type schemaFile struct {
	Sheets []schemaSheet `yaml:"sheets"`
}

type schemaSheet struct {
	Name  string       `yaml:"name"`
	Cells []schemaCell `yaml:"cells"`
}

type schemaCell struct {
	ID      string `yaml:"id"`
	Formula string `yaml:"formula,omitempty"`
}

// LoadSchemas reads sheet schemas from a YAML file, in declaration order.
// Cross-sheet references may only point at sheets declared earlier.
func LoadSchemas(path string) ([]Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sheet schemas: %w", err)
	}

	var file schemaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing sheet schemas: %w", err)
	}

	var schemas []Schema
	for _, ss := range file.Sheets {
		if ss.Name == "" {
			return nil, fmt.Errorf("sheet schema with empty name")
		}
		schema := Schema{Name: ss.Name}
		for _, sc := range ss.Cells {
			if sc.ID == "" {
				return nil, fmt.Errorf("sheet %q: cell with empty id", ss.Name)
			}
			def := CellDef{ID: sc.ID}
			if sc.Formula != "" {
				terms, err := ParseFormula(sc.Formula, ss.Name)
				if err != nil {
					return nil, fmt.Errorf("sheet %q cell %q: %w", ss.Name, sc.ID, err)
				}
				def.Formula = terms
			}
			schema.Cells = append(schema.Cells, def)
		}
		schemas = append(schemas, schema)
	}
	return schemas, nil
}
