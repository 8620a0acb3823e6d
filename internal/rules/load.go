package rules

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/credit360-dev/credit360/internal/model"
)

type ruleFile struct {
	Rules []ruleSpec `yaml:"rules"`
}

type ruleSpec struct {
	ID          string `yaml:"id"`
	Left        string `yaml:"left"`
	Right       string `yaml:"right"`
	Tolerance   string `yaml:"tolerance,omitempty"`
	Description string `yaml:"description"`
}

// LoadRules reads a validation rule set from a YAML file. References use the
// "sheet!cell" form.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule set: %w", err)
	}

	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing rule set: %w", err)
	}

	var out []Rule
	for _, rs := range file.Rules {
		left, err := model.ParseCellRef(rs.Left, "")
		if err != nil {
			return nil, fmt.Errorf("rule %q left: %w", rs.ID, err)
		}
		right, err := model.ParseCellRef(rs.Right, "")
		if err != nil {
			return nil, fmt.Errorf("rule %q right: %w", rs.ID, err)
		}

		rule := Rule{ID: rs.ID, Left: left, Right: right, Description: rs.Description}
		if rs.Tolerance != "" {
			tol, err := decimal.NewFromString(rs.Tolerance)
			if err != nil {
				return nil, fmt.Errorf("rule %q tolerance %q: %w", rs.ID, rs.Tolerance, err)
			}
			rule.Tolerance = &tol
		}
		out = append(out, rule)
	}
	return out, nil
}
