// Package rules implements cross-report validation: assertions that two
// independently computed cell values agree within a tolerance. Mismatches
// are data, never errors — a failed rule produces a Result with Passed=false
// and a formatted message, and blocks nothing.
package rules

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/credit360-dev/credit360/internal/model"
	"github.com/credit360-dev/credit360/internal/sheet"
)

// DefaultTolerance is the smallest representable monetary unit, used when a
// rule does not override it.
func DefaultTolerance() decimal.Decimal {
	return decimal.New(1, -2) // 0.01
}

// Rule asserts that two resolved cell values match within a tolerance.
// A nil Tolerance means DefaultTolerance; an explicit zero demands exact
// equality.
type Rule struct {
	ID          string
	Left        model.CellRef
	Right       model.CellRef
	Tolerance   *decimal.Decimal
	Description string
}

// Result is the outcome of evaluating one rule.
type Result struct {
	RuleID   string
	Expected decimal.Decimal // left reference
	Actual   decimal.Decimal // right reference
	Diff     decimal.Decimal // |left - right|
	Passed   bool
	Error    string // formatted mismatch message, empty when passed
}

// Registry holds the rule set for a report session, bound to a Book.
type Registry struct {
	book *sheet.Book

	mu    sync.Mutex
	rules []Rule
	byID  map[string]int
	last  map[string]Result // cached for display only, never served as fresh
}

// NewRegistry creates an empty Registry over a Book.
func NewRegistry(book *sheet.Book) *Registry {
	return &Registry{
		book: book,
		byID: make(map[string]int),
		last: make(map[string]Result),
	}
}

// Register adds a rule. Both references must resolve to defined cells;
// unknown keys are rejected here rather than defaulting silently later.
func (r *Registry) Register(rule Rule) error {
	if rule.ID == "" {
		return fmt.Errorf("rule ID must not be empty")
	}
	if !r.book.HasCell(rule.Left) {
		return fmt.Errorf("rule %q: %w", rule.ID, &sheet.UnknownCellError{Ref: rule.Left})
	}
	if !r.book.HasCell(rule.Right) {
		return fmt.Errorf("rule %q: %w", rule.ID, &sheet.UnknownCellError{Ref: rule.Right})
	}
	if rule.Tolerance != nil && rule.Tolerance.IsNegative() {
		return fmt.Errorf("rule %q: negative tolerance %s", rule.ID, rule.Tolerance)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byID[rule.ID]; dup {
		return fmt.Errorf("duplicate rule ID %q", rule.ID)
	}
	r.byID[rule.ID] = len(r.rules)
	r.rules = append(r.rules, rule)
	return nil
}

// Evaluate resolves both references through the Book's current state and
// returns a fresh Result. A mismatch is not an error; the error return covers
// unknown rule IDs and unresolvable references only.
func (r *Registry) Evaluate(ruleID string) (Result, error) {
	r.mu.Lock()
	i, ok := r.byID[ruleID]
	var rule Rule
	if ok {
		rule = r.rules[i]
	}
	r.mu.Unlock()
	if !ok {
		return Result{}, fmt.Errorf("unknown rule %q", ruleID)
	}
	return r.evaluate(rule)
}

// EvaluateAll evaluates every rule in registration order.
func (r *Registry) EvaluateAll() ([]Result, error) {
	r.mu.Lock()
	rules := make([]Rule, len(r.rules))
	copy(rules, r.rules)
	r.mu.Unlock()

	results := make([]Result, 0, len(rules))
	for _, rule := range rules {
		res, err := r.evaluate(rule)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Last returns the most recent Result for a rule, for display. Callers that
// need current values use Evaluate.
func (r *Registry) Last(ruleID string) (Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.last[ruleID]
	return res, ok
}

func (r *Registry) evaluate(rule Rule) (Result, error) {
	left, err := r.book.Value(rule.Left)
	if err != nil {
		return Result{}, fmt.Errorf("rule %q: resolving %s: %w", rule.ID, rule.Left, err)
	}
	right, err := r.book.Value(rule.Right)
	if err != nil {
		return Result{}, fmt.Errorf("rule %q: resolving %s: %w", rule.ID, rule.Right, err)
	}

	tolerance := DefaultTolerance()
	if rule.Tolerance != nil {
		tolerance = *rule.Tolerance
	}

	diff := left.Sub(right).Abs()
	res := Result{
		RuleID:   rule.ID,
		Expected: left,
		Actual:   right,
		Diff:     diff,
		Passed:   diff.LessThanOrEqual(tolerance),
	}
	if !res.Passed {
		res.Error = fmt.Sprintf("%s: expected %s (%s), got %s (%s), difference %s exceeds tolerance %s",
			rule.Description,
			left.StringFixed(2), rule.Left,
			right.StringFixed(2), rule.Right,
			diff.StringFixed(2), tolerance)
	}

	r.mu.Lock()
	r.last[rule.ID] = res
	r.mu.Unlock()
	return res, nil
}
