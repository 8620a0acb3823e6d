// Package rollup sums flat collections of categorized entries into
// intermediate and grand totals, e.g. region -> zone -> grand total on the
// agent-banking and geographic distribution reports.
package rollup

import (
	"github.com/shopspring/decimal"
)

// Entry is one leaf record: a group key plus named numeric fields
// (branches, agents, balance, ...).
type Entry struct {
	Group  string
	Fields map[string]decimal.Decimal
}

// Field returns a named field value, zero if absent.
func (e Entry) Field(name string) decimal.Decimal {
	return e.Fields[name]
}

// Group declares one node of a rollup hierarchy. A base group selects
// entries by their group key; a composite group is the sum of
// already-computed member groups (never a re-scan of base entries).
type Group struct {
	Name    string
	Keys    []string // base partition: entry group keys
	Members []string // composite: names of earlier groups
}

// Hierarchy is an ordered list of groups. Composite groups reference groups
// declared before them; the last group is conventionally the grand total.
type Hierarchy struct {
	Groups []Group
}

// Totals sums each named field across entries. An empty slice yields an
// explicit zero for every field.
func Totals(entries []Entry, fields []string) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal, len(fields))
	for _, f := range fields {
		totals[f] = decimal.Zero
	}
	for _, e := range entries {
		for _, f := range fields {
			totals[f] = totals[f].Add(e.Field(f))
		}
	}
	return totals
}

// Compute evaluates every group in declaration order and returns per-group
// field totals. Keys and members with no matching entries or groups
// contribute zero.
func (h Hierarchy) Compute(entries []Entry, fields []string) map[string]map[string]decimal.Decimal {
	byKey := make(map[string][]Entry)
	for _, e := range entries {
		byKey[e.Group] = append(byKey[e.Group], e)
	}

	results := make(map[string]map[string]decimal.Decimal, len(h.Groups))
	for _, g := range h.Groups {
		totals := make(map[string]decimal.Decimal, len(fields))
		for _, f := range fields {
			totals[f] = decimal.Zero
		}

		for _, key := range g.Keys {
			for _, e := range byKey[key] {
				for _, f := range fields {
					totals[f] = totals[f].Add(e.Field(f))
				}
			}
		}
		for _, member := range g.Members {
			memberTotals, ok := results[member]
			if !ok {
				continue
			}
			for _, f := range fields {
				totals[f] = totals[f].Add(memberTotals[f])
			}
		}

		results[g.Name] = totals
	}
	return results
}
