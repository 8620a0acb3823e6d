package rollup

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Distribution couples a flat entry list with the hierarchy that rolls it
// up, as loaded from a workspace distribution file.
type Distribution struct {
	Fields  []string
	Entries []Entry
	Groups  Hierarchy
}

// Compute evaluates the hierarchy over the distribution's own entries.
func (d Distribution) Compute() map[string]map[string]decimal.Decimal {
	return d.Groups.Compute(d.Entries, d.Fields)
}

type distributionFile struct {
	Fields  []string    `yaml:"fields"`
	Entries []entrySpec `yaml:"entries"`
	Groups  []groupSpec `yaml:"groups"`
}

type entrySpec struct {
	Group  string            `yaml:"group"`
	Values map[string]string `yaml:"values"`
}

type groupSpec struct {
	Name    string   `yaml:"name"`
	Keys    []string `yaml:"keys,omitempty"`
	Members []string `yaml:"members,omitempty"`
}

// LoadDistribution reads a distribution report from a YAML file. Entry
// values are decimal strings keyed by field name.
func LoadDistribution(path string) (Distribution, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Distribution{}, fmt.Errorf("reading distribution: %w", err)
	}

	var file distributionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Distribution{}, fmt.Errorf("parsing distribution: %w", err)
	}

	dist := Distribution{Fields: file.Fields}
	for _, es := range file.Entries {
		if es.Group == "" {
			return Distribution{}, fmt.Errorf("distribution entry missing group key")
		}
		fields := make(map[string]decimal.Decimal, len(es.Values))
		for name, raw := range es.Values {
			v, err := decimal.NewFromString(raw)
			if err != nil {
				return Distribution{}, fmt.Errorf("entry %q field %q: parsing %q: %w", es.Group, name, raw, err)
			}
			fields[name] = v
		}
		dist.Entries = append(dist.Entries, Entry{Group: es.Group, Fields: fields})
	}
	for _, gs := range file.Groups {
		if gs.Name == "" {
			return Distribution{}, fmt.Errorf("distribution group missing name")
		}
		dist.Groups.Groups = append(dist.Groups.Groups, Group{
			Name:    gs.Name,
			Keys:    gs.Keys,
			Members: gs.Members,
		})
	}
	return dist, nil
}
