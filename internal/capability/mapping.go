// Package capability holds the hand-curated capability pricing table that sync runs
// reconcile the model store against.
package capability

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"github.com/mikemajara/ai-chatbot/internal/model"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

//go:embed mapping.yaml
var defaultMapping []byte

type mappingFile struct {
	Models []model.CapabilityRecord `yaml:"models"`
}

// Mapping is an immutable lookup keyed by exact model id. Iteration follows insertion order.
type Mapping struct {
	ids     []string
	entries map[string]model.Capability
}

func NewMapping(records []model.CapabilityRecord) (*Mapping, error) {
	m := &Mapping{
		ids:     make([]string, 0, len(records)),
		entries: make(map[string]model.Capability, len(records)),
	}
	for i, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("mapping entry %d: missing model id", i)
		}
		if _, ok := m.entries[r.ID]; ok {
			return nil, fmt.Errorf("mapping entry %d: duplicated model id %s", i, r.ID)
		}
		for _, f := range model.CapabilityFields {
			if p := f.Get(r.Capability); p != nil && (math.IsNaN(*p) || math.IsInf(*p, 0)) {
				return nil, fmt.Errorf("mapping entry %s: %s price is not a finite number", r.ID, f.Kind)
			}
		}
		m.ids = append(m.ids, r.ID)
		m.entries[r.ID] = r.Capability.Clone()
	}
	return m, nil
}

func ParseMapping(data []byte) (*Mapping, error) {
	var file mappingFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse capability mapping: %w", err)
	}
	return NewMapping(file.Models)
}

// Default returns the mapping compiled into the binary.
func Default() (*Mapping, error) {
	return ParseMapping(defaultMapping)
}

// Load reads a mapping file, falling back to the compiled-in mapping when path is empty.
func Load(path string) (*Mapping, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read capability mapping: %w", err)
	}
	return ParseMapping(data)
}

// Lookup returns the entry for id, or the all-absent capability when there is none.
func (m *Mapping) Lookup(id string) model.Capability {
	c, ok := m.entries[id]
	if !ok {
		return model.Capability{}
	}
	return c.Clone()
}

func (m *Mapping) Has(id string) bool {
	_, ok := m.entries[id]
	return ok
}

func (m *Mapping) Len() int {
	return len(m.ids)
}

func (m *Mapping) Entries() []model.CapabilityRecord {
	return lo.Map(m.ids, func(id string, _ int) model.CapabilityRecord {
		return model.CapabilityRecord{ID: id, Capability: m.entries[id].Clone()}
	})
}

// ModelsWithCapability lists ids whose price for kind is present, in mapping order.
func (m *Mapping) ModelsWithCapability(kind model.CapabilityKind) []string {
	field, ok := model.LookupCapabilityField(kind)
	if !ok {
		return []string{}
	}
	return lo.Filter(m.ids, func(id string, _ int) bool {
		return field.Get(m.entries[id]) != nil
	})
}
