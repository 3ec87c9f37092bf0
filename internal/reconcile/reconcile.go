// Package reconcile compares the capabilities recorded for each model against a desired source.
package reconcile

import (
	"github.com/mikemajara/ai-chatbot/internal/model"
	"github.com/samber/lo"
)

// Source provides the desired capabilities of a model. Lookup must return the
// all-absent capability for ids without an entry.
type Source interface {
	Lookup(id string) model.Capability
	Has(id string) bool
}

type Summary struct {
	Total       int `json:"total"`
	InSource    int `json:"inSource"`
	Changed     int `json:"changed"`
	Unchanged   int `json:"unchanged"`
	NotInSource int `json:"notInSource"`
}

type Result struct {
	Diffs   []model.CapabilityDiff `json:"diffs"`
	Summary Summary                `json:"summary"`
}

// Reconcile produces one diff per current model, in input order. Only current models are
// visited; entries that exist only in the source are ignored.
func Reconcile(current []model.CapabilityRecord, src Source) Result {
	res := Result{
		Diffs:   make([]model.CapabilityDiff, 0, len(current)),
		Summary: Summary{Total: len(current)},
	}
	for _, m := range current {
		desired := src.Lookup(m.ID)
		changedFields := m.Capability.DiffFields(desired)
		d := model.CapabilityDiff{
			ModelID:         m.ID,
			Current:         m.Capability.Clone(),
			Desired:         desired.Clone(),
			Changed:         len(changedFields) > 0,
			ChangedFields:   changedFields,
			InDesiredSource: src.Has(m.ID),
		}
		if d.InDesiredSource {
			res.Summary.InSource++
		} else {
			res.Summary.NotInSource++
		}
		if d.Changed {
			res.Summary.Changed++
		} else {
			res.Summary.Unchanged++
		}
		res.Diffs = append(res.Diffs, d)
	}
	return res
}

func (r Result) Changed() []model.CapabilityDiff {
	return lo.Filter(r.Diffs, func(d model.CapabilityDiff, _ int) bool { return d.Changed })
}

func (r Result) Unchanged() []model.CapabilityDiff {
	return lo.Filter(r.Diffs, func(d model.CapabilityDiff, _ int) bool { return !d.Changed })
}

// DesiredRecords returns the desired side of every changed diff.
func (r Result) DesiredRecords() []model.CapabilityRecord {
	return lo.Map(r.Changed(), func(d model.CapabilityDiff, _ int) model.CapabilityRecord {
		return d.DesiredRecord()
	})
}

// ApplyTo returns the state the store would hold after writing every changed diff.
func (r Result) ApplyTo(current []model.CapabilityRecord) []model.CapabilityRecord {
	desired := lo.SliceToMap(r.Changed(), func(d model.CapabilityDiff) (string, model.Capability) {
		return d.ModelID, d.Desired
	})
	return lo.Map(current, func(m model.CapabilityRecord, _ int) model.CapabilityRecord {
		if c, ok := desired[m.ID]; ok {
			return model.CapabilityRecord{ID: m.ID, Capability: c.Clone()}
		}
		return model.CapabilityRecord{ID: m.ID, Capability: m.Capability.Clone()}
	})
}
