package model

import "strings"

type CapabilityKind string

const (
	CapabilityImageGen  CapabilityKind = "imageGen"
	CapabilityWebSearch CapabilityKind = "webSearch"
)

// Capability holds the per-use prices of a model's optional capabilities.
// A nil price means the capability is unsupported or unknown, which is not the same as free.
type Capability struct {
	PricingImageGen  *float64 `json:"pricingImageGen" yaml:"pricing_image_gen"`
	PricingWebSearch *float64 `json:"pricingWebSearch" yaml:"pricing_web_search"`
}

type CapabilityRecord struct {
	ID         string `json:"id" yaml:"id"`
	Capability `yaml:",inline"`
}

// Provider returns the part of the id before the first "/".
func (r CapabilityRecord) Provider() string {
	provider, _, _ := strings.Cut(r.ID, "/")
	return provider
}

// CapabilityField binds a capability kind to the price it reads from a Capability.
type CapabilityField struct {
	Kind CapabilityKind
	Get  func(Capability) *float64
}

// CapabilityFields lists every field compared during reconciliation.
var CapabilityFields = []CapabilityField{
	{Kind: CapabilityImageGen, Get: func(c Capability) *float64 { return c.PricingImageGen }},
	{Kind: CapabilityWebSearch, Get: func(c Capability) *float64 { return c.PricingWebSearch }},
}

func LookupCapabilityField(kind CapabilityKind) (CapabilityField, bool) {
	for _, f := range CapabilityFields {
		if f.Kind == kind {
			return f, true
		}
	}
	return CapabilityField{}, false
}

// PriceEqual compares two optional prices. Two absent prices are equal; an absent price never equals a number.
func PriceEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Clone returns a copy that shares no pointers with c.
func (c Capability) Clone() Capability {
	return Capability{
		PricingImageGen:  clonePrice(c.PricingImageGen),
		PricingWebSearch: clonePrice(c.PricingWebSearch),
	}
}

// DiffFields returns the kinds whose prices differ between c and other, in CapabilityFields order.
func (c Capability) DiffFields(other Capability) []CapabilityKind {
	var changed []CapabilityKind
	for _, f := range CapabilityFields {
		if !PriceEqual(f.Get(c), f.Get(other)) {
			changed = append(changed, f.Kind)
		}
	}
	return changed
}

func clonePrice(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Price is a helper for building optional prices inline.
func Price(v float64) *float64 {
	return &v
}
