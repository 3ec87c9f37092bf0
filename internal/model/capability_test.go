package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceEqual(t *testing.T) {
	assert.True(t, PriceEqual(nil, nil))
	assert.False(t, PriceEqual(nil, Price(0)))
	assert.False(t, PriceEqual(Price(0), nil))
	assert.True(t, PriceEqual(Price(0.02), Price(0.02)))
	assert.False(t, PriceEqual(Price(0.02), Price(0.025)))
}

func TestDiffFields(t *testing.T) {
	a := Capability{PricingImageGen: Price(0.02)}
	assert.Empty(t, a.DiffFields(a.Clone()))
	assert.Equal(t, []CapabilityKind{CapabilityImageGen, CapabilityWebSearch},
		a.DiffFields(Capability{PricingWebSearch: Price(0.01)}))
}

func TestCloneSharesNoPointers(t *testing.T) {
	a := Capability{PricingImageGen: Price(0.02)}
	b := a.Clone()
	*b.PricingImageGen = 1
	assert.Equal(t, 0.02, *a.PricingImageGen)
}

func TestRecordJSON(t *testing.T) {
	data, err := json.Marshal(CapabilityRecord{ID: "openai/gpt-4o", Capability: Capability{PricingImageGen: Price(0.02)}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"openai/gpt-4o","pricingImageGen":0.02,"pricingWebSearch":null}`, string(data))
}

func TestLanguageModelRecord(t *testing.T) {
	r := CapabilityRecord{ID: "google/gemini-3-flash", Capability: Capability{PricingWebSearch: Price(0.035)}}
	m := NewLanguageModel(r)
	assert.Equal(t, "google", m.Provider)
	assert.Equal(t, "gemini-3-flash", m.Name)
	assert.Equal(t, "google", r.Provider())
	assert.Equal(t, r, m.Record())
}
