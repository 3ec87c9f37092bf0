package model

import (
	"strings"
	"time"
)

// LanguageModel is a row of the durable model store.
type LanguageModel struct {
	ID               string    `json:"id" gorm:"primaryKey;not null"`
	Provider         string    `json:"provider" gorm:"index"`
	Name             string    `json:"name"`
	PricingImageGen  *float64  `json:"pricing_image_gen"`
	PricingWebSearch *float64  `json:"pricing_web_search"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (LanguageModel) TableName() string {
	return "models"
}

func NewLanguageModel(r CapabilityRecord) LanguageModel {
	provider, name, _ := strings.Cut(r.ID, "/")
	c := r.Capability.Clone()
	return LanguageModel{
		ID:               r.ID,
		Provider:         provider,
		Name:             name,
		PricingImageGen:  c.PricingImageGen,
		PricingWebSearch: c.PricingWebSearch,
	}
}

func (m LanguageModel) Record() CapabilityRecord {
	return CapabilityRecord{
		ID: m.ID,
		Capability: Capability{
			PricingImageGen:  m.PricingImageGen,
			PricingWebSearch: m.PricingWebSearch,
		}.Clone(),
	}
}
