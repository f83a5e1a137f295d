package model

import "github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/bilingual"

type SchemeCategory string

const (
	SchemeCentral  SchemeCategory = "CENTRAL"
	SchemeState    SchemeCategory = "STATE"
	SchemeDistrict SchemeCategory = "DISTRICT"
	SchemeLocal    SchemeCategory = "LOCAL"
)

func (c SchemeCategory) Valid() bool {
	switch c {
	case SchemeCentral, SchemeState, SchemeDistrict, SchemeLocal:
		return true
	}
	return false
}

type SchemeStatus string

const (
	SchemeActive   SchemeStatus = "ACTIVE"
	SchemeInactive SchemeStatus = "INACTIVE"
)

type Scheme struct {
	Meta
	Name               bilingual.Text `json:"name"`
	Category           SchemeCategory `json:"category"`
	Description        bilingual.Text `json:"description"`
	Eligibility        bilingual.Text `json:"eligibility"`
	DocumentsRequired  bilingual.Text `json:"documentsRequired"`
	ApplicationProcess bilingual.Text `json:"applicationProcess"`
	Status             SchemeStatus   `json:"status"`
}
