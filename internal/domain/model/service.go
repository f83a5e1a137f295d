package model

import "github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/bilingual"

const DefaultServiceCategory = "Certificate"

// Service is a citizen service offered at the panchayat office.
type Service struct {
	Meta
	Name              bilingual.Text `json:"name"`
	Category          string         `json:"category"`
	Description       bilingual.Text `json:"description"`
	RequiredDocuments bilingual.Text `json:"requiredDocuments"`
	HowToApply        bilingual.Text `json:"howToApply"`
	Fees              string         `json:"fees"`
	ProcessingTime    string         `json:"processingTime"`
}
