package model

import "github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/bilingual"

type Contact struct {
	Phone   string         `json:"phone"`
	Email   string         `json:"email"`
	Address bilingual.Text `json:"address"`
}

type Social struct {
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// SiteSettings is the per-tenant singleton shown in the site header,
// footer and contact page.
type SiteSettings struct {
	Meta
	PanchayatName  bilingual.Text `json:"panchayatName"`
	Tagline        bilingual.Text `json:"tagline"`
	Contact        Contact        `json:"contact"`
	OfficeTimings  bilingual.Text `json:"officeTimings"`
	Social         Social         `json:"social"`
	GoogleMapsLink string         `json:"googleMapsLink,omitempty"`
	OfficePhoto    string         `json:"officePhoto,omitempty"`
	Logo           string         `json:"logo,omitempty"`
}

// DefaultSettings is written by Initialize when a tenant has no settings yet.
func DefaultSettings(name bilingual.Text) *SiteSettings {
	return &SiteSettings{
		PanchayatName: name,
		Tagline:       bilingual.Text{En: "Serving our village", Mr: "आमच्या गावाची सेवा"},
		OfficeTimings: bilingual.Text{
			En: "Monday to Friday: 10:00 AM - 5:00 PM",
			Mr: "सोमवार ते शुक्रवार: सकाळी १० ते सायंकाळी ५",
		},
	}
}
