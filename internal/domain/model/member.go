package model

import "github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/bilingual"

type MemberType string

const (
	MemberSarpanch   MemberType = "SARPANCH"
	MemberUpsarpanch MemberType = "UPSARPANCH"
	MemberRegular    MemberType = "MEMBER"
	MemberStaff      MemberType = "STAFF"
)

func (t MemberType) Valid() bool {
	switch t {
	case MemberSarpanch, MemberUpsarpanch, MemberRegular, MemberStaff:
		return true
	}
	return false
}

// Member is an elected representative or staff member of the panchayat.
type Member struct {
	Meta
	Name        bilingual.Text `json:"name"`
	Designation bilingual.Text `json:"designation"`
	Phone       string         `json:"phone"`
	Type        MemberType     `json:"type"`
	Position    int            `json:"position"`
	TermStart   string         `json:"termStart,omitempty"`
	TermEnd     string         `json:"termEnd,omitempty"`
	Photo       string         `json:"photo,omitempty"`
}
