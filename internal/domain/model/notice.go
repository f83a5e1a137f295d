package model

import (
	"time"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/bilingual"
)

// DateLayout is the format of notice start and end dates.
const DateLayout = "2006-01-02"

type NoticeType string

const (
	NoticeAnnouncement NoticeType = "ANNOUNCEMENT"
	NoticeMeeting      NoticeType = "MEETING"
	NoticeTender       NoticeType = "TENDER"
)

func (t NoticeType) Valid() bool {
	switch t {
	case NoticeAnnouncement, NoticeMeeting, NoticeTender:
		return true
	}
	return false
}

type Notice struct {
	Meta
	Title       bilingual.Text `json:"title"`
	Description bilingual.Text `json:"description"`
	Type        NoticeType     `json:"type"`
	StartDate   string         `json:"startDate"`
	EndDate     string         `json:"endDate"`
	ShowOnHome  bool           `json:"showOnHome"`
}

// ActiveOn reports whether day (a DateLayout string) falls inside the
// notice window, both ends inclusive. A missing end date means open-ended.
func (n *Notice) ActiveOn(day string) bool {
	if n.StartDate == "" || n.StartDate > day {
		return false
	}
	return n.EndDate == "" || n.EndDate >= day
}

func Today(now time.Time) string {
	return now.Format(DateLayout)
}
