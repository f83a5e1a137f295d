package service

import (
	"context"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/bilingual"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/model"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/tenant"
)

// PublicService aggregates the read-only views of the public site.
type PublicService struct {
	registry *tenant.Registry
	settings *SettingsService
	notices  *NoticeService
	members  *MemberService
}

func NewPublicService(registry *tenant.Registry, settings *SettingsService, notices *NoticeService, members *MemberService) *PublicService {
	return &PublicService{registry: registry, settings: settings, notices: notices, members: members}
}

type HomeResponse struct {
	Tenant   tenant.Info         `json:"tenant"`
	Settings *model.SiteSettings `json:"settings"`
	Notices  []model.Notice      `json:"notices"`
	Members  []model.Member      `json:"members"`
}

type ContactResponse struct {
	PanchayatName  bilingual.Text `json:"panchayatName"`
	Contact        model.Contact  `json:"contact"`
	OfficeTimings  bilingual.Text `json:"officeTimings"`
	GoogleMapsLink string         `json:"googleMapsLink,omitempty"`
	OfficePhoto    string         `json:"officePhoto,omitempty"`
}

// Tenant returns the registry entry of tc.
func (s *PublicService) Tenant(tc tenant.Context) (tenant.Info, error) {
	if err := tc.Validate(); err != nil {
		return tenant.Info{}, err
	}
	if s.registry != nil {
		if info, ok := s.registry.Lookup(tc.ID); ok {
			return info, nil
		}
	}
	return tenant.Info{ID: tc.ID, Active: true}, nil
}

// Home returns everything the landing page needs in one call.
func (s *PublicService) Home(ctx context.Context, tc tenant.Context) (*HomeResponse, error) {
	info, err := s.Tenant(tc)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Get(ctx, tc)
	if err != nil {
		return nil, err
	}
	notices, err := s.notices.ListHome(ctx, tc)
	if err != nil {
		return nil, err
	}
	members, err := s.members.List(ctx, tc, "")
	if err != nil {
		return nil, err
	}
	return &HomeResponse{Tenant: info, Settings: settings, Notices: notices, Members: members}, nil
}

func (s *PublicService) Contact(ctx context.Context, tc tenant.Context) (*ContactResponse, error) {
	settings, err := s.settings.Get(ctx, tc)
	if err != nil {
		return nil, err
	}
	return &ContactResponse{
		PanchayatName:  settings.PanchayatName,
		Contact:        settings.Contact,
		OfficeTimings:  settings.OfficeTimings,
		GoogleMapsLink: settings.GoogleMapsLink,
		OfficePhoto:    settings.OfficePhoto,
	}, nil
}
