package service

import (
	"context"
	"errors"
	"time"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/bilingual"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/model"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/repository"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/tenant"
)

const settingsUploadCategory = "settings"

// SettingsService manages the per-tenant site settings singleton.
type SettingsService struct {
	docs     repository.DocumentRepository
	objects  ObjectStorage
	registry *tenant.Registry
	now      func() time.Time
}

func NewSettingsService(docs repository.DocumentRepository, objects ObjectStorage, registry *tenant.Registry) *SettingsService {
	return &SettingsService{docs: docs, objects: objects, registry: registry, now: time.Now}
}

type UpdateSettingsRequest struct {
	PanchayatName     *bilingual.Text `json:"panchayatName,omitempty"`
	Tagline           *bilingual.Text `json:"tagline,omitempty"`
	Contact           *model.Contact  `json:"contact,omitempty"`
	OfficeTimings     *bilingual.Text `json:"officeTimings,omitempty"`
	Social            *model.Social   `json:"social,omitempty"`
	GoogleMapsLink    *string         `json:"googleMapsLink,omitempty"`
	RemoveLogo        bool            `json:"removeLogo,omitempty"`
	RemoveOfficePhoto bool            `json:"removeOfficePhoto,omitempty"`
}

// SettingsUploads carries the optional images of a settings update.
type SettingsUploads struct {
	Logo        *Upload
	OfficePhoto *Upload
}

// defaults builds the settings shown for a tenant that never saved any.
func (s *SettingsService) defaults(tc tenant.Context) *model.SiteSettings {
	name := bilingual.Text{En: tc.ID}
	if s.registry != nil {
		if info, ok := s.registry.Lookup(tc.ID); ok && !info.Name.IsZero() {
			name = info.Name
		}
	}
	return model.DefaultSettings(name)
}

func (s *SettingsService) load(ctx context.Context, tc tenant.Context) (*model.SiteSettings, tenant.Path, error) {
	p, err := tenant.Resolve(tc, tenant.KindSiteSettings)
	if err != nil {
		return nil, nil, err
	}
	doc, err := s.docs.Get(ctx, p)
	if err != nil {
		return nil, p, err
	}
	settings, err := decodeOne[model.SiteSettings](doc)
	return settings, p, err
}

// Get returns the stored settings, or the defaults when none were saved.
func (s *SettingsService) Get(ctx context.Context, tc tenant.Context) (*model.SiteSettings, error) {
	settings, _, err := s.load(ctx, tc)
	if errors.Is(err, common.ErrNotFound) {
		return s.defaults(tc), nil
	}
	if err != nil {
		return nil, common.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// Initialize writes the default settings unless the tenant already has some.
// It reports whether a document was created.
func (s *SettingsService) Initialize(ctx context.Context, tc tenant.Context) (*model.SiteSettings, bool, error) {
	settings, p, err := s.load(ctx, tc)
	if err == nil {
		return settings, false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, false, common.Errorf("failed to load settings: %w", err)
	}
	data, err := model.ToData(s.defaults(tc))
	if err != nil {
		return nil, false, err
	}
	doc, err := s.docs.Set(ctx, p, data, false)
	if err != nil {
		return nil, false, common.Errorf("failed to initialize settings: %w", err)
	}
	settings, err = decodeOne[model.SiteSettings](doc)
	return settings, true, err
}

// Update merges the non-nil fields of req into the stored settings. New
// logo or office photo uploads replace (and delete) the previous images.
func (s *SettingsService) Update(ctx context.Context, tc tenant.Context, req UpdateSettingsRequest, uploads SettingsUploads) (*model.SiteSettings, error) {
	current, err := s.Get(ctx, tc)
	if err != nil {
		return nil, err
	}
	p, err := tenant.Resolve(tc, tenant.KindSiteSettings)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.PanchayatName != nil {
		if err := requireText("panchayatName", *req.PanchayatName); err != nil {
			return nil, err
		}
		fields["panchayatName"] = *req.PanchayatName
	}
	if req.Tagline != nil {
		fields["tagline"] = *req.Tagline
	}
	if req.Contact != nil {
		fields["contact"] = *req.Contact
	}
	if req.OfficeTimings != nil {
		fields["officeTimings"] = *req.OfficeTimings
	}
	if req.Social != nil {
		fields["social"] = *req.Social
	}
	if req.GoogleMapsLink != nil {
		fields["googleMapsLink"] = *req.GoogleMapsLink
	}

	var uploaded, replaced []string
	images := []struct {
		key    string
		up     *Upload
		remove bool
		old    string
	}{
		{"logo", uploads.Logo, req.RemoveLogo, current.Logo},
		{"officePhoto", uploads.OfficePhoto, req.RemoveOfficePhoto, current.OfficePhoto},
	}
	for _, img := range images {
		switch {
		case img.up != nil:
			url, err := storeUpload(ctx, s.objects, tc, settingsUploadCategory, img.up, s.now())
			if err != nil {
				for _, u := range uploaded {
					removeObject(ctx, s.objects, tc, u)
				}
				return nil, common.Errorf("failed to upload %s: %w", img.key, err)
			}
			uploaded = append(uploaded, url)
			fields[img.key] = url
			if url != img.old {
				replaced = append(replaced, img.old)
			}
		case img.remove:
			fields[img.key] = ""
			replaced = append(replaced, img.old)
		}
	}

	data, err := model.ToData(fields)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.load(ctx, tc); errors.Is(err, common.ErrNotFound) {
		// First save: start from the defaults so the document is complete.
		base, err := model.ToData(current)
		if err != nil {
			return nil, err
		}
		for k, v := range data {
			base[k] = v
		}
		data = base
	}

	doc, err := s.docs.Set(ctx, p, data, true)
	if err != nil {
		for _, u := range uploaded {
			removeObject(ctx, s.objects, tc, u)
		}
		return nil, common.Errorf("failed to update settings: %w", err)
	}
	for _, old := range replaced {
		removeObject(ctx, s.objects, tc, old)
	}
	return decodeOne[model.SiteSettings](doc)
}
