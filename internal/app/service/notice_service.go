package service

import (
	"context"
	"fmt"
	"time"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/bilingual"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/model"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/repository"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/tenant"
)

type NoticeService struct {
	store contentStore
	now   func() time.Time
}

func NewNoticeService(docs repository.DocumentRepository) *NoticeService {
	return &NoticeService{store: contentStore{docs: docs, kind: tenant.KindNotices}, now: time.Now}
}

type CreateNoticeRequest struct {
	Title       bilingual.Text   `json:"title"`
	Description bilingual.Text   `json:"description"`
	Type        model.NoticeType `json:"type"`
	StartDate   string           `json:"startDate"`
	EndDate     string           `json:"endDate"`
	ShowOnHome  bool             `json:"showOnHome"`
}

type UpdateNoticeRequest struct {
	Title       *bilingual.Text   `json:"title,omitempty"`
	Description *bilingual.Text   `json:"description,omitempty"`
	Type        *model.NoticeType `json:"type,omitempty"`
	StartDate   *string           `json:"startDate,omitempty"`
	EndDate     *string           `json:"endDate,omitempty"`
	ShowOnHome  *bool             `json:"showOnHome,omitempty"`
}

func validateNotice(n *model.Notice) error {
	if err := requireText("title", n.Title); err != nil {
		return err
	}
	if !n.Type.Valid() {
		return fmt.Errorf("unknown notice type %q: %w", n.Type, common.ErrValidation)
	}
	if err := requireString("startDate", n.StartDate); err != nil {
		return err
	}
	if err := validDate("startDate", n.StartDate); err != nil {
		return err
	}
	if err := validDate("endDate", n.EndDate); err != nil {
		return err
	}
	if n.EndDate != "" && n.EndDate < n.StartDate {
		return fmt.Errorf("endDate is before startDate: %w", common.ErrValidation)
	}
	return nil
}

// List returns every notice, newest start date first.
func (s *NoticeService) List(ctx context.Context, tc tenant.Context) ([]model.Notice, error) {
	docs, err := s.store.list(ctx, tc, repository.Query{OrderBy: "startDate", Desc: true})
	if err != nil {
		return nil, err
	}
	return decodeAll[model.Notice](docs)
}

// ListActive returns notices whose window contains today.
func (s *NoticeService) ListActive(ctx context.Context, tc tenant.Context) ([]model.Notice, error) {
	all, err := s.List(ctx, tc)
	if err != nil {
		return nil, err
	}
	today := model.Today(s.now())
	active := []model.Notice{}
	for i := range all {
		if all[i].ActiveOn(today) {
			active = append(active, all[i])
		}
	}
	return active, nil
}

// ListHome returns the active notices flagged for the home page.
func (s *NoticeService) ListHome(ctx context.Context, tc tenant.Context) ([]model.Notice, error) {
	active, err := s.ListActive(ctx, tc)
	if err != nil {
		return nil, err
	}
	home := []model.Notice{}
	for _, n := range active {
		if n.ShowOnHome {
			home = append(home, n)
		}
	}
	return home, nil
}

func (s *NoticeService) Get(ctx context.Context, tc tenant.Context, id string) (*model.Notice, error) {
	doc, err := s.store.get(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	return decodeOne[model.Notice](doc)
}

// GetActive is Get for the public site: notices outside their window are
// reported as not found.
func (s *NoticeService) GetActive(ctx context.Context, tc tenant.Context, id string) (*model.Notice, error) {
	n, err := s.Get(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	if !n.ActiveOn(model.Today(s.now())) {
		return nil, fmt.Errorf("notice %s is not active: %w", id, common.ErrNotFound)
	}
	return n, nil
}

func (s *NoticeService) Create(ctx context.Context, tc tenant.Context, req CreateNoticeRequest) (*model.Notice, error) {
	n := &model.Notice{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		ShowOnHome:  req.ShowOnHome,
	}
	if n.Type == "" {
		n.Type = model.NoticeAnnouncement
	}
	if err := validateNotice(n); err != nil {
		return nil, err
	}
	doc, err := s.store.create(ctx, tc, n)
	if err != nil {
		return nil, common.Errorf("failed to create notice: %w", err)
	}
	return decodeOne[model.Notice](doc)
}

func (s *NoticeService) Update(ctx context.Context, tc tenant.Context, id string, req UpdateNoticeRequest) (*model.Notice, error) {
	current, err := s.Get(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	next := *current
	fields := map[string]interface{}{}
	if req.Title != nil {
		next.Title = *req.Title
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		next.Description = *req.Description
		fields["description"] = *req.Description
	}
	if req.Type != nil {
		next.Type = *req.Type
		fields["type"] = *req.Type
	}
	if req.StartDate != nil {
		next.StartDate = *req.StartDate
		fields["startDate"] = *req.StartDate
	}
	if req.EndDate != nil {
		next.EndDate = *req.EndDate
		fields["endDate"] = *req.EndDate
	}
	if req.ShowOnHome != nil {
		next.ShowOnHome = *req.ShowOnHome
		fields["showOnHome"] = *req.ShowOnHome
	}
	if err := validateNotice(&next); err != nil {
		return nil, err
	}

	doc, err := s.store.update(ctx, tc, id, fields)
	if err != nil {
		return nil, err
	}
	return decodeOne[model.Notice](doc)
}

func (s *NoticeService) Delete(ctx context.Context, tc tenant.Context, id string) error {
	return s.store.delete(ctx, tc, id)
}
