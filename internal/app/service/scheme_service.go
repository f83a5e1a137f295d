package service

import (
	"context"
	"fmt"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/bilingual"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/model"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/repository"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/tenant"
)

type SchemeService struct {
	store contentStore
}

func NewSchemeService(docs repository.DocumentRepository) *SchemeService {
	return &SchemeService{store: contentStore{docs: docs, kind: tenant.KindSchemes}}
}

type CreateSchemeRequest struct {
	Name               bilingual.Text       `json:"name"`
	Category           model.SchemeCategory `json:"category"`
	Description        bilingual.Text       `json:"description"`
	Eligibility        bilingual.Text       `json:"eligibility"`
	DocumentsRequired  bilingual.Text       `json:"documentsRequired"`
	ApplicationProcess bilingual.Text       `json:"applicationProcess"`
	Status             model.SchemeStatus   `json:"status"`
}

type UpdateSchemeRequest struct {
	Name               *bilingual.Text       `json:"name,omitempty"`
	Category           *model.SchemeCategory `json:"category,omitempty"`
	Description        *bilingual.Text       `json:"description,omitempty"`
	Eligibility        *bilingual.Text       `json:"eligibility,omitempty"`
	DocumentsRequired  *bilingual.Text       `json:"documentsRequired,omitempty"`
	ApplicationProcess *bilingual.Text       `json:"applicationProcess,omitempty"`
	Status             *model.SchemeStatus   `json:"status,omitempty"`
}

func validateScheme(s *model.Scheme) error {
	if err := requireText("name", s.Name); err != nil {
		return err
	}
	if err := requireText("description", s.Description); err != nil {
		return err
	}
	if !s.Category.Valid() {
		return fmt.Errorf("unknown scheme category %q: %w", s.Category, common.ErrValidation)
	}
	if s.Status != model.SchemeActive && s.Status != model.SchemeInactive {
		return fmt.Errorf("unknown scheme status %q: %w", s.Status, common.ErrValidation)
	}
	return nil
}

// List returns schemes ordered by English name. category and status are
// optional filters.
func (s *SchemeService) List(ctx context.Context, tc tenant.Context, category model.SchemeCategory, status model.SchemeStatus) ([]model.Scheme, error) {
	q := repository.Query{OrderBy: "name.en"}
	if category != "" {
		q.Where = append(q.Where, repository.Filter{Field: "category", Value: string(category)})
	}
	if status != "" {
		q.Where = append(q.Where, repository.Filter{Field: "status", Value: string(status)})
	}
	docs, err := s.store.list(ctx, tc, q)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.Scheme](docs)
}

func (s *SchemeService) Get(ctx context.Context, tc tenant.Context, id string) (*model.Scheme, error) {
	doc, err := s.store.get(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	return decodeOne[model.Scheme](doc)
}

func (s *SchemeService) Create(ctx context.Context, tc tenant.Context, req CreateSchemeRequest) (*model.Scheme, error) {
	scheme := &model.Scheme{
		Name:               req.Name,
		Category:           req.Category,
		Description:        req.Description,
		Eligibility:        req.Eligibility,
		DocumentsRequired:  req.DocumentsRequired,
		ApplicationProcess: req.ApplicationProcess,
		Status:             req.Status,
	}
	if scheme.Category == "" {
		scheme.Category = model.SchemeCentral
	}
	if scheme.Status == "" {
		scheme.Status = model.SchemeActive
	}
	if err := validateScheme(scheme); err != nil {
		return nil, err
	}
	doc, err := s.store.create(ctx, tc, scheme)
	if err != nil {
		return nil, common.Errorf("failed to create scheme: %w", err)
	}
	return decodeOne[model.Scheme](doc)
}

func (s *SchemeService) Update(ctx context.Context, tc tenant.Context, id string, req UpdateSchemeRequest) (*model.Scheme, error) {
	current, err := s.Get(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	next := *current
	fields := map[string]interface{}{}
	if req.Name != nil {
		next.Name = *req.Name
		fields["name"] = *req.Name
	}
	if req.Category != nil {
		next.Category = *req.Category
		fields["category"] = *req.Category
	}
	if req.Description != nil {
		next.Description = *req.Description
		fields["description"] = *req.Description
	}
	if req.Eligibility != nil {
		next.Eligibility = *req.Eligibility
		fields["eligibility"] = *req.Eligibility
	}
	if req.DocumentsRequired != nil {
		next.DocumentsRequired = *req.DocumentsRequired
		fields["documentsRequired"] = *req.DocumentsRequired
	}
	if req.ApplicationProcess != nil {
		next.ApplicationProcess = *req.ApplicationProcess
		fields["applicationProcess"] = *req.ApplicationProcess
	}
	if req.Status != nil {
		next.Status = *req.Status
		fields["status"] = *req.Status
	}
	if err := validateScheme(&next); err != nil {
		return nil, err
	}

	doc, err := s.store.update(ctx, tc, id, fields)
	if err != nil {
		return nil, err
	}
	return decodeOne[model.Scheme](doc)
}

func (s *SchemeService) Delete(ctx context.Context, tc tenant.Context, id string) error {
	return s.store.delete(ctx, tc, id)
}
