package service

import (
	"context"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/bilingual"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/model"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/repository"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/tenant"
)

// ServicesService manages the citizen services catalogue.
type ServicesService struct {
	store contentStore
}

func NewServicesService(docs repository.DocumentRepository) *ServicesService {
	return &ServicesService{store: contentStore{docs: docs, kind: tenant.KindServices}}
}

type CreateServiceRequest struct {
	Name              bilingual.Text `json:"name"`
	Category          string         `json:"category"`
	Description       bilingual.Text `json:"description"`
	RequiredDocuments bilingual.Text `json:"requiredDocuments"`
	HowToApply        bilingual.Text `json:"howToApply"`
	Fees              string         `json:"fees"`
	ProcessingTime    string         `json:"processingTime"`
}

type UpdateServiceRequest struct {
	Name              *bilingual.Text `json:"name,omitempty"`
	Category          *string         `json:"category,omitempty"`
	Description       *bilingual.Text `json:"description,omitempty"`
	RequiredDocuments *bilingual.Text `json:"requiredDocuments,omitempty"`
	HowToApply        *bilingual.Text `json:"howToApply,omitempty"`
	Fees              *string         `json:"fees,omitempty"`
	ProcessingTime    *string         `json:"processingTime,omitempty"`
}

func validateService(s *model.Service) error {
	if err := requireText("name", s.Name); err != nil {
		return err
	}
	if err := requireText("description", s.Description); err != nil {
		return err
	}
	return requireString("fees", s.Fees)
}

// List returns services ordered by English name, optionally in one category.
func (s *ServicesService) List(ctx context.Context, tc tenant.Context, category string) ([]model.Service, error) {
	q := repository.Query{OrderBy: "name.en"}
	if category != "" {
		q.Where = []repository.Filter{{Field: "category", Value: category}}
	}
	docs, err := s.store.list(ctx, tc, q)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.Service](docs)
}

func (s *ServicesService) Get(ctx context.Context, tc tenant.Context, id string) (*model.Service, error) {
	doc, err := s.store.get(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	return decodeOne[model.Service](doc)
}

func (s *ServicesService) Create(ctx context.Context, tc tenant.Context, req CreateServiceRequest) (*model.Service, error) {
	svc := &model.Service{
		Name:              req.Name,
		Category:          req.Category,
		Description:       req.Description,
		RequiredDocuments: req.RequiredDocuments,
		HowToApply:        req.HowToApply,
		Fees:              req.Fees,
		ProcessingTime:    req.ProcessingTime,
	}
	if svc.Category == "" {
		svc.Category = model.DefaultServiceCategory
	}
	if err := validateService(svc); err != nil {
		return nil, err
	}
	doc, err := s.store.create(ctx, tc, svc)
	if err != nil {
		return nil, common.Errorf("failed to create service: %w", err)
	}
	return decodeOne[model.Service](doc)
}

func (s *ServicesService) Update(ctx context.Context, tc tenant.Context, id string, req UpdateServiceRequest) (*model.Service, error) {
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
	if req.RequiredDocuments != nil {
		next.RequiredDocuments = *req.RequiredDocuments
		fields["requiredDocuments"] = *req.RequiredDocuments
	}
	if req.HowToApply != nil {
		next.HowToApply = *req.HowToApply
		fields["howToApply"] = *req.HowToApply
	}
	if req.Fees != nil {
		next.Fees = *req.Fees
		fields["fees"] = *req.Fees
	}
	if req.ProcessingTime != nil {
		next.ProcessingTime = *req.ProcessingTime
		fields["processingTime"] = *req.ProcessingTime
	}
	if err := validateService(&next); err != nil {
		return nil, err
	}

	doc, err := s.store.update(ctx, tc, id, fields)
	if err != nil {
		return nil, err
	}
	return decodeOne[model.Service](doc)
}

func (s *ServicesService) Delete(ctx context.Context, tc tenant.Context, id string) error {
	return s.store.delete(ctx, tc, id)
}
