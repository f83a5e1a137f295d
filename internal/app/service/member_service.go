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

const memberPhotoCategory = "members"

type MemberService struct {
	store   contentStore
	objects ObjectStorage
	now     func() time.Time
}

func NewMemberService(docs repository.DocumentRepository, objects ObjectStorage) *MemberService {
	return &MemberService{
		store:   contentStore{docs: docs, kind: tenant.KindMembers},
		objects: objects,
		now:     time.Now,
	}
}

type CreateMemberRequest struct {
	Name        bilingual.Text   `json:"name"`
	Designation bilingual.Text   `json:"designation"`
	Phone       string           `json:"phone"`
	Type        model.MemberType `json:"type"`
	Position    int              `json:"position"`
	TermStart   string           `json:"termStart"`
	TermEnd     string           `json:"termEnd"`
}

type UpdateMemberRequest struct {
	Name        *bilingual.Text   `json:"name,omitempty"`
	Designation *bilingual.Text   `json:"designation,omitempty"`
	Phone       *string           `json:"phone,omitempty"`
	Type        *model.MemberType `json:"type,omitempty"`
	Position    *int              `json:"position,omitempty"`
	TermStart   *string           `json:"termStart,omitempty"`
	TermEnd     *string           `json:"termEnd,omitempty"`
	RemovePhoto bool              `json:"removePhoto,omitempty"`
}

func validateMember(m *model.Member) error {
	if err := requireText("name", m.Name); err != nil {
		return err
	}
	if !m.Type.Valid() {
		return fmt.Errorf("unknown member type %q: %w", m.Type, common.ErrValidation)
	}
	if m.Position < 0 {
		return fmt.Errorf("position must not be negative: %w", common.ErrValidation)
	}
	if err := validDate("termStart", m.TermStart); err != nil {
		return err
	}
	if err := validDate("termEnd", m.TermEnd); err != nil {
		return err
	}
	if m.TermStart != "" && m.TermEnd != "" && m.TermEnd < m.TermStart {
		return fmt.Errorf("termEnd is before termStart: %w", common.ErrValidation)
	}
	return nil
}

// List returns members ordered by position, optionally of one type only.
func (s *MemberService) List(ctx context.Context, tc tenant.Context, memberType model.MemberType) ([]model.Member, error) {
	q := repository.Query{OrderBy: "position"}
	if memberType != "" {
		if !memberType.Valid() {
			return nil, fmt.Errorf("unknown member type %q: %w", memberType, common.ErrBadRequest)
		}
		q.Where = []repository.Filter{{Field: "type", Value: string(memberType)}}
	}
	docs, err := s.store.list(ctx, tc, q)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.Member](docs)
}

func (s *MemberService) Get(ctx context.Context, tc tenant.Context, id string) (*model.Member, error) {
	doc, err := s.store.get(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	return decodeOne[model.Member](doc)
}

// Create stores a member; photo is optional.
func (s *MemberService) Create(ctx context.Context, tc tenant.Context, req CreateMemberRequest, photo *Upload) (*model.Member, error) {
	m := &model.Member{
		Name:        req.Name,
		Designation: req.Designation,
		Phone:       req.Phone,
		Type:        req.Type,
		Position:    req.Position,
		TermStart:   req.TermStart,
		TermEnd:     req.TermEnd,
	}
	if m.Type == "" {
		m.Type = model.MemberRegular
	}
	if err := validateMember(m); err != nil {
		return nil, err
	}
	if err := tc.Validate(); err != nil {
		return nil, err
	}

	if photo != nil {
		url, err := storeUpload(ctx, s.objects, tc, memberPhotoCategory, photo, s.now())
		if err != nil {
			return nil, common.Errorf("failed to upload member photo: %w", err)
		}
		m.Photo = url
	}

	doc, err := s.store.create(ctx, tc, m)
	if err != nil {
		removeObject(ctx, s.objects, tc, m.Photo)
		return nil, common.Errorf("failed to create member: %w", err)
	}
	return decodeOne[model.Member](doc)
}

// Update applies the non-nil fields of req. A new photo replaces (and
// deletes) the previous one.
func (s *MemberService) Update(ctx context.Context, tc tenant.Context, id string, req UpdateMemberRequest, photo *Upload) (*model.Member, error) {
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
	if req.Designation != nil {
		next.Designation = *req.Designation
		fields["designation"] = *req.Designation
	}
	if req.Phone != nil {
		next.Phone = *req.Phone
		fields["phone"] = *req.Phone
	}
	if req.Type != nil {
		next.Type = *req.Type
		fields["type"] = *req.Type
	}
	if req.Position != nil {
		next.Position = *req.Position
		fields["position"] = *req.Position
	}
	if req.TermStart != nil {
		next.TermStart = *req.TermStart
		fields["termStart"] = *req.TermStart
	}
	if req.TermEnd != nil {
		next.TermEnd = *req.TermEnd
		fields["termEnd"] = *req.TermEnd
	}
	if err := validateMember(&next); err != nil {
		return nil, err
	}

	var oldPhoto string
	if photo != nil {
		url, err := storeUpload(ctx, s.objects, tc, memberPhotoCategory, photo, s.now())
		if err != nil {
			return nil, common.Errorf("failed to upload member photo: %w", err)
		}
		fields["photo"] = url
		if url != current.Photo {
			oldPhoto = current.Photo
		}
	} else if req.RemovePhoto {
		fields["photo"] = ""
		oldPhoto = current.Photo
	}

	doc, err := s.store.update(ctx, tc, id, fields)
	if err != nil {
		if url, ok := fields["photo"].(string); ok {
			removeObject(ctx, s.objects, tc, url)
		}
		return nil, err
	}
	removeObject(ctx, s.objects, tc, oldPhoto)
	return decodeOne[model.Member](doc)
}

// Delete removes the member and its photo.
func (s *MemberService) Delete(ctx context.Context, tc tenant.Context, id string) error {
	current, err := s.Get(ctx, tc, id)
	if err != nil {
		return err
	}
	if err := s.store.delete(ctx, tc, id); err != nil {
		return err
	}
	removeObject(ctx, s.objects, tc, current.Photo)
	return nil
}
