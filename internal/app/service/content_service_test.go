package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/bilingual"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/model"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/tenant"
)

func TestMemberService_CRUDWithPhoto(t *testing.T) {
	repos := newTestRepos(t)
	objects := newFakeObjects()
	svc := NewMemberService(repos.docs, objects)
	svc.now = tickingNow()
	ctx := context.Background()

	m, err := svc.Create(ctx, pindkepar, CreateMemberRequest{
		Name:     bilingual.Text{En: "Sunita Patil", Mr: "सुनीता पाटील"},
		Type:     model.MemberSarpanch,
		Position: 1,
	}, upload("Sunita Photo.png", "png-bytes"))
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.Contains(t, m.Photo, "/media/tenants/pindkepar/members/")
	assert.True(t, objects.has(m.Photo))

	got, err := svc.Get(ctx, pindkepar, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sunita Patil", got.Name.En)
	assert.Equal(t, model.MemberSarpanch, got.Type)

	oldPhoto := m.Photo
	phone := "9876543210"
	updated, err := svc.Update(ctx, pindkepar, m.ID, UpdateMemberRequest{Phone: &phone}, upload("new.png", "new-bytes"))
	require.NoError(t, err)
	assert.Equal(t, phone, updated.Phone)
	assert.Equal(t, "Sunita Patil", updated.Name.En)
	assert.NotEqual(t, oldPhoto, updated.Photo)
	assert.False(t, objects.has(oldPhoto))
	assert.True(t, objects.has(updated.Photo))

	require.NoError(t, svc.Delete(ctx, pindkepar, m.ID))
	assert.False(t, objects.has(updated.Photo))
	_, err = svc.Get(ctx, pindkepar, m.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMemberService_ListOrderAndFilter(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewMemberService(repos.docs, nil)
	ctx := context.Background()

	for _, req := range []CreateMemberRequest{
		{Name: bilingual.Text{En: "Clerk"}, Type: model.MemberStaff, Position: 10},
		{Name: bilingual.Text{En: "Sarpanch"}, Type: model.MemberSarpanch, Position: 1},
		{Name: bilingual.Text{En: "Member"}, Position: 3},
	} {
		_, err := svc.Create(ctx, pindkepar, req, nil)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, pindkepar, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Sarpanch", "Member", "Clerk"}, []string{all[0].Name.En, all[1].Name.En, all[2].Name.En})
	assert.Equal(t, model.MemberRegular, all[1].Type)

	staff, err := svc.List(ctx, pindkepar, model.MemberStaff)
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, "Clerk", staff[0].Name.En)

	_, err = svc.List(ctx, pindkepar, "MAYOR")
	assert.ErrorIs(t, err, common.ErrBadRequest)

	other, err := svc.List(ctx, lodha, "")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMemberService_Validation(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewMemberService(repos.docs, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, pindkepar, CreateMemberRequest{Name: bilingual.Text{Mr: "फक्त मराठी"}}, nil)
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.Create(ctx, pindkepar, CreateMemberRequest{
		Name: bilingual.Text{En: "A"}, TermStart: "2025-01-01", TermEnd: "2024-01-01",
	}, nil)
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.Create(ctx, pindkepar, CreateMemberRequest{Name: bilingual.Text{En: "A"}, TermStart: "01/01/2025"}, nil)
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.Create(ctx, tenant.Context{}, CreateMemberRequest{Name: bilingual.Text{En: "A"}}, nil)
	assert.ErrorIs(t, err, common.ErrConfiguration)

	_, err = svc.Create(ctx, pindkepar, CreateMemberRequest{Name: bilingual.Text{En: "A"}}, upload("a.png", "x"))
	assert.ErrorIs(t, err, common.ErrServiceUnavailable)
}

func TestMemberService_TenantIsolation(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewMemberService(repos.docs, nil)
	ctx := context.Background()

	m, err := svc.Create(ctx, pindkepar, CreateMemberRequest{Name: bilingual.Text{En: "Sunita"}}, nil)
	require.NoError(t, err)

	_, err = svc.Get(ctx, lodha, m.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, lodha, m.ID), common.ErrNotFound)

	_, err = svc.Get(ctx, pindkepar, m.ID)
	assert.NoError(t, err)
}

func TestServicesService(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewServicesService(repos.docs)
	ctx := context.Background()

	_, err := svc.Create(ctx, pindkepar, CreateServiceRequest{Name: bilingual.Text{En: "Water Supply"}, Description: bilingual.Text{En: "Tap connection"}})
	assert.ErrorIs(t, err, common.ErrValidation, "fees are required")

	water, err := svc.Create(ctx, pindkepar, CreateServiceRequest{
		Name: bilingual.Text{En: "Water Supply"}, Description: bilingual.Text{En: "Tap connection"}, Fees: "100", Category: "Utility",
	})
	require.NoError(t, err)
	birth, err := svc.Create(ctx, pindkepar, CreateServiceRequest{
		Name: bilingual.Text{En: "Birth Certificate"}, Description: bilingual.Text{En: "Register a birth"}, Fees: "Free",
	})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultServiceCategory, birth.Category)

	all, err := svc.List(ctx, pindkepar, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Birth Certificate", all[0].Name.En)
	assert.Equal(t, "Water Supply", all[1].Name.En)

	certs, err := svc.List(ctx, pindkepar, model.DefaultServiceCategory)
	require.NoError(t, err)
	require.Len(t, certs, 1)
	assert.Equal(t, birth.ID, certs[0].ID)

	fees := "150"
	updated, err := svc.Update(ctx, pindkepar, water.ID, UpdateServiceRequest{Fees: &fees})
	require.NoError(t, err)
	assert.Equal(t, "150", updated.Fees)
	assert.Equal(t, "Tap connection", updated.Description.En)

	empty := bilingual.Text{}
	_, err = svc.Update(ctx, pindkepar, water.ID, UpdateServiceRequest{Name: &empty})
	assert.ErrorIs(t, err, common.ErrValidation)

	require.NoError(t, svc.Delete(ctx, pindkepar, water.ID))
	_, err = svc.Get(ctx, pindkepar, water.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSchemeService(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewSchemeService(repos.docs)
	ctx := context.Background()

	_, err := svc.Create(ctx, pindkepar, CreateSchemeRequest{
		Name: bilingual.Text{En: "PM Awas"}, Description: bilingual.Text{En: "Housing"}, Category: "GLOBAL",
	})
	assert.ErrorIs(t, err, common.ErrValidation)

	awas, err := svc.Create(ctx, pindkepar, CreateSchemeRequest{
		Name: bilingual.Text{En: "PM Awas"}, Description: bilingual.Text{En: "Housing"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.SchemeCentral, awas.Category)
	assert.Equal(t, model.SchemeActive, awas.Status)

	_, err = svc.Create(ctx, pindkepar, CreateSchemeRequest{
		Name: bilingual.Text{En: "Jal Yukta"}, Description: bilingual.Text{En: "Water"},
		Category: model.SchemeState, Status: model.SchemeInactive,
	})
	require.NoError(t, err)

	active, err := svc.List(ctx, pindkepar, "", model.SchemeActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, awas.ID, active[0].ID)

	state, err := svc.List(ctx, pindkepar, model.SchemeState, "")
	require.NoError(t, err)
	require.Len(t, state, 1)
	assert.Equal(t, "Jal Yukta", state[0].Name.En)

	bad := model.SchemeStatus("PAUSED")
	_, err = svc.Update(ctx, pindkepar, awas.ID, UpdateSchemeRequest{Status: &bad})
	assert.ErrorIs(t, err, common.ErrValidation)

	inactive := model.SchemeInactive
	updated, err := svc.Update(ctx, pindkepar, awas.ID, UpdateSchemeRequest{Status: &inactive})
	require.NoError(t, err)
	assert.Equal(t, model.SchemeInactive, updated.Status)
}

func TestNoticeService_ActiveAndHome(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewNoticeService(repos.docs)
	svc.now = fixedNow("2025-03-15")
	ctx := context.Background()

	create := func(title, start, end string, home bool) *model.Notice {
		n, err := svc.Create(ctx, pindkepar, CreateNoticeRequest{
			Title: bilingual.Text{En: title}, StartDate: start, EndDate: end, ShowOnHome: home,
		})
		require.NoError(t, err)
		return n
	}
	past := create("Past", "2025-01-01", "2025-01-31", true)
	current := create("Current", "2025-03-01", "2025-03-15", true)
	openEnded := create("Open", "2025-02-01", "", false)
	future := create("Future", "2025-04-01", "", true)
	assert.Equal(t, model.NoticeAnnouncement, past.Type)

	all, err := svc.List(ctx, pindkepar)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, future.ID, all[0].ID, "newest start date first")
	assert.Equal(t, past.ID, all[3].ID)

	active, err := svc.ListActive(ctx, pindkepar)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, current.ID, active[0].ID)
	assert.Equal(t, openEnded.ID, active[1].ID)

	home, err := svc.ListHome(ctx, pindkepar)
	require.NoError(t, err)
	require.Len(t, home, 1)
	assert.Equal(t, current.ID, home[0].ID)
}

func TestNoticeService_Validation(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewNoticeService(repos.docs)
	ctx := context.Background()

	_, err := svc.Create(ctx, pindkepar, CreateNoticeRequest{Title: bilingual.Text{En: "T"}})
	assert.ErrorIs(t, err, common.ErrValidation, "start date is required")

	_, err = svc.Create(ctx, pindkepar, CreateNoticeRequest{Title: bilingual.Text{En: "T"}, StartDate: "2025-03-10", EndDate: "2025-03-01"})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.Create(ctx, pindkepar, CreateNoticeRequest{Title: bilingual.Text{En: "T"}, StartDate: "2025-03-10", Type: "CIRCULAR"})
	assert.ErrorIs(t, err, common.ErrValidation)

	n, err := svc.Create(ctx, pindkepar, CreateNoticeRequest{Title: bilingual.Text{En: "T"}, StartDate: "2025-03-10", Type: model.NoticeMeeting})
	require.NoError(t, err)

	early := "2025-03-01"
	_, err = svc.Update(ctx, pindkepar, n.ID, UpdateNoticeRequest{EndDate: &early})
	assert.ErrorIs(t, err, common.ErrValidation)

	home := true
	updated, err := svc.Update(ctx, pindkepar, n.ID, UpdateNoticeRequest{ShowOnHome: &home})
	require.NoError(t, err)
	assert.True(t, updated.ShowOnHome)
	assert.Equal(t, model.NoticeMeeting, updated.Type)
}
