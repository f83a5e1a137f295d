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

func testRegistry(t *testing.T) *tenant.Registry {
	t.Helper()
	r, err := tenant.NewRegistry([]tenant.Info{
		{ID: "pindkepar", Name: bilingual.Text{En: "Pindkepar", Mr: "पिंडकेपार"}, Active: true},
		{ID: "lodha", Name: bilingual.Text{En: "Lodha", Mr: "लोढा"}, Active: true},
	}, nil, nil)
	require.NoError(t, err)
	return r
}

func TestSettingsService_DefaultsAndInitialize(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewSettingsService(repos.docs, nil, testRegistry(t))
	ctx := context.Background()

	s, err := svc.Get(ctx, pindkepar)
	require.NoError(t, err)
	assert.Equal(t, "पिंडकेपार", s.PanchayatName.Mr)
	assert.Empty(t, s.ID, "defaults are not stored")

	created, ok, err := svc.Initialize(ctx, pindkepar)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "siteConfig", created.ID)

	tagline := bilingual.Text{En: "Clean village", Mr: "स्वच्छ गाव"}
	_, err = svc.Update(ctx, pindkepar, UpdateSettingsRequest{Tagline: &tagline}, SettingsUploads{})
	require.NoError(t, err)

	again, ok, err := svc.Initialize(ctx, pindkepar)
	require.NoError(t, err)
	assert.False(t, ok, "existing settings are kept")
	assert.Equal(t, "Clean village", again.Tagline.En)

	unknown, err := svc.Get(ctx, tenant.Context{ID: "new-village"})
	require.NoError(t, err)
	assert.Equal(t, "new-village", unknown.PanchayatName.En)
}

func TestSettingsService_UpdateMergesAndReplacesImages(t *testing.T) {
	repos := newTestRepos(t)
	objects := newFakeObjects()
	svc := NewSettingsService(repos.docs, objects, testRegistry(t))
	svc.now = tickingNow()
	ctx := context.Background()

	contact := model.Contact{Phone: "0712-000000", Address: bilingual.Text{En: "Village Hall"}}
	first, err := svc.Update(ctx, pindkepar, UpdateSettingsRequest{Contact: &contact}, SettingsUploads{Logo: upload("logo.png", "logo-v1")})
	require.NoError(t, err)
	assert.Equal(t, "Pindkepar", first.PanchayatName.En, "first save starts from the defaults")
	assert.Equal(t, "0712-000000", first.Contact.Phone)
	require.NotEmpty(t, first.Logo)
	assert.Contains(t, first.Logo, "/media/tenants/pindkepar/settings/")

	link := "https://maps.example/pindkepar"
	second, err := svc.Update(ctx, pindkepar, UpdateSettingsRequest{GoogleMapsLink: &link}, SettingsUploads{
		Logo:        upload("logo.png", "logo-v2"),
		OfficePhoto: upload("office.jpg", "office"),
	})
	require.NoError(t, err)
	assert.Equal(t, link, second.GoogleMapsLink)
	assert.Equal(t, "0712-000000", second.Contact.Phone, "untouched fields survive")
	assert.NotEqual(t, first.Logo, second.Logo)
	assert.False(t, objects.has(first.Logo), "replaced logo is deleted")
	assert.True(t, objects.has(second.OfficePhoto))

	third, err := svc.Update(ctx, pindkepar, UpdateSettingsRequest{RemoveOfficePhoto: true}, SettingsUploads{})
	require.NoError(t, err)
	assert.Empty(t, third.OfficePhoto)
	assert.False(t, objects.has(second.OfficePhoto))
	assert.Equal(t, second.Logo, third.Logo)

	empty := bilingual.Text{Mr: "फक्त"}
	_, err = svc.Update(ctx, pindkepar, UpdateSettingsRequest{PanchayatName: &empty}, SettingsUploads{})
	assert.ErrorIs(t, err, common.ErrValidation)

	other, err := svc.Get(ctx, lodha)
	require.NoError(t, err)
	assert.Empty(t, other.Logo)
	assert.Equal(t, "Lodha", other.PanchayatName.En)
}
