package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/bilingual"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/model"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/tenant"
)

func TestPublicService_Home(t *testing.T) {
	repos := newTestRepos(t)
	registry := testRegistry(t)
	settings := NewSettingsService(repos.docs, nil, registry)
	notices := NewNoticeService(repos.docs)
	notices.now = fixedNow("2025-03-15")
	members := NewMemberService(repos.docs, nil)
	svc := NewPublicService(registry, settings, notices, members)
	ctx := context.Background()

	_, err := notices.Create(ctx, pindkepar, CreateNoticeRequest{Title: bilingual.Text{En: "Gram Sabha"}, StartDate: "2025-03-01", ShowOnHome: true})
	require.NoError(t, err)
	_, err = notices.Create(ctx, pindkepar, CreateNoticeRequest{Title: bilingual.Text{En: "Hidden"}, StartDate: "2025-03-01"})
	require.NoError(t, err)
	_, err = members.Create(ctx, pindkepar, CreateMemberRequest{Name: bilingual.Text{En: "Sunita"}, Type: model.MemberSarpanch}, nil)
	require.NoError(t, err)
	_, err = members.Create(ctx, lodha, CreateMemberRequest{Name: bilingual.Text{En: "Other"}}, nil)
	require.NoError(t, err)

	home, err := svc.Home(ctx, pindkepar)
	require.NoError(t, err)
	assert.Equal(t, "Pindkepar", home.Tenant.Name.En)
	assert.Equal(t, "पिंडकेपार", home.Settings.PanchayatName.Mr)
	require.Len(t, home.Notices, 1)
	assert.Equal(t, "Gram Sabha", home.Notices[0].Title.En)
	require.Len(t, home.Members, 1)
	assert.Equal(t, "Sunita", home.Members[0].Name.En)

	_, err = svc.Home(ctx, tenant.Context{})
	assert.ErrorIs(t, err, common.ErrConfiguration)

	contact, err := svc.Contact(ctx, lodha)
	require.NoError(t, err)
	assert.Equal(t, "Lodha", contact.PanchayatName.En)
}

func TestTranslationService(t *testing.T) {
	tr := newDictTranslator()
	svc := NewTranslationService(tr)
	ctx := context.Background()

	resp, err := svc.Translate(ctx, "  Gram Sabha ")
	require.NoError(t, err)
	assert.Equal(t, "ग्रामसभा", resp.Translation)
	assert.Equal(t, []string{"en|mr|Gram Sabha"}, tr.calls)

	_, err = svc.Translate(ctx, "   ")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.Translate(ctx, strings.Repeat("a", maxTranslateRunes+1))
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.Translate(ctx, "Unknown Phrase")
	assert.ErrorIs(t, err, common.ErrTranslationUnavailable)

	_, err = NewTranslationService(nil).Translate(ctx, "Gram Sabha")
	assert.ErrorIs(t, err, common.ErrTranslationUnavailable)
}
