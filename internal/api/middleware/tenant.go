package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/model"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/tenant"
)

// TenantDetector resolves the tenant of a request.
type TenantDetector interface {
	Detect(r *http.Request) (tenant.Context, error)
	// Names reports whether the request selects a tenant itself.
	Names(r *http.Request) bool
}

// Tenant resolves the tenant once per request and stores it in the request
// context. Requests that map to no tenant are rejected.
func Tenant(d TenantDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tc, err := d.Detect(r)
			if err != nil {
				common.RespondWithErr(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), tc)))
		})
	}
}

// TenantAccess resolves the tenant of an admin request and checks that the
// caller may manage it. When the request itself names no tenant, an admin's
// own tenant is used. A tenant the request names explicitly is never
// replaced. Must run after Authenticator.
func TenantAccess(d TenantDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, _ := GetUserRoleFromContext(r.Context())
			userTenant, _ := GetUserTenantIDFromContext(r.Context())

			tc, err := d.Detect(r)
			if err != nil {
				if d.Names(r) || role != model.RoleAdmin || userTenant == "" {
					common.RespondWithErr(w, err)
					return
				}
				if tc, err = tenant.NewContext(userTenant); err != nil {
					common.RespondWithErr(w, err)
					return
				}
			}

			u := model.User{Role: role, TenantID: userTenant}
			if !u.CanManage(tc.ID) {
				common.RespondWithErr(w, fmt.Errorf("no access to tenant %q: %w", tc.ID, common.ErrForbidden))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), tc)))
		})
	}
}

func WithTenant(ctx context.Context, tc tenant.Context) context.Context {
	return context.WithValue(ctx, TenantCtxKey, tc)
}

// TenantFromContext returns the tenant stored by Tenant or TenantAccess.
func TenantFromContext(ctx context.Context) (tenant.Context, error) {
	tc, ok := ctx.Value(TenantCtxKey).(tenant.Context)
	if !ok {
		return tenant.Context{}, fmt.Errorf("no tenant in request context: %w", common.ErrConfiguration)
	}
	return tc, nil
}
