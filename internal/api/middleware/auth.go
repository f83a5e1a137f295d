package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/jwtauth/v5"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common/security"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/model"
)

type contextKey string

const (
	UserIDCtxKey       contextKey = "userID"
	UserRoleCtxKey     contextKey = "userRole"
	UserTenantIDCtxKey contextKey = "userTenantID"
	TenantCtxKey       contextKey = "tenant"
)

// Authenticator rejects requests without a valid token and stores the
// token's claims in the request context.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())

		if err != nil {
			if strings.Contains(err.Error(), "no token found") || token == nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
			} else {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token: "+err.Error())
			}
			return
		}

		if token == nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		c, err := security.ClaimsFromMap(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), UserIDCtxKey, c.UserID)
		ctx = context.WithValue(ctx, UserRoleCtxKey, c.Role)
		ctx = context.WithValue(ctx, UserTenantIDCtxKey, c.TenantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnly lets panchayat admins and super admins through.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := r.Context().Value(UserRoleCtxKey).(string)
		if !ok || (role != model.RoleAdmin && role != model.RoleSuperAdmin) {
			common.RespondWithError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func SuperAdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := r.Context().Value(UserRoleCtxKey).(string)
		if !ok || role != model.RoleSuperAdmin {
			common.RespondWithError(w, http.StatusForbidden, "Super admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Helper to get user ID from context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok
}

// Helper to get user role from context
func GetUserRoleFromContext(ctx context.Context) (string, bool) {
	userRole, ok := ctx.Value(UserRoleCtxKey).(string)
	return userRole, ok
}

// GetUserTenantIDFromContext returns the tenant claim of the token. It is
// empty for super admins.
func GetUserTenantIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserTenantIDCtxKey).(string)
	return id, ok
}
