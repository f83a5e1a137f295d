package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/api/middleware"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/app/service"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes mounts /login and /me.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.login)
	r.With(middleware.Authenticator).Get("/me", h.me)
}

// RegisterUserRoutes mounts admin user management under an already
// authenticated admin router. Listing is scoped by tenantScope.
func (h *AuthHandler) RegisterUserRoutes(r chi.Router, tenantScope func(http.Handler) http.Handler) {
	r.With(middleware.SuperAdminOnly).Post("/", h.createAdmin)
	r.With(tenantScope).Get("/", h.listAdmins)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := common.DecodeJSON(r.Body, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	user, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) createAdmin(w http.ResponseWriter, r *http.Request) {
	var req service.CreateAdminRequest
	if err := common.DecodeJSON(r.Body, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	user, err := h.authService.CreateAdmin(r.Context(), req)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) listAdmins(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	users, err := h.authService.ListAdmins(r.Context(), tc)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, users)
}
