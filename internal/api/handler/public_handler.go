package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/app/service"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
)

// PublicHandler serves the aggregate pages of the citizen site.
type PublicHandler struct {
	publicService *service.PublicService
}

func NewPublicHandler(ps *service.PublicService) *PublicHandler {
	return &PublicHandler{publicService: ps}
}

func (h *PublicHandler) RegisterRoutes(r chi.Router) {
	r.Get("/tenant", h.tenant)
	r.Get("/home", h.home)
	r.Get("/contact", h.contact)
}

func (h *PublicHandler) tenant(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	info, err := h.publicService.Tenant(tc)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondLocalized(w, r, http.StatusOK, info)
}

func (h *PublicHandler) home(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	resp, err := h.publicService.Home(r.Context(), tc)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondLocalized(w, r, http.StatusOK, resp)
}

func (h *PublicHandler) contact(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	resp, err := h.publicService.Contact(r.Context(), tc)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondLocalized(w, r, http.StatusOK, resp)
}
