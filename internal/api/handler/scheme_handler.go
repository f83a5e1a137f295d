package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/app/service"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/model"
)

type SchemeHandler struct {
	schemeService *service.SchemeService
}

func NewSchemeHandler(ss *service.SchemeService) *SchemeHandler {
	return &SchemeHandler{schemeService: ss}
}

func (h *SchemeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{schemeID}", h.get)
	r.Put("/{schemeID}", h.update)
	r.Delete("/{schemeID}", h.delete)
}

// RegisterPublicRoutes mounts the citizen view. Only active schemes are
// listed there.
func (h *SchemeHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.listPublic)
	r.Get("/{schemeID}", h.getPublic)
}

func (h *SchemeHandler) list(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	schemes, err := h.schemeService.List(r.Context(), tc, model.SchemeCategory(q.Get("category")), model.SchemeStatus(q.Get("status")))
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, schemes)
}

func (h *SchemeHandler) listPublic(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	schemes, err := h.schemeService.List(r.Context(), tc, model.SchemeCategory(r.URL.Query().Get("category")), model.SchemeActive)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondLocalized(w, r, http.StatusOK, schemes)
}

func (h *SchemeHandler) get(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	scheme, err := h.schemeService.Get(r.Context(), tc, chi.URLParam(r, "schemeID"))
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, scheme)
}

func (h *SchemeHandler) getPublic(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	scheme, err := h.schemeService.Get(r.Context(), tc, chi.URLParam(r, "schemeID"))
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	if scheme.Status != model.SchemeActive {
		common.RespondWithErr(w, common.Errorf("scheme %s: %w", scheme.ID, common.ErrNotFound))
		return
	}
	respondLocalized(w, r, http.StatusOK, scheme)
}

func (h *SchemeHandler) create(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	var req service.CreateSchemeRequest
	if err := common.DecodeJSON(r.Body, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	scheme, err := h.schemeService.Create(r.Context(), tc, req)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, scheme)
}

func (h *SchemeHandler) update(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	var req service.UpdateSchemeRequest
	if err := common.DecodeJSON(r.Body, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	scheme, err := h.schemeService.Update(r.Context(), tc, chi.URLParam(r, "schemeID"), req)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, scheme)
}

func (h *SchemeHandler) delete(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "schemeID")
	if err := h.schemeService.Delete(r.Context(), tc, id); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Scheme deleted", ID: id})
}
