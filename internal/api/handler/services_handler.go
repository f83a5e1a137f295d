package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/app/service"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
)

// ServicesHandler serves the citizen services catalogue (certificates,
// licences and the like).
type ServicesHandler struct {
	servicesService *service.ServicesService
}

func NewServicesHandler(ss *service.ServicesService) *ServicesHandler {
	return &ServicesHandler{servicesService: ss}
}

func (h *ServicesHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list(common.RespondWithJSON))
	r.Post("/", h.create)
	r.Get("/{serviceID}", h.get(common.RespondWithJSON))
	r.Put("/{serviceID}", h.update)
	r.Delete("/{serviceID}", h.delete)
}

func (h *ServicesHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) { h.list(localizedWriter(r))(w, r) })
	r.Get("/{serviceID}", func(w http.ResponseWriter, r *http.Request) { h.get(localizedWriter(r))(w, r) })
}

func (h *ServicesHandler) list(write jsonWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tc, ok := requestTenant(w, r)
		if !ok {
			return
		}
		services, err := h.servicesService.List(r.Context(), tc, r.URL.Query().Get("category"))
		if err != nil {
			common.RespondWithErr(w, err)
			return
		}
		write(w, http.StatusOK, services)
	}
}

func (h *ServicesHandler) get(write jsonWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tc, ok := requestTenant(w, r)
		if !ok {
			return
		}
		svc, err := h.servicesService.Get(r.Context(), tc, chi.URLParam(r, "serviceID"))
		if err != nil {
			common.RespondWithErr(w, err)
			return
		}
		write(w, http.StatusOK, svc)
	}
}

func (h *ServicesHandler) create(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	var req service.CreateServiceRequest
	if err := common.DecodeJSON(r.Body, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	svc, err := h.servicesService.Create(r.Context(), tc, req)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, svc)
}

func (h *ServicesHandler) update(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	var req service.UpdateServiceRequest
	if err := common.DecodeJSON(r.Body, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	svc, err := h.servicesService.Update(r.Context(), tc, chi.URLParam(r, "serviceID"), req)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, svc)
}

func (h *ServicesHandler) delete(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "serviceID")
	if err := h.servicesService.Delete(r.Context(), tc, id); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Service deleted", ID: id})
}
