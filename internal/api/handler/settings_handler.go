package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/app/service"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
)

const (
	logoField        = "logo"
	officePhotoField = "officePhoto"
)

type SettingsHandler struct {
	settingsService *service.SettingsService
	maxUploadBytes  int64
}

func NewSettingsHandler(ss *service.SettingsService, maxUploadBytes int64) *SettingsHandler {
	return &SettingsHandler{settingsService: ss, maxUploadBytes: maxUploadBytes}
}

// RegisterRoutes mounts the admin endpoints. PUT accepts JSON or multipart
// with optional "logo" and "officePhoto" files.
func (h *SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.get)
	r.Put("/", h.update)
	r.Post("/initialize", h.initialize)
}

func (h *SettingsHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.getPublic)
}

func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	settings, err := h.settingsService.Get(r.Context(), tc)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) getPublic(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	settings, err := h.settingsService.Get(r.Context(), tc)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondLocalized(w, r, http.StatusOK, settings)
}

func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	var req service.UpdateSettingsRequest
	files, cleanup, err := decodeWithFiles(w, r, h.maxUploadBytes, &req, logoField, officePhotoField)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	defer cleanup()

	settings, err := h.settingsService.Update(r.Context(), tc, req, service.SettingsUploads{
		Logo:        files[logoField],
		OfficePhoto: files[officePhotoField],
	})
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) initialize(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	settings, created, err := h.settingsService.Initialize(r.Context(), tc)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	common.RespondWithJSON(w, code, settings)
}
