package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/app/service"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/model"
)

type NoticeHandler struct {
	noticeService *service.NoticeService
}

func NewNoticeHandler(ns *service.NoticeService) *NoticeHandler {
	return &NoticeHandler{noticeService: ns}
}

func (h *NoticeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{noticeID}", h.get)
	r.Put("/{noticeID}", h.update)
	r.Delete("/{noticeID}", h.delete)
}

// RegisterPublicRoutes mounts the citizen view, which only ever shows
// notices active today.
func (h *NoticeHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.listActive)
	r.Get("/{noticeID}", h.getActive)
}

func (h *NoticeHandler) list(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	notices, err := h.noticeService.List(r.Context(), tc)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, notices)
}

func (h *NoticeHandler) listActive(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	var (
		notices []model.Notice
		err     error
	)
	if r.URL.Query().Get("home") == "true" {
		notices, err = h.noticeService.ListHome(r.Context(), tc)
	} else {
		notices, err = h.noticeService.ListActive(r.Context(), tc)
	}
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondLocalized(w, r, http.StatusOK, notices)
}

func (h *NoticeHandler) get(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	notice, err := h.noticeService.Get(r.Context(), tc, chi.URLParam(r, "noticeID"))
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, notice)
}

func (h *NoticeHandler) getActive(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	notice, err := h.noticeService.GetActive(r.Context(), tc, chi.URLParam(r, "noticeID"))
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	respondLocalized(w, r, http.StatusOK, notice)
}

func (h *NoticeHandler) create(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	var req service.CreateNoticeRequest
	if err := common.DecodeJSON(r.Body, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	notice, err := h.noticeService.Create(r.Context(), tc, req)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, notice)
}

func (h *NoticeHandler) update(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	var req service.UpdateNoticeRequest
	if err := common.DecodeJSON(r.Body, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	notice, err := h.noticeService.Update(r.Context(), tc, chi.URLParam(r, "noticeID"), req)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, notice)
}

func (h *NoticeHandler) delete(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "noticeID")
	if err := h.noticeService.Delete(r.Context(), tc, id); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Notice deleted", ID: id})
}
