package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/app/service"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/model"
)

const memberPhotoField = "photo"

type MemberHandler struct {
	memberService  *service.MemberService
	maxUploadBytes int64
}

func NewMemberHandler(ms *service.MemberService, maxUploadBytes int64) *MemberHandler {
	return &MemberHandler{memberService: ms, maxUploadBytes: maxUploadBytes}
}

// RegisterRoutes mounts the admin endpoints. Create and update accept JSON
// or multipart with a "photo" file.
func (h *MemberHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list(common.RespondWithJSON))
	r.Post("/", h.create)
	r.Get("/{memberID}", h.get(common.RespondWithJSON))
	r.Put("/{memberID}", h.update)
	r.Delete("/{memberID}", h.delete)
}

func (h *MemberHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.listPublic)
	r.Get("/{memberID}", h.getPublic)
}

func (h *MemberHandler) list(write jsonWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tc, ok := requestTenant(w, r)
		if !ok {
			return
		}
		members, err := h.memberService.List(r.Context(), tc, model.MemberType(r.URL.Query().Get("type")))
		if err != nil {
			common.RespondWithErr(w, err)
			return
		}
		write(w, http.StatusOK, members)
	}
}

func (h *MemberHandler) get(write jsonWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tc, ok := requestTenant(w, r)
		if !ok {
			return
		}
		member, err := h.memberService.Get(r.Context(), tc, chi.URLParam(r, "memberID"))
		if err != nil {
			common.RespondWithErr(w, err)
			return
		}
		write(w, http.StatusOK, member)
	}
}

func (h *MemberHandler) listPublic(w http.ResponseWriter, r *http.Request) {
	h.list(localizedWriter(r))(w, r)
}

func (h *MemberHandler) getPublic(w http.ResponseWriter, r *http.Request) {
	h.get(localizedWriter(r))(w, r)
}

func (h *MemberHandler) create(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	var req service.CreateMemberRequest
	files, cleanup, err := decodeWithFiles(w, r, h.maxUploadBytes, &req, memberPhotoField)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	defer cleanup()

	member, err := h.memberService.Create(r.Context(), tc, req, files[memberPhotoField])
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, member)
}

func (h *MemberHandler) update(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	var req service.UpdateMemberRequest
	files, cleanup, err := decodeWithFiles(w, r, h.maxUploadBytes, &req, memberPhotoField)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	defer cleanup()

	member, err := h.memberService.Update(r.Context(), tc, chi.URLParam(r, "memberID"), req, files[memberPhotoField])
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, member)
}

func (h *MemberHandler) delete(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "memberID")
	if err := h.memberService.Delete(r.Context(), tc, id); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Member deleted", ID: id})
}
