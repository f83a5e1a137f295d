package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/app/service"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/model"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/tenant"
)

// TranslationHandler serves one-shot translations and backfill jobs.
type TranslationHandler struct {
	translationService *service.TranslationService
	backfillService    *service.BackfillService
}

func NewTranslationHandler(ts *service.TranslationService, bs *service.BackfillService) *TranslationHandler {
	return &TranslationHandler{translationService: ts, backfillService: bs}
}

// RegisterTranslateRoutes mounts GET /?text=.
func (h *TranslationHandler) RegisterTranslateRoutes(r chi.Router) {
	r.Get("/", h.translate)
}

// RegisterBackfillRoutes mounts the tenant-scoped backfill endpoints.
func (h *TranslationHandler) RegisterBackfillRoutes(r chi.Router) {
	r.Post("/backfill", h.enqueue)
	r.Get("/jobs", h.listJobs)
	r.Get("/jobs/{jobID}", h.getJob)
}

func (h *TranslationHandler) translate(w http.ResponseWriter, r *http.Request) {
	resp, err := h.translationService.Translate(r.Context(), r.URL.Query().Get("text"))
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *TranslationHandler) enqueue(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	var req service.BackfillRequest
	if err := common.DecodeJSON(r.Body, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}

	// Without a kind every kind is queued, one job each.
	kinds := []tenant.ResourceKind{req.Kind}
	if req.Kind == "" {
		kinds = tenant.Kinds
	}
	jobs := make([]*model.TranslationJob, 0, len(kinds))
	for _, kind := range kinds {
		job, err := h.backfillService.Enqueue(r.Context(), tc, service.BackfillRequest{Kind: kind})
		if err != nil {
			common.RespondWithErr(w, err)
			return
		}
		jobs = append(jobs, job)
	}
	common.RespondWithJSON(w, http.StatusAccepted, jobs) // Accepted (202) as it's async
}

func (h *TranslationHandler) listJobs(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	jobs, err := h.backfillService.ListJobs(r.Context(), tc)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, jobs)
}

func (h *TranslationHandler) getJob(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	job, err := h.backfillService.GetJob(r.Context(), tc, chi.URLParam(r, "jobID"))
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, job)
}
