package handler

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/platform/objectstore"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/tenant"
)

// ObjectReader is the read side of the object store.
type ObjectReader interface {
	Get(ctx context.Context, p tenant.Path) (objectstore.Object, []byte, error)
}

// MediaHandler serves uploaded images. Object paths carry their tenant, so
// no tenant detection is needed.
type MediaHandler struct {
	objects ObjectReader
}

func NewMediaHandler(objects ObjectReader) *MediaHandler {
	return &MediaHandler{objects: objects}
}

func (h *MediaHandler) RegisterRoutes(r chi.Router) {
	r.Get("/*", h.serve)
}

func (h *MediaHandler) serve(w http.ResponseWriter, r *http.Request) {
	p, err := tenant.ParsePath(strings.TrimPrefix(chi.URLParam(r, "*"), "/"))
	if err != nil {
		common.RespondWithErr(w, common.Errorf("%v: %w", err, common.ErrNotFound))
		return
	}
	obj, data, err := h.objects.Get(r.Context(), p)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	contentType := obj.ContentType
	if !objectstore.IsImageType(contentType) {
		contentType = "application/octet-stream"
		w.Header().Set("Content-Disposition", "attachment")
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; sandbox")
	// Object names are unique per upload, so content never changes.
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeContent(w, r, p.Last(), obj.UploadedAt.Truncate(time.Second), bytes.NewReader(data))
}
