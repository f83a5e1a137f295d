package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/api/middleware"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/app/service"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/bilingual"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/tenant"
)

// LangAll asks public endpoints for both languages instead of one.
const LangAll = "all"

// multipartDataField is the form field holding the JSON part of a multipart
// request.
const multipartDataField = "data"

func requestTenant(w http.ResponseWriter, r *http.Request) (tenant.Context, bool) {
	tc, err := middleware.TenantFromContext(r.Context())
	if err != nil {
		common.RespondWithErr(w, err)
		return tenant.Context{}, false
	}
	return tc, true
}

// respondLocalized writes payload with bilingual values collapsed to the
// language picked by ?lang= or Accept-Language. ?lang=all keeps both.
func respondLocalized(w http.ResponseWriter, r *http.Request, code int, payload interface{}) {
	lang := r.URL.Query().Get("lang")
	if lang == LangAll {
		common.RespondWithJSON(w, code, payload)
		return
	}
	tag := bilingual.MatchLanguage(lang, r.Header.Get("Accept-Language"))
	out, err := bilingual.Localize(payload, tag)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	w.Header().Set("Content-Language", tag.String())
	common.RespondWithJSON(w, code, out)
}

// jsonWriter lets one handler body serve both the raw admin view and the
// localized public view.
type jsonWriter func(w http.ResponseWriter, code int, payload interface{})

func localizedWriter(r *http.Request) jsonWriter {
	return func(w http.ResponseWriter, code int, payload interface{}) {
		respondLocalized(w, r, code, payload)
	}
}

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

// decodeWithFiles reads a request that is either plain JSON or multipart
// with a JSON "data" field plus the named file fields. Missing files are
// returned as nil. The caller must close the returned uploads.
func decodeWithFiles(w http.ResponseWriter, r *http.Request, maxBytes int64, v interface{}, fileFields ...string) (map[string]*service.Upload, func(), error) {
	noop := func() {}
	if !isMultipart(r) {
		return nil, noop, common.DecodeJSON(r.Body, v)
	}

	// Room for the JSON part on top of the files.
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes*int64(len(fileFields)+1)+1<<20)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, noop, fmt.Errorf("request too large: %w", common.ErrValidation)
		}
		return nil, noop, fmt.Errorf("invalid multipart form: %v: %w", err, common.ErrBadRequest)
	}
	if data := r.FormValue(multipartDataField); strings.TrimSpace(data) != "" {
		if err := json.Unmarshal([]byte(data), v); err != nil {
			return nil, noop, fmt.Errorf("invalid %q field: %v: %w", multipartDataField, err, common.ErrBadRequest)
		}
	}

	uploads := make(map[string]*service.Upload, len(fileFields))
	var closers []func() error
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}
	for _, name := range fileFields {
		file, header, err := r.FormFile(name)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			cleanup()
			return nil, noop, fmt.Errorf("read file %q: %v: %w", name, err, common.ErrBadRequest)
		}
		closers = append(closers, file.Close)
		uploads[name] = &service.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		}
	}
	return uploads, cleanup, nil
}
