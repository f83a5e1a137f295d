package handler

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/api/middleware"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/app/editor"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/tenant"
)

// HostResolver maps a host name to its tenant.
type HostResolver interface {
	DetectHost(host string) (tenant.Context, error)
}

// EditorHandler upgrades admin connections to bilingual editing sessions.
type EditorHandler struct {
	cfg      editor.Config
	hosts    HostResolver
	upgrader websocket.Upgrader
}

func NewEditorHandler(cfg editor.Config, hosts HostResolver) *EditorHandler {
	h := &EditorHandler{cfg: cfg, hosts: hosts}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *EditorHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.serveWS)
}

// checkOrigin accepts non-browser clients, same-host pages and pages served
// from a host of the tenant being edited.
func (h *EditorHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	tc, err := middleware.TenantFromContext(r.Context())
	if err != nil || h.hosts == nil {
		return false
	}
	originTenant, err := h.hosts.DetectHost(u.Host)
	return err == nil && originTenant.ID == tc.ID
}

func (h *EditorHandler) serveWS(w http.ResponseWriter, r *http.Request) {
	tc, ok := requestTenant(w, r)
	if !ok {
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		log.Printf("WARN: Editor upgrade failed for tenant %s: %v", tc.ID, err)
		return
	}
	editor.NewSession(conn, tc, h.cfg).Run(r.Context())
}
