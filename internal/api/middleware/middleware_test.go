package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/bilingual"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common/security"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/domain/model"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/platform/config"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/tenant"
)

func testDetector(t *testing.T) *tenant.Detector {
	t.Helper()
	reg, err := tenant.NewRegistry([]tenant.Info{
		{ID: "pindkepar", Name: bilingual.Text{En: "Pindkepar"}, Domains: []string{"pindkepar.example.in"}, Active: true},
		{ID: "lodha", Name: bilingual.Text{En: "Lodha"}, Active: true},
	}, nil, nil)
	require.NoError(t, err)
	return tenant.NewDetector(reg)
}

func tokenFor(t *testing.T, c security.Claims) string {
	t.Helper()
	config.AppConfig = &config.Config{JWTSecret: "middleware-test", JWTExp: time.Hour}
	security.InitJWT()
	tok, err := security.GenerateToken(c)
	require.NoError(t, err)
	return tok
}

// echoTenant writes the resolved tenant id.
func echoTenant(w http.ResponseWriter, r *http.Request) {
	tc, err := TenantFromContext(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	w.Write([]byte(tc.ID))
}

func TestTenant(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Tenant(testDetector(t)))
	r.Get("/", echoTenant)

	tests := []struct {
		name   string
		target string
		host   string
		code   int
		body   string
	}{
		{"query parameter", "/?tenant=lodha", "localhost", http.StatusOK, "lodha"},
		{"exact host", "/", "pindkepar.example.in", http.StatusOK, "pindkepar"},
		{"unknown host", "/", "localhost:8080", http.StatusBadRequest, ""},
		{"unknown tenant", "/?tenant=nowhere", "pindkepar.example.in", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			req.Host = tt.host
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.code, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestTenantFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := TenantFromContext(req.Context())
	assert.Error(t, err)
}

func adminRouter(t *testing.T) http.Handler {
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(security.TokenAuth))
	r.Use(Authenticator)
	r.Use(AdminOnly)
	r.With(SuperAdminOnly).Get("/super", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.With(TenantAccess(testDetector(t))).Get("/content", echoTenant)
	return r
}

func TestAdminChain(t *testing.T) {
	adminTok := tokenFor(t, security.Claims{UserID: "u1", Role: model.RoleAdmin, TenantID: "pindkepar"})
	superTok := tokenFor(t, security.Claims{UserID: "u2", Role: model.RoleSuperAdmin})
	viewerTok := tokenFor(t, security.Claims{UserID: "u3", Role: "viewer", TenantID: "pindkepar"})
	r := adminRouter(t)

	tests := []struct {
		name   string
		target string
		token  string
		code   int
		body   string
	}{
		{"no token", "/content", "", http.StatusUnauthorized, ""},
		{"garbage token", "/content", "not-a-jwt", http.StatusUnauthorized, ""},
		{"wrong role", "/content", viewerTok, http.StatusForbidden, ""},
		{"admin own tenant", "/content?tenant=pindkepar", adminTok, http.StatusOK, "pindkepar"},
		{"admin falls back to own tenant", "/content", adminTok, http.StatusOK, "pindkepar"},
		{"admin other tenant", "/content?tenant=lodha", adminTok, http.StatusForbidden, ""},
		{"admin names unknown tenant", "/content?tenant=lodhaa", adminTok, http.StatusBadRequest, ""},
		{"super admin any tenant", "/content?tenant=lodha", superTok, http.StatusOK, "lodha"},
		{"super admin needs a tenant", "/content", superTok, http.StatusBadRequest, ""},
		{"super route for admin", "/super", adminTok, http.StatusForbidden, ""},
		{"super route for super admin", "/super", superTok, http.StatusOK, "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			req.Host = "localhost"
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestRedactToken(t *testing.T) {
	var seenURI, seenToken string
	h := RedactToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenURI = r.RequestURI
		seenToken = r.URL.Query().Get(TokenQueryParam)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/editor/ws?jwt=secret.token.value&tenant=lodha", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotContains(t, seenURI, "secret")
	assert.Contains(t, seenURI, "jwt=REDACTED")
	assert.Contains(t, seenURI, "tenant=lodha")
	assert.Equal(t, "secret.token.value", seenToken)

	req = httptest.NewRequest(http.MethodGet, "/health?x=1", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "/health?x=1", seenURI)
}
