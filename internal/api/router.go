package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/api/handler"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/api/middleware"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/app/editor"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/app/service"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common/security"
	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/tenant"
)

// Services bundles everything the router serves.
type Services struct {
	Auth        *service.AuthService
	Members     *service.MemberService
	Services    *service.ServicesService
	Schemes     *service.SchemeService
	Notices     *service.NoticeService
	Settings    *service.SettingsService
	Public      *service.PublicService
	Translation *service.TranslationService
	Backfill    *service.BackfillService

	Objects  handler.ObjectReader
	Detector *tenant.Detector
	Editor   editor.Config

	MaxUploadBytes int64
}

func NewRouter(s Services) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RedactToken)
	r.Use(chiMiddleware.Logger) // Chi's logger
	r.Use(chiMiddleware.Recoverer)

	// Tokens come from "Authorization: Bearer T" or the jwt cookie.
	r.Use(jwtauth.Verify(security.TokenAuth, jwtauth.TokenFromHeader, jwtauth.TokenFromCookie))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	tenantScope := middleware.TenantAccess(s.Detector)

	authHandler := handler.NewAuthHandler(s.Auth)
	memberHandler := handler.NewMemberHandler(s.Members, s.MaxUploadBytes)
	servicesHandler := handler.NewServicesHandler(s.Services)
	schemeHandler := handler.NewSchemeHandler(s.Schemes)
	noticeHandler := handler.NewNoticeHandler(s.Notices)
	settingsHandler := handler.NewSettingsHandler(s.Settings, s.MaxUploadBytes)
	publicHandler := handler.NewPublicHandler(s.Public)
	translationHandler := handler.NewTranslationHandler(s.Translation, s.Backfill)
	editorHandler := handler.NewEditorHandler(s.Editor, s.Detector)

	r.Route("/media", handler.NewMediaHandler(s.Objects).RegisterRoutes)

	timeout := chiMiddleware.Timeout(60 * time.Second)

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Route("/auth", func(a chi.Router) {
			a.Use(timeout)
			authHandler.RegisterRoutes(a)
		})

		v1.Route("/public", func(pub chi.Router) {
			pub.Use(timeout)
			pub.Use(middleware.Tenant(s.Detector))
			publicHandler.RegisterRoutes(pub)
			pub.Route("/members", memberHandler.RegisterPublicRoutes)
			pub.Route("/services", servicesHandler.RegisterPublicRoutes)
			pub.Route("/schemes", schemeHandler.RegisterPublicRoutes)
			pub.Route("/notices", noticeHandler.RegisterPublicRoutes)
			pub.Route("/settings", settingsHandler.RegisterPublicRoutes)
		})

		v1.Route("/admin", func(admin chi.Router) {
			// Websocket sessions outlive any request timeout. Browsers cannot
			// set headers on websocket requests, so ?jwt= is accepted here only.
			admin.Route("/editor", func(ed chi.Router) {
				ed.Use(jwtauth.Verify(security.TokenAuth, jwtauth.TokenFromHeader, jwtauth.TokenFromCookie, jwtauth.TokenFromQuery))
				ed.Use(middleware.Authenticator)
				ed.Use(middleware.AdminOnly)
				ed.Use(tenantScope)
				editorHandler.RegisterRoutes(ed)
			})

			admin.Group(func(api chi.Router) {
				api.Use(middleware.Authenticator)
				api.Use(middleware.AdminOnly)
				api.Use(timeout)
				api.Route("/translate", translationHandler.RegisterTranslateRoutes)
				api.Route("/users", func(u chi.Router) {
					authHandler.RegisterUserRoutes(u, tenantScope)
				})

				api.Group(func(scoped chi.Router) {
					scoped.Use(tenantScope)
					scoped.Route("/members", memberHandler.RegisterRoutes)
					scoped.Route("/services", servicesHandler.RegisterRoutes)
					scoped.Route("/schemes", schemeHandler.RegisterRoutes)
					scoped.Route("/notices", noticeHandler.RegisterRoutes)
					scoped.Route("/settings", settingsHandler.RegisterRoutes)
					scoped.Route("/translations", translationHandler.RegisterBackfillRoutes)
				})
			})
		})
	})

	return r
}
