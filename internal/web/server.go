// Package web provides the HTTP server and handlers for the brand back
// office.
package web

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ulule/limiter/v3"

	"github.com/JonMunkholm/brandadmin/internal/config"
	"github.com/JonMunkholm/brandadmin/internal/core"
	"github.com/JonMunkholm/brandadmin/internal/form"
	"github.com/JonMunkholm/brandadmin/internal/grid"
	"github.com/JonMunkholm/brandadmin/internal/i18n"
	"github.com/JonMunkholm/brandadmin/internal/logs"
	"github.com/JonMunkholm/brandadmin/internal/session"
	mw "github.com/JonMunkholm/brandadmin/internal/web/middleware"
)

//go:embed static
var staticFiles embed.FS

// LogRepository is the activity log as seen by the log screen.
type LogRepository interface {
	FindAllWithEmployeeInformation(ctx context.Context, f logs.Filters) ([]logs.EmployeeEntry, error)
	FindAllWithEmployeeInformationQuery(f logs.Filters) string
	Count(ctx context.Context, f logs.Filters) (int, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// Deps are the collaborators the handlers call.
type Deps struct {
	Bus       core.Dispatcher
	Brands    grid.Factory
	Addresses grid.Factory
	Logs      LogRepository
	Sessions  *session.Store
	I18n      *i18n.Catalog
	Settings  core.Settings
	// Logos serves the logo directory.
	Logos http.Handler
	// RateStore backs rate limiting; nil keeps counters in memory.
	RateStore limiter.Store
	// Authorizer defaults to the permissions in the security config.
	Authorizer Authorizer
	Now        func() time.Time
}

// Server is the HTTP server for the brand back office.
type Server struct {
	cfg       *config.Config
	bus       core.Dispatcher
	brands    grid.Factory
	addresses grid.Factory
	logs      LogRepository
	logDef    grid.Definition
	sessions  *session.Store
	i18n      *i18n.Catalog
	settings  core.Settings
	logos     http.Handler
	rateStore limiter.Store
	auth      Authorizer
	now       func() time.Time

	brandForms     *form.Builder[form.BrandData]
	brandHandler   *form.Handler[form.BrandData]
	addressForms   *form.Builder[form.AddressData]
	addressHandler *form.Handler[form.AddressData]
	brandErrors    core.MessageTable

	router *chi.Mux
	server *http.Server
}

// NewServer creates a new Server instance.
func NewServer(cfg *config.Config, deps Deps) (*Server, error) {
	s := &Server{
		cfg:            cfg,
		bus:            deps.Bus,
		brands:         deps.Brands,
		addresses:      deps.Addresses,
		logs:           deps.Logs,
		logDef:         grid.LogDefinition(cfg.Logs.PageSize),
		sessions:       deps.Sessions,
		i18n:           deps.I18n,
		settings:       deps.Settings,
		logos:          deps.Logos,
		rateStore:      deps.RateStore,
		auth:           deps.Authorizer,
		now:            deps.Now,
		brandForms:     form.NewBrandBuilder(deps.Bus),
		brandHandler:   form.NewBrandHandler(deps.Bus),
		addressForms:   form.NewAddressBuilder(deps.Bus),
		addressHandler: form.NewAddressHandler(deps.Bus),
		brandErrors:    core.BrandErrorMessages(cfg.Catalog.UploadMaxSize),
		router:         chi.NewRouter(),
	}
	if s.auth == nil {
		s.auth = configAuthorizer{cfg: &cfg.Security}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.settings == nil {
		s.settings = core.StaticSettings{}
	}
	if s.rateStore == nil && cfg.Rate.Enabled {
		store, err := mw.NewRateStore(nil)
		if err != nil {
			return nil, err
		}
		s.rateStore = store
	}

	s.setupMiddleware()
	if err := s.setupRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.router.Use(mw.RateLimit(s.rateStore, "global", s.cfg.Rate.RequestsPerMinute))
	}
	s.router.Use(mw.APIKeyAuth(&s.cfg.Security))
	if s.sessions != nil {
		s.router.Use(s.sessions.Middleware(s.cfg.Security.SecureCookies))
	}
	s.router.Use(s.requestContext)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() error {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return err
	}
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	if s.logos != nil {
		prefix := "/" + s.cfg.Catalog.ImageDir + "/"
		s.router.Handle(prefix+"*", http.StripPrefix(prefix, s.logos))
	}

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		s.redirect(w, r, routeBrandIndex)
	})

	for _, rt := range s.routes() {
		var h http.Handler = s.guard(rt)
		if rt.export && s.cfg.Rate.Enabled {
			h = mw.RateLimit(s.rateStore, "export", s.cfg.Rate.ExportLimit)(h)
		}
		for _, method := range rt.methods {
			s.router.Method(method, paths[rt.name], h)
		}
	}
	return nil
}

var (
	get     = []string{http.MethodGet}
	post    = []string{http.MethodPost}
	getPost = []string{http.MethodGet, http.MethodPost}
)

func (s *Server) routes() []route {
	read := []string{permRead}
	create := []string{permCreate}
	update := []string{permUpdate}
	del := []string{permDelete}

	return []route{
		{name: routeBrandIndex, methods: get, permissions: read, handle: s.handleBrandIndex},
		{name: routeBrandSearch, methods: post, permissions: read, redirect: routeBrandIndex, handle: s.handleBrandSearch},
		{name: routeBrandCreate, methods: getPost, permissions: create, handle: s.handleBrandCreate},
		{name: routeBrandView, methods: get, permissions: read, handle: s.handleBrandView},
		{name: routeBrandEdit, methods: getPost, permissions: update, handle: s.handleBrandEdit},
		{name: routeBrandDelete, methods: post, permissions: del, demo: true, redirect: routeBrandIndex, handle: s.handleBrandDelete},
		{name: routeBrandBulkDelete, methods: post, permissions: del, demo: true, redirect: routeBrandIndex, handle: s.handleBrandBulkDelete},
		{name: routeBrandBulkEnable, methods: post, permissions: update, demo: true, redirect: routeBrandIndex, handle: s.handleBrandBulkEnable},
		{name: routeBrandBulkDisable, methods: post, permissions: update, demo: true, redirect: routeBrandIndex, handle: s.handleBrandBulkDisable},
		{name: routeBrandToggle, methods: post, permissions: update, demo: true, redirect: routeBrandIndex, handle: s.handleBrandToggle},
		{name: routeBrandExport, methods: get, permissions: allPermissions, demo: true, redirect: routeBrandIndex, export: true, handle: s.handleBrandExport},
		{
			name:        routeBrandLogoDelete,
			methods:     post,
			permissions: update,
			redirect:    routeBrandEdit,
			keep:        []string{"manufacturerId"},
			message:     "You do not have permission to edit this.",
			handle:      s.handleBrandLogoDelete,
		},

		{name: routeAddressDelete, methods: post, permissions: del, demo: true, redirect: routeBrandIndex, handle: s.handleAddressDelete},
		{name: routeAddressExport, methods: get, permissions: allPermissions, demo: true, redirect: routeBrandIndex, export: true, handle: s.handleAddressExport},
		{name: routeAddressBulkDelete, methods: post, permissions: del, demo: true, redirect: routeBrandIndex, handle: s.handleAddressBulkDelete},
		{name: routeAddressCreate, methods: getPost, permissions: create, handle: s.handleAddressCreate},
		{name: routeAddressEdit, methods: getPost, permissions: update, handle: s.handleAddressEdit},

		{name: routeLogsIndex, methods: get, permissions: read, handle: s.handleLogsIndex},
		{name: routeLogsSearch, methods: post, permissions: read, redirect: routeLogsIndex, handle: s.handleLogsSearch},
		{name: routeLogsSQL, methods: get, permissions: read, redirect: routeLogsIndex, handle: s.handleLogsSQL},
		{name: routeLogsDeleteAll, methods: post, permissions: del, demo: true, redirect: routeLogsIndex, handle: s.handleLogsDeleteAll},
		{name: routeLogsExport, methods: get, permissions: read, redirect: routeLogsIndex, export: true, handle: s.handleLogsExport},
	}
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if enableCSP {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; font-src 'self'")
			}

			next.ServeHTTP(w, r)
		})
	}
}
