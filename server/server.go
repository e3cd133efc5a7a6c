package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/maxence-charriere/go-app/v9/pkg/app"
	"go.uber.org/zap"

	"agenteur.ai/web/config"
	"agenteur.ai/web/httputil"
	"agenteur.ai/web/logging"
	"agenteur.ai/web/middleware"
	"agenteur.ai/web/pages"
	"agenteur.ai/web/routes"
)

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	logger     *zap.Logger
	table      *routes.Table
	staticFS   fs.FS
	handler    http.Handler
	httpServer *http.Server
}

// NewServer creates a new server instance. The route table is validated and
// mounted on the go-app router so pages can be prerendered. staticFS may be
// nil, in which case /static is not served.
func NewServer(cfg *config.Config, logger *zap.Logger, table *routes.Table, staticFS fs.FS) (*Server, error) {
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid route table: %w", err)
	}
	table.Register()

	s := &Server{
		config:   cfg,
		logger:   logger,
		table:    table,
		staticFS: staticFS,
	}
	s.handler = s.newRouter()
	return s, nil
}

// Handler returns the fully wired HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) newRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(s.logger))
	// Per-request hub and transaction; Recover reports through it
	r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	r.Use(middleware.Recover(s.logger))
	r.Use(middleware.CORS(s.config.CORSAllowedOrigins))
	r.Use(middleware.RateLimit(s.config.RateLimit.RPS, s.config.RateLimit.Burst))

	r.Get("/health", s.healthCheck)
	r.Get("/api/routes", s.routeManifest)

	if s.staticFS != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(s.staticFS))))
	}

	// Pages, the wasm loader, manifest and service worker
	r.Handle("/*", s.appHandler())

	return r
}

func (s *Server) appHandler() *app.Handler {
	home := (&pages.Home{}).Content()

	return &app.Handler{
		Name:        pages.SiteName,
		ShortName:   pages.SiteName,
		Title:       pages.SiteName,
		Description: home.Message,
		Styles:      []string{"/static/app.css"},
		Version:     s.config.Version,
		Resources:   app.LocalDir(s.config.WebDir),
	}
}

// healthCheck provides a simple health check endpoint
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	err := httputil.JSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": logging.ServiceName,
	})
	if err != nil {
		s.logger.Warn("failed to write health check response", zap.Error(err))
	}
}

// routeManifest lists the client-side routes and the navigation targets each page declares
func (s *Server) routeManifest(w http.ResponseWriter, r *http.Request) {
	if err := httputil.JSON(w, http.StatusOK, s.table.Manifest()); err != nil {
		s.logger.Warn("failed to write route manifest", zap.Error(err))
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully within the
// configured shutdown timeout
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.config.Port,
		Handler:      s.handler,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.logger.Info("starting web server",
		zap.String("port", s.config.Port),
		zap.Bool("local", s.config.IsLocal()),
		zap.Int("routes", len(s.table.Routes())),
		zap.Float64("rate_limit_rps", s.config.RateLimit.RPS),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	}
}
