// Package web hosts the browser-facing service: it composes the page
// modules into one route table, installs the shared middleware and serves
// the result until its context ends.
package web

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/civicspace/agora/internal/platform/logging"
	"github.com/civicspace/agora/internal/platform/otel"
	"github.com/civicspace/agora/internal/platform/timeouts"
	"github.com/civicspace/agora/internal/services/web/app"
	"github.com/civicspace/agora/internal/services/web/backend"
	"github.com/civicspace/agora/internal/services/web/modules"
	"github.com/civicspace/agora/internal/services/web/platform/authsession"
	"github.com/civicspace/agora/internal/services/web/platform/httpx"
	"github.com/civicspace/agora/internal/services/web/platform/loader"
	"github.com/civicspace/agora/internal/services/web/platform/modulehandler"
	"github.com/civicspace/agora/internal/services/web/platform/navigation"
	"github.com/civicspace/agora/internal/services/web/platform/pagerender"
	"github.com/civicspace/agora/internal/services/web/platform/recovery"
	"github.com/civicspace/agora/internal/services/web/platform/requestmeta"
	"github.com/civicspace/agora/internal/services/web/routepath"
	webstatic "github.com/civicspace/agora/internal/services/web/static"
	webtemplates "github.com/civicspace/agora/internal/services/web/templates"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultSiteName is shown in page titles and the shell header.
const DefaultSiteName = "Agora"

const loaderTracerName = "github.com/civicspace/agora/web/loader"

// Config defines startup inputs for the web service.
type Config struct {
	HTTPAddr            string
	SiteName            string
	AuthBaseURL         string
	SessionSecret       string
	SessionIssuer       string
	CookieSecret        []byte
	TrustForwardedProto bool
	// Backend is nil when no backend address is configured; every module
	// then serves its unavailable state.
	Backend *backend.Client
	Logger  *zap.Logger
}

// Handler is the composed root handler plus the route table behind it.
type Handler struct {
	http.Handler
	Routes  []app.RouteInfo
	Healthy bool
}

// NewHandler builds the root handler from the default module registry.
func NewHandler(cfg Config) (Handler, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	siteName := strings.TrimSpace(cfg.SiteName)
	if siteName == "" {
		siteName = DefaultSiteName
	}
	cookieSecret := cfg.CookieSecret
	if len(cookieSecret) == 0 {
		cookieSecret = make([]byte, 32)
		if _, err := rand.Read(cookieSecret); err != nil {
			return Handler{}, fmt.Errorf("generate cookie secret: %w", err)
		}
		logger.Warn("cookie secret not configured; navigation sessions reset on restart")
	}

	policy := requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto}
	chrome := pagerender.Chrome{SiteName: siteName, AuthBaseURL: strings.TrimSpace(cfg.AuthBaseURL)}
	views := loader.NewCache(func() *loader.Loader[webtemplates.View] {
		return loader.New(webtemplates.Registry(),
			loader.WithLogger(logger.Named("loader")),
			loader.WithTracer(otel.Tracer(loaderTracerName)),
			loader.WithTimeout(timeouts.ModuleFetch),
		)
	})
	logger.Debug("views registered", zap.Strings("keys", views.Current().Keys()))
	tracker := navigation.NewCookieTracker(cookieSecret, cfg.TrustForwardedProto)

	deps := modules.Dependencies{
		Base: modulehandler.NewBase(modulehandler.Dependencies{
			Views:   views,
			Tracker: tracker,
			Chrome:  chrome,
			Policy:  policy,
		}),
		Backend: cfg.Backend,
	}
	public := modules.DefaultPublicModules(deps)
	gated := modules.DefaultGatedModules(deps)
	composition, err := app.BuildRootHandler(app.Config{
		Chrome:              chrome,
		RequestSchemePolicy: policy,
		PublicModules:       public,
		GatedModules:        gated,
	})
	if err != nil {
		return Handler{}, fmt.Errorf("compose route table: %w", err)
	}
	healthy := modules.Healthy(public, gated)
	if !healthy {
		logger.Warn("backend unavailable; pages render degraded states")
	}

	verifier := authsession.NewVerifier(authsession.Config{Secret: cfg.SessionSecret, Issuer: cfg.SessionIssuer})
	if !verifier.Configured() {
		logger.Warn("session secret not configured; every visitor is signed out")
	}

	root := chi.NewRouter()
	if cfg.TrustForwardedProto {
		root.Use(middleware.RealIP)
	}
	root.Use(
		httpx.RequestID(),
		httpx.WithLogger(logger),
		httpx.LogRequests(),
		httpx.RecoverPanic(),
		middleware.GetHead,
		middleware.Compress(5),
		verifier.Middleware(),
	)
	root.Handle(routepath.StaticPrefix+"*", http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(webstatic.FS))))
	root.Get(routepath.Health, healthHandler(healthy))
	root.Group(func(r chi.Router) {
		r.Use(recovery.Middleware(recovery.Options{SiteName: siteName}))
		r.With(policy.RequireSameOrigin).Method(http.MethodPost, routepath.Reload, recovery.ReloadHandler(
			func(_ http.ResponseWriter, req *http.Request) error {
				previous := views.Current()
				views.Reload()
				logging.FromContext(req.Context()).Info("view cache reloaded",
					zap.Int64("generation", views.Generation()),
					zap.Int64("discarded_fetches", previous.Fetches()),
				)
				return nil
			},
			tracker.Forget,
		))
		r.Mount(routepath.Root, composition.Handler)
	})

	return Handler{Handler: root, Routes: composition.Routes, Healthy: healthy}, nil
}

// healthHandler reports liveness. A missing backend still serves pages, so
// the degraded state keeps status 200.
func healthHandler(healthy bool) http.HandlerFunc {
	body := "ok\n"
	if !healthy {
		body = "degraded\n"
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}
}

// Server hosts the web HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer validates config and constructs a web server.
func NewServer(cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose web handler: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		logger: logger,
	}, nil
}

// ListenAndServe serves HTTP traffic until ctx ends, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}
	listener, err := net.Listen("tcp", s.httpAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpAddr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on an existing listener until ctx ends.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)
	s.httpServer.BaseContext = func(net.Listener) context.Context { return gctx }

	g.Go(func() error {
		s.logger.Info("web server listening", zap.String("addr", listener.Addr().String()))
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve web http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		s.logger.Info("web server shutting down")
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown web http server: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	_ = s.httpServer.Close()
}
