package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/microcosm-cc/bluemonday"

	"igfollowers/pkg/config"
	igerrors "igfollowers/pkg/errors"
	"igfollowers/pkg/logger"
	"igfollowers/pkg/monitoring"
	"igfollowers/pkg/ratelimit"
	"igfollowers/pkg/session"
)

const shutdownTimeout = 10 * time.Second

// Server is the web front end of the analyzer
type Server struct {
	cfg       *config.Config
	echo      *echo.Echo
	sessions  *session.Store
	uploads   *ratelimit.Registry
	sanitizer *bluemonday.Policy
	started   time.Time
}

// New creates a Server with every route registered
func New(cfg *config.Config) (*Server, error) {
	s := &Server{
		cfg:       cfg,
		echo:      echo.New(),
		sessions:  session.NewStore(cfg.Session),
		uploads:   ratelimit.NewRegistry(cfg.Session.MaxSessions*2, cfg.Session.UploadsPerMinute, time.Minute),
		sanitizer: bluemonday.StrictPolicy(),
		started:   time.Now(),
	}

	renderer, err := newRenderer(s.sanitizer)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = newValidator()
	e.HTTPErrorHandler = s.handleError
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	s.setupMiddleware()
	s.setupRoutes()

	monitoring.SetSessionCounter(s.sessions.Len)

	return s, nil
}

// setupMiddleware configures global Echo middleware
func (s *Server) setupMiddleware() {
	e := s.echo
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURIPath: true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.LogRequest(v.Method, v.URIPath, v.Status, v.Latency)
			return nil
		},
	}))
	if s.cfg.Server.MetricsEnabled {
		e.Use(monitoring.Middleware())
	}
}

// setupRoutes registers the dashboard, download, API and ops routes
func (s *Server) setupRoutes() {
	e := s.echo

	e.GET("/healthz", s.health)
	if s.cfg.Server.MetricsEnabled {
		e.GET("/metrics", echo.WrapHandler(monitoring.Handler()))
	}
	e.StaticFS("/static", echo.MustSubFS(assets, "static"))

	ui := e.Group("", s.sessionMiddleware)
	NewDashboardHandler(s).RegisterDashboardRoutes(ui)
	NewExportHandler(s).RegisterExportRoutes(ui)

	api := e.Group("/api/v1")
	api.Use(middleware.CORS())
	NewAPIHandler(s).RegisterAPIRoutes(api)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Listen binds the configured address and returns the URL a browser should
// open. A port of 0 picks a free port.
func (s *Server) Listen() (string, error) {
	ln, err := net.Listen("tcp", s.cfg.Server.Address())
	if err != nil {
		return "", fmt.Errorf("failed to listen on %s: %w", s.cfg.Server.Address(), err)
	}
	s.echo.Listener = ln

	srv := s.cfg.Server
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		srv.Port = addr.Port
	}
	return srv.URL(), nil
}

// Serve handles requests until ctx is cancelled, then shuts down gracefully.
// Listen must be called first.
func (s *Server) Serve(ctx context.Context) error {
	if s.echo.Listener == nil {
		return errors.New("server is not listening")
	}

	logger.LogComponentStart("server", map[string]interface{}{
		"address":  s.echo.Listener.Addr().String(),
		"metrics":  s.cfg.Server.MetricsEnabled,
		"sessions": s.cfg.Session.MaxSessions,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.StartServer(s.echo.Server)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	logger.LogComponentStop("server", "shutdown requested")
	return nil
}

// handleError maps typed errors to their status before echo renders them
func (s *Server) handleError(err error, c echo.Context) {
	var typed *igerrors.Error
	if errors.As(err, &typed) {
		status := igerrors.HTTPStatus(typed.Type)
		msg := "internal error"
		if igerrors.IsUserFacing(typed.Type) {
			msg = userMessage(err)
		}
		err = echo.NewHTTPError(status, msg).SetInternal(typed)
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code >= http.StatusInternalServerError {
		logger.GetLogger().WithError(err).WithFields(map[string]interface{}{
			"path":       c.Request().URL.Path,
			"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
		}).Error("Request failed")
	}

	s.echo.DefaultHTTPErrorHandler(err, c)
}

// userMessage renders an error for display next to the upload forms
func userMessage(err error) string {
	var typed *igerrors.Error
	if !errors.As(err, &typed) {
		return err.Error()
	}
	msg := typed.Message
	if typed.Err != nil && typed.Type == igerrors.ErrorTypeParsing {
		msg += " (" + typed.Err.Error() + ")"
	}
	if typed.Source != "" {
		msg = typed.Source + ": " + msg
	}
	return msg
}
