// Package server exposes the prediction form and JSON API over HTTP.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/footlab/pronos/internal/logger"
	"github.com/footlab/pronos/pkg/config"
)

//go:embed templates
var templateFS embed.FS

// Handler registers its routes on an Echo instance
type RouteHandler interface {
	RegisterRoutes(e *echo.Echo)
}

// Server wraps the Echo HTTP server with graceful shutdown
type Server struct {
	echo *echo.Echo
	cfg  *config.Config
}

type renderer struct {
	templates *template.Template
}

func (r *renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// NewServer builds the Echo app with middleware, templates and routes
func NewServer(cfg *config.Config, handler RouteHandler) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info(fmt.Sprintf("%s %s %d", v.Method, v.URI, v.Status))
			return nil
		},
	}))

	e.Renderer = &renderer{
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}

	if handler != nil {
		handler.RegisterRoutes(e)
	}

	return &Server{echo: e, cfg: cfg}
}

// Start runs the server in the background
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	s.echo.Server.ReadTimeout = s.cfg.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.cfg.Server.WriteTimeout

	go func() {
		logger.Inform("Listening on", addr)
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", err)
		}
	}()
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	logger.Inform("HTTP server stopped gracefully")
	return nil
}

// Echo returns the underlying Echo instance, used by tests
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
