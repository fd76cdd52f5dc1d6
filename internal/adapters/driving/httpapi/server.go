package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/cvemirror/internal/core/ports/driving"
	"github.com/custodia-labs/cvemirror/internal/logger"
	"github.com/custodia-labs/cvemirror/internal/metrics"
)

// ShutdownTimeout bounds how long Start waits for in-flight requests.
const ShutdownTimeout = 10 * time.Second

// Server serves the query and admin API.
type Server struct {
	echo  *echo.Echo
	query driving.QueryService
	sync  driving.SyncService
}

// NewServer creates a server over the given services.
// A nil sync service disables the admin routes.
func NewServer(query driving.QueryService, sync driving.SyncService) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:  e,
		query: query,
		sync:  sync,
	}

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(requestLogger())

	s.RegisterRoutes(e)
	return s
}

// RegisterRoutes registers every route on e.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", s.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	api := e.Group("/api")
	api.GET("/cves", s.ListCVEs)
	api.GET("/cves/", s.GetCVE)
	api.GET("/cves/:id", s.GetCVE)

	if s.sync != nil {
		admin := e.Group("/admin")
		admin.POST("/sync", s.TriggerSync)
		admin.GET("/sync/runs", s.ListRuns)
	}
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http: listening on %s", addr)
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
	defer cancel()

	logger.Info("http: shutting down")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
