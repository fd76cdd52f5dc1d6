package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/custodia-labs/cvemirror/internal/core/domain"
	"github.com/custodia-labs/cvemirror/internal/core/ports/driving"
	"github.com/custodia-labs/cvemirror/internal/logger"
)

// Run list bounds for GET /admin/sync/runs.
const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RunsResponse is the body of GET /admin/sync/runs.
type RunsResponse struct {
	Status *driving.SyncStatus `json:"status"`
	Runs   []domain.SyncRun    `json:"runs"`
}

// Health reports liveness.
func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// ListCVEs answers a filtered, paginated query. Bad parameter values fall
// back to defaults rather than failing the request.
func (s *Server) ListCVEs(c echo.Context) error {
	params := domain.QueryParams{
		ID:               c.QueryParam("id"),
		Year:             c.QueryParam("year"),
		MinScore:         c.QueryParam("minScore"),
		MaxScore:         c.QueryParam("maxScore"),
		LastModifiedDays: c.QueryParam("lastModifiedDays"),
		Page:             c.QueryParam("page"),
		Limit:            c.QueryParam("limit"),
		SortBy:           c.QueryParam("sortBy"),
		Order:            c.QueryParam("order"),
	}

	result, err := s.query.Query(c.Request().Context(), params)
	if err != nil {
		logger.Error("http: query failed: %v", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Server error"})
	}
	return c.JSON(http.StatusOK, result)
}

// GetCVE returns the stored feed item verbatim.
func (s *Server) GetCVE(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "CVE id required"})
	}

	raw, err := s.query.GetRaw(c.Request().Context(), id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "CVE not found"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "CVE id required"})
	case err != nil:
		logger.Error("http: get %s failed: %v", id, err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Server error"})
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, raw)
}

// TriggerSync runs a full sync and replies when it finishes. The run
// outlives a disconnected client.
func (s *Server) TriggerSync(c echo.Context) error {
	ctx := context.WithoutCancel(c.Request().Context())

	err := s.sync.FullSync(ctx, func(p domain.SyncProgress) {
		logger.Debug("http: sync %s offset=%d processed=%d", p.Stage, p.Offset, p.Processed)
	})
	switch {
	case errors.Is(err, domain.ErrSyncInProgress):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "sync already running"})
	case err != nil:
		logger.Error("http: sync failed: %v", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "sync failed"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// ListRuns reports the current sync state and recent runs.
func (s *Server) ListRuns(c echo.Context) error {
	ctx := c.Request().Context()

	limit := defaultRunsLimit
	if n, err := strconv.Atoi(c.QueryParam("limit")); err == nil && n > 0 {
		limit = min(n, maxRunsLimit)
	}

	status, err := s.sync.Status(ctx)
	if err != nil {
		logger.Error("http: sync status failed: %v", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Server error"})
	}
	runs, err := s.sync.Runs(ctx, limit)
	if err != nil {
		logger.Error("http: list runs failed: %v", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Server error"})
	}
	if runs == nil {
		runs = []domain.SyncRun{}
	}
	return c.JSON(http.StatusOK, RunsResponse{Status: status, Runs: runs})
}
