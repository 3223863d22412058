package api

import (
	"net/http"
	"sync"

	"EtfView/internal/domain/models"
	"EtfView/internal/market"
	"EtfView/internal/usecase"
	xhttp "EtfView/pkg/http"
	xlogger "EtfView/pkg/logger"

	"github.com/labstack/echo/v4"
)

// EtfsEchoHandler serves the dashboard table: fetch, sorted views and
// CSV export. Sort state lives here so a repeated column toggles
// direction the way a table header does.
type EtfsEchoHandler struct {
	logger       *xlogger.Logger
	dashboard    *usecase.Dashboard
	defaultLimit int

	mu            sync.Mutex
	lastColumn    string
	lastDirection string
}

func NewEtfsEchoHandler(logger *xlogger.Logger, dashboard *usecase.Dashboard, defaultLimit int) *EtfsEchoHandler {
	if defaultLimit < 0 {
		defaultLimit = 0
	}
	return &EtfsEchoHandler{logger: logger, dashboard: dashboard, defaultLimit: defaultLimit}
}

func (h *EtfsEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	g := e.Group("/api")
	g.GET("/etfs", h.Fetch)
	g.GET("/etfs/sorted", h.Sorted)
	g.GET("/etfs/export", h.Export)
}

func (h *EtfsEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// Fetch runs a fetch cycle bounded by limit and returns the enriched
// table.
func (h *EtfsEchoHandler) Fetch(c echo.Context) error {
	req := &models.FetchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	limit := h.defaultLimit
	if req.Limit != nil {
		limit = *req.Limit
	}

	// The limit bounds the cycle itself, not just the response: each
	// instrument costs an upstream fetch plus the inter-fetch delay.
	if err := h.dashboard.Refresh(c.Request().Context(), limit); err != nil {
		h.logger.Error("fetch cycle failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError("fetch cycle failed").WithError(err))
	}

	snap := h.dashboard.Snapshot()
	return xhttp.SuccessResponse(c, &models.FetchResponse{
		Rows:       snap.Rows,
		TargetDate: snap.TargetDate,
	})
}

// Sorted returns the current snapshot ordered by a column. Omitting
// direction toggles it when the column repeats, otherwise ascending.
func (h *EtfsEchoHandler) Sorted(c echo.Context) error {
	req := &models.SortRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	direction := h.resolveDirection(req.Column, req.Direction)
	snap := h.dashboard.Snapshot()
	rows := market.SortRows(snap.Rows, req.Column, direction)

	return xhttp.SuccessResponse(c, &models.SortedResponse{
		Rows:       rows,
		TargetDate: snap.TargetDate,
		Column:     req.Column,
		Direction:  direction,
	})
}

// Export streams the current snapshot as CSV.
func (h *EtfsEchoHandler) Export(c echo.Context) error {
	snap := h.dashboard.Snapshot()
	body := usecase.ExportCSV(snap.Rows)

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="etfs.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(body))
}

func (h *EtfsEchoHandler) resolveDirection(column, requested string) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	direction := requested
	if direction == "" {
		direction = market.DirectionAsc
		if column == h.lastColumn && h.lastDirection == market.DirectionAsc {
			direction = market.DirectionDesc
		}
	}
	h.lastColumn = column
	h.lastDirection = direction
	return direction
}
