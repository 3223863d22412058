package api

import (
	"context"
	"time"

	"EtfView/internal/usecase"
	xhttp "EtfView/pkg/http"
	xlogger "EtfView/pkg/logger"

	"github.com/labstack/echo/v4"
)

// FXEchoHandler exposes the USD/JPY watcher: a health probe and a
// manual trigger that runs a watch cycle in the background.
type FXEchoHandler struct {
	logger  *xlogger.Logger
	watcher *usecase.FXWatcher
}

func NewFXEchoHandler(logger *xlogger.Logger, watcher *usecase.FXWatcher) *FXEchoHandler {
	return &FXEchoHandler{logger: logger, watcher: watcher}
}

func (h *FXEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/fx")
	g.GET("/health", h.Health)
	g.POST("/trigger", h.Trigger)
}

func (h *FXEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{
		"status":  "ok",
		"message": "FX Bottom/Top Bot is running.",
	})
}

// Trigger kicks off one watch cycle and returns immediately. The cycle
// outlives the request, so it gets its own deadline.
func (h *FXEchoHandler) Trigger(c echo.Context) error {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := h.watcher.Run(ctx); err != nil {
			h.logger.Error("triggered fx watch failed", xlogger.Error(err))
		}
	}()
	return xhttp.SuccessResponse(c, map[string]string{"status": "accepted"})
}
