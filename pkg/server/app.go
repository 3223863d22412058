package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"EtfView/internal/handler/api"
	"EtfView/internal/service/cache"
	"EtfView/internal/usecase"
	"EtfView/pkg/config"
	xhttp "EtfView/pkg/http"
	applogger "EtfView/pkg/logger"
)

// refreshTimeout bounds one scheduled fetch cycle; the universe is a
// few hundred instruments fetched sequentially.
const refreshTimeout = 30 * time.Minute

// App encapsulates the application lifecycle: HTTP server, scheduled
// jobs, and graceful shutdown.
type App struct {
	cfg       *config.Config
	log       *applogger.Logger
	dashboard *usecase.Dashboard
	watcher   *usecase.FXWatcher
	etfs      *api.EtfsEchoHandler
	fx        *api.FXEchoHandler
	store     cache.BytesCache

	httpServer *xhttp.Server
	scheduler  *cron.Cron
}

func New(
	cfg *config.Config,
	log *applogger.Logger,
	dashboard *usecase.Dashboard,
	watcher *usecase.FXWatcher,
	etfs *api.EtfsEchoHandler,
	fx *api.FXEchoHandler,
	store cache.BytesCache,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		dashboard: dashboard,
		watcher:   watcher,
		etfs:      etfs,
		fx:        fx,
		store:     store,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	a.httpServer = xhttp.NewServer(a.etfs,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetrics(a.cfg.Metrics.Enabled, a.cfg.Metrics.Path),
		xhttp.WithLogger(a.log, time.Second),
	)
	if a.fx != nil {
		a.fx.RegisterRoutes(a.httpServer.Echo())
	}

	if err := a.startScheduler(); err != nil {
		return err
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) startScheduler() error {
	a.scheduler = cron.New()

	if s := a.cfg.Fetch.Schedule; s != "" {
		if _, err := a.scheduler.AddFunc(s, func() {
			ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
			defer cancel()
			if err := a.dashboard.Refresh(ctx, 0); err != nil {
				a.log.Error("scheduled refresh failed", applogger.Error(err))
			}
		}); err != nil {
			return err
		}
		a.log.Info("refresh scheduled", applogger.String("cron", s))
	}

	if a.cfg.FX.Enabled && a.watcher != nil {
		if s := a.cfg.FX.Schedule; s != "" {
			if _, err := a.scheduler.AddFunc(s, func() {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
				defer cancel()
				if _, err := a.watcher.Run(ctx); err != nil {
					a.log.Error("scheduled fx watch failed", applogger.Error(err))
				}
			}); err != nil {
				return err
			}
			a.log.Info("fx watch scheduled", applogger.String("cron", s))
		}
	}

	a.scheduler.Start()
	return nil
}

func (a *App) shutdown() error {
	if a.scheduler != nil {
		// Stop scheduling and let in-flight jobs drain.
		<-a.scheduler.Stop().Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	switch v := a.store.(type) {
	case interface{ Close() error }:
		if err := v.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	case interface{ Close() }:
		v.Close()
	}

	a.log.Info("shutdown complete")
	return nil
}
