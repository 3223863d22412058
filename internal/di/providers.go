package di

import (
	"context"
	"time"

	"EtfView/internal/domain/repository"
	"EtfView/internal/handler/api"
	"EtfView/internal/market"
	"EtfView/internal/service/analyst"
	"EtfView/internal/service/cache"
	"EtfView/internal/service/jpx"
	"EtfView/internal/service/notify"
	"EtfView/internal/service/ratelimit"
	"EtfView/internal/service/yahoo"
	"EtfView/internal/usecase"
	"EtfView/pkg/config"
	"EtfView/pkg/logger"
	"EtfView/pkg/metrics"
	"EtfView/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ProvideLogger creates the application logger. Development gets
// human-readable console output, everything else JSON.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	lcfg := &logger.Config{Level: "info", Format: "json", Output: "stdout"}
	if cfg.Environment == "development" {
		lcfg.Level = "debug"
		lcfg.Format = "console"
	}
	return logger.New(lcfg)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

func ProvideClock() market.Clock {
	return market.SystemClock()
}

func ProvideEngine(clock market.Clock) *market.Engine {
	return market.NewEngine(clock)
}

func ProvideLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideYahooClient creates the shared market-data client. It serves
// both daily histories and intraday candles.
func ProvideYahooClient(cfg *config.Config, limiter *ratelimit.Limiter) *yahoo.Client {
	return yahoo.New(
		cfg.Yahoo.BaseURL,
		cfg.Yahoo.Timeout,
		limiter,
		cfg.Yahoo.RateCapacity,
		cfg.Yahoo.RateRefill,
	)
}

func ProvideHistoryProvider(client *yahoo.Client) repository.HistoryProvider {
	return client
}

func ProvideCandleProvider(client *yahoo.Client) repository.CandleProvider {
	return client
}

// ProvideInstrumentLister creates the exchange listing scraper.
func ProvideInstrumentLister(cfg *config.Config) repository.InstrumentLister {
	return jpx.New(cfg.JPX.ListURL, cfg.JPX.Timeout, cfg.JPX.RetryMax)
}

// ProvideBytesCache picks the history cache backend: Redis when
// configured, otherwise an in-process TTL map.
func ProvideBytesCache(cfg *config.Config) cache.BytesCache {
	if cfg.Cache.Redis.Enabled && cfg.Cache.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		return cache.NewRedisCache(client, "etfview:")
	}
	return cache.NewTTLCache(time.Minute)
}

// ProvideNotifier creates the LINE Notify channel. An empty token
// yields a no-op notifier.
func ProvideNotifier(cfg *config.Config) repository.Notifier {
	return notify.NewLine(cfg.FX.LineToken)
}

// ProvideAnalyst creates the Gemini commentary client, or nil when no
// API key is configured.
func ProvideAnalyst(cfg *config.Config) (repository.Analyst, error) {
	if cfg.FX.GeminiAPIKey == "" {
		return nil, nil
	}
	return analyst.NewGemini(context.Background(), cfg.FX.GeminiAPIKey, cfg.FX.GeminiModel)
}

// ProvideDashboard creates the fetch-cycle orchestrator.
func ProvideDashboard(
	lister repository.InstrumentLister,
	histories repository.HistoryProvider,
	store cache.BytesCache,
	engine *market.Engine,
	clock market.Clock,
	log *logger.Logger,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.Dashboard {
	return usecase.NewDashboard(lister, histories, store, engine, clock, log, m, usecase.DashboardConfig{
		Delay:    cfg.Fetch.Delay,
		CacheTTL: cfg.Cache.TTL,
	})
}

// ProvideFXWatcher creates the USD/JPY wall watcher.
func ProvideFXWatcher(
	candles repository.CandleProvider,
	notifier repository.Notifier,
	an repository.Analyst,
	m repository.Metrics,
	clock market.Clock,
	log *logger.Logger,
	cfg *config.Config,
) *usecase.FXWatcher {
	return usecase.NewFXWatcher(candles, notifier, an, m, clock, log, usecase.FXWatcherConfig{
		Symbol:         cfg.FX.Symbol,
		Threshold:      cfg.FX.Threshold,
		RangeThreshold: cfg.FX.RangeThreshold,
		Cooldown:       cfg.FX.Cooldown,
	})
}

func ProvideEtfsHandler(log *logger.Logger, dashboard *usecase.Dashboard, cfg *config.Config) *api.EtfsEchoHandler {
	return api.NewEtfsEchoHandler(log, dashboard, cfg.Fetch.DefaultLimit)
}

func ProvideFXHandler(log *logger.Logger, watcher *usecase.FXWatcher) *api.FXEchoHandler {
	return api.NewFXEchoHandler(log, watcher)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	dashboard *usecase.Dashboard,
	watcher *usecase.FXWatcher,
	etfs *api.EtfsEchoHandler,
	fx *api.FXEchoHandler,
	store cache.BytesCache,
) *server.App {
	return server.New(cfg, log, dashboard, watcher, etfs, fx, store)
}
