package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"EtfView/internal/domain/repository"
	"EtfView/internal/market"
	"EtfView/internal/service/fx"
	"EtfView/pkg/logger"
)

const (
	shortWindow = 5  // 15m bars, ±5 = 1h15m span
	longWindow  = 10 // 1h bars, ±10 = 10h span
	rangeBars   = 48 // trailing 15m bars, 12h
)

// FXWatcherConfig carries the tunables of one watch cycle. Thresholds
// are in JPY.
type FXWatcherConfig struct {
	Symbol         string
	Threshold      float64
	RangeThreshold float64
	Cooldown       time.Duration
}

// FXWatcher scans USD/JPY intraday bars for support/resistance walls
// and range-bound phases, and pushes a notification when the current
// price approaches one. Alerts are cooldown-gated per kind so a price
// hovering at a wall does not spam the channel.
type FXWatcher struct {
	candles  repository.CandleProvider
	notifier repository.Notifier
	analyst  repository.Analyst
	metrics  repository.Metrics
	clock    market.Clock
	log      *logger.Logger
	cfg      FXWatcherConfig

	mu           sync.Mutex
	lastNotified map[string]time.Time
}

func NewFXWatcher(
	candles repository.CandleProvider,
	notifier repository.Notifier,
	analyst repository.Analyst,
	m repository.Metrics,
	clock market.Clock,
	log *logger.Logger,
	cfg FXWatcherConfig,
) *FXWatcher {
	if clock == nil {
		clock = market.SystemClock()
	}
	if cfg.Symbol == "" {
		cfg.Symbol = "JPY=X"
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = 0.10
	}
	if cfg.RangeThreshold <= 0 {
		cfg.RangeThreshold = 0.30
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 2 * time.Hour
	}
	return &FXWatcher{
		candles:      candles,
		notifier:     notifier,
		analyst:      analyst,
		metrics:      m,
		clock:        clock,
		log:          log,
		cfg:          cfg,
		lastNotified: make(map[string]time.Time),
	}
}

// Run executes one watch cycle. Returns the message that was sent, or
// "" when nothing fired.
func (w *FXWatcher) Run(ctx context.Context) (string, error) {
	short, err := w.candles.Candles(ctx, w.cfg.Symbol, "2d", "15m")
	if err != nil {
		w.metrics.RecordError("fx_candles")
		return "", fmt.Errorf("short candles: %w", err)
	}
	long, err := w.candles.Candles(ctx, w.cfg.Symbol, "14d", "1h")
	if err != nil {
		w.metrics.RecordError("fx_candles")
		return "", fmt.Errorf("long candles: %w", err)
	}
	if len(short) == 0 || len(long) == 0 {
		return "", fmt.Errorf("empty candle series for %s", w.cfg.Symbol)
	}

	current := short[len(short)-1].Close

	shortTops, shortBottoms := fx.ExtractLevels(short, shortWindow)
	longTops, longBottoms := fx.ExtractLevels(long, longWindow)

	veryShort := short
	if len(veryShort) > rangeBars {
		veryShort = veryShort[len(veryShort)-rangeBars:]
	}

	var msg strings.Builder
	marketContext := ""

	inRange, rangeTop, rangeBottom := fx.InRange(veryShort, w.cfg.RangeThreshold)
	if inRange && w.canNotify("range") {
		fmt.Fprintf(&msg, "\n【📉レンジ相場】直近12時間は狭いレンジ（もみ合い）になっています！\n上限: %.2f円\n下限: %.2f円\n現在価格: %.2f円\n※ブレイクアウトにご注意ください。",
			rangeTop, rangeBottom, current)
		marketContext = fmt.Sprintf("過去12時間は %.2f円から%.2f円のレンジ相場。現在価格は%.2f円。", rangeBottom, rangeTop, current)
		w.markNotified("range")
	}

	// Long-horizon walls take priority over the short-term ones.
	if level, ok := fx.CheckProximity(current, longTops, w.cfg.Threshold); ok && w.canNotify("long_top") {
		fmt.Fprintf(&msg, "\n【🔥激アツ】過去14日間の強い天井（レジスタンス帯）に接近中！\n壁の価格: %.2f円\n現在価格: %.2f円\n※反発下落の可能性が高まっています。",
			level, current)
		marketContext = fmt.Sprintf("現在価格%.2f円。過去14日間の強力なレジスタンス(%.2f円)に接近中。", current, level)
		w.markNotified("long_top")
	}
	if level, ok := fx.CheckProximity(current, longBottoms, w.cfg.Threshold); ok && w.canNotify("long_bottom") {
		fmt.Fprintf(&msg, "\n【🔥激アツ】過去14日間の強い底（サポート帯）に接近中！\n壁の価格: %.2f円\n現在価格: %.2f円\n※反発上昇の可能性が高まっています。",
			level, current)
		marketContext = fmt.Sprintf("現在価格%.2f円。過去14日間の強力なサポート(%.2f円)に接近中。", current, level)
		w.markNotified("long_bottom")
	}

	if msg.Len() == 0 && !inRange {
		if level, ok := fx.CheckProximity(current, shortTops, w.cfg.Threshold); ok && w.canNotify("short_top") {
			fmt.Fprintf(&msg, "\n【⚠️注意】過去2日間の直近の天井に接近中！\n壁の価格: %.2f円\n現在価格: %.2f円", level, current)
			marketContext = fmt.Sprintf("現在価格%.2f円。直近2日間のレジスタンス(%.2f円)に接近中。", current, level)
			w.markNotified("short_top")
		}
		if level, ok := fx.CheckProximity(current, shortBottoms, w.cfg.Threshold); ok && w.canNotify("short_bottom") {
			fmt.Fprintf(&msg, "\n【⚠️注意】過去2日間の直近の底に接近中！\n壁の価格: %.2f円\n現在価格: %.2f円", level, current)
			marketContext = fmt.Sprintf("現在価格%.2f円。直近2日間のサポート(%.2f円)に接近中。", current, level)
			w.markNotified("short_bottom")
		}
	}

	if msg.Len() == 0 {
		w.log.Debug("fx watch: no walls in reach", logger.Float64("price", current))
		return "", nil
	}

	message := msg.String()
	if w.analyst != nil && marketContext != "" {
		if comment, err := w.analyst.Comment(ctx, marketContext); err != nil {
			w.log.Warn("fx analyst unavailable", logger.Error(err))
		} else if comment != "" {
			message += "\n\n🤖AIアナリストのひとこと:\n" + comment
		}
	}

	if err := w.notifier.Send(ctx, message); err != nil {
		w.metrics.RecordError("fx_notify")
		return "", fmt.Errorf("send alert: %w", err)
	}
	w.log.Info("fx alert sent", logger.Float64("price", current))
	return message, nil
}

func (w *FXWatcher) canNotify(kind string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	last, ok := w.lastNotified[kind]
	return !ok || w.clock.Now().Sub(last) > w.cfg.Cooldown
}

func (w *FXWatcher) markNotified(kind string) {
	w.mu.Lock()
	w.lastNotified[kind] = w.clock.Now()
	w.mu.Unlock()
	w.metrics.RecordAlert(kind)
}
