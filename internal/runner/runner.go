// Package runner — цикл опроса: раз в интервал прогоняет все символы
// через эвалюатор и решающий движок, исполняет решения через шлюз биржи.
package runner

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"futures_bot/internal/engine"
	"futures_bot/internal/exchange"
	"futures_bot/internal/journal"
	"futures_bot/internal/metrics"
	"futures_bot/internal/models"
	healthstate "futures_bot/internal/modules/health/service"
	"futures_bot/internal/notify"
	"futures_bot/internal/strategy"
	"futures_bot/pkg/logger"
)

const healthNotifyEvery = 30 * time.Minute

type Runner struct {
	ctx    context.Context
	cancel context.CancelFunc

	ts   *models.TradingSettings
	gw   exchange.Gateway
	eng  *engine.Engine
	n    notify.Notifier
	jr   journal.Journal
	st   *healthstate.State
	ctrl *Control
}

func New(ts *models.TradingSettings, gw exchange.Gateway, eng *engine.Engine, n notify.Notifier, jr journal.Journal, st *healthstate.State) *Runner {
	return &Runner{ts: ts, gw: gw, eng: eng, n: n, jr: jr, st: st, ctrl: NewControl(st, gw.Name(), ts)}
}

// Start блокирует до отмены контекста. Символы обрабатываются строго
// последовательно; если цикл не уложился в интервал, следующий тик
// просто ждёт своей очереди — перекрытия циклов нет по построению.
func (r *Runner) Start(parent context.Context) {
	r.ctx, r.cancel = context.WithCancel(parent)

	logger.Info("[RUNNER] старт: exchange=%s symbols=%v tf=%s interval=%s",
		r.gw.Name(), r.ts.Symbols, r.ts.Timeframe, r.ts.PollInterval)
	r.n.Sendf("🚀 Бот запущен | %s | %d символов | TF=%s", r.gw.Name(), len(r.ts.Symbols), r.ts.Timeframe)

	// живой поток цен, если биржа умеет WS
	if ps, ok := r.gw.(exchange.PriceStreamer); ok {
		for _, sym := range r.ts.Symbols {
			stream := ps.StreamPrices(r.ctx, sym)
			go func() {
				// клиент кэширует последнюю цену сам, канал просто осушаем
				for range stream {
				}
			}()
		}
	}

	go r.healthLoop(r.ctx)
	r.st.SetReady(true)
	defer r.st.SetReady(false)

	ticker := time.NewTicker(r.ts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			if r.st.Paused() {
				continue
			}
			r.runCycle(r.ctx)
		}
	}
}

// Stop — мягко гасит раннер.
func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
}

// Управление из телеги.
func (r *Runner) Pause()         { r.ctrl.Pause() }
func (r *Runner) Resume()        { r.ctrl.Resume() }
func (r *Runner) Paused() bool   { return r.ctrl.Paused() }
func (r *Runner) Status() string { return r.ctrl.Status() }

// runCycle — один тик по всем символам. Ошибка одного символа уходит
// в уведомление, остальные символы обрабатываются дальше: ни ретраев,
// ни эскалации.
func (r *Runner) runCycle(ctx context.Context) {
	for _, sym := range r.ts.Symbols {
		if err := r.checkAndTrade(ctx, sym); err != nil {
			metrics.CycleErrors.WithLabelValues(sym).Inc()
			logger.Error("[CYCLE] %s: %v", sym, err)
			r.n.Sendf("❗️ [%s] Ошибка: %v", sym, err)
		}
	}
	r.st.TouchCycle(time.Now())
	metrics.CyclesTotal.Inc()
}

func (r *Runner) checkAndTrade(ctx context.Context, symbol string) error {
	sp := opentracing.GlobalTracer().StartSpan("check_and_trade")
	sp.SetTag("symbol", symbol)
	defer sp.Finish()
	ctx = opentracing.ContextWithSpan(ctx, sp)

	prices, volumes, err := r.gw.GetCandles(ctx, symbol, r.ts.Timeframe, r.ts.CandleLimit)
	if err != nil {
		return errors.Wrap(err, "get candles")
	}
	if len(prices) == 0 {
		return errors.New("empty candle response")
	}

	sig, err := strategy.Evaluate(prices, volumes)
	if err != nil {
		return errors.Wrap(err, "evaluate")
	}
	metrics.SignalsTotal.WithLabelValues(string(sig.Direction)).Inc()
	metrics.Score.WithLabelValues(symbol).Set(sig.Score)
	logger.Info("[EVAL] %s score=%.2f dir=%s ema9=%.4f ema21=%.4f rsi=%.2f",
		symbol, sig.Score, sig.Direction, sig.Snap.EMA9, sig.Snap.EMA21, sig.Snap.RSI)

	qty, entry, err := r.gw.GetPosition(ctx, symbol)
	if err != nil {
		return errors.Wrap(err, "get position")
	}
	pos := models.Position{Qty: qty, Entry: entry}
	metrics.OpenPosition.WithLabelValues(symbol).Set(qty)

	// цена для решения: закрытие последней свечи; при открытой позиции
	// берём более свежий WS-тик, если он есть
	priceNow := prices[len(prices)-1]
	if !pos.Flat() {
		if ps, ok := r.gw.(exchange.PriceStreamer); ok {
			if px := ps.LastPrice(symbol); px > 0 {
				priceNow = px
			}
		}
	}

	// баланс нужен только при возможном входе
	var balance float64
	if pos.Flat() && r.eng.EntryPossible(sig) {
		balance, err = r.gw.GetBalance(ctx)
		if err != nil {
			return errors.Wrap(err, "get balance")
		}
		metrics.Balance.Set(balance)
	}

	d := r.eng.Decide(pos, sig, priceNow, balance)
	sp.SetTag("decision", d.Kind.String())

	switch d.Kind {
	case models.CloseTakeProfit, models.CloseStopLoss:
		return r.closePosition(ctx, symbol, pos, d)
	case models.OpenPosition:
		return r.openPosition(ctx, symbol, sig, d, priceNow)
	default:
		return nil
	}
}

func (r *Runner) closePosition(ctx context.Context, symbol string, pos models.Position, d models.Decision) error {
	orderID, err := exchange.ClosePosition(ctx, r.gw, symbol, pos.Qty)
	if err != nil {
		return errors.Wrap(err, "close position")
	}
	side := engine.CloseSide(pos.Qty)
	metrics.OrdersTotal.WithLabelValues(string(side), d.Kind.String()).Inc()

	if d.Kind == models.CloseTakeProfit {
		r.n.Sendf("✅ [%s] TP сработал (%.2f%%) | %s %.4f | orderId=%s",
			symbol, d.ChangePct, side, pos.Qty, orderID)
	} else {
		r.n.Sendf("🛑 [%s] SL сработал (%.2f%%) | %s %.4f | orderId=%s",
			symbol, d.ChangePct, side, pos.Qty, orderID)
	}
	// при закрытии снапшот не пишем: решение приняла не стратегия, а TP/SL
	r.jr.LogTrade(ctx, symbol, side, absQty(pos.Qty), journal.ActionClose, models.Snapshot{})
	return nil
}

func (r *Runner) openPosition(ctx context.Context, symbol string, sig models.Signal, d models.Decision, priceNow float64) error {
	if err := r.gw.SetLeverage(ctx, symbol, r.ts.Leverage); err != nil {
		return errors.Wrap(err, "set leverage")
	}
	orderID, err := r.gw.PlaceOrder(ctx, symbol, d.Side, d.Qty)
	if err != nil {
		return errors.Wrap(err, "place order")
	}
	metrics.OrdersTotal.WithLabelValues(string(d.Side), d.Kind.String()).Inc()
	logger.Info("[SIGNAL] %s %s qty=%.3f @ %.4f", symbol, d.Side, d.Qty, priceNow)
	r.n.Sendf("🚀 [%s] %s | Score: %.2f | Qty: %.3f @ %.4f | lev=%dx | orderId=%s",
		symbol, sig.Direction, sig.Score, d.Qty, priceNow, r.ts.Leverage, orderID)
	r.jr.LogTrade(ctx, symbol, d.Side, d.Qty, journal.ActionOpen, sig.Snap)
	return nil
}

func (r *Runner) healthLoop(ctx context.Context) {
	ticker := time.NewTicker(healthNotifyEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			open := 0
			for _, sym := range r.ts.Symbols {
				if qty, _, err := r.gw.GetPosition(ctx, sym); err == nil && qty != 0 {
					open++
				}
			}
			r.n.Sendf("🩺 HEALTH | symbols=%d | openPositions=%d | paused=%t",
				len(r.ts.Symbols), open, r.st.Paused())
		}
	}
}

func absQty(q float64) float64 {
	if q < 0 {
		return -q
	}
	return q
}
