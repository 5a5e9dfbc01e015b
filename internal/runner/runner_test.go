package runner

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"futures_bot/internal/engine"
	"futures_bot/internal/journal"
	"futures_bot/internal/models"
	healthstate "futures_bot/internal/modules/health/service"
	"futures_bot/internal/strategy"
	"futures_bot/pkg/logger"

	"github.com/pkg/errors"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type placedOrder struct {
	symbol string
	side   models.Side
	qty    float64
}

type fakeGateway struct {
	prices     []float64
	volumes    []float64
	candlesErr error

	qty, entry float64
	balance    float64

	orders      []placedOrder
	leverageSet int
}

func (g *fakeGateway) Name() string { return "fake" }

func (g *fakeGateway) GetCandles(context.Context, string, string, int) ([]float64, []float64, error) {
	if g.candlesErr != nil {
		return nil, nil, g.candlesErr
	}
	return g.prices, g.volumes, nil
}

func (g *fakeGateway) GetPosition(context.Context, string) (float64, float64, error) {
	return g.qty, g.entry, nil
}

func (g *fakeGateway) GetBalance(context.Context) (float64, error) { return g.balance, nil }

func (g *fakeGateway) SetLeverage(_ context.Context, _ string, lev int) error {
	g.leverageSet = lev
	return nil
}

func (g *fakeGateway) PlaceOrder(_ context.Context, symbol string, side models.Side, qty float64) (string, error) {
	g.orders = append(g.orders, placedOrder{symbol: symbol, side: side, qty: qty})
	return "fake-order", nil
}

type fakeNotifier struct {
	msgs []string
}

func (n *fakeNotifier) Send(msg string) { n.msgs = append(n.msgs, msg) }
func (n *fakeNotifier) Sendf(format string, args ...any) {
	n.Send(fmt.Sprintf(format, args...))
}

type loggedTrade struct {
	symbol string
	side   models.Side
	qty    float64
	action string
	snap   models.Snapshot
}

type fakeJournal struct {
	trades []loggedTrade
}

func (j *fakeJournal) LogTrade(_ context.Context, symbol string, side models.Side, qty float64, action string, snap models.Snapshot) {
	j.trades = append(j.trades, loggedTrade{symbol, side, qty, action, snap})
}

func settings() *models.TradingSettings {
	return &models.TradingSettings{
		Timeframe:          "1m",
		CandleLimit:        50,
		MinConfidenceScore: 0.4,
		TakeProfitPct:      5,
		StopLossPct:        5,
		RiskPerTrade:       0.01,
		Leverage:           10,
		Symbols:            []string{"BTC_USDT"},
	}
}

func newRunner(ts *models.TradingSettings, gw *fakeGateway) (*Runner, *fakeNotifier, *fakeJournal) {
	n := &fakeNotifier{}
	jr := &fakeJournal{}
	r := New(ts, gw, engine.New(ts), n, jr, healthstate.NewState())
	return r, n, jr
}

func bullish() ([]float64, []float64) {
	prices := make([]float64, 0, 26)
	volumes := make([]float64, 0, 26)
	for i := 0; i < 20; i++ {
		prices = append(prices, 100)
	}
	prices = append(prices, 101, 102, 103, 104, 105, 106)
	for i := 0; i < 25; i++ {
		volumes = append(volumes, 1000)
	}
	volumes = append(volumes, 2000)
	return prices, volumes
}

func TestCheckAndTrade_OpensLong(t *testing.T) {
	prices, volumes := bullish()
	gw := &fakeGateway{prices: prices, volumes: volumes, balance: 1000}
	ts := settings()
	r, n, jr := newRunner(ts, gw)

	if err := r.checkAndTrade(context.Background(), "BTC_USDT"); err != nil {
		t.Fatal(err)
	}
	if len(gw.orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(gw.orders))
	}
	o := gw.orders[0]
	if o.side != models.SideBuy {
		t.Fatalf("side = %q, want BUY", o.side)
	}
	// round(1000*0.01*10/106, 3)
	if o.qty != 0.943 {
		t.Fatalf("qty = %v, want 0.943", o.qty)
	}
	if gw.leverageSet != 10 {
		t.Fatalf("leverage = %d, want 10", gw.leverageSet)
	}
	if len(n.msgs) != 1 || !strings.Contains(n.msgs[0], "🚀") {
		t.Fatalf("ровно одно уведомление о входе, got %v", n.msgs)
	}
	if len(jr.trades) != 1 || jr.trades[0].action != journal.ActionOpen {
		t.Fatalf("журнал: %v", jr.trades)
	}
	if jr.trades[0].snap.EMA9 == 0 {
		t.Fatal("в журнал при открытии должен уходить снапшот индикаторов")
	}
}

func TestCheckAndTrade_OpenPositionBlocksEntry(t *testing.T) {
	prices, volumes := bullish()
	// позиция в мёртвой зоне: +1% при TP=5 SL=5
	gw := &fakeGateway{prices: prices, volumes: volumes, qty: 1, entry: 105, balance: 100000}
	r, n, jr := newRunner(settings(), gw)

	if err := r.checkAndTrade(context.Background(), "BTC_USDT"); err != nil {
		t.Fatal(err)
	}
	if len(gw.orders) != 0 {
		t.Fatalf("при открытой позиции входов быть не должно: %v", gw.orders)
	}
	if len(n.msgs) != 0 || len(jr.trades) != 0 {
		t.Fatalf("no_action не шлёт уведомлений и не пишет журнал")
	}
}

func TestCheckAndTrade_ShortTakeProfit(t *testing.T) {
	prices, volumes := bullish()
	prices[len(prices)-1] = 90 // цена упала: для шорта от 100 это +10%
	gw := &fakeGateway{prices: prices, volumes: volumes, qty: -5, entry: 100}
	r, n, jr := newRunner(settings(), gw)

	if err := r.checkAndTrade(context.Background(), "BTC_USDT"); err != nil {
		t.Fatal(err)
	}
	if len(gw.orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(gw.orders))
	}
	o := gw.orders[0]
	if o.side != models.SideBuy || o.qty != 5 {
		t.Fatalf("закрытие шорта: %q %v, want BUY 5", o.side, o.qty)
	}
	if len(n.msgs) != 1 || !strings.Contains(n.msgs[0], "TP") {
		t.Fatalf("уведомление о TP: %v", n.msgs)
	}
	if len(jr.trades) != 1 || jr.trades[0].action != journal.ActionClose {
		t.Fatalf("журнал: %v", jr.trades)
	}
	if jr.trades[0].snap != (models.Snapshot{}) {
		t.Fatal("при закрытии снапшот в журнал не пишется")
	}
}

func TestCheckAndTrade_ShortHistory(t *testing.T) {
	gw := &fakeGateway{prices: []float64{1, 2, 3}, volumes: []float64{1, 2, 3}}
	r, _, _ := newRunner(settings(), gw)

	err := r.checkAndTrade(context.Background(), "BTC_USDT")
	if !errors.Is(err, strategy.ErrShortHistory) {
		t.Fatalf("err = %v, want ErrShortHistory", err)
	}
}

func TestRunCycle_ErrorDoesNotStopOtherSymbols(t *testing.T) {
	ts := settings()
	ts.Symbols = []string{"BAD_USDT", "BTC_USDT"}

	prices, volumes := bullish()
	gw := &symbolAwareGateway{
		fakeGateway: fakeGateway{prices: prices, volumes: volumes, balance: 1000},
	}
	n := &fakeNotifier{}
	jr := &fakeJournal{}
	r := New(ts, gw, engine.New(ts), n, jr, healthstate.NewState())

	r.runCycle(context.Background())

	// первый символ упал, но второй всё равно отработал и открылся
	if len(gw.orders) != 1 || gw.orders[0].symbol != "BTC_USDT" {
		t.Fatalf("orders = %v", gw.orders)
	}
	found := false
	for _, m := range n.msgs {
		if strings.Contains(m, "❗") && strings.Contains(m, "BAD_USDT") {
			found = true
		}
	}
	if !found {
		t.Fatalf("нет уведомления об ошибке по BAD_USDT: %v", n.msgs)
	}
}

type symbolAwareGateway struct {
	fakeGateway
}

func (g *symbolAwareGateway) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]float64, []float64, error) {
	if symbol == "BAD_USDT" {
		return nil, nil, errors.New("boom")
	}
	return g.fakeGateway.GetCandles(ctx, symbol, interval, limit)
}

func TestPauseResume(t *testing.T) {
	gw := &fakeGateway{}
	r, _, _ := newRunner(settings(), gw)

	if r.Paused() {
		t.Fatal("свежий раннер не должен быть на паузе")
	}
	r.Pause()
	if !r.Paused() {
		t.Fatal("Pause() не взвёл флаг")
	}
	r.Resume()
	if r.Paused() {
		t.Fatal("Resume() не снял флаг")
	}
	if !strings.Contains(r.Status(), "fake") {
		t.Fatalf("status: %s", r.Status())
	}
}
