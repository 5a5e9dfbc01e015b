// Package exchange — клиенты фьючерсных бирж за узким интерфейсом.
// Эвалюатор и движок решений зависят только от Gateway, биржевые
// различия остаются тут.
package exchange

import (
	"context"
	"math"

	"futures_bot/internal/models"
)

type Gateway interface {
	Name() string

	// GetCandles — close/volume последних limit свечей, свежие в конце.
	GetCandles(ctx context.Context, symbol, interval string, limit int) (prices, volumes []float64, err error)

	// GetPosition — объём (знак = сторона) и цена входа; 0,0 — флэт.
	GetPosition(ctx context.Context, symbol string) (qty, entry float64, err error)

	// GetBalance — доступный баланс в USDT.
	GetBalance(ctx context.Context) (float64, error)

	// SetLeverage — выставить плечо; no-op там, где плечо идёт в теле ордера.
	SetLeverage(ctx context.Context, symbol string, leverage int) error

	// PlaceOrder — рыночный ордер, возвращает id ордера.
	PlaceOrder(ctx context.Context, symbol string, side models.Side, qty float64) (string, error)
}

// PriceStreamer — опциональное расширение: живой поток последней цены
// по WS. Раннер использует его для проверки TP/SL между закрытиями свечей.
type PriceStreamer interface {
	StreamPrices(ctx context.Context, symbol string) <-chan float64
	LastPrice(symbol string) float64
}

// ClosePosition закрывает позицию рыночным ордером противоположной
// стороны, объём берёт по модулю.
func ClosePosition(ctx context.Context, gw Gateway, symbol string, qty float64) (string, error) {
	side := models.SideSell
	if qty < 0 {
		side = models.SideBuy
	}
	return gw.PlaceOrder(ctx, symbol, side, math.Abs(qty))
}
