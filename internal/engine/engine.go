// Package engine — решающий движок: TP/SL по открытой позиции или вход
// по сигналу. Чистая логика, без сайд-эффектов: ордера/уведомления/журнал
// остаются на раннере.
package engine

import (
	"math"

	"futures_bot/internal/models"
)

type Engine struct {
	ts *models.TradingSettings
}

func New(ts *models.TradingSettings) *Engine {
	return &Engine{ts: ts}
}

// Decide — один проход машины состояний по символу.
//
// Позиция открыта: считаем изменение цены от входа в процентах
// (для шорта знак инвертируем, чтобы плюс всегда означал профит)
// и проверяем TP/SL. Сигнал при открытой позиции игнорируется
// полностью — одна позиция на символ, жёсткое правило.
//
// Флэт: входим только если скор прошёл порог и направление не HOLD.
// balance нужен лишь в этой ветке; раннер дёргает биржу за ним
// только когда вход возможен.
func (e *Engine) Decide(pos models.Position, sig models.Signal, priceNow, balance float64) models.Decision {
	if !pos.Flat() {
		changePct := (priceNow - pos.Entry) / pos.Entry * 100
		if pos.Qty < 0 {
			changePct *= -1
		}
		switch {
		case changePct >= e.ts.TakeProfitPct:
			return models.Decision{Kind: models.CloseTakeProfit, ChangePct: changePct}
		case changePct <= -e.ts.StopLossPct:
			return models.Decision{Kind: models.CloseStopLoss, ChangePct: changePct}
		default:
			return models.Decision{Kind: models.NoAction, ChangePct: changePct}
		}
	}

	if sig.Score >= e.ts.MinConfidenceScore && sig.Direction != models.DirectionHold {
		side := models.SideBuy
		if sig.Direction == models.DirectionShort {
			side = models.SideSell
		}
		qty := round3(balance * e.ts.RiskPerTrade * float64(e.ts.Leverage) / priceNow)
		return models.Decision{Kind: models.OpenPosition, Side: side, Qty: qty}
	}
	return models.Decision{Kind: models.NoAction}
}

// EntryPossible — пройдёт ли сигнал порог входа. Раннер спрашивает это
// до похода за балансом, чтобы не дёргать биржу впустую.
func (e *Engine) EntryPossible(sig models.Signal) bool {
	return sig.Score >= e.ts.MinConfidenceScore && sig.Direction != models.DirectionHold
}

// CloseSide — сторона закрывающего ордера по знаку позиции.
func CloseSide(qty float64) models.Side {
	if qty > 0 {
		return models.SideSell
	}
	return models.SideBuy
}

// round3 — округление до 3 знаков. Аппроксимация лот-сайза биржи,
// одинаковая для всех символов; известное ограничение, не чинить
// по-разному на разных биржах.
func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
