// Package strategy — скоринг сигнала по набору индикаторов.
package strategy

import (
	"github.com/pkg/errors"

	"futures_bot/internal/indicator"
	"futures_bot/internal/models"
)

// MinHistory — самый длинный lookback среди индикаторов (slow MACD).
// Короче — индикаторы молча деградируют, поэтому режем на входе.
const MinHistory = 26

var ErrShortHistory = errors.New("not enough candle history")

// Evaluate считает снапшот индикаторов и собирает из него скор [0..1]
// и направление. Пять независимых условий по 0.2: скор всегда кратен 0.2.
// Направление считается отдельно от скора: при EMA9 == EMA21 будет HOLD
// даже с высоким скором — вход обязан проверять Direction.
func Evaluate(prices, volumes []float64) (models.Signal, error) {
	if len(prices) < MinHistory {
		return models.Signal{}, errors.Wrapf(ErrShortHistory, "prices: have %d, need %d", len(prices), MinHistory)
	}
	if len(volumes) == 0 {
		return models.Signal{}, errors.Wrap(ErrShortHistory, "volumes: empty")
	}

	_, hist := indicator.MACD(prices)
	snap := models.Snapshot{
		EMA9:        indicator.EMA(prices, 9),
		EMA21:       indicator.EMA(prices, 21),
		RSI:         indicator.RSI(prices, 14),
		MACDHist:    hist,
		VolumeSpike: indicator.VolumeSpike(volumes),
		Supertrend:  indicator.Supertrend(prices),
	}

	score := 0.0
	if snap.EMA9 > snap.EMA21 {
		score += 0.2
	}
	if snap.RSI > 50 {
		score += 0.2
	}
	if snap.MACDHist > 0 {
		score += 0.2
	}
	if snap.VolumeSpike {
		score += 0.2
	}
	if snap.Supertrend {
		score += 0.2
	}

	direction := models.DirectionHold
	switch {
	case snap.EMA9 > snap.EMA21:
		direction = models.DirectionLong
	case snap.EMA9 < snap.EMA21:
		direction = models.DirectionShort
	}

	return models.Signal{Score: score, Direction: direction, Snap: snap}, nil
}
