// Package journal — журнал сделок. Запись best-effort: ошибка журнала
// не должна ломать торговый цикл, поэтому всё глотаем в лог.
package journal

import (
	"context"

	"futures_bot/internal/models"
	"futures_bot/pkg/db"
	"futures_bot/pkg/logger"
)

const (
	ActionOpen  = "OPEN"
	ActionClose = "CLOSE"
)

type Journal interface {
	LogTrade(ctx context.Context, symbol string, side models.Side, qty float64, action string, snap models.Snapshot)
}

// Pg пишет по строке на сделку: метка времени, символ, сторона, объём,
// действие и снапшот индикаторов — те же колонки, что в старой таблице.
type Pg struct {
	pg *db.Pg
}

func NewPg(pg *db.Pg) *Pg { return &Pg{pg: pg} }

const insertTradeSQL = `
insert into trades (symbol, side, qty, action, ema9, ema21, rsi, macd, volume_spike, trend)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

func (j *Pg) LogTrade(ctx context.Context, symbol string, side models.Side, qty float64, action string, snap models.Snapshot) {
	_, err := j.pg.Conn().Exec(ctx, insertTradeSQL,
		symbol, string(side), qty, action,
		snap.EMA9, snap.EMA21, snap.RSI, snap.MACDHist, snap.VolumeSpike, snap.Supertrend,
	)
	if err != nil {
		logger.Error("journal: insert trade %s %s: %v", symbol, action, err)
	}
}

const schemaSQL = `
create table if not exists trades (
    id           bigserial primary key,
    ts           timestamptz not null default now(),
    symbol       text        not null,
    side         text        not null,
    qty          double precision not null,
    action       text        not null,
    ema9         double precision,
    ema21        double precision,
    rsi          double precision,
    macd         double precision,
    volume_spike boolean,
    trend        boolean
)`

// EnsureSchema создаёт таблицу при первом запуске.
func (j *Pg) EnsureSchema(ctx context.Context) error {
	_, err := j.pg.Conn().Exec(ctx, schemaSQL)
	return err
}

// Stdout — журнал в лог, когда DSN не настроен.
type Stdout struct{}

func NewStdout() *Stdout { return &Stdout{} }

func (s *Stdout) LogTrade(_ context.Context, symbol string, side models.Side, qty float64, action string, snap models.Snapshot) {
	logger.Info("trade: %s %s %s qty=%.4f ema9=%.4f ema21=%.4f rsi=%.2f macd=%.4f vol=%t trend=%t",
		action, symbol, side, qty, snap.EMA9, snap.EMA21, snap.RSI, snap.MACDHist, snap.VolumeSpike, snap.Supertrend)
}
