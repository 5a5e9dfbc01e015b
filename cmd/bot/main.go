package main

import (
	"context"
	"log"

	"go.uber.org/fx"

	"futures_bot/internal/engine"
	"futures_bot/internal/exchange"
	"futures_bot/internal/journal"
	"futures_bot/internal/models"
	"futures_bot/internal/modules/config"
	"futures_bot/internal/modules/health"
	healthstate "futures_bot/internal/modules/health/service"
	"futures_bot/internal/notify"
	"futures_bot/internal/runner"
	"futures_bot/pkg/db"
	"futures_bot/pkg/logger"
	"futures_bot/pkg/tracing"
)

const serviceName = "futures-bot"

func main() {
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}
	logger.SetServiceName(serviceName)

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
			newGateway,
			newSettings,
			newHealthConfig,
			newControl,
			newNotifier,
			newJournal,
			engine.New,
			runner.New,
		),
		config.Module(),
		health.Module(),
		fx.Invoke(
			initTracing,
			runBot,
		),
	)
	app.Run()
}

func newSettings(cfg *config.Config) *models.TradingSettings { return &cfg.Trading }

func newHealthConfig(cfg *config.Config) health.Config { return health.Config{Addr: cfg.Health.Addr} }

func newGateway(cfg *config.Config) (exchange.Gateway, error) {
	switch cfg.Exchange {
	case "binance":
		return exchange.NewBinance(cfg.BinanceAPIKey, cfg.BinanceAPISecret), nil
	default:
		return exchange.NewMexc(cfg.MexcAPIKey, cfg.MexcAPISecret), nil
	}
}

func newControl(st *healthstate.State, cfg *config.Config) *runner.Control {
	return runner.NewControl(st, cfg.Exchange, &cfg.Trading)
}

// Телега опциональна: без токена уведомления уходят в лог.
func newNotifier(lc fx.Lifecycle, ctx context.Context, cfg *config.Config, gw exchange.Gateway, ctrl *runner.Control) (notify.Notifier, error) {
	if cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0 {
		logger.Info("[BOOT] телеграм не настроен, уведомления в stdout")
		return notify.NewStdout(), nil
	}

	tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, gw, cfg.Trading.Symbols, ctrl)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error { return tg.Start(ctx) },
		OnStop: func(context.Context) error {
			tg.Stop()
			return nil
		},
	})
	return tg, nil
}

// Журнал сделок опционален: без DSN пишем в лог.
func newJournal(lc fx.Lifecycle, ctx context.Context, cfg *config.Config) (journal.Journal, error) {
	if cfg.DB == "" {
		logger.Info("[BOOT] DSN не задан, журнал сделок в stdout")
		return journal.NewStdout(), nil
	}

	pg, err := db.NewPg(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	jr := journal.NewPg(pg)
	if err := jr.EnsureSchema(ctx); err != nil {
		pg.Close()
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pg.Close()
			return nil
		},
	})
	return jr, nil
}

func initTracing(lc fx.Lifecycle, cfg *config.Config) error {
	if cfg.Jaeger.Host == "" {
		return nil
	}
	_, closeTracer, err := tracing.InitTracer(serviceName, tracing.Config{
		Host: cfg.Jaeger.Host,
		Port: cfg.Jaeger.Port,
	})
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			closeTracer()
			return nil
		},
	})
	return nil
}

func runBot(lc fx.Lifecycle, ctx context.Context, r *runner.Runner) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go r.Start(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			r.Stop()
			return nil
		},
	})
}
