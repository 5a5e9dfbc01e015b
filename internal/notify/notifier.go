package notify

import (
	"context"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"futures_bot/internal/exchange"
	"futures_bot/pkg/logger"
)

// Notifier — best-effort доставка сообщений: ошибки отправки глотаем,
// торговый цикл из-за телеги не падает.
type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
}

// Controller — управление ботом из команд (/pause, /resume, /status).
// Реализует раннер; пауза — атомарный флаг, никаких голых переменных.
type Controller interface {
	Pause()
	Resume()
	Paused() bool
	Status() string
}

// Telegram — нотифайер + обработка команд управления в long-polling.
type Telegram struct {
	bot     *tgbot.BotAPI
	chatID  int64
	gw      exchange.Gateway
	symbols []string
	ctrl    Controller
}

func NewTelegram(token string, chatID int64, gw exchange.Gateway, symbols []string, ctrl Controller) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{bot: b, chatID: chatID, gw: gw, symbols: symbols, ctrl: ctrl}, nil
}

func (t *Telegram) Send(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	if _, err := t.bot.Send(tgbot.NewMessage(t.chatID, msg)); err != nil {
		logger.Error("telegram send: %v", err)
	}
}

func (t *Telegram) Sendf(format string, args ...any) { t.Send(fmt.Sprintf(format, args...)) }

// Start — long-polling команд. Сообщения из чужих чатов игнорируем.
func (t *Telegram) Start(ctx context.Context) error {
	if t == nil || t.bot == nil {
		return nil
	}

	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message"}

	updates := t.bot.GetUpdatesChan(u)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd := <-updates:
				if upd.Message == nil || upd.Message.Chat == nil ||
					upd.Message.Chat.ID != t.chatID || !upd.Message.IsCommand() {
					continue
				}
				switch upd.Message.Command() {
				case "pause":
					t.ctrl.Pause()
					t.Send("⏸ Бот на паузе: сигналы не проверяются")
				case "resume":
					t.ctrl.Resume()
					t.Send("▶️ Бот снова в работе")
				case "status":
					t.Send(t.ctrl.Status())
				case "positions":
					go t.handlePositions(ctx)
				}
			}
		}
	}()
	return nil
}

func (t *Telegram) Stop() { t.bot.StopReceivingUpdates() }

// /positions — открытые позиции по отслеживаемым символам.
func (t *Telegram) handlePositions(ctx context.Context) {
	var b strings.Builder
	open := 0
	for _, sym := range t.symbols {
		qty, entry, err := t.gw.GetPosition(ctx, sym)
		if err != nil {
			t.Sendf("❗️ Ошибка получения позиции %s: %v", sym, err)
			return
		}
		if qty == 0 {
			continue
		}
		open++
		side := "LONG"
		if qty < 0 {
			side = "SHORT"
		}
		fmt.Fprintf(&b, "- %s [%s] vol=%.4f @ %.4f\n", sym, side, qty, entry)
	}
	if open == 0 {
		t.Send("📭 Открытых позиций нет")
		return
	}
	t.Send("📊 Открытые позиции:\n" + b.String())
}

// Stdout — заглушка, когда телега не настроена: всё в лог.
type Stdout struct{}

func NewStdout() *Stdout                           { return &Stdout{} }
func (s *Stdout) Send(msg string)                  { logger.Info("%s", msg) }
func (s *Stdout) Sendf(format string, args ...any) { logger.Info(format, args...) }
