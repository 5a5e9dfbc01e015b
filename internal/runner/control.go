package runner

import (
	"fmt"
	"time"

	"futures_bot/internal/models"
	healthstate "futures_bot/internal/modules/health/service"
)

// Control — управление ботом для внешних команд (телега). Живёт поверх
// health-состояния, поэтому не тянет за собой сам раннер: нотифайер
// можно собрать до него.
type Control struct {
	st       *healthstate.State
	exchange string
	ts       *models.TradingSettings
}

func NewControl(st *healthstate.State, exchange string, ts *models.TradingSettings) *Control {
	return &Control{st: st, exchange: exchange, ts: ts}
}

func (c *Control) Pause()       { c.st.SetPaused(true) }
func (c *Control) Resume()      { c.st.SetPaused(false) }
func (c *Control) Paused() bool { return c.st.Paused() }

func (c *Control) Status() string {
	return fmt.Sprintf("⚙️ %s | символов: %d | пауза: %t | аптайм: %s",
		c.exchange, len(c.ts.Symbols), c.st.Paused(), c.st.Uptime().Round(time.Second))
}
