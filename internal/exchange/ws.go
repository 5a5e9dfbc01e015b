package exchange

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
)

func (m *Mexc) setPrice(symbol string, price float64) {
	m.mu.Lock()
	m.prices[symbol] = price
	m.mu.Unlock()
}

// LastPrice — последняя цена из WS-потока; 0, если тика ещё не было.
func (m *Mexc) LastPrice(symbol string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.prices[symbol]
}

// StreamPrices — поток последних цен по символу через sub.ticker.
// Переподключается с бэкоффом, держит соединение пингами.
// Канал закрывается после исчерпания попыток или отмены контекста.
func (m *Mexc) StreamPrices(ctx context.Context, symbol string) <-chan float64 {
	ch := make(chan float64)
	go func() {
		defer close(ch)
		retry := 0
		for {
			conn, _, err := m.wsDialer.Dial(m.wsURL, nil)
			if err != nil {
				retry++
				if retry > 8 {
					return
				}
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Duration(300*retry) * time.Millisecond):
				}
				continue
			}
			retry = 0
			_ = conn.WriteJSON(map[string]any{"method": "sub.ticker", "param": map[string]string{"symbol": symbol}})

			stopPing := make(chan struct{})
			go func() {
				t := time.NewTicker(15 * time.Second)
				defer t.Stop()
				for {
					select {
					case <-stopPing:
						return
					case <-ctx.Done():
						return
					case <-t.C:
						_ = conn.WriteJSON(map[string]string{"method": "ping"})
					}
				}
			}()

			for {
				_, msg, err := conn.ReadMessage()
				if err != nil {
					close(stopPing)
					_ = conn.Close()
					break
				}
				var frame struct {
					Channel string `json:"channel"`
					Data    struct {
						Last float64 `json:"lastPrice"`
					} `json:"data"`
				}
				if err := sonic.Unmarshal(msg, &frame); err == nil && frame.Channel == "push.ticker" {
					if frame.Data.Last != 0 {
						m.setPrice(symbol, frame.Data.Last)
						select {
						case ch <- frame.Data.Last:
						case <-ctx.Done():
							return
						}
					}
				}
			}

			select {
			case <-ctx.Done():
				return
			default:
				time.Sleep(1 * time.Second)
			}
		}
	}()
	return ch
}
