package exchange

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"futures_bot/internal/models"
)

const mexcBaseURL = "https://contract.mexc.com"

// Mexc — клиент контрактного API. Плечо у MEXC уходит в тело ордера,
// поэтому SetLeverage просто запоминает значение.
type Mexc struct {
	mu       sync.RWMutex
	prices   map[string]float64
	http     *http.Client
	wsDialer *websocket.Dialer
	wsURL    string

	baseURL   string
	apiKey    string
	apiSecret string
	leverage  int
}

func NewMexc(apiKey, apiSecret string) *Mexc {
	return &Mexc{
		prices:    make(map[string]float64),
		http:      &http.Client{Timeout: 10 * time.Second},
		wsDialer:  &websocket.Dialer{},
		wsURL:     "wss://contract.mexc.com/edge",
		baseURL:   mexcBaseURL,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		leverage:  1,
	}
}

func (m *Mexc) Name() string { return "mexc" }

func (m *Mexc) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]float64, []float64, error) {
	u := fmt.Sprintf("%s/api/v1/contract/kline/%s?interval=%s&limit=%d", m.baseURL, symbol, interval, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, nil, err
	}
	rb, err := m.do(req)
	if err != nil {
		return nil, nil, errors.Wrap(err, "mexc kline")
	}
	var wrap struct {
		Success bool `json:"success"`
		Code    int  `json:"code"`
		Data    []struct {
			Close float64 `json:"close"`
			Vol   float64 `json:"vol"`
		} `json:"data"`
	}
	if err := sonic.Unmarshal(rb, &wrap); err != nil {
		return nil, nil, errors.Wrap(err, "mexc kline decode")
	}
	if !wrap.Success {
		return nil, nil, errors.Errorf("mexc kline: success=false code=%d", wrap.Code)
	}
	prices := make([]float64, 0, len(wrap.Data))
	volumes := make([]float64, 0, len(wrap.Data))
	for _, k := range wrap.Data {
		prices = append(prices, k.Close)
		volumes = append(volumes, k.Vol)
	}
	return prices, volumes, nil
}

func (m *Mexc) GetBalance(ctx context.Context) (float64, error) {
	rb, err := m.privateGet(ctx, "/api/v1/private/account/assets")
	if err != nil {
		return 0, errors.Wrap(err, "mexc assets")
	}
	var wrap struct {
		Success bool `json:"success"`
		Data    []struct {
			Currency         string  `json:"currency"`
			AvailableBalance float64 `json:"availableBalance"`
		} `json:"data"`
		Message string `json:"message"`
	}
	if err := sonic.Unmarshal(rb, &wrap); err != nil {
		return 0, errors.Wrap(err, "mexc assets decode")
	}
	if !wrap.Success {
		return 0, errors.Errorf("mexc assets: %s", wrap.Message)
	}
	for _, b := range wrap.Data {
		if b.Currency == "USDT" {
			return b.AvailableBalance, nil
		}
	}
	return 0, nil
}

// Открытая позиция контрактного API (усечённо).
type mexcPosition struct {
	Symbol       string  `json:"symbol"`
	PositionType int     `json:"positionType"` // 1 long, 2 short
	HoldVol      float64 `json:"holdVol"`
	HoldAvgPrice float64 `json:"holdAvgPrice"`
}

func (m *Mexc) GetPosition(ctx context.Context, symbol string) (float64, float64, error) {
	rb, err := m.privateGet(ctx, "/api/v1/private/position/open_positions")
	if err != nil {
		return 0, 0, errors.Wrap(err, "mexc positions")
	}
	var wrap struct {
		Success bool           `json:"success"`
		Data    []mexcPosition `json:"data"`
		Message string         `json:"message"`
	}
	if err := sonic.Unmarshal(rb, &wrap); err != nil {
		return 0, 0, errors.Wrap(err, "mexc positions decode")
	}
	if !wrap.Success {
		return 0, 0, errors.Errorf("mexc positions: %s", wrap.Message)
	}
	for _, p := range wrap.Data {
		if p.Symbol == symbol {
			qty := p.HoldVol
			if p.PositionType == 2 {
				qty = -qty
			}
			return qty, p.HoldAvgPrice, nil
		}
	}
	return 0, 0, nil
}

func (m *Mexc) SetLeverage(_ context.Context, _ string, leverage int) error {
	m.mu.Lock()
	m.leverage = leverage
	m.mu.Unlock()
	return nil
}

func (m *Mexc) PlaceOrder(ctx context.Context, symbol string, side models.Side, qty float64) (string, error) {
	if m.apiKey == "" || m.apiSecret == "" {
		return "", errors.New("api creds empty")
	}
	// side: 1 — открыть лонг, 3 — открыть шорт; type 5 — рыночный
	sideInt := 1
	if side == models.SideSell {
		sideInt = 3
	}
	m.mu.RLock()
	lev := m.leverage
	m.mu.RUnlock()

	body := map[string]any{
		"symbol":   symbol,
		"price":    0,
		"vol":      qty,
		"type":     5,
		"side":     sideInt,
		"openType": 1,
		"leverage": lev,
	}
	b, err := sonic.Marshal(body)
	if err != nil {
		return "", errors.Wrap(err, "mexc order marshal")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/api/v1/private/order/submit", strings.NewReader(string(b)))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	m.signHeaders(req, string(b))

	rb, err := m.do(req)
	if err != nil {
		return "", errors.Wrap(err, "mexc order")
	}
	var wrap struct {
		Success bool `json:"success"`
		Code    int  `json:"code"`
		Data    struct {
			OrderID string `json:"orderId"`
		} `json:"data"`
		Message string `json:"message"`
	}
	if err := sonic.Unmarshal(rb, &wrap); err != nil {
		return "", errors.Wrap(err, "mexc order decode")
	}
	if !wrap.Success {
		return "", errors.Errorf("mexc order: code=%d msg=%s", wrap.Code, wrap.Message)
	}
	return wrap.Data.OrderID, nil
}

func (m *Mexc) privateGet(ctx context.Context, path string) ([]byte, error) {
	if m.apiKey == "" || m.apiSecret == "" {
		return nil, errors.New("api creds empty")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	m.signHeaders(req, "")
	return m.do(req)
}

// Подпись MEXC: hex(hmac-sha256(accessKey + requestTime + params)).
func (m *Mexc) signHeaders(req *http.Request, paramString string) {
	reqTime := fmt.Sprintf("%d", time.Now().UTC().UnixMilli())
	req.Header.Set("ApiKey", m.apiKey)
	req.Header.Set("Request-Time", reqTime)
	req.Header.Set("Signature", m.sign(m.apiKey, m.apiSecret, reqTime, paramString))
}

func (m *Mexc) sign(accessKey, secret, reqTime, paramString string) string {
	s := accessKey + reqTime + paramString
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

func (m *Mexc) do(req *http.Request) ([]byte, error) {
	resp, err := m.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	rb, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return nil, errors.Errorf("http %d: %s", resp.StatusCode, string(rb))
	}
	return rb, nil
}
