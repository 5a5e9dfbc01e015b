package exchange

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"futures_bot/internal/models"
)

const binanceBaseURL = "https://fapi.binance.com"

// Binance — клиент USDT-M фьючерсов. Приватные вызовы подписываются
// HMAC-SHA256 от query string, ключ уходит в X-MBX-APIKEY.
type Binance struct {
	http      *http.Client
	baseURL   string
	apiKey    string
	apiSecret string
}

func NewBinance(apiKey, apiSecret string) *Binance {
	return &Binance{
		http:      &http.Client{Timeout: 10 * time.Second},
		baseURL:   binanceBaseURL,
		apiKey:    apiKey,
		apiSecret: apiSecret,
	}
}

func (b *Binance) Name() string { return "binance" }

func (b *Binance) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]float64, []float64, error) {
	u := fmt.Sprintf("%s/fapi/v1/klines?symbol=%s&interval=%s&limit=%d", b.baseURL, symbol, interval, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, nil, err
	}
	rb, err := b.do(req)
	if err != nil {
		return nil, nil, errors.Wrap(err, "binance klines")
	}

	// k[4] — close, k[5] — volume, оба строками
	var klines [][]any
	if err := sonic.Unmarshal(rb, &klines); err != nil {
		return nil, nil, errors.Wrap(err, "binance klines decode")
	}
	prices := make([]float64, 0, len(klines))
	volumes := make([]float64, 0, len(klines))
	for _, k := range klines {
		if len(k) < 6 {
			return nil, nil, errors.Errorf("binance kline: short row (%d fields)", len(k))
		}
		px, err := floatField(k[4])
		if err != nil {
			return nil, nil, errors.Wrap(err, "binance kline close")
		}
		vol, err := floatField(k[5])
		if err != nil {
			return nil, nil, errors.Wrap(err, "binance kline volume")
		}
		prices = append(prices, px)
		volumes = append(volumes, vol)
	}
	return prices, volumes, nil
}

func (b *Binance) GetBalance(ctx context.Context) (float64, error) {
	rb, err := b.signedRequest(ctx, http.MethodGet, "/fapi/v2/balance", url.Values{})
	if err != nil {
		return 0, errors.Wrap(err, "binance balance")
	}
	var balances []struct {
		Asset   string `json:"asset"`
		Balance string `json:"balance"`
	}
	if err := sonic.Unmarshal(rb, &balances); err != nil {
		return 0, errors.Wrap(err, "binance balance decode")
	}
	for _, bal := range balances {
		if bal.Asset == "USDT" {
			f, _ := strconv.ParseFloat(bal.Balance, 64)
			return f, nil
		}
	}
	return 0, nil
}

func (b *Binance) GetPosition(ctx context.Context, symbol string) (float64, float64, error) {
	rb, err := b.signedRequest(ctx, http.MethodGet, "/fapi/v2/positionRisk", url.Values{})
	if err != nil {
		return 0, 0, errors.Wrap(err, "binance positions")
	}
	var positions []struct {
		Symbol      string `json:"symbol"`
		PositionAmt string `json:"positionAmt"`
		EntryPrice  string `json:"entryPrice"`
	}
	if err := sonic.Unmarshal(rb, &positions); err != nil {
		return 0, 0, errors.Wrap(err, "binance positions decode")
	}
	for _, p := range positions {
		if p.Symbol == symbol {
			qty, _ := strconv.ParseFloat(p.PositionAmt, 64)
			entry, _ := strconv.ParseFloat(p.EntryPrice, 64)
			return qty, entry, nil
		}
	}
	return 0, 0, nil
}

func (b *Binance) SetLeverage(ctx context.Context, symbol string, leverage int) error {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("leverage", strconv.Itoa(leverage))
	_, err := b.signedRequest(ctx, http.MethodPost, "/fapi/v1/leverage", params)
	return errors.Wrap(err, "binance leverage")
}

func (b *Binance) PlaceOrder(ctx context.Context, symbol string, side models.Side, qty float64) (string, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("side", string(side))
	params.Set("type", "MARKET")
	params.Set("quantity", strconv.FormatFloat(qty, 'f', -1, 64))
	rb, err := b.signedRequest(ctx, http.MethodPost, "/fapi/v1/order", params)
	if err != nil {
		return "", errors.Wrap(err, "binance order")
	}
	var resp struct {
		OrderID int64  `json:"orderId"`
		Status  string `json:"status"`
	}
	if err := sonic.Unmarshal(rb, &resp); err != nil {
		return "", errors.Wrap(err, "binance order decode")
	}
	return strconv.FormatInt(resp.OrderID, 10), nil
}

func (b *Binance) signedRequest(ctx context.Context, method, path string, params url.Values) ([]byte, error) {
	params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	query := params.Encode()
	h := hmac.New(sha256.New, []byte(b.apiSecret))
	h.Write([]byte(query))
	sig := hex.EncodeToString(h.Sum(nil))

	u := b.baseURL + path + "?" + query + "&signature=" + sig
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-MBX-APIKEY", b.apiKey)
	return b.do(req)
}

func (b *Binance) do(req *http.Request) ([]byte, error) {
	resp, err := b.http.Do(req)
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

// floatField — значение kline как float: Binance шлёт строки,
// но числа тоже принимаем.
func floatField(v any) (float64, error) {
	switch x := v.(type) {
	case string:
		return strconv.ParseFloat(x, 64)
	case float64:
		return x, nil
	default:
		return 0, errors.Errorf("unexpected kline field type %T", v)
	}
}
