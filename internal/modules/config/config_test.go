package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "configs"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "configs", "values_local.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
}

func TestNewConfig_Defaults(t *testing.T) {
	writeConfig(t, `
exchange: mexc
trading:
  symbols: [BTC_USDT, ETH_USDT]
`)
	cfg, err := NewConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Trading.PollInterval != 60*time.Second {
		t.Fatalf("poll = %s, want 60s", cfg.Trading.PollInterval)
	}
	if cfg.Trading.CandleLimit != 50 || cfg.Trading.Leverage != 10 {
		t.Fatalf("defaults: %+v", cfg.Trading)
	}
	if len(cfg.Trading.Symbols) != 2 {
		t.Fatalf("symbols: %v", cfg.Trading.Symbols)
	}
}

func TestNewConfig_PresetThenYamlWins(t *testing.T) {
	writeConfig(t, `
exchange: binance
preset: aggr
trading:
  symbols: [BTCUSDT]
  leverage: 7
`)
	cfg, err := NewConfig()
	if err != nil {
		t.Fatal(err)
	}
	// из пресета aggr
	if cfg.Trading.RiskPerTrade != 0.02 {
		t.Fatalf("risk = %v, want 0.02 из пресета", cfg.Trading.RiskPerTrade)
	}
	// явное поле файла сильнее пресета
	if cfg.Trading.Leverage != 7 {
		t.Fatalf("leverage = %d, want 7 из yaml", cfg.Trading.Leverage)
	}
}

func TestNewConfig_UnknownPreset(t *testing.T) {
	writeConfig(t, `
exchange: mexc
preset: yolo
trading:
  symbols: [BTC_USDT]
`)
	if _, err := NewConfig(); err == nil {
		t.Fatal("ожидали ошибку про неизвестный пресет")
	}
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	writeConfig(t, `
exchange: mexc
trading:
  symbols: [BTC_USDT]
telegram:
  token: from-yaml
`)
	t.Setenv("TELEGRAM_TOKEN", "from-env")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("DATABASE_DSN", "postgres://x")
	cfg, err := NewConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Telegram.Token != "from-env" || cfg.Telegram.ChatID != 42 {
		t.Fatalf("telegram: %+v", cfg.Telegram)
	}
	if cfg.DB != "postgres://x" {
		t.Fatalf("dsn: %s", cfg.DB)
	}
}

func TestNewConfig_Validation(t *testing.T) {
	writeConfig(t, `
exchange: mexc
trading:
  symbols: []
`)
	if _, err := NewConfig(); err == nil {
		t.Fatal("пустой список символов должен быть ошибкой")
	}

	writeConfig(t, `
exchange: kraken
trading:
  symbols: [BTC_USDT]
`)
	if _, err := NewConfig(); err == nil {
		t.Fatal("неизвестная биржа должна быть ошибкой")
	}
}
