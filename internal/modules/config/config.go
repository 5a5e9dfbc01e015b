package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"

	"futures_bot/internal/models"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	chatIDTelegramENV = "TELEGRAM_CHAT_ID"
	databaseDSNENV    = "DATABASE_DSN"
	exchangeENV       = "EXCHANGE"
)

// Config — вся конфигурация процесса. Читается один раз при старте,
// дальше только чтение. Секреты — только из ENV, в yaml их не кладём.
type Config struct {
	// binance | mexc
	Exchange string `yaml:"exchange"`

	// Имя риск-пресета (safe|mid|aggr); применяется до yaml-оверрайдов
	Preset string `yaml:"preset"`

	Trading models.TradingSettings `yaml:"trading"`

	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	// Журнал сделок; пусто — журнал в stdout
	DB string `yaml:"db_dsn"`

	Health struct {
		Addr string `yaml:"addr"`
	} `yaml:"health"`

	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`

	BinanceAPIKey    string `yaml:"-"`
	BinanceAPISecret string `yaml:"-"`
	MexcAPIKey       string `yaml:"-"`
	MexcAPISecret    string `yaml:"-"`
}

func NewConfig() (*Config, error) {
	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	raw, err := os.ReadFile("configs/" + configFileName)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{
		Exchange: getenvDefault(exchangeENV, "mexc"),
		Trading: models.TradingSettings{
			Timeframe:          getenvDefault("TIMEFRAME", "Min1"),
			PollInterval:       durationFromEnv("POLL_INTERVAL", "60s"),
			CandleLimit:        intFromEnv("CANDLE_LIMIT", 50),
			MinConfidenceScore: 0.6,
			TakeProfitPct:      2.0,
			StopLossPct:        1.5,
			RiskPerTrade:       0.01,
			Leverage:           10,
		},
	}
	cfg.Health.Addr = ":8080"

	// пресет применяем поверх дефолтов, но до значений из yaml,
	// чтобы явные поля файла всегда побеждали
	var head struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("decode config file: %w", err)
	}
	if head.Preset != "" {
		p, ok := models.Presets[head.Preset]
		if !ok {
			return nil, fmt.Errorf("unknown preset %q", head.Preset)
		}
		p.Apply(&cfg.Trading)
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("decode config file: %w", err)
	}

	if token := os.Getenv(tokenTelegramENV); token != "" {
		cfg.Telegram.Token = token
	}
	if v := os.Getenv(chatIDTelegramENV); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Telegram.ChatID = id
		}
	}
	if dsn := os.Getenv(databaseDSNENV); dsn != "" {
		cfg.DB = dsn
	}
	cfg.BinanceAPIKey = os.Getenv("BINANCE_API_KEY")
	cfg.BinanceAPISecret = os.Getenv("BINANCE_API_SECRET")
	cfg.MexcAPIKey = os.Getenv("MEXC_API_KEY")
	cfg.MexcAPISecret = os.Getenv("MEXC_API_SECRET")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Exchange != "binance" && c.Exchange != "mexc" {
		return fmt.Errorf("exchange must be binance or mexc, got %q", c.Exchange)
	}
	if len(c.Trading.Symbols) == 0 {
		return fmt.Errorf("symbols list is empty")
	}
	if c.Trading.RiskPerTrade <= 0 || c.Trading.RiskPerTrade > 1 {
		return fmt.Errorf("risk_per_trade must be in (0, 1], got %v", c.Trading.RiskPerTrade)
	}
	if c.Trading.Leverage < 1 {
		return fmt.Errorf("leverage must be >= 1, got %d", c.Trading.Leverage)
	}
	if c.Trading.MinConfidenceScore < 0 || c.Trading.MinConfidenceScore > 1 {
		return fmt.Errorf("min_confidence_score must be in [0, 1], got %v", c.Trading.MinConfidenceScore)
	}
	if c.Trading.TakeProfitPct <= 0 || c.Trading.StopLossPct <= 0 {
		return fmt.Errorf("take_profit_pct/stop_loss_pct must be positive")
	}
	if c.Trading.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}
	return nil
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
