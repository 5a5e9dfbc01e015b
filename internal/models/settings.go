package models

import "time"

// TradingSettings — настройки стратегии/риска. Загружаются один раз
// при старте и дальше только читаются.
type TradingSettings struct {
	Timeframe string `yaml:"timeframe"`
	// интервал опроса задаётся через ENV POLL_INTERVAL ("60s"),
	// yaml.v2 не умеет разбирать duration из строки
	PollInterval       time.Duration `yaml:"-"`
	CandleLimit        int           `yaml:"candle_limit"`
	MinConfidenceScore float64       `yaml:"min_confidence_score"`
	TakeProfitPct      float64       `yaml:"take_profit_pct"`
	StopLossPct        float64       `yaml:"stop_loss_pct"`
	RiskPerTrade       float64       `yaml:"risk_per_trade"`
	Leverage           int           `yaml:"leverage"`
	Symbols            []string      `yaml:"symbols"`
}
