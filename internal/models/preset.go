package models

type Preset struct {
	Name        string
	Description string
	Apply       func(ts *TradingSettings)
}

var Presets = map[string]Preset{
	"safe": {
		Name:        "🟢 Консервативный",
		Description: "Минимальный риск, подходит новичкам",
		Apply: func(ts *TradingSettings) {
			ts.RiskPerTrade = 0.005
			ts.Leverage = 5
			ts.TakeProfitPct = 1.5
			ts.StopLossPct = 1.0
			ts.MinConfidenceScore = 0.8
		},
	},
	"mid": {
		Name:        "🟡 Средний",
		Description: "Баланс риска и доходности",
		Apply: func(ts *TradingSettings) {
			ts.RiskPerTrade = 0.01
			ts.Leverage = 10
			ts.TakeProfitPct = 2.0
			ts.StopLossPct = 1.5
			ts.MinConfidenceScore = 0.6
		},
	},
	"aggr": {
		Name:        "🔴 Агрессивный",
		Description: "Высокий риск, только для опытных",
		Apply: func(ts *TradingSettings) {
			ts.RiskPerTrade = 0.02
			ts.Leverage = 20
			ts.TakeProfitPct = 3.0
			ts.StopLossPct = 2.0
			ts.MinConfidenceScore = 0.6
		},
	},
}
