package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CyclesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_cycles_total",
			Help: "Total number of completed polling cycles.",
		},
	)

	CycleErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_cycle_errors_total",
			Help: "Per-symbol cycle errors converted to notifications.",
		},
		[]string{"symbol"},
	)

	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_signals_total",
			Help: "Evaluated signals by direction.",
		},
		[]string{"direction"},
	)

	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_orders_total",
			Help: "Placed orders by side and action (open/close_tp/close_sl).",
		},
		[]string{"side", "action"},
	)

	Score = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bot_signal_score",
			Help: "Last composite confidence score per symbol.",
		},
		[]string{"symbol"},
	)

	OpenPosition = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bot_open_position",
			Help: "Signed open position quantity per symbol.",
		},
		[]string{"symbol"},
	)

	Balance = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_balance_usdt",
			Help: "Last seen available USDT balance.",
		},
	)
)

func init() {
	prometheus.MustRegister(CyclesTotal, CycleErrors, SignalsTotal, OrdersTotal, Score, OpenPosition, Balance)
}
