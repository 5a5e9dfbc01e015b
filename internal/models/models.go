package models

// Side — сторона ордера: "BUY"/"SELL" или пустая строка.
type Side string

const (
	SideNone Side = ""
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Direction — направление сигнала. HOLD — когда EMA9 == EMA21.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
	DirectionHold  Direction = "HOLD"
)

// Snapshot — сырые значения индикаторов на момент оценки.
// Используется и для скоринга, и для журнала сделок.
type Snapshot struct {
	EMA9        float64
	EMA21       float64
	RSI         float64
	MACDHist    float64
	VolumeSpike bool
	Supertrend  bool
}

// Signal — ответ эвалюатора. Score и Direction считаются независимо:
// HOLD может идти с высоким скором, поэтому перед входом всегда
// проверяем Direction != HOLD.
type Signal struct {
	Score     float64
	Direction Direction
	Snap      Snapshot
}

// Position — позиция по символу, как её отдаёт биржа.
// Qty > 0 — лонг, < 0 — шорт, 0 — флэт. Локально не кэшируется.
type Position struct {
	Qty   float64
	Entry float64
}

func (p Position) Flat() bool { return p.Qty == 0 }

type DecisionKind int

const (
	NoAction DecisionKind = iota
	CloseTakeProfit
	CloseStopLoss
	OpenPosition
)

func (k DecisionKind) String() string {
	switch k {
	case CloseTakeProfit:
		return "close_tp"
	case CloseStopLoss:
		return "close_sl"
	case OpenPosition:
		return "open"
	default:
		return "no_action"
	}
}

// Decision — результат решающего движка на один цикл по символу.
// Side/Qty заполнены только для OpenPosition, ChangePct — для закрытий.
type Decision struct {
	Kind      DecisionKind
	Side      Side
	Qty       float64
	ChangePct float64
}
