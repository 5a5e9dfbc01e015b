package indicator

import (
	"math"
	"testing"
)

func seq(n int, f func(i int) float64) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = f(i)
	}
	return xs
}

func TestEMA_TrailingMean(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5, 6}
	got := EMA(prices, 3)
	if got != 5 {
		t.Fatalf("EMA(3) = %v, want 5", got)
	}
}

func TestEMA_ShortInputUsesAvailable(t *testing.T) {
	prices := []float64{10, 20}
	if got := EMA(prices, 9); got != 15 {
		t.Fatalf("EMA over short input = %v, want 15", got)
	}
}

func TestRSI_MonotonicUp(t *testing.T) {
	// только гейны: avg_loss подменяется эпсилоном,
	// RSI стремится к 100, но ровно 100 не достигает
	prices := seq(30, func(i int) float64 { return 100 + float64(i) })
	got := RSI(prices, 14)
	if got <= 99 || got >= 100 {
		t.Fatalf("RSI up = %v, want (99, 100)", got)
	}
}

func TestRSI_MonotonicDown(t *testing.T) {
	prices := seq(30, func(i int) float64 { return 100 - float64(i) })
	got := RSI(prices, 14)
	if got < 0 || got >= 1 {
		t.Fatalf("RSI down = %v, want [0, 1)", got)
	}
}

func TestRSI_FlatSaturates(t *testing.T) {
	// нулевые дельты падают в losses, их среднее 0 -> rs=+Inf -> 100
	prices := seq(30, func(int) float64 { return 42 })
	got := RSI(prices, 14)
	if got != 100 {
		t.Fatalf("RSI flat = %v, want 100", got)
	}
	if math.IsNaN(got) {
		t.Fatal("RSI flat must not be NaN")
	}
}

func TestMACD_KnownValues(t *testing.T) {
	// 26 одинаковых цен: fast == slow == signal -> line 0, hist -цена
	prices := seq(26, func(int) float64 { return 50 })
	line, hist := MACD(prices)
	if line != 0 {
		t.Fatalf("line = %v, want 0", line)
	}
	if hist != -50 {
		t.Fatalf("hist = %v, want -50 (псевдо-сигнал = mean цен)", hist)
	}
}

func TestMACD_RisingTail(t *testing.T) {
	prices := append(seq(20, func(int) float64 { return 100 }), 101, 102, 103, 104, 105, 106)
	line, _ := MACD(prices)
	if line <= 0 {
		t.Fatalf("line = %v, want > 0 при растущем хвосте", line)
	}
}

func TestSupertrend(t *testing.T) {
	up := append(seq(10, func(int) float64 { return 100 }), 110)
	if !Supertrend(up) {
		t.Fatal("цена выше 10-периодной средней, ожидали true")
	}
	down := append(seq(10, func(int) float64 { return 100 }), 90)
	if Supertrend(down) {
		t.Fatal("цена ниже средней, ожидали false")
	}
}

func TestVolumeSpike(t *testing.T) {
	vols := append(seq(10, func(int) float64 { return 1000 }), 2000)
	if !VolumeSpike(vols) {
		t.Fatal("удвоенный объём должен давать спайк")
	}
	if VolumeSpike(seq(10, func(int) float64 { return 1000 })) {
		t.Fatal("ровный объём не спайк")
	}
}
