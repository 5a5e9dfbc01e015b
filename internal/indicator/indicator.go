// Package indicator — чистые функции над хвостом ценового/объёмного окна.
// EMA/MACD/supertrend здесь сознательно упрощены до скользящих средних:
// это прокси-формулы стратегии, а не учебниковые определения. Не "чинить".
package indicator

// epsAvg подставляется вместо среднего по пустому списку, чтобы
// не делить на ноль в RSI.
const epsAvg = 0.0001

func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// tail — последние n элементов; если данных меньше, берём сколько есть.
func tail(xs []float64, n int) []float64 {
	if n >= len(xs) {
		return xs
	}
	return xs[len(xs)-n:]
}

// EMA — среднее последних period цен. Не настоящая экспоненциальная
// средняя: прокси, как в стратегии. При нехватке истории молча
// усредняет доступное.
func EMA(prices []float64, period int) float64 {
	return Mean(tail(prices, period))
}

// RSI по последним period дельтам (идём от свежих цен назад,
// поэтому нужно period+1 точек). Нулевые дельты считаются убытком —
// ветка "diff > 0, иначе loss" сохранена намеренно.
func RSI(prices []float64, period int) float64 {
	var gains, losses []float64
	n := len(prices)
	for i := 1; i <= period; i++ {
		diff := prices[n-i] - prices[n-i-1]
		if diff > 0 {
			gains = append(gains, diff)
		} else {
			losses = append(losses, -diff)
		}
	}
	avgGain := epsAvg
	if len(gains) > 0 {
		avgGain = Mean(gains)
	}
	avgLoss := epsAvg
	if len(losses) > 0 {
		avgLoss = Mean(losses)
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// MACD: fast = mean(12), slow = mean(26), линия = fast-slow.
// "Сигнальная" линия — среднее последних 9 цен (псевдо-сигнал,
// не среднее самой MACD-линии). Возвращает линию и гистограмму.
func MACD(prices []float64) (line, histogram float64) {
	fast := Mean(tail(prices, 12))
	slow := Mean(tail(prices, 26))
	line = fast - slow
	signal := Mean(tail(prices, 9))
	histogram = line - signal
	return line, histogram
}

// Supertrend — грубый флаг тренда: цена выше своей 10-периодной средней.
func Supertrend(prices []float64) bool {
	return prices[len(prices)-1] > Mean(tail(prices, 10))
}

// VolumeSpike — последний объём выше среднего за 10 периодов.
func VolumeSpike(volumes []float64) bool {
	return volumes[len(volumes)-1] > Mean(tail(volumes, 10))
}
