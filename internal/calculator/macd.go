package calculator

const (
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9
)

// MACD uses recursive EMAs seeded with the first close.
func MACD(closes []float64) (line, signal, hist []float64) {
	fast := ewm(closes, spanAlpha(macdFast), false)
	slow := ewm(closes, spanAlpha(macdSlow), false)
	line = make([]float64, len(closes))
	for i := range closes {
		line[i] = fast[i] - slow[i]
	}
	signal = ewm(line, spanAlpha(macdSignal), false)
	hist = make([]float64, len(closes))
	for i := range closes {
		hist[i] = line[i] - signal[i]
	}
	return line, signal, hist
}
