package calculator

const (
	tenkanPeriod = 9
	kijunPeriod  = 26
)

// midRange is (highest high + lowest low) / 2 over a trailing window.
func midRange(high, low []float64, period int) []float64 {
	hi := rollingMax(high, period)
	lo := rollingMin(low, period)
	out := make([]float64, len(high))
	for i := range out {
		out[i] = (hi[i] + lo[i]) / 2
	}
	return out
}

// Ichimoku returns the Tenkan (9) and Kijun (26) lines.
func Ichimoku(high, low []float64) (tenkan, kijun []float64) {
	return midRange(high, low, tenkanPeriod), midRange(high, low, kijunPeriod)
}
