package calculator

import "math"

const (
	atrPeriod   = 14
	atrStopMult = 2.0
)

// TrueRange is max(H-L, |H-prevC|, |L-prevC|); row 0 is H-L.
func TrueRange(high, low, closes []float64) []float64 {
	out := make([]float64, len(closes))
	for i := range closes {
		tr := high[i] - low[i]
		if i > 0 {
			pc := closes[i-1]
			tr = math.Max(tr, math.Max(math.Abs(high[i]-pc), math.Abs(low[i]-pc)))
		}
		out[i] = tr
	}
	return out
}

// ATR returns the 14-period simple mean of true range and the volatility
// stop Close - 2*ATR.
func ATR(tr, closes []float64) (atr, stop []float64) {
	atr = sma(tr, atrPeriod)
	stop = make([]float64, len(closes))
	for i := range closes {
		stop[i] = closes[i] - atrStopMult*atr[i]
	}
	return atr, stop
}
