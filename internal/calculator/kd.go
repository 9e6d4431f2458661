package calculator

import "math"

const (
	rsvPeriod = 9
	kdCom     = 2.0
)

// RSV is the raw stochastic value. A window with zero range is undefined.
func RSV(high, low, closes []float64) []float64 {
	hi := rollingMax(high, rsvPeriod)
	lo := rollingMin(low, rsvPeriod)
	out := nanSeries(len(closes))
	for i := range out {
		rng := hi[i] - lo[i]
		if math.IsNaN(rng) || rng == 0 {
			continue
		}
		out[i] = (closes[i] - lo[i]) / rng * 100
	}
	return out
}

// KD smooths RSV into K and K into D with an adjusted EWM, com=2.
func KD(high, low, closes []float64) (k, d []float64) {
	alpha := comAlpha(kdCom)
	k = ewm(RSV(high, low, closes), alpha, true)
	d = ewm(k, alpha, true)
	return k, d
}
