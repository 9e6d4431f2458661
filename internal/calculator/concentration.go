package calculator

import (
	"math"

	"github.com/shopspring/decimal"
)

const concentrationEpsilon = 1e-9

// Concentration is 100 × Σ main-force net / (Σ volume + ε) over a trailing
// window, rounded to two decimals.
func Concentration(mainForce, volume []float64, period int) []float64 {
	net := rollingSum(mainForce, period)
	vol := rollingSum(volume, period)
	out := nanSeries(len(volume))
	for i := range out {
		v := 100 * net[i] / (vol[i] + concentrationEpsilon)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[i] = decimal.NewFromFloat(v).Round(2).InexactFloat64()
	}
	return out
}
