package calculator

import "math"

const dmiPeriod = 14

// DMI returns +DI, -DI and ADX. TR, +DM and -DM are smoothed by a
// 14-period simple mean. DI is undefined where smoothed TR is zero, DX
// where +DI + -DI is zero, and ADX where any DX in its window is undefined.
func DMI(high, low, tr []float64) (plusDI, minusDI, adx []float64) {
	n := len(high)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i := 1; i < n; i++ {
		up := high[i] - high[i-1]
		down := low[i-1] - low[i]
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
	}

	trS := sma(tr, dmiPeriod)
	plusS := sma(plusDM, dmiPeriod)
	minusS := sma(minusDM, dmiPeriod)

	plusDI = nanSeries(n)
	minusDI = nanSeries(n)
	dx := nanSeries(n)
	for i := 0; i < n; i++ {
		if math.IsNaN(trS[i]) || trS[i] == 0 {
			continue
		}
		plusDI[i] = 100 * plusS[i] / trS[i]
		minusDI[i] = 100 * minusS[i] / trS[i]
		if sum := plusDI[i] + minusDI[i]; sum != 0 {
			dx[i] = 100 * math.Abs(plusDI[i]-minusDI[i]) / sum
		}
	}
	return plusDI, minusDI, sma(dx, dmiPeriod)
}
