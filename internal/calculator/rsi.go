package calculator

import "math"

const rsiPeriod = 14

// RSI computes the simple-mean RSI. The first delta counts as 0, so the
// first value is defined at row period-1. When the average loss is zero
// the RSI saturates at 100.
func RSI(closes []float64) []float64 {
	delta := diff(closes)
	gain := make([]float64, len(closes))
	loss := make([]float64, len(closes))
	for i, d := range delta {
		switch {
		case d > 0:
			gain[i] = d
		case d < 0:
			loss[i] = -d
		}
	}

	avgGain := sma(gain, rsiPeriod)
	avgLoss := sma(loss, rsiPeriod)
	out := nanSeries(len(closes))
	for i := range out {
		g, l := avgGain[i], avgLoss[i]
		if math.IsNaN(g) || math.IsNaN(l) {
			continue
		}
		if l == 0 {
			out[i] = 100
			continue
		}
		out[i] = 100 - 100/(1+g/l)
	}
	return out
}
