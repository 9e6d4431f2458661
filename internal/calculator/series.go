package calculator

import (
	"math"

	talib "github.com/markcheno/go-talib"
)

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func hasNaN(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// warmup marks the first period-1 rows of a talib output as undefined.
func warmup(out []float64, period int) []float64 {
	for i := 0; i < period-1 && i < len(out); i++ {
		out[i] = math.NaN()
	}
	return out
}

// window applies fn to every full trailing window of values. Rows without a
// full window are NaN, and fn sees NaN values as they are.
func window(values []float64, period int, fn func([]float64) float64) []float64 {
	out := nanSeries(len(values))
	for i := period - 1; i < len(values); i++ {
		out[i] = fn(values[i-period+1 : i+1])
	}
	return out
}

// offsetSum is the Kahan-compensated sum of w[i]-base. Summing offsets
// from the first value keeps windows of identical values exact.
func offsetSum(w []float64, base float64) float64 {
	var sum, c float64
	for _, v := range w {
		y := (v - base) - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}
	return sum
}

func mean(w []float64) float64 {
	base := w[0]
	return base + offsetSum(w, base)/float64(len(w))
}

func total(w []float64) float64 {
	base := w[0]
	return base*float64(len(w)) + offsetSum(w, base)
}

// sma is the trailing simple mean, re-summed per window so that a flat
// stretch after a volatile one reads back exactly. Any NaN inside a window
// makes that row NaN.
func sma(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nanSeries(len(values))
	}
	return window(values, period, mean)
}

func rollingSum(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nanSeries(len(values))
	}
	return window(values, period, total)
}

func rollingMax(values []float64, period int) []float64 {
	if period < 2 || len(values) < period || hasNaN(values) {
		return window(values, period, func(w []float64) float64 {
			m := math.Inf(-1)
			for _, v := range w {
				if math.IsNaN(v) {
					return math.NaN()
				}
				m = math.Max(m, v)
			}
			return m
		})
	}
	return warmup(talib.Max(values, period), period)
}

func rollingMin(values []float64, period int) []float64 {
	if period < 2 || len(values) < period || hasNaN(values) {
		return window(values, period, func(w []float64) float64 {
			m := math.Inf(1)
			for _, v := range w {
				if math.IsNaN(v) {
					return math.NaN()
				}
				m = math.Min(m, v)
			}
			return m
		})
	}
	return warmup(talib.Min(values, period), period)
}

// rollingStd is the trailing sample standard deviation (n-1 denominator).
func rollingStd(values []float64, period int) []float64 {
	if period < 2 {
		return nanSeries(len(values))
	}
	return window(values, period, func(w []float64) float64 {
		m := mean(w)
		ss := 0.0
		for _, v := range w {
			d := v - m
			ss += d * d
		}
		return math.Sqrt(ss / float64(len(w)-1))
	})
}

// diff returns values[i]-values[i-1]; row 0 is NaN.
func diff(values []float64) []float64 {
	out := nanSeries(len(values))
	for i := 1; i < len(values); i++ {
		out[i] = values[i] - values[i-1]
	}
	return out
}

// ewm is an exponentially weighted mean with smoothing factor alpha.
//
// adjust=true uses the bias-corrected weights (1-alpha)^k normalised by
// their sum; adjust=false is the recursive form seeded with the first
// defined value. Leading NaNs stay NaN. A NaN after the first defined value
// repeats the previous mean while the older weights keep decaying.
func ewm(values []float64, alpha float64, adjust bool) []float64 {
	out := nanSeries(len(values))
	decay := 1 - alpha
	newWt := 1.0
	if !adjust {
		newWt = alpha
	}

	avg := math.NaN()
	oldWt := 1.0
	for i, x := range values {
		observed := !math.IsNaN(x)
		switch {
		case math.IsNaN(avg):
			if observed {
				avg = x
			}
		default:
			oldWt *= decay
			if observed {
				if avg != x {
					avg = (oldWt*avg + newWt*x) / (oldWt + newWt)
				}
				if adjust {
					oldWt += newWt
				} else {
					oldWt = 1
				}
			}
		}
		out[i] = avg
	}
	return out
}

func spanAlpha(span int) float64 { return 2 / (float64(span) + 1) }

func comAlpha(com float64) float64 { return 1 / (1 + com) }
