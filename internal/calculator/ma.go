package calculator

import "github.com/SheenArtem/StockCSVDownload/internal/model"

// MAPeriods are the simple moving average windows over Close.
var MAPeriods = map[string]int{
	model.ColMA5:  5,
	model.ColMA10: 10,
	model.ColMA20: 20,
	model.ColMA60: 60,
}

const (
	bbPeriod = 20
	bbWidth  = 2.0
)

// MovingAverages returns MA5/10/20/60 of closes keyed by column name.
func MovingAverages(closes []float64) map[string][]float64 {
	out := make(map[string][]float64, len(MAPeriods))
	for name, p := range MAPeriods {
		out[name] = sma(closes, p)
	}
	return out
}

// Bollinger returns MA20 ± 2 sample standard deviations of closes.
func Bollinger(closes []float64) (upper, lower []float64) {
	mid := sma(closes, bbPeriod)
	sd := rollingStd(closes, bbPeriod)
	upper = make([]float64, len(closes))
	lower = make([]float64, len(closes))
	for i := range closes {
		upper[i] = mid[i] + bbWidth*sd[i]
		lower[i] = mid[i] - bbWidth*sd[i]
	}
	return upper, lower
}
