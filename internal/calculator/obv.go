package calculator

import talib "github.com/markcheno/go-talib"

// OBV is the running sum of sign(ΔClose)·Volume starting at 0 on row 0.
func OBV(closes, volume []float64) []float64 {
	if len(closes) == 0 {
		return nil
	}
	// talib seeds the running total with the first volume.
	out := talib.Obv(closes, volume)
	for i := range out {
		out[i] -= volume[0]
	}
	return out
}
