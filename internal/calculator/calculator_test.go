package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SheenArtem/StockCSVDownload/internal/model"
)

func frameOf(t *testing.T, closes, volume []float64) *model.Frame {
	t.Helper()
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{Time: start.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: volume[i]}
	}
	return model.NewFrame("TEST", "1d", bars)
}

func wave(n int) (closes, volume []float64) {
	closes = make([]float64, n)
	volume = make([]float64, n)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/5) + float64(i)/10
		volume[i] = 1000 + float64(i%7)*100
	}
	return closes, volume
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestCompute_EmptyFrame(t *testing.T) {
	err := Compute(model.NewFrame("X", "1d", nil))
	assert.ErrorIs(t, err, model.ErrEmptyInput)
	assert.ErrorIs(t, Compute(nil), model.ErrEmptyInput)
}

func TestCompute_EveryColumnOnEveryRow(t *testing.T) {
	closes, volume := wave(80)
	f := frameOf(t, closes, volume)
	require.NoError(t, Compute(f))

	for _, name := range model.OutputColumns {
		require.True(t, f.Has(name), name)
		assert.Len(t, f.Column(name), 80, name)
	}

	// chip columns default to zero when never aligned
	assert.Equal(t, constant(80, 0), f.Column(model.ColMainForceNet))
	assert.Equal(t, constant(80, 0), f.Column(model.ColBigHandsPct))
}

func TestCompute_WarmUpIsUndefined(t *testing.T) {
	closes, volume := wave(80)
	f := frameOf(t, closes, volume)
	require.NoError(t, Compute(f))

	firstDefined := map[string]int{
		model.ColMA5:             4,
		model.ColMA60:            59,
		model.ColBBUp:            19,
		model.ColATR:             13,
		model.ColTenkan:          8,
		model.ColKijun:           25,
		model.ColRSI:             13,
		model.ColK:               8,
		model.ColPlusDI:          13,
		model.ColADX:             26,
		model.ColConcentration5:  4,
		model.ColConcentration20: 19,
		model.ColEFI13:           1,
		model.ColMACD:            0,
		model.ColOBV:             0,
	}
	for name, at := range firstDefined {
		col := f.Column(name)
		for i := 0; i < at; i++ {
			assert.True(t, math.IsNaN(col[i]), "%s row %d should be undefined", name, i)
		}
		assert.False(t, math.IsNaN(col[at]), "%s row %d should be defined", name, at)
	}
}

func TestCompute_ATRStopIdentity(t *testing.T) {
	closes, volume := wave(40)
	f := frameOf(t, closes, volume)
	require.NoError(t, Compute(f))

	atr := f.Column(model.ColATR)
	stop := f.Column(model.ColATRStop)
	for i := range closes {
		if math.IsNaN(atr[i]) {
			assert.True(t, math.IsNaN(stop[i]))
			continue
		}
		assert.Equal(t, closes[i]-2*atr[i], stop[i], "row %d", i)
	}
}

func TestCompute_BoundedOscillators(t *testing.T) {
	closes, volume := wave(120)
	f := frameOf(t, closes, volume)
	require.NoError(t, Compute(f))

	for _, name := range []string{model.ColRSI, model.ColK, model.ColD, model.ColPlusDI, model.ColMinusDI, model.ColADX} {
		for i, v := range f.Column(name) {
			if math.IsNaN(v) {
				continue
			}
			assert.GreaterOrEqual(t, v, 0.0, "%s row %d", name, i)
			assert.LessOrEqual(t, v, 100.0, "%s row %d", name, i)
		}
	}
}

func TestOBV_Alternating(t *testing.T) {
	closes := make([]float64, 11)
	for i := range closes {
		closes[i] = 10 + float64(i%2)
	}
	v := 250.0
	out := OBV(closes, constant(len(closes), v))

	assert.Equal(t, 0.0, out[0])
	for n := 1; n < len(closes); n++ {
		want := v*math.Ceil(float64(n)/2) - v*math.Floor(float64(n)/2)
		assert.Equal(t, want, out[n], "step %d", n)
	}
}

func TestOBV_FlatCloseAddsNothing(t *testing.T) {
	out := OBV([]float64{5, 5, 6, 6, 4}, []float64{10, 20, 30, 40, 50})
	assert.Equal(t, []float64{0, 0, 30, 30, -20}, out)
}

func TestRSI_ZeroLossSaturates(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 50 + float64(i)
	}
	out := RSI(closes)
	for i, v := range out {
		if i < rsiPeriod-1 {
			assert.True(t, math.IsNaN(v), "row %d", i)
			continue
		}
		assert.Equal(t, 100.0, v, "row %d", i)
	}
}

func TestRSI_Balanced(t *testing.T) {
	closes := []float64{10}
	for i := 1; i < 20; i++ {
		if i%2 == 1 {
			closes = append(closes, closes[i-1]+2)
		} else {
			closes = append(closes, closes[i-1]-1)
		}
	}
	out := RSI(closes)
	// rows 1..14 hold 7 gains of 2 and 7 losses of 1
	assert.InDelta(t, 100-100/(1+2.0), out[14], 1e-9)
}

func TestConcentration(t *testing.T) {
	out := Concentration(constant(5, 100), constant(5, 1000), 5)
	for i := 0; i < 4; i++ {
		assert.True(t, math.IsNaN(out[i]))
	}
	assert.Equal(t, 10.00, out[4])

	out = Concentration([]float64{1, 2, 3}, []float64{0, 0, 0}, 2)
	assert.False(t, math.IsNaN(out[2]))
	assert.Greater(t, out[2], 0.0)
}

func TestConcentrationRoundsToTwoDecimals(t *testing.T) {
	out := Concentration([]float64{1, 1, 1}, []float64{3, 3, 3}, 3)
	assert.Equal(t, 33.33, out[2])
}

func TestCompute_ConcentrationFromMainForce(t *testing.T) {
	f := frameOf(t, constant(5, 10), constant(5, 1000))
	f.Fill(model.ColForeignNet, 60)
	f.Fill(model.ColTrustNet, 30)
	f.Fill(model.ColDealerNet, 10)
	require.NoError(t, Compute(f))

	assert.Equal(t, constant(5, 100), f.Column(model.ColMainForceNet))
	assert.Equal(t, 10.00, f.Column(model.ColConcentration5)[4])
}

func TestBollingerUsesSampleStdev(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = float64(i + 1)
	}
	upper, lower := Bollinger(closes)
	assert.InDelta(t, 10.5+2*math.Sqrt(35), upper[19], 1e-9)
	assert.InDelta(t, 10.5-2*math.Sqrt(35), lower[19], 1e-9)
	assert.True(t, math.IsNaN(upper[18]))
}

func TestTrueRange(t *testing.T) {
	high := []float64{10, 12, 9}
	low := []float64{8, 11, 7}
	closes := []float64{9, 11.5, 8}
	assert.Equal(t, []float64{2, 3, 4.5}, TrueRange(high, low, closes))
}

func TestIchimoku(t *testing.T) {
	n := 30
	high := make([]float64, n)
	low := make([]float64, n)
	for i := range high {
		high[i] = float64(i + 1)
		low[i] = float64(i)
	}
	tenkan, kijun := Ichimoku(high, low)
	assert.True(t, math.IsNaN(tenkan[7]))
	assert.Equal(t, 4.5, tenkan[8])
	assert.Equal(t, 5.5, tenkan[9])
	assert.True(t, math.IsNaN(kijun[24]))
	assert.Equal(t, 13.0, kijun[25])
}

func TestDMI_SteadyUptrend(t *testing.T) {
	n := 40
	high := make([]float64, n)
	low := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		low[i] = float64(i)
		high[i] = float64(i + 2)
		closes[i] = float64(i + 1)
	}
	plus, minus, adx := DMI(high, low, TrueRange(high, low, closes))

	assert.True(t, math.IsNaN(plus[12]))
	assert.InDelta(t, 100*(13.0/14)/2, plus[13], 1e-9)
	assert.InDelta(t, 50, plus[14], 1e-9)
	assert.InDelta(t, 0, minus[14], 1e-9)
	assert.True(t, math.IsNaN(adx[25]))
	assert.InDelta(t, 100, adx[26], 1e-9)
}

func TestDMI_FlatSeriesIsUndefined(t *testing.T) {
	flat := constant(30, 5)
	plus, minus, adx := DMI(flat, flat, TrueRange(flat, flat, flat))
	for i := range flat {
		assert.True(t, math.IsNaN(plus[i]))
		assert.True(t, math.IsNaN(minus[i]))
		assert.True(t, math.IsNaN(adx[i]))
	}
}

func TestKD_ZeroRangeIsUndefined(t *testing.T) {
	flat := constant(12, 5)
	k, d := KD(flat, flat, flat)
	for i := range flat {
		assert.True(t, math.IsNaN(k[i]))
		assert.True(t, math.IsNaN(d[i]))
	}
}

func TestKD_AdjustedSmoothing(t *testing.T) {
	n := 10
	high := make([]float64, n)
	low := constant(n, 0)
	closes := make([]float64, n)
	for i := range high {
		high[i] = 10
		closes[i] = 5
	}
	closes[9] = 10

	k, d := KD(high, low, closes)
	assert.True(t, math.IsNaN(k[7]))
	assert.InDelta(t, 50, k[8], 1e-9)
	// weights 1 (new) and 2/3 (old): (2/3*50 + 100) / (5/3)
	assert.InDelta(t, 80, k[9], 1e-9)
	assert.InDelta(t, 50, d[8], 1e-9)
	assert.InDelta(t, 68, d[9], 1e-9)
}

func TestMACD_FlatSeries(t *testing.T) {
	line, signal, hist := MACD(constant(30, 42))
	assert.Equal(t, constant(30, 0), line)
	assert.Equal(t, constant(30, 0), signal)
	assert.Equal(t, constant(30, 0), hist)
}

func TestEFI(t *testing.T) {
	out := EFI([]float64{10, 11, 12, 10}, []float64{5, 1, 1, 2})
	assert.True(t, math.IsNaN(out[0]))
	assert.Equal(t, 1.0, out[1])
	assert.Equal(t, 1.0, out[2])
	alpha := 2.0 / 14
	assert.InDelta(t, (1-alpha)*1+alpha*(-4), out[3], 1e-12)
}

// flatAfterVolatile is 14 bars with uneven ranges followed by 20 identical
// bars, the shape Yahoo reports for a suspended or limit-locked stock.
func flatAfterVolatile() *model.Frame {
	ranges := []float64{0.1, 0.7, 0.2, 1.3, 0.4, 0.9, 0.3, 1.1, 0.6, 0.2, 0.8, 1.7, 0.5, 0.9}
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	var bars []model.Bar
	for i, r := range ranges {
		c := 21.3 + 0.1*float64(i%5) + 0.07*float64(i)
		bars = append(bars, model.Bar{Time: start.AddDate(0, 0, i), Open: c, High: c + r/2, Low: c - r/2, Close: c, Volume: 1500 + float64(i)*37})
	}
	for i := 0; i < 20; i++ {
		bars = append(bars, model.Bar{Time: start.AddDate(0, 0, len(ranges)+i), Open: 22.6, High: 22.6, Low: 22.6, Close: 22.6, Volume: 800})
	}
	return model.NewFrame("2330.TW", "1d", bars)
}

func TestCompute_FlatStretchIsExact(t *testing.T) {
	f := flatAfterVolatile()
	require.NoError(t, Compute(f))
	last := f.Len() - 1

	assert.Equal(t, 22.6, f.Value(model.ColMA10, last))
	assert.Equal(t, 22.6, f.Value(model.ColMA20, last))
	assert.Equal(t, 22.6, f.Value(model.ColBBUp, last))
	assert.Equal(t, 22.6, f.Value(model.ColBBLo, last))

	// row 14 is the first flat bar and still has a gap to the prior close;
	// from row 28 every 14-row window holds only flat bars
	for i := 28; i <= last; i++ {
		assert.Equal(t, 0.0, f.Value(model.ColATR, i), "ATR row %d", i)
		assert.Equal(t, 22.6, f.Value(model.ColATRStop, i), "ATR_Stop row %d", i)
		assert.True(t, math.IsNaN(f.Value(model.ColPlusDI, i)), "+DI row %d", i)
		assert.True(t, math.IsNaN(f.Value(model.ColMinusDI, i)), "-DI row %d", i)
		assert.True(t, math.IsNaN(f.Value(model.ColADX, i)), "ADX row %d", i)
	}
	for i, v := range f.Column(model.ColATR) {
		if !math.IsNaN(v) {
			assert.GreaterOrEqual(t, v, 0.0, "ATR row %d", i)
		}
	}
}

func TestRollingSum_ZeroWindowAfterNoise(t *testing.T) {
	v := []float64{0.1, 0.7, 0.2, 1.3, 0.4, 0, 0, 0}
	sum := rollingSum(v, 3)
	assert.Equal(t, 0.0, sum[7])
	assert.Equal(t, 22.6, sma(append(v, 22.6, 22.6, 22.6), 3)[10])
}
