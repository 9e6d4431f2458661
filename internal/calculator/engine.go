package calculator

import (
	"fmt"

	"github.com/SheenArtem/StockCSVDownload/internal/flow"
	"github.com/SheenArtem/StockCSVDownload/internal/model"
)

// chipColumns are read by the engine and exported as they are. Missing ones
// are treated as zero series.
var chipColumns = []string{
	model.ColForeignNet, model.ColTrustNet, model.ColDealerNet,
	model.ColMarginBalance, model.ColShortBalance,
	model.ColBigHandsPct, model.ColSmallHandsPct, model.ColChipSpread,
}

// Compute appends every derived indicator column to f. Warm-up rows hold NaN.
func Compute(f *model.Frame) error {
	if f == nil || f.Len() == 0 {
		return model.ErrEmptyInput
	}
	high := f.Column(model.ColHigh)
	low := f.Column(model.ColLow)
	closes := f.Column(model.ColClose)
	volume := f.Column(model.ColVolume)

	// Step a: chip columns exist for every row
	for _, c := range chipColumns {
		if !f.Has(c) {
			f.Fill(c, 0)
		}
	}
	if !f.Has(model.ColMainForceNet) {
		if err := flow.ApplyMainForce(f); err != nil {
			return fmt.Errorf("compute %s: %w", f.Symbol, err)
		}
	}

	cols := make(map[string][]float64, len(model.OutputColumns))

	// Step b: trend
	for name, v := range MovingAverages(closes) {
		cols[name] = v
	}
	cols[model.ColBBUp], cols[model.ColBBLo] = Bollinger(closes)
	cols[model.ColTenkan], cols[model.ColKijun] = Ichimoku(high, low)

	// Step c: volatility
	tr := TrueRange(high, low, closes)
	cols[model.ColATR], cols[model.ColATRStop] = ATR(tr, closes)

	// Step d: momentum
	cols[model.ColRSI] = RSI(closes)
	cols[model.ColK], cols[model.ColD] = KD(high, low, closes)
	cols[model.ColMACD], cols[model.ColSignal], cols[model.ColHist] = MACD(closes)
	cols[model.ColPlusDI], cols[model.ColMinusDI], cols[model.ColADX] = DMI(high, low, tr)

	// Step e: volume and chips
	cols[model.ColOBV] = OBV(closes, volume)
	mainForce := f.Column(model.ColMainForceNet)
	cols[model.ColConcentration5] = Concentration(mainForce, volume, 5)
	cols[model.ColConcentration20] = Concentration(mainForce, volume, 20)
	cols[model.ColEFI13] = EFI(closes, volume)

	for _, name := range model.OutputColumns {
		v, ok := cols[name]
		if !ok {
			continue
		}
		if err := f.Set(name, v); err != nil {
			return fmt.Errorf("compute %s: %w", f.Symbol, err)
		}
	}
	return nil
}
