package flow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SheenArtem/StockCSVDownload/internal/align"
	"github.com/SheenArtem/StockCSVDownload/internal/model"
)

var d1 = time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)

func TestNet(t *testing.T) {
	d2 := d1.AddDate(0, 0, 1)
	in := Net([]model.FlowRecord{
		{Date: d2, Actor: model.InvestmentTrust, Buy: 10, Sell: 4},
		{Date: d1, Actor: model.ForeignInvestor, Buy: 1000, Sell: 400},
		{Date: d1, Actor: model.ForeignDealerSelf, Buy: 50, Sell: 0},
		{Date: d1, Actor: model.DealerSelf, Buy: 0, Sell: 30},
		{Date: d1, Actor: model.DealerHedging, Buy: 20, Sell: 10},
		{Date: d1, Actor: model.Actor("Retail"), Buy: 999, Sell: 0},
	})

	assert.Equal(t, SourceFlows, in.Source)
	require.Len(t, in.Rows, 2)

	assert.True(t, in.Rows[0].Date.Equal(d1))
	assert.Equal(t, map[string]float64{
		model.ColForeignNet: 650,
		model.ColTrustNet:   0,
		model.ColDealerNet:  -20,
	}, in.Rows[0].Values)

	assert.Equal(t, map[string]float64{
		model.ColForeignNet: 0,
		model.ColTrustNet:   6,
		model.ColDealerNet:  0,
	}, in.Rows[1].Values)
}

func TestNet_EmptyIsUnavailable(t *testing.T) {
	in := Net(nil)
	assert.Empty(t, in.Rows)
	assert.NoError(t, in.Err)
}

func TestMargin(t *testing.T) {
	in := Margin([]model.MarginRecord{
		{Date: d1, MarginBalance: 1, ShortBalance: 2},
		{Date: d1, MarginBalance: 3, ShortBalance: 4},
	})
	require.Len(t, in.Rows, 1)
	assert.Equal(t, 3.0, in.Rows[0].Values[model.ColMarginBalance])
	assert.Equal(t, 4.0, in.Rows[0].Values[model.ColShortBalance])
}

func TestOwnership(t *testing.T) {
	var bands []model.OwnershipBand
	percents := []float64{10, 8, 7, 5, 5, 5, 5, 5, 5, 5, 5, 15, 10, 5, 5}
	for i, p := range percents {
		bands = append(bands, model.OwnershipBand{Date: d1, Level: i + 1, Percent: p})
	}

	in := Ownership(bands, DefaultThresholds)
	require.Len(t, in.Rows, 1)
	v := in.Rows[0].Values
	assert.InDelta(t, 35.0, v[model.ColBigHandsPct], 1e-9)
	assert.InDelta(t, 25.0, v[model.ColSmallHandsPct], 1e-9)
	assert.InDelta(t, 10.0, v[model.ColChipSpread], 1e-9)
}

func TestOwnership_ForwardFilledByAligner(t *testing.T) {
	census := d1.AddDate(0, 0, 2)
	in := Ownership([]model.OwnershipBand{
		{Date: census, Level: 15, Percent: 60},
		{Date: census, Level: 1, Percent: 40},
	}, DefaultThresholds)

	var bars []model.Bar
	for i := 0; i < 5; i++ {
		bars = append(bars, model.Bar{Time: d1.AddDate(0, 0, i), Close: 1, Volume: 1})
	}
	f, _, err := align.New(align.ChipSchema).Align("X", "1d", bars, in)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0, 60, 60, 60}, f.Column(model.ColBigHandsPct))
	assert.Equal(t, []float64{0, 0, 20, 20, 20}, f.Column(model.ColChipSpread))
}

func TestApplyMainForce(t *testing.T) {
	bars := []model.Bar{{Time: d1, Close: 1, Volume: 1}, {Time: d1.AddDate(0, 0, 1), Close: 1, Volume: 1}}
	f, _, err := align.New(align.ChipSchema).Align("X", "1d", bars, Net([]model.FlowRecord{
		{Date: d1, Actor: model.ForeignInvestor, Buy: 10},
		{Date: d1, Actor: model.InvestmentTrust, Buy: 5},
		{Date: d1, Actor: model.DealerSelf, Sell: 3},
	}))
	require.NoError(t, err)

	require.NoError(t, ApplyMainForce(f))
	assert.Equal(t, []float64{12, 0}, f.Column(model.ColMainForceNet))
}
