package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SheenArtem/StockCSVDownload/internal/flow"
	"github.com/SheenArtem/StockCSVDownload/internal/model"
)

var taipei = time.FixedZone("CST", 8*3600)

func sessionBars(n int) []model.Bar {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, taipei)
	bars := make([]model.Bar, n)
	for i := range bars {
		p := 600 + float64(i)
		bars[i] = model.Bar{Time: start.AddDate(0, 0, i), Open: p, High: p + 5, Low: p - 5, Close: p + 1, Volume: 1000}
	}
	return bars
}

type countingChips struct {
	MockChips
	calls int
}

func (c *countingChips) FetchFlows(ctx context.Context, id string, start time.Time) ([]model.FlowRecord, error) {
	c.calls++
	return c.MockChips.FetchFlows(ctx, id, start)
}

func TestCollect_TaiwanWithChips(t *testing.T) {
	day := func(i int) time.Time { return time.Date(2024, 3, 4+i, 0, 0, 0, 0, time.UTC) }
	chips := &MockChips{
		Flows: []model.FlowRecord{
			{Date: day(1), Actor: model.ForeignInvestor, Buy: 500, Sell: 100},
			{Date: day(1), Actor: model.InvestmentTrust, Buy: 50, Sell: 0},
		},
		MarginErr: errors.New("quota exceeded"),
		Ownership: []model.OwnershipBand{
			{Date: day(2), Level: 15, Percent: 70},
			{Date: day(2), Level: 1, Percent: 30},
		},
	}
	c := NewCollector(&MockFetcher{Bars: sessionBars(30)}, chips, flow.DefaultThresholds)

	res, err := c.Collect(context.Background(), Request{Symbol: "2330", Period: "1y", Interval: "1d"})
	require.NoError(t, err)

	assert.Equal(t, "2330.TW", res.Ticker.Symbol)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, flow.SourceMargin, res.Warnings[0].Source)

	f := res.Frame
	assert.Equal(t, 30, f.Len())
	assert.Equal(t, []float64{0, 400, 0}, f.Column(model.ColForeignNet)[:3])
	assert.Equal(t, []float64{0, 450, 0}, f.Column(model.ColMainForceNet)[:3])
	assert.Equal(t, []float64{0, 0, 70, 70}, f.Column(model.ColBigHandsPct)[:4])
	assert.Equal(t, []float64{0, 0, 40, 40}, f.Column(model.ColChipSpread)[:4])
	assert.Equal(t, 0.0, f.Column(model.ColMarginBalance)[5])

	for _, name := range model.OutputColumns {
		assert.True(t, f.Has(name), name)
	}
}

func TestCollect_ForeignSymbolSkipsChips(t *testing.T) {
	chips := &countingChips{}
	c := NewCollector(&MockFetcher{Bars: sessionBars(10)}, chips, flow.DefaultThresholds)

	res, err := c.Collect(context.Background(), Request{Symbol: "nvda", Period: "1y", Interval: "1d"})
	require.NoError(t, err)
	assert.Equal(t, "NVDA", res.Ticker.Symbol)
	assert.Zero(t, chips.calls)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, make([]float64, 10), res.Frame.Column(model.ColForeignNet))
}

func TestCollect_ResamplesIntraday(t *testing.T) {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, taipei)
	var bars []model.Bar
	for m := 0; m < 180; m++ {
		vol := 10.0
		if m >= 60 && m < 120 {
			vol = 0
		}
		bars = append(bars, model.Bar{Time: start.Add(time.Duration(m) * time.Minute), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: vol})
	}
	c := NewCollector(&MockFetcher{Bars: bars}, nil, flow.DefaultThresholds)

	res, err := c.Collect(context.Background(), Request{Symbol: "TX", Period: "5d", Interval: "1m", Resample: "60m"})
	require.NoError(t, err)
	assert.Equal(t, "60m", res.Frame.Interval)
	require.Equal(t, 2, res.Frame.Len())
	assert.Equal(t, 9, res.Frame.Times[0].Hour())
	assert.Equal(t, 11, res.Frame.Times[1].Hour())
	assert.Equal(t, []float64{600, 600}, res.Frame.Column(model.ColVolume))
}

func TestCollect_Errors(t *testing.T) {
	ctx := context.Background()

	c := NewCollector(&MockFetcher{Err: errors.New("offline")}, nil, flow.DefaultThresholds)
	_, err := c.Collect(ctx, Request{Symbol: "2330", Interval: "1d", Period: "1y"})
	assert.ErrorContains(t, err, "offline")

	c = NewCollector(&MockFetcher{Bars: []model.Bar{}}, nil, flow.DefaultThresholds)
	_, err = c.Collect(ctx, Request{Symbol: "2330", Interval: "1d", Period: "1y"})
	assert.ErrorIs(t, err, model.ErrEmptyInput)

	c = NewCollector(&MockFetcher{Bars: sessionBars(3)}, nil, flow.DefaultThresholds)
	_, err = c.Collect(ctx, Request{Symbol: "2330", Interval: "1d", Period: "1y", Resample: "1w"})
	assert.Error(t, err)

	_, err = c.Collect(ctx, Request{Symbol: "  "})
	assert.Error(t, err)
}
