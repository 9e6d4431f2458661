package collector

import (
	"context"
	"sort"
	"time"

	"github.com/SheenArtem/StockCSVDownload/internal/model"
)

// Fetcher defines the interface for fetching price bars.
type Fetcher interface {
	// FetchBars returns bars for symbol at interval ("1d", "1wk", "60m",
	// "1m", ...) covering period ("1y", "3y", "max", ...), ascending and
	// free of duplicate timestamps.
	FetchBars(ctx context.Context, symbol, interval, period string) ([]model.Bar, error)
	Name() string
}

// ChipSource fetches Taiwan institutional flow, margin and ownership data.
type ChipSource interface {
	FetchFlows(ctx context.Context, stockID string, start time.Time) ([]model.FlowRecord, error)
	FetchMargin(ctx context.Context, stockID string, start time.Time) ([]model.MarginRecord, error)
	FetchOwnership(ctx context.Context, stockID string, start time.Time) ([]model.OwnershipBand, error)
	Name() string
}

// normalizeBars sorts bars by time and drops duplicates, keeping the last
// bar seen for each timestamp.
func normalizeBars(bars []model.Bar) []model.Bar {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
