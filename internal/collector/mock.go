package collector

import (
	"context"
	"time"

	"github.com/SheenArtem/StockCSVDownload/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Count int
	Bars  []model.Bar
	Err   error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(ctx context.Context, _, _, _ string) ([]model.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return append([]model.Bar(nil), m.Bars...), nil
	}
	count := m.Count
	if count == 0 {
		count = 120
	}
	return generateMockBars(m.Price, count), nil
}

func generateMockBars(basePrice float64, count int) []model.Bar {
	start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -count)
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Time:   start.AddDate(0, 0, i),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// MockChips serves fixed chip data. A non-nil error field fails that fetch.
type MockChips struct {
	Flows     []model.FlowRecord
	Margin    []model.MarginRecord
	Ownership []model.OwnershipBand

	FlowsErr, MarginErr, OwnershipErr error
}

func (m *MockChips) Name() string { return "mock" }

func (m *MockChips) FetchFlows(_ context.Context, _ string, _ time.Time) ([]model.FlowRecord, error) {
	return m.Flows, m.FlowsErr
}

func (m *MockChips) FetchMargin(_ context.Context, _ string, _ time.Time) ([]model.MarginRecord, error) {
	return m.Margin, m.MarginErr
}

func (m *MockChips) FetchOwnership(_ context.Context, _ string, _ time.Time) ([]model.OwnershipBand, error) {
	return m.Ownership, m.OwnershipErr
}
