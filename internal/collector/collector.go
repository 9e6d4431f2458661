package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/SheenArtem/StockCSVDownload/internal/align"
	"github.com/SheenArtem/StockCSVDownload/internal/calculator"
	"github.com/SheenArtem/StockCSVDownload/internal/flow"
	"github.com/SheenArtem/StockCSVDownload/internal/model"
	"github.com/SheenArtem/StockCSVDownload/internal/resample"
)

// Request describes one instrument download.
type Request struct {
	Symbol   string
	Period   string // Yahoo range, e.g. "1y", "3y", "max"
	Interval string // native bar interval, e.g. "1d", "1wk", "1m"
	// Resample, when set, aggregates the native bars into buckets of this
	// width ("60m", "1h", ...) before alignment.
	Resample string
}

// Result is a finished frame plus any auxiliary sources that were missing.
type Result struct {
	Ticker   Ticker
	Frame    *model.Frame
	Warnings []model.AuxiliarySourceUnavailable
}

// Collector orchestrates data fetching, alignment and indicator computation.
type Collector struct {
	Fetcher    Fetcher
	Chips      ChipSource // nil disables chip data
	Aligner    *align.Aligner
	Thresholds flow.Thresholds
}

// NewCollector creates a new Collector using the chip schema.
func NewCollector(fetcher Fetcher, chips ChipSource, th flow.Thresholds) *Collector {
	return &Collector{
		Fetcher:    fetcher,
		Chips:      chips,
		Aligner:    align.New(align.ChipSchema),
		Thresholds: th,
	}
}

// Collect fetches one instrument and returns its fully computed frame.
func (c *Collector) Collect(ctx context.Context, req Request) (*Result, error) {
	t := ParseTicker(req.Symbol)
	if t.Symbol == "" {
		return nil, errors.New("empty symbol")
	}

	bars, err := c.Fetcher.FetchBars(ctx, t.Symbol, req.Interval, req.Period)
	if err != nil {
		return nil, fmt.Errorf("fetch bars %s: %w", t.Symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: %w", t.Symbol, model.ErrEmptyInput)
	}

	interval := req.Interval
	if req.Resample != "" {
		width, err := resample.ParseWidth(req.Resample)
		if err != nil {
			return nil, err
		}
		bars, err = resample.Resample(bars, resample.Config{Width: width, Location: bars[0].Time.Location()})
		if err != nil {
			return nil, fmt.Errorf("resample %s: %w", t.Symbol, err)
		}
		interval = req.Resample
	}

	var inputs []align.Input
	if c.Chips != nil && t.Taiwan() && len(bars) > 0 {
		inputs = c.chipInputs(ctx, t.StockID, bars[0].Time)
	}

	frame, warnings, err := c.Aligner.Align(t.Symbol, interval, bars, inputs...)
	if err != nil {
		return nil, err
	}
	if err := flow.ApplyMainForce(frame); err != nil {
		return nil, err
	}
	if err := calculator.Compute(frame); err != nil {
		return nil, err
	}

	log.Info().Str("symbol", t.Symbol).Str("interval", interval).Int("rows", frame.Len()).
		Int("warnings", len(warnings)).Msg("frame computed")
	return &Result{Ticker: t, Frame: frame, Warnings: warnings}, nil
}

// chipInputs loads every chip source. Failures become unavailable inputs
// for the aligner to absorb.
func (c *Collector) chipInputs(ctx context.Context, stockID string, first time.Time) []align.Input {
	start := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, time.UTC)
	// ownership census is weekly; reach back so the first rows have a value
	censusStart := start.AddDate(0, 0, -7)

	inputs := make([]align.Input, 0, 3)

	if flows, err := c.Chips.FetchFlows(ctx, stockID, start); err != nil {
		inputs = append(inputs, align.Failed(flow.SourceFlows, err))
	} else {
		inputs = append(inputs, flow.Net(flows))
	}

	if margin, err := c.Chips.FetchMargin(ctx, stockID, start); err != nil {
		inputs = append(inputs, align.Failed(flow.SourceMargin, err))
	} else {
		inputs = append(inputs, flow.Margin(margin))
	}

	if bands, err := c.Chips.FetchOwnership(ctx, stockID, censusStart); err != nil {
		inputs = append(inputs, align.Failed(flow.SourceOwnership, err))
	} else {
		inputs = append(inputs, flow.Ownership(bands, c.Thresholds))
	}
	return inputs
}
