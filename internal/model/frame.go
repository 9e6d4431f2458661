package model

import (
	"fmt"
	"math"
	"time"
)

// Frame is a column-oriented table keyed by strictly increasing timestamps.
// Columns are appended stage by stage; NaN marks an undefined value.
type Frame struct {
	Symbol   string
	Interval string
	Times    []time.Time

	cols  map[string][]float64
	order []string
}

// NewFrame builds a frame holding the price columns of bars.
func NewFrame(symbol, interval string, bars []Bar) *Frame {
	f := &Frame{
		Symbol:   symbol,
		Interval: interval,
		Times:    make([]time.Time, len(bars)),
		cols:     make(map[string][]float64),
	}
	open := make([]float64, len(bars))
	high := make([]float64, len(bars))
	low := make([]float64, len(bars))
	cls := make([]float64, len(bars))
	vol := make([]float64, len(bars))
	for i, b := range bars {
		f.Times[i] = b.Time
		open[i], high[i], low[i], cls[i], vol[i] = b.Open, b.High, b.Low, b.Close, b.Volume
	}
	f.put(ColOpen, open)
	f.put(ColHigh, high)
	f.put(ColLow, low)
	f.put(ColClose, cls)
	f.put(ColVolume, vol)
	return f
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.Times) }

// Has reports whether the named column exists.
func (f *Frame) Has(name string) bool {
	_, ok := f.cols[name]
	return ok
}

// Column returns the named column, or nil if it does not exist. The slice is
// shared with the frame.
func (f *Frame) Column(name string) []float64 { return f.cols[name] }

// Columns returns column names in insertion order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Set adds or replaces a column. The length must match the row count.
func (f *Frame) Set(name string, values []float64) error {
	if len(values) != f.Len() {
		return fmt.Errorf("column %s: got %d values for %d rows", name, len(values), f.Len())
	}
	f.put(name, values)
	return nil
}

// Fill adds or replaces a column holding v on every row.
func (f *Frame) Fill(name string, v float64) {
	col := make([]float64, f.Len())
	for i := range col {
		col[i] = v
	}
	f.put(name, col)
}

// Value returns the value at row i, NaN if the column is missing.
func (f *Frame) Value(name string, i int) float64 {
	col, ok := f.cols[name]
	if !ok || i < 0 || i >= len(col) {
		return math.NaN()
	}
	return col[i]
}

// Clone returns a deep copy.
func (f *Frame) Clone() *Frame {
	out := &Frame{
		Symbol:   f.Symbol,
		Interval: f.Interval,
		Times:    append([]time.Time(nil), f.Times...),
		cols:     make(map[string][]float64, len(f.cols)),
		order:    append([]string(nil), f.order...),
	}
	for k, v := range f.cols {
		out.cols[k] = append([]float64(nil), v...)
	}
	return out
}

func (f *Frame) put(name string, values []float64) {
	if f.cols == nil {
		f.cols = make(map[string][]float64)
	}
	if _, ok := f.cols[name]; !ok {
		f.order = append(f.order, name)
	}
	f.cols[name] = values
}
