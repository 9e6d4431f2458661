package batch

import (
	"context"

	"github.com/SheenArtem/StockCSVDownload/internal/collector"
	"github.com/SheenArtem/StockCSVDownload/internal/model"
)

// CollectJob returns a Job that downloads each symbol with the settings of
// tmpl.
func CollectJob(c *collector.Collector, tmpl collector.Request) Job {
	return func(ctx context.Context, symbol string) (*collector.Result, error) {
		req := tmpl
		req.Symbol = symbol
		return c.Collect(ctx, req)
	}
}

// Frames returns the frames of the successful outcomes in input order.
func (r *Report) Frames() []*model.Frame {
	var out []*model.Frame
	for _, o := range r.Succeeded() {
		if o.Result != nil && o.Result.Frame != nil {
			out = append(out, o.Result.Frame)
		}
	}
	return out
}
