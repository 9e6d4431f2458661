package server

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/SheenArtem/StockCSVDownload/internal/batch"
	"github.com/SheenArtem/StockCSVDownload/internal/collector"
	"github.com/SheenArtem/StockCSVDownload/internal/export"
	"github.com/SheenArtem/StockCSVDownload/internal/model"
	"github.com/SheenArtem/StockCSVDownload/internal/resample"
)

var errNoResults = errors.New("no instrument succeeded")

// FrameRequest selects one instrument download.
type FrameRequest struct {
	Symbol   string `param:"symbol" validate:"required,max=20"`
	Period   string `query:"period" validate:"omitempty,oneof=1mo 3mo 6mo 1y 2y 3y 5y 10y ytd max"`
	Interval string `query:"interval" validate:"omitempty,oneof=1m 2m 5m 15m 30m 60m 90m 1h 1d 5d 1wk 1mo 3mo"`
	Resample string `query:"resample" validate:"omitempty,max=8"`
	Format   string `query:"format" default:"csv" validate:"oneof=csv json"`
}

// BatchRequest selects several instruments. An empty symbol list means the
// configured watchlist.
type BatchRequest struct {
	Symbols  []string `json:"symbols" validate:"max=100,dive,required,max=20"`
	Period   string   `json:"period" validate:"omitempty,oneof=1mo 3mo 6mo 1y 2y 3y 5y 10y ytd max"`
	Interval string   `json:"interval" validate:"omitempty,oneof=1m 2m 5m 15m 30m 60m 90m 1h 1d 5d 1wk 1mo 3mo"`
	Resample string   `json:"resample" validate:"omitempty,max=8"`
}

// FrameHandler serves computed frames over HTTP.
type FrameHandler struct {
	Collector *collector.Collector
	Runner    *batch.Runner
	Defaults  collector.Request
	Watchlist []string
}

// NewFrameHandler creates a FrameHandler.
func NewFrameHandler(col *collector.Collector, runner *batch.Runner, defaults collector.Request, watchlist []string) *FrameHandler {
	return &FrameHandler{Collector: col, Runner: runner, Defaults: defaults, Watchlist: watchlist}
}

// RegisterRoutes mounts the API on e.
func (h *FrameHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.GET("/frames/:symbol", h.Frame)
	g.POST("/batch", h.Batch)
}

func (h *FrameHandler) request(symbol, period, interval, rs string) (collector.Request, error) {
	req := h.Defaults
	req.Symbol = symbol
	if period != "" {
		req.Period = period
	}
	if interval != "" {
		req.Interval = interval
	}
	if rs != "" {
		if _, err := resample.ParseWidth(rs); err != nil {
			return req, err
		}
		req.Resample = rs
	}
	return req, nil
}

// Frame downloads one instrument as CSV, or as JSON rows with format=json.
func (h *FrameHandler) Frame(c echo.Context) error {
	in := &FrameRequest{}
	if verr := ReadAndValidateRequest(c, in); verr != nil {
		return badRequestResponse(c, verr)
	}
	req, err := h.request(in.Symbol, in.Period, in.Interval, in.Resample)
	if err != nil {
		return badRequestResponse(c, []ValidationError{{Code: "ERR_RESAMPLE", Field: "Resample", Message: err.Error()}})
	}

	res, err := h.Collector.Collect(c.Request().Context(), req)
	if err != nil {
		return errorResponse(c, err)
	}
	setWarnings(c, res.Warnings)

	if in.Format == "json" {
		return successResponse(c, newFrameView(res))
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, res.Frame); err != nil {
		return errorResponse(c, err)
	}
	return attachment(c, export.FileName(res.Ticker.Symbol, time.Now()), "text/csv; charset=utf-8", buf.Bytes())
}

// Batch downloads several instruments into one ZIP archive. Failed
// instruments are listed in the X-Failed-Symbols header.
func (h *FrameHandler) Batch(c echo.Context) error {
	in := &BatchRequest{}
	if verr := ReadAndValidateRequest(c, in); verr != nil {
		return badRequestResponse(c, verr)
	}
	symbols := in.Symbols
	if len(symbols) == 0 {
		symbols = h.Watchlist
	}
	tmpl, err := h.request("", in.Period, in.Interval, in.Resample)
	if err != nil {
		return badRequestResponse(c, []ValidationError{{Code: "ERR_RESAMPLE", Field: "Resample", Message: err.Error()}})
	}

	rep := h.Runner.Run(c.Request().Context(), symbols, batch.CollectJob(h.Collector, tmpl))
	frames := rep.Frames()
	if len(frames) == 0 {
		return errorResponse(c, fmt.Errorf("%w: %d of %d failed", errNoResults, len(rep.Failed()), len(symbols)))
	}

	if failed := rep.Failed(); len(failed) > 0 {
		names := make([]string, len(failed))
		for i, o := range failed {
			names[i] = o.Symbol
		}
		c.Response().Header().Set("X-Failed-Symbols", strings.Join(names, ","))
	}
	c.Response().Header().Set("X-Run-ID", rep.RunID)

	var buf bytes.Buffer
	if err := export.WriteZIP(&buf, frames, rep.Started); err != nil {
		return errorResponse(c, err)
	}
	name := fmt.Sprintf("batch_%s.zip", rep.Started.Format("20060102"))
	return attachment(c, name, "application/zip", buf.Bytes())
}

func attachment(c echo.Context, name, contentType string, data []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, contentType, data)
}

func setWarnings(c echo.Context, warnings []model.AuxiliarySourceUnavailable) {
	if len(warnings) == 0 {
		return
	}
	sources := make([]string, len(warnings))
	for i, w := range warnings {
		sources[i] = w.Source
	}
	c.Response().Header().Set("X-Unavailable-Sources", strings.Join(sources, ","))
}

// frameView is the JSON shape of a frame. Undefined values become null.
type frameView struct {
	Symbol   string     `json:"symbol"`
	Interval string     `json:"interval"`
	Columns  []string   `json:"columns"`
	Rows     []frameRow `json:"rows"`
	Warnings []string   `json:"warnings,omitempty"`
}

type frameRow struct {
	Time   time.Time  `json:"time"`
	Values []*float64 `json:"values"`
}

func newFrameView(res *collector.Result) frameView {
	f := res.Frame
	cols := export.Header()[1:]
	v := frameView{Symbol: f.Symbol, Interval: f.Interval, Columns: cols, Rows: make([]frameRow, f.Len())}
	for i, ts := range f.Times {
		vals := make([]*float64, len(cols))
		for j, name := range cols {
			x := f.Value(name, i)
			if math.IsNaN(x) || math.IsInf(x, 0) {
				continue
			}
			vals[j] = &x
		}
		v.Rows[i] = frameRow{Time: ts, Values: vals}
	}
	for _, w := range res.Warnings {
		v.Warnings = append(v.Warnings, w.String())
	}
	return v
}
