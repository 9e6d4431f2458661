package flow

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/SheenArtem/StockCSVDownload/internal/align"
	"github.com/SheenArtem/StockCSVDownload/internal/model"
)

// Source names used for aligner inputs and warnings.
const (
	SourceFlows     = "institutional_flows"
	SourceMargin    = "margin"
	SourceOwnership = "ownership"
)

// actorColumn maps every known actor category onto its output column.
var actorColumn = map[model.Actor]string{
	model.ForeignInvestor:   model.ColForeignNet,
	model.ForeignDealerSelf: model.ColForeignNet,
	model.InvestmentTrust:   model.ColTrustNet,
	model.DealerSelf:        model.ColDealerNet,
	model.DealerHedging:     model.ColDealerNet,
}

var netColumns = []string{model.ColForeignNet, model.ColTrustNet, model.ColDealerNet}

// Net computes per-date buy minus sell for each actor column. Categories
// missing on a date contribute 0; unknown categories are skipped.
func Net(records []model.FlowRecord) align.Input {
	in := align.Input{Source: SourceFlows}
	byDay := newDayIndex()

	for _, r := range records {
		if !r.Actor.Known() {
			log.Debug().Str("actor", string(r.Actor)).Msg("unknown actor category skipped")
			continue
		}
		col := actorColumn[r.Actor]
		row := byDay.row(r.Date, func(values map[string]float64) {
			for _, c := range netColumns {
				values[c] = 0
			}
		})
		row.Values[col] += r.Buy - r.Sell
	}
	in.Rows = byDay.sorted()
	return in
}

// dayIndex groups rows by calendar day.
type dayIndex struct {
	rows map[string]*align.Row
}

func newDayIndex() *dayIndex {
	return &dayIndex{rows: make(map[string]*align.Row)}
}

func (d *dayIndex) row(date time.Time, init func(map[string]float64)) *align.Row {
	key := date.Format("2006-01-02")
	if r, ok := d.rows[key]; ok {
		return r
	}
	r := &align.Row{Date: date, Values: make(map[string]float64)}
	if init != nil {
		init(r.Values)
	}
	d.rows[key] = r
	return r
}

func (d *dayIndex) sorted() []align.Row {
	out := make([]align.Row, 0, len(d.rows))
	for _, r := range d.rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// ApplyMainForce sets Main_Force_Net to the sum of the actor net columns.
// It must run after alignment so every actor column exists.
func ApplyMainForce(f *model.Frame) error {
	total := make([]float64, f.Len())
	for _, c := range netColumns {
		col := f.Column(c)
		if col == nil {
			continue
		}
		for i, v := range col {
			total[i] += v
		}
	}
	return f.Set(model.ColMainForceNet, total)
}
