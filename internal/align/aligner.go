package align

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/SheenArtem/StockCSVDownload/internal/model"
)

const dayLayout = "2006-01-02"

// Row is one dated observation of an auxiliary source.
type Row struct {
	Date   time.Time
	Values map[string]float64
}

// Input is the outcome of loading one auxiliary source. A non-nil Err or an
// empty Rows slice marks the source unavailable.
type Input struct {
	Source string
	Rows   []Row
	Err    error
}

// Failed wraps a fetch error into an unavailable Input.
func Failed(source string, err error) Input {
	return Input{Source: source, Err: err}
}

// Aligner projects auxiliary series of any cadence onto a base bar timeline.
type Aligner struct {
	Schema Schema
}

// New creates an Aligner for the given schema.
func New(schema Schema) *Aligner {
	return &Aligner{Schema: schema}
}

// Align builds a frame indexed by base with every schema column present.
// Inputs are merged in order; a later input only overwrites rows where it
// reports data. Unavailable inputs are absorbed and returned as warnings.
func (a *Aligner) Align(symbol, interval string, base []model.Bar, inputs ...Input) (*model.Frame, []model.AuxiliarySourceUnavailable, error) {
	if len(base) == 0 {
		return nil, nil, fmt.Errorf("%s: %w", symbol, model.ErrEmptyInput)
	}
	if err := model.CheckOrdered(symbol+" base", base); err != nil {
		return nil, nil, err
	}

	f := model.NewFrame(symbol, interval, base)
	for _, c := range a.Schema {
		f.Fill(c.Name, c.Default)
	}

	days := make([]string, f.Len())
	for i, t := range f.Times {
		days[i] = t.Format(dayLayout)
	}

	var unavailable []model.AuxiliarySourceUnavailable
	for _, in := range inputs {
		if in.Err != nil || len(in.Rows) == 0 {
			u := model.AuxiliarySourceUnavailable{Source: in.Source, Err: in.Err}
			unavailable = append(unavailable, u)
			log.Warn().Str("symbol", symbol).Str("source", in.Source).AnErr("cause", in.Err).
				Msg("auxiliary source unavailable, keeping neutral defaults")
			continue
		}
		a.merge(f, days, in)
	}
	return f, unavailable, nil
}

type observation struct {
	day   string
	value float64
}

func (a *Aligner) merge(f *model.Frame, days []string, in Input) {
	exact := make(map[string]map[string]float64)
	forward := make(map[string]map[string]float64)

	for _, r := range in.Rows {
		day := r.Date.Format(dayLayout)
		for name, v := range r.Values {
			if math.IsNaN(v) {
				continue
			}
			spec, ok := a.Schema.Lookup(name)
			if !ok {
				log.Debug().Str("source", in.Source).Str("column", name).Msg("column not in schema, ignored")
				continue
			}
			target := exact
			if spec.Fill == FillForward {
				target = forward
			}
			if target[name] == nil {
				target[name] = make(map[string]float64)
			}
			target[name][day] = v
		}
	}

	for name, byDay := range exact {
		col := f.Column(name)
		for i, d := range days {
			if v, ok := byDay[d]; ok {
				col[i] = v
			}
		}
	}

	for name, byDay := range forward {
		obs := make([]observation, 0, len(byDay))
		for d, v := range byDay {
			obs = append(obs, observation{day: d, value: v})
		}
		sort.Slice(obs, func(i, j int) bool { return obs[i].day < obs[j].day })

		col := f.Column(name)
		j := 0
		var cur float64
		seen := false
		for i, d := range days {
			for j < len(obs) && obs[j].day <= d {
				cur = obs[j].value
				seen = true
				j++
			}
			if seen {
				col[i] = cur
			}
		}
	}
}
