package flow

import (
	"math"

	"github.com/rs/zerolog/log"

	"github.com/SheenArtem/StockCSVDownload/internal/align"
	"github.com/SheenArtem/StockCSVDownload/internal/model"
)

// Thresholds select which holding-size bands count as big and small holders.
type Thresholds struct {
	Big   int `yaml:"big" default:"12" validate:"gte=1,lte=15"`
	Small int `yaml:"small" default:"3" validate:"gte=1,lte=15"`
}

// DefaultThresholds is the usual split: level 12 and above (over 400 lots)
// against level 3 and below (under 10 lots).
var DefaultThresholds = Thresholds{Big: 12, Small: 3}

const bandTotalTolerance = 1.0

// Ownership aggregates weekly holding bands into Big_Hands_Pct,
// Small_Hands_Pct and Chip_Spread rows. The aligner forward-fills them.
func Ownership(bands []model.OwnershipBand, th Thresholds) align.Input {
	in := align.Input{Source: SourceOwnership}
	byDay := newDayIndex()
	totals := make(map[string]float64)

	for _, b := range bands {
		row := byDay.row(b.Date, func(values map[string]float64) {
			values[model.ColBigHandsPct] = 0
			values[model.ColSmallHandsPct] = 0
		})
		if b.Level >= th.Big {
			row.Values[model.ColBigHandsPct] += b.Percent
		}
		if b.Level <= th.Small {
			row.Values[model.ColSmallHandsPct] += b.Percent
		}
		totals[b.Date.Format("2006-01-02")] += b.Percent
	}

	in.Rows = byDay.sorted()
	for _, r := range in.Rows {
		r.Values[model.ColChipSpread] = r.Values[model.ColBigHandsPct] - r.Values[model.ColSmallHandsPct]

		day := r.Date.Format("2006-01-02")
		if total := totals[day]; math.Abs(total-100) > bandTotalTolerance {
			log.Warn().Str("date", day).Float64("total", total).Msg("ownership bands do not sum to 100")
		}
	}
	return in
}
