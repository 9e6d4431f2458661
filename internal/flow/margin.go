package flow

import (
	"github.com/SheenArtem/StockCSVDownload/internal/align"
	"github.com/SheenArtem/StockCSVDownload/internal/model"
)

// Margin turns daily margin records into aligner rows. A later record for
// the same day replaces an earlier one.
func Margin(records []model.MarginRecord) align.Input {
	in := align.Input{Source: SourceMargin}
	byDay := newDayIndex()
	for _, r := range records {
		row := byDay.row(r.Date, nil)
		row.Values[model.ColMarginBalance] = r.MarginBalance
		row.Values[model.ColShortBalance] = r.ShortBalance
	}
	in.Rows = byDay.sorted()
	return in
}
