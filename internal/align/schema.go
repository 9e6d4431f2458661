package align

import "github.com/SheenArtem/StockCSVDownload/internal/model"

// Fill selects how an auxiliary column is projected onto the base timeline.
type Fill int

const (
	// FillExact matches observations to base rows by calendar day. Unmatched
	// rows keep the column default.
	FillExact Fill = iota
	// FillForward carries each observation forward until the next one. Rows
	// before the first observation keep the column default.
	FillForward
)

// ColumnSpec declares one auxiliary column and its neutral default.
type ColumnSpec struct {
	Name    string
	Default float64
	Fill    Fill
}

// Schema is the ordered set of auxiliary columns every aligned frame carries.
type Schema []ColumnSpec

// Lookup returns the column definition for name.
func (s Schema) Lookup(name string) (ColumnSpec, bool) {
	for _, c := range s {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSpec{}, false
}

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = c.Name
	}
	return out
}

// ChipSchema covers institutional flow, margin and weekly ownership columns.
// All default to 0 so a missing source reads as "no signal".
var ChipSchema = Schema{
	{Name: model.ColForeignNet, Fill: FillExact},
	{Name: model.ColTrustNet, Fill: FillExact},
	{Name: model.ColDealerNet, Fill: FillExact},
	{Name: model.ColMarginBalance, Fill: FillExact},
	{Name: model.ColShortBalance, Fill: FillExact},
	{Name: model.ColBigHandsPct, Fill: FillForward},
	{Name: model.ColSmallHandsPct, Fill: FillForward},
	{Name: model.ColChipSpread, Fill: FillForward},
}
