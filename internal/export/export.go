package export

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/SheenArtem/StockCSVDownload/internal/model"
)

// Header returns the CSV header: Date, the price columns, then the derived
// column contract.
func Header() []string {
	h := make([]string, 0, 1+len(model.PriceColumns)+len(model.OutputColumns))
	h = append(h, "Date")
	h = append(h, model.PriceColumns...)
	return append(h, model.OutputColumns...)
}

// Finalize returns a copy of f with every undefined value replaced by 0.
// This is the only place undefined values are resolved.
func Finalize(f *model.Frame) *model.Frame {
	out := f.Clone()
	for _, name := range out.Columns() {
		col := out.Column(name)
		for i, v := range col {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				col[i] = 0
			}
		}
	}
	return out
}

// Daily reports whether interval is a whole-day (or longer) cadence whose
// rows are labelled by date alone.
func Daily(interval string) bool {
	switch {
	case strings.HasSuffix(interval, "d"), strings.HasSuffix(interval, "wk"), strings.HasSuffix(interval, "mo"):
		return true
	default:
		return false
	}
}

// FileName is "<ticker>_<YYYYMMDD>.csv" for the export date.
func FileName(symbol string, at time.Time) string {
	safe := strings.NewReplacer("/", "-", `\`, "-", ":", "-", " ", "").Replace(symbol)
	return fmt.Sprintf("%s_%s.csv", safe, at.Format("20060102"))
}

// WriteCSV writes f as UTF-8 CSV with a byte-order mark so spreadsheet
// applications detect the encoding.
func WriteCSV(w io.Writer, f *model.Frame) error {
	tw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	if err := writeRows(tw, Finalize(f)); err != nil {
		return err
	}
	return tw.Close()
}

func writeRows(w io.Writer, f *model.Frame) error {
	cw := csv.NewWriter(w)
	header := Header()
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	layout := time.RFC3339
	if Daily(f.Interval) {
		layout = "2006-01-02"
	}

	cols := make([][]float64, len(header)-1)
	for i, name := range header[1:] {
		cols[i] = f.Column(name)
	}

	record := make([]string, len(header))
	for row, ts := range f.Times {
		record[0] = ts.Format(layout)
		for i, col := range cols {
			v := 0.0
			if col != nil {
				v = col[row]
			}
			record[i+1] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteZIP writes one CSV per frame into a zip archive.
func WriteZIP(w io.Writer, frames []*model.Frame, at time.Time) error {
	zw := zip.NewWriter(w)
	seen := make(map[string]bool, len(frames))
	for _, f := range frames {
		name := FileName(f.Symbol, at)
		if seen[name] {
			name = FileName(f.Symbol+"_"+f.Interval, at)
		}
		seen[name] = true

		fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: at})
		if err != nil {
			return fmt.Errorf("zip %s: %w", name, err)
		}
		if err := WriteCSV(fw, f); err != nil {
			return fmt.Errorf("zip %s: %w", name, err)
		}
	}
	return zw.Close()
}
