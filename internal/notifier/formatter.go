package notifier

import (
	"fmt"
	"html"
	"math"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/SheenArtem/StockCSVDownload/internal/batch"
	"github.com/SheenArtem/StockCSVDownload/internal/model"
)

// Telegram length limits, counted in UTF-16 code units.
const (
	MaxCaption = 1024
	MaxMessage = 4096
)

// TextLen is the length of s as Telegram counts it. Markup is included, so
// the result never undercounts.
func TextLen(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// FitLines drops trailing whole lines until s fits in limit and notes how
// many were cut. Lines are kept whole so HTML tags stay balanced.
func FitLines(s string, limit int) string {
	if TextLen(s) <= limit {
		return s
	}
	lines := strings.Split(s, "\n")
	for n := len(lines) - 1; n > 0; n-- {
		out := strings.Join(lines[:n], "\n") + fmt.Sprintf("\n… 另有 %d 行省略", len(lines)-n)
		if TextLen(out) <= limit {
			return out
		}
	}
	r := []rune(lines[0])
	for TextLen(string(r)) > limit {
		r = r[:len(r)-1]
	}
	return string(r)
}

// FormatBatchReport summarises a batch run for Telegram.
func FormatBatchReport(rep *batch.Report) string {
	var b strings.Builder

	ok := rep.Succeeded()
	failed := rep.Failed()
	b.WriteString(fmt.Sprintf("📦 <b>資料下載完成</b> | %s\n\n", rep.Started.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("成功: %d / %d  耗時: %s\n", len(ok), len(rep.Outcomes), rep.Elapsed.Round(100*time.Millisecond)))

	for _, o := range ok {
		rows := 0
		if o.Result.Frame != nil {
			rows = o.Result.Frame.Len()
		}
		b.WriteString(fmt.Sprintf("  ✅ %s (%d 筆)", html.EscapeString(o.Result.Ticker.Symbol), rows))
		if n := len(o.Result.Warnings); n > 0 {
			missing := make([]string, n)
			for i, w := range o.Result.Warnings {
				missing[i] = html.EscapeString(w.String())
			}
			b.WriteString(fmt.Sprintf(" ⚠️ 籌碼缺漏: %s", strings.Join(missing, "; ")))
		}
		b.WriteString("\n")
	}
	for _, o := range failed {
		b.WriteString(fmt.Sprintf("  ❌ %s: %s\n", html.EscapeString(o.Symbol), html.EscapeString(o.Err.Error())))
	}
	b.WriteString(fmt.Sprintf("\n<code>%s</code>", rep.RunID))
	return b.String()
}

// FormatSnapshot renders the latest row of a computed frame.
func FormatSnapshot(f *model.Frame) string {
	if f == nil || f.Len() == 0 {
		return "無資料"
	}
	i := f.Len() - 1
	v := func(name string) string {
		x := f.Value(name, i)
		if math.IsNaN(x) {
			return "-"
		}
		return fmt.Sprintf("%.2f", x)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📈 <b>%s</b> | %s\n\n", html.EscapeString(f.Symbol), f.Times[i].Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("收盤: %s  量: %.0f\n", v(model.ColClose), f.Value(model.ColVolume, i)))
	b.WriteString(fmt.Sprintf("MA5/20/60: %s / %s / %s\n", v(model.ColMA5), v(model.ColMA20), v(model.ColMA60)))
	b.WriteString(fmt.Sprintf("布林: %s ~ %s\n", v(model.ColBBLo), v(model.ColBBUp)))
	b.WriteString(fmt.Sprintf("ATR 停損: %s\n", v(model.ColATRStop)))
	b.WriteString(fmt.Sprintf("RSI: %s  K/D: %s / %s\n", v(model.ColRSI), v(model.ColK), v(model.ColD)))
	b.WriteString(fmt.Sprintf("MACD 柱: %s  ADX: %s\n", v(model.ColHist), v(model.ColADX)))
	b.WriteString(fmt.Sprintf("主力淨買: %s  集中度5/20: %s%% / %s%%\n",
		v(model.ColMainForceNet), v(model.ColConcentration5), v(model.ColConcentration20)))
	b.WriteString(fmt.Sprintf("大戶/散戶持股: %s%% / %s%%\n", v(model.ColBigHandsPct), v(model.ColSmallHandsPct)))
	return b.String()
}
