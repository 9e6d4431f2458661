package resample

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SheenArtem/StockCSVDownload/internal/model"
)

// Config describes the target bucket. Buckets are [start, start+Width) and
// labelled by their left edge; boundaries follow the wall clock of Location.
type Config struct {
	Width    time.Duration
	Location *time.Location
}

func (c Config) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// BucketStart returns the left edge of the bucket holding t.
func (c Config) BucketStart(t time.Time) time.Time {
	lt := t.In(c.location())
	_, off := lt.Zone()
	shift := time.Duration(off) * time.Second
	return lt.Add(shift).Truncate(c.Width).Add(-shift).In(c.location())
}

// Resample aggregates strictly ordered sub-daily bars into Width buckets.
// Buckets without volume are dropped; empty buckets are never synthesised.
func Resample(bars []model.Bar, cfg Config) ([]model.Bar, error) {
	if cfg.Width <= 0 {
		return nil, fmt.Errorf("resample: invalid width %s", cfg.Width)
	}
	if err := model.CheckOrdered("intraday", bars); err != nil {
		return nil, err
	}

	out := make([]model.Bar, 0, len(bars))
	var cur model.Bar
	open := false
	flush := func() {
		if open && cur.Volume > 0 {
			out = append(out, cur)
		}
	}

	for _, b := range bars {
		start := cfg.BucketStart(b.Time)
		if open && start.Equal(cur.Time) {
			if b.High > cur.High {
				cur.High = b.High
			}
			if b.Low < cur.Low {
				cur.Low = b.Low
			}
			cur.Close = b.Close
			cur.Volume += b.Volume
			continue
		}
		flush()
		cur = model.Bar{Time: start, Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Volume: b.Volume}
		open = true
	}
	flush()
	return out, nil
}

// ParseWidth parses bucket widths such as "15min", "60m", "1h" or "1d".
func ParseWidth(s string) (time.Duration, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	units := []struct {
		suffix string
		unit   time.Duration
	}{
		{"min", time.Minute},
		{"m", time.Minute},
		{"h", time.Hour},
		{"d", 24 * time.Hour},
	}
	for _, u := range units {
		if !strings.HasSuffix(s, u.suffix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(s, u.suffix))
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("resample: invalid width %q", s)
		}
		return time.Duration(n) * u.unit, nil
	}
	return 0, fmt.Errorf("resample: unknown width unit in %q", s)
}
