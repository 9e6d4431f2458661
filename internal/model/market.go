package model

import "time"

// Bar represents a single OHLCV candlestick.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// CheckOrdered returns a MalformedInputError if bar times are not strictly increasing.
func CheckOrdered(series string, bars []Bar) error {
	for i := 1; i < len(bars); i++ {
		prev, cur := bars[i-1].Time, bars[i].Time
		switch {
		case cur.Equal(prev):
			return &MalformedInputError{Series: series, Index: i, Reason: "duplicate timestamp " + cur.Format(time.RFC3339)}
		case cur.Before(prev):
			return &MalformedInputError{Series: series, Index: i, Reason: "timestamp " + cur.Format(time.RFC3339) + " out of order"}
		}
	}
	return nil
}
