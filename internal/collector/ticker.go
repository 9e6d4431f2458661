package collector

import "strings"

// Ticker carries the provider-specific forms of one user-entered symbol.
type Ticker struct {
	// Symbol is the Yahoo Finance symbol, e.g. "2330.TW" or "NVDA".
	Symbol string
	// StockID is the bare Taiwan stock id used by chip providers. Empty for
	// non-Taiwan instruments.
	StockID string
}

// Taiwan reports whether chip data can be requested for the ticker.
func (t Ticker) Taiwan() bool { return t.StockID != "" }

// ParseTicker normalises user input. All-digit input is a Taiwan listing
// ("2330" becomes "2330.TW"); everything else is upper-cased.
func ParseTicker(input string) Ticker {
	s := strings.ToUpper(strings.TrimSpace(input))
	if isDigits(s) {
		return Ticker{Symbol: s + ".TW", StockID: s}
	}
	for _, suffix := range []string{".TW", ".TWO"} {
		if id := strings.TrimSuffix(s, suffix); id != s && isDigits(id) {
			return Ticker{Symbol: s, StockID: id}
		}
	}
	return Ticker{Symbol: s}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
