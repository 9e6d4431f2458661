package model

import "time"

// Actor is an institutional investor category reported in daily flow data.
type Actor string

const (
	ForeignInvestor   Actor = "ForeignInvestor"
	ForeignDealerSelf Actor = "ForeignDealerSelf"
	InvestmentTrust   Actor = "InvestmentTrust"
	DealerSelf        Actor = "DealerSelf"
	DealerHedging     Actor = "DealerHedging"
)

// Actors is the fixed set of known categories.
var Actors = []Actor{ForeignInvestor, ForeignDealerSelf, InvestmentTrust, DealerSelf, DealerHedging}

// Known reports whether a is one of Actors.
func (a Actor) Known() bool {
	for _, k := range Actors {
		if a == k {
			return true
		}
	}
	return false
}

// FlowRecord is one day of buy/sell volume for one actor category.
type FlowRecord struct {
	Date  time.Time
	Actor Actor
	Buy   float64
	Sell  float64
}

// MarginRecord holds end-of-day margin purchase and short sale balances.
type MarginRecord struct {
	Date          time.Time
	MarginBalance float64
	ShortBalance  float64
}

// OwnershipBand is the share of outstanding stock held by one holding-size
// band (1 = smallest holders) on a weekly census date.
type OwnershipBand struct {
	Date    time.Time
	Level   int
	Percent float64
}
