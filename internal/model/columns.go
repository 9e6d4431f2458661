package model

// Base price columns, named the way the exported CSV has always named them.
const (
	ColOpen   = "Open"
	ColHigh   = "High"
	ColLow    = "Low"
	ColClose  = "Close"
	ColVolume = "Volume"
)

// Chip (ownership / flow) columns.
const (
	ColForeignNet    = "Foreign_Net"
	ColTrustNet      = "Trust_Net"
	ColDealerNet     = "Dealer_Net"
	ColMarginBalance = "Margin_Balance"
	ColShortBalance  = "Short_Balance"
	ColBigHandsPct   = "Big_Hands_Pct"
	ColSmallHandsPct = "Small_Hands_Pct"
	ColChipSpread    = "Chip_Spread"
	ColMainForceNet  = "Main_Force_Net"
)

// Derived indicator columns.
const (
	ColMA5             = "MA5"
	ColMA10            = "MA10"
	ColMA20            = "MA20"
	ColMA60            = "MA60"
	ColBBUp            = "BB_Up"
	ColBBLo            = "BB_Lo"
	ColATR             = "ATR"
	ColATRStop         = "ATR_Stop"
	ColTenkan          = "Tenkan"
	ColKijun           = "Kijun"
	ColRSI             = "RSI"
	ColK               = "K"
	ColD               = "D"
	ColMACD            = "MACD"
	ColSignal          = "Signal"
	ColHist            = "Hist"
	ColOBV             = "OBV"
	ColPlusDI          = "+DI"
	ColMinusDI         = "-DI"
	ColADX             = "ADX"
	ColConcentration5  = "Concentration_5"
	ColConcentration20 = "Concentration_20"
	ColEFI13           = "EFI_13"
)

// PriceColumns lists the base columns in export order.
var PriceColumns = []string{ColOpen, ColHigh, ColLow, ColClose, ColVolume}

// OutputColumns is the derived column contract in export order. Consumers
// depend on both the names and the order.
var OutputColumns = []string{
	ColMA5, ColMA10, ColMA20, ColMA60,
	ColBBUp, ColBBLo,
	ColATR, ColATRStop,
	ColTenkan, ColKijun,
	ColRSI, ColK, ColD,
	ColMACD, ColSignal, ColHist,
	ColOBV,
	ColPlusDI, ColMinusDI, ColADX,
	ColForeignNet, ColTrustNet, ColDealerNet,
	ColMarginBalance, ColShortBalance,
	ColBigHandsPct, ColSmallHandsPct, ColChipSpread,
	ColMainForceNet,
	ColConcentration5, ColConcentration20,
	ColEFI13,
}
