package models

import "time"

// Trade is one raw trade record as reported by a trade data provider.
// Price and Yield stay strings: providers report them as text and unparsable
// values must aggregate as 0, not fail the whole summary.
type Trade struct {
	Date       string // "2006-01-02"
	Time       string // "15:04:05"
	Price      string
	Yield      string
	Volume     float64
	Side       string // "B" buy, "S" sell, "D" dealer-to-dealer
	Dealer     string
	ReportType string
	Identifier string
}

// DateRange bounds a provider query. Nil pointer means unbounded.
type DateRange struct {
	From time.Time
	To   time.Time
}

// DealerVolume is one row of the per-dealer volume breakdown.
type DealerVolume struct {
	Dealer     string
	Volume     float64
	Percentage float64
}

// PricePoint is one calendar day of the averaged price series.
type PricePoint struct {
	Date         time.Time
	AveragePrice float64
	Trades       int
}

// PriceRange holds min/max of parsed prices.
type PriceRange struct {
	Min float64
	Max float64
}

// TradingSummary aggregates a list of trades. The zero value is the
// well-defined summary of zero trades; date fields stay at the zero time.
type TradingSummary struct {
	TotalTrades    int
	AveragePrice   float64
	AverageYield   float64
	TotalVolume    float64
	PriceRange     PriceRange
	VolumeByDealer []DealerVolume
	PriceHistory   []PricePoint
	FirstTradeDate time.Time
	LastTradeDate  time.Time
}

// TradePrint is one streamed trade print from the realtime feed, archived
// for historical trade queries.
type TradePrint struct {
	Identifier string
	Timestamp  int64 // unix seconds
	Price      float64
	Yield      float64
	Volume     float64
}
