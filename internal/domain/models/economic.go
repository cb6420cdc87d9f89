package models

import "time"

// MarketCondition is the tri-state classification of the macro backdrop.
type MarketCondition string

const (
	MarketFavorable MarketCondition = "favorable"
	MarketNeutral   MarketCondition = "neutral"
	MarketStressed  MarketCondition = "stressed"
)

// EconomicSnapshot is a point-in-time view of the macro indicators the
// investigator attaches to every candidate.
type EconomicSnapshot struct {
	AsOf             time.Time
	MortgageRate30Y  float64
	DelinquencyRates map[DebtType]float64 // percent, per category
	UnemploymentRate float64
	InflationRate    float64
	Condition        MarketCondition
}

// DelinquencyPoint is one period of the trailing delinquency trend.
type DelinquencyPoint struct {
	Period string // "2024-Q3" style label
	Rate   float64
}
