package sources

import (
	"context"
	"strconv"
	"time"

	"TrustTrace/internal/domain/models"
	"TrustTrace/internal/service/ratelimit"
	"TrustTrace/pkg/config"
)

// FRED series ids used for the macro snapshot.
const (
	seriesMortgageRate = "MORTGAGE30US"
	seriesUnemployment = "UNRATE"
	seriesInflation    = "CPALTT01USM659N"
)

// delinquencySeries maps each debt category onto its published delinquency
// rate series. Consumer categories without a dedicated series share the
// consumer-loan aggregate.
var delinquencySeries = map[models.DebtType]string{
	models.DebtMortgage:     "DRSFRMACBS",
	models.DebtCreditCard:   "DRCCLACBS",
	models.DebtAuto:         "DRCLACBS",
	models.DebtStudentLoan:  "DRCLACBS",
	models.DebtPersonalLoan: "DRCLACBS",
}

// Condition thresholds applied to the latest observations.
const (
	stressedUnemployment = 5.5
	stressedDelinquency  = 4.0
	favorableUnemploy    = 4.5
	favorableMortgage    = 6.0
)

// FREDEconomicSource reads macro indicators from a FRED-compatible
// observations API.
type FREDEconomicSource struct {
	base httpBase
}

func NewFREDEconomicSource(cfg config.SourceConfig, limiter *ratelimit.Limiter) *FREDEconomicSource {
	return &FREDEconomicSource{base: newHTTPBase("economic", cfg, limiter)}
}

type fredObservation struct {
	Date  string `json:"date"`
	Value string `json:"value"` // "." when missing
}

type fredResponse struct {
	Observations []fredObservation `json:"observations"`
}

// Snapshot assembles the latest value of every tracked series and derives
// the overall market condition.
func (s *FREDEconomicSource) Snapshot(ctx context.Context) (*models.EconomicSnapshot, error) {
	snap := &models.EconomicSnapshot{
		AsOf:             time.Now(),
		DelinquencyRates: make(map[models.DebtType]float64),
	}

	mortgage, err := s.latest(ctx, seriesMortgageRate)
	if err != nil {
		return nil, err
	}
	snap.MortgageRate30Y = mortgage

	unemployment, err := s.latest(ctx, seriesUnemployment)
	if err != nil {
		return nil, err
	}
	snap.UnemploymentRate = unemployment

	// inflation is best-effort, some mirrors omit the series
	if inflation, err := s.latest(ctx, seriesInflation); err == nil {
		snap.InflationRate = inflation
	}

	fetched := make(map[string]float64)
	for debtType, series := range delinquencySeries {
		rate, ok := fetched[series]
		if !ok {
			rate, err = s.latest(ctx, series)
			if err != nil {
				return nil, err
			}
			fetched[series] = rate
		}
		snap.DelinquencyRates[debtType] = rate
	}

	snap.Condition = deriveCondition(snap)
	return snap, nil
}

// DelinquencyTrend returns the trailing observations for one debt category,
// oldest first.
func (s *FREDEconomicSource) DelinquencyTrend(ctx context.Context, debtType models.DebtType, periods int) ([]models.DelinquencyPoint, error) {
	series, ok := delinquencySeries[debtType]
	if !ok {
		return nil, models.ErrInvalidProfile
	}
	obs, err := s.observations(ctx, series, periods)
	if err != nil {
		return nil, err
	}

	points := make([]models.DelinquencyPoint, 0, len(obs))
	for i := len(obs) - 1; i >= 0; i-- {
		v, err := strconv.ParseFloat(obs[i].Value, 64)
		if err != nil {
			continue
		}
		points = append(points, models.DelinquencyPoint{Period: obs[i].Date, Rate: v})
	}
	return points, nil
}

func (s *FREDEconomicSource) latest(ctx context.Context, series string) (float64, error) {
	obs, err := s.observations(ctx, series, 1)
	if err != nil {
		return 0, err
	}
	for _, o := range obs {
		if v, err := strconv.ParseFloat(o.Value, 64); err == nil {
			return v, nil
		}
	}
	return 0, models.ErrNotFound
}

// observations fetches up to limit observations, newest first.
func (s *FREDEconomicSource) observations(ctx context.Context, series string, limit int) ([]fredObservation, error) {
	params := map[string][]string{
		"series_id":  {series},
		"sort_order": {"desc"},
		"limit":      {strconv.Itoa(limit)},
		"file_type":  {"json"},
	}
	if s.base.apiKey != "" {
		params["api_key"] = []string{s.base.apiKey}
	}
	var resp fredResponse
	if err := s.base.getJSON(ctx, "/fred/series/observations", params, &resp); err != nil {
		return nil, err
	}
	return resp.Observations, nil
}

func deriveCondition(snap *models.EconomicSnapshot) models.MarketCondition {
	maxDelinquency := 0.0
	for _, rate := range snap.DelinquencyRates {
		if rate > maxDelinquency {
			maxDelinquency = rate
		}
	}
	switch {
	case snap.UnemploymentRate >= stressedUnemployment || maxDelinquency >= stressedDelinquency:
		return models.MarketStressed
	case snap.UnemploymentRate < favorableUnemploy && snap.MortgageRate30Y < favorableMortgage:
		return models.MarketFavorable
	default:
		return models.MarketNeutral
	}
}
