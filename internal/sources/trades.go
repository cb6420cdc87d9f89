package sources

import (
	"context"
	"time"

	"TrustTrace/internal/domain/models"
	domrepo "TrustTrace/internal/domain/repository"
	domsvc "TrustTrace/internal/domain/service"
	"TrustTrace/internal/service/ratelimit"
	"TrustTrace/pkg/config"
)

// HTTPTradeSource queries a trade reporting API for secondary-market prints
// by security identifier.
type HTTPTradeSource struct {
	base httpBase
}

func NewHTTPTradeSource(cfg config.SourceConfig, limiter *ratelimit.Limiter) *HTTPTradeSource {
	return &HTTPTradeSource{base: newHTTPBase("trades", cfg, limiter)}
}

type tradeReport struct {
	TradeDate  string  `json:"tradeDate"`
	TradeTime  string  `json:"tradeTime"`
	Price      string  `json:"price"`
	Yield      string  `json:"yield"`
	Volume     float64 `json:"volume"`
	Side       string  `json:"side"`
	Dealer     string  `json:"dealer"`
	ReportType string  `json:"reportType"`
}

type tradeSearchResponse struct {
	Trades []tradeReport `json:"trades"`
}

// SearchTrades fetches reported trades for one identifier, optionally bounded
// by a date range.
func (s *HTTPTradeSource) SearchTrades(ctx context.Context, identifier string, rng *models.DateRange) ([]models.Trade, error) {
	params := map[string][]string{
		"cusip": {identifier},
	}
	if s.base.apiKey != "" {
		params["api_key"] = []string{s.base.apiKey}
	}
	if rng != nil {
		if !rng.From.IsZero() {
			params["from"] = []string{rng.From.Format("2006-01-02")}
		}
		if !rng.To.IsZero() {
			params["to"] = []string{rng.To.Format("2006-01-02")}
		}
	}

	var resp tradeSearchResponse
	if err := s.base.getJSON(ctx, "/trades", params, &resp); err != nil {
		return nil, err
	}

	trades := make([]models.Trade, 0, len(resp.Trades))
	for _, r := range resp.Trades {
		trades = append(trades, models.Trade{
			Date:       r.TradeDate,
			Time:       r.TradeTime,
			Price:      r.Price,
			Yield:      r.Yield,
			Volume:     r.Volume,
			Side:       r.Side,
			Dealer:     r.Dealer,
			ReportType: r.ReportType,
			Identifier: identifier,
		})
	}
	return trades, nil
}

const (
	defaultArchiveWindow = 90 * 24 * time.Hour
	defaultArchiveLimit  = 500
)

// ArchiveTradeSource decorates a trade source with the local trade archive:
// when the provider errors or returns nothing, the archived prints from the
// realtime feed answer the query instead.
type ArchiveTradeSource struct {
	primary domsvc.TradeSource
	archive domrepo.TradeArchive
	window  time.Duration
	limit   int
}

func NewArchiveTradeSource(primary domsvc.TradeSource, archive domrepo.TradeArchive) *ArchiveTradeSource {
	return &ArchiveTradeSource{
		primary: primary,
		archive: archive,
		window:  defaultArchiveWindow,
		limit:   defaultArchiveLimit,
	}
}

func (s *ArchiveTradeSource) SearchTrades(ctx context.Context, identifier string, rng *models.DateRange) ([]models.Trade, error) {
	var primaryErr error
	if s.primary != nil {
		trades, err := s.primary.SearchTrades(ctx, identifier, rng)
		if err == nil && len(trades) > 0 {
			return trades, nil
		}
		primaryErr = err
	}
	if s.archive == nil {
		if primaryErr != nil {
			return nil, primaryErr
		}
		return nil, nil
	}

	from, to := s.bounds(rng)
	trades, err := s.archive.Query(ctx, identifier, from, to, s.limit)
	if err != nil {
		if primaryErr != nil {
			return nil, primaryErr
		}
		return nil, err
	}
	return trades, nil
}

func (s *ArchiveTradeSource) bounds(rng *models.DateRange) (time.Time, time.Time) {
	now := time.Now()
	from, to := now.Add(-s.window), now
	if rng != nil {
		if !rng.From.IsZero() {
			from = rng.From
		}
		if !rng.To.IsZero() {
			to = rng.To
		}
	}
	return from, to
}
