package sources

import (
	"context"

	"TrustTrace/internal/domain/models"
	"TrustTrace/internal/service/ratelimit"
	"TrustTrace/pkg/config"
)

// FIGIIdentifierSource resolves security identifiers through an
// OpenFIGI-compatible mapping API.
type FIGIIdentifierSource struct {
	base httpBase
}

func NewFIGIIdentifierSource(cfg config.SourceConfig, limiter *ratelimit.Limiter) *FIGIIdentifierSource {
	return &FIGIIdentifierSource{base: newHTTPBase("identifiers", cfg, limiter)}
}

type figiInstrument struct {
	FIGI         string `json:"figi"`
	Name         string `json:"name"`
	Ticker       string `json:"ticker"`
	MarketSector string `json:"marketSector"`
	SecurityType string `json:"securityType"`
}

type figiSearchResponse struct {
	Data []figiInstrument `json:"data"`
}

type figiMappingJob struct {
	IDType  string `json:"idType"`
	IDValue string `json:"idValue"`
}

type figiMappingResult struct {
	Data  []figiInstrument `json:"data"`
	Error string           `json:"error"`
}

func (s *FIGIIdentifierSource) authHeaders() map[string]string {
	if s.base.apiKey == "" {
		return nil
	}
	return map[string]string{"X-OPENFIGI-APIKEY": s.base.apiKey}
}

// SearchIdentifiers runs a free-text instrument search.
func (s *FIGIIdentifierSource) SearchIdentifiers(ctx context.Context, query string) ([]models.IdentifierRecord, error) {
	payload := map[string]string{"query": query}
	var resp figiSearchResponse
	if err := s.base.postJSONWithHeaders(ctx, "/v3/search", payload, &resp, s.authHeaders()); err != nil {
		return nil, err
	}
	recs := make([]models.IdentifierRecord, 0, len(resp.Data))
	for _, inst := range resp.Data {
		if inst.FIGI == "" && inst.Ticker == "" {
			continue
		}
		recs = append(recs, toIdentifierRecord(inst))
	}
	return recs, nil
}

// LookupIdentifier maps one concrete identifier code to its instrument record.
func (s *FIGIIdentifierSource) LookupIdentifier(ctx context.Context, identifier string) (*models.IdentifierRecord, error) {
	jobs := []figiMappingJob{{IDType: "ID_CUSIP", IDValue: identifier}}
	var results []figiMappingResult
	if err := s.base.postJSONWithHeaders(ctx, "/v3/mapping", jobs, &results, s.authHeaders()); err != nil {
		return nil, err
	}
	for _, r := range results {
		if r.Error != "" || len(r.Data) == 0 {
			continue
		}
		rec := toIdentifierRecord(r.Data[0])
		rec.Identifier = identifier
		return &rec, nil
	}
	return nil, models.ErrNotFound
}

func toIdentifierRecord(inst figiInstrument) models.IdentifierRecord {
	code := inst.FIGI
	if code == "" {
		code = inst.Ticker
	}
	return models.IdentifierRecord{
		Identifier:   code,
		Name:         inst.Name,
		Issuer:       inst.Ticker,
		MarketSector: inst.MarketSector,
		SecurityType: inst.SecurityType,
	}
}
