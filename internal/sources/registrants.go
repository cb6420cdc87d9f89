package sources

import (
	"context"
	"fmt"
	"strings"

	"TrustTrace/internal/domain/models"
	"TrustTrace/internal/service/ratelimit"
	"TrustTrace/pkg/config"
)

// EDGARRegistrantSource resolves registrant metadata behind a filing's
// registry id from the submissions API.
type EDGARRegistrantSource struct {
	base httpBase
}

func NewEDGARRegistrantSource(cfg config.SourceConfig, limiter *ratelimit.Limiter) *EDGARRegistrantSource {
	return &EDGARRegistrantSource{base: newHTTPBase("registrants", cfg, limiter)}
}

type submissionsResponse struct {
	CIK                  string `json:"cik"`
	Name                 string `json:"name"`
	EIN                  string `json:"ein"`
	StateOfIncorporation string `json:"stateOfIncorporation"`
	Addresses            struct {
		Business struct {
			Street1 string `json:"street1"`
			City    string `json:"city"`
			State   string `json:"stateOrCountry"`
			Zip     string `json:"zipCode"`
		} `json:"business"`
	} `json:"addresses"`
}

// LookupRegistrant fetches the submissions record for one registry id.
// Registry ids are zero-padded to ten digits on the wire.
func (s *EDGARRegistrantSource) LookupRegistrant(ctx context.Context, registryID string) (*models.RegistrantRecord, error) {
	id := strings.TrimLeft(strings.TrimSpace(registryID), "0")
	if id == "" {
		return nil, models.ErrNotFound
	}
	path := fmt.Sprintf("/submissions/CIK%010s.json", id)

	var resp submissionsResponse
	if err := s.base.getJSON(ctx, path, nil, &resp); err != nil {
		if strings.Contains(err.Error(), "status 404") {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	if resp.Name == "" {
		return nil, models.ErrNotFound
	}

	rec := &models.RegistrantRecord{
		RegistryID:   registryID,
		TaxID:        resp.EIN,
		Jurisdiction: resp.StateOfIncorporation,
	}
	b := resp.Addresses.Business
	if b.Street1 != "" || b.City != "" {
		parts := make([]string, 0, 4)
		for _, p := range []string{b.Street1, b.City, b.State, b.Zip} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		rec.Address = strings.Join(parts, ", ")
	}
	return rec, nil
}
