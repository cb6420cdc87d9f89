package sources

import (
	"context"
	"regexp"
	"strings"
	"time"

	"TrustTrace/internal/domain/models"
	"TrustTrace/internal/service/ratelimit"
	"TrustTrace/pkg/config"
)

const filingDateLayout = "2006-01-02"

// EDGARFilingSource searches the SEC full-text filing index.
type EDGARFilingSource struct {
	base httpBase
}

func NewEDGARFilingSource(cfg config.SourceConfig, limiter *ratelimit.Limiter) *EDGARFilingSource {
	return &EDGARFilingSource{base: newHTTPBase("filings", cfg, limiter)}
}

type ftsHit struct {
	ID     string `json:"_id"`
	Source struct {
		DisplayNames []string `json:"display_names"`
		FileType     string   `json:"file_type"`
		FileDate     string   `json:"file_date"`
		CIKs         []string `json:"ciks"`
	} `json:"_source"`
}

type ftsResponse struct {
	Hits struct {
		Hits []ftsHit `json:"hits"`
	} `json:"hits"`
}

// display names come back as "Entity Name  (CIK 0001383094)"
var cikSuffix = regexp.MustCompile(`\s*\(CIK\s+\d+\)\s*$`)

// SearchFilings runs one full-text query against the filing index and
// normalizes the hits.
func (s *EDGARFilingSource) SearchFilings(ctx context.Context, query string, rng *models.DateRange) ([]models.Filing, error) {
	params := map[string][]string{
		"q": {`"` + query + `"`},
	}
	if rng != nil {
		if !rng.From.IsZero() {
			params["startdt"] = []string{rng.From.Format(filingDateLayout)}
		}
		if !rng.To.IsZero() {
			params["enddt"] = []string{rng.To.Format(filingDateLayout)}
		}
	}

	var resp ftsResponse
	if err := s.base.getJSON(ctx, "/search-index", params, &resp); err != nil {
		return nil, err
	}

	filings := make([]models.Filing, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		f := models.Filing{FormType: hit.Source.FileType}
		if len(hit.Source.DisplayNames) > 0 {
			f.EntityName = strings.TrimSpace(cikSuffix.ReplaceAllString(hit.Source.DisplayNames[0], ""))
		}
		if f.EntityName == "" {
			continue
		}
		if t, err := time.Parse(filingDateLayout, hit.Source.FileDate); err == nil {
			f.FilingDate = t
		}
		if len(hit.Source.CIKs) > 0 {
			f.RegistryID = hit.Source.CIKs[0]
		}
		if hit.ID != "" {
			f.DocumentURL = s.base.baseURL + "/Archives/edgar/data/" + hit.ID
		}
		filings = append(filings, f)
	}
	return filings, nil
}
