package sources

import (
	"context"
	"sort"
	"time"

	"TrustTrace/internal/domain/models"
	"TrustTrace/internal/service/ratelimit"
	"TrustTrace/pkg/config"
)

const (
	recentComplaintWindow = 365 * 24 * time.Hour
	maxTopIssues          = 5
)

// CFPBComplaintSource derives servicer risk from the public consumer
// complaint database.
type CFPBComplaintSource struct {
	base httpBase
	now  func() time.Time
}

func NewCFPBComplaintSource(cfg config.SourceConfig, limiter *ratelimit.Limiter) *CFPBComplaintSource {
	return &CFPBComplaintSource{
		base: newHTTPBase("complaints", cfg, limiter),
		now:  time.Now,
	}
}

type complaintSearchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
	} `json:"hits"`
	Aggregations struct {
		Issue struct {
			Issue struct {
				Buckets []struct {
					Key      string `json:"key"`
					DocCount int    `json:"doc_count"`
				} `json:"buckets"`
			} `json:"issue"`
		} `json:"issue"`
	} `json:"aggregations"`
}

// SearchComplaints builds a risk profile for one servicer from complaint
// counts: all-time totals, a trailing-year window, and the top issues.
func (s *CFPBComplaintSource) SearchComplaints(ctx context.Context, servicer string) (*models.ServicerRiskProfile, error) {
	total, issues, err := s.query(ctx, servicer, time.Time{})
	if err != nil {
		return nil, err
	}
	recent, _, err := s.query(ctx, servicer, s.now().Add(-recentComplaintWindow))
	if err != nil {
		return nil, err
	}

	profile := &models.ServicerRiskProfile{
		Servicer:         servicer,
		TotalComplaints:  total,
		RecentComplaints: recent,
		TopIssues:        issues,
		RiskScore:        riskScore(total, recent),
	}
	return profile, nil
}

func (s *CFPBComplaintSource) query(ctx context.Context, servicer string, since time.Time) (int, []models.ComplaintIssue, error) {
	params := map[string][]string{
		"company": {servicer},
		"size":    {"0"},
		"no_aggs": {"false"},
		"format":  {"json"},
	}
	if !since.IsZero() {
		params["date_received_min"] = []string{since.Format("2006-01-02")}
	}

	var resp complaintSearchResponse
	if err := s.base.getJSON(ctx, "/data-research/consumer-complaints/search/api/v1/", params, &resp); err != nil {
		return 0, nil, err
	}

	buckets := resp.Aggregations.Issue.Issue.Buckets
	issues := make([]models.ComplaintIssue, 0, len(buckets))
	for _, b := range buckets {
		issues = append(issues, models.ComplaintIssue{Issue: b.Key, Count: b.DocCount})
	}
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Count > issues[j].Count })
	if len(issues) > maxTopIssues {
		issues = issues[:maxTopIssues]
	}
	return resp.Hits.Total.Value, issues, nil
}

// riskScore maps complaint volume and recency onto 0..100. Volume sets the
// base, the trailing-year share adds up to 50.
func riskScore(total, recent int) int {
	score := 0
	switch {
	case total >= 10000:
		score = 50
	case total >= 1000:
		score = 35
	case total >= 100:
		score = 20
	case total > 0:
		score = 10
	}
	if total > 0 && recent > 0 {
		share := float64(recent) / float64(total)
		if share > 1 {
			share = 1
		}
		score += int(share * 50)
	}
	if score > 100 {
		score = 100
	}
	return score
}
