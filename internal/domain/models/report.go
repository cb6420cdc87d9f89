package models

import "time"

// RunSummary captures how one investigation ran.
type RunSummary struct {
	CandidatesFound int
	QueriesRun      int
	SourcesQueried  []string
	Elapsed         time.Duration
	GeneratedAt     time.Time
	QuickMode       bool
	UsedFallback    bool // offline catalog supplied the candidates
}

// InvestigationReport is the full result of one Investigate call.
// A run where every source failed is still a valid report: empty trusts
// plus an explanatory recommendation, never an error.
type InvestigationReport struct {
	Profile          DebtProfile
	Trusts           []CandidateTrust
	ServicerAnalyses []ServicerRiskProfile
	Economic         *EconomicSnapshot
	DelinquencyTrend []DelinquencyPoint
	Recommendations  []string
	Summary          RunSummary
}

// AddRecommendation appends a recommendation once.
func (r *InvestigationReport) AddRecommendation(rec string) {
	for _, existing := range r.Recommendations {
		if existing == rec {
			return
		}
	}
	r.Recommendations = append(r.Recommendations, rec)
}
