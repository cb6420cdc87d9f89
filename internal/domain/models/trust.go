package models

import (
	"strings"
	"time"
)

// SecurityIdentifier is one rated tranche/note of a securitization.
type SecurityIdentifier struct {
	Code        string  // identifier code used for trade lookups
	Tranche     string  // "A-1", "B", ...
	Rating      string  // agency rating at issuance
	FaceBalance float64 // original face in USD
}

// VerificationRecord tracks which independent source classes corroborated a
// candidate. Confidence only ever grows; a source that fails contributes
// nothing and never subtracts.
type VerificationRecord struct {
	FilingVerified     bool
	IdentifierVerified bool
	TradeVerified      bool
	ComplaintChecked   bool
	LastVerified       time.Time
	ConfidenceScore    int // 0..100
	DataSources        []string
}

// AddSource registers a contributing source tag (set semantics).
func (v *VerificationRecord) AddSource(tag string) {
	for _, s := range v.DataSources {
		if s == tag {
			return
		}
	}
	v.DataSources = append(v.DataSources, tag)
}

// HasSource reports whether tag already contributed.
func (v *VerificationRecord) HasSource(tag string) bool {
	for _, s := range v.DataSources {
		if s == tag {
			return true
		}
	}
	return false
}

// AddConfidence raises the confidence score, clamped to 100.
func (v *VerificationRecord) AddConfidence(points int) {
	v.ConfidenceScore += points
	if v.ConfidenceScore > 100 {
		v.ConfidenceScore = 100
	}
}

// CandidateTrust is a hypothesized trust that may hold the consumer's debt.
type CandidateTrust struct {
	ID           string
	Name         string
	Trustee      string
	DebtType     DebtType
	ClosingDate  time.Time // deal closing / filing date, zero if unknown
	DealSize     float64   // USD, 0 if unknown
	Securities   []SecurityIdentifier
	MatchScore   int // 0..100, offline heuristic score
	MatchReasons []string
	FilingURL    string
	Verification VerificationRecord
	ServicerRisk *ServicerRiskProfile
	Economic     *EconomicSnapshot
}

// NameKey returns the case-insensitive deduplication key for a candidate.
func (c *CandidateTrust) NameKey() string {
	return strings.ToLower(strings.TrimSpace(c.Name))
}

// PrimaryIdentifier returns the first security identifier code, or "".
func (c *CandidateTrust) PrimaryIdentifier() string {
	if len(c.Securities) == 0 {
		return ""
	}
	return c.Securities[0].Code
}
