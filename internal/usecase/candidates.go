package usecase

import (
	"strings"
	"time"

	"TrustTrace/internal/domain/models"
)

// Source tags recorded on candidates as each adapter contributes.
const (
	sourceFiling     = "filing"
	sourceRegistrant = "registrant"
	sourceIdentifier = "identifier"
	sourceComplaints = "complaints"
	sourceEconomic   = "economic"
	sourceTrades     = "trades"
)

// Confidence contributions per source class. Preserved as-is for behavioral
// compatibility; do not retune without a product decision.
const (
	confFilingSeed     = 40
	confABSForm        = 20
	confRecentFiling   = 10
	confRegistrant     = 15
	confIdentifier     = 15
	confIdentifierSeed = 30
	confTradeActivity  = 20
	recentFilingWindow = 2 // years
	riskScoreThreshold = 50
)

// candidateTable is the in-progress candidate set of one investigation.
// It is only ever touched from the merge loop that drains each fan-out,
// so it needs no locking.
type candidateTable struct {
	byKey       map[string]*models.CandidateTrust
	order       []string
	registryIDs map[string]string // candidate key -> filing registry id
}

func newCandidateTable() *candidateTable {
	return &candidateTable{
		byKey:       make(map[string]*models.CandidateTrust),
		registryIDs: make(map[string]string),
	}
}

func (t *candidateTable) len() int { return len(t.order) }

func (t *candidateTable) get(key string) *models.CandidateTrust { return t.byKey[key] }

// all returns candidates in insertion order.
func (t *candidateTable) all() []*models.CandidateTrust {
	out := make([]*models.CandidateTrust, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.byKey[k])
	}
	return out
}

// mergeFiling folds one filing hit into the table. Candidates deduplicate by
// case-insensitive name; a duplicate keeps the higher confidence and the
// union of sources.
func (t *candidateTable) mergeFiling(f models.Filing, now time.Time) *models.CandidateTrust {
	score := confFilingSeed
	var reasons []string
	reasons = append(reasons, "found in filing registry search")
	if models.ABSFormTypes[f.FormType] {
		score += confABSForm
		reasons = append(reasons, "asset-backed filing category "+f.FormType)
	}
	if !f.FilingDate.IsZero() && now.Sub(f.FilingDate) <= recentFilingWindow*365*24*time.Hour {
		score += confRecentFiling
		reasons = append(reasons, "filed within the last two years")
	}

	securities := make([]models.SecurityIdentifier, 0, len(f.Identifiers))
	for _, code := range f.Identifiers {
		securities = append(securities, models.SecurityIdentifier{Code: code})
	}

	cand := &models.CandidateTrust{
		ID:           "filing:" + strings.ToLower(f.EntityName),
		Name:         f.EntityName,
		ClosingDate:  f.FilingDate,
		DealSize:     f.DealSize,
		Securities:   securities,
		MatchScore:   score,
		MatchReasons: reasons,
		FilingURL:    f.DocumentURL,
		Verification: models.VerificationRecord{
			FilingVerified:  true,
			LastVerified:    now,
			ConfidenceScore: score,
		},
	}
	cand.Verification.AddSource(sourceFiling)

	key := cand.NameKey()
	if existing, ok := t.byKey[key]; ok {
		mergeDuplicate(existing, cand)
		if f.RegistryID != "" {
			t.registryIDs[key] = f.RegistryID
		}
		return existing
	}
	t.byKey[key] = cand
	t.order = append(t.order, key)
	if f.RegistryID != "" {
		t.registryIDs[key] = f.RegistryID
	}
	return cand
}

// mergeIdentifier attaches an identifier record to a matching candidate, or
// seeds a new one when nothing matches.
func (t *candidateTable) mergeIdentifier(rec models.IdentifierRecord, now time.Time) *models.CandidateTrust {
	if cand := t.matchIdentifier(rec); cand != nil {
		if !cand.Verification.HasSource(sourceIdentifier) {
			cand.Verification.AddConfidence(confIdentifier)
			cand.Verification.AddSource(sourceIdentifier)
			cand.MatchReasons = append(cand.MatchReasons, "identifier registry corroborates "+rec.Identifier)
		}
		cand.Verification.IdentifierVerified = true
		cand.Verification.LastVerified = now
		t.ensureSecurity(cand, rec)
		return cand
	}

	name := rec.Name
	if name == "" {
		name = rec.Issuer
	}
	if name == "" {
		name = rec.Identifier
	}
	cand := &models.CandidateTrust{
		ID:   "identifier:" + strings.ToLower(rec.Identifier),
		Name: name,
		Securities: []models.SecurityIdentifier{
			{Code: rec.Identifier},
		},
		MatchScore:   confIdentifierSeed,
		MatchReasons: []string{"seeded from identifier registry hit " + rec.Identifier},
		Verification: models.VerificationRecord{
			IdentifierVerified: true,
			LastVerified:       now,
			ConfidenceScore:    confIdentifierSeed,
		},
	}
	cand.Verification.AddSource(sourceIdentifier)

	key := cand.NameKey()
	if existing, ok := t.byKey[key]; ok {
		mergeDuplicate(existing, cand)
		return existing
	}
	t.byKey[key] = cand
	t.order = append(t.order, key)
	return cand
}

// matchIdentifier finds the candidate an identifier record belongs to, by
// security code first, then by name containment.
func (t *candidateTable) matchIdentifier(rec models.IdentifierRecord) *models.CandidateTrust {
	for _, k := range t.order {
		cand := t.byKey[k]
		for _, sec := range cand.Securities {
			if strings.EqualFold(sec.Code, rec.Identifier) {
				return cand
			}
		}
	}
	recName := strings.ToLower(strings.TrimSpace(rec.Name))
	if recName == "" {
		return nil
	}
	for _, k := range t.order {
		cand := t.byKey[k]
		candName := cand.NameKey()
		if strings.Contains(recName, candName) || strings.Contains(candName, recName) {
			return cand
		}
	}
	return nil
}

func (t *candidateTable) ensureSecurity(cand *models.CandidateTrust, rec models.IdentifierRecord) {
	for i := range cand.Securities {
		if strings.EqualFold(cand.Securities[i].Code, rec.Identifier) {
			return
		}
	}
	cand.Securities = append(cand.Securities, models.SecurityIdentifier{Code: rec.Identifier})
}

// mergeDuplicate folds src into dst: higher score wins, sources union,
// missing fields fill in.
func mergeDuplicate(dst, src *models.CandidateTrust) {
	if src.Verification.ConfidenceScore > dst.Verification.ConfidenceScore {
		dst.Verification.ConfidenceScore = src.Verification.ConfidenceScore
	}
	if src.MatchScore > dst.MatchScore {
		dst.MatchScore = src.MatchScore
		dst.MatchReasons = src.MatchReasons
	}
	for _, tag := range src.Verification.DataSources {
		dst.Verification.AddSource(tag)
	}
	dst.Verification.FilingVerified = dst.Verification.FilingVerified || src.Verification.FilingVerified
	dst.Verification.IdentifierVerified = dst.Verification.IdentifierVerified || src.Verification.IdentifierVerified
	dst.Verification.TradeVerified = dst.Verification.TradeVerified || src.Verification.TradeVerified
	dst.Verification.ComplaintChecked = dst.Verification.ComplaintChecked || src.Verification.ComplaintChecked
	if src.Verification.LastVerified.After(dst.Verification.LastVerified) {
		dst.Verification.LastVerified = src.Verification.LastVerified
	}
	if dst.FilingURL == "" {
		dst.FilingURL = src.FilingURL
	}
	if dst.DealSize == 0 {
		dst.DealSize = src.DealSize
	}
	if dst.ClosingDate.IsZero() {
		dst.ClosingDate = src.ClosingDate
	}
	if len(dst.Securities) == 0 {
		dst.Securities = src.Securities
	}
}

// topByConfidence returns up to n candidates with the highest confidence.
// Ties break by name for a stable ordering across runs.
func (t *candidateTable) topByConfidence(n int) []*models.CandidateTrust {
	out := t.all()
	sortCandidates(out)
	if len(out) > n {
		out = out[:n]
	}
	return out
}
