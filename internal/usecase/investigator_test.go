package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"TrustTrace/internal/domain/models"
	"TrustTrace/internal/services/catalog"
	pkgcache "TrustTrace/pkg/cache"
)

// --- stub sources ---

type stubFilings struct {
	filings []models.Filing
	err     error
	calls   atomic.Int64
}

func (s *stubFilings) SearchFilings(_ context.Context, _ string, _ *models.DateRange) ([]models.Filing, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.filings, nil
}

type stubIdentifiers struct {
	recs []models.IdentifierRecord
	err  error
}

func (s *stubIdentifiers) SearchIdentifiers(_ context.Context, _ string) ([]models.IdentifierRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.recs, nil
}

func (s *stubIdentifiers) LookupIdentifier(_ context.Context, id string) (*models.IdentifierRecord, error) {
	for i := range s.recs {
		if s.recs[i].Identifier == id {
			return &s.recs[i], nil
		}
	}
	return nil, models.ErrNotFound
}

type stubRegistrants struct {
	rec   *models.RegistrantRecord
	err   error
	calls atomic.Int64
}

func (s *stubRegistrants) LookupRegistrant(_ context.Context, _ string) (*models.RegistrantRecord, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.rec, nil
}

type stubComplaints struct {
	risk *models.ServicerRiskProfile
	err  error
}

func (s *stubComplaints) SearchComplaints(_ context.Context, _ string) (*models.ServicerRiskProfile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.risk, nil
}

type stubEconomy struct {
	snap  *models.EconomicSnapshot
	trend []models.DelinquencyPoint
	err   error
	calls atomic.Int64
}

func (s *stubEconomy) Snapshot(_ context.Context) (*models.EconomicSnapshot, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.snap, nil
}

func (s *stubEconomy) DelinquencyTrend(_ context.Context, _ models.DebtType, periods int) ([]models.DelinquencyPoint, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.trend) > periods {
		return s.trend[:periods], nil
	}
	return s.trend, nil
}

type stubTrades struct {
	trades []models.Trade
	err    error
}

func (s *stubTrades) SearchTrades(_ context.Context, _ string, _ *models.DateRange) ([]models.Trade, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.trades, nil
}

var errSourceDown = errors.New("source down")

func noJitterGenerator() *catalog.Generator { return catalog.New(catalog.WithRand(nil)) }

func newTestInvestigator(f *stubFilings, i *stubIdentifiers, r *stubRegistrants, c *stubComplaints, e *stubEconomy, t *stubTrades) *Investigator {
	return NewInvestigator(f, i, r, c, e, t, noJitterGenerator(), nil, nil)
}

// --- tests ---

func autoProfile() models.DebtProfile {
	return models.DebtProfile{
		DebtType:     models.DebtAuto,
		ServicerName: "Santander Consumer USA",
	}
}

func santanderFiling() models.Filing {
	return models.Filing{
		EntityName: "Santander Drive Auto Receivables Trust",
		FormType:   "SF-3",
		FilingDate: time.Now().AddDate(0, -3, 0),
		RegistryID: "0001383094",
		Identifiers: []string{
			"80285WAB1",
		},
	}
}

func TestInvestigateSingleSourceAgreement(t *testing.T) {
	// Scenario: one filing hit and one matching identifier merge into one
	// candidate with both sources and confidence >= 70.
	inv := newTestInvestigator(
		&stubFilings{filings: []models.Filing{santanderFiling()}},
		&stubIdentifiers{recs: []models.IdentifierRecord{
			{Identifier: "80285WAB1", Name: "Santander Drive Auto Receivables Trust"},
		}},
		&stubRegistrants{err: errSourceDown},
		&stubComplaints{err: errSourceDown},
		&stubEconomy{err: errSourceDown},
		&stubTrades{err: errSourceDown},
	)
	rep, err := inv.Investigate(context.Background(), autoProfile(), InvestigateOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.Trusts) != 1 {
		t.Fatalf("expected exactly one candidate, got %d", len(rep.Trusts))
	}
	c := rep.Trusts[0]
	if !c.Verification.HasSource("filing") || !c.Verification.HasSource("identifier") {
		t.Fatalf("expected filing+identifier sources, got %v", c.Verification.DataSources)
	}
	if c.Verification.ConfidenceScore < 70 {
		t.Fatalf("expected confidence >= 70, got %d", c.Verification.ConfidenceScore)
	}
	if len(c.Securities) == 0 {
		t.Fatalf("expected non-empty securities list")
	}
}

func TestInvestigateAllSourcesDownFallsBack(t *testing.T) {
	inv := newTestInvestigator(
		&stubFilings{err: errSourceDown},
		&stubIdentifiers{err: errSourceDown},
		&stubRegistrants{err: errSourceDown},
		&stubComplaints{err: errSourceDown},
		&stubEconomy{err: errSourceDown},
		&stubTrades{err: errSourceDown},
	)
	rep, err := inv.Investigate(context.Background(), autoProfile(), InvestigateOptions{})
	if err != nil {
		t.Fatalf("total source failure must not error: %v", err)
	}
	if !rep.Summary.UsedFallback {
		t.Fatalf("expected offline fallback")
	}
	if len(rep.Trusts) == 0 {
		t.Fatalf("expected offline candidates for a known servicer")
	}
	for _, c := range rep.Trusts {
		if c.MatchScore < 30 || c.MatchScore > 100 {
			t.Fatalf("offline score %d out of [30,100]", c.MatchScore)
		}
	}
}

func TestInvestigateNothingAnywhereIsEmptyReport(t *testing.T) {
	// Sources fail and the profile is too weak for the offline catalog:
	// the result is an empty report with a recommendation, never an error.
	inv := newTestInvestigator(
		&stubFilings{err: errSourceDown},
		&stubIdentifiers{err: errSourceDown},
		&stubRegistrants{err: errSourceDown},
		&stubComplaints{err: errSourceDown},
		&stubEconomy{err: errSourceDown},
		&stubTrades{err: errSourceDown},
	)
	rep, err := inv.Investigate(context.Background(), models.DebtProfile{DebtType: models.DebtCreditCard}, InvestigateOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.Trusts) != 0 {
		t.Fatalf("expected empty report, got %d trusts", len(rep.Trusts))
	}
	found := false
	for _, r := range rep.Recommendations {
		if r == RecNotSecuritized {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected not-securitized recommendation, got %v", rep.Recommendations)
	}
}

func TestInvestigateInvalidProfile(t *testing.T) {
	inv := newTestInvestigator(&stubFilings{}, &stubIdentifiers{}, &stubRegistrants{}, &stubComplaints{}, &stubEconomy{}, &stubTrades{})
	_, err := inv.Investigate(context.Background(), models.DebtProfile{DebtType: "timeshare"}, InvestigateOptions{})
	if !errors.Is(err, models.ErrInvalidProfile) {
		t.Fatalf("expected ErrInvalidProfile, got %v", err)
	}
}

func TestInvestigateCaseInsensitiveDedup(t *testing.T) {
	f1 := santanderFiling()
	f2 := santanderFiling()
	f2.EntityName = "SANTANDER DRIVE AUTO RECEIVABLES TRUST"
	f2.FormType = "8-K" // scores lower than the SF-3 hit
	f2.FilingDate = time.Time{}
	inv := newTestInvestigator(
		&stubFilings{filings: []models.Filing{f1, f2}},
		&stubIdentifiers{err: errSourceDown},
		&stubRegistrants{err: errSourceDown},
		&stubComplaints{err: errSourceDown},
		&stubEconomy{err: errSourceDown},
		&stubTrades{err: errSourceDown},
	)
	rep, err := inv.Investigate(context.Background(), autoProfile(), InvestigateOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.Trusts) != 1 {
		t.Fatalf("case-variant names must merge, got %d candidates", len(rep.Trusts))
	}
	// SF-3 + recent filing = 70, the 8-K duplicate must not lower it
	if rep.Trusts[0].Verification.ConfidenceScore != 70 {
		t.Fatalf("expected the higher-scoring duplicate (70), got %d", rep.Trusts[0].Verification.ConfidenceScore)
	}
}

func TestInvestigateConfidenceMonotonic(t *testing.T) {
	base := newTestInvestigator(
		&stubFilings{filings: []models.Filing{santanderFiling()}},
		&stubIdentifiers{err: errSourceDown},
		&stubRegistrants{err: errSourceDown},
		&stubComplaints{err: errSourceDown},
		&stubEconomy{err: errSourceDown},
		&stubTrades{err: errSourceDown},
	)
	baseRep, err := base.Investigate(context.Background(), autoProfile(), InvestigateOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	enriched := newTestInvestigator(
		&stubFilings{filings: []models.Filing{santanderFiling()}},
		&stubIdentifiers{recs: []models.IdentifierRecord{
			{Identifier: "80285WAB1", Name: "Santander Drive Auto Receivables Trust"},
		}},
		&stubRegistrants{rec: &models.RegistrantRecord{RegistryID: "0001383094", Jurisdiction: "DE"}},
		&stubComplaints{err: errSourceDown},
		&stubEconomy{err: errSourceDown},
		&stubTrades{trades: []models.Trade{{Price: "99.80", Volume: 100000, Dealer: "A"}}},
	)
	richRep, err := enriched.Investigate(context.Background(), autoProfile(), InvestigateOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if richRep.Trusts[0].Verification.ConfidenceScore < baseRep.Trusts[0].Verification.ConfidenceScore {
		t.Fatalf("confidence must not decrease as sources merge: %d -> %d",
			baseRep.Trusts[0].Verification.ConfidenceScore, richRep.Trusts[0].Verification.ConfidenceScore)
	}
	if richRep.Trusts[0].Verification.ConfidenceScore > 100 {
		t.Fatalf("confidence above 100")
	}
	if !richRep.Trusts[0].Verification.TradeVerified {
		t.Fatalf("expected trade verification with non-empty trade result")
	}
}

func TestInvestigateDeterministicOrdering(t *testing.T) {
	mk := func() *Investigator {
		return newTestInvestigator(
			&stubFilings{filings: []models.Filing{
				santanderFiling(),
				{EntityName: "Ally Auto Receivables Trust", FormType: "424B5", FilingDate: time.Now().AddDate(-3, 0, 0)},
				{EntityName: "CarMax Auto Owner Trust", FormType: "10-D"},
			}},
			&stubIdentifiers{err: errSourceDown},
			&stubRegistrants{err: errSourceDown},
			&stubComplaints{err: errSourceDown},
			&stubEconomy{err: errSourceDown},
			&stubTrades{err: errSourceDown},
		)
	}
	a, err := mk().Investigate(context.Background(), autoProfile(), InvestigateOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := mk().Investigate(context.Background(), autoProfile(), InvestigateOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a.Trusts) != len(b.Trusts) {
		t.Fatalf("candidate counts differ")
	}
	for i := range a.Trusts {
		if a.Trusts[i].Name != b.Trusts[i].Name ||
			a.Trusts[i].Verification.ConfidenceScore != b.Trusts[i].Verification.ConfidenceScore {
			t.Fatalf("ordering not deterministic at %d: %q/%d vs %q/%d", i,
				a.Trusts[i].Name, a.Trusts[i].Verification.ConfidenceScore,
				b.Trusts[i].Name, b.Trusts[i].Verification.ConfidenceScore)
		}
	}
}

func TestInvestigateRegistrantCacheServesRepeatLookups(t *testing.T) {
	// The cached record must round-trip through a typed destination; a cache
	// that never hits would call the registrant source once per run.
	regs := &stubRegistrants{rec: &models.RegistrantRecord{RegistryID: "0001383094", Jurisdiction: "DE"}}
	inv := NewInvestigator(
		&stubFilings{filings: []models.Filing{santanderFiling()}},
		&stubIdentifiers{},
		regs,
		&stubComplaints{err: errSourceDown},
		&stubEconomy{err: errSourceDown},
		&stubTrades{err: errSourceDown},
		noJitterGenerator(), nil, nil,
		WithRegistrantCache(pkgcache.NewMemoryCache(), time.Minute),
	)

	for i := 0; i < 2; i++ {
		rep, err := inv.Investigate(context.Background(), autoProfile(), InvestigateOptions{})
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if len(rep.Trusts) == 0 {
			t.Fatalf("run %d: expected candidates", i)
		}
		if !rep.Trusts[0].Verification.HasSource("registrant") {
			t.Fatalf("run %d: expected registrant enrichment", i)
		}
	}
	if got := regs.calls.Load(); got != 1 {
		t.Fatalf("expected one registrant lookup across runs, got %d", got)
	}
}

func TestInvestigateQuickModeSkipsSteps(t *testing.T) {
	regs := &stubRegistrants{rec: &models.RegistrantRecord{RegistryID: "0001383094"}}
	econ := &stubEconomy{snap: &models.EconomicSnapshot{Condition: models.MarketNeutral}}
	inv := newTestInvestigator(
		&stubFilings{filings: []models.Filing{santanderFiling()}},
		&stubIdentifiers{err: errSourceDown},
		regs,
		&stubComplaints{err: errSourceDown},
		econ,
		&stubTrades{err: errSourceDown},
	)
	rep, err := inv.Investigate(context.Background(), autoProfile(), InvestigateOptions{Quick: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := regs.calls.Load(); n != 0 {
		t.Fatalf("quick mode must skip registrant lookups, got %d calls", n)
	}
	if n := econ.calls.Load(); n != 0 {
		t.Fatalf("quick mode must skip the economic snapshot, got %d calls", n)
	}
	if rep.Economic != nil {
		t.Fatalf("no economic snapshot expected in quick mode")
	}
	if !rep.Summary.QuickMode {
		t.Fatalf("summary must record quick mode")
	}
}

func TestInvestigateQuickModeNarrowsFanout(t *testing.T) {
	full := &stubFilings{filings: []models.Filing{santanderFiling()}}
	quick := &stubFilings{filings: []models.Filing{santanderFiling()}}
	profile := autoProfile()
	profile.OriginalCreditor = "Chrysler Capital"

	if _, err := newTestInvestigator(full, &stubIdentifiers{err: errSourceDown}, &stubRegistrants{err: errSourceDown}, &stubComplaints{err: errSourceDown}, &stubEconomy{err: errSourceDown}, &stubTrades{err: errSourceDown}).
		Investigate(context.Background(), profile, InvestigateOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := newTestInvestigator(quick, &stubIdentifiers{err: errSourceDown}, &stubRegistrants{err: errSourceDown}, &stubComplaints{err: errSourceDown}, &stubEconomy{err: errSourceDown}, &stubTrades{err: errSourceDown}).
		Investigate(context.Background(), profile, InvestigateOptions{Quick: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quick.calls.Load() >= full.calls.Load() {
		t.Fatalf("quick mode must run fewer filing queries: quick=%d full=%d", quick.calls.Load(), full.calls.Load())
	}
}

func TestInvestigateComplaintAndEconomicRecommendations(t *testing.T) {
	inv := newTestInvestigator(
		&stubFilings{filings: []models.Filing{santanderFiling()}},
		&stubIdentifiers{err: errSourceDown},
		&stubRegistrants{err: errSourceDown},
		&stubComplaints{risk: &models.ServicerRiskProfile{
			Servicer:        "Santander Consumer USA",
			TotalComplaints: 4200,
			RiskScore:       72,
		}},
		&stubEconomy{
			snap:  &models.EconomicSnapshot{Condition: models.MarketStressed},
			trend: []models.DelinquencyPoint{{Period: "2025-Q1", Rate: 4.1}, {Period: "2025-Q2", Rate: 4.6}},
		},
		&stubTrades{err: errSourceDown},
	)
	rep, err := inv.Investigate(context.Background(), autoProfile(), InvestigateOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantServicer, wantMarket := false, false
	for _, r := range rep.Recommendations {
		if r == RecServicerHighRisk {
			wantServicer = true
		}
		if r == RecStressedMarket {
			wantMarket = true
		}
	}
	if !wantServicer || !wantMarket {
		t.Fatalf("expected risk and market recommendations, got %v", rep.Recommendations)
	}
	if len(rep.ServicerAnalyses) != 1 {
		t.Fatalf("expected one servicer analysis")
	}
	c := rep.Trusts[0]
	if c.ServicerRisk == nil || !c.Verification.ComplaintChecked {
		t.Fatalf("servicer risk must attach to every candidate")
	}
	if c.Economic == nil {
		t.Fatalf("economic snapshot must attach to every candidate")
	}
	if len(rep.DelinquencyTrend) != 2 {
		t.Fatalf("expected delinquency trend on the report")
	}
}

func TestInvestigateCancelledContextReturnsPartial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	inv := newTestInvestigator(
		&stubFilings{filings: []models.Filing{santanderFiling()}},
		&stubIdentifiers{err: errSourceDown},
		&stubRegistrants{err: errSourceDown},
		&stubComplaints{err: errSourceDown},
		&stubEconomy{err: errSourceDown},
		&stubTrades{err: errSourceDown},
	)
	rep, err := inv.Investigate(ctx, autoProfile(), InvestigateOptions{})
	if err != nil {
		t.Fatalf("cancellation must yield a partial report, got error %v", err)
	}
	if rep == nil {
		t.Fatalf("expected a report")
	}
}
