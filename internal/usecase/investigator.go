package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"TrustTrace/internal/domain/models"
	domrepo "TrustTrace/internal/domain/repository"
	domsvc "TrustTrace/internal/domain/service"
	"TrustTrace/internal/services/catalog"
	"TrustTrace/internal/services/query"
	pkgcache "TrustTrace/pkg/cache"
	applogger "TrustTrace/pkg/logger"
)

// Recommendations the investigator can append to a report.
const (
	RecNotSecuritized   = "No securitization match found. The debt may not be securitized, or is held in a private portfolio."
	RecServicerHighRisk = "The servicer shows elevated consumer-complaint risk; request a full payment history and chain-of-title documentation."
	RecStressedMarket   = "Current market conditions for this asset class are stressed; trust reporting may show elevated delinquencies."
	RecOfflineCatalog   = "Candidates were matched from the offline reference catalog; verify against primary filing sources."
)

const (
	defaultCallTimeout     = 8 * time.Second
	defaultMaxQueries      = 8
	defaultQuickMaxQueries = 3
	tradeLookupCap         = 5
	reportTrustCap         = 10
	delinquencyPeriods     = 12
	registrantCacheTTL     = 5 * time.Minute
)

// InvestigatorOption configures an Investigator.
type InvestigatorOption func(*Investigator)

// WithCallTimeout sets the per-adapter-call timeout.
func WithCallTimeout(d time.Duration) InvestigatorOption {
	return func(inv *Investigator) {
		if d > 0 {
			inv.callTimeout = d
		}
	}
}

// WithQueryFanout sets the query caps for full and quick runs.
func WithQueryFanout(full, quick int) InvestigatorOption {
	return func(inv *Investigator) {
		if full > 0 {
			inv.maxQueries = full
		}
		if quick > 0 {
			inv.quickMaxQueries = quick
		}
	}
}

// WithRegistrantCache injects the read-through cache for registrant metadata.
// A non-positive ttl keeps the default.
func WithRegistrantCache(c pkgcache.Service, ttl time.Duration) InvestigatorOption {
	return func(inv *Investigator) {
		inv.regCache = c
		if ttl > 0 {
			inv.regTTL = ttl
		}
	}
}

// Investigator is the multi-source fusion engine: it fans out over the bound
// source adapters, merges partial results into one candidate table, and falls
// back to the offline catalog when nothing external responds. Every adapter
// failure is logged and skipped; only an invalid profile surfaces as an error.
type Investigator struct {
	filings     domsvc.FilingSource
	identifiers domsvc.IdentifierSource
	registrants domsvc.RegistrantSource
	complaints  domsvc.ComplaintSource
	economy     domsvc.EconomicSource
	trades      domsvc.TradeSource
	generator   *catalog.Generator
	regCache    pkgcache.Service
	logger      *applogger.Logger
	metrics     domrepo.Metrics

	callTimeout     time.Duration
	maxQueries      int
	quickMaxQueries int
	regTTL          time.Duration
}

// NewInvestigator wires the investigator. Any source may be nil; a nil source
// is treated as permanently unavailable and simply contributes nothing.
func NewInvestigator(
	filings domsvc.FilingSource,
	identifiers domsvc.IdentifierSource,
	registrants domsvc.RegistrantSource,
	complaints domsvc.ComplaintSource,
	economy domsvc.EconomicSource,
	trades domsvc.TradeSource,
	generator *catalog.Generator,
	logger *applogger.Logger,
	metrics domrepo.Metrics,
	opts ...InvestigatorOption,
) *Investigator {
	inv := &Investigator{
		filings:         filings,
		identifiers:     identifiers,
		registrants:     registrants,
		complaints:      complaints,
		economy:         economy,
		trades:          trades,
		generator:       generator,
		logger:          logger,
		metrics:         metrics,
		callTimeout:     defaultCallTimeout,
		maxQueries:      defaultMaxQueries,
		quickMaxQueries: defaultQuickMaxQueries,
		regTTL:          registrantCacheTTL,
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// InvestigateOptions tune one run.
type InvestigateOptions struct {
	Quick bool // narrows query fan-out, skips registrant and economic steps
}

// Investigate runs the full multi-source flow for one profile. The returned
// report is always non-nil unless the profile itself is invalid; a run where
// every source failed is an empty report with an explanatory recommendation.
// Cancelling ctx abandons in-flight calls and returns the partial report.
func (inv *Investigator) Investigate(ctx context.Context, profile models.DebtProfile, opts InvestigateOptions) (*models.InvestigationReport, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	report := &models.InvestigationReport{Profile: profile}
	report.Summary.QuickMode = opts.Quick

	// Step 1: derive search strings.
	queries := query.BuildQueries(profile)
	limit := inv.maxQueries
	if opts.Quick {
		limit = inv.quickMaxQueries
	}
	if len(queries) > limit {
		queries = queries[:limit]
	}
	report.Summary.QueriesRun = len(queries)

	table := newCandidateTable()
	sourcesQueried := make(map[string]bool)

	// Step 2: filing registry fan-out.
	inv.runFilingStep(ctx, queries, table, sourcesQueried)

	// Step 3: registrant enrichment for filings with a registry id.
	if !opts.Quick && !canceled(ctx) {
		inv.runRegistrantStep(ctx, table, sourcesQueried)
	}

	// Step 4: identifier registry fan-out over the same base strings.
	if !canceled(ctx) {
		inv.runIdentifierStep(ctx, queries, table, sourcesQueried)
	}

	// Step 5: servicer complaint risk, once per distinct servicer.
	if !canceled(ctx) {
		inv.runComplaintStep(ctx, profile, table, report, sourcesQueried)
	}

	// Step 6: macro snapshot and delinquency trend, attached to everything.
	if !opts.Quick && !canceled(ctx) {
		inv.runEconomicStep(ctx, profile, table, report, sourcesQueried)
	}

	// Offline fallback: nothing external produced a candidate.
	if table.len() == 0 && inv.generator != nil {
		cands, err := inv.generator.FindCandidates(profile.DebtType, profile, reportTrustCap)
		if err != nil {
			return nil, err
		}
		if len(cands) > 0 {
			report.Summary.UsedFallback = true
			report.AddRecommendation(RecOfflineCatalog)
			for i := range cands {
				c := cands[i]
				key := c.NameKey()
				if _, ok := table.byKey[key]; ok {
					continue
				}
				table.byKey[key] = &c
				table.order = append(table.order, key)
			}
		}
		sourcesQueried[catalog.SourceTag] = true
	}

	// Step 7: trade activity check for the strongest candidates.
	if !canceled(ctx) {
		inv.runTradeStep(ctx, table, sourcesQueried)
	}

	// Step 8: final ranking and summary.
	top := table.topByConfidence(reportTrustCap)
	report.Trusts = make([]models.CandidateTrust, 0, len(top))
	for _, c := range top {
		report.Trusts = append(report.Trusts, *c)
	}
	if len(report.Trusts) == 0 {
		report.AddRecommendation(RecNotSecuritized)
	}

	report.Summary.CandidatesFound = len(report.Trusts)
	report.Summary.SourcesQueried = sortedKeys(sourcesQueried)
	report.Summary.Elapsed = time.Since(start)
	report.Summary.GeneratedAt = time.Now()

	if inv.metrics != nil {
		inv.metrics.RecordInvestigation(string(profile.DebtType), len(report.Trusts))
		inv.metrics.RecordLatency("investigate", report.Summary.Elapsed.Seconds())
	}
	return report, nil
}

// runFilingStep queries the filing registry for every search string
// concurrently and merges hits through a single consumer.
func (inv *Investigator) runFilingStep(ctx context.Context, queries []string, table *candidateTable, sources map[string]bool) {
	if inv.filings == nil || len(queries) == 0 {
		return
	}
	sources[sourceFiling] = true

	type result struct {
		query   string
		filings []models.Filing
		err     error
	}
	ch := make(chan result, len(queries))
	var wg sync.WaitGroup
	for _, q := range queries {
		wg.Add(1)
		go func(q string) {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, inv.callTimeout)
			defer cancel()
			fs, err := inv.filings.SearchFilings(callCtx, q, nil)
			ch <- result{query: q, filings: fs, err: err}
		}(q)
	}
	go func() { wg.Wait(); close(ch) }()

	now := time.Now()
	for r := range ch {
		if r.err != nil {
			inv.skipSource(sourceFiling, r.query, r.err)
			continue
		}
		for _, f := range r.filings {
			if f.EntityName == "" {
				continue
			}
			table.mergeFiling(f, now)
		}
	}
}

// runRegistrantStep resolves registry ids found on filings, through the
// short-TTL read-through cache. Success adds confidence; failure is skipped.
func (inv *Investigator) runRegistrantStep(ctx context.Context, table *candidateTable, sources map[string]bool) {
	if inv.registrants == nil || len(table.registryIDs) == 0 {
		return
	}
	sources[sourceRegistrant] = true

	type result struct {
		key string
		rec *models.RegistrantRecord
		err error
	}
	ch := make(chan result, len(table.registryIDs))
	var wg sync.WaitGroup
	for key, regID := range table.registryIDs {
		wg.Add(1)
		go func(key, regID string) {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, inv.callTimeout)
			defer cancel()
			rec, err := inv.lookupRegistrant(callCtx, regID)
			ch <- result{key: key, rec: rec, err: err}
		}(key, regID)
	}
	go func() { wg.Wait(); close(ch) }()

	now := time.Now()
	for r := range ch {
		if r.err != nil {
			if !errors.Is(r.err, models.ErrNotFound) {
				inv.skipSource(sourceRegistrant, r.key, r.err)
			}
			continue
		}
		cand := table.get(r.key)
		if cand == nil || cand.Verification.HasSource(sourceRegistrant) {
			continue
		}
		cand.Verification.AddConfidence(confRegistrant)
		cand.Verification.AddSource(sourceRegistrant)
		cand.Verification.LastVerified = now
		if r.rec.Jurisdiction != "" {
			cand.MatchReasons = append(cand.MatchReasons, "registrant confirmed in "+r.rec.Jurisdiction)
		} else {
			cand.MatchReasons = append(cand.MatchReasons, "registrant record confirmed")
		}
	}
}

// lookupRegistrant is the read-through path: cache first, source on miss,
// entries immutable once written.
func (inv *Investigator) lookupRegistrant(ctx context.Context, regID string) (*models.RegistrantRecord, error) {
	cacheKey := pkgcache.GenerateKey("registrant", regID)
	if inv.regCache != nil {
		var cached models.RegistrantRecord
		if err := inv.regCache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}
	rec, err := inv.registrants.LookupRegistrant(ctx, regID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, models.ErrNotFound
	}
	if inv.regCache != nil {
		_ = inv.regCache.Set(ctx, cacheKey, *rec, inv.regTTL)
	}
	return rec, nil
}

// runIdentifierStep fans out identifier searches over the base strings and
// merges each record into the table.
func (inv *Investigator) runIdentifierStep(ctx context.Context, queries []string, table *candidateTable, sources map[string]bool) {
	if inv.identifiers == nil || len(queries) == 0 {
		return
	}
	sources[sourceIdentifier] = true

	type result struct {
		query string
		recs  []models.IdentifierRecord
		err   error
	}
	ch := make(chan result, len(queries))
	var wg sync.WaitGroup
	for _, q := range queries {
		wg.Add(1)
		go func(q string) {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, inv.callTimeout)
			defer cancel()
			recs, err := inv.identifiers.SearchIdentifiers(callCtx, q)
			ch <- result{query: q, recs: recs, err: err}
		}(q)
	}
	go func() { wg.Wait(); close(ch) }()

	now := time.Now()
	for r := range ch {
		if r.err != nil {
			inv.skipSource(sourceIdentifier, r.query, r.err)
			continue
		}
		for _, rec := range r.recs {
			if rec.Identifier == "" {
				continue
			}
			table.mergeIdentifier(rec, now)
		}
	}
}

// runComplaintStep fetches the servicer risk profile once and attaches the
// identical record to every candidate.
func (inv *Investigator) runComplaintStep(ctx context.Context, profile models.DebtProfile, table *candidateTable, report *models.InvestigationReport, sources map[string]bool) {
	if inv.complaints == nil || profile.ServicerName == "" {
		return
	}
	sources[sourceComplaints] = true

	callCtx, cancel := context.WithTimeout(ctx, inv.callTimeout)
	defer cancel()
	risk, err := inv.complaints.SearchComplaints(callCtx, profile.ServicerName)
	if err != nil {
		inv.skipSource(sourceComplaints, profile.ServicerName, err)
		return
	}
	if risk == nil {
		return
	}
	report.ServicerAnalyses = append(report.ServicerAnalyses, *risk)
	if risk.RiskScore > riskScoreThreshold {
		report.AddRecommendation(RecServicerHighRisk)
	}
	for _, cand := range table.all() {
		cand.ServicerRisk = risk
		cand.Verification.ComplaintChecked = true
		cand.Verification.AddSource(sourceComplaints)
	}
}

// runEconomicStep fetches the macro snapshot plus the trailing delinquency
// trend and attaches them to the report and every candidate.
func (inv *Investigator) runEconomicStep(ctx context.Context, profile models.DebtProfile, table *candidateTable, report *models.InvestigationReport, sources map[string]bool) {
	if inv.economy == nil {
		return
	}
	sources[sourceEconomic] = true

	callCtx, cancel := context.WithTimeout(ctx, inv.callTimeout)
	defer cancel()
	snap, err := inv.economy.Snapshot(callCtx)
	if err != nil {
		inv.skipSource(sourceEconomic, "snapshot", err)
		return
	}
	report.Economic = snap
	if snap.Condition == models.MarketStressed {
		report.AddRecommendation(RecStressedMarket)
	}
	for _, cand := range table.all() {
		cand.Economic = snap
		cand.Verification.AddSource(sourceEconomic)
	}

	trendCtx, cancelTrend := context.WithTimeout(ctx, inv.callTimeout)
	defer cancelTrend()
	trend, err := inv.economy.DelinquencyTrend(trendCtx, profile.DebtType, delinquencyPeriods)
	if err != nil {
		inv.skipSource(sourceEconomic, "delinquency_trend", err)
		return
	}
	report.DelinquencyTrend = trend
}

// runTradeStep checks trade activity for the primary identifier of the top
// candidates, bounded to tradeLookupCap concurrent lookups.
func (inv *Investigator) runTradeStep(ctx context.Context, table *candidateTable, sources map[string]bool) {
	if inv.trades == nil || table.len() == 0 {
		return
	}
	top := table.topByConfidence(tradeLookupCap)

	type result struct {
		key    string
		trades []models.Trade
		err    error
	}
	ch := make(chan result, len(top))
	var wg sync.WaitGroup
	dispatched := 0
	for _, cand := range top {
		id := cand.PrimaryIdentifier()
		if id == "" {
			continue
		}
		dispatched++
		wg.Add(1)
		go func(key, id string) {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, inv.callTimeout)
			defer cancel()
			ts, err := inv.trades.SearchTrades(callCtx, id, nil)
			ch <- result{key: key, trades: ts, err: err}
		}(cand.NameKey(), id)
	}
	if dispatched == 0 {
		return
	}
	sources[sourceTrades] = true
	go func() { wg.Wait(); close(ch) }()

	now := time.Now()
	for r := range ch {
		if r.err != nil {
			inv.skipSource(sourceTrades, r.key, r.err)
			continue
		}
		if len(r.trades) == 0 {
			continue
		}
		cand := table.get(r.key)
		if cand == nil {
			continue
		}
		if !cand.Verification.TradeVerified {
			cand.Verification.TradeVerified = true
			cand.Verification.AddConfidence(confTradeActivity)
			cand.Verification.AddSource(sourceTrades)
			cand.MatchReasons = append(cand.MatchReasons, fmt.Sprintf("secondary-market trade activity (%d prints)", len(r.trades)))
		}
		cand.Verification.LastVerified = now
	}
}

// skipSource logs one failed adapter call. Failures contribute nothing and
// never abort the run.
func (inv *Investigator) skipSource(source, subject string, err error) {
	if inv.metrics != nil {
		inv.metrics.RecordSourceError(source)
	}
	if inv.logger != nil {
		inv.logger.Warn("source unavailable, skipping",
			applogger.String("source", source),
			applogger.String("subject", subject),
			applogger.Error(err),
		)
	}
}

func sortCandidates(cands []*models.CandidateTrust) {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Verification.ConfidenceScore != cands[j].Verification.ConfidenceScore {
			return cands[i].Verification.ConfidenceScore > cands[j].Verification.ConfidenceScore
		}
		return cands[i].Name < cands[j].Name
	})
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func canceled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
