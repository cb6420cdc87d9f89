package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"TrustTrace/internal/domain/models"
	"TrustTrace/pkg/config"
)

func srvConfig(url string) config.SourceConfig {
	return config.SourceConfig{BaseURL: url, Timeout: 2 * time.Second}
}

func TestFilingSearchParsesHits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != `"santander drive"` {
			t.Errorf("unexpected query: %s", got)
		}
		w.Write([]byte(`{"hits":{"hits":[
			{"_id":"0001383094-24-000123","_source":{
				"display_names":["Santander Drive Auto Receivables Trust 2024-1  (CIK 0001383094)"],
				"file_type":"424B5","file_date":"2024-03-15","ciks":["0001383094"]}},
			{"_id":"x","_source":{"display_names":[],"file_type":"8-K","file_date":"bad"}}
		]}}`))
	}))
	defer srv.Close()

	src := NewEDGARFilingSource(srvConfig(srv.URL), nil)
	filings, err := src.SearchFilings(context.Background(), "santander drive", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filings) != 1 {
		t.Fatalf("expected 1 filing (nameless hit dropped), got %d", len(filings))
	}
	f := filings[0]
	if f.EntityName != "Santander Drive Auto Receivables Trust 2024-1" {
		t.Fatalf("registry suffix not stripped: %q", f.EntityName)
	}
	if f.FormType != "424B5" || f.RegistryID != "0001383094" {
		t.Fatalf("fields not mapped: %+v", f)
	}
	if f.FilingDate.Format("2006-01-02") != "2024-03-15" {
		t.Fatalf("filing date not parsed: %v", f.FilingDate)
	}
}

func TestRegistrantLookupNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	src := NewEDGARRegistrantSource(srvConfig(srv.URL), nil)
	_, err := src.LookupRegistrant(context.Background(), "0009999999")
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRegistrantLookupMapsRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/submissions/CIK0001383094.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"cik":"1383094","name":"Santander Consumer USA Inc","ein":"200123456",
			"stateOfIncorporation":"DE",
			"addresses":{"business":{"street1":"1601 Elm St","city":"Dallas","stateOrCountry":"TX","zipCode":"75201"}}}`))
	}))
	defer srv.Close()

	src := NewEDGARRegistrantSource(srvConfig(srv.URL), nil)
	rec, err := src.LookupRegistrant(context.Background(), "0001383094")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Jurisdiction != "DE" || rec.TaxID != "200123456" {
		t.Fatalf("record not mapped: %+v", rec)
	}
	if rec.Address != "1601 Elm St, Dallas, TX, 75201" {
		t.Fatalf("address not joined: %q", rec.Address)
	}
}

func TestComplaintRiskScore(t *testing.T) {
	cases := []struct {
		total, recent, want int
	}{
		{0, 0, 0},
		{50, 0, 10},
		{500, 250, 45},   // 20 + 25
		{2000, 1000, 60}, // 35 + 25
		{20000, 20000, 100},
	}
	for _, c := range cases {
		if got := riskScore(c.total, c.recent); got != c.want {
			t.Fatalf("riskScore(%d,%d) = %d, want %d", c.total, c.recent, got, c.want)
		}
	}
}

func TestEconomicTrendAscending(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// API returns newest first, "." marks a missing value
		w.Write([]byte(`{"observations":[
			{"date":"2025-04-01","value":"4.2"},
			{"date":"2025-01-01","value":"."},
			{"date":"2024-10-01","value":"3.9"}
		]}`))
	}))
	defer srv.Close()

	src := NewFREDEconomicSource(srvConfig(srv.URL), nil)
	trend, err := src.DelinquencyTrend(context.Background(), models.DebtAuto, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trend) != 2 {
		t.Fatalf("missing values must be dropped, got %d points", len(trend))
	}
	if trend[0].Period != "2024-10-01" || trend[1].Period != "2025-04-01" {
		t.Fatalf("trend not ascending: %+v", trend)
	}
}

func TestTradeSearchMapsReports(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("cusip"); got != "80285WAB1" {
			t.Errorf("unexpected cusip: %s", got)
		}
		w.Write([]byte(`{"trades":[
			{"tradeDate":"2025-03-10","tradeTime":"14:05:00","price":"99.75","yield":"5.2","volume":250000,"side":"B","dealer":"D1","reportType":"T"}
		]}`))
	}))
	defer srv.Close()

	src := NewHTTPTradeSource(srvConfig(srv.URL), nil)
	trades, err := src.SearchTrades(context.Background(), "80285WAB1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	tr := trades[0]
	if tr.Price != "99.75" || tr.Volume != 250000 || tr.Identifier != "80285WAB1" {
		t.Fatalf("trade not mapped: %+v", tr)
	}
}

type fakeTradeSource struct {
	trades []models.Trade
	err    error
}

func (f *fakeTradeSource) SearchTrades(context.Context, string, *models.DateRange) ([]models.Trade, error) {
	return f.trades, f.err
}

type fakeArchive struct {
	trades []models.Trade
	asked  bool
}

func (f *fakeArchive) Init(context.Context) error                             { return nil }
func (f *fakeArchive) Store(context.Context, *models.TradePrint) error        { return nil }
func (f *fakeArchive) StoreBatch(context.Context, []*models.TradePrint) error { return nil }
func (f *fakeArchive) Health(context.Context) error                           { return nil }
func (f *fakeArchive) Close() error                                           { return nil }
func (f *fakeArchive) Query(_ context.Context, _ string, _, _ time.Time, _ int) ([]models.Trade, error) {
	f.asked = true
	return f.trades, nil
}

func TestArchiveFallback(t *testing.T) {
	archived := []models.Trade{{Date: "2025-02-01", Price: "100.10", Volume: 5000}}

	// primary error falls through to the archive
	arch := &fakeArchive{trades: archived}
	src := NewArchiveTradeSource(&fakeTradeSource{err: errors.New("down")}, arch)
	trades, err := src.SearchTrades(context.Background(), "80285WAB1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !arch.asked || len(trades) != 1 {
		t.Fatalf("archive not consulted on primary failure")
	}

	// a healthy primary short-circuits
	arch2 := &fakeArchive{trades: archived}
	primary := []models.Trade{{Date: "2025-03-01", Price: "99.00", Volume: 1000}}
	src2 := NewArchiveTradeSource(&fakeTradeSource{trades: primary}, arch2)
	trades, err = src2.SearchTrades(context.Background(), "80285WAB1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if arch2.asked {
		t.Fatalf("archive must not be consulted when the provider answers")
	}
	if trades[0].Date != "2025-03-01" {
		t.Fatalf("provider result not preferred")
	}
}
