package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"TrustTrace/internal/domain/models"
	"TrustTrace/internal/services/catalog"
	"TrustTrace/internal/usecase"
	xhttp "TrustTrace/pkg/http"
	applogger "TrustTrace/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubTrades struct {
	trades []models.Trade
	err    error
}

func (s *stubTrades) SearchTrades(_ context.Context, _ string, _ *models.DateRange) ([]models.Trade, error) {
	return s.trades, s.err
}

func newTestHandler(t *testing.T, trades *stubTrades) *InvestigateEchoHandler {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	// all sources nil: investigations resolve through the offline catalog
	inv := usecase.NewInvestigator(nil, nil, nil, nil, nil, nil,
		catalog.New(catalog.WithRand(nil)), l, nil)
	return NewInvestigateEchoHandler(l, inv, trades)
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string) (*httptest.ResponseRecorder, xhttp.APIResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var env xhttp.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return rec, env
}

func TestInvestigateEndpointOfflineFallback(t *testing.T) {
	h := newTestHandler(t, &stubTrades{})

	_, env := doJSON(t, h.Investigate, http.MethodPost, "/api/investigate",
		`{"debt_type":"auto","servicer_name":"Santander Consumer USA"}`)
	if env.Status != http.StatusOK {
		t.Fatalf("expected status 200, got %d", env.Status)
	}

	var report models.InvestigationReport
	b, _ := json.Marshal(env.Data)
	if err := json.Unmarshal(b, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if !report.Summary.UsedFallback {
		t.Fatalf("expected offline fallback with no sources bound")
	}
	if len(report.Trusts) == 0 {
		t.Fatalf("expected catalog candidates for a known servicer")
	}
}

func TestInvestigateEndpointRejectsUnknownDebtType(t *testing.T) {
	h := newTestHandler(t, &stubTrades{})

	_, env := doJSON(t, h.Investigate, http.MethodPost, "/api/investigate",
		`{"debt_type":"timeshare"}`)
	if env.Status != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", env.Status)
	}
}

func TestTradingSummaryEndpoint(t *testing.T) {
	h := newTestHandler(t, &stubTrades{trades: []models.Trade{
		{Date: "2025-05-01", Price: "99.5", Yield: "6.1", Volume: 100000, Dealer: "D1"},
		{Date: "2025-05-02", Price: "100.5", Yield: "6.3", Volume: 50000, Dealer: "D2"},
	}})

	_, env := doJSON(t, h.TradingSummary, http.MethodGet, "/api/trading/summary?identifier=80285WAB1", "")
	if env.Status != http.StatusOK {
		t.Fatalf("expected status 200, got %d", env.Status)
	}

	var summary models.TradingSummary
	b, _ := json.Marshal(env.Data)
	if err := json.Unmarshal(b, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.TotalTrades != 2 {
		t.Fatalf("expected 2 trades, got %d", summary.TotalTrades)
	}
	if summary.TotalVolume != 150000 {
		t.Fatalf("expected volume 150000, got %f", summary.TotalVolume)
	}
}

func TestTradingSummaryRequiresIdentifier(t *testing.T) {
	h := newTestHandler(t, &stubTrades{})

	_, env := doJSON(t, h.TradingSummary, http.MethodGet, "/api/trading/summary", "")
	if env.Status != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", env.Status)
	}
}

func TestHealthEndpointWithoutArchive(t *testing.T) {
	h := newTestHandler(t, &stubTrades{})

	_, env := doJSON(t, h.Health, http.MethodGet, "/api/health", "")
	if env.Status != http.StatusOK {
		t.Fatalf("expected status 200, got %d", env.Status)
	}
}
