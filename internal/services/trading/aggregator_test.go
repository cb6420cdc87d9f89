package trading

import (
	"math"
	"reflect"
	"testing"

	"TrustTrace/internal/domain/models"
)

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalTrades != 0 || s.TotalVolume != 0 {
		t.Fatalf("expected zero counts, got %+v", s)
	}
	if len(s.VolumeByDealer) != 0 || len(s.PriceHistory) != 0 {
		t.Fatalf("expected empty breakdown/series")
	}
	if !s.FirstTradeDate.IsZero() || !s.LastTradeDate.IsZero() {
		t.Fatalf("expected sentinel zero dates")
	}
}

func TestSummarizeTwoDealers(t *testing.T) {
	trades := []models.Trade{
		{Date: "2025-03-10", Price: "100.00", Yield: "5.0", Volume: 200000, Dealer: "A"},
		{Date: "2025-03-11", Price: "102.00", Yield: "5.1", Volume: 300000, Dealer: "B"},
	}
	s := Summarize(trades)
	if s.TotalTrades != 2 {
		t.Fatalf("expected 2 trades, got %d", s.TotalTrades)
	}
	if s.TotalVolume != 500000 {
		t.Fatalf("expected volume 500000, got %v", s.TotalVolume)
	}
	if math.Abs(s.AveragePrice-101.00) > 1e-9 {
		t.Fatalf("expected avg price 101.00, got %v", s.AveragePrice)
	}
	if math.Abs(s.AverageYield-5.05) > 1e-9 {
		t.Fatalf("expected avg yield 5.05, got %v", s.AverageYield)
	}
	want := []models.DealerVolume{
		{Dealer: "B", Volume: 300000, Percentage: 60},
		{Dealer: "A", Volume: 200000, Percentage: 40},
	}
	if !reflect.DeepEqual(s.VolumeByDealer, want) {
		t.Fatalf("dealer breakdown mismatch: %+v", s.VolumeByDealer)
	}
}

func TestSummarizePriceWithinRange(t *testing.T) {
	trades := []models.Trade{
		{Date: "2025-01-02", Price: "99.50", Volume: 10000, Dealer: "X"},
		{Date: "2025-01-02", Price: "101.25", Volume: 25000, Dealer: "Y"},
		{Date: "2025-01-03", Price: "100.10", Volume: 5000, Dealer: "X"},
	}
	s := Summarize(trades)
	if s.TotalTrades != len(trades) {
		t.Fatalf("count mismatch")
	}
	for _, tr := range trades {
		p := parseFloat(tr.Price)
		if p < s.PriceRange.Min || p > s.PriceRange.Max {
			t.Fatalf("price %v outside [%v,%v]", p, s.PriceRange.Min, s.PriceRange.Max)
		}
	}
	if s.AveragePrice < s.PriceRange.Min || s.AveragePrice > s.PriceRange.Max {
		t.Fatalf("mean outside range")
	}
}

func TestSummarizeUnparsableFieldsParseToZero(t *testing.T) {
	trades := []models.Trade{
		{Date: "2025-02-01", Price: "100.00", Yield: "n/a", Volume: 1000, Dealer: "A"},
		{Date: "2025-02-01", Price: "", Yield: "4.0", Volume: 1000, Dealer: "A"},
	}
	s := Summarize(trades)
	if math.Abs(s.AveragePrice-50.0) > 1e-9 {
		t.Fatalf("expected avg price 50 with blank parsed as 0, got %v", s.AveragePrice)
	}
	if math.Abs(s.AverageYield-2.0) > 1e-9 {
		t.Fatalf("expected avg yield 2, got %v", s.AverageYield)
	}
	if s.PriceRange.Min != 0 {
		t.Fatalf("expected min 0 from unparsable price, got %v", s.PriceRange.Min)
	}
}

func TestSummarizePriceHistoryDailyAverages(t *testing.T) {
	trades := []models.Trade{
		{Date: "2025-04-02", Price: "101.00", Volume: 100, Dealer: "A"},
		{Date: "2025-04-01", Price: "100.00", Volume: 100, Dealer: "A"},
		{Date: "2025-04-01", Price: "102.00", Volume: 100, Dealer: "B"},
	}
	s := Summarize(trades)
	if len(s.PriceHistory) != 2 {
		t.Fatalf("expected 2 daily buckets, got %d", len(s.PriceHistory))
	}
	if !s.PriceHistory[0].Date.Before(s.PriceHistory[1].Date) {
		t.Fatalf("history not ascending")
	}
	if math.Abs(s.PriceHistory[0].AveragePrice-101.0) > 1e-9 || s.PriceHistory[0].Trades != 2 {
		t.Fatalf("same-day average wrong: %+v", s.PriceHistory[0])
	}
	if s.FirstTradeDate != s.PriceHistory[0].Date || s.LastTradeDate != s.PriceHistory[1].Date {
		t.Fatalf("date-range bounds wrong")
	}
}

func TestSummarizeDeterministic(t *testing.T) {
	trades := []models.Trade{
		{Date: "2025-04-01", Price: "100.00", Volume: 100, Dealer: "A"},
		{Date: "2025-04-01", Price: "100.00", Volume: 100, Dealer: "B"},
	}
	a := Summarize(trades)
	b := Summarize(trades)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("summaries differ across calls")
	}
}
