package trading

import (
	"sort"
	"strconv"
	"time"

	"TrustTrace/internal/domain/models"
)

const dateLayout = "2006-01-02"

// Summarize aggregates raw trade records into a TradingSummary. It is pure
// and deterministic for a fixed input. An empty input yields the zero-valued
// summary (zero counts, empty breakdown and series, zero-time dates) rather
// than an error.
//
// Unparsable price/yield fields parse to 0 and still enter the means, so a
// 0 average must not be read as an observed zero.
func Summarize(trades []models.Trade) models.TradingSummary {
	var s models.TradingSummary
	if len(trades) == 0 {
		return s
	}
	s.TotalTrades = len(trades)

	var priceSum, yieldSum float64
	dealerVolumes := make(map[string]float64)
	type dayBucket struct {
		sum   float64
		count int
	}
	days := make(map[time.Time]*dayBucket)

	for i, t := range trades {
		price := parseFloat(t.Price)
		yield := parseFloat(t.Yield)
		priceSum += price
		yieldSum += yield
		s.TotalVolume += t.Volume

		if i == 0 || price < s.PriceRange.Min {
			s.PriceRange.Min = price
		}
		if i == 0 || price > s.PriceRange.Max {
			s.PriceRange.Max = price
		}

		dealer := t.Dealer
		if dealer == "" {
			dealer = "unknown"
		}
		dealerVolumes[dealer] += t.Volume

		if day, err := time.Parse(dateLayout, t.Date); err == nil {
			b := days[day]
			if b == nil {
				b = &dayBucket{}
				days[day] = b
			}
			b.sum += price
			b.count++
			if s.FirstTradeDate.IsZero() || day.Before(s.FirstTradeDate) {
				s.FirstTradeDate = day
			}
			if s.LastTradeDate.IsZero() || day.After(s.LastTradeDate) {
				s.LastTradeDate = day
			}
		}
	}

	s.AveragePrice = priceSum / float64(len(trades))
	s.AverageYield = yieldSum / float64(len(trades))

	s.VolumeByDealer = make([]models.DealerVolume, 0, len(dealerVolumes))
	for dealer, vol := range dealerVolumes {
		dv := models.DealerVolume{Dealer: dealer, Volume: vol}
		if s.TotalVolume > 0 {
			dv.Percentage = vol / s.TotalVolume * 100
		}
		s.VolumeByDealer = append(s.VolumeByDealer, dv)
	}
	sort.SliceStable(s.VolumeByDealer, func(i, j int) bool {
		if s.VolumeByDealer[i].Volume != s.VolumeByDealer[j].Volume {
			return s.VolumeByDealer[i].Volume > s.VolumeByDealer[j].Volume
		}
		return s.VolumeByDealer[i].Dealer < s.VolumeByDealer[j].Dealer
	})

	s.PriceHistory = make([]models.PricePoint, 0, len(days))
	for day, b := range days {
		s.PriceHistory = append(s.PriceHistory, models.PricePoint{
			Date:         day,
			AveragePrice: b.sum / float64(b.count),
			Trades:       b.count,
		})
	}
	sort.Slice(s.PriceHistory, func(i, j int) bool {
		return s.PriceHistory[i].Date.Before(s.PriceHistory[j].Date)
	})

	return s
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
