package analysis

import (
	"math"

	"github.com/sellscout/sellscout-backend-go/internal/models"
)

// NoDataPlaceholder is the top-product value reported for an empty
// product set.
const NoDataPlaceholder = "No data"

// ROI histogram bucket labels, in ascending order.
var ROIBuckets = []string{"0-50%", "50-100%", "100-150%", "150-200%", "200%+"}

// CategoryStats aggregates products within one category.
type CategoryStats struct {
	Count        int     `json:"count"`
	AvgROI       float64 `json:"avg_roi"`
	AvgProfit    float64 `json:"avg_profit"`
	TotalRevenue float64 `json:"total_revenue"`
}

// TrendAnalysis holds trend counters.
type TrendAnalysis struct {
	HighROIProducts        int `json:"high_roi_products"`
	HighSalesProducts      int `json:"high_sales_products"`
	LowCompetitionProducts int `json:"low_competition_products"`
}

// ProfitAnalysis holds profit aggregates.
type ProfitAnalysis struct {
	TotalProfitPotential float64 `json:"total_profit_potential"`
	AvgProfitMargin      float64 `json:"avg_profit_margin"`
	HighProfitProducts   int     `json:"high_profit_products"`
}

// SalesAnalysis holds sales aggregates and the velocity label.
type SalesAnalysis struct {
	TotalMonthlySales int     `json:"total_monthly_sales"`
	AvgMonthlySales   float64 `json:"avg_monthly_sales"`
	SalesVelocity     string  `json:"sales_velocity"`
}

// DetailedStats is the full statistics payload of one report.
type DetailedStats struct {
	TotalProducts     int                      `json:"total_products"`
	AvgROI            float64                  `json:"avg_roi"`
	AvgProfit         float64                  `json:"avg_profit"`
	TotalRevenue      float64                  `json:"total_revenue"`
	HighValueCount    int                      `json:"high_value_count"`
	TopProduct        string                   `json:"top_product"`
	UnscorableCount   int                      `json:"unscorable_count"`
	CategoryBreakdown map[string]CategoryStats `json:"category_breakdown"`
	ROIDistribution   map[string]int           `json:"roi_distribution"`
	TrendAnalysis     TrendAnalysis            `json:"trend_analysis"`
	ProfitAnalysis    ProfitAnalysis           `json:"profit_analysis"`
	SalesAnalysis     SalesAnalysis            `json:"sales_analysis"`
}

// EmptyStats is the well-defined payload for an empty product set: every
// metric present with an explicit zero or placeholder value.
func EmptyStats() DetailedStats {
	return DetailedStats{
		TopProduct:        NoDataPlaceholder,
		CategoryBreakdown: map[string]CategoryStats{},
		ROIDistribution:   map[string]int{},
	}
}

// ComputeStats aggregates a user's product snapshots into the report
// statistics payload.
func ComputeStats(products []Snapshot, scorer *Scorer) DetailedStats {
	if len(products) == 0 {
		return EmptyStats()
	}

	stats := DetailedStats{
		TotalProducts:     len(products),
		CategoryBreakdown: map[string]CategoryStats{},
		ROIDistribution:   map[string]int{},
	}
	for _, label := range ROIBuckets {
		stats.ROIDistribution[label] = 0
	}

	var (
		sumROI, sumProfit, sumRevenue float64
		sumMargin                     float64
		marginCount                   int
		sumSales                      int
		bestROI                       = math.Inf(-1)
	)

	for _, p := range products {
		// Products that cannot be scored are counted but kept out of the
		// aggregates so one bad row cannot poison a whole report.
		score, ok := scorer.Score(p)
		if !ok {
			stats.UnscorableCount++
			continue
		}
		if score >= HighValueThreshold {
			stats.HighValueCount++
		}

		roi := p.ROI()
		profit := p.Profit()

		sumROI += roi
		sumProfit += profit
		sumRevenue += p.Revenue()
		sumSales += p.MonthlySales

		if roi > bestROI {
			bestROI = roi
			stats.TopProduct = p.Name
		}

		cat := stats.CategoryBreakdown[p.Category]
		cat.Count++
		cat.AvgROI += roi
		cat.AvgProfit += profit
		cat.TotalRevenue += p.Revenue()
		stats.CategoryBreakdown[p.Category] = cat

		stats.ROIDistribution[roiBucket(roi)]++

		if roi > 100 {
			stats.TrendAnalysis.HighROIProducts++
		}
		if p.MonthlySales > 300 {
			stats.TrendAnalysis.HighSalesProducts++
		}
		if p.Competition == models.CompetitionLow {
			stats.TrendAnalysis.LowCompetitionProducts++
		}

		stats.ProfitAnalysis.TotalProfitPotential += profit
		if profit > 20 {
			stats.ProfitAnalysis.HighProfitProducts++
		}
		if p.Price > 0 {
			sumMargin += profit / p.Price * 100
			marginCount++
		}
	}

	scored := len(products) - stats.UnscorableCount
	if scored == 0 {
		stats.TopProduct = NoDataPlaceholder
		return stats
	}

	n := float64(scored)
	stats.AvgROI = round1(sumROI / n)
	stats.AvgProfit = round2(sumProfit / n)
	stats.TotalRevenue = round2(sumRevenue)

	for name, cat := range stats.CategoryBreakdown {
		cnt := float64(cat.Count)
		cat.AvgROI = round1(cat.AvgROI / cnt)
		cat.AvgProfit = round2(cat.AvgProfit / cnt)
		cat.TotalRevenue = round2(cat.TotalRevenue)
		stats.CategoryBreakdown[name] = cat
	}

	stats.ProfitAnalysis.TotalProfitPotential = round2(stats.ProfitAnalysis.TotalProfitPotential)
	if marginCount > 0 {
		stats.ProfitAnalysis.AvgProfitMargin = round2(sumMargin / float64(marginCount))
	}

	avgSales := float64(sumSales) / n
	stats.SalesAnalysis = SalesAnalysis{
		TotalMonthlySales: sumSales,
		AvgMonthlySales:   round1(avgSales),
		SalesVelocity:     salesVelocity(avgSales),
	}

	return stats
}

func roiBucket(roi float64) string {
	switch {
	case roi <= 50:
		return ROIBuckets[0]
	case roi <= 100:
		return ROIBuckets[1]
	case roi <= 150:
		return ROIBuckets[2]
	case roi <= 200:
		return ROIBuckets[3]
	default:
		return ROIBuckets[4]
	}
}

func salesVelocity(avg float64) string {
	switch {
	case avg > 400:
		return "high"
	case avg > 200:
		return "medium"
	default:
		return "low"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
