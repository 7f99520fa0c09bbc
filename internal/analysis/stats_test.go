package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellscout/sellscout-backend-go/internal/models"
)

func TestEmptyStatsShape(t *testing.T) {
	stats := ComputeStats(nil, NewScorer(nil))

	assert.Zero(t, stats.TotalProducts)
	assert.Zero(t, stats.AvgROI)
	assert.Zero(t, stats.TotalRevenue)
	assert.Equal(t, NoDataPlaceholder, stats.TopProduct)
	assert.NotNil(t, stats.CategoryBreakdown)
	assert.NotNil(t, stats.ROIDistribution)
	assert.Empty(t, stats.CategoryBreakdown)
}

func TestComputeStatsAggregates(t *testing.T) {
	products := []Snapshot{
		{
			Name: "Earbuds", Category: "Electronics",
			Price: 40, Cost: 20, MonthlySales: 600,
			Competition: models.CompetitionLow, Rating: 4.8,
		},
		{
			Name: "Yoga Mat", Category: "Sports",
			Price: 30, Cost: 20, MonthlySales: 200,
			Competition: models.CompetitionMedium, Rating: 4.2,
		},
	}

	stats := ComputeStats(products, NewScorer(nil))

	assert.Equal(t, 2, stats.TotalProducts)
	// ROIs are 100% and 50%.
	assert.Equal(t, 75.0, stats.AvgROI)
	// Profits are 20 and 10.
	assert.Equal(t, 15.0, stats.AvgProfit)
	// 40*600 + 30*200.
	assert.Equal(t, 30000.0, stats.TotalRevenue)
	assert.Equal(t, "Earbuds", stats.TopProduct)
	assert.Zero(t, stats.UnscorableCount)

	// Only the earbuds score (99) clears the high-value threshold.
	assert.Equal(t, 1, stats.HighValueCount)

	require.Contains(t, stats.CategoryBreakdown, "Electronics")
	electronics := stats.CategoryBreakdown["Electronics"]
	assert.Equal(t, 1, electronics.Count)
	assert.Equal(t, 100.0, electronics.AvgROI)
	assert.Equal(t, 24000.0, electronics.TotalRevenue)

	// Every bucket label is present; 50% lands in the bottom bucket
	// (bounds are inclusive on the upper edge), 100% in the second.
	for _, label := range ROIBuckets {
		assert.Contains(t, stats.ROIDistribution, label)
	}
	assert.Equal(t, 1, stats.ROIDistribution["0-50%"])
	assert.Equal(t, 1, stats.ROIDistribution["50-100%"])

	assert.Equal(t, 0, stats.TrendAnalysis.HighROIProducts)
	assert.Equal(t, 1, stats.TrendAnalysis.HighSalesProducts)
	assert.Equal(t, 1, stats.TrendAnalysis.LowCompetitionProducts)

	assert.Equal(t, 30.0, stats.ProfitAnalysis.TotalProfitPotential)
	assert.Equal(t, 0, stats.ProfitAnalysis.HighProfitProducts)
	// Margins are 50% and 33.33%.
	assert.Equal(t, 41.67, stats.ProfitAnalysis.AvgProfitMargin)

	assert.Equal(t, 800, stats.SalesAnalysis.TotalMonthlySales)
	assert.Equal(t, 400.0, stats.SalesAnalysis.AvgMonthlySales)
	assert.Equal(t, "medium", stats.SalesAnalysis.SalesVelocity)
}

func TestComputeStatsCountsUnscorable(t *testing.T) {
	products := []Snapshot{
		{Name: "Good", Price: 40, Cost: 20, MonthlySales: 600,
			Competition: models.CompetitionLow, Rating: 4.8},
		{Name: "Broken", Price: math.NaN(), Cost: 20, MonthlySales: 100, Rating: 4},
	}

	stats := ComputeStats(products, NewScorer(nil))

	assert.Equal(t, 2, stats.TotalProducts)
	assert.Equal(t, 1, stats.UnscorableCount)
	assert.Equal(t, 1, stats.HighValueCount)

	// The broken row stays out of the aggregates.
	assert.Equal(t, 100.0, stats.AvgROI)
	assert.Equal(t, "Good", stats.TopProduct)
	assert.Equal(t, 600, stats.SalesAnalysis.TotalMonthlySales)
}

func TestComputeStatsAllUnscorable(t *testing.T) {
	products := []Snapshot{
		{Name: "Broken", Price: math.Inf(1), Cost: 20, MonthlySales: 100, Rating: 4},
	}

	stats := ComputeStats(products, NewScorer(nil))

	assert.Equal(t, 1, stats.TotalProducts)
	assert.Equal(t, 1, stats.UnscorableCount)
	assert.Equal(t, NoDataPlaceholder, stats.TopProduct)
	assert.Zero(t, stats.AvgROI)
}

func TestSalesVelocityThresholds(t *testing.T) {
	assert.Equal(t, "high", salesVelocity(401))
	assert.Equal(t, "medium", salesVelocity(400))
	assert.Equal(t, "medium", salesVelocity(201))
	assert.Equal(t, "low", salesVelocity(200))
	assert.Equal(t, "low", salesVelocity(0))
}

func TestROIBucketEdges(t *testing.T) {
	assert.Equal(t, "0-50%", roiBucket(0))
	assert.Equal(t, "0-50%", roiBucket(50))
	assert.Equal(t, "50-100%", roiBucket(100))
	assert.Equal(t, "150-200%", roiBucket(200))
	assert.Equal(t, "200%+", roiBucket(200.01))
}
