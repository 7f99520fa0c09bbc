package service

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sellscout/sellscout-backend-go/internal/analysis"
	"github.com/sellscout/sellscout-backend-go/internal/cache"
	"github.com/sellscout/sellscout-backend-go/internal/models"
	"github.com/sellscout/sellscout-backend-go/internal/repository"
)

const statsCacheTTL = 5 * time.Minute

// ScoredProduct is a product enriched with derived metrics and its
// composite score.
type ScoredProduct struct {
	models.Product
	EstimatedProfit  float64 `json:"estimated_profit"`
	EstimatedROI     float64 `json:"estimated_roi"`
	RevenuePotential float64 `json:"revenue_potential"`
	CompositeScore   int     `json:"comprehensive_score"`
}

// Overview is the dashboard projection of a user's product set.
type Overview struct {
	BasicStats struct {
		TotalProducts  int     `json:"total_products"`
		AvgROI         float64 `json:"avg_roi"`
		TotalRevenue   float64 `json:"total_revenue"`
		HighValueCount int     `json:"high_value_count"`
	} `json:"basic_stats"`
	RecentProducts       []ScoredProduct                   `json:"recent_products"`
	CategoryDistribution map[string]analysis.CategoryStats `json:"category_distribution"`
	PerformanceMetrics   struct {
		ProfitPotential float64 `json:"profit_potential"`
		SalesVelocity   string  `json:"sales_velocity"`
		TopProduct      string  `json:"top_product"`
	} `json:"performance_metrics"`
}

// ProductService manages product candidates and their derived statistics
type ProductService struct {
	products *repository.ProductRepository
	scorer   *analysis.Scorer
	cache    *cache.Cache
	log      zerolog.Logger
}

// NewProductService creates a new product service
func NewProductService(products *repository.ProductRepository, scorer *analysis.Scorer, c *cache.Cache, log zerolog.Logger) *ProductService {
	return &ProductService{
		products: products,
		scorer:   scorer,
		cache:    c,
		log:      log.With().Str("component", "products").Logger(),
	}
}

// List returns all of a user's products with scores
func (s *ProductService) List(userID int64) ([]ScoredProduct, error) {
	products, err := s.products.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return s.scoreAll(products), nil
}

// Create adds a product candidate
func (s *ProductService) Create(userID int64, req *models.CreateProductRequest) (*models.Product, error) {
	now := time.Now().UTC()
	rating := req.ReviewRating
	if rating == 0 {
		rating = 4.0
	}

	product := &models.Product{
		UserID:           userID,
		Name:             req.Name,
		Category:         req.Category,
		CurrentPrice:     req.CurrentPrice,
		EstimatedCost:    req.EstimatedCost,
		MonthlySales:     req.MonthlySales,
		CompetitionLevel: req.CompetitionLevel,
		ReviewRating:     rating,
		ProductURL:       req.ProductURL,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	id, err := s.products.Create(product)
	if err != nil {
		return nil, err
	}
	product.ID = id

	s.log.Info().Int64("user_id", userID).Str("name", product.Name).Msg("product added")
	return product, nil
}

// Update applies the non-nil fields of the request to a product
func (s *ProductService) Update(userID, productID int64, req *models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.products.GetByID(productID, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.CurrentPrice != nil {
		product.CurrentPrice = *req.CurrentPrice
	}
	if req.EstimatedCost != nil {
		product.EstimatedCost = *req.EstimatedCost
	}
	if req.MonthlySales != nil {
		product.MonthlySales = *req.MonthlySales
	}
	if req.CompetitionLevel != nil {
		product.CompetitionLevel = *req.CompetitionLevel
	}
	if req.ReviewRating != nil {
		product.ReviewRating = *req.ReviewRating
	}
	if req.ProductURL != nil {
		product.ProductURL = *req.ProductURL
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.products.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes one product
func (s *ProductService) Delete(userID, productID int64) error {
	return s.products.Delete(productID, userID)
}

// Clear removes all of a user's products and returns the count
func (s *ProductService) Clear(userID int64) (int64, error) {
	deleted, err := s.products.DeleteAllByUser(userID)
	if err != nil {
		return 0, err
	}
	s.log.Info().Int64("user_id", userID).Int64("deleted", deleted).Msg("products cleared")
	return deleted, nil
}

// DetailedStats computes the full statistics payload for a user's
// products, fronted by a short-lived cache keyed on the product-set
// fingerprint.
func (s *ProductService) DetailedStats(userID int64) (analysis.DetailedStats, error) {
	count, newest, err := s.products.Fingerprint(userID)
	if err != nil {
		return analysis.DetailedStats{}, err
	}

	key := fmt.Sprintf("stats|%d|%d|%s", userID, count, newest)
	if v, ok := s.cache.Get(key); ok {
		return v.(analysis.DetailedStats), nil
	}

	products, err := s.products.ListByUser(userID)
	if err != nil {
		return analysis.DetailedStats{}, err
	}

	stats := analysis.ComputeStats(Snapshots(products), s.scorer)
	s.cache.Set(key, stats, statsCacheTTL)
	return stats, nil
}

// Overview builds the dashboard projection: headline stats plus the five
// most recent scored products.
func (s *ProductService) Overview(userID int64) (*Overview, error) {
	products, err := s.products.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	stats := analysis.ComputeStats(Snapshots(products), s.scorer)

	recent := products
	if len(recent) > 5 {
		recent = recent[:5]
	}

	overview := &Overview{
		RecentProducts:       s.scoreAll(recent),
		CategoryDistribution: stats.CategoryBreakdown,
	}
	overview.BasicStats.TotalProducts = stats.TotalProducts
	overview.BasicStats.AvgROI = stats.AvgROI
	overview.BasicStats.TotalRevenue = stats.TotalRevenue
	overview.BasicStats.HighValueCount = stats.HighValueCount
	overview.PerformanceMetrics.ProfitPotential = stats.ProfitAnalysis.TotalProfitPotential
	overview.PerformanceMetrics.SalesVelocity = stats.SalesAnalysis.SalesVelocity
	overview.PerformanceMetrics.TopProduct = stats.TopProduct
	return overview, nil
}

func (s *ProductService) scoreAll(products []models.Product) []ScoredProduct {
	scored := make([]ScoredProduct, 0, len(products))
	for _, p := range products {
		score, _ := s.scorer.Score(SnapshotOf(&p))
		scored = append(scored, ScoredProduct{
			Product:          p,
			EstimatedProfit:  p.EstimatedProfit(),
			EstimatedROI:     p.EstimatedROI(),
			RevenuePotential: p.RevenuePotential(),
			CompositeScore:   score,
		})
	}
	return scored
}

// SnapshotOf converts a stored product into its read-only scoring view.
func SnapshotOf(p *models.Product) analysis.Snapshot {
	return analysis.Snapshot{
		Name:         p.Name,
		Category:     p.Category,
		Price:        p.CurrentPrice,
		Cost:         p.EstimatedCost,
		MonthlySales: p.MonthlySales,
		Competition:  p.CompetitionLevel,
		Rating:       p.ReviewRating,
	}
}

// Snapshots converts a product list into scoring views.
func Snapshots(products []models.Product) []analysis.Snapshot {
	out := make([]analysis.Snapshot, 0, len(products))
	for i := range products {
		out = append(out, SnapshotOf(&products[i]))
	}
	return out
}
