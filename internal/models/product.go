package models

import "time"

// CompetitionLevel constants
const (
	CompetitionLow    = "low"
	CompetitionMedium = "medium"
	CompetitionHigh   = "high"
)

// Product represents a tracked product candidate
type Product struct {
	ID               int64     `json:"id" db:"id"`
	UserID           int64     `json:"user_id" db:"user_id"`
	Name             string    `json:"name" db:"name"`
	Category         string    `json:"category" db:"category"`
	CurrentPrice     float64   `json:"current_price" db:"current_price"`
	EstimatedCost    float64   `json:"estimated_cost" db:"estimated_cost"`
	MonthlySales     int       `json:"monthly_sales" db:"monthly_sales"`
	CompetitionLevel string    `json:"competition_level" db:"competition_level"`
	ReviewRating     float64   `json:"review_rating" db:"review_rating"`
	ProductURL       string    `json:"product_url" db:"product_url"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// EstimatedProfit is the margin per unit.
func (p *Product) EstimatedProfit() float64 {
	return p.CurrentPrice - p.EstimatedCost
}

// EstimatedROI is (price - cost) / cost * 100, or 0 when cost is not positive.
func (p *Product) EstimatedROI() float64 {
	if p.EstimatedCost <= 0 {
		return 0
	}
	return p.EstimatedProfit() / p.EstimatedCost * 100
}

// RevenuePotential is price times monthly sales.
func (p *Product) RevenuePotential() float64 {
	return p.CurrentPrice * float64(p.MonthlySales)
}

// CreateProductRequest represents a request to add a product
type CreateProductRequest struct {
	Name             string  `json:"name" binding:"required"`
	Category         string  `json:"category" binding:"required"`
	CurrentPrice     float64 `json:"current_price" binding:"required,gt=0"`
	EstimatedCost    float64 `json:"estimated_cost" binding:"required,gte=0"`
	MonthlySales     int     `json:"monthly_sales" binding:"required,gte=0"`
	CompetitionLevel string  `json:"competition_level" binding:"required,oneof=low medium high"`
	ReviewRating     float64 `json:"review_rating"`
	ProductURL       string  `json:"product_url"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name             *string  `json:"name,omitempty"`
	Category         *string  `json:"category,omitempty"`
	CurrentPrice     *float64 `json:"current_price,omitempty"`
	EstimatedCost    *float64 `json:"estimated_cost,omitempty"`
	MonthlySales     *int     `json:"monthly_sales,omitempty"`
	CompetitionLevel *string  `json:"competition_level,omitempty"`
	ReviewRating     *float64 `json:"review_rating,omitempty"`
	ProductURL       *string  `json:"product_url,omitempty"`
}
