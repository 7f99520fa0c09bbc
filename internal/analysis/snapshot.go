package analysis

import "math"

// Snapshot is the read-only view of a product at scoring time.
type Snapshot struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Price        float64 `json:"current_price"`
	Cost         float64 `json:"estimated_cost"`
	MonthlySales int     `json:"monthly_sales"`
	Competition  string  `json:"competition_level"`
	Rating       float64 `json:"review_rating"`
}

// Profit is the estimated margin per unit.
func (s Snapshot) Profit() float64 {
	return s.Price - s.Cost
}

// ROI is (price - cost) / cost * 100, or 0 when cost is not positive.
func (s Snapshot) ROI() float64 {
	if s.Cost <= 0 {
		return 0
	}
	return s.Profit() / s.Cost * 100
}

// Revenue is the monthly revenue potential.
func (s Snapshot) Revenue() float64 {
	return s.Price * float64(s.MonthlySales)
}

func (s Snapshot) valid() bool {
	for _, v := range []float64{s.Price, s.Cost, s.Rating} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return s.Price >= 0 && s.Cost >= 0 && s.MonthlySales >= 0
}
