package analysis

import (
	"fmt"
	"math"
	"time"

	"github.com/sellscout/sellscout-backend-go/internal/cache"
	"github.com/sellscout/sellscout-backend-go/internal/models"
)

// HighValueThreshold marks the composite score at which a product counts
// as high value.
const HighValueThreshold = 70

const scoreCacheTTL = 10 * time.Minute

// Scorer computes composite scores, optionally fronting repeated
// computations with a TTL cache. Results are identical hit or miss.
type Scorer struct {
	cache *cache.Cache
}

// NewScorer creates a scorer. cache may be nil.
func NewScorer(c *cache.Cache) *Scorer {
	return &Scorer{cache: c}
}

// Score returns the composite 0-100 score for a snapshot. The second
// return value is false when the snapshot carries values that cannot be
// scored; such products degrade to score 0 instead of aborting a batch.
func (sc *Scorer) Score(s Snapshot) (int, bool) {
	if !s.valid() {
		return 0, false
	}

	if sc.cache != nil {
		key := scoreKey(s)
		if v, ok := sc.cache.Get(key); ok {
			return v.(int), true
		}
		score := compositeScore(s)
		sc.cache.Set(key, score, scoreCacheTTL)
		return score, true
	}

	return compositeScore(s), true
}

// compositeScore is the deterministic weighted sum:
// ROI up to 40, sales up to 30, competition up to 20, rating up to 10.
// The rating component is fractional, so the sum is accumulated as a
// float and rounded once.
func compositeScore(s Snapshot) int {
	score := 0.0

	roi := s.ROI()
	switch {
	case roi > 70:
		score += 40
	case roi > 50:
		score += 30
	case roi > 30:
		score += 20
	default:
		score += 10
	}

	switch {
	case s.MonthlySales > 500:
		score += 30
	case s.MonthlySales > 300:
		score += 22
	case s.MonthlySales > 100:
		score += 15
	default:
		score += 8
	}

	switch s.Competition {
	case models.CompetitionLow:
		score += 20
	case models.CompetitionMedium:
		score += 13
	case models.CompetitionHigh:
		score += 6
	default:
		score += 10
	}

	rating := (s.Rating - 3) * 5
	if rating < 0 {
		rating = 0
	}
	if rating > 10 {
		rating = 10
	}
	score += rating

	return int(math.Round(score))
}

func scoreKey(s Snapshot) string {
	return fmt.Sprintf("score|%s|%.4f|%.4f|%d|%s|%.2f",
		s.Name, s.Price, s.Cost, s.MonthlySales, s.Competition, s.Rating)
}
