package review

import (
	"context"
	"math"

	"tourmarket/internal/domain"
)

// Aggregator recomputes a tour's rating summary from its reviews.
type Aggregator struct {
	reviews ReviewRepository
	tours   TourStore
}

func NewAggregator(reviews ReviewRepository, tours TourStore) *Aggregator {
	return &Aggregator{reviews: reviews, tours: tours}
}

// Recompute writes count and rounded mean back to the tour; no reviews resets to (0, 4.5).
func (a *Aggregator) Recompute(ctx context.Context, tourID int64) (average float64, quantity int, err error) {
	count, mean, err := a.reviews.Stats(ctx, tourID)
	if err != nil {
		return 0, 0, err
	}

	average, quantity = domain.DefaultRatingsAverage, 0
	if count > 0 {
		average, quantity = RoundRating(mean), count
	}

	if err := a.tours.UpdateRatings(ctx, tourID, average, quantity); err != nil {
		return 0, 0, err
	}
	return average, quantity, nil
}

// RoundRating rounds to one decimal and clamps into [1, 5].
func RoundRating(mean float64) float64 {
	r := math.Round(mean*10) / 10
	return math.Max(domain.MinRating, math.Min(domain.MaxRating, r))
}
