package review

import (
	"context"
	"fmt"
	"strings"

	"tourmarket/internal/domain"
	"tourmarket/internal/pkg/keylock"
	"tourmarket/internal/policy"

	"github.com/sirupsen/logrus"
)

type Service struct {
	reviews    ReviewRepository
	bookings   BookingGate
	tours      TourStore
	aggregator *Aggregator
	tx         TxRunner
	locks      *keylock.Locker
	policy     Authorizer
	log        logrus.FieldLogger
}

func NewService(
	reviews ReviewRepository,
	bookings BookingGate,
	tours TourStore,
	tx TxRunner,
	locks *keylock.Locker,
	policy Authorizer,
	log logrus.FieldLogger,
) *Service {
	return &Service{
		reviews:    reviews,
		bookings:   bookings,
		tours:      tours,
		aggregator: NewAggregator(reviews, tours),
		tx:         tx,
		locks:      locks,
		policy:     policy,
		log:        log,
	}
}

func ratingKey(tourID int64) string {
	return fmt.Sprintf("ratings:tour:%d", tourID)
}

// mutate runs fn and the aggregate recompute for tourID in one transaction,
// serialized against other review writes on the same tour.
func (s *Service) mutate(ctx context.Context, tourID int64, fn func(ctx context.Context) error) error {
	unlock := s.locks.Lock(ratingKey(tourID))
	defer unlock()

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return err
		}
		avg, qty, err := s.aggregator.Recompute(ctx, tourID)
		if err != nil {
			return err
		}
		s.log.WithFields(logrus.Fields{"tour_id": tourID, "ratings_average": avg, "ratings_quantity": qty}).Debug("ratings recomputed")
		return nil
	})
}

// CreateReview requires a completed booking on the tour and allows one review per traveler.
func (s *Service) CreateReview(ctx context.Context, caller domain.Caller, tourID int64, req CreateReviewRequest) (*domain.Review, error) {
	if err := s.policy.Authorize(caller, policy.ReviewCreate); err != nil {
		return nil, err
	}
	if !domain.ValidRating(req.Rating) {
		return nil, domain.InvalidInput("Rating must be between 1 and 5")
	}

	rv := &domain.Review{
		TourID: tourID,
		UserID: caller.ID,
		Rating: req.Rating,
		Text:   strings.TrimSpace(req.Review),
	}

	err := s.mutate(ctx, tourID, func(ctx context.Context) error {
		if _, err := s.tours.GetByID(ctx, tourID); err != nil {
			return err
		}

		ok, err := s.bookings.HasCompletedBooking(ctx, caller.ID, tourID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.Forbidden("You can only review tours you have completed")
		}

		exists, err := s.reviews.ExistsForTourUser(ctx, tourID, caller.ID)
		if err != nil {
			return err
		}
		if exists {
			return domain.Conflict("You have already reviewed this tour")
		}

		return s.reviews.Create(ctx, rv)
	})
	if err != nil {
		return nil, err
	}
	return rv, nil
}

// UpdateReview lets the author change rating or text.
func (s *Service) UpdateReview(ctx context.Context, caller domain.Caller, reviewID int64, req UpdateReviewRequest) (*domain.Review, error) {
	if err := s.policy.Authorize(caller, policy.ReviewUpdate); err != nil {
		return nil, err
	}

	rv, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if rv.UserID != caller.ID {
		return nil, domain.Forbidden("You can only edit your own reviews")
	}

	if req.Rating != nil {
		if !domain.ValidRating(*req.Rating) {
			return nil, domain.InvalidInput("Rating must be between 1 and 5")
		}
		rv.Rating = *req.Rating
	}
	if req.Review != nil {
		rv.Text = strings.TrimSpace(*req.Review)
	}

	if err := s.mutate(ctx, rv.TourID, func(ctx context.Context) error {
		return s.reviews.Update(ctx, rv)
	}); err != nil {
		return nil, err
	}
	return s.reviews.GetByID(ctx, reviewID)
}

// DeleteReview is open to the author and admins. The tour reference is taken
// before the row disappears so the aggregate can still be recomputed.
func (s *Service) DeleteReview(ctx context.Context, caller domain.Caller, reviewID int64) error {
	if err := s.policy.Authorize(caller, policy.ReviewDelete); err != nil {
		return err
	}

	rv, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if rv.UserID != caller.ID && !caller.IsAdmin() {
		return domain.Forbidden("You can only delete your own reviews")
	}

	tourID := rv.TourID
	if err := s.mutate(ctx, tourID, func(ctx context.Context) error {
		return s.reviews.Delete(ctx, reviewID)
	}); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"review_id": reviewID, "tour_id": tourID, "user_id": caller.ID}).Info("review deleted")
	return nil
}

func (s *Service) ListTourReviews(ctx context.Context, tourID int64) ([]domain.Review, error) {
	if _, err := s.tours.GetByID(ctx, tourID); err != nil {
		return nil, err
	}
	return s.reviews.ListByTour(ctx, tourID)
}
