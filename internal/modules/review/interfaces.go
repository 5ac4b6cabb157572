package review

import (
	"context"

	"tourmarket/internal/domain"
	"tourmarket/internal/policy"
)

type ReviewRepository interface {
	Create(ctx context.Context, rv *domain.Review) error
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	ExistsForTourUser(ctx context.Context, tourID, userID int64) (bool, error)
	Update(ctx context.Context, rv *domain.Review) error
	Delete(ctx context.Context, id int64) error
	ListByTour(ctx context.Context, tourID int64) ([]domain.Review, error)
	Stats(ctx context.Context, tourID int64) (count int, mean float64, err error)
}

type BookingGate interface {
	HasCompletedBooking(ctx context.Context, userID, tourID int64) (bool, error)
}

type TourStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Tour, error)
	UpdateRatings(ctx context.Context, id int64, average float64, quantity int) error
}

type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Authorizer interface {
	Authorize(c domain.Caller, act policy.Action) error
}
