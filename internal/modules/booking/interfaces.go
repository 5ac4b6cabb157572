package booking

import (
	"context"

	"tourmarket/internal/domain"
	"tourmarket/internal/policy"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	SumPeople(ctx context.Context, tourID int64, date string, statuses ...domain.BookingStatus) (int, error)
	ExistsForUserTourDate(ctx context.Context, userID, tourID int64, date string) (bool, error)
	ListByUserWithTour(ctx context.Context, userID int64) ([]domain.Booking, error)
}

type TourRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Tour, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Tour, error)
}

type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Authorizer interface {
	Authorize(c domain.Caller, act policy.Action) error
}
