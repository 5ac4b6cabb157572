package admin

import (
	"context"

	"tourmarket/internal/domain"
	"tourmarket/internal/policy"
	"tourmarket/internal/repository"
)

type TourRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Tour, error)
	SetStatus(ctx context.Context, id int64, status domain.TourStatus) error
	SetPublished(ctx context.Context, id int64, published bool) error
	List(ctx context.Context, f repository.TourFilters) ([]domain.Tour, int64, error)
}

// CustomTourModerator is implemented by community.Service.
type CustomTourModerator interface {
	AdminList(ctx context.Context, caller domain.Caller, status string) ([]domain.CustomTourRequest, error)
	SetStatus(ctx context.Context, caller domain.Caller, id int64, status domain.CustomTourStatus) (*domain.CustomTourRequest, error)
}

// BookingModerator is implemented by booking.Service.
type BookingModerator interface {
	SetStatus(ctx context.Context, caller domain.Caller, id int64, status domain.BookingStatus) (*domain.Booking, error)
}

type Authorizer interface {
	Authorize(c domain.Caller, act policy.Action) error
}
