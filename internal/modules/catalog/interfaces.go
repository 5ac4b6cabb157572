package catalog

import (
	"context"

	"tourmarket/internal/domain"
	"tourmarket/internal/policy"
	"tourmarket/internal/repository"
)

type TourRepository interface {
	Create(ctx context.Context, t *domain.Tour) error
	GetByID(ctx context.Context, id int64) (*domain.Tour, error)
	Update(ctx context.Context, t *domain.Tour) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f repository.TourFilters) ([]domain.Tour, int64, error)
	ListByGuide(ctx context.Context, guideID int64) ([]domain.Tour, error)
}

// TourDependents removes rows that hang off a tour.
type TourDependents interface {
	DeleteByTour(ctx context.Context, tourID int64) error
}

type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Authorizer interface {
	Authorize(c domain.Caller, act policy.Action) error
}
