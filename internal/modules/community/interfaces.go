package community

import (
	"context"

	"tourmarket/internal/domain"
	"tourmarket/internal/policy"
)

type CustomTourRepository interface {
	Create(ctx context.Context, req *domain.CustomTourRequest) error
	GetByID(ctx context.Context, id int64) (*domain.CustomTourRequest, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.CustomTourRequest, error)
	AddParticipant(ctx context.Context, requestID, userID int64) error
	UpdateStatus(ctx context.Context, id int64, status domain.CustomTourStatus) error
	ListByStatus(ctx context.Context, statuses ...domain.CustomTourStatus) ([]domain.CustomTourRequest, error)
	ListByCreator(ctx context.Context, creatorID int64) ([]domain.CustomTourRequest, error)
	ListJoinedNotCreated(ctx context.Context, userID int64) ([]domain.CustomTourRequest, error)
}

type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Authorizer interface {
	Authorize(c domain.Caller, act policy.Action) error
}
