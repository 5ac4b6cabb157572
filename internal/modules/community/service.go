package community

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tourmarket/internal/domain"
	"tourmarket/internal/pkg/keylock"
	"tourmarket/internal/policy"

	"github.com/sirupsen/logrus"
)

type Service struct {
	requests CustomTourRepository
	tx       TxRunner
	locks    *keylock.Locker
	policy   Authorizer
	log      logrus.FieldLogger
}

func NewService(
	requests CustomTourRepository,
	tx TxRunner,
	locks *keylock.Locker,
	policy Authorizer,
	log logrus.FieldLogger,
) *Service {
	return &Service{
		requests: requests,
		tx:       tx,
		locks:    locks,
		policy:   policy,
		log:      log,
	}
}

func joinKey(id int64) string {
	return fmt.Sprintf("custom-tour:%d", id)
}

// Create proposes a community trip. The creator is its first participant.
func (s *Service) Create(ctx context.Context, caller domain.Caller, req CreateRequest) (*domain.CustomTourRequest, error) {
	if err := s.policy.Authorize(caller, policy.CustomTourCreate); err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Title) == "" {
		return nil, domain.InvalidInput("A custom tour must have a title")
	}
	if req.MaxGroupSize < domain.MinCustomGroupSize || req.MaxGroupSize > domain.MaxCustomGroupSize {
		return nil, domain.InvalidInput(fmt.Sprintf("maxGroupSize must be between %d and %d",
			domain.MinCustomGroupSize, domain.MaxCustomGroupSize))
	}
	date, err := domain.NormalizeDate(req.RequestedDate)
	if err != nil {
		return nil, err
	}

	r := &domain.CustomTourRequest{
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		City:          strings.TrimSpace(req.City),
		CoverImage:    req.CoverImage,
		RequestedDate: date,
		MaxGroupSize:  req.MaxGroupSize,
		CreatorID:     caller.ID,
		Participants:  []int64{caller.ID},
		Status:        domain.CustomTourPending,
	}
	if err := s.requests.Create(ctx, r); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"custom_tour_id": r.ID, "creator_id": caller.ID}).Info("custom tour requested")
	return r, nil
}

// Join adds the caller to an approved request. Appending the last free place
// flips the status to full in the same transaction.
func (s *Service) Join(ctx context.Context, caller domain.Caller, id int64) (*domain.CustomTourRequest, error) {
	if err := s.policy.Authorize(caller, policy.CustomTourJoin); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(joinKey(id))
	defer unlock()

	var out *domain.CustomTourRequest
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		r, err := s.requests.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if r.Status != domain.CustomTourApproved {
			return domain.InvalidStatef("Cannot join a tour request with status '%s'", r.Status)
		}
		if r.HasParticipant(caller.ID) {
			return domain.InvalidState("You have already joined this tour")
		}
		if r.IsFull() {
			return domain.InvalidState("This tour is full")
		}

		if err := s.requests.AddParticipant(ctx, id, caller.ID); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return domain.InvalidState("You have already joined this tour")
			}
			return err
		}
		r.Participants = append(r.Participants, caller.ID)

		if r.IsFull() {
			if err := s.requests.UpdateStatus(ctx, id, domain.CustomTourFull); err != nil {
				return err
			}
			r.Status = domain.CustomTourFull
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields := logrus.Fields{"custom_tour_id": id, "user_id": caller.ID, "participants": len(out.Participants)}
	if out.Status == domain.CustomTourFull {
		s.log.WithFields(fields).Info("custom tour is now full")
	} else {
		s.log.WithFields(fields).Info("custom tour joined")
	}
	return out, nil
}

// SetStatus approves or rejects a request. The current status is not checked.
func (s *Service) SetStatus(ctx context.Context, caller domain.Caller, id int64, status domain.CustomTourStatus) (*domain.CustomTourRequest, error) {
	if err := s.policy.Authorize(caller, policy.AdminModerate); err != nil {
		return nil, err
	}
	if status != domain.CustomTourApproved && status != domain.CustomTourRejected {
		return nil, domain.InvalidInput("Status must be either 'approved' or 'rejected'")
	}

	if err := s.requests.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"custom_tour_id": id, "status": status}).Info("custom tour moderated")
	return s.requests.GetByID(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.CustomTourRequest, error) {
	return s.requests.GetByID(ctx, id)
}

// ListAll returns the caller's own requests followed by every approved request.
// An approved request of the caller's therefore appears twice.
func (s *Service) ListAll(ctx context.Context, caller domain.Caller) ([]domain.CustomTourRequest, error) {
	approved, err := s.requests.ListByStatus(ctx, domain.CustomTourApproved)
	if err != nil {
		return nil, err
	}
	if !caller.Authenticated() {
		return approved, nil
	}

	mine, err := s.requests.ListByCreator(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	return append(mine, approved...), nil
}

func (s *Service) ListCreated(ctx context.Context, caller domain.Caller) ([]domain.CustomTourRequest, error) {
	if err := s.policy.Authorize(caller, policy.CustomTourListMine); err != nil {
		return nil, err
	}
	return s.requests.ListByCreator(ctx, caller.ID)
}

func (s *Service) ListJoined(ctx context.Context, caller domain.Caller) ([]domain.CustomTourRequest, error) {
	if err := s.policy.Authorize(caller, policy.CustomTourListMine); err != nil {
		return nil, err
	}
	return s.requests.ListJoinedNotCreated(ctx, caller.ID)
}

// AdminList filters by status; empty or "all" returns everything.
func (s *Service) AdminList(ctx context.Context, caller domain.Caller, status string) ([]domain.CustomTourRequest, error) {
	if err := s.policy.Authorize(caller, policy.AdminModerate); err != nil {
		return nil, err
	}

	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" || status == "all" {
		return s.requests.ListByStatus(ctx)
	}
	st := domain.CustomTourStatus(status)
	if !st.Valid() {
		return nil, domain.InvalidInput("unknown status: " + status)
	}
	return s.requests.ListByStatus(ctx, st)
}
