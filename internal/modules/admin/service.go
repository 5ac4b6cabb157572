package admin

import (
	"context"
	"strings"

	"tourmarket/internal/domain"
	"tourmarket/internal/policy"
	"tourmarket/internal/repository"

	"github.com/sirupsen/logrus"
)

// Service is the moderation gateway over tours, community requests and bookings.
type Service struct {
	tours       TourRepository
	customTours CustomTourModerator
	bookings    BookingModerator
	policy      Authorizer
	log         logrus.FieldLogger
}

func NewService(
	tours TourRepository,
	customTours CustomTourModerator,
	bookings BookingModerator,
	policy Authorizer,
	log logrus.FieldLogger,
) *Service {
	return &Service{
		tours:       tours,
		customTours: customTours,
		bookings:    bookings,
		policy:      policy,
		log:         log,
	}
}

// -------------------- Tours --------------------

// ListAllTours returns every tour regardless of visibility; "all" or empty means no filter.
func (s *Service) ListAllTours(ctx context.Context, caller domain.Caller, status string) ([]domain.Tour, error) {
	if err := s.policy.Authorize(caller, policy.AdminModerate); err != nil {
		return nil, err
	}

	status = strings.ToLower(strings.TrimSpace(status))
	if status == "all" {
		status = ""
	}
	if status != "" && !validTourStatus(domain.TourStatus(status)) {
		return nil, domain.InvalidInput("unknown status: " + status)
	}

	tours, _, err := s.tours.List(ctx, repository.TourFilters{
		Status: status,
		Sort:   "-createdAt",
		Limit:  -1,
	})
	return tours, err
}

func (s *Service) SetTourStatus(ctx context.Context, caller domain.Caller, id int64, status domain.TourStatus) (*domain.Tour, error) {
	if err := s.policy.Authorize(caller, policy.AdminModerate); err != nil {
		return nil, err
	}
	if status != domain.TourApproved && status != domain.TourRejected {
		return nil, domain.InvalidInput("Status must be either 'approved' or 'rejected'")
	}

	if err := s.tours.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"tour_id": id, "status": status, "admin_id": caller.ID}).Info("tour moderated")
	return s.tours.GetByID(ctx, id)
}

// SetTourPublished toggles public visibility. Only approved tours may be published.
func (s *Service) SetTourPublished(ctx context.Context, caller domain.Caller, id int64, published bool) (*domain.Tour, error) {
	if err := s.policy.Authorize(caller, policy.AdminModerate); err != nil {
		return nil, err
	}

	t, err := s.tours.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if published && t.Status != domain.TourApproved {
		return nil, domain.InvalidStatef("Cannot publish a tour with status '%s'", t.Status)
	}

	if err := s.tours.SetPublished(ctx, id, published); err != nil {
		return nil, err
	}
	t.IsPublished = published

	s.log.WithFields(logrus.Fields{"tour_id": id, "published": published, "admin_id": caller.ID}).Info("tour publication changed")
	return t, nil
}

// -------------------- Custom tours --------------------

func (s *Service) ListCustomTours(ctx context.Context, caller domain.Caller, status string) ([]domain.CustomTourRequest, error) {
	return s.customTours.AdminList(ctx, caller, status)
}

func (s *Service) SetCustomTourStatus(ctx context.Context, caller domain.Caller, id int64, status domain.CustomTourStatus) (*domain.CustomTourRequest, error) {
	return s.customTours.SetStatus(ctx, caller, id, status)
}

// -------------------- Bookings --------------------

func (s *Service) SetBookingStatus(ctx context.Context, caller domain.Caller, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	return s.bookings.SetStatus(ctx, caller, id, status)
}

func validTourStatus(s domain.TourStatus) bool {
	switch s {
	case domain.TourPending, domain.TourApproved, domain.TourRejected:
		return true
	}
	return false
}
