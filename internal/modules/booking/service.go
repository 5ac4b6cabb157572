package booking

import (
	"context"
	"fmt"

	"tourmarket/internal/domain"
	"tourmarket/internal/pkg/keylock"
	"tourmarket/internal/policy"

	"github.com/sirupsen/logrus"
)

type Service struct {
	bookings BookingRepository
	tours    TourRepository
	tx       TxRunner
	locks    *keylock.Locker
	policy   Authorizer
	log      logrus.FieldLogger
}

func NewService(
	bookings BookingRepository,
	tours TourRepository,
	tx TxRunner,
	locks *keylock.Locker,
	policy Authorizer,
	log logrus.FieldLogger,
) *Service {
	return &Service{
		bookings: bookings,
		tours:    tours,
		tx:       tx,
		locks:    locks,
		policy:   policy,
		log:      log,
	}
}

func capacityKey(tourID int64, date string) string {
	return fmt.Sprintf("tour:%d:%s", tourID, date)
}

// CreateBooking reserves places on a tour date. The capacity read, the duplicate
// check and the insert run under one per-(tour, date) lock and one transaction
// holding the tour row.
func (s *Service) CreateBooking(ctx context.Context, caller domain.Caller, req CreateBookingRequest) (*domain.Booking, error) {
	if err := s.policy.Authorize(caller, policy.BookingCreate); err != nil {
		return nil, err
	}

	switch domain.BookingType(req.BookingType) {
	case "", domain.BookingTypeTour:
	case domain.BookingTypeHotel:
		return nil, domain.InvalidInput("Hotel bookings are not supported yet")
	default:
		return nil, domain.InvalidInput("bookingType must be 'tour'")
	}
	if req.NumberOfPeople < 1 {
		return nil, domain.InvalidInput("numberOfPeople must be at least 1")
	}
	date, err := domain.NormalizeDate(req.TourDate)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(capacityKey(req.TourID, date))
	defer unlock()

	var created *domain.Booking
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		tour, err := s.tours.GetByIDForUpdate(ctx, req.TourID)
		if err != nil {
			return err
		}
		if !tour.PubliclyVisible() {
			return domain.InvalidState("This tour is not currently available for booking")
		}
		if !tour.AvailableOn(date) {
			return domain.InvalidState("This tour is not available on the selected date")
		}

		current, err := s.bookings.SumPeople(ctx, tour.ID, date)
		if err != nil {
			return err
		}
		if current+req.NumberOfPeople > tour.MaxGroupSize {
			return domain.CapacityExceeded(tour.MaxGroupSize - current)
		}

		exists, err := s.bookings.ExistsForUserTourDate(ctx, caller.ID, tour.ID, date)
		if err != nil {
			return err
		}
		if exists {
			return domain.Conflict("You have already booked this tour for the selected date")
		}

		b := &domain.Booking{
			UserID:         caller.ID,
			BookingType:    domain.BookingTypeTour,
			TourID:         tour.ID,
			TourDate:       date,
			NumberOfPeople: req.NumberOfPeople,
			TotalPrice:     tour.Price * float64(req.NumberOfPeople),
			Status:         domain.BookingPending,
		}
		if err := s.bookings.Create(ctx, b); err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": created.ID,
		"tour_id":    created.TourID,
		"tour_date":  created.TourDate,
		"people":     created.NumberOfPeople,
	}).Info("booking created")
	return created, nil
}

// CancelBooking lets the owner cancel a pending or confirmed booking.
func (s *Service) CancelBooking(ctx context.Context, caller domain.Caller, id int64) (*domain.Booking, error) {
	if err := s.policy.Authorize(caller, policy.BookingCancel); err != nil {
		return nil, err
	}

	var out *domain.Booking
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.bookings.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if b.UserID != caller.ID {
			return domain.Forbidden("You can only cancel your own bookings")
		}
		if !b.Status.Cancellable() {
			return domain.InvalidStatef("Cannot cancel a booking with status '%s'", b.Status)
		}
		if err := s.bookings.UpdateStatus(ctx, id, domain.BookingCancelled); err != nil {
			return err
		}
		b.Status = domain.BookingCancelled
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"booking_id": id, "user_id": caller.ID}).Info("booking cancelled")
	return out, nil
}

// GetAvailability reports how many places are taken by pending and confirmed bookings.
func (s *Service) GetAvailability(ctx context.Context, tourID int64, rawDate string) (*Availability, error) {
	date, err := domain.NormalizeDate(rawDate)
	if err != nil {
		return nil, err
	}

	tour, err := s.tours.GetByID(ctx, tourID)
	if err != nil {
		return nil, err
	}

	booked, err := s.bookings.SumPeople(ctx, tourID, date, domain.ActiveBookingStatuses...)
	if err != nil {
		return nil, err
	}

	available := tour.MaxGroupSize - booked
	if available < 0 {
		available = 0
	}
	return &Availability{
		TourID:         tourID,
		Date:           date,
		BookedSlots:    booked,
		MaxGroupSize:   tour.MaxGroupSize,
		AvailableSlots: available,
	}, nil
}

func (s *Service) GetMyBookings(ctx context.Context, caller domain.Caller) ([]domain.Booking, error) {
	if err := s.policy.Authorize(caller, policy.BookingListMine); err != nil {
		return nil, err
	}
	return s.bookings.ListByUserWithTour(ctx, caller.ID)
}

// SetStatus moves a booking along pending -> confirmed -> completed on an admin's behalf.
func (s *Service) SetStatus(ctx context.Context, caller domain.Caller, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	if err := s.policy.Authorize(caller, policy.AdminModerate); err != nil {
		return nil, err
	}
	if status != domain.BookingConfirmed && status != domain.BookingCompleted {
		return nil, domain.InvalidInput("status must be one of: confirmed, completed")
	}

	var out *domain.Booking
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.bookings.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !b.Status.CanTransitionTo(status) {
			return domain.InvalidStatef("Cannot change booking status from '%s' to '%s'", b.Status, status)
		}
		if err := s.bookings.UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		b.Status = status
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"booking_id": id, "status": status}).Info("booking status changed")
	return out, nil
}
