package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"tourmarket/internal/domain"
	"tourmarket/internal/repository"

	"gorm.io/gorm"
)

var seq atomic.Int64

// User inserts a user with the given role and returns it as a caller.
func User(t *testing.T, db *gorm.DB, role domain.UserRole) domain.Caller {
	t.Helper()
	n := seq.Add(1)
	u := &domain.User{
		FirstName:    "Test",
		LastName:     fmt.Sprintf("User%d", n),
		Email:        fmt.Sprintf("user%d@example.com", n),
		PasswordHash: "x",
		Role:         role,
	}
	if err := repository.NewUserRepository(db).Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return domain.Caller{ID: u.ID, Role: u.Role}
}

// TourOption tweaks a fixture tour before it is stored.
type TourOption func(*domain.Tour)

func WithMaxGroupSize(n int) TourOption {
	return func(t *domain.Tour) { t.MaxGroupSize = n }
}

func WithPrice(p float64) TourOption {
	return func(t *domain.Tour) { t.Price = p }
}

func WithDates(dates ...string) TourOption {
	return func(t *domain.Tour) { t.AvailableDates = dates }
}

func WithStatus(s domain.TourStatus, published bool) TourOption {
	return func(t *domain.Tour) {
		t.Status = s
		t.IsPublished = published
	}
}

func WithCity(city string) TourOption {
	return func(t *domain.Tour) { t.City = city }
}

// Tour inserts a bookable (approved and published) tour unless options say otherwise.
func Tour(t *testing.T, db *gorm.DB, guideID int64, opts ...TourOption) *domain.Tour {
	t.Helper()
	n := seq.Add(1)
	tour := &domain.Tour{
		Title:          fmt.Sprintf("Tour %d", n),
		Description:    "A walk through the old town",
		Price:          100,
		DurationHours:  48,
		MaxGroupSize:   10,
		Category:       domain.CategoryHistorical,
		City:           "Luxor",
		MeetingPoint:   "Main square",
		RatingsAverage: domain.DefaultRatingsAverage,
		GuideID:        guideID,
		Status:         domain.TourApproved,
		IsPublished:    true,
	}
	for _, opt := range opts {
		opt(tour)
	}
	if err := repository.NewTourRepository(db).Create(context.Background(), tour); err != nil {
		t.Fatalf("create tour: %v", err)
	}
	return tour
}

// Booking inserts a booking row directly, bypassing the booking rules.
func Booking(t *testing.T, db *gorm.DB, userID, tourID int64, date string, people int, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	b := &domain.Booking{
		UserID:         userID,
		BookingType:    domain.BookingTypeTour,
		TourID:         tourID,
		TourDate:       date,
		NumberOfPeople: people,
		TotalPrice:     float64(people) * 100,
		Status:         status,
	}
	if err := repository.NewBookingRepository(db).Create(context.Background(), b); err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return b
}
