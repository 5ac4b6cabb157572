package booking

import (
	"context"
	"errors"
	"sync"
	"testing"

	"tourmarket/internal/domain"
	"tourmarket/internal/pkg/keylock"
	"tourmarket/internal/policy"
	"tourmarket/internal/repository"
	"tourmarket/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	svc := NewService(
		repository.NewBookingRepository(db),
		repository.NewTourRepository(db),
		repository.NewTxManager(db),
		keylock.New(),
		policy.MustNew(),
		testutil.Logger(),
	)
	return svc, db
}

func book(tourID int64, date string, people int) CreateBookingRequest {
	return CreateBookingRequest{TourID: tourID, TourDate: date, NumberOfPeople: people}
}

func TestCreateBooking_Success(t *testing.T) {
	svc, db := newTestService(t)
	guide := testutil.User(t, db, domain.RoleGuide)
	traveler := testutil.User(t, db, domain.RoleTraveler)
	tour := testutil.Tour(t, db, guide.ID, testutil.WithPrice(75), testutil.WithDates("2024-06-01"))

	b, err := svc.CreateBooking(context.Background(), traveler, book(tour.ID, "2024-06-01T22:15:00Z", 3))
	require.NoError(t, err)

	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Equal(t, domain.BookingTypeTour, b.BookingType)
	assert.Equal(t, "2024-06-01", b.TourDate)
	assert.Equal(t, 225.0, b.TotalPrice)
	assert.Equal(t, traveler.ID, b.UserID)
}

func TestCreateBooking_ScenarioA_CapacityExceeded(t *testing.T) {
	svc, db := newTestService(t)
	guide := testutil.User(t, db, domain.RoleGuide)
	first := testutil.User(t, db, domain.RoleTraveler)
	second := testutil.User(t, db, domain.RoleTraveler)
	tour := testutil.Tour(t, db, guide.ID, testutil.WithMaxGroupSize(5))
	testutil.Booking(t, db, first.ID, tour.ID, "2024-06-01", 3, domain.BookingConfirmed)

	_, err := svc.CreateBooking(context.Background(), second, book(tour.ID, "2024-06-01", 3))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	var de *domain.Error
	require.True(t, errors.As(err, &de))
	require.NotNil(t, de.AvailableSlots)
	assert.Equal(t, 2, *de.AvailableSlots)

	_, err = svc.CreateBooking(context.Background(), second, book(tour.ID, "2024-06-01", 2))
	assert.NoError(t, err)
}

func TestCreateBooking_PreconditionOrder(t *testing.T) {
	svc, db := newTestService(t)
	guide := testutil.User(t, db, domain.RoleGuide)
	traveler := testutil.User(t, db, domain.RoleTraveler)
	ctx := context.Background()

	_, err := svc.CreateBooking(ctx, traveler, book(404, "2024-06-01", 1))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	unpublished := testutil.Tour(t, db, guide.ID, testutil.WithStatus(domain.TourApproved, false), testutil.WithDates("2024-07-01"))
	_, err = svc.CreateBooking(ctx, traveler, book(unpublished.ID, "2024-06-01", 1))
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Contains(t, err.Error(), "not currently available")

	scheduled := testutil.Tour(t, db, guide.ID, testutil.WithDates("2024-07-01"), testutil.WithMaxGroupSize(1))
	_, err = svc.CreateBooking(ctx, traveler, book(scheduled.ID, "2024-06-01", 5))
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Contains(t, err.Error(), "not available on the selected date")
}

func TestCreateBooking_InputRules(t *testing.T) {
	svc, db := newTestService(t)
	guide := testutil.User(t, db, domain.RoleGuide)
	traveler := testutil.User(t, db, domain.RoleTraveler)
	tour := testutil.Tour(t, db, guide.ID)
	ctx := context.Background()

	req := book(tour.ID, "2024-06-01", 1)
	req.BookingType = "hotel"
	_, err := svc.CreateBooking(ctx, traveler, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.CreateBooking(ctx, traveler, book(tour.ID, "next tuesday", 1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.CreateBooking(ctx, traveler, book(tour.ID, "2024-06-01", 0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.CreateBooking(ctx, guide, book(tour.ID, "2024-06-01", 1))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.CreateBooking(ctx, domain.Caller{}, book(tour.ID, "2024-06-01", 1))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCreateBooking_Duplicate(t *testing.T) {
	svc, db := newTestService(t)
	guide := testutil.User(t, db, domain.RoleGuide)
	traveler := testutil.User(t, db, domain.RoleTraveler)
	tour := testutil.Tour(t, db, guide.ID)
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, traveler, book(tour.ID, "2024-06-01", 1))
	require.NoError(t, err)

	_, err = svc.CreateBooking(ctx, traveler, book(tour.ID, "2024-06-01T10:00:00Z", 1))
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Cancelling does not reopen the same date for this traveler.
	_, err = svc.CancelBooking(ctx, traveler, b.ID)
	require.NoError(t, err)
	_, err = svc.CreateBooking(ctx, traveler, book(tour.ID, "2024-06-01", 1))
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.CreateBooking(ctx, traveler, book(tour.ID, "2024-06-02", 1))
	assert.NoError(t, err)
}

func TestCreateBooking_CapacityCountsEveryStatus(t *testing.T) {
	svc, db := newTestService(t)
	guide := testutil.User(t, db, domain.RoleGuide)
	other := testutil.User(t, db, domain.RoleTraveler)
	traveler := testutil.User(t, db, domain.RoleTraveler)
	tour := testutil.Tour(t, db, guide.ID, testutil.WithMaxGroupSize(4))
	testutil.Booking(t, db, other.ID, tour.ID, "2024-06-01", 3, domain.BookingCancelled)

	_, err := svc.CreateBooking(context.Background(), traveler, book(tour.ID, "2024-06-01", 2))
	var de *domain.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 1, *de.AvailableSlots)

	a, err := svc.GetAvailability(context.Background(), tour.ID, "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, 0, a.BookedSlots)
}

func TestCancelBooking_ScenarioB(t *testing.T) {
	svc, db := newTestService(t)
	guide := testutil.User(t, db, domain.RoleGuide)
	traveler := testutil.User(t, db, domain.RoleTraveler)
	other := testutil.User(t, db, domain.RoleTraveler)
	tour := testutil.Tour(t, db, guide.ID)
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, traveler, book(tour.ID, "2024-06-01", 2))
	require.NoError(t, err)
	testutil.Booking(t, db, other.ID, tour.ID, "2024-06-01", 1, domain.BookingConfirmed)

	a, err := svc.GetAvailability(ctx, tour.ID, "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, 3, a.BookedSlots)

	cancelled, err := svc.CancelBooking(ctx, traveler, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, cancelled.Status)

	a, err = svc.GetAvailability(ctx, tour.ID, "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, 1, a.BookedSlots)
	assert.Equal(t, 9, a.AvailableSlots)
}

func TestCancelBooking_Rules(t *testing.T) {
	svc, db := newTestService(t)
	guide := testutil.User(t, db, domain.RoleGuide)
	owner := testutil.User(t, db, domain.RoleTraveler)
	stranger := testutil.User(t, db, domain.RoleTraveler)
	tour := testutil.Tour(t, db, guide.ID)
	completed := testutil.Booking(t, db, owner.ID, tour.ID, "2024-05-01", 1, domain.BookingCompleted)
	pending := testutil.Booking(t, db, owner.ID, tour.ID, "2024-05-02", 1, domain.BookingPending)
	ctx := context.Background()

	_, err := svc.CancelBooking(ctx, owner, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.CancelBooking(ctx, stranger, pending.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.CancelBooking(ctx, owner, completed.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Contains(t, err.Error(), "Cannot cancel a booking with status 'completed'")

	_, err = svc.CancelBooking(ctx, owner, pending.ID)
	require.NoError(t, err)
	_, err = svc.CancelBooking(ctx, owner, pending.ID)
	assert.Contains(t, err.Error(), "'cancelled'")
}

func TestGetAvailability_Validation(t *testing.T) {
	svc, db := newTestService(t)
	guide := testutil.User(t, db, domain.RoleGuide)
	tour := testutil.Tour(t, db, guide.ID)

	_, err := svc.GetAvailability(context.Background(), tour.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.GetAvailability(context.Background(), 9999, "2024-06-01")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetMyBookings_NewestFirstWithTour(t *testing.T) {
	svc, db := newTestService(t)
	guide := testutil.User(t, db, domain.RoleGuide)
	traveler := testutil.User(t, db, domain.RoleTraveler)
	tour := testutil.Tour(t, db, guide.ID, testutil.WithCity("Petra"))
	ctx := context.Background()

	older, err := svc.CreateBooking(ctx, traveler, book(tour.ID, "2024-06-01", 1))
	require.NoError(t, err)
	newer, err := svc.CreateBooking(ctx, traveler, book(tour.ID, "2024-06-02", 1))
	require.NoError(t, err)

	list, err := svc.GetMyBookings(ctx, traveler)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
	require.NotNil(t, list[0].Tour)
	assert.Equal(t, tour.Title, list[0].Tour.Title)
	assert.Equal(t, "Petra", list[0].Tour.City)
}

func TestSetStatus_Transitions(t *testing.T) {
	svc, db := newTestService(t)
	guide := testutil.User(t, db, domain.RoleGuide)
	traveler := testutil.User(t, db, domain.RoleTraveler)
	admin := testutil.User(t, db, domain.RoleAdmin)
	tour := testutil.Tour(t, db, guide.ID)
	b := testutil.Booking(t, db, traveler.ID, tour.ID, "2024-06-01", 1, domain.BookingPending)
	ctx := context.Background()

	_, err := svc.SetStatus(ctx, traveler, b.ID, domain.BookingConfirmed)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.SetStatus(ctx, admin, b.ID, domain.BookingCompleted)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = svc.SetStatus(ctx, admin, b.ID, domain.BookingCancelled)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := svc.SetStatus(ctx, admin, b.ID, domain.BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, got.Status)

	got, err = svc.SetStatus(ctx, admin, b.ID, domain.BookingCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCompleted, got.Status)
}

func TestCreateBooking_ConcurrentLastSlots(t *testing.T) {
	svc, db := newTestService(t)
	guide := testutil.User(t, db, domain.RoleGuide)
	tour := testutil.Tour(t, db, guide.ID, testutil.WithMaxGroupSize(3))

	const attempts = 8
	travelers := make([]domain.Caller, attempts)
	for i := range travelers {
		travelers[i] = testutil.User(t, db, domain.RoleTraveler)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, full int
	)
	for _, tr := range travelers {
		wg.Add(1)
		go func(caller domain.Caller) {
			defer wg.Done()
			_, err := svc.CreateBooking(context.Background(), caller, book(tour.ID, "2024-06-01", 1))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInvalidState):
				full++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(tr)
	}
	wg.Wait()

	assert.Equal(t, 3, ok)
	assert.Equal(t, attempts-3, full)

	a, err := svc.GetAvailability(context.Background(), tour.ID, "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, 3, a.BookedSlots)
}
